package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nordbil/adextract/internal/normalize"
	"github.com/nordbil/adextract/pkg/adparse"
)

const sampleAdText = `Mercedes-Benz EQB 250+ 2023
449 900 kr
Miltal: 670 mil
Säljs av Bilbolaget Göteborg AB
BLOCKET`

type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) ImageToText(context.Context, string) (string, error) { return s.text, s.err }
func (s *stubOCR) Available() bool                                     { return s.err == nil }

func newTestRouter(t *testing.T, engine normalize.OCR) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	parser := adparse.New(adparse.WithOCR(engine))
	RegisterRoutes(r, NewHandler(parser, 16<<20))
	return r
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, &stubOCR{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestParseAdRequiresInput(t *testing.T) {
	r := newTestRouter(t, &stubOCR{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parse-ad", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ingen fil eller URL angivet") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestParseAdRejectsBadExtension(t *testing.T) {
	r := newTestRouter(t, &stubOCR{text: sampleAdText})
	body, contentType := multipartUpload(t, "ad_image", "ad.exe", []byte("nope"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parse-ad", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ugyldig filtype") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestParseAdImage(t *testing.T) {
	r := newTestRouter(t, &stubOCR{text: sampleAdText})
	body, contentType := multipartUpload(t, "ad_image", "annonce.png", []byte("png bytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parse-ad", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result adparse.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Make != "Mercedes-Benz" {
		t.Errorf("Make = %q, want Mercedes-Benz", result.Make)
	}
	if result.Mileage != 6700 {
		t.Errorf("Mileage = %d, want 6700", result.Mileage)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID")
	}
}

func TestParseAdOCRUnavailable(t *testing.T) {
	r := newTestRouter(t, &stubOCR{err: normalize.ErrCapabilityUnavailable})
	body, contentType := multipartUpload(t, "ad_image", "annonce.jpg", []byte("jpg bytes"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parse-ad", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "OCR") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestParseAdURL(t *testing.T) {
	page := "<html><body>" +
		strings.Repeat("<p>Udstyr og beskrivelse af bilen med rigeligt indhold til siden.</p>", 15) +
		"<p>" + strings.ReplaceAll(sampleAdText, "\n", "<br>") + "</p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	r := newTestRouter(t, &stubOCR{})
	form := url.Values{"ad_url": {srv.URL}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/parse-ad", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result adparse.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.AdURL != srv.URL {
		t.Errorf("AdURL = %q, want %q", result.AdURL, srv.URL)
	}
	if result.Make != "Mercedes-Benz" {
		t.Errorf("Make = %q", result.Make)
	}
}
