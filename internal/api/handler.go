// Package api exposes the extraction engine over HTTP. The single
// operational route is POST /parse-ad, which accepts either an ad_url
// form value or an ad_image upload (screenshot or PDF) and returns the
// extracted listing as JSON.
package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nordbil/adextract/internal/logger"
	"github.com/nordbil/adextract/pkg/adparse"
)

// allowedExtensions is the upload whitelist. Everything in it funnels
// through OCR except .pdf, which tries embedded text first.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".bmp": true, ".webp": true,
	".pdf": true,
}

// Handler serves the extraction routes.
type Handler struct {
	parser         *adparse.Parser
	maxUploadBytes int64
}

// NewHandler wires a handler around a parser.
func NewHandler(parser *adparse.Parser, maxUploadBytes int64) *Handler {
	return &Handler{parser: parser, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the API on a gin engine.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(requestID())
	r.GET("/healthz", h.Health)
	r.POST("/parse-ad", h.ParseAd)
}

// requestID tags every request with a UUID for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Health: GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ParseAd: POST /parse-ad
// Form: ad_url=<listing url>  OR  ad_image=<multipart file>
func (h *Handler) ParseAd(c *gin.Context) {
	reqID := c.GetString("request_id")

	if adURL := strings.TrimSpace(c.PostForm("ad_url")); adURL != "" {
		h.parseURL(c, reqID, adURL)
		return
	}

	file, err := c.FormFile("ad_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingen fil eller URL angivet"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingen fil valgt"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Ugyldig filtype. Brug PNG, JPG, PDF eller andre billedformater",
		})
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Filen er for stor"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Info("parsing uploaded ad", "request_id", reqID,
		"filename", file.Filename, "bytes", len(data))

	var result *adparse.Result
	if ext == ".pdf" {
		result, err = h.parser.ParsePDF(c.Request.Context(), data)
	} else {
		result, err = h.parser.ParseImage(c.Request.Context(), data)
	}
	if err != nil {
		if errors.Is(err, adparse.ErrCapabilityUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "OCR er ikke installeret på serveren",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) parseURL(c *gin.Context, reqID, adURL string) {
	logger.Info("parsing ad url", "request_id", reqID, "url", adURL)

	result, err := h.parser.ParseURL(c.Request.Context(), adURL)
	if err != nil {
		logger.Warn("url parse failed", "request_id", reqID, "url", adURL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	// A blocked source is still a JSON result: the frontend renders the
	// help text instead of the field grid.
	c.JSON(http.StatusOK, result)
}
