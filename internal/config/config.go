// Package config holds the engine configuration: fetch and browser
// timeouts, OCR collaborator settings and the HTTP listen address.
// Values come from viper (flags, ADEXTRACT_* env vars, optional YAML
// file) with defaults that match the production deployment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the validated engine configuration.
type Config struct {
	// FetchTimeout bounds the direct HTTP fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`

	// BrowserTimeout bounds a full headless-browser page load.
	BrowserTimeout time.Duration `mapstructure:"browser_timeout" validate:"gt=0"`

	// OCRBinary and RasterBinary are the external collaborators for
	// scanned documents. Paths or bare names resolved via PATH.
	OCRBinary    string `mapstructure:"ocr_binary" validate:"required"`
	RasterBinary string `mapstructure:"raster_binary" validate:"required"`

	// OCRLanguages is the tesseract language pack string.
	OCRLanguages string `mapstructure:"ocr_languages" validate:"required"`

	// MaxOCRPages caps how many pages of a scanned PDF are OCR'd.
	MaxOCRPages int `mapstructure:"max_ocr_pages" validate:"min=1,max=20"`

	// RasterDPI is the rasterization resolution for scanned PDFs.
	RasterDPI int `mapstructure:"raster_dpi" validate:"min=72,max=600"`

	// ListenAddr is the HTTP API bind address.
	ListenAddr string `mapstructure:"listen_addr" validate:"required,hostname_port"`

	// MaxUploadBytes caps an uploaded ad image or PDF.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`

	Debug bool `mapstructure:"debug"`
	Quiet bool `mapstructure:"quiet"`
}

// SetDefaults registers the default configuration values on a viper
// instance. Call before binding flags so explicit values win.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("browser_timeout", 30*time.Second)
	v.SetDefault("ocr_binary", "tesseract")
	v.SetDefault("raster_binary", "pdftoppm")
	v.SetDefault("ocr_languages", "eng+dan+deu+swe")
	v.SetDefault("max_ocr_pages", 3)
	v.SetDefault("raster_dpi", 300)
	v.SetDefault("listen_addr", "127.0.0.1:8090")
	v.SetDefault("max_upload_bytes", int64(16<<20))
}

// Load unmarshals and validates the configuration from a viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
