package xtract

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/textpipe/ocr"
)

// Config configures a Pipeline. The zero value is usable: defaults() fills
// in the production settings.
type Config struct {
	// OCRLang is the tesseract language selector (default: "rus+eng").
	OCRLang string `json:"ocr_lang" yaml:"ocr_lang"`

	// TargetDPI is the page rasterization resolution for OCR (default: 300).
	TargetDPI int `json:"target_dpi" yaml:"target_dpi"`

	// MaxPixels caps the total pixel count of a rasterized page; the DPI is
	// reduced proportionally rather than failing (default: 100M).
	MaxPixels int `json:"max_pixels" yaml:"max_pixels"`

	// MaxSidePx caps the longest side of a rasterized page (default: 3500).
	MaxSidePx int `json:"max_side_px" yaml:"max_side_px"`

	// OSDMaxPixels is the downscale budget for orientation detection
	// (default: 8M).
	OSDMaxPixels int `json:"osd_max_pixels" yaml:"osd_max_pixels"`

	// OCRWorkers bounds the per-document OCR worker pool (default: 4).
	OCRWorkers int `json:"ocr_workers" yaml:"ocr_workers"`

	// MinTextChars is the non-whitespace character count above which a PDF
	// page counts as having a native text layer (default: 16).
	MinTextChars int `json:"min_text_chars" yaml:"min_text_chars"`

	// CyrillicThreshold is the Cyrillic-density ratio under which a native
	// text layer is suspected wrong and OCR is tried anyway (default: 0.40).
	// Set negative to disable the heuristic for non-Russian corpora.
	CyrillicThreshold float64 `json:"cyrillic_threshold" yaml:"cyrillic_threshold"`

	// EnableTrialRotation turns on the exploratory four-angle orientation
	// fallback (default: off; costs four OCR passes per page tried).
	EnableTrialRotation bool `json:"enable_trial_rotation" yaml:"enable_trial_rotation"`

	// Engine is the OCR backend (default: the built-in tesseract engine).
	Engine ocr.Engine `json:"-" yaml:"-"`

	// Logger for pipeline diagnostics (default: slog.Default()).
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.OCRLang == "" {
		c.OCRLang = "rus+eng"
	}
	if c.TargetDPI <= 0 {
		c.TargetDPI = 300
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = 100_000_000
	}
	if c.MaxSidePx <= 0 {
		c.MaxSidePx = 3500
	}
	if c.OSDMaxPixels <= 0 {
		c.OSDMaxPixels = 8_000_000
	}
	if c.OCRWorkers <= 0 {
		c.OCRWorkers = 4
	}
	if c.MinTextChars <= 0 {
		c.MinTextChars = 16
	}
	if c.CyrillicThreshold == 0 {
		c.CyrillicThreshold = 0.40
	}
	if c.Engine == nil {
		c.Engine = ocr.NewTesseract()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfig reads and parses a YAML config file, merged over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that tuning values are sane.
func (c *Config) Validate() error {
	if c.OCRWorkers <= 0 {
		return fmt.Errorf("ocr_workers must be > 0")
	}
	if c.TargetDPI <= 0 {
		return fmt.Errorf("target_dpi must be > 0")
	}
	if c.MaxPixels <= 0 || c.MaxSidePx <= 0 {
		return fmt.Errorf("rasterization budgets must be > 0")
	}
	if c.CyrillicThreshold > 1 {
		return fmt.Errorf("cyrillic_threshold must be <= 1")
	}
	return nil
}
