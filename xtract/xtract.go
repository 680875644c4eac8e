// Package xtract turns office documents, emails, web pages and scans into
// plain text. A Pipeline classifies each payload by MIME type and filename,
// routes it to a format extractor, falls back to OCR for image-only content
// and reports what happened through notes on the result.
//
// Usage:
//
//	p, err := xtract.New(xtract.Config{})
//	if err != nil { ... }
//	text, err := p.ExtractFile(ctx, "scan.pdf")
//
// Extraction is tolerant by contract: a damaged or unsupported document
// yields empty text plus a note, never an error, so one bad file cannot
// abort a batch.
package xtract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/textpipe/ocr"
	"github.com/hazyhaar/textpipe/textnorm"
)

// Result is the outcome of one extraction.
type Result struct {
	// Text is the extracted text. Empty when nothing could be read.
	Text string

	// Kind the payload classified as.
	Kind Kind

	// Notes carries human-readable diagnostics: skipped pages, fallbacks
	// taken, missing capabilities. Empty on a clean run.
	Notes []string
}

// Pipeline extracts text from documents. Safe for concurrent use.
type Pipeline struct {
	cfg      *Config
	logger   *slog.Logger
	detector *ocr.OrientationDetector
	langs    []string
}

// New builds a Pipeline from cfg. Zero-value fields get production defaults.
func New(cfg Config) (*Pipeline, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	det := ocr.NewOrientationDetector(cfg.Logger)
	det.MaxPixels = cfg.OSDMaxPixels
	det.EnableTrial = cfg.EnableTrialRotation
	det.Engine = cfg.Engine
	det.Langs = ocr.ParseLangs(cfg.OCRLang)

	return &Pipeline{
		cfg:      &cfg,
		logger:   cfg.Logger,
		detector: det,
		langs:    ocr.ParseLangs(cfg.OCRLang),
	}, nil
}

// Extract classifies and extracts one payload. The returned text is the raw
// extractor output; callers wanting canonical text run it through
// textnorm.Normalize or use ExtractFile. Extractor panics are contained and
// reported as a note.
func (p *Pipeline) Extract(ctx context.Context, payload Payload) (res Result) {
	kind := Classify(payload.name(), payload.MIME)
	res.Kind = kind

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("extractor panic", "kind", kind, "file", payload.name(), "panic", r)
			res.Text = ""
			res.Notes = append(res.Notes, fmt.Sprintf("extractor panic: %v", r))
		}
	}()

	data, err := payload.bytes()
	if err != nil {
		p.logger.Warn("payload unreadable", "file", payload.name(), "error", err)
		res.Notes = append(res.Notes, err.Error())
		return res
	}

	switch kind {
	case KindPDF:
		res.Text, res.Notes = p.extractPDF(ctx, data)
	case KindImage:
		res.Text, res.Notes = p.extractImage(ctx, data)
	case KindDocx:
		res.Text, res.Notes = p.extractDocx(data)
	case KindExcel:
		res.Text, res.Notes = p.extractExcel(data)
	case KindHTML:
		res.Text, res.Notes = p.extractHTML(data)
	case KindRTF:
		res.Text, res.Notes = p.extractRTF(data)
	case KindEmail:
		res.Text, res.Notes = p.extractEmail(data, payload.name())
	case KindText:
		res.Text = decodeText(data)
	default:
		p.logger.Info("unsupported format", "file", payload.name(), "mime", payload.MIME)
		res.Notes = append(res.Notes, fmt.Sprintf("unsupported format: %s", payload.name()))
	}
	return res
}

// ExtractBytes extracts raw text from in-memory content.
func (p *Pipeline) ExtractBytes(ctx context.Context, content []byte, filename, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res := p.Extract(ctx, FromBytes(content, filename, mimeType))
	return res.Text, nil
}

// ExtractFile extracts normalized text from a file on disk. This is the
// primary entry point: raw extractor output goes through textnorm.Normalize
// before it is returned.
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res := p.Extract(ctx, FromFile(path, "", ""))
	return textnorm.Normalize(res.Text), nil
}
