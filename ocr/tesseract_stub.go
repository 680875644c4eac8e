//go:build !ocr

package ocr

import (
	"context"
	"image"
)

// Tesseract is the stub Engine compiled without the "ocr" build tag. It
// keeps the pipeline linking on hosts without libtesseract; every
// recognition reports the capability as absent.
type Tesseract struct{}

// NewTesseract returns the stub engine.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Available reports false: no backend is compiled in.
func (t *Tesseract) Available() bool { return false }

// Recognize always returns ErrUnavailable.
func (t *Tesseract) Recognize(context.Context, image.Image, RecognizeOptions) (string, error) {
	return "", ErrUnavailable
}
