//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is the libtesseract-backed Engine. One gosseract client is
// created per call: clients are cheap and not safe for concurrent use, and
// the pipeline runs recognitions from a worker pool.
type Tesseract struct{}

// NewTesseract returns the cgo-backed engine.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Available reports true: the backend is compiled in.
func (t *Tesseract) Available() bool { return true }

// Recognize runs one OCR pass over img.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, opts RecognizeOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("ocr png encode: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(opts.Langs) > 0 {
		if err := client.SetLanguage(opts.Langs...); err != nil {
			return "", fmt.Errorf("ocr set language %v: %w", opts.Langs, err)
		}
	}
	if opts.PageSegMode != 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return "", fmt.Errorf("ocr set psm %d: %w", opts.PageSegMode, err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("ocr set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr recognize: %w", err)
	}
	return text, nil
}
