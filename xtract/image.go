package xtract

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/hazyhaar/textpipe/ocr"
)

// extractImage OCRs a standalone raster image: decode, correct orientation,
// recognize with automatic page segmentation.
func (p *Pipeline) extractImage(ctx context.Context, data []byte) (string, []string) {
	if !p.cfg.Engine.Available() {
		p.logger.Info("image skipped, ocr unavailable")
		return "", []string{"image skipped: ocr unavailable"}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.logger.Warn("image decode failed", "error", err)
		return "", []string{fmt.Sprintf("image decode failed: %v", err)}
	}

	var notes []string
	o := p.detector.Detect(ctx, img)
	if o.Angle != 0 {
		p.logger.Info("image rotation", "angle", o.Angle, "method", o.Method, "format", format)
		img = ocr.Rotate(img, o.Angle)
	}

	text, err := p.cfg.Engine.Recognize(ctx, img, ocr.RecognizeOptions{
		Langs:       p.langs,
		PageSegMode: ocr.PSMAuto,
	})
	if err != nil {
		p.logger.Warn("image ocr failed", "format", format, "error", err)
		return "", append(notes, fmt.Sprintf("image ocr failed: %v", err))
	}
	return text, notes
}
