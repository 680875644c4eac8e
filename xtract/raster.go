package xtract

import (
	"fmt"
	"image"
	"math"

	"github.com/gen2brain/go-fitz"
)

// rasterDPI computes the rendering resolution for a page of the given size
// in points. The target DPI is reduced when the render would exceed the
// total pixel budget or the per-side cap, with a floor so degenerate page
// geometry still renders something.
func rasterDPI(bounds image.Rectangle, targetDPI, maxPixels, maxSidePx int) float64 {
	wPt, hPt := float64(bounds.Dx()), float64(bounds.Dy())
	if wPt <= 0 || hPt <= 0 {
		return float64(targetDPI)
	}

	zoom := float64(targetDPI) / 72.0

	px := wPt * zoom * hPt * zoom
	if px > float64(maxPixels) {
		zoom *= math.Sqrt(float64(maxPixels) / px)
	}
	if side := math.Max(wPt, hPt) * zoom; side > float64(maxSidePx) {
		zoom *= float64(maxSidePx) / side
	}
	if zoom < 0.1 {
		zoom = 0.1
	}
	return zoom * 72.0
}

// rasterizePage renders one page within the configured pixel budgets.
func (p *Pipeline) rasterizePage(doc *fitz.Document, page int) (image.Image, error) {
	bounds, err := doc.Bound(page)
	if err != nil {
		return nil, fmt.Errorf("page %d bounds: %w", page, err)
	}
	dpi := rasterDPI(bounds, p.cfg.TargetDPI, p.cfg.MaxPixels, p.cfg.MaxSidePx)
	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("page %d render at %.0f dpi: %w", page, dpi, err)
	}
	return img, nil
}
