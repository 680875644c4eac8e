// Package ocr wraps the Tesseract OCR engine and its orientation/script
// detection (OSD) pass.
//
// Text recognition goes through the Engine interface. The production
// implementation binds libtesseract via gosseract and is compiled in with
// the "ocr" build tag; without the tag a stub reports the capability as
// absent and callers degrade gracefully. OSD runs through the tesseract
// binary itself, the same way pytesseract drives it.
package ocr

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnavailable is returned when no OCR backend is compiled in or the
// tesseract binary cannot be found. It marks a deployment gap, not bad input.
var ErrUnavailable = errors.New("ocr: tesseract backend not available")

// Tesseract page segmentation modes used by the pipeline.
const (
	PSMAuto        = 3 // fully automatic segmentation, used for standalone images
	PSMSingleBlock = 6 // uniform block of text, used for scanned document pages
)

// RecognizeOptions selects the language model and layout mode for one pass.
type RecognizeOptions struct {
	// Langs lists traineddata models, e.g. ["rus", "eng"].
	Langs []string

	// PageSegMode is a PSM_* value; zero means engine default.
	PageSegMode int
}

// Engine performs OCR on a raster image.
type Engine interface {
	// Recognize runs OCR and returns the recognized text.
	Recognize(ctx context.Context, img image.Image, opts RecognizeOptions) (string, error)

	// Available reports whether a real backend is present.
	Available() bool
}

// ParseLangs splits a tesseract language selector such as "rus+eng".
func ParseLangs(lang string) []string {
	var langs []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// Orientation is the outcome of a page-orientation decision. It is always
// produced: detection failures degrade to Angle 0 with the Reason recorded.
type Orientation struct {
	Method     string  // "osd", "trial" or "skip"
	Angle      int     // corrective clockwise rotation: 0, 90, 180 or 270
	Confidence float64 // OSD confidence, -1 when unknown
	Reason     string
}

const (
	MethodOSD   = "osd"
	MethodTrial = "trial"
	MethodSkip  = "skip"
)

// Rotate applies a corrective clockwise rotation of angle degrees.
// Angles outside {90, 180, 270} return the image unchanged.
func Rotate(img image.Image, angle int) image.Image {
	switch ((angle % 360) + 360) % 360 {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
