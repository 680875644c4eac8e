package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
)

// OSD defaults. Detection quality is insensitive to resolution beyond a few
// megapixels, and downscaling keeps huge scans from stalling the pass.
const (
	defaultOSDMaxPixels = 8_000_000
	defaultOSDMinSide   = 50
	defaultOSDConfMin   = 3.0
)

// OrientationDetector decides the corrective rotation for a page image.
type OrientationDetector struct {
	// MaxPixels bounds the image handed to OSD; larger images are downscaled.
	MaxPixels int

	// MinSide rejects images too small for reliable detection.
	MinSide int

	// ConfidenceThreshold below which the OSD answer is flagged low-confidence.
	// The angle is still applied: a weak guess beats no correction.
	ConfidenceThreshold float64

	// EnableTrial turns on the exploratory rotate-and-score fallback when OSD
	// is unavailable or fails. Off by default: it costs four OCR passes.
	EnableTrial bool

	// Engine used only by the trial fallback.
	Engine Engine

	// Langs used only by the trial fallback.
	Langs []string

	Logger *slog.Logger

	// runOSD invokes the tesseract binary; replaced in tests.
	runOSD func(ctx context.Context, pngPath string) (string, error)

	// haveBinary reports whether the tesseract binary exists; replaced in tests.
	haveBinary func() bool
}

// NewOrientationDetector returns a detector with default budgets.
func NewOrientationDetector(logger *slog.Logger) *OrientationDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrientationDetector{
		MaxPixels:           defaultOSDMaxPixels,
		MinSide:             defaultOSDMinSide,
		ConfidenceThreshold: defaultOSDConfMin,
		Logger:              logger,
		runOSD:              runTesseractOSD,
		haveBinary:          osdBinary,
	}
}

var osdBinary = sync.OnceValue(func() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
})

// Detect returns the corrective rotation for img. The angle is always one of
// 0, 90, 180, 270 and a reason is always recorded.
func (d *OrientationDetector) Detect(ctx context.Context, img image.Image) Orientation {
	if img == nil {
		return Orientation{Method: MethodSkip, Angle: 0, Confidence: -1, Reason: "no image"}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < d.MinSide || h < d.MinSide {
		reason := fmt.Sprintf("image too small for OSD: %dx%d", w, h)
		d.Logger.Info("osd skipped", "reason", reason)
		return Orientation{Method: MethodSkip, Angle: 0, Confidence: -1, Reason: reason}
	}

	if !d.haveBinary() {
		if o, ok := d.trial(ctx, img); ok {
			return o
		}
		reason := "tesseract binary not found"
		d.Logger.Info("osd skipped", "reason", reason)
		return Orientation{Method: MethodSkip, Angle: 0, Confidence: -1, Reason: reason}
	}

	out, err := d.osdOutput(ctx, prepareForOSD(img, d.MaxPixels))
	if err != nil {
		// Typical: "Too few characters. Skipping this page".
		d.Logger.Warn("osd failed", "error", err)
		if o, ok := d.trial(ctx, img); ok {
			return o
		}
		return Orientation{Method: MethodSkip, Angle: 0, Confidence: -1, Reason: fmt.Sprintf("osd failed: %v", err)}
	}

	angle, conf, ok := parseOSD(out)
	if !ok {
		d.Logger.Info("osd angle not parsed", "size", fmt.Sprintf("%dx%d", w, h))
		return Orientation{Method: MethodOSD, Angle: 0, Confidence: conf, Reason: "angle not parsed"}
	}

	d.Logger.Info("osd result", "angle", angle, "confidence", conf, "size", fmt.Sprintf("%dx%d", w, h))

	reason := "rotated by OSD"
	if angle == 0 {
		reason = "no rotation needed"
	}
	if conf >= 0 && conf < d.ConfidenceThreshold {
		reason = fmt.Sprintf("low confidence %.2f < %.2f, angle applied anyway", conf, d.ConfidenceThreshold)
	}
	return Orientation{Method: MethodOSD, Angle: angle, Confidence: conf, Reason: reason}
}

// osdOutput writes img to a temporary PNG and runs the OSD pass over it.
// The temporary file is removed on every path.
func (d *OrientationDetector) osdOutput(ctx context.Context, img image.Image) (string, error) {
	f, err := os.CreateTemp("", "textpipe-osd-*.png")
	if err != nil {
		return "", fmt.Errorf("osd temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("osd png encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return d.runOSD(ctx, path)
}

func runTesseractOSD(ctx context.Context, pngPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", pngPath, "stdout", "--psm", "0", "-l", "osd")
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("tesseract osd: %v: %s", err, ee.Stderr)
		}
		return "", fmt.Errorf("tesseract osd: %w", err)
	}
	return string(out), nil
}

// prepareForOSD converts to greyscale and downscales to the pixel budget.
func prepareForOSD(img image.Image, maxPixels int) image.Image {
	if maxPixels <= 0 {
		maxPixels = defaultOSDMaxPixels
	}
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total > maxPixels {
		k := math.Sqrt(float64(maxPixels) / float64(total))
		w := max(1, int(float64(b.Dx())*k))
		img = imaging.Resize(img, w, 0, imaging.Lanczos)
	}
	return imaging.Grayscale(img)
}

var (
	osdRotateRe = regexp.MustCompile(`(?i)Rotate:\s*(\d+)`)
	osdOrientRe = regexp.MustCompile(`(?i)Orientation in degrees:\s*(\d+)`)
	osdConfRe   = regexp.MustCompile(`(?i)Orientation confidence:\s*([0-9]+(?:\.[0-9]+)?)`)
)

// parseOSD extracts a corrective angle from tesseract OSD output. Two output
// formats exist: "Rotate: N" is already the corrective rotation, while
// "Orientation in degrees: N" reports the page's current orientation and
// needs sign inversion. The angle is clamped to the nearest right angle.
func parseOSD(out string) (angle int, conf float64, ok bool) {
	conf = -1
	if m := osdConfRe.FindStringSubmatch(out); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			conf = v
		}
	}

	if m := osdRotateRe.FindStringSubmatch(out); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, conf, false
		}
		return clampRightAngle(v), conf, true
	}
	if m := osdOrientRe.FindStringSubmatch(out); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, conf, false
		}
		return clampRightAngle(360 - v), conf, true
	}
	return 0, conf, false
}

// clampRightAngle snaps an arbitrary angle to the nearest of 0/90/180/270.
func clampRightAngle(angle int) int {
	a := ((angle % 360) + 360) % 360
	return ((a + 45) / 90 * 90) % 360
}
