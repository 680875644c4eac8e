package ocr

import (
	"context"
	"image"
	"unicode"
)

var trialAngles = [...]int{0, 90, 180, 270}

// trial is the exploratory orientation fallback: OCR a cheap pass over each
// right-angle rotation and pick the angle whose output reads best, using the
// alphanumeric character count as a readability proxy. Returns false when the
// fallback is disabled or no engine is present.
func (d *OrientationDetector) trial(ctx context.Context, img image.Image) (Orientation, bool) {
	if !d.EnableTrial || d.Engine == nil || !d.Engine.Available() {
		return Orientation{}, false
	}

	bestAngle := 0
	bestScore := -1
	for _, angle := range trialAngles {
		candidate := Rotate(img, angle)
		txt, err := d.Engine.Recognize(ctx, candidate, RecognizeOptions{
			Langs:       d.Langs,
			PageSegMode: PSMSingleBlock,
		})
		if err != nil {
			d.Logger.Warn("trial rotation failed", "angle", angle, "error", err)
			continue
		}
		score := alnumCount(txt)
		d.Logger.Debug("trial rotation", "angle", angle, "score", score, "len", len(txt))
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}

	if bestScore < 0 {
		return Orientation{}, false
	}
	return Orientation{Method: MethodTrial, Angle: bestAngle, Confidence: -1, Reason: "trial best angle"}, true
}

func alnumCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
