package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
)

func TestParseOSDRotateFormat(t *testing.T) {
	out := `Page number: 0
Orientation in degrees: 270
Rotate: 90
Orientation confidence: 12.34
Script: Cyrillic
Script confidence: 9.87
`
	angle, conf, ok := parseOSD(out)
	if !ok {
		t.Fatal("expected angle to parse")
	}
	if angle != 90 {
		t.Errorf("angle = %d, want 90", angle)
	}
	if conf != 12.34 {
		t.Errorf("conf = %v, want 12.34", conf)
	}
}

func TestParseOSDOrientationFormat(t *testing.T) {
	// No Rotate line: the orientation value needs sign inversion.
	out := "Orientation in degrees: 90\nOrientation confidence: 5.0\n"
	angle, conf, ok := parseOSD(out)
	if !ok {
		t.Fatal("expected angle to parse")
	}
	if angle != 270 {
		t.Errorf("angle = %d, want 270", angle)
	}
	if conf != 5.0 {
		t.Errorf("conf = %v, want 5.0", conf)
	}
}

func TestParseOSDNoAngle(t *testing.T) {
	angle, conf, ok := parseOSD("Script: Latin\n")
	if ok {
		t.Fatal("expected parse failure")
	}
	if angle != 0 || conf != -1 {
		t.Errorf("got angle=%d conf=%v, want 0 and -1", angle, conf)
	}
}

func TestClampRightAngle(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {90, 90}, {180, 180}, {270, 270}, {360, 0},
		{89, 90}, {91, 90}, {44, 0}, {46, 90}, {181, 180},
		{-90, 270}, {300, 270}, {316, 0},
	}
	for _, tt := range tests {
		if got := clampRightAngle(tt.in); got != tt.want {
			t.Errorf("clampRightAngle(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDetectTinyImage(t *testing.T) {
	d := NewOrientationDetector(nil)
	o := d.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if o.Angle != 0 {
		t.Errorf("angle = %d, want 0", o.Angle)
	}
	if o.Method != MethodSkip {
		t.Errorf("method = %q, want skip", o.Method)
	}
	if o.Reason == "" {
		t.Error("reason must be populated")
	}
}

func TestDetectAngleDomain(t *testing.T) {
	// Whatever the OSD pass reports, Detect must answer with a right angle.
	outputs := []string{
		"Rotate: 93\n",
		"Rotate: 270\nOrientation confidence: 0.5\n",
		"Orientation in degrees: 180\n",
		"garbage",
	}
	for _, out := range outputs {
		d := NewOrientationDetector(nil)
		d.haveBinary = func() bool { return true }
		d.runOSD = func(context.Context, string) (string, error) { return out, nil }
		o := d.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 200, 200)))
		switch o.Angle {
		case 0, 90, 180, 270:
		default:
			t.Errorf("output %q: angle %d outside domain", out, o.Angle)
		}
	}
}

// fakeEngine returns canned text per angle for trial tests.
type fakeEngine struct {
	byWidth map[int]string
	calls   int
}

func (f *fakeEngine) Available() bool { return true }

func (f *fakeEngine) Recognize(_ context.Context, img image.Image, _ RecognizeOptions) (string, error) {
	f.calls++
	if txt, ok := f.byWidth[img.Bounds().Dx()]; ok {
		return txt, nil
	}
	return "", errors.New("no canned text")
}

func TestTrialPicksMostReadableAngle(t *testing.T) {
	// A 300x100 image rotated by 90 or 270 presents as 100x300. The fake
	// engine reads best at the upright width.
	img := image.NewRGBA(image.Rect(0, 0, 300, 100))
	eng := &fakeEngine{byWidth: map[int]string{
		300: "a",
		100: strings.Repeat("word ", 20),
	}}
	d := NewOrientationDetector(nil)
	d.EnableTrial = true
	d.Engine = eng
	o, ok := d.trial(context.Background(), img)
	if !ok {
		t.Fatal("trial did not run")
	}
	if o.Method != MethodTrial {
		t.Errorf("method = %q, want trial", o.Method)
	}
	// 90 and 270 both give width 100; the first winner is kept.
	if o.Angle != 90 {
		t.Errorf("angle = %d, want 90", o.Angle)
	}
	if eng.calls != 4 {
		t.Errorf("engine calls = %d, want 4", eng.calls)
	}
}

func TestTrialDisabled(t *testing.T) {
	d := NewOrientationDetector(nil)
	if _, ok := d.trial(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10))); ok {
		t.Error("trial must not run when disabled")
	}
}

func TestRotateDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	for _, tt := range []struct{ angle, w, h int }{
		{0, 30, 10}, {90, 10, 30}, {180, 30, 10}, {270, 10, 30}, {360, 30, 10},
	} {
		got := Rotate(img, tt.angle)
		if got.Bounds().Dx() != tt.w || got.Bounds().Dy() != tt.h {
			t.Errorf("Rotate(%d): %dx%d, want %dx%d",
				tt.angle, got.Bounds().Dx(), got.Bounds().Dy(), tt.w, tt.h)
		}
	}
}

func TestParseLangs(t *testing.T) {
	got := ParseLangs("rus+eng")
	if len(got) != 2 || got[0] != "rus" || got[1] != "eng" {
		t.Errorf("ParseLangs = %v", got)
	}
	if got := ParseLangs(""); got != nil {
		t.Errorf("ParseLangs(\"\") = %v, want nil", got)
	}
}
