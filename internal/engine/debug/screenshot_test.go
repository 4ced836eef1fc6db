package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 30, 45, 123e6, time.UTC)
}

func TestFilename(t *testing.T) {
	sc := NewScreenshotCapture("shots", "blob")
	sc.Now = fixedClock

	tests := []struct {
		label string
		want  string
	}{
		{"Purple Mirror", "blob_purple-mirror_2026-03-01_12-30-45.123.png"},
		{"  Alien  Goo!! ", "blob_alien-goo_2026-03-01_12-30-45.123.png"},
		{"", "blob_2026-03-01_12-30-45.123.png"},
	}
	for _, tt := range tests {
		if got := sc.Filename(tt.label); got != filepath.Join("shots", tt.want) {
			t.Errorf("Filename(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestCaptureFromPixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(filepath.Join(dir, "out"), "blob")
	sc.Now = fixedClock

	// Two rows, bottom-up: red first, then blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2, "Color Fusion")
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening capture: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding capture: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if top != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top row = %v, want blue", top)
	}
	if bottom != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom row = %v, want red", bottom)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "blob")
	if _, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2, ""); err == nil {
		t.Error("expected size mismatch error")
	}
}
