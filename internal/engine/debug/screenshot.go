// Package debug provides frame capture for the scene.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ScreenshotCapture writes frames as PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string

	// Now is the clock used for file names.
	Now func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		Now:       time.Now,
	}
}

// Filename returns the path a capture tagged with label would be written to.
func (sc *ScreenshotCapture) Filename(label string) string {
	parts := []string{sc.prefix}
	if slug := slugify(label); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, sc.Now().Format("2006-01-02_15-04-05.000"))
	name := strings.Join(parts, "_") + ".png"
	if sc.outputDir != "" {
		name = filepath.Join(sc.outputDir, name)
	}
	return name
}

// CaptureFromPixels saves bottom-up RGBA pixels read back from the
// framebuffer, flipping them to top-down rows.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int, label string) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return sc.CaptureFromImage(img, label)
}

// CaptureFromImage saves img.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image, label string) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.Filename(label)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// slugify lowercases s and joins its letter and digit runs with dashes.
func slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}
