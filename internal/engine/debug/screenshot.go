// Package debug provides developer capture utilities for the demo.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"
)

// Image formats accepted by NewScreenshotCapture.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// ScreenshotCapture writes framebuffer captures as image files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string
	now       func() time.Time
}

// NewScreenshotCapture creates a capture handler writing into outputDir.
// Unknown formats fall back to PNG.
func NewScreenshotCapture(outputDir, prefix, format string) *ScreenshotCapture {
	if format != FormatBMP {
		format = FormatPNG
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// Filename returns the path the next capture is written to.
func (sc *ScreenshotCapture) Filename() string {
	name := fmt.Sprintf("%s_%s.%s", sc.prefix, sc.now().Format("2006-01-02_15-04-05.000"), sc.format)
	if sc.outputDir == "" {
		return name
	}
	return filepath.Join(sc.outputDir, name)
}

// Save writes RGBA pixels read back from GL (origin bottom-left) and
// returns the file name. pixels must hold width*height*4 bytes.
func (sc *ScreenshotCapture) Save(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*rowSize:]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], src[:rowSize])
	}

	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := sc.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", sc.format, err)
	}
	return filename, nil
}

func (sc *ScreenshotCapture) encode(f *os.File, img image.Image) error {
	if sc.format == FormatBMP {
		return bmp.Encode(f, img)
	}
	return png.Encode(f, img)
}
