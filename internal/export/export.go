// Package export persists sketches to disk as PNG or PDF files.
package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var timeNow = time.Now

// Filename returns a timestamped file name such as sketch-20260829-153045.png.
func Filename(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("sketch-%s.%s", timeNow().Format("20060102-150405"), ext)
}

// SavePNG writes the image to dir under a timestamped name and returns the
// absolute path of the written file.
func SavePNG(dir string, img image.Image) (string, error) {
	path, err := preparePath(dir, Filename("png"))
	if err != nil {
		return "", err
	}
	if err := WritePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// WritePNG writes the image to the given path as PNG.
func WritePNG(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("write PNG to %q: %w", path, err)
	}
	return nil
}

// SavePDF writes the image as a single-page PDF to dir under a timestamped
// name and returns the absolute path of the written file.
func SavePDF(dir string, img image.Image) (string, error) {
	path, err := preparePath(dir, Filename("pdf"))
	if err != nil {
		return "", err
	}
	if err := WritePDF(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// WritePDF writes the image as a single-page PDF sized to the image in
// millimetres at 96 DPI.
func WritePDF(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}

	bounds := img.Bounds()
	const mmPerPixel = 25.4 / 96.0
	wMM := float64(bounds.Dx()) * mmPerPixel
	hMM := float64(bounds.Dy()) * mmPerPixel

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: wMM, Ht: hMM},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sketch", opts, pngReader(img))
	pdf.ImageOptions("sketch", 0, 0, wMM, hMM, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write PDF to %q: %w", path, err)
	}
	return nil
}

func pngReader(img image.Image) io.Reader {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Printf("encode PDF image: %v", err)
	}
	return &buf
}

func preparePath(dir, name string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}
