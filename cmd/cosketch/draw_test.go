package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/cosketch/internal/config"
	"github.com/example/cosketch/internal/generate"
	"github.com/example/cosketch/internal/palette"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testRoot() *root {
	return &root{
		program:       "cosketch",
		config:        config.New(),
		activePalette: palette.Default(),
	}
}

func TestDrawWritesStrokeToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseDrawCmd([]string{
		"-output", out,
		"-width", "200", "-height", "150",
		"color", "red", "width", "6",
		"stroke", "10,10", "100,10",
		"dot", "150,100",
	}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Fatalf("output bounds = %v", img.Bounds())
	}
	r, g, _, _ := img.At(50, 10).RGBA()
	if r>>8 < 200 || g>>8 > 80 {
		t.Fatalf("stroke midpoint not red: r=%d g=%d", r>>8, g>>8)
	}
}

func TestDrawEraserRestoresWhite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseDrawCmd([]string{
		"-output", out,
		"-width", "100", "-height", "100",
		"color", "blue", "width", "4",
		"stroke", "10,50", "90,50",
		"tool", "eraser", "width", "12",
		"stroke", "10,50", "90,50",
	}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, _ := img.At(50, 50).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Fatalf("erased pixel not white: r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestDrawPaletteColorName(t *testing.T) {
	cmd := &drawCmd{root: testRoot()}
	c, err := cmd.parseColorSpec("Red")
	if err != nil {
		t.Fatalf("parseColorSpec: %v", err)
	}
	if c.R != 0xFF || c.G != 0 {
		t.Fatalf("red = %+v", c)
	}
	if _, err := cmd.parseColorSpec("#11AA33"); err != nil {
		t.Fatalf("hex color rejected: %v", err)
	}
	if _, err := cmd.parseColorSpec("notacolor"); err == nil {
		t.Fatalf("expected error for unknown color")
	}
}

func TestGenerateWritesResult(t *testing.T) {
	source := filepath.Join(t.TempDir(), "src.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(20, 20, color.RGBA{A: 0xFF})); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(source, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var resultBuf bytes.Buffer
	if err := png.Encode(&resultBuf, solidImage(30, 30, color.RGBA{G: 0xFF, A: 0xFF})); err != nil {
		t.Fatalf("encode result fixture: %v", err)
	}

	var gotReq generate.Request
	original := editImageFn
	editImageFn = func(ctx context.Context, opts generate.Options, req generate.Request) (*generate.Result, error) {
		gotReq = req
		return &generate.Result{Data: resultBuf.Bytes(), MimeType: "image/png", Commentary: "ok"}, nil
	}
	t.Cleanup(func() { editImageFn = original })
	t.Setenv("COSKETCH_API_KEY", "test-key")

	out := filepath.Join(t.TempDir(), "result.png")
	cmd, err := parseGenerateCmd([]string{"-file", source, "-prompt", "sharpen it", "-output", out}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotReq.Instruction != "sharpen it" {
		t.Fatalf("instruction sent = %q", gotReq.Instruction)
	}
	if gotReq.MimeType != "image/png" {
		t.Fatalf("mime sent = %q", gotReq.MimeType)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	t.Setenv("COSKETCH_API_KEY", "")
	r := testRoot()
	cmd, err := parseGenerateCmd([]string{"-file", "whatever.png"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	}
}
