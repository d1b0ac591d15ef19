package imports

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/cosketch/internal/surface"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newSurface(t *testing.T, w, h int) *surface.Surface {
	t.Helper()
	s, err := surface.New(w, h, 1)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func channelAt(img image.Image, x, y int) (r, g, b uint8) {
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}

func TestRoundTripExportImportSameDimensions(t *testing.T) {
	s := newSurface(t, 160, 120)
	s.SetStrokeStyle("#FF0000", 10, surface.ToolPencil)
	if err := s.DrawSegment(surface.Point{X: 80, Y: 60}, surface.Point{X: 80, Y: 60}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}

	exported, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}

	dst := newSurface(t, 160, 120)
	if err := NewAdapter(dst).ReplaceEncoded(exported); err != nil {
		t.Fatalf("ReplaceEncoded: %v", err)
	}

	img := dst.Image()
	if r, g, _ := channelAt(img, 80, 60); r < 200 || g > 80 {
		t.Fatalf("dot not reproduced, got r=%d g=%d", r, g)
	}
	if r, g, b := channelAt(img, 10, 10); r < 250 || g < 250 || b < 250 {
		t.Fatalf("background not reproduced, got %d,%d,%d", r, g, b)
	}
}

func TestReplaceCentersAndPreservesAspect(t *testing.T) {
	s := newSurface(t, 800, 600)
	src := solidImage(400, 200, color.RGBA{R: 255, A: 255})

	if err := NewAdapter(s).Replace(src); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	img := s.Image()
	// 400x200 scales by 2 to 800x400, centred vertically at y in [100,500).
	if r, _, _ := channelAt(img, 400, 300); r < 200 {
		t.Fatalf("expected image content at centre, got r=%d", r)
	}
	if r, g, b := channelAt(img, 400, 50); r < 250 || g < 250 || b < 250 {
		t.Fatalf("expected white band above content, got %d,%d,%d", r, g, b)
	}
	if r, g, b := channelAt(img, 400, 550); r < 250 || g < 250 || b < 250 {
		t.Fatalf("expected white band below content, got %d,%d,%d", r, g, b)
	}
}

func TestDropScalesAndOffsetsAtDropPoint(t *testing.T) {
	s := newSurface(t, 800, 600)
	s.SetStrokeStyle("#0000FF", 8, surface.ToolPencil)
	if err := s.DrawSegment(surface.Point{X: 50, Y: 50}, surface.Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}

	data := encodePNG(t, solidImage(1000, 1000, color.RGBA{R: 255, A: 255}))
	drawn, err := NewAdapter(s).Drop("image/png", data, surface.Point{X: 400, Y: 300})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !drawn {
		t.Fatal("expected drop to draw")
	}

	img := s.Image()
	// Downscaled to 300x300 with top-left at (400-75, 300-75).
	if r, _, _ := channelAt(img, 470, 370); r < 200 {
		t.Fatalf("expected dropped content inside placement, got r=%d", r)
	}
	if r, g, b := channelAt(img, 300, 200); r < 250 || g < 250 || b < 250 {
		t.Fatalf("expected white outside placement, got %d,%d,%d", r, g, b)
	}
	// Drop must not clear existing content.
	if _, _, b := channelAt(img, 50, 50); b < 200 {
		t.Fatalf("prior content lost, got b=%d", b)
	}
}

func TestDropIgnoresNonImageSilently(t *testing.T) {
	s := newSurface(t, 100, 100)
	drawn, err := NewAdapter(s).Drop("text/plain", []byte("hello"), surface.Point{X: 50, Y: 50})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if drawn {
		t.Fatal("non-image drop must be ignored")
	}
	if r, g, b := channelAt(s.Image(), 50, 50); r < 250 || g < 250 || b < 250 {
		t.Fatalf("surface mutated by ignored drop: %d,%d,%d", r, g, b)
	}
}

func TestDropCorruptDataLeavesSurfaceIntact(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.SetStrokeStyle("#FF0000", 6, surface.ToolPencil)
	if err := s.DrawSegment(surface.Point{X: 30, Y: 30}, surface.Point{X: 30, Y: 30}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}

	_, err := NewAdapter(s).Drop("image/png", []byte("not a png"), surface.Point{X: 50, Y: 50})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if r, _, _ := channelAt(s.Image(), 30, 30); r < 200 {
		t.Fatalf("prior content lost after failed decode, got r=%d", r)
	}
}

func TestReplaceEncodedCorruptLeavesSurfaceIntact(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.SetStrokeStyle("#FF0000", 6, surface.ToolPencil)
	if err := s.DrawSegment(surface.Point{X: 30, Y: 30}, surface.Point{X: 30, Y: 30}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	if err := NewAdapter(s).ReplaceEncoded([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected decode error")
	}
	if r, _, _ := channelAt(s.Image(), 30, 30); r < 200 {
		t.Fatalf("prior content lost after failed decode, got r=%d", r)
	}
}
