package surface

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func rgbaAt(img image.Image, x, y int) (r, g, b, a uint8) {
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

func assertWhite(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	r, g, b, _ := rgbaAt(img, x, y)
	if r < 250 || g < 250 || b < 250 {
		t.Fatalf("expected white at (%d,%d), got %d,%d,%d", x, y, r, g, b)
	}
}

func assertRed(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	r, g, b, _ := rgbaAt(img, x, y)
	if r < 200 || g > 80 || b > 80 {
		t.Fatalf("expected red at (%d,%d), got %d,%d,%d", x, y, r, g, b)
	}
}

func TestNewStartsWhite(t *testing.T) {
	s, err := New(100, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	img := s.Image()
	for _, pt := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		assertWhite(t, img, pt.X, pt.Y)
	}
}

func TestNewRejectsZeroSize(t *testing.T) {
	if _, err := New(0, 100, 1); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := New(100, -1, 1); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestTapLeavesDot(t *testing.T) {
	s, err := New(100, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 6, ToolPencil)

	tr := NewTranslator(s, nil)
	if err := tr.Begin(Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tr.End()

	img := s.Image()
	assertRed(t, img, 50, 50)
	assertWhite(t, img, 80, 80)
}

func TestHorizontalStrokeScenario(t *testing.T) {
	s, err := New(800, 600, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 4, ToolPencil)

	tr := NewTranslator(s, nil)
	if err := tr.Begin(Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Move(Point{X: 100, Y: 10}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	tr.End()

	img := s.Image()
	// Continuous along the segment.
	for x := 15; x <= 95; x += 10 {
		assertRed(t, img, x, 10)
	}
	// Surrounding area stays white.
	assertWhite(t, img, 55, 20)
	assertWhite(t, img, 4, 10)
	assertWhite(t, img, 110, 10)
}

func TestEveryMoveSampleBecomesASegment(t *testing.T) {
	s, err := New(200, 200, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 4, ToolPencil)

	tr := NewTranslator(s, nil)
	if err := tr.Begin(Point{X: 20, Y: 20}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for _, p := range []Point{{X: 60, Y: 20}, {X: 60, Y: 60}, {X: 20, Y: 60}} {
		if err := tr.Move(p); err != nil {
			t.Fatalf("Move: %v", err)
		}
	}
	tr.End()

	img := s.Image()
	assertRed(t, img, 40, 20)
	assertRed(t, img, 60, 40)
	assertRed(t, img, 40, 60)
	assertWhite(t, img, 40, 40)
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	s, err := New(100, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 4, ToolPencil)

	tr := NewTranslator(s, nil)
	if err := tr.Move(Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if tr.Drawing() {
		t.Fatal("translator should stay idle without a press")
	}
	assertWhite(t, s.Image(), 50, 50)

	// A stroke that ended must not resume on further samples.
	if err := tr.Begin(Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tr.End()
	if err := tr.Move(Point{X: 90, Y: 90}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	assertWhite(t, s.Image(), 90, 90)
}

func TestChangeNotifications(t *testing.T) {
	s, err := New(100, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	changes := 0
	tr := NewTranslator(s, func() { changes++ })
	if err := tr.Begin(Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if changes != 1 {
		t.Fatalf("expected notification on gesture start, got %d", changes)
	}
	tr.End()
	if changes != 2 {
		t.Fatalf("expected notification on gesture end, got %d", changes)
	}
	tr.End()
	if changes != 2 {
		t.Fatalf("redundant End must not notify, got %d", changes)
	}
}

func TestEraserPaintsWhite(t *testing.T) {
	s, err := New(200, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.SetStrokeStyle("#FF0000", 4, ToolPencil)
	if err := s.DrawSegment(Point{X: 10, Y: 30}, Point{X: 90, Y: 30}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	assertRed(t, s.Image(), 50, 30)

	// Eraser of equal or greater width removes all visual trace.
	s.SetStrokeStyle("#00FF00", 10, ToolEraser)
	if err := s.DrawSegment(Point{X: 10, Y: 30}, Point{X: 90, Y: 30}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	img := s.Image()
	assertWhite(t, img, 50, 30)
	assertWhite(t, img, 20, 30)
	assertWhite(t, img, 80, 30)
}

func TestClearMatchesFreshSurface(t *testing.T) {
	s, err := New(160, 120, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	fresh, err := New(160, 120, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer fresh.Close()

	s.SetStrokeStyle("#0000FF", 8, ToolPencil)
	if err := s.DrawSegment(Point{X: 10, Y: 10}, Point{X: 150, Y: 110}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}
	s.Clear()

	got := s.Image()
	want := fresh.Image()
	if !got.Bounds().Eq(want.Bounds()) {
		t.Fatalf("bounds differ: %v vs %v", got.Bounds(), want.Bounds())
	}
	b := got.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got.At(x, y) != want.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs after clear: %v vs %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestExportAtDeviceResolution(t *testing.T) {
	s, err := New(120, 80, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 8, ToolPencil)
	if err := s.DrawSegment(Point{X: 30, Y: 40}, Point{X: 30, Y: 40}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}

	data, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 240 || img.Bounds().Dy() != 160 {
		t.Fatalf("expected 240x160 device pixels, got %v", img.Bounds())
	}
	// The logical dot at (30,40) lands at device pixel (60,80).
	assertRed(t, img, 60, 80)
	assertWhite(t, img, 10, 10)
}

func TestResetSameSizeKeepsContent(t *testing.T) {
	s, err := New(100, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.SetStrokeStyle("#FF0000", 6, ToolPencil)
	if err := s.DrawSegment(Point{X: 50, Y: 50}, Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("DrawSegment: %v", err)
	}

	if err := s.Reset(100, 100, 1); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	assertRed(t, s.Image(), 50, 50)

	if err := s.Reset(200, 100, 1); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	assertWhite(t, s.Image(), 50, 50)
	if s.Width() != 200 {
		t.Fatalf("width not updated, got %d", s.Width())
	}
}

func TestDataURLPrefix(t *testing.T) {
	s, err := New(10, 10, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	u, err := s.DataURL()
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if len(u) <= len(prefix) || u[:len(prefix)] != prefix {
		t.Fatalf("unexpected data URL %q", u)
	}
}
