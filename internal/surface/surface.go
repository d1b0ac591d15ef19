// Package surface owns the raster drawing surface: an opaque white pixel
// buffer sized in device pixels, drawn on in logical coordinates.
package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// Tool selects how strokes are painted.
type Tool int

const (
	// ToolPencil paints with the configured stroke color.
	ToolPencil Tool = iota
	// ToolEraser paints with the background white. Erasing is white-stroke
	// drawing, not alpha removal.
	ToolEraser
)

// Point is a position in logical (CSS pixel) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	background         = "#FFFFFF"
	defaultStrokeColor = "#000000"
	defaultStrokeWidth = 4
)

// Surface is a fixed-size raster canvas. The backing buffer is allocated at
// width*scale x height*scale device pixels and a uniform scale transform maps
// logical coordinates onto it. The buffer starts, and after Clear returns to,
// solid opaque white.
//
// Surface is not safe for concurrent use; the owning event loop must apply
// mutations strictly sequentially.
type Surface struct {
	width  int
	height int
	scale  float64

	dc *gg.Context

	strokeColor string
	strokeWidth float64
	tool        Tool
}

// New allocates a surface of width x height logical pixels at the given
// device pixel ratio.
func New(width, height int, scale float64) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface size %dx%d is invalid", width, height)
	}
	if scale <= 0 {
		scale = 1
	}
	s := &Surface{
		width:       width,
		height:      height,
		scale:       scale,
		strokeColor: defaultStrokeColor,
		strokeWidth: defaultStrokeWidth,
	}
	s.allocate()
	return s, nil
}

func (s *Surface) allocate() {
	if s.dc != nil {
		s.dc.Close()
	}
	dw := int(math.Round(float64(s.width) * s.scale))
	dh := int(math.Round(float64(s.height) * s.scale))
	dc := gg.NewContext(dw, dh)
	dc.Scale(s.scale, s.scale)
	dc.ClearWithColor(gg.White)
	s.dc = dc
}

// Reset reinitializes the surface for the given dimensions. Re-invocation
// with identical dimensions is a no-op so in-progress work survives spurious
// reinitialization; changed dimensions discard the buffer and start blank.
func (s *Surface) Reset(width, height int, scale float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface size %dx%d is invalid", width, height)
	}
	if scale <= 0 {
		scale = 1
	}
	if width == s.width && height == s.height && scale == s.scale {
		return nil
	}
	s.width, s.height, s.scale = width, height, scale
	s.allocate()
	return nil
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}

// Width returns the logical width.
func (s *Surface) Width() int { return s.width }

// Height returns the logical height.
func (s *Surface) Height() int { return s.height }

// Scale returns the device pixel ratio.
func (s *Surface) Scale() float64 { return s.scale }

// DeviceSize returns the backing buffer dimensions in device pixels.
func (s *Surface) DeviceSize() (int, int) {
	return int(math.Round(float64(s.width) * s.scale)), int(math.Round(float64(s.height) * s.scale))
}

// SetStrokeStyle configures subsequent segments. The eraser ignores color and
// always paints background white.
func (s *Surface) SetStrokeStyle(color string, width float64, tool Tool) {
	if color != "" {
		s.strokeColor = color
	}
	if width > 0 {
		s.strokeWidth = width
	}
	s.tool = tool
}

// StrokeWidth returns the current stroke width in logical pixels.
func (s *Surface) StrokeWidth() float64 { return s.strokeWidth }

func (s *Surface) paintColor() string {
	if s.tool == ToolEraser {
		return background
	}
	return s.strokeColor
}

// DrawSegment renders a straight line from from to to using the current
// stroke style with round caps and joins. A zero-length segment leaves a dot:
// a filled circle of radius width/2, so taps still mark the canvas.
func (s *Surface) DrawSegment(from, to Point) error {
	s.dc.SetHexColor(s.paintColor())
	if from == to {
		s.dc.DrawCircle(from.X, from.Y, s.strokeWidth/2)
		return s.dc.Fill()
	}
	s.dc.SetLineWidth(s.strokeWidth)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	return s.dc.Stroke()
}

// Clear refills the entire surface with opaque white. The result is
// indistinguishable from a freshly allocated surface.
func (s *Surface) Clear() {
	s.dc.ClearWithColor(gg.White)
}

// DrawImage composites img into the logical rectangle (x, y, x+w, y+h),
// scaling as needed. Destination pixels are overwritten except where the
// source carries its own transparency.
func (s *Surface) DrawImage(img image.Image, x, y, w, h float64) {
	buf := gg.ImageBufFromImage(img)
	s.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
}

// Image returns the backing buffer at full device resolution.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the surface as a PNG at device resolution.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// PNG returns the surface encoded as PNG bytes.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL returns the surface as a base64 PNG data URL.
func (s *Surface) DataURL() (string, error) {
	data, err := s.PNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
