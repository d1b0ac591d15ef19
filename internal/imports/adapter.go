package imports

import (
	"fmt"
	"image"

	"github.com/example/cosketch/internal/render"
	"github.com/example/cosketch/internal/surface"
)

// Adapter composites decoded images onto a surface. The two entry points
// carry distinct placement policies: Replace clears and centres, Drop
// composites in place at the drop point.
type Adapter struct {
	surface   *surface.Surface
	dropLimit int
}

// NewAdapter wires an adapter to a surface.
func NewAdapter(s *surface.Surface) *Adapter {
	return &Adapter{surface: s, dropLimit: render.DefaultDropLimit}
}

// Replace clears the surface and draws img scaled uniformly to fit within the
// canvas bounds, centred on both axes. Aspect ratio is preserved and nothing
// is cropped.
func (a *Adapter) Replace(img image.Image) error {
	b := img.Bounds()
	r := render.ContainRect(a.surface.Width(), a.surface.Height(), b.Dx(), b.Dy())
	if r.Empty() {
		return fmt.Errorf("image %dx%d cannot be placed", b.Dx(), b.Dy())
	}
	a.surface.Clear()
	a.surface.DrawImage(img, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	return nil
}

// ReplaceEncoded decodes data and applies Replace. On decode failure the
// surface is left untouched.
func (a *Adapter) ReplaceEncoded(data []byte) error {
	img, _, err := Decode(data)
	if err != nil {
		return err
	}
	return a.Replace(img)
}

// Drop composites an encoded file dropped at a point. The surface is not
// cleared. The image is downscaled only when a dimension exceeds the drop
// limit, then placed offset by a quarter of the final size so it sits roughly
// centred on the cursor. Files without an image MIME type are ignored
// silently; the return reports whether anything was drawn.
func (a *Adapter) Drop(mime string, data []byte, at surface.Point) (bool, error) {
	if mime == "" {
		mime = SniffMIME(data)
	}
	if !IsImageMIME(mime) {
		return false, nil
	}
	img, _, err := Decode(data)
	if err != nil {
		// Best effort: a corrupt drop leaves prior content intact.
		return false, err
	}
	b := img.Bounds()
	r := render.DropRect(b.Dx(), b.Dy(), image.Pt(int(at.X), int(at.Y)), a.dropLimit)
	if r.Empty() {
		return false, fmt.Errorf("image %dx%d cannot be placed", b.Dx(), b.Dy())
	}
	if r.Dx() != b.Dx() || r.Dy() != b.Dy() {
		img = render.Downscale(img, r.Dx(), r.Dy())
	}
	a.surface.DrawImage(img, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	return true, nil
}
