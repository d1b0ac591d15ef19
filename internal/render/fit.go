package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// DefaultDropLimit is the largest dimension, in logical pixels, a dropped
// image may have before it is scaled down.
const DefaultDropLimit = 300

// ContainRect returns the largest rectangle with the aspect ratio of an
// imgW x imgH image that fits inside a canvasW x canvasH canvas, centred on
// both axes. The uniform scale factor is min(canvasW/imgW, canvasH/imgH), so
// the image is never cropped; small images are scaled up to fit.
func ContainRect(canvasW, canvasH, imgW, imgH int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return image.Rectangle{}
	}
	scale := math.Min(float64(canvasW)/float64(imgW), float64(canvasH)/float64(imgH))
	w := int(math.Round(float64(imgW) * scale))
	h := int(math.Round(float64(imgH) * scale))
	x := (canvasW - w) / 2
	y := (canvasH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// DropRect returns the placement rectangle for an image composited at a drop
// point. The image keeps its natural size unless either dimension exceeds
// limit, in which case it is shrunk uniformly until both fit. The rectangle is
// offset from the drop point by a quarter of the final width and height so the
// image lands roughly centred on the cursor.
func DropRect(imgW, imgH int, drop image.Point, limit int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}
	}
	if limit <= 0 {
		limit = DefaultDropLimit
	}
	w, h := imgW, imgH
	if imgW > limit || imgH > limit {
		scale := math.Min(float64(limit)/float64(imgW), float64(limit)/float64(imgH))
		w = int(math.Round(float64(imgW) * scale))
		h = int(math.Round(float64(imgH) * scale))
	}
	x := drop.X - w/4
	y := drop.Y - h/4
	return image.Rect(x, y, x+w, y+h)
}

// Downscale resamples src to w x h using Catmull-Rom interpolation.
func Downscale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}
