//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func grabScreen() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	width := int(screen.WidthInPixels)
	height := int(screen.HeightInPixels)
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		0, 0, screen.WidthInPixels, screen.HeightInPixels, 0xFFFFFFFF).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen pixels: %w", err)
	}
	return xImageToRGBA(setup, reply, width, height)
}

func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screen has empty geometry")
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("screen pixels: empty image data")
	}

	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	if bitsPerPixel == 0 {
		return nil, fmt.Errorf("unsupported screen depth %d", reply.Depth)
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return nil, fmt.Errorf("unsupported screen pixel format %d bpp", bitsPerPixel)
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, fmt.Errorf("screen pixels: unexpected stride")
	}

	// X11 returns BGRX rows; swap to RGBA.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			off := x * bytesPerPixel
			if off+3 > len(row) {
				break
			}
			b := row[off]
			g := row[off+1]
			r := row[off+2]
			a := byte(0xFF)
			if bytesPerPixel >= 4 && off+3 < len(row) {
				a = row[off+3]
			}
			pix := img.PixOffset(x, y)
			img.Pix[pix+0] = r
			img.Pix[pix+1] = g
			img.Pix[pix+2] = b
			img.Pix[pix+3] = a
		}
	}
	return img, nil
}
