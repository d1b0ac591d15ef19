// Package palette defines the color swatches and stroke widths offered by the
// sketch chrome.
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Swatch is one selectable pen color.
type Swatch struct {
	Name  string
	Color color.RGBA
}

// Palette is a named set of swatches and stroke width options.
type Palette struct {
	Name     string
	Swatches []Swatch
	Widths   []int
}

// Default returns the built-in palette.
func Default() *Palette {
	return &Palette{
		Name: "default",
		Swatches: []Swatch{
			{"Black", color.RGBA{0, 0, 0, 255}},
			{"White", color.RGBA{255, 255, 255, 255}},
			{"Red", color.RGBA{255, 0, 0, 255}},
			{"Orange", color.RGBA{255, 140, 0, 255}},
			{"Yellow", color.RGBA{255, 220, 0, 255}},
			{"Green", color.RGBA{0, 160, 60, 255}},
			{"Cyan", color.RGBA{0, 200, 220, 255}},
			{"Blue", color.RGBA{0, 80, 255, 255}},
			{"Purple", color.RGBA{140, 60, 200, 255}},
			{"Pink", color.RGBA{255, 100, 180, 255}},
			{"Brown", color.RGBA{140, 90, 50, 255}},
			{"Gray", color.RGBA{128, 128, 128, 255}},
		},
		Widths: []int{1, 2, 4, 6, 8, 12},
	}
}

// Lookup finds a swatch color by its case-insensitive name.
func (p *Palette) Lookup(name string) (color.RGBA, bool) {
	for _, s := range p.Swatches {
		if strings.EqualFold(s.Name, name) {
			return s.Color, true
		}
	}
	return color.RGBA{}, false
}

// Ensure adds a swatch if an equal color is not already present and returns
// its index.
func (p *Palette) Ensure(col color.RGBA, name string) int {
	for i, s := range p.Swatches {
		if s.Color == col {
			if name != "" && s.Name == "" {
				p.Swatches[i].Name = name
			}
			return i
		}
	}
	if name == "" {
		name = Hex(col)
	}
	p.Swatches = append(p.Swatches, Swatch{Name: name, Color: col})
	return len(p.Swatches) - 1
}

// Hex formats a color as #RRGGBB, or #RRGGBBAA when not fully opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
