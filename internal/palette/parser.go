package palette

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Parse reads a palette definition. The format is one entry per line:
//
//	Name: pastel
//	Widths: 1, 3, 6
//	Rose: #FF6688
//	Sky: #77CCFF
//
// Any key other than Name and Widths defines a swatch. Entries replace the
// default swatch list entirely.
func Parse(r io.Reader) (*Palette, error) {
	p := &Palette{Widths: Default().Widths}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch {
		case strings.EqualFold(key, "Name"):
			p.Name = value
		case strings.EqualFold(key, "Widths"):
			widths, err := parseWidths(value)
			if err != nil {
				return nil, err
			}
			p.Widths = widths
		default:
			col, err := ParseColor(value)
			if err != nil {
				return nil, fmt.Errorf("invalid color for swatch %s: %w", key, err)
			}
			p.Swatches = append(p.Swatches, Swatch{Name: key, Color: col})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Swatches) == 0 {
		p.Swatches = Default().Swatches
	}
	return p, nil
}

func parseWidths(value string) ([]int, error) {
	var widths []int
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		w, err := strconv.Atoi(tok)
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid stroke width %q", tok)
		}
		widths = append(widths, w)
	}
	if len(widths) == 0 {
		return nil, fmt.Errorf("widths list is empty")
	}
	return widths, nil
}

// ParseColor parses a #RRGGBB or #RRGGBBAA hex color string.
func ParseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
