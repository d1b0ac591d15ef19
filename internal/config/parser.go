package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/cosketch/internal/palette"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentPalette *palette.Palette

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentPalette = nil

			if strings.HasPrefix(currentSection, "palette.") {
				name := strings.TrimPrefix(currentSection, "palette.")
				currentPalette = &palette.Palette{Name: name, Widths: palette.Default().Widths}
				cfg.Palettes[name] = currentPalette
			}
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentPalette != nil:
			err = setPaletteField(currentPalette, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "generate":
			setGenerateField(&cfg.Generate, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			setRootField(cfg, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	// A palette section with only Widths keeps the default swatches.
	for _, p := range cfg.Palettes {
		if len(p.Swatches) == 0 {
			p.Swatches = palette.Default().Swatches
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "listen":
		cfg.Listen = value
	case "save_dir":
		cfg.SaveDir = value
	case "palette":
		cfg.Palette = value
	}
}

func setCanvasField(c *Canvas, key, value string) error {
	switch strings.ToLower(key) {
	case "width":
		w, err := strconv.Atoi(value)
		if err != nil || w < 1 {
			return fmt.Errorf("invalid canvas width %q", value)
		}
		c.Width = w
	case "height":
		h, err := strconv.Atoi(value)
		if err != nil || h < 1 {
			return fmt.Errorf("invalid canvas height %q", value)
		}
		c.Height = h
	case "scale":
		s, err := strconv.ParseFloat(value, 64)
		if err != nil || s <= 0 {
			return fmt.Errorf("invalid canvas scale %q", value)
		}
		c.Scale = s
	}
	return nil
}

func setGenerateField(g *Generate, key, value string) {
	switch strings.ToLower(key) {
	case "endpoint":
		g.Endpoint = value
	case "model":
		g.Model = value
	case "api_key":
		g.APIKey = value
	case "instruction":
		g.Instruction = value
	}
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "generate":
		n.Generate = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setPaletteField(p *palette.Palette, key, value string) error {
	if strings.EqualFold(key, "Name") {
		p.Name = value
		return nil
	}
	if strings.EqualFold(key, "Widths") {
		parsed, err := palette.Parse(strings.NewReader("Widths: " + value + "\n"))
		if err != nil {
			return err
		}
		p.Widths = parsed.Widths
		return nil
	}
	col, err := palette.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for swatch %s: %w", key, err)
	}
	p.Swatches = append(p.Swatches, palette.Swatch{Name: key, Color: col})
	return nil
}
