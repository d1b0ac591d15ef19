package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/cosketch/internal/generate"
	"github.com/example/cosketch/internal/palette"
)

// Canvas holds the drawing surface dimensions. Scale is the device pixel
// ratio used for headless canvases; browser sessions report their own.
type Canvas struct {
	Width  int
	Height int
	Scale  float64
}

// Generate holds the remote model settings.
type Generate struct {
	Endpoint    string
	Model       string
	APIKey      string
	Instruction string
}

// Notify holds notification settings.
type Notify struct {
	Generate bool
	Save     bool
	Copy     bool
}

// Config holds the application configuration.
type Config struct {
	Listen   string
	SaveDir  string
	Palette  string
	Canvas   Canvas
	Generate Generate
	Notify   Notify
	Palettes map[string]*palette.Palette
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Listen: ":8787",
		Canvas: Canvas{
			Width:  960,
			Height: 600,
			Scale:  1,
		},
		Generate: Generate{
			Endpoint: generate.DefaultEndpoint,
			Model:    generate.DefaultModel,
		},
		Palettes: make(map[string]*palette.Palette),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// The API key is never rendered.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Listen != "" {
		fmt.Fprintf(&sb, "listen = %s\n", c.Listen)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Palette != "" {
		fmt.Fprintf(&sb, "palette = %s\n", c.Palette)
	}
	sb.WriteString("\n[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "scale = %g\n", c.Canvas.Scale)

	sb.WriteString("\n[generate]\n")
	fmt.Fprintf(&sb, "endpoint = %s\n", c.Generate.Endpoint)
	fmt.Fprintf(&sb, "model = %s\n", c.Generate.Model)
	if c.Generate.Instruction != "" {
		fmt.Fprintf(&sb, "instruction = %s\n", c.Generate.Instruction)
	}

	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	var names []string
	for name := range c.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := c.Palettes[name]
		fmt.Fprintf(&sb, "\n[palette.%s]\n", name)
		if len(p.Widths) > 0 {
			strs := make([]string, len(p.Widths))
			for i, w := range p.Widths {
				strs[i] = fmt.Sprintf("%d", w)
			}
			fmt.Fprintf(&sb, "Widths: %s\n", strings.Join(strs, ", "))
		}
		for _, s := range p.Swatches {
			fmt.Fprintf(&sb, "%s: %s\n", s.Name, palette.Hex(s.Color))
		}
	}

	return sb.String()
}
