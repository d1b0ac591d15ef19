package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/cosketch/internal/capture"
	"github.com/example/cosketch/internal/clipboard"
	"github.com/example/cosketch/internal/export"
	"github.com/example/cosketch/internal/imports"
	"github.com/example/cosketch/internal/palette"
	"github.com/example/cosketch/internal/surface"
)

// Seams for operations that need a desktop in production.
var (
	grabScreenFn     = capture.GrabScreen
	writeClipboardFn = clipboard.WriteImage
)

// drawCmd renders strokes and imported images onto a sketch without a
// browser attached.
type drawCmd struct {
	file        string
	fromScreen  bool
	output      string
	width       int
	height      int
	scale       float64
	toClipboard bool
	ops         []drawOp
	*root
	fs *flag.FlagSet
}

type drawOp struct {
	kind   string
	points []surface.Point
	path   string
	value  string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	width, height, scale := 960, 600, 1.0
	if r != nil && r.config != nil {
		width = r.config.Canvas.Width
		height = r.config.Canvas.Height
		scale = r.config.Canvas.Scale
	}
	fs.StringVar(&d.file, "file", "", "start from this image instead of a blank sketch")
	fs.BoolVar(&d.fromScreen, "from-screen", false, "start from a capture of the desktop")
	fs.StringVar(&d.output, "output", "", "write the result to this path instead of a timestamped file")
	fs.IntVar(&d.width, "width", width, "sketch width in logical pixels")
	fs.IntVar(&d.height, "height", height, "sketch height in logical pixels")
	fs.Float64Var(&d.scale, "scale", scale, "device pixel ratio for the rendered output")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of saving")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if d.file != "" && d.fromScreen {
		return nil, fmt.Errorf("-file cannot be used with -from-screen")
	}
	ops, err := parseDrawOps(fs.Args())
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 && d.file == "" && !d.fromScreen {
		return nil, &UsageError{of: d}
	}
	d.ops = ops
	return d, nil
}

func parseDrawOps(args []string) ([]drawOp, error) {
	var ops []drawOp
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "stroke":
			points, consumed, err := parsePoints(args[i+1:], 2)
			if err != nil {
				return nil, fmt.Errorf("stroke: %w", err)
			}
			ops = append(ops, drawOp{kind: "stroke", points: points})
			i += consumed
		case "dot":
			points, consumed, err := parsePoints(args[i+1:], 1)
			if err != nil || len(points) != 1 {
				return nil, fmt.Errorf("dot needs exactly one x,y point")
			}
			ops = append(ops, drawOp{kind: "dot", points: points})
			i += consumed
		case "import":
			if i+2 >= len(args) {
				return nil, fmt.Errorf("import needs a path and an x,y point")
			}
			p, err := parsePoint(args[i+2])
			if err != nil {
				return nil, fmt.Errorf("import: %w", err)
			}
			ops = append(ops, drawOp{kind: "import", path: args[i+1], points: []surface.Point{p}})
			i += 2
		case "tool", "color", "width":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s needs a value", args[i])
			}
			ops = append(ops, drawOp{kind: strings.ToLower(args[i]), value: args[i+1]})
			i++
		case "clear":
			ops = append(ops, drawOp{kind: "clear"})
		default:
			return nil, fmt.Errorf("unknown operation %q", args[i])
		}
	}
	return ops, nil
}

// parsePoints consumes consecutive x,y operands and reports how many
// arguments it used.
func parsePoints(args []string, min int) ([]surface.Point, int, error) {
	var points []surface.Point
	for _, arg := range args {
		p, err := parsePoint(arg)
		if err != nil {
			break
		}
		points = append(points, p)
	}
	if len(points) < min {
		return nil, 0, fmt.Errorf("need at least %d x,y points", min)
	}
	return points, len(points), nil
}

func parsePoint(s string) (surface.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return surface.Point{}, fmt.Errorf("point %q is not x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return surface.Point{}, fmt.Errorf("point %q is not x,y", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return surface.Point{}, fmt.Errorf("point %q is not x,y", s)
	}
	return surface.Point{X: x, Y: y}, nil
}

// parseColorSpec resolves SVG color names, active palette swatches, and hex
// colors.
func (d *drawCmd) parseColorSpec(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if d.root != nil && d.root.activePalette != nil {
		if c, ok := d.root.activePalette.Lookup(s); ok {
			return c, nil
		}
	}
	return palette.ParseColor(s)
}

func (d *drawCmd) Run() error {
	surf, err := surface.New(d.width, d.height, d.scale)
	if err != nil {
		return err
	}
	defer surf.Close()
	adapter := imports.NewAdapter(surf)

	if d.file != "" {
		data, err := os.ReadFile(d.file)
		if err != nil {
			return fmt.Errorf("open %q: %w", d.file, err)
		}
		if err := adapter.ReplaceEncoded(data); err != nil {
			return fmt.Errorf("load %q: %w", d.file, err)
		}
	}
	if d.fromScreen {
		shot, err := grabScreenFn()
		if err != nil {
			return fmt.Errorf("failed to capture screen: %w", err)
		}
		if err := adapter.Replace(shot); err != nil {
			return err
		}
	}

	translator := surface.NewTranslator(surf, nil)
	strokeColor := "#000000"
	strokeWidth := 4.0
	tool := surface.ToolPencil

	for _, op := range d.ops {
		switch op.kind {
		case "stroke", "dot":
			if err := translator.Begin(op.points[0]); err != nil {
				return err
			}
			for _, p := range op.points[1:] {
				if err := translator.Move(p); err != nil {
					return err
				}
			}
			translator.End()
		case "import":
			data, err := os.ReadFile(op.path)
			if err != nil {
				return fmt.Errorf("open %q: %w", op.path, err)
			}
			drawn, err := adapter.Drop("", data, op.points[0])
			if err != nil {
				return fmt.Errorf("import %q: %w", op.path, err)
			}
			if !drawn {
				return fmt.Errorf("import %q: not an image", op.path)
			}
		case "tool":
			switch strings.ToLower(op.value) {
			case "pencil":
				tool = surface.ToolPencil
			case "eraser":
				tool = surface.ToolEraser
			default:
				return fmt.Errorf("unknown tool %q", op.value)
			}
			surf.SetStrokeStyle(strokeColor, strokeWidth, tool)
		case "color":
			c, err := d.parseColorSpec(op.value)
			if err != nil {
				return err
			}
			strokeColor = palette.Hex(c)
			surf.SetStrokeStyle(strokeColor, strokeWidth, tool)
		case "width":
			w, err := strconv.ParseFloat(op.value, 64)
			if err != nil || w <= 0 {
				return fmt.Errorf("invalid width %q", op.value)
			}
			strokeWidth = w
			surf.SetStrokeStyle(strokeColor, strokeWidth, tool)
		case "clear":
			surf.Clear()
		}
	}

	if d.toClipboard {
		if err := writeClipboardFn(surf.Image()); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied sketch to clipboard")
		d.root.notifyCopy("sketch")
		return nil
	}

	var path string
	if d.output == "" {
		saveDir := ""
		if d.root != nil && d.root.config != nil {
			saveDir = d.root.config.SaveDir
		}
		path, err = export.SavePNG(saveDir, surf.Image())
	} else {
		path = d.output
		switch strings.ToLower(filepath.Ext(d.output)) {
		case ".pdf":
			err = export.WritePDF(path, surf.Image())
		default:
			err = export.WritePNG(path, surf.Image())
		}
	}
	if err != nil {
		return err
	}
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	d.root.notifySave(path)
	return nil
}
