package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/cosketch/internal/palette"
)

type paletteCmd struct {
	*root
	fs *flag.FlagSet
}

func parsePaletteCmd(args []string, r *root) (*paletteCmd, error) {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	cmd := &paletteCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *paletteCmd) Run() error {
	p := c.root.activePalette
	if p == nil {
		p = palette.Default()
	}
	if len(p.Swatches) == 0 {
		fmt.Fprintln(os.Stdout, "no colors available")
		return nil
	}
	fmt.Fprintf(os.Stdout, "palette %q:\n", p.Name)
	for idx, entry := range p.Swatches {
		name := entry.Name
		hex := palette.Hex(entry.Color)
		if name == "" {
			name = hex
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(os.Stdout, "  %2d: %-12s %s %s\n", idx, name, hex, block)
	}
	fmt.Fprintf(os.Stdout, "stroke widths: %v\n", p.Widths)
	return nil
}

func (c *paletteCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
