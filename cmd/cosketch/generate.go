package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/example/cosketch/internal/clipboard"
	"github.com/example/cosketch/internal/export"
	"github.com/example/cosketch/internal/generate"
	"github.com/example/cosketch/internal/imports"
)

// editImageFn is swapped in tests to avoid real API calls.
var editImageFn = func(ctx context.Context, opts generate.Options, req generate.Request) (*generate.Result, error) {
	client, err := generate.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return client.Edit(ctx, req)
}

type generateCmd struct {
	file          string
	prompt        string
	output        string
	endpoint      string
	model         string
	fromClipboard bool
	toClipboard   bool
	*root
	fs *flag.FlagSet
}

func (g *generateCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	g := &generateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(g)
	endpoint, model := generate.DefaultEndpoint, generate.DefaultModel
	if r != nil && r.config != nil {
		endpoint = r.config.Generate.Endpoint
		model = r.config.Generate.Model
	}
	fs.StringVar(&g.file, "file", "", "image file to send to the model")
	fs.StringVar(&g.prompt, "prompt", "", "instruction for the model")
	fs.StringVar(&g.output, "output", "", "write the generated image to this path")
	fs.StringVar(&g.endpoint, "endpoint", endpoint, "generation API endpoint")
	fs.StringVar(&g.model, "model", model, "generation model name")
	fs.BoolVar(&g.fromClipboard, "from-clipboard", false, "read the source image from the clipboard")
	fs.BoolVar(&g.toClipboard, "to-clipboard", false, "copy the generated image to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if g.file == "" && !g.fromClipboard {
		return nil, &UsageError{of: g}
	}
	if g.file != "" && g.fromClipboard {
		return nil, fmt.Errorf("-file cannot be used with -from-clipboard")
	}
	if fs.NArg() > 0 && g.prompt == "" {
		g.prompt = strings.Join(fs.Args(), " ")
	}
	return g, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *generateCmd) Run() error {
	key := g.root.apiKey()
	if key == "" {
		return fmt.Errorf("no API key configured; set COSKETCH_API_KEY or api_key in the config file")
	}

	var (
		data []byte
		mime string
		err  error
	)
	if g.fromClipboard {
		img, clipErr := clipboard.ReadImage()
		if clipErr != nil {
			return fmt.Errorf("read clipboard image: %w", clipErr)
		}
		data, err = encodePNG(img)
		if err != nil {
			return err
		}
		mime = "image/png"
	} else {
		data, err = os.ReadFile(g.file)
		if err != nil {
			return fmt.Errorf("open %q: %w", g.file, err)
		}
		mime = imports.SniffMIME(data)
		if !imports.IsImageMIME(mime) {
			return fmt.Errorf("%q is not an image", g.file)
		}
	}

	prompt := strings.TrimSpace(g.prompt)
	if prompt == "" {
		prompt = g.root.instruction()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := editImageFn(ctx, generate.Options{
		Endpoint: g.endpoint,
		Model:    g.model,
		APIKey:   key,
	}, generate.Request{
		Instruction: prompt,
		Image:       data,
		MimeType:    mime,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if commentary := strings.TrimSpace(result.Commentary); commentary != "" {
		fmt.Fprintln(os.Stderr, commentary)
	}

	img, _, err := imports.Decode(result.Data)
	if err != nil {
		return fmt.Errorf("decode generated image: %w", err)
	}

	if g.toClipboard {
		if err := writeClipboardFn(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied generated image to clipboard")
		g.root.notifyCopy("generated image")
		return nil
	}

	path := g.output
	if path == "" {
		saveDir := ""
		if g.root != nil && g.root.config != nil {
			saveDir = g.root.config.SaveDir
		}
		path, err = export.SavePNG(saveDir, img)
	} else {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			err = export.WritePDF(path, img)
		default:
			err = export.WritePNG(path, img)
		}
	}
	if err != nil {
		return err
	}
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	g.root.notifyGenerated(path, img)
	g.root.notifySave(path)
	return nil
}
