package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/cosketch/internal/generate"
	"github.com/example/cosketch/internal/server"
	"github.com/example/cosketch/internal/session"
)

type serveCmd struct {
	listen      string
	width       int
	height      int
	scale       float64
	saveDir     string
	endpoint    string
	model       string
	noAdvertise bool
	*root
	fs *flag.FlagSet
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	cfg := r.config
	fs.StringVar(&s.listen, "listen", cfg.Listen, "address to serve the sketch UI on")
	fs.IntVar(&s.width, "width", cfg.Canvas.Width, "default sketch width in logical pixels")
	fs.IntVar(&s.height, "height", cfg.Canvas.Height, "default sketch height in logical pixels")
	fs.Float64Var(&s.scale, "scale", cfg.Canvas.Scale, "default device pixel ratio")
	fs.StringVar(&s.saveDir, "save-dir", cfg.SaveDir, "directory exported sketches are written to")
	fs.StringVar(&s.endpoint, "endpoint", cfg.Generate.Endpoint, "generation API endpoint")
	fs.StringVar(&s.model, "model", cfg.Generate.Model, "generation model name")
	fs.BoolVar(&s.noAdvertise, "no-advertise", false, "do not announce the server over mDNS")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	var gen session.Generator
	if key := s.root.apiKey(); key != "" {
		client, err := generate.NewClient(generate.Options{
			Endpoint: s.endpoint,
			Model:    s.model,
			APIKey:   key,
		})
		if err != nil {
			return fmt.Errorf("configure generation client: %w", err)
		}
		gen = client
	} else {
		fmt.Fprintln(os.Stderr, "warning: no API key configured, generation is disabled")
	}

	instruction := s.root.instruction()
	if instruction == "" {
		instruction = generate.DefaultInstruction
	}

	srv := server.New(server.Options{
		Listen:      s.listen,
		Width:       s.width,
		Height:      s.height,
		Scale:       s.scale,
		Generator:   gen,
		Instruction: instruction,
		SaveDir:     s.saveDir,
		Palette:     s.root.activePalette,
		Notifier:    s.root.notifier,
		Advertise:   !s.noAdvertise,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
