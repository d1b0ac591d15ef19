package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
listen = :9000
save_dir = /tmp/sketches
palette = pastel

[canvas]
width = 1280
height = 720
scale = 2

[generate]
model = test-image-model
api_key = secret
instruction = keep it loose

[notify]
generate = true
save = false
copy = true

[palette.pastel]
Widths: 2, 5
Rose: #FF6688
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Listen != ":9000" {
		t.Errorf("unexpected listen %q", cfg.Listen)
	}
	if cfg.SaveDir != "/tmp/sketches" {
		t.Errorf("unexpected save_dir %q", cfg.SaveDir)
	}
	if cfg.Palette != "pastel" {
		t.Errorf("unexpected palette %q", cfg.Palette)
	}
	if cfg.Canvas.Width != 1280 || cfg.Canvas.Height != 720 || cfg.Canvas.Scale != 2 {
		t.Errorf("unexpected canvas %+v", cfg.Canvas)
	}
	if cfg.Generate.Model != "test-image-model" {
		t.Errorf("unexpected model %q", cfg.Generate.Model)
	}
	if cfg.Generate.APIKey != "secret" {
		t.Errorf("unexpected api key %q", cfg.Generate.APIKey)
	}
	if cfg.Generate.Instruction != "keep it loose" {
		t.Errorf("unexpected instruction %q", cfg.Generate.Instruction)
	}
	if !cfg.Notify.Generate || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("unexpected notify %+v", cfg.Notify)
	}

	p, ok := cfg.Palettes["pastel"]
	if !ok {
		t.Fatal("expected palette 'pastel' to be loaded")
	}
	if len(p.Swatches) != 1 || p.Swatches[0].Name != "Rose" {
		t.Errorf("unexpected swatches %+v", p.Swatches)
	}
	if len(p.Widths) != 2 || p.Widths[0] != 2 {
		t.Errorf("unexpected widths %v", p.Widths)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Listen == "" || cfg.Canvas.Width == 0 || cfg.Generate.Endpoint == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	if _, err := Parse(strings.NewReader("[canvas]\nwidth = broad\n")); err == nil {
		t.Fatal("expected error for non-numeric width")
	}
	if _, err := Parse(strings.NewReader("[canvas]\nscale = 0\n")); err == nil {
		t.Fatal("expected error for zero scale")
	}
	if _, err := Parse(strings.NewReader("[notify]\ngenerate = maybe\n")); err == nil {
		t.Fatal("expected error for bad boolean")
	}
	if _, err := Parse(strings.NewReader("[palette.p]\nInk = 102030\n")); err == nil {
		t.Fatal("expected error for bad color")
	}
}

func TestRoundTrip(t *testing.T) {
	input := `listen = :9000
palette = pastel

[canvas]
width = 640
height = 480
scale = 1.5

[notify]
generate = true
save = true
copy = false

[palette.pastel]
Rose: #FF6688
`
	first, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := Parse(strings.NewReader(first.String()))
	if err != nil {
		t.Fatalf("reparse of String() output: %v", err)
	}
	if second.Listen != first.Listen || second.Canvas != first.Canvas || second.Notify != first.Notify {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", first, second)
	}
	if _, ok := second.Palettes["pastel"]; !ok {
		t.Fatal("palette lost in round trip")
	}
}

func TestStringOmitsAPIKey(t *testing.T) {
	cfg := New()
	cfg.Generate.APIKey = "super-secret"
	if strings.Contains(cfg.String(), "super-secret") {
		t.Fatal("String() must not render the API key")
	}
}
