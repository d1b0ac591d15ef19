package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/cosketch/internal/config"
	"github.com/example/cosketch/internal/notify"
	"github.com/example/cosketch/internal/palette"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	generateAlerts bool
	saveAlerts     bool
	copyAlerts     bool
	paletteName    string
	activePalette  *palette.Palette
}

func (r *root) Program() string {
	if r == nil {
		return "cosketch"
	}
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:        program,
		notifier:       r.notifier,
		config:         r.config,
		generateAlerts: r.generateAlerts,
		saveAlerts:     r.saveAlerts,
		copyAlerts:     r.copyAlerts,
		paletteName:    r.paletteName,
		activePalette:  r.activePalette,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("cosketch", flag.ExitOnError),
		program:  "cosketch",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.generateAlerts, "notify-generate", cfg.Notify.Generate, "show a desktop notification when a generation completes")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a sketch")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default.
	r.fs.StringVar(&r.paletteName, "palette", "", "color palette to use")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventGenerate, r.generateAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	paletteName := r.paletteName
	if paletteName == "" {
		paletteName = os.Getenv("COSKETCH_PALETTE")
	}
	if paletteName == "" {
		paletteName = r.config.Palette
	}
	if cfgPalette, ok := r.config.Palettes[paletteName]; ok {
		r.activePalette = cfgPalette
	} else {
		loader := palette.NewLoader()
		p, loadErr := loader.Load(paletteName)
		if loadErr != nil {
			if paletteName != "" && paletteName != "default" {
				fmt.Fprintf(os.Stderr, "warning: failed to load palette %q: %v. using default.\n", paletteName, loadErr)
			}
			p = palette.Default()
		}
		r.activePalette = p
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "generate":
		cmd, err = parseGenerateCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "palette":
		cmd, err = parsePaletteCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	if runErr := cmd.Run(); runErr != nil {
		return runErr
	}
	return nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// apiKey resolves the generation API key. The environment wins over the
// config file so the key can stay out of dotfiles.
func (r *root) apiKey() string {
	if key := strings.TrimSpace(os.Getenv("COSKETCH_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(r.config.Generate.APIKey)
}

func (r *root) instruction() string {
	return strings.TrimSpace(r.config.Generate.Instruction)
}

func (r *root) notifyGenerated(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Generated(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
