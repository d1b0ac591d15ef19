package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/cosketch/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	fmt.Print(c.root.config.String())
	return nil
}

func (c *configCmd) runSave() error {
	cfg := c.root.config

	loader := config.NewLoader(version, configPathOverride)
	path := loader.GetConfigPath()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "cosketch", "config.rc")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(cfg.String()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
