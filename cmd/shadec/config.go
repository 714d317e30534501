// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/shade/layout"
	"github.com/gogpu/shade/samples"
	"github.com/gogpu/shade/wgsl"
)

const configFileName = "shadec.toml"

type config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path   string       `toml:"-"`
	Output outputConfig `toml:"output"`
	Gen    genConfig    `toml:"gen"`
}

type outputConfig struct {
	Dir      string   `toml:"dir"`
	Indent   string   `toml:"indent"`
	Header   []string `toml:"header"`
	Validate bool     `toml:"validate"`
}

type genConfig struct {
	Samples []string `toml:"samples"`
	Format  string   `toml:"format"`
}

func defaultConfig() config {
	opts := wgsl.DefaultOptions()
	return config{
		Output: outputConfig{
			Indent:   opts.Indent,
			Validate: opts.Validate,
		},
		Gen: genConfig{
			Format: layout.FormatJSON.String(),
		},
	}
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig decodes path over the defaults. Keys absent from the file
// keep their default values; unknown keys are rejected.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("output", "indent") && strings.Trim(cfg.Output.Indent, " \t") != "" {
		return config{}, fmt.Errorf("%s: [output].indent must contain only spaces and tabs", path)
	}
	if _, err := layout.ParseFormat(cfg.Gen.Format); err != nil {
		return config{}, fmt.Errorf("%s: [gen].format: %w", path, err)
	}
	if cfg.Output.Dir != "" && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Output.Dir))
	}
	cfg.Path = path
	return cfg, nil
}

// resolveConfig loads explicit if set, otherwise the nearest shadec.toml
// above startDir, otherwise the defaults.
func resolveConfig(explicit, startDir string) (config, error) {
	if explicit != "" {
		return loadConfig(explicit)
	}
	path, ok, err := findConfig(startDir)
	if err != nil {
		return config{}, err
	}
	if !ok {
		return defaultConfig(), nil
	}
	return loadConfig(path)
}

func (c config) wgslOptions() wgsl.Options {
	return wgsl.Options{
		Indent:   c.Output.Indent,
		Header:   c.Output.Header,
		Validate: c.Output.Validate,
	}
}

// selectSamples resolves names from args, then [gen].samples, then every
// registered sample. Duplicates are dropped.
func (c config) selectSamples(args []string) ([]samples.Sample, error) {
	names := args
	if len(names) == 0 {
		names = c.Gen.Samples
	}
	if len(names) == 0 {
		return samples.All(), nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]samples.Sample, 0, len(names))
	for _, name := range names {
		s, ok := samples.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown sample %q (available: %s)", name, strings.Join(samples.Names(), ", "))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, s)
	}
	return out, nil
}
