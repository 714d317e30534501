// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package samples contains reference shade programs. They double as
// smoke tests for the builder and the generator and as inputs for the
// shadec command.
package samples

import (
	"fmt"
	"sort"

	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/ir"
)

// Sample is a named shader definition.
type Sample struct {
	Name        string
	Description string

	// Options are passed to builder.NewShader.
	Options []builder.Option

	// Define populates the shader.
	Define func(s *builder.ShaderBuilder) error
}

// Build runs the sample against a fresh builder and returns the module.
func (s Sample) Build() (*ir.Module, error) {
	b := builder.NewShader(s.Options...)
	if err := s.Define(b); err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.Name, err)
	}
	m, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.Name, err)
	}
	return m, nil
}

var registry = map[string]Sample{}

func register(s Sample) {
	if _, dup := registry[s.Name]; dup {
		panic("samples: duplicate sample " + s.Name)
	}
	registry[s.Name] = s
}

// All returns every sample, sorted by name.
func All() []Sample {
	out := make([]Sample, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted sample names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the sample named name.
func Lookup(name string) (Sample, bool) {
	s, ok := registry[name]
	return s, ok
}
