// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/shade/ir"
)

// DefaultIndent is one nesting level of generated code.
const DefaultIndent = "    "

// Options configures WGSL generation.
type Options struct {
	// Indent is written once per nesting level.
	// Defaults to DefaultIndent if empty.
	Indent string

	// Header lines are written as // comments before any declaration.
	Header []string

	// Validate runs ir.Validate before generation.
	Validate bool
}

// DefaultOptions returns sensible default options for WGSL generation.
func DefaultOptions() Options {
	return Options{
		Indent:   DefaultIndent,
		Validate: true,
	}
}

// Compile renders a module to WGSL source. The output is a pure
// function of the module and options.
func Compile(module *ir.Module, options Options) (string, error) {
	if module == nil {
		return "", fmt.Errorf("wgsl: module is nil")
	}
	if options.Indent == "" {
		options.Indent = DefaultIndent
	}

	if options.Validate {
		errs, err := ir.Validate(module)
		if err != nil {
			return "", fmt.Errorf("wgsl: %w", err)
		}
		if len(errs) > 0 {
			joined := make([]error, len(errs))
			for i := range errs {
				joined[i] = errs[i]
			}
			return "", fmt.Errorf("wgsl: invalid module: %w", errors.Join(joined...))
		}
	}

	w := newWriter(module, &options)
	if err := w.writeModule(); err != nil {
		return "", fmt.Errorf("wgsl: %w", err)
	}
	return w.String(), nil
}
