// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	nameColor  = color.New(color.FgCyan)
	faintColor = color.New(color.Faint)
)

// applyColorMode sets the global color switch. "auto" keeps the
// terminal detection done by the color package.
func applyColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "auto", "":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

func printError(w io.Writer, err error) {
	errorColor.Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}

func reportWritten(w io.Writer, name, path string, size int) {
	if quiet {
		return
	}
	okColor.Fprint(w, "ok ")
	fmt.Fprintf(w, "%s -> %s %s\n", nameColor.Sprint(name), path, faintColor.Sprintf("(%d bytes)", size))
}
