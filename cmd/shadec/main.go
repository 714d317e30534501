// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command shadec renders the bundled shade samples.
//
// Usage:
//
//	shadec [command] [flags]
//
// Examples:
//
//	shadec list                          # List samples
//	shadec gen perlin                    # Print WGSL to stdout
//	shadec gen -o out                    # Write every sample to out/<name>.wgsl
//	shadec manifest --format yaml rect   # Print the binding manifest as YAML
//
// Settings are read from shadec.toml, searched upward from the working
// directory. Flags override file values.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const shadecVersion = "0.1.0-dev"

var (
	configPath string
	colorMode  string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:           "shadec",
	Short:         "Shade sample compiler",
	Long:          `shadec renders shade sample programs to WGSL and binding manifests`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyColorMode(colorMode)
	},
}

func main() {
	rootCmd.Version = shadecVersion

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(manifestCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+configFileName+" (default: search upward)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
