// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/layout"
)

var (
	manifestFormat string
	manifestOut    string
)

func init() {
	manifestCmd.Flags().StringVarP(&manifestFormat, "format", "f", "", "manifest format json|yaml|msgpack (default: [gen].format)")
	manifestCmd.Flags().StringVarP(&manifestOut, "out", "o", "", "output directory, - for stdout (default: [output].dir)")
}

var manifestCmd = &cobra.Command{
	Use:   "manifest [sample...]",
	Short: "Emit binding and buffer layout manifests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(configPath, ".")
		if err != nil {
			return err
		}
		selected, err := cfg.selectSamples(args)
		if err != nil {
			return err
		}

		name := cfg.Gen.Format
		if cmd.Flags().Changed("format") {
			name = manifestFormat
		}
		format, err := layout.ParseFormat(name)
		if err != nil {
			return err
		}
		dir := cfg.Output.Dir
		if cmd.Flags().Changed("out") {
			dir = manifestOut
		}

		artifacts, err := renderAll(cmd.Context(), selected, 0, manifestRenderer(format))
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), dir, "manifest."+format.Ext(), artifacts)
	},
}

func manifestRenderer(format layout.Format) renderFunc {
	return func(m *ir.Module) ([]byte, error) {
		manifest, err := layout.Build(m)
		if err != nil {
			return nil, err
		}
		return layout.Encode(manifest, format)
	}
}
