// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/wgsl"
)

var (
	genOut        string
	genJobs       int
	genNoValidate bool
)

func init() {
	genCmd.Flags().StringVarP(&genOut, "out", "o", "", "output directory, - for stdout (default: [output].dir)")
	genCmd.Flags().IntVarP(&genJobs, "jobs", "j", 0, "max samples built in parallel (0 = GOMAXPROCS)")
	genCmd.Flags().BoolVar(&genNoValidate, "no-validate", false, "skip module validation")
}

var genCmd = &cobra.Command{
	Use:   "gen [sample...]",
	Short: "Generate WGSL for samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(configPath, ".")
		if err != nil {
			return err
		}
		selected, err := cfg.selectSamples(args)
		if err != nil {
			return err
		}

		opts := cfg.wgslOptions()
		if genNoValidate {
			opts.Validate = false
		}
		dir := cfg.Output.Dir
		if cmd.Flags().Changed("out") {
			dir = genOut
		}

		artifacts, err := renderAll(cmd.Context(), selected, genJobs, wgslRenderer(opts))
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), dir, "wgsl", artifacts)
	},
}

func wgslRenderer(opts wgsl.Options) renderFunc {
	return func(m *ir.Module) ([]byte, error) {
		source, err := wgsl.Compile(m, opts)
		if err != nil {
			return nil, err
		}
		return []byte(source), nil
	}
}
