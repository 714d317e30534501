// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/shade/samples"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listSamples(cmd.OutOrStdout())
	},
}

func listSamples(w io.Writer) error {
	all := samples.All()
	width := 0
	for _, s := range all {
		width = max(width, len(s.Name))
	}
	for _, s := range all {
		if _, err := fmt.Fprintf(w, "%s  %s\n", nameColor.Sprintf("%-*s", width, s.Name), s.Description); err != nil {
			return err
		}
	}
	return nil
}
