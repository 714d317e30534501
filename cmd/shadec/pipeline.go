// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/samples"
)

// artifact is one rendered sample.
type artifact struct {
	name string
	data []byte
}

type renderFunc func(m *ir.Module) ([]byte, error)

// renderAll builds and renders samples concurrently. Results keep the
// order of selected.
func renderAll(ctx context.Context, selected []samples.Sample, jobs int, render renderFunc) ([]artifact, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	out := make([]artifact, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(selected)))

	for i, s := range selected {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			m, err := s.Build()
			if err != nil {
				return err
			}
			data, err := render(m)
			if err != nil {
				return fmt.Errorf("sample %s: %w", s.Name, err)
			}
			out[i] = artifact{name: s.Name, data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// emit writes artifacts to dir as <name>.<ext>, or to stdout when dir is
// empty or "-".
func emit(stdout, stderr io.Writer, dir, ext string, artifacts []artifact) error {
	if dir == "" || dir == "-" {
		for i, a := range artifacts {
			if i > 0 && ext == "wgsl" {
				if _, err := io.WriteString(stdout, "\n"); err != nil {
					return err
				}
			}
			if _, err := stdout.Write(a.data); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name+"."+ext)
		if err := os.WriteFile(path, a.data, 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}
		reportWritten(stderr, a.name, path, len(a.data))
	}
	return nil
}
