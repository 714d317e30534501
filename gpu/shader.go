// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/layout"
)

// Shader is a finished shade module together with its WGSL source and
// binding manifest. It is immutable and safe for concurrent use.
type Shader struct {
	label    string
	module   *ir.Module
	source   string
	manifest *layout.Manifest
}

// Label returns the shader label.
func (s *Shader) Label() string {
	return s.label
}

// Module returns the shader's IR module.
func (s *Shader) Module() *ir.Module {
	return s.module
}

// Source returns the generated WGSL.
func (s *Shader) Source() string {
	return s.source
}

// Manifest returns the shader's binding manifest.
func (s *Shader) Manifest() *layout.Manifest {
	return s.manifest
}

// HasEntryPoint reports whether the shader defines an entry point named name.
func (s *Shader) HasEntryPoint(name string) bool {
	for _, ep := range s.manifest.EntryPoints {
		if ep.Name == name {
			return true
		}
	}
	return false
}

// ModuleDescriptor returns the descriptor for creating the shader module.
func (s *Shader) ModuleDescriptor() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

// GroupCount returns one more than the highest bind group index used.
func (s *Shader) GroupCount() int {
	n := 0
	for _, b := range s.manifest.Bindings {
		n = max(n, int(b.Group)+1)
	}
	if u := s.manifest.Uniforms; u != nil {
		n = max(n, int(u.Group)+1)
	}
	return n
}

// BindGroupLayoutDescriptors returns one layout descriptor per bind
// group, keyed by group index. Groups below GroupCount that hold no
// bindings get an empty descriptor. Entries are sorted by binding index.
func (s *Shader) BindGroupLayoutDescriptors() map[uint32]wgpu.BindGroupLayoutDescriptor {
	entries := make(map[uint32][]wgpu.BindGroupLayoutEntry)
	for _, b := range s.manifest.Bindings {
		entries[b.Group] = append(entries[b.Group], wgpu.BindGroupLayoutEntry{
			Binding:    b.Index,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type:           bufferBindingType(b),
				MinBindingSize: b.MinBindingSize,
			},
		})
	}
	if u := s.manifest.Uniforms; u != nil {
		entries[u.Group] = append(entries[u.Group], wgpu.BindGroupLayoutEntry{
			Binding:    u.Index,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(u.Size),
			},
		})
	}

	out := make(map[uint32]wgpu.BindGroupLayoutDescriptor, s.GroupCount())
	for g := 0; g < s.GroupCount(); g++ {
		group := uint32(g)
		list := entries[group]
		sort.Slice(list, func(i, j int) bool { return list[i].Binding < list[j].Binding })
		out[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   s.label,
			Entries: list,
		}
	}
	return out
}

// bufferBindingType maps a binding's access to a WebGPU buffer type.
// Write-only storage is declared read_write in WGSL and needs a
// writable binding.
func bufferBindingType(b layout.Binding) wgpu.BufferBindingType {
	switch {
	case b.Space == ir.SpaceUniform.String():
		return wgpu.BufferBindingTypeUniform
	case b.Access == ir.DispositionRead.String():
		return wgpu.BufferBindingTypeReadOnlyStorage
	default:
		return wgpu.BufferBindingTypeStorage
	}
}
