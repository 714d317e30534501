// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gpu connects shade modules to a WebGPU device.
//
// A Project owns the device and queue the host acquired; the shader
// builder never inspects them. Shaders defined through a Project carry
// their generated WGSL and the descriptors needed to create a compute
// pipeline for them.
package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/layout"
	"github.com/gogpu/shade/wgsl"
)

// Project groups the shaders of one application around a device.
type Project struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	options wgsl.Options
}

// ProjectOption configures a Project.
type ProjectOption func(*Project)

// WithWGSLOptions sets the generator options used for every shader.
func WithWGSLOptions(opts wgsl.Options) ProjectOption {
	return func(p *Project) {
		p.options = opts
	}
}

// NewProject creates a project around a device and queue. Both may be
// nil when only source generation is needed.
func NewProject(device *wgpu.Device, queue *wgpu.Queue, opts ...ProjectOption) *Project {
	p := &Project{
		device:  device,
		queue:   queue,
		options: wgsl.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Device returns the project's device.
func (p *Project) Device() *wgpu.Device {
	return p.device
}

// Queue returns the project's queue.
func (p *Project) Queue() *wgpu.Queue {
	return p.queue
}

// DefineShader builds a shader with define, renders it to WGSL and lays
// out its resource interface.
func (p *Project) DefineShader(label string, define func(s *builder.ShaderBuilder) error, opts ...builder.Option) (*Shader, error) {
	if define == nil {
		return nil, fmt.Errorf("gpu: shader %s: nil define function", label)
	}
	s := builder.NewShader(opts...)
	if err := define(s); err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", label, err)
	}
	m, err := s.Finish()
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", label, err)
	}
	source, err := wgsl.Compile(m, p.options)
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", label, err)
	}
	manifest, err := layout.Build(m)
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", label, err)
	}
	return &Shader{label: label, module: m, source: source, manifest: manifest}, nil
}

// ErrNoDevice is returned when a device operation is attempted on a
// project created without a device.
var ErrNoDevice = errors.New("gpu: project has no device")

// CreateComputePipeline creates a compute pipeline for one entry point
// of shader, with one bind group layout per group the shader uses.
func (p *Project) CreateComputePipeline(shader *Shader, entryPoint string) (*wgpu.ComputePipeline, error) {
	if p.device == nil {
		return nil, ErrNoDevice
	}
	if !shader.HasEntryPoint(entryPoint) {
		return nil, fmt.Errorf("gpu: shader %s has no entry point %s", shader.label, entryPoint)
	}

	module, err := p.device.CreateShaderModule(shader.ModuleDescriptor())
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", shader.label, err)
	}
	defer module.Release()

	descriptors := shader.BindGroupLayoutDescriptors()
	layouts := make([]*wgpu.BindGroupLayout, shader.GroupCount())
	defer func() {
		for _, l := range layouts {
			if l != nil {
				l.Release()
			}
		}
	}()
	for g := range layouts {
		desc := descriptors[uint32(g)]
		l, err := p.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("gpu: shader %s: bind group layout %d: %w", shader.label, g, err)
		}
		layouts[g] = l
	}

	pipelineLayout, err := p.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            shader.label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", shader.label, err)
	}
	defer pipelineLayout.Release()

	pipeline, err := p.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  shader.label + " " + entryPoint,
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: shader %s: %w", shader.label, err)
	}
	return pipeline, nil
}
