// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/shade/ir"
)

// Manifest describes everything a host needs to bind resources for a
// generated module and dispatch its entry points.
type Manifest struct {
	Bindings    []Binding     `json:"bindings" yaml:"bindings" msgpack:"bindings"`
	Uniforms    *UniformBlock `json:"uniforms,omitempty" yaml:"uniforms,omitempty" msgpack:"uniforms,omitempty"`
	EntryPoints []EntryPoint  `json:"entry_points" yaml:"entry_points" msgpack:"entry_points"`
}

// Binding describes one buffer binding.
type Binding struct {
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Group     uint32 `json:"group" yaml:"group" msgpack:"group"`
	Index     uint32 `json:"index" yaml:"index" msgpack:"index"`
	Space     string `json:"space" yaml:"space" msgpack:"space"`
	Access    string `json:"access" yaml:"access" msgpack:"access"`
	Element   string `json:"element" yaml:"element" msgpack:"element"`
	Singleton bool   `json:"singleton,omitempty" yaml:"singleton,omitempty" msgpack:"singleton,omitempty"`

	// ElementSize is the size of one element; Stride is the distance
	// between array elements.
	ElementSize uint32 `json:"element_size" yaml:"element_size" msgpack:"element_size"`
	Stride      uint32 `json:"stride" yaml:"stride" msgpack:"stride"`

	// MinBindingSize is the smallest buffer that may be bound: one
	// element, or one stride for arrays.
	MinBindingSize uint64 `json:"min_binding_size" yaml:"min_binding_size" msgpack:"min_binding_size"`

	// Members is set when the element is a struct.
	Members []Member `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty"`
}

// UniformBlock describes the synthesized uniform block.
type UniformBlock struct {
	Group uint32 `json:"group" yaml:"group" msgpack:"group"`
	Index uint32 `json:"index" yaml:"index" msgpack:"index"`
	Size  uint32 `json:"size" yaml:"size" msgpack:"size"`

	// User is the placement of the user uniform struct, if any.
	User *Member `json:"user,omitempty" yaml:"user,omitempty" msgpack:"user,omitempty"`

	// UserMembers are the fields of the user struct, relative to User.Offset.
	UserMembers []Member `json:"user_members,omitempty" yaml:"user_members,omitempty" msgpack:"user_members,omitempty"`

	// Lengths holds the absolute offset of each buffer's element count.
	Lengths []Member `json:"lengths,omitempty" yaml:"lengths,omitempty" msgpack:"lengths,omitempty"`
}

// Length returns the offset of the element count of buffer.
func (u *UniformBlock) Length(buffer string) (uint32, bool) {
	for _, l := range u.Lengths {
		if l.Name == buffer {
			return l.Offset, true
		}
	}
	return 0, false
}

// EntryPoint describes a compute entry point.
type EntryPoint struct {
	Name          string    `json:"name" yaml:"name" msgpack:"name"`
	Dims          int       `json:"dims" yaml:"dims" msgpack:"dims"`
	WorkgroupSize [3]uint32 `json:"workgroup_size" yaml:"workgroup_size,flow" msgpack:"workgroup_size"`
}

// Binding returns the binding named name.
func (m *Manifest) Binding(name string) (Binding, bool) {
	for _, b := range m.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Build computes the manifest of a finished module.
func Build(m *ir.Module) (*Manifest, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: module is nil")
	}
	out := &Manifest{
		Bindings:    make([]Binding, 0, len(m.Bindings)),
		EntryPoints: make([]EntryPoint, 0, len(m.EntryPoints)),
	}

	for i := range m.Bindings {
		b, err := bindingOf(&m.Bindings[i])
		if err != nil {
			return nil, err
		}
		out.Bindings = append(out.Bindings, b)
	}

	if m.HasUniformBlock() {
		u, err := uniformBlockOf(m)
		if err != nil {
			return nil, err
		}
		out.Uniforms = u
	}

	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		out.EntryPoints = append(out.EntryPoints, EntryPoint{
			Name:          string(ep.Name),
			Dims:          int(ep.Workgroup.Dims),
			WorkgroupSize: ep.Workgroup.Extent(),
		})
	}
	return out, nil
}

func bindingOf(b *ir.BufferBinding) (Binding, error) {
	l, err := Of(b.Element)
	if err != nil {
		return Binding{}, fmt.Errorf("buffer %s: %w", b.Name, err)
	}
	out := Binding{
		Name:        string(b.Name),
		Group:       b.Group,
		Index:       b.Index,
		Space:       b.Space.String(),
		Access:      b.Disposition.String(),
		Element:     ir.TypeName(b.Element),
		Singleton:   b.Singleton,
		ElementSize: l.Size,
		Stride:      l.Stride(),
	}
	if b.Singleton {
		out.MinBindingSize = uint64(l.Size)
	} else {
		out.MinBindingSize = uint64(out.Stride)
	}
	if st, ok := b.Element.(*ir.StructType); ok {
		if out.Members, err = StructOffsets(st); err != nil {
			return Binding{}, fmt.Errorf("buffer %s: %w", b.Name, err)
		}
	}
	return out, nil
}

// uniformBlockOf lays out the wrapper the generator emits: the user
// struct, then one u32 length per binding, each member aligned to 16.
func uniformBlockOf(m *ir.Module) (*UniformBlock, error) {
	u := &UniformBlock{Group: m.UniformSlot.Group, Index: m.UniformSlot.Index}
	var offset uint64

	if m.Uniforms != nil {
		members, l, err := structLayout(m.Uniforms)
		if err != nil {
			return nil, fmt.Errorf("uniforms: %w", err)
		}
		u.User = &Member{Name: string(ir.UniformUserField), Type: string(m.Uniforms.Name), Size: l.Size}
		u.UserMembers = members
		offset = uint64(l.Size)
	}

	if len(m.Bindings) > 0 {
		base := roundUp64(UniformMemberAlign, offset)
		u.Lengths = make([]Member, len(m.Bindings))
		for i := range m.Bindings {
			off, err := safecast.Conv[uint32](base + 4*uint64(i))
			if err != nil {
				return nil, fmt.Errorf("uniforms: buffer length offset: %w", err)
			}
			u.Lengths[i] = Member{Name: string(m.Bindings[i].Name), Type: ir.U32.String(), Offset: off, Size: 4}
		}
		offset = base + 4*uint64(len(m.Bindings))
	}

	size, err := safecast.Conv[uint32](roundUp64(UniformMemberAlign, offset))
	if err != nil {
		return nil, fmt.Errorf("uniforms: block too large: %w", err)
	}
	u.Size = size
	return u, nil
}
