// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package layout computes the host memory layout of shade types and
// describes a module's resource interface as a serializable manifest.
//
// Sizes and alignments follow the WGSL rules for host-shareable types:
// scalars are 4 bytes, vec2 is 8 bytes aligned to 8, vec3 is 12 bytes
// aligned to 16 and vec4 is 16 bytes aligned to 16. A struct is aligned
// to its most aligned member and padded to a multiple of that alignment.
package layout

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/shade/ir"
)

// UniformMemberAlign is the alignment the generator applies to each
// member of the uniform block.
const UniformMemberAlign = 16

// Layout is the size and alignment of a type in bytes.
type Layout struct {
	Size  uint32 `json:"size" yaml:"size" msgpack:"size"`
	Align uint32 `json:"align" yaml:"align" msgpack:"align"`
}

// Stride returns the distance between consecutive array elements.
func (l Layout) Stride() uint32 {
	return roundUp(l.Align, l.Size)
}

// Of returns the layout of a host-shareable type.
func Of(t ir.DataType) (Layout, error) {
	switch t := t.(type) {
	case ir.BuiltinType:
		return builtinLayout(t)
	case *ir.StructType:
		_, l, err := structLayout(t)
		return l, err
	default:
		return Layout{}, fmt.Errorf("layout: type %s has no layout", ir.TypeName(t))
	}
}

func builtinLayout(t ir.BuiltinType) (Layout, error) {
	if !t.Valid() || t.Scalar() == ir.ScalarBool {
		return Layout{}, fmt.Errorf("layout: %s is not host-shareable", ir.TypeName(t))
	}
	switch t.Width() {
	case 1:
		return Layout{Size: 4, Align: 4}, nil
	case 2:
		return Layout{Size: 8, Align: 8}, nil
	case 3:
		return Layout{Size: 12, Align: 16}, nil
	default:
		return Layout{Size: 16, Align: 16}, nil
	}
}

// Member is the placement of one struct field.
type Member struct {
	Name   string `json:"name" yaml:"name" msgpack:"name"`
	Type   string `json:"type" yaml:"type" msgpack:"type"`
	Offset uint32 `json:"offset" yaml:"offset" msgpack:"offset"`
	Size   uint32 `json:"size" yaml:"size" msgpack:"size"`
}

// StructOffsets returns the placement of every field of st, in
// declaration order.
func StructOffsets(st *ir.StructType) ([]Member, error) {
	members, _, err := structLayout(st)
	return members, err
}

func structLayout(st *ir.StructType) ([]Member, Layout, error) {
	if st == nil || len(st.Fields) == 0 {
		return nil, Layout{}, fmt.Errorf("layout: struct %s has no fields", ir.TypeName(st))
	}
	members := make([]Member, len(st.Fields))
	var offset uint64
	align := uint32(1)
	for i, f := range st.Fields {
		fl, err := Of(f.DataType)
		if err != nil {
			return nil, Layout{}, fmt.Errorf("%s.%s: %w", st.Name, f.Name, err)
		}
		offset = roundUp64(uint64(fl.Align), offset)
		off, err := safecast.Conv[uint32](offset)
		if err != nil {
			return nil, Layout{}, fmt.Errorf("layout: struct %s is too large: %w", st.Name, err)
		}
		members[i] = Member{Name: string(f.Name), Type: ir.TypeName(f.DataType), Offset: off, Size: fl.Size}
		offset += uint64(fl.Size)
		align = max(align, fl.Align)
	}
	size, err := safecast.Conv[uint32](roundUp64(uint64(align), offset))
	if err != nil {
		return nil, Layout{}, fmt.Errorf("layout: struct %s is too large: %w", st.Name, err)
	}
	return members, Layout{Size: size, Align: align}, nil
}

func roundUp(align, n uint32) uint32 {
	return (n + align - 1) / align * align
}

func roundUp64(align, n uint64) uint64 {
	return (n + align - 1) / align * align
}
