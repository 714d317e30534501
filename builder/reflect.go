// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"slices"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/wgsl"
)

// StructMapped is implemented by host aggregates that can be used as
// shader struct types. VisitFields reports each field once, in order,
// by calling Field.
//
//	func (Point) StructName() string { return "Point" }
//
//	func (Point) VisitFields(v *builder.FieldVisitor) {
//		builder.Field(v, "x", func(p *Point) uint32 { return p.X }, func(p *Point, x uint32) { p.X = x })
//		builder.Field(v, "y", func(p *Point) uint32 { return p.Y }, func(p *Point, y uint32) { p.Y = y })
//	}
type StructMapped interface {
	StructName() string
	VisitFields(v *FieldVisitor)
}

// FieldVisitor accumulates the fields reported by a StructMapped type.
type FieldVisitor struct {
	fields []ir.StructField
	stack  []string
	err    error
}

// Field reports one field of S with type F. Only the static type F is
// used; get and set are never invoked while building the struct type.
func Field[S, F any](v *FieldVisitor, name string, get func(*S) F, set func(*S, F)) {
	if v.err != nil {
		return
	}
	t, err := typeOf[F](v.stack)
	if err != nil {
		v.err = err
		return
	}
	v.fields = append(v.fields, ir.StructField{Name: ir.Identifier(name), DataType: t})
}

// TypeOf returns the shader type of the host type T: bool, int32,
// uint32, float32, [N]int32, [N]uint32, [N]float32 for N in 2..4, or a
// StructMapped aggregate.
func TypeOf[T any]() (ir.DataType, error) {
	return typeOf[T](nil)
}

// StructTypeOf builds the struct type described by s. Repeated calls
// yield structurally equal results.
func StructTypeOf(s StructMapped) (*ir.StructType, error) {
	return structTypeOf(s, nil)
}

func typeOf[T any](stack []string) (ir.DataType, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		return ir.Bool, nil
	case int32:
		return ir.I32, nil
	case uint32:
		return ir.U32, nil
	case float32:
		return ir.F32, nil
	case [2]int32:
		return ir.Vec2I32, nil
	case [3]int32:
		return ir.Vec3I32, nil
	case [4]int32:
		return ir.Vec4I32, nil
	case [2]uint32:
		return ir.Vec2U32, nil
	case [3]uint32:
		return ir.Vec3U32, nil
	case [4]uint32:
		return ir.Vec4U32, nil
	case [2]float32:
		return ir.Vec2F32, nil
	case [3]float32:
		return ir.Vec3F32, nil
	case [4]float32:
		return ir.Vec4F32, nil
	}
	if sm, ok := any(zero).(StructMapped); ok {
		return structTypeOf(sm, stack)
	}
	if sm, ok := any(&zero).(StructMapped); ok {
		return structTypeOf(sm, stack)
	}
	return nil, errorf(ErrTypeMismatch, "host type %T has no shader representation", zero)
}

func structTypeOf(s StructMapped, stack []string) (*ir.StructType, error) {
	name := s.StructName()
	if slices.Contains(stack, name) {
		return nil, errorf(ErrTypeMismatch, "struct %s contains itself", name)
	}
	id, err := checkIdent(name)
	if err != nil {
		return nil, err
	}
	v := &FieldVisitor{stack: append(slices.Clone(stack), name)}
	s.VisitFields(v)
	if v.err != nil {
		return nil, v.err
	}
	st := &ir.StructType{Name: id, Fields: v.fields}
	if err := checkStruct(st); err != nil {
		return nil, err
	}
	return st, nil
}

// checkStruct validates field names of a struct.
func checkStruct(st *ir.StructType) error {
	if len(st.Fields) == 0 {
		return errorf(ErrInvalidOperation, "struct %s has no fields", st.Name)
	}
	seen := make(map[ir.Identifier]struct{}, len(st.Fields))
	for _, f := range st.Fields {
		if !identPattern.MatchString(string(f.Name)) || wgsl.IsReserved(string(f.Name)) {
			return errorf(ErrInvalidName, "struct %s: %q is not a valid field name", st.Name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return errorf(ErrFieldCollision, "struct %s: field %s declared twice", st.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.DataType == nil {
			return errorf(ErrTypeMismatch, "struct %s: field %s has no type", st.Name, f.Name)
		}
	}
	return nil
}
