// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package builder is the construction API for shade modules.
//
// A ShaderBuilder collects module-level declarations; function and entry
// point bodies are populated through Block builders handed to callbacks.
// Every handle remembers the block that produced it, and using it from
// anywhere that block is not an ancestor of fails with ErrScopeViolation.
//
// The first fault aborts the build: it is returned by the faulting call,
// by every later call, and by Finish.
package builder

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/shade/ir"
)

// ShaderBuilder assembles one shader module.
// It is not safe for concurrent use.
type ShaderBuilder struct {
	root      *scope
	nextScope uint32

	names   map[ir.Identifier]declKind
	structs map[ir.Identifier]*ir.StructType
	slots   map[ir.Slot]ir.Identifier

	// localNames holds every local and parameter name declared so far.
	localNames map[ir.Identifier]struct{}

	uniforms    *ir.StructType
	uniformSlot *ir.Slot

	bindings    []ir.BufferBinding
	constants   []ir.Constant
	functions   []ir.Function
	entryPoints []ir.EntryPoint

	err    error
	module *ir.Module
}

// Option configures a ShaderBuilder.
type Option func(*ShaderBuilder)

// WithUniforms sets the user uniform struct.
func WithUniforms(st *ir.StructType) Option {
	return func(s *ShaderBuilder) {
		if s.err != nil {
			return
		}
		if st == nil {
			s.fail(errorf(ErrInvalidOperation, "nil uniform struct"))
			return
		}
		if !ir.IsHostShareable(st) {
			s.fail(errorf(ErrTypeMismatch, "uniform struct %s is not host-shareable", st.Name))
			return
		}
		if !ir.IsUniformShareable(st) {
			s.fail(errorf(ErrTypeMismatch, "uniform struct %s has struct members", st.Name))
			return
		}
		if err := s.registerType(st); err != nil {
			s.fail(err)
			return
		}
		s.uniforms = st
	}
}

// WithUniformsOf sets the user uniform struct from a host aggregate.
func WithUniformsOf[T StructMapped]() Option {
	return func(s *ShaderBuilder) {
		t, err := TypeOf[T]()
		if err != nil {
			s.fail(err)
			return
		}
		st, ok := t.(*ir.StructType)
		if !ok {
			s.fail(errorf(ErrTypeMismatch, "uniforms must be a struct, have %s", ir.TypeName(t)))
			return
		}
		WithUniforms(st)(s)
	}
}

// WithUniformSlot places the uniform block at (group, index) instead of
// the first free index of group 0.
func WithUniformSlot(group, index uint32) Option {
	return func(s *ShaderBuilder) {
		if s.err != nil {
			return
		}
		slot := ir.Slot{Group: group, Index: index}
		if err := s.reserveSlot(slot, ir.UniformBlockVarName); err != nil {
			s.fail(err)
			return
		}
		s.uniformSlot = &slot
	}
}

// NewShader creates a shader builder.
func NewShader(opts ...Option) *ShaderBuilder {
	s := &ShaderBuilder{
		names:   make(map[ir.Identifier]declKind),
		structs: make(map[ir.Identifier]*ir.StructType),
		slots:   make(map[ir.Slot]ir.Identifier),

		localNames: make(map[ir.Identifier]struct{}),
	}
	s.root = s.newScope(nil)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Err returns the first fault recorded by the builder.
func (s *ShaderBuilder) Err() error {
	return s.err
}

// fail records err as the sticky fault. A finished builder keeps its
// module, so faults after Finish are only returned.
func (s *ShaderBuilder) fail(err error) error {
	if s.module != nil {
		return err
	}
	if s.err == nil {
		s.err = err
	}
	return s.err
}

// usable reports the sticky fault, or a fault for a finished builder.
func (s *ShaderBuilder) usable() error {
	if s.err != nil {
		return s.err
	}
	if s.module != nil {
		return errorf(ErrInvalidModule, "shader already finished")
	}
	return nil
}

func (s *ShaderBuilder) reserveSlot(slot ir.Slot, name ir.Identifier) error {
	if prev, ok := s.slots[slot]; ok {
		return errorf(ErrBindingCollision, "%s: group %d binding %d already used by %s", name, slot.Group, slot.Index, prev)
	}
	s.slots[slot] = name
	return nil
}

// Uniforms returns a read of the user uniform struct.
func (s *ShaderBuilder) Uniforms() Expr {
	if s.uniforms == nil {
		return faulty(errorf(ErrInvalidOperation, "shader has no uniforms"))
	}
	return Expr{node: ir.UniformRead{DataType: s.uniforms}, scope: s.root}
}

func (s *ShaderBuilder) defineBinding(b ir.BufferBinding) (*BufferHandle, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if err := s.reserveSlot(b.Slot(), b.Name); err != nil {
		return nil, s.fail(err)
	}
	if b.Disposition > ir.DispositionReadWrite {
		return nil, s.fail(errorf(ErrInvalidOperation, "buffer %s: unknown disposition %d", b.Name, b.Disposition))
	}
	if b.Element == nil || !ir.IsHostShareable(b.Element) {
		return nil, s.fail(errorf(ErrTypeMismatch, "buffer %s: element type %s is not host-shareable", b.Name, typeName(b.Element)))
	}
	if b.Space == ir.SpaceUniform && !ir.IsUniformShareable(b.Element) {
		return nil, s.fail(errorf(ErrTypeMismatch, "uniform buffer %s: element type %s has struct members", b.Name, typeName(b.Element)))
	}
	if err := s.registerType(b.Element); err != nil {
		return nil, s.fail(err)
	}
	id, err := s.declare(string(b.Name), declBuffer)
	if err != nil {
		return nil, s.fail(err)
	}
	b.Name = id
	s.bindings = append(s.bindings, b)
	return &BufferHandle{shader: s, binding: b}, nil
}

// DefineBuffer declares a runtime-sized storage buffer of element.
func (s *ShaderBuilder) DefineBuffer(name string, group, index uint32, d ir.Disposition, element ir.DataType) (*BufferHandle, error) {
	return s.defineBinding(ir.BufferBinding{
		Name:        ir.Identifier(name),
		Space:       ir.SpaceStorage,
		Disposition: d,
		Group:       group,
		Index:       index,
		Element:     element,
	})
}

// DefineSingletonBuffer declares a storage buffer holding one element.
func (s *ShaderBuilder) DefineSingletonBuffer(name string, group, index uint32, d ir.Disposition, element ir.DataType) (*BufferHandle, error) {
	return s.defineBinding(ir.BufferBinding{
		Name:        ir.Identifier(name),
		Space:       ir.SpaceStorage,
		Disposition: d,
		Group:       group,
		Index:       index,
		Element:     element,
		Singleton:   true,
	})
}

// DefineUniformBuffer declares a read-only uniform buffer holding one
// element.
func (s *ShaderBuilder) DefineUniformBuffer(name string, group, index uint32, element ir.DataType) (*BufferHandle, error) {
	return s.defineBinding(ir.BufferBinding{
		Name:        ir.Identifier(name),
		Space:       ir.SpaceUniform,
		Disposition: ir.DispositionRead,
		Group:       group,
		Index:       index,
		Element:     element,
		Singleton:   true,
	})
}

// Buffer declares a runtime-sized storage buffer of T.
func Buffer[T any](s *ShaderBuilder, name string, group, index uint32, d ir.Disposition) (*BufferHandle, error) {
	t, err := TypeOf[T]()
	if err != nil {
		return nil, s.fail(err)
	}
	return s.DefineBuffer(name, group, index, d, t)
}

// SingletonBuffer declares a storage buffer holding one T.
func SingletonBuffer[T any](s *ShaderBuilder, name string, group, index uint32, d ir.Disposition) (*BufferHandle, error) {
	t, err := TypeOf[T]()
	if err != nil {
		return nil, s.fail(err)
	}
	return s.DefineSingletonBuffer(name, group, index, d, t)
}

// DefineConstant declares a module-scope constant.
func (s *ShaderBuilder) DefineConstant(name string, v ir.LiteralValue) (*ConstHandle, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if err := ir.ValidateLiteral(v); err != nil {
		return nil, s.fail(errorf(ErrInvalidOperation, "constant %s: %v", name, err))
	}
	id, err := s.declare(name, declConstant)
	if err != nil {
		return nil, s.fail(err)
	}
	s.constants = append(s.constants, ir.Constant{Name: id, Value: v})
	return &ConstHandle{shader: s, name: id, value: v}, nil
}

// Const declares a module-scope constant from a host value.
func Const[T Value](s *ShaderBuilder, name string, v T) (*ConstHandle, error) {
	return s.DefineConstant(name, literalOf(v))
}

// Parameter is one named, typed function argument.
type Parameter struct {
	Name string
	Type ir.DataType
	err  error
}

// Param returns a parameter whose type is the shader type of T.
func Param[T any](name string) Parameter {
	t, err := TypeOf[T]()
	return Parameter{Name: name, Type: t, err: err}
}

// DefineFunction defines a helper function. body is called once with a
// block for the function body and one read handle per parameter. The
// function is emitted before every function defined after it, so a
// function can only call functions defined earlier.
func (s *ShaderBuilder) DefineFunction(name string, params []Parameter, result ir.DataType, body func(b *Block, args []Expr) error) (*FunctionHandle, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, s.fail(errorf(ErrInvalidOperation, "function %s has no body", name))
	}
	id, err := s.declare(name, declFunction)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.registerType(result); err != nil {
		return nil, s.fail(err)
	}

	sc := s.newScope(s.root)
	fn := ir.Function{
		Name:     id,
		ArgNames: make([]ir.Identifier, len(params)),
		ArgTypes: make([]ir.DataType, len(params)),
		Result:   result,
	}
	args := make([]Expr, len(params))
	for i, p := range params {
		if p.err != nil {
			return nil, s.fail(p.err)
		}
		if p.Type == nil {
			return nil, s.fail(errorf(ErrTypeMismatch, "%s: parameter %s has no type", id, p.Name))
		}
		if err := s.registerType(p.Type); err != nil {
			return nil, s.fail(err)
		}
		argID, err := s.declareLocal(sc, p.Name)
		if err != nil {
			return nil, s.fail(err)
		}
		fn.ArgNames[i] = argID
		fn.ArgTypes[i] = p.Type
		args[i] = Expr{node: ir.Ident{Name: argID, DataType: p.Type}, scope: sc}
	}

	b := &Block{shader: s, scope: sc, result: result}
	stmts, err := b.run(func(b *Block) error { return body(b, args) })
	if err != nil {
		return nil, err
	}
	if result != nil && !returns(stmts) {
		return nil, s.fail(errorf(ErrInvalidOperation, "function %s does not return a value on every path", id))
	}
	fn.Body = stmts
	s.functions = append(s.functions, fn)
	return &FunctionHandle{shader: s, name: id, argTypes: fn.ArgTypes, result: result}, nil
}

// Workgroup1D returns a one-dimensional workgroup of x invocations.
func Workgroup1D(x uint32) ir.Workgroup {
	return ir.Workgroup{Dims: ir.Dims1D, Size: [3]uint32{x, 1, 1}}
}

// Workgroup2D returns a two-dimensional workgroup.
func Workgroup2D(x, y uint32) ir.Workgroup {
	return ir.Workgroup{Dims: ir.Dims2D, Size: [3]uint32{x, y, 1}}
}

// Workgroup3D returns a three-dimensional workgroup.
func Workgroup3D(x, y, z uint32) ir.Workgroup {
	return ir.Workgroup{Dims: ir.Dims3D, Size: [3]uint32{x, y, z}}
}

// DefineEntryPoint defines a compute entry point. body is called once
// with the entry point's block and the dispatch index, which is u32,
// vec2<u32> or vec3<u32> depending on the workgroup dimensionality.
func (s *ShaderBuilder) DefineEntryPoint(name string, wg ir.Workgroup, body func(b *Block, index Expr) error) (*EntryPointHandle, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, s.fail(errorf(ErrInvalidOperation, "entry point %s has no body", name))
	}
	if wg.Dims < ir.Dims1D || wg.Dims > ir.Dims3D {
		return nil, s.fail(errorf(ErrInvalidOperation, "entry point %s: workgroup dimensionality %d", name, wg.Dims))
	}
	for d := 0; d < int(wg.Dims); d++ {
		if wg.Size[d] == 0 {
			return nil, s.fail(errorf(ErrInvalidOperation, "entry point %s: workgroup size %d is zero", name, d))
		}
	}
	id, err := s.declare(name, declEntryPoint)
	if err != nil {
		return nil, s.fail(err)
	}

	sc := s.newScope(s.root)
	index := Expr{node: ir.DispatchIndex{Dims: wg.Dims}, scope: sc}
	b := &Block{shader: s, scope: sc}
	stmts, err := b.run(func(b *Block) error { return body(b, index) })
	if err != nil {
		return nil, err
	}
	s.entryPoints = append(s.entryPoints, ir.EntryPoint{Name: id, Workgroup: wg, Body: stmts})
	return &EntryPointHandle{name: id, workgroup: wg}, nil
}

// Finish seals the builder and returns the module. It returns the
// first fault recorded during construction, if any.
func (s *ShaderBuilder) Finish() (*ir.Module, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.module != nil {
		return s.module, nil
	}
	if len(s.entryPoints) == 0 {
		return nil, s.fail(errorf(ErrInvalidModule, "shader defines no entry points"))
	}

	m := &ir.Module{
		Uniforms:    s.uniforms,
		Bindings:    s.bindings,
		Constants:   s.constants,
		Functions:   s.functions,
		EntryPoints: s.entryPoints,
	}
	if m.HasUniformBlock() {
		slot, err := s.defaultUniformSlot()
		if err != nil {
			return nil, s.fail(err)
		}
		m.UniformSlot = slot
	}
	m.Types = ir.CollectTypes(m)

	s.root.sealed = true
	s.module = m
	return m, nil
}

// defaultUniformSlot returns the explicit uniform slot, or the index
// after the highest used index of group 0.
func (s *ShaderBuilder) defaultUniformSlot() (ir.Slot, error) {
	if s.uniformSlot != nil {
		return *s.uniformSlot, nil
	}
	used := false
	var highest uint32
	for slot := range s.slots {
		if slot.Group == 0 && (!used || slot.Index > highest) {
			highest = slot.Index
			used = true
		}
	}
	if !used {
		return ir.Slot{}, nil
	}
	next, err := safecast.Conv[uint32](uint64(highest) + 1)
	if err != nil {
		return ir.Slot{}, NewError(ErrBindingCollision, fmt.Sprintf("no free binding index in group 0 for the uniform block: %v", err))
	}
	return ir.Slot{Group: 0, Index: next}, nil
}
