// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import "github.com/gogpu/shade/ir"

// BufferHandle refers to a declared buffer binding. Reads and writes are
// gated by the binding's disposition.
type BufferHandle struct {
	shader  *ShaderBuilder
	binding ir.BufferBinding
}

// Name returns the binding name.
func (h *BufferHandle) Name() ir.Identifier {
	return h.binding.Name
}

// Binding returns a copy of the binding declaration.
func (h *BufferHandle) Binding() ir.BufferBinding {
	return h.binding
}

func (h *BufferHandle) checkRead() error {
	if !h.binding.Disposition.CanRead() {
		return errorf(ErrInvalidOperation, "buffer %s is %s and cannot be read", h.binding.Name, h.binding.Disposition)
	}
	return nil
}

func (h *BufferHandle) checkWrite() error {
	if !h.binding.Disposition.CanWrite() {
		return errorf(ErrInvalidOperation, "buffer %s is %s and cannot be written", h.binding.Name, h.binding.Disposition)
	}
	return nil
}

func (h *BufferHandle) checkShape(indexed bool) error {
	if h.binding.Singleton == indexed {
		if indexed {
			return errorf(ErrInvalidOperation, "singleton buffer %s cannot be indexed", h.binding.Name)
		}
		return errorf(ErrInvalidOperation, "array buffer %s needs an index", h.binding.Name)
	}
	return nil
}

// index checks an element index and returns the scope of the access.
func (h *BufferHandle) index(i Expr) (*scope, error) {
	sc, err := combineFrom(h.shader.root, i)
	if err != nil {
		return nil, err
	}
	t, ok := i.Type().(ir.BuiltinType)
	if !ok || (t != ir.U32 && t != ir.I32) {
		return nil, errorf(ErrTypeMismatch, "buffer %s indexed with %s, want u32 or i32", h.binding.Name, typeName(i.Type()))
	}
	return sc, nil
}

// Read returns the element at index i of an array buffer.
func (h *BufferHandle) Read(i Expr) Expr {
	if err := h.checkShape(true); err != nil {
		return faulty(err)
	}
	if err := h.checkRead(); err != nil {
		return faulty(err)
	}
	sc, err := h.index(i)
	if err != nil {
		return faulty(err)
	}
	return Expr{
		node:  ir.BufferRead{Buffer: h.binding.Name, Element: h.binding.Element, Index: i.node},
		scope: sc,
	}
}

// Value returns the contents of a singleton buffer.
func (h *BufferHandle) Value() Expr {
	if err := h.checkShape(false); err != nil {
		return faulty(err)
	}
	if err := h.checkRead(); err != nil {
		return faulty(err)
	}
	return Expr{
		node:  ir.BufferRead{Buffer: h.binding.Name, Element: h.binding.Element},
		scope: h.shader.root,
	}
}

// Element returns the element at index i of an array buffer as an
// assignment target.
func (h *BufferHandle) Element(i Expr) Lvalue {
	if err := h.checkShape(true); err != nil {
		return Lvalue{err: err}
	}
	if err := h.checkWrite(); err != nil {
		return Lvalue{err: err}
	}
	sc, err := h.index(i)
	if err != nil {
		return Lvalue{err: err}
	}
	return Lvalue{
		node:     ir.BufferElementLvalue{Buffer: h.binding.Name, Element: h.binding.Element, Index: i.node},
		scope:    sc,
		readable: h.binding.Disposition.CanRead(),
	}
}

// Target returns a singleton buffer as an assignment target.
func (h *BufferHandle) Target() Lvalue {
	if err := h.checkShape(false); err != nil {
		return Lvalue{err: err}
	}
	if err := h.checkWrite(); err != nil {
		return Lvalue{err: err}
	}
	return Lvalue{
		node:     ir.BufferElementLvalue{Buffer: h.binding.Name, Element: h.binding.Element},
		scope:    h.shader.root,
		readable: h.binding.Disposition.CanRead(),
	}
}

// Len returns the number of elements bound to the buffer, as supplied
// by the host in the uniform block.
func (h *BufferHandle) Len() Expr {
	return Expr{node: ir.BufferLength{Buffer: h.binding.Name}, scope: h.shader.root}
}

// Lvalue is an assignment target handle.
type Lvalue struct {
	node     ir.Lvalue
	scope    *scope
	readable bool
	err      error
}

// Node returns the IR lvalue, or nil for a faulty handle.
func (l Lvalue) Node() ir.Lvalue {
	return l.node
}

// Type returns the type stored at the location.
func (l Lvalue) Type() ir.DataType {
	if l.node == nil {
		return nil
	}
	return l.node.Type()
}

// Err returns the fault carried by the handle, if any.
func (l Lvalue) Err() error {
	if l.err != nil {
		return l.err
	}
	if l.node == nil {
		return errorf(ErrInvalidOperation, "use of an empty assignment target")
	}
	return nil
}

// Read returns a read of the same location.
func (l Lvalue) Read() Expr {
	if err := l.Err(); err != nil {
		return faulty(err)
	}
	if !l.readable {
		return faulty(errorf(ErrInvalidOperation, "assignment target of type %s is write-only", typeName(l.Type())))
	}
	return Expr{node: l.node.ReadExpr(), scope: l.scope}
}

// Field returns a struct field of the location as an assignment target.
func (l Lvalue) Field(name string) Lvalue {
	if err := l.Err(); err != nil {
		return Lvalue{err: err}
	}
	f, err := lookupField(l.Type(), name)
	if err != nil {
		return Lvalue{err: err}
	}
	return Lvalue{
		node:     ir.FieldLvalue{Base: l.node, Field: f.Name, DataType: f.DataType},
		scope:    l.scope,
		readable: l.readable,
	}
}

// FunctionHandle refers to a defined helper function.
type FunctionHandle struct {
	shader   *ShaderBuilder
	name     ir.Identifier
	argTypes []ir.DataType
	result   ir.DataType
}

// Name returns the function name.
func (h *FunctionHandle) Name() ir.Identifier {
	return h.name
}

// Result returns the declared result type, or nil.
func (h *FunctionHandle) Result() ir.DataType {
	return h.result
}

// Call returns a call of the function. Calls of functions without a
// result may only be used as expression statements.
func (h *FunctionHandle) Call(args ...Expr) Expr {
	sc, err := combineFrom(h.shader.root, args...)
	if err != nil {
		return faulty(err)
	}
	if len(args) != len(h.argTypes) {
		return faulty(errorf(ErrTypeMismatch, "%s takes %d arguments, got %d", h.name, len(h.argTypes), len(args)))
	}
	nodes := make([]ir.Expression, len(args))
	for i, a := range args {
		if !ir.TypesEqual(a.Type(), h.argTypes[i]) {
			return faulty(errorf(ErrTypeMismatch, "%s argument %d: want %s, have %s",
				h.name, i, ir.TypeName(h.argTypes[i]), typeName(a.Type())))
		}
		nodes[i] = a.node
	}
	return Expr{node: ir.Call{Function: h.name, Args: nodes, Result: h.result}, scope: sc}
}

// EntryPointHandle refers to a defined entry point.
type EntryPointHandle struct {
	name      ir.Identifier
	workgroup ir.Workgroup
}

// Name returns the entry point name.
func (h *EntryPointHandle) Name() ir.Identifier {
	return h.name
}

// Workgroup returns the entry point's workgroup.
func (h *EntryPointHandle) Workgroup() ir.Workgroup {
	return h.workgroup
}

// ConstHandle refers to a module-scope constant.
type ConstHandle struct {
	shader *ShaderBuilder
	name   ir.Identifier
	value  ir.LiteralValue
}

// Name returns the constant name.
func (h *ConstHandle) Name() ir.Identifier {
	return h.name
}

// Read returns a read of the constant.
func (h *ConstHandle) Read() Expr {
	return Expr{node: ir.Ident{Name: h.name, DataType: h.value.Type()}, scope: h.shader.root}
}

// Var is a mutable local declared by Block.Var.
type Var struct {
	name  ir.Identifier
	typ   ir.DataType
	scope *scope
}

// Name returns the variable name.
func (v *Var) Name() ir.Identifier {
	return v.name
}

// Read returns a read of the variable.
func (v *Var) Read() Expr {
	return Expr{node: ir.Ident{Name: v.name, DataType: v.typ}, scope: v.scope}
}

// Target returns the variable as an assignment target.
func (v *Var) Target() Lvalue {
	return Lvalue{
		node:     ir.VariableLvalue{Name: v.name, DataType: v.typ},
		scope:    v.scope,
		readable: true,
	}
}

// Let is an immutable local declared by Block.Let.
type Let struct {
	name  ir.Identifier
	typ   ir.DataType
	scope *scope
}

// Name returns the binding name.
func (l *Let) Name() ir.Identifier {
	return l.name
}

// Read returns a read of the binding.
func (l *Let) Read() Expr {
	return Expr{node: ir.Ident{Name: l.name, DataType: l.typ}, scope: l.scope}
}
