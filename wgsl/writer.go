// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shade/ir"
)

// Writer generates WGSL source code from IR.
type Writer struct {
	module  *ir.Module
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int
}

func newWriter(module *ir.Module, options *Options) *Writer {
	return &Writer{
		module:  module,
		options: options,
	}
}

// String returns the generated WGSL source.
func (w *Writer) String() string {
	return w.out.String()
}

// member is one rendered struct member.
type member struct {
	attr string
	name ir.Identifier
	typ  string
}

// writeModule writes the complete module, one section at a time.
func (w *Writer) writeModule() error {
	w.writeHeader()

	for _, st := range ir.CollectTypes(w.module) {
		members := make([]member, len(st.Fields))
		for i, f := range st.Fields {
			members[i] = member{name: f.Name, typ: ir.TypeName(f.DataType)}
		}
		w.writeStruct(st.Name, members)
	}

	if w.module.HasUniformBlock() {
		w.writeUniformTypes()
	}

	w.writeBindings()

	if err := w.writeConstants(); err != nil {
		return err
	}

	for i := range w.module.Functions {
		if err := w.writeFunction(&w.module.Functions[i]); err != nil {
			return fmt.Errorf("function %s: %w", w.module.Functions[i].Name, err)
		}
	}

	for i := range w.module.EntryPoints {
		if err := w.writeEntryPoint(&w.module.EntryPoints[i]); err != nil {
			return fmt.Errorf("entry point %s: %w", w.module.EntryPoints[i].Name, err)
		}
	}
	return nil
}

// beginSection separates top-level items with one blank line.
func (w *Writer) beginSection() {
	if w.out.Len() > 0 {
		w.out.WriteByte('\n')
	}
}

func (w *Writer) writeHeader() {
	if len(w.options.Header) == 0 {
		return
	}
	for _, line := range w.options.Header {
		if line == "" {
			w.writeLine("//")
			continue
		}
		w.writeLine("// %s", line)
	}
}

func (w *Writer) writeStruct(name ir.Identifier, members []member) {
	w.beginSection()
	w.writeLine("struct %s {", name)
	w.pushIndent()
	for _, m := range members {
		if m.attr != "" {
			w.writeLine("%s %s: %s,", m.attr, m.name, m.typ)
		} else {
			w.writeLine("%s: %s,", m.name, m.typ)
		}
	}
	w.popIndent()
	w.writeLine("}")
}

// writeUniformTypes synthesizes the buffer length record and the
// uniform wrapper. The wrapper is always the last type written.
func (w *Writer) writeUniformTypes() {
	var wrapper []member
	if u := w.module.Uniforms; u != nil {
		wrapper = append(wrapper, member{attr: "@align(16)", name: ir.UniformUserField, typ: string(u.Name)})
	}
	if len(w.module.Bindings) > 0 {
		lengths := make([]member, len(w.module.Bindings))
		for i := range w.module.Bindings {
			lengths[i] = member{name: w.module.Bindings[i].Name, typ: ir.U32.String()}
		}
		w.writeStruct(ir.BufferLengthsTypeName, lengths)
		wrapper = append(wrapper, member{
			attr: "@align(16)",
			name: ir.BufferLengthsField,
			typ:  string(ir.BufferLengthsTypeName),
		})
	}
	w.writeStruct(ir.UniformBlockTypeName, wrapper)
}

func (w *Writer) writeBindings() {
	if len(w.module.Bindings) == 0 && !w.module.HasUniformBlock() {
		return
	}
	w.beginSection()
	for i := range w.module.Bindings {
		b := &w.module.Bindings[i]
		typ := ir.TypeName(b.Element)
		if !b.Singleton {
			typ = "array<" + typ + ">"
		}
		w.writeLine("@group(%d) @binding(%d) var<%s> %s: %s;", b.Group, b.Index, addressSpace(b), b.Name, typ)
	}
	if w.module.HasUniformBlock() {
		slot := w.module.UniformSlot
		w.writeLine("@group(%d) @binding(%d) var<uniform> %s: %s;",
			slot.Group, slot.Index, ir.UniformBlockVarName, ir.UniformBlockTypeName)
	}
}

// addressSpace returns the address space and access mode of a binding.
// WGSL has no write-only storage buffers, so write renders as read_write.
func addressSpace(b *ir.BufferBinding) string {
	if b.Space == ir.SpaceUniform {
		return "uniform"
	}
	if b.Disposition == ir.DispositionRead {
		return "storage, read"
	}
	return "storage, read_write"
}

func (w *Writer) writeConstants() error {
	if len(w.module.Constants) == 0 {
		return nil
	}
	w.beginSection()
	for i := range w.module.Constants {
		c := &w.module.Constants[i]
		lit, err := FormatLiteral(c.Value)
		if err != nil {
			return fmt.Errorf("constant %s: %w", c.Name, err)
		}
		w.writeLine("const %s: %s = %s;", c.Name, ir.TypeName(c.Value.Type()), lit)
	}
	return nil
}

func (w *Writer) writeFunction(fn *ir.Function) error {
	w.beginSection()
	params := make([]string, len(fn.ArgNames))
	for i, name := range fn.ArgNames {
		params[i] = fmt.Sprintf("%s: %s", name, ir.TypeName(fn.ArgTypes[i]))
	}
	if fn.Result != nil {
		w.writeLine("fn %s(%s) -> %s {", fn.Name, strings.Join(params, ", "), ir.TypeName(fn.Result))
	} else {
		w.writeLine("fn %s(%s) {", fn.Name, strings.Join(params, ", "))
	}
	return w.writeBody(fn.Body)
}

func (w *Writer) writeEntryPoint(ep *ir.EntryPoint) error {
	w.beginSection()
	size := make([]string, ep.Workgroup.Dims)
	for i := range size {
		size[i] = fmt.Sprintf("%d", ep.Workgroup.Size[i])
	}
	w.writeLine("@compute @workgroup_size(%s)", strings.Join(size, ", "))
	w.writeLine("fn %s(@builtin(global_invocation_id) %s: %s) {", ep.Name, ir.DispatchIndexName, ir.Vec3U32)
	return w.writeBody(ep.Body)
}

// writeBody writes an indented block followed by its closing brace.
func (w *Writer) writeBody(body ir.Block) error {
	w.pushIndent()
	if err := w.writeBlock(body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) writeBlock(block ir.Block) error {
	for _, stmt := range block {
		if err := w.writeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeStatement(stmt ir.Statement) error {
	switch s := stmt.(type) {
	case ir.VarDecl:
		init, err := w.expression(s.Init)
		if err != nil {
			return err
		}
		w.writeLine("%s %s: %s = %s;", s.Mutability, s.Name, ir.TypeName(s.DataType), init)

	case ir.Assign:
		target, err := w.lvalue(s.Target)
		if err != nil {
			return err
		}
		value, err := w.expression(s.Value)
		if err != nil {
			return err
		}
		w.writeLine("%s = %s;", target, value)

	case ir.IfElse:
		cond, err := w.expression(s.Condition)
		if err != nil {
			return err
		}
		w.writeLine("if %s {", cond)
		w.pushIndent()
		if err := w.writeBlock(s.Accept); err != nil {
			return err
		}
		w.popIndent()
		if s.HasElse {
			w.writeLine("} else {")
			w.pushIndent()
			if err := w.writeBlock(s.Reject); err != nil {
				return err
			}
			w.popIndent()
		}
		w.writeLine("}")

	case ir.ExprStmt:
		e, err := w.expression(s.Expr)
		if err != nil {
			return err
		}
		if _, ok := s.Expr.(ir.Call); ok {
			w.writeLine("%s;", e)
		} else {
			w.writeLine("_ = %s;", e)
		}

	case ir.Return:
		if s.Value == nil {
			w.writeLine("return;")
			return nil
		}
		e, err := w.expression(s.Value)
		if err != nil {
			return err
		}
		w.writeLine("return %s;", e)

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
	return nil
}

// writeLine writes an indented line.
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString(w.options.Indent)
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
