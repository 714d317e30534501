// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shade/ir"
)

// expression renders an expression. Compound operations are fully
// parenthesized so no precedence rules are needed.
func (w *Writer) expression(e ir.Expression) (string, error) {
	switch e := e.(type) {
	case ir.Literal:
		return FormatLiteral(e.Value)

	case ir.Ident:
		return string(e.Name), nil

	case ir.Compare:
		return w.infix(e.Op.String(), e.Left, e.Right)

	case ir.Binary:
		return w.infix(e.Op.String(), e.Left, e.Right)

	case ir.Unary:
		operand, err := w.expression(e.Operand)
		if err != nil {
			return "", err
		}
		// "--x" would lex as a decrement.
		if strings.HasPrefix(operand, "-") {
			operand = "(" + operand + ")"
		}
		return "(" + e.Op.String() + operand + ")", nil

	case ir.VecConstruct:
		args, err := w.expressionList(e.Args)
		if err != nil {
			return "", err
		}
		return e.DataType.String() + "(" + args + ")", nil

	case ir.BufferRead:
		return w.element(e.Buffer, e.Index)

	case ir.BufferLength:
		return fmt.Sprintf("%s.%s.%s", ir.UniformBlockVarName, ir.BufferLengthsField, e.Buffer), nil

	case ir.UniformRead:
		return fmt.Sprintf("%s.%s", ir.UniformBlockVarName, ir.UniformUserField), nil

	case ir.FieldRead:
		base, err := w.expression(e.Base)
		if err != nil {
			return "", err
		}
		return base + "." + string(e.Field), nil

	case ir.Call:
		args, err := w.expressionList(e.Args)
		if err != nil {
			return "", err
		}
		return string(e.Function) + "(" + args + ")", nil

	case ir.DispatchIndex:
		return dispatchIndex(e.Dims), nil

	case nil:
		return "", fmt.Errorf("missing expression")

	default:
		return "", fmt.Errorf("unsupported expression %T", e)
	}
}

func (w *Writer) infix(op string, left, right ir.Expression) (string, error) {
	l, err := w.expression(left)
	if err != nil {
		return "", err
	}
	r, err := w.expression(right)
	if err != nil {
		return "", err
	}
	return "(" + l + " " + op + " " + r + ")", nil
}

func (w *Writer) expressionList(exprs []ir.Expression) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := w.expression(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// element renders a buffer access; singletons have no index.
func (w *Writer) element(buffer ir.Identifier, index ir.Expression) (string, error) {
	if index == nil {
		return string(buffer), nil
	}
	i, err := w.expression(index)
	if err != nil {
		return "", err
	}
	return string(buffer) + "[" + i + "]", nil
}

// lvalue renders an assignment target.
func (w *Writer) lvalue(l ir.Lvalue) (string, error) {
	switch l := l.(type) {
	case ir.VariableLvalue:
		return string(l.Name), nil
	case ir.BufferElementLvalue:
		return w.element(l.Buffer, l.Index)
	case ir.FieldLvalue:
		base, err := w.lvalue(l.Base)
		if err != nil {
			return "", err
		}
		return base + "." + string(l.Field), nil
	default:
		return "", fmt.Errorf("unsupported assignment target %T", l)
	}
}

// dispatchIndex narrows the builtin invocation id to the entry point's
// dimensionality.
func dispatchIndex(dims ir.Dims) string {
	switch dims {
	case ir.Dims1D:
		return string(ir.DispatchIndexName) + ".x"
	case ir.Dims2D:
		return string(ir.DispatchIndexName) + ".xy"
	default:
		return string(ir.DispatchIndexName)
	}
}
