// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"github.com/gogpu/shade/ir"
)

// Expr is a typed expression handle. It records the block scope that
// produced it; a fault raised while constructing it travels with the
// value and surfaces at the statement that consumes it.
type Expr struct {
	node  ir.Expression
	scope *scope
	err   error
}

func faulty(err error) Expr {
	return Expr{err: err}
}

// Node returns the IR node, or nil for a faulty expression.
func (e Expr) Node() ir.Expression {
	return e.node
}

// Type returns the expression's type. A call to a function without a
// result has a nil type.
func (e Expr) Type() ir.DataType {
	if e.node == nil {
		return nil
	}
	return e.node.Type()
}

// Err returns the fault carried by the expression, if any.
func (e Expr) Err() error {
	if e.err != nil {
		return e.err
	}
	if e.node == nil {
		return errorf(ErrInvalidOperation, "use of an empty expression")
	}
	return nil
}

// Scalar is the set of host scalar types with a shader representation.
type Scalar interface {
	bool | int32 | uint32 | float32
}

// Vector is the set of host arrays mapped to shader vectors.
type Vector interface {
	[2]int32 | [3]int32 | [4]int32 |
		[2]uint32 | [3]uint32 | [4]uint32 |
		[2]float32 | [3]float32 | [4]float32
}

// Value is any host value that can be written as a shader literal.
type Value interface {
	Scalar | Vector
}

// Lit returns a literal expression for a host value.
func Lit[T Value](v T) Expr {
	return LitValue(literalOf(v))
}

// LitValue returns a literal expression for an IR literal value.
// Non-finite floats and malformed vectors fault.
func LitValue(v ir.LiteralValue) Expr {
	if err := ir.ValidateLiteral(v); err != nil {
		return faulty(errorf(ErrInvalidOperation, "%v", err))
	}
	return Expr{node: ir.Literal{Value: v}}
}

func literalOf(v any) ir.LiteralValue {
	switch v := v.(type) {
	case bool:
		return ir.LiteralBool(v)
	case int32:
		return ir.LiteralI32(v)
	case uint32:
		return ir.LiteralU32(v)
	case float32:
		return ir.LiteralF32(v)
	case [2]int32:
		return vectorLiteral(v[:])
	case [3]int32:
		return vectorLiteral(v[:])
	case [4]int32:
		return vectorLiteral(v[:])
	case [2]uint32:
		return vectorLiteral(v[:])
	case [3]uint32:
		return vectorLiteral(v[:])
	case [4]uint32:
		return vectorLiteral(v[:])
	case [2]float32:
		return vectorLiteral(v[:])
	case [3]float32:
		return vectorLiteral(v[:])
	case [4]float32:
		return vectorLiteral(v[:])
	}
	return nil
}

func vectorLiteral[T Scalar](components []T) ir.LiteralVector {
	out := make([]ir.LiteralValue, len(components))
	for i, c := range components {
		out[i] = literalOf(c)
	}
	return ir.LiteralVector{Components: out}
}

// combine joins the scopes of operands, propagating the first fault.
func combine(operands ...Expr) (*scope, error) {
	return combineFrom(nil, operands...)
}

// combineFrom joins the scopes of operands with start.
func combineFrom(start *scope, operands ...Expr) (*scope, error) {
	sc := start
	for _, op := range operands {
		if err := op.Err(); err != nil {
			return nil, err
		}
		joined, err := join(sc, op.scope)
		if err != nil {
			return nil, err
		}
		sc = joined
	}
	return sc, nil
}

func (e Expr) binary(op ir.BinaryOperator, rhs Expr) Expr {
	sc, err := combine(e, rhs)
	if err != nil {
		return faulty(err)
	}
	res, err := ir.ResolveBinary(op, e.Type(), rhs.Type())
	if err != nil {
		return faulty(errorf(ErrTypeMismatch, "%v", err))
	}
	return Expr{
		node:  ir.Binary{Op: op, Left: e.node, Right: rhs.node, Result: res},
		scope: sc,
	}
}

func (e Expr) compare(op ir.CompareOperator, rhs Expr) Expr {
	sc, err := combine(e, rhs)
	if err != nil {
		return faulty(err)
	}
	if err := ir.ResolveCompare(op, e.Type(), rhs.Type()); err != nil {
		return faulty(errorf(ErrTypeMismatch, "%v", err))
	}
	return Expr{node: ir.Compare{Op: op, Left: e.node, Right: rhs.node}, scope: sc}
}

func (e Expr) unary(op ir.UnaryOperator) Expr {
	if err := e.Err(); err != nil {
		return faulty(err)
	}
	if _, err := ir.ResolveUnary(op, e.Type()); err != nil {
		return faulty(errorf(ErrTypeMismatch, "%v", err))
	}
	return Expr{node: ir.Unary{Op: op, Operand: e.node}, scope: e.scope}
}

// Add returns e + rhs.
func (e Expr) Add(rhs Expr) Expr { return e.binary(ir.BinaryAdd, rhs) }

// Sub returns e - rhs.
func (e Expr) Sub(rhs Expr) Expr { return e.binary(ir.BinarySubtract, rhs) }

// Mul returns e * rhs.
func (e Expr) Mul(rhs Expr) Expr { return e.binary(ir.BinaryMultiply, rhs) }

// Div returns e / rhs.
func (e Expr) Div(rhs Expr) Expr { return e.binary(ir.BinaryDivide, rhs) }

// Rem returns e % rhs.
func (e Expr) Rem(rhs Expr) Expr { return e.binary(ir.BinaryModulo, rhs) }

// And returns the bitwise e & rhs.
func (e Expr) And(rhs Expr) Expr { return e.binary(ir.BinaryAnd, rhs) }

// Or returns the bitwise e | rhs.
func (e Expr) Or(rhs Expr) Expr { return e.binary(ir.BinaryInclusiveOr, rhs) }

// Xor returns e ^ rhs.
func (e Expr) Xor(rhs Expr) Expr { return e.binary(ir.BinaryExclusiveOr, rhs) }

// LogicalAnd returns e && rhs.
func (e Expr) LogicalAnd(rhs Expr) Expr { return e.binary(ir.BinaryLogicalAnd, rhs) }

// LogicalOr returns e || rhs.
func (e Expr) LogicalOr(rhs Expr) Expr { return e.binary(ir.BinaryLogicalOr, rhs) }

// Shl returns e << rhs. The shift amount is u32, or vecN<u32> for a
// vector of width N.
func (e Expr) Shl(rhs Expr) Expr { return e.binary(ir.BinaryShiftLeft, rhs) }

// Shr returns e >> rhs.
func (e Expr) Shr(rhs Expr) Expr { return e.binary(ir.BinaryShiftRight, rhs) }

// Eq returns e == rhs.
func (e Expr) Eq(rhs Expr) Expr { return e.compare(ir.CompareEqual, rhs) }

// Ne returns e != rhs.
func (e Expr) Ne(rhs Expr) Expr { return e.compare(ir.CompareNotEqual, rhs) }

// Lt returns e < rhs.
func (e Expr) Lt(rhs Expr) Expr { return e.compare(ir.CompareLess, rhs) }

// Le returns e <= rhs.
func (e Expr) Le(rhs Expr) Expr { return e.compare(ir.CompareLessEqual, rhs) }

// Gt returns e > rhs.
func (e Expr) Gt(rhs Expr) Expr { return e.compare(ir.CompareGreater, rhs) }

// Ge returns e >= rhs.
func (e Expr) Ge(rhs Expr) Expr { return e.compare(ir.CompareGreaterEqual, rhs) }

// Neg returns -e.
func (e Expr) Neg() Expr { return e.unary(ir.UnaryNegate) }

// Not returns !e.
func (e Expr) Not() Expr { return e.unary(ir.UnaryLogicalNot) }

// Complement returns ~e.
func (e Expr) Complement() Expr { return e.unary(ir.UnaryBitwiseNot) }

// Field reads a struct field of e.
func (e Expr) Field(name string) Expr {
	if err := e.Err(); err != nil {
		return faulty(err)
	}
	f, err := lookupField(e.Type(), name)
	if err != nil {
		return faulty(err)
	}
	return Expr{
		node:  ir.FieldRead{Base: e.node, Field: f.Name, DataType: f.DataType},
		scope: e.scope,
	}
}

// Expect checks that e has type t.
func (e Expr) Expect(t ir.DataType) Expr {
	if err := e.Err(); err != nil {
		return faulty(err)
	}
	if !ir.TypesEqual(e.Type(), t) {
		return faulty(errorf(ErrTypeMismatch, "expected %s, have %s", ir.TypeName(t), typeName(e.Type())))
	}
	return e
}

// FieldAs reads a struct field of e and checks that it has the shader
// type of F.
func FieldAs[F any](e Expr, name string) Expr {
	t, err := TypeOf[F]()
	if err != nil {
		return faulty(err)
	}
	return e.Field(name).Expect(t)
}

// As checks that e has the shader type of T.
func As[T any](e Expr) Expr {
	t, err := TypeOf[T]()
	if err != nil {
		return faulty(err)
	}
	return e.Expect(t)
}

// Vec constructs a vector of type t from scalars and smaller vectors.
func Vec(t ir.BuiltinType, args ...Expr) Expr {
	sc, err := combine(args...)
	if err != nil {
		return faulty(err)
	}
	nodes := make([]ir.Expression, len(args))
	types := make([]ir.DataType, len(args))
	for i, a := range args {
		nodes[i] = a.node
		types[i] = a.Type()
	}
	if err := ir.ResolveVecConstruct(t, types); err != nil {
		return faulty(errorf(ErrTypeMismatch, "%v", err))
	}
	return Expr{node: ir.VecConstruct{DataType: t, Args: nodes}, scope: sc}
}

func lookupField(t ir.DataType, name string) (ir.StructField, error) {
	st, ok := t.(*ir.StructType)
	if !ok {
		return ir.StructField{}, errorf(ErrFieldLookup, "field %s of non-struct type %s", name, typeName(t))
	}
	f, ok := st.Field(ir.Identifier(name))
	if !ok {
		return ir.StructField{}, errorf(ErrFieldLookup, "struct %s has no field %s", st.Name, name)
	}
	return f, nil
}

func typeName(t ir.DataType) string {
	if t == nil {
		return "void"
	}
	return ir.TypeName(t)
}
