// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import "github.com/gogpu/shade/ir"

// Block accumulates the statements of one body or branch arm.
// A Block is only valid inside the callback it was passed to.
type Block struct {
	shader *ShaderBuilder
	scope  *scope
	stmts  ir.Block
	result ir.DataType
}

// run populates b with fn and seals it.
func (b *Block) run(fn func(b *Block) error) (ir.Block, error) {
	var err error
	if fn != nil {
		err = fn(b)
	}
	b.scope.sealed = true
	if err != nil {
		return nil, b.shader.fail(err)
	}
	if b.shader.err != nil {
		return nil, b.shader.err
	}
	return b.stmts, nil
}

// enter checks that statements may be appended to b.
func (b *Block) enter() error {
	if err := b.shader.err; err != nil {
		return err
	}
	switch {
	case b.scope.sealed:
		return b.shader.fail(errorf(ErrScopeViolation, "block %d is sealed", b.scope.id))
	case b.scope.suspended:
		return b.shader.fail(errorf(ErrScopeViolation, "block %d is suspended while a nested block is open", b.scope.id))
	}
	return nil
}

// admit checks that a handle produced in sc may be used in b.
func (b *Block) admit(sc *scope) error {
	if sc == nil {
		return nil
	}
	if sc.shader != b.shader {
		return errorf(ErrScopeViolation, "handle belongs to another shader")
	}
	if !b.scope.within(sc) {
		return errorf(ErrScopeViolation, "handle from block %d used in block %d outside it", sc.id, b.scope.id)
	}
	return nil
}

// operand checks e for use in b.
func (b *Block) operand(e Expr) error {
	if err := e.Err(); err != nil {
		return b.shader.fail(err)
	}
	if err := b.admit(e.scope); err != nil {
		return b.shader.fail(err)
	}
	return nil
}

// value checks e for use in b as a value with a type.
func (b *Block) value(e Expr) error {
	if err := b.operand(e); err != nil {
		return err
	}
	if e.Type() == nil {
		return b.shader.fail(errorf(ErrTypeMismatch, "call to a function without a result used as a value"))
	}
	return nil
}

// Expr appends an expression statement.
func (b *Block) Expr(e Expr) error {
	if err := b.enter(); err != nil {
		return err
	}
	if err := b.operand(e); err != nil {
		return err
	}
	b.stmts = append(b.stmts, ir.ExprStmt{Expr: e.node})
	return nil
}

// Call appends a call of fn as a statement.
func (b *Block) Call(fn *FunctionHandle, args ...Expr) error {
	return b.Expr(fn.Call(args...))
}

func (b *Block) declare(name string, m ir.Mutability, init Expr) (ir.Identifier, error) {
	if err := b.enter(); err != nil {
		return "", err
	}
	if err := b.value(init); err != nil {
		return "", err
	}
	if err := b.shader.registerType(init.Type()); err != nil {
		return "", b.shader.fail(err)
	}
	id, err := b.shader.declareLocal(b.scope, name)
	if err != nil {
		return "", b.shader.fail(err)
	}
	b.stmts = append(b.stmts, ir.VarDecl{Name: id, Mutability: m, DataType: init.Type(), Init: init.node})
	return id, nil
}

// Var declares a mutable local initialized with init.
func (b *Block) Var(name string, init Expr) (*Var, error) {
	id, err := b.declare(name, ir.MutabilityVar, init)
	if err != nil {
		return nil, err
	}
	return &Var{name: id, typ: init.Type(), scope: b.scope}, nil
}

// Let declares an immutable local bound to init.
func (b *Block) Let(name string, init Expr) (*Let, error) {
	id, err := b.declare(name, ir.MutabilityLet, init)
	if err != nil {
		return nil, err
	}
	return &Let{name: id, typ: init.Type(), scope: b.scope}, nil
}

// Assign appends target = value. The types must be equal.
func (b *Block) Assign(target Lvalue, value Expr) error {
	if err := b.enter(); err != nil {
		return err
	}
	if err := target.Err(); err != nil {
		return b.shader.fail(err)
	}
	if err := b.admit(target.scope); err != nil {
		return b.shader.fail(err)
	}
	if err := b.value(value); err != nil {
		return err
	}
	if !ir.TypesEqual(target.Type(), value.Type()) {
		return b.shader.fail(errorf(ErrTypeMismatch, "cannot assign %s to %s",
			ir.TypeName(value.Type()), ir.TypeName(target.Type())))
	}
	b.stmts = append(b.stmts, ir.Assign{Target: target.node, Value: value.node})
	return nil
}

// If appends a conditional without an else arm.
func (b *Block) If(cond Expr, then func(b *Block) error) error {
	return b.conditional(cond, then, nil, false)
}

// IfElse appends a conditional with both arms. Each arm is built in its
// own nested block; locals declared in one arm are not visible in the
// other or after the statement.
func (b *Block) IfElse(cond Expr, then, otherwise func(b *Block) error) error {
	return b.conditional(cond, then, otherwise, true)
}

func (b *Block) conditional(cond Expr, then, otherwise func(b *Block) error, hasElse bool) error {
	if err := b.enter(); err != nil {
		return err
	}
	if err := b.value(cond); err != nil {
		return err
	}
	if !ir.TypesEqual(cond.Type(), ir.Bool) {
		return b.shader.fail(errorf(ErrTypeMismatch, "if condition has type %s, want bool", ir.TypeName(cond.Type())))
	}
	accept, err := b.nested(then)
	if err != nil {
		return err
	}
	var reject ir.Block
	if hasElse {
		if reject, err = b.nested(otherwise); err != nil {
			return err
		}
	}
	b.stmts = append(b.stmts, ir.IfElse{Condition: cond.node, Accept: accept, Reject: reject, HasElse: hasElse})
	return nil
}

// nested builds a child block while b is suspended.
func (b *Block) nested(fn func(b *Block) error) (ir.Block, error) {
	child := &Block{shader: b.shader, scope: b.shader.newScope(b.scope), result: b.result}
	b.scope.suspended = true
	defer func() { b.scope.suspended = false }()
	return child.run(fn)
}

// Return appends a return of v. The enclosing function must declare a
// result of v's type.
func (b *Block) Return(v Expr) error {
	if err := b.enter(); err != nil {
		return err
	}
	if err := b.value(v); err != nil {
		return err
	}
	if b.result == nil {
		return b.shader.fail(errorf(ErrTypeMismatch, "return of %s from a body without a result", ir.TypeName(v.Type())))
	}
	if !ir.TypesEqual(b.result, v.Type()) {
		return b.shader.fail(errorf(ErrTypeMismatch, "return of %s from a function returning %s",
			ir.TypeName(v.Type()), ir.TypeName(b.result)))
	}
	b.stmts = append(b.stmts, ir.Return{Value: v.node})
	return nil
}

// ReturnVoid appends a bare return. The enclosing body must not declare
// a result.
func (b *Block) ReturnVoid() error {
	if err := b.enter(); err != nil {
		return err
	}
	if b.result != nil {
		return b.shader.fail(errorf(ErrTypeMismatch, "bare return from a function returning %s", ir.TypeName(b.result)))
	}
	b.stmts = append(b.stmts, ir.Return{})
	return nil
}

// returns reports whether every path through stmts ends in a return.
func returns(stmts ir.Block) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case ir.Return:
			return true
		case ir.IfElse:
			if s.HasElse && returns(s.Accept) && returns(s.Reject) {
				return true
			}
		}
	}
	return false
}
