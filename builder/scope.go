// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import "github.com/gogpu/shade/ir"

// scope is one node of a shader's block tree. Every handle records the
// scope that produced it; a handle may only be used from that scope or
// from a block nested inside it.
type scope struct {
	id     uint32
	depth  int
	parent *scope
	shader *ShaderBuilder

	// sealed is set once the block's body callback has returned.
	sealed bool

	// suspended is set while a nested block of this scope is open.
	suspended bool

	// locals declared directly in this scope, including parameters.
	locals map[ir.Identifier]struct{}
}

func (s *ShaderBuilder) newScope(parent *scope) *scope {
	s.nextScope++
	sc := &scope{
		id:     s.nextScope,
		parent: parent,
		shader: s,
		locals: make(map[ir.Identifier]struct{}),
	}
	if parent != nil {
		sc.depth = parent.depth + 1
	}
	return sc
}

// within reports whether outer is s or one of its ancestors.
func (s *scope) within(outer *scope) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc == outer {
			return true
		}
	}
	return false
}

// declares reports whether name is a local of s or of any ancestor.
func (s *scope) declares(name ir.Identifier) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.locals[name]; ok {
			return true
		}
	}
	return false
}

// join returns the deeper of two scopes when they lie on one ancestor
// chain. A nil scope belongs to no block and joins with anything.
func join(a, b *scope) (*scope, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	case a.shader != b.shader:
		return nil, errorf(ErrScopeViolation, "operands belong to different shaders")
	case a.within(b):
		return a, nil
	case b.within(a):
		return b, nil
	default:
		return nil, errorf(ErrScopeViolation, "operands come from unrelated blocks %d and %d", a.id, b.id)
	}
}
