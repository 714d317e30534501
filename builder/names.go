// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"regexp"
	"strings"

	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/wgsl"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames are synthesized by the generator.
var reservedNames = map[ir.Identifier]struct{}{
	ir.UniformBlockVarName:   {},
	ir.DispatchIndexName:     {},
	ir.UniformBlockTypeName:  {},
	ir.BufferLengthsTypeName: {},
}

// checkIdent validates a user-supplied declaration name.
func checkIdent(name string) (ir.Identifier, error) {
	if !identPattern.MatchString(name) || name == "_" || strings.HasPrefix(name, "__") {
		return "", errorf(ErrInvalidName, "%q is not a valid identifier", name)
	}
	if wgsl.IsReserved(name) {
		return "", errorf(ErrInvalidName, "%q is a reserved word", name)
	}
	id := ir.Identifier(name)
	if _, ok := reservedNames[id]; ok {
		return "", errorf(ErrInvalidName, "%q is reserved for generated code", name)
	}
	return id, nil
}

type declKind uint8

const (
	declStruct declKind = iota
	declBuffer
	declConstant
	declFunction
	declEntryPoint
)

func (k declKind) String() string {
	switch k {
	case declStruct:
		return "struct"
	case declBuffer:
		return "buffer"
	case declConstant:
		return "constant"
	case declFunction:
		return "function"
	case declEntryPoint:
		return "entry point"
	default:
		return "declaration"
	}
}

// declare reserves a module-level name.
func (s *ShaderBuilder) declare(name string, kind declKind) (ir.Identifier, error) {
	id, err := checkIdent(name)
	if err != nil {
		return "", err
	}
	if prev, ok := s.names[id]; ok {
		return "", errorf(ErrNameCollision, "%s %s already declared as %s", kind, id, prev)
	}
	s.names[id] = kind
	return id, nil
}

// declareLocal reserves a local name in sc. Locals may not shadow
// module-level names, parameters or locals of enclosing blocks.
func (s *ShaderBuilder) declareLocal(sc *scope, name string) (ir.Identifier, error) {
	id, err := checkIdent(name)
	if err != nil {
		return "", err
	}
	if prev, ok := s.names[id]; ok {
		return "", errorf(ErrNameCollision, "local %s shadows %s %s", id, prev, id)
	}
	if sc.declares(id) {
		return "", errorf(ErrNameCollision, "local %s already declared in an enclosing block", id)
	}
	sc.locals[id] = struct{}{}
	s.localNames[id] = struct{}{}
	return id, nil
}

// registerType records every struct reachable from t. A struct name may
// only ever denote one shape, and may not reuse a local or parameter
// name, which would shadow the type inside that local's scope.
func (s *ShaderBuilder) registerType(t ir.DataType) error {
	st, ok := t.(*ir.StructType)
	if !ok || st == nil {
		return nil
	}
	if prev, ok := s.structs[st.Name]; ok {
		if !ir.TypesEqual(prev, st) {
			return errorf(ErrNameCollision, "struct %s redefined as %s, previously %s",
				st.Name, ir.FormatStruct(st), ir.FormatStruct(prev))
		}
		return nil
	}
	if err := checkStruct(st); err != nil {
		return err
	}
	if _, ok := s.localNames[st.Name]; ok {
		return errorf(ErrNameCollision, "struct %s collides with a local of the same name", st.Name)
	}
	if _, err := s.declare(string(st.Name), declStruct); err != nil {
		return err
	}
	s.structs[st.Name] = st
	for _, f := range st.Fields {
		if err := s.registerType(f.DataType); err != nil {
			return err
		}
	}
	return nil
}
