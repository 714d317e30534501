package ir

import (
	"fmt"
	"math"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Optional context
	Function  string
	Statement int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		if e.Statement >= 0 {
			return fmt.Sprintf("in function %s, statement %d: %s", e.Function, e.Statement, e.Message)
		}
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Validator validates IR modules.
type Validator struct {
	module  *Module
	errors  []ValidationError
	context validationContext

	// functions maps each helper to its index in definition order.
	functions map[Identifier]int
}

// validationContext holds current validation context.
type validationContext struct {
	functionName string
	functionIdx  int // index of the function being validated, or len(Functions) for entry points
	result       DataType
	statement    int
}

// Validate checks the IR module for correctness.
// Returns validation errors if any, or nil if module is valid.
func Validate(module *Module) ([]ValidationError, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}

	v := &Validator{
		module:    module,
		errors:    make([]ValidationError, 0),
		functions: make(map[Identifier]int, len(module.Functions)),
	}

	v.ValidateModule()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateModule validates the complete module.
func (v *Validator) ValidateModule() {
	v.context = validationContext{statement: -1}

	v.validateTypes()
	v.validateNames()
	v.validateBindings()
	v.validateConstants()
	v.validateFunctions()
	v.validateEntryPoints()
}

// validateTypes checks struct definitions and their declaration order.
func (v *Validator) validateTypes() {
	declared := make(map[Identifier]bool, len(v.module.Types))
	for _, st := range v.module.Types {
		if st == nil {
			v.addError("nil struct type in module types")
			continue
		}
		if declared[st.Name] {
			v.addError(fmt.Sprintf("struct %s declared twice", st.Name))
		}
		if len(st.Fields) == 0 {
			v.addError(fmt.Sprintf("struct %s has no fields", st.Name))
		}
		fields := make(map[Identifier]bool, len(st.Fields))
		for _, f := range st.Fields {
			if fields[f.Name] {
				v.addError(fmt.Sprintf("struct %s: duplicate field %s", st.Name, f.Name))
			}
			fields[f.Name] = true
			if inner, ok := f.DataType.(*StructType); ok && !declared[inner.Name] {
				v.addError(fmt.Sprintf("struct %s: field %s references %s before its declaration", st.Name, f.Name, inner.Name))
			}
		}
		declared[st.Name] = true
	}
	if u := v.module.Uniforms; u != nil && !declared[u.Name] {
		v.addError(fmt.Sprintf("uniform struct %s is not declared", u.Name))
	}
}

// validateNames checks that module-level names are unique.
func (v *Validator) validateNames() {
	seen := make(map[Identifier]string)
	declare := func(name Identifier, kind string) {
		if prev, ok := seen[name]; ok {
			v.addError(fmt.Sprintf("%s %s collides with %s of the same name", kind, name, prev))
			return
		}
		seen[name] = kind
	}
	for _, st := range v.module.Types {
		if st != nil {
			declare(st.Name, "struct")
		}
	}
	for i := range v.module.Bindings {
		declare(v.module.Bindings[i].Name, "buffer")
	}
	for i := range v.module.Constants {
		declare(v.module.Constants[i].Name, "constant")
	}
	for i := range v.module.Functions {
		declare(v.module.Functions[i].Name, "function")
	}
	for i := range v.module.EntryPoints {
		declare(v.module.EntryPoints[i].Name, "entry point")
	}
	if v.module.HasUniformBlock() {
		for _, name := range []Identifier{UniformBlockTypeName, BufferLengthsTypeName, UniformBlockVarName} {
			if kind, ok := seen[name]; ok {
				v.addError(fmt.Sprintf("%s %s uses a reserved name", kind, name))
			}
		}
	}
}

// validateBindings checks slot uniqueness and element types.
func (v *Validator) validateBindings() {
	slots := make(map[Slot]Identifier, len(v.module.Bindings)+1)
	for i := range v.module.Bindings {
		b := &v.module.Bindings[i]
		if prev, ok := slots[b.Slot()]; ok {
			v.addError(fmt.Sprintf("buffer %s: group %d binding %d already used by %s", b.Name, b.Group, b.Index, prev))
		}
		slots[b.Slot()] = b.Name
		if !IsHostShareable(b.Element) {
			v.addError(fmt.Sprintf("buffer %s: element type %s is not host-shareable", b.Name, TypeName(b.Element)))
		}
		if b.Space == SpaceUniform && IsHostShareable(b.Element) && !IsUniformShareable(b.Element) {
			v.addError(fmt.Sprintf("buffer %s: element type %s has struct members and cannot be a uniform", b.Name, TypeName(b.Element)))
		}
		if b.Space == SpaceUniform && b.Disposition != DispositionRead {
			v.addError(fmt.Sprintf("buffer %s: uniform buffers are read-only", b.Name))
		}
	}
	if u := v.module.Uniforms; u != nil && !IsUniformShareable(u) {
		v.addError(fmt.Sprintf("uniform struct %s must be host-shareable without struct members", u.Name))
	}
	if v.module.HasUniformBlock() {
		if prev, ok := slots[v.module.UniformSlot]; ok {
			v.addError(fmt.Sprintf("uniform block: group %d binding %d already used by %s",
				v.module.UniformSlot.Group, v.module.UniformSlot.Index, prev))
		}
	}
}

// validateConstants checks constant values.
func (v *Validator) validateConstants() {
	for i := range v.module.Constants {
		c := &v.module.Constants[i]
		if err := ValidateLiteral(c.Value); err != nil {
			v.addError(fmt.Sprintf("constant %s: %v", c.Name, err))
		}
	}
}

// validateFunctions checks every helper function body.
func (v *Validator) validateFunctions() {
	for i := range v.module.Functions {
		fn := &v.module.Functions[i]
		if len(fn.ArgNames) != len(fn.ArgTypes) {
			v.addError(fmt.Sprintf("function %s: %d argument names for %d argument types", fn.Name, len(fn.ArgNames), len(fn.ArgTypes)))
		}
		v.context = validationContext{
			functionName: string(fn.Name),
			functionIdx:  i,
			result:       fn.Result,
			statement:    -1,
		}
		v.validateBlock(fn.Body)
		v.functions[fn.Name] = i
	}
}

// validateEntryPoints checks workgroups and entry point bodies.
func (v *Validator) validateEntryPoints() {
	if len(v.module.EntryPoints) == 0 {
		v.context = validationContext{statement: -1}
		v.addError("module has no entry points")
		return
	}
	for i := range v.module.EntryPoints {
		ep := &v.module.EntryPoints[i]
		v.context = validationContext{
			functionName: string(ep.Name),
			functionIdx:  len(v.module.Functions),
			statement:    -1,
		}
		wg := ep.Workgroup
		if wg.Dims < Dims1D || wg.Dims > Dims3D {
			v.addError(fmt.Sprintf("workgroup dimensionality %d out of range", wg.Dims))
		} else {
			for d := 0; d < int(wg.Dims); d++ {
				if wg.Size[d] == 0 {
					v.addError(fmt.Sprintf("workgroup size %d is zero", d))
				}
			}
		}
		v.validateBlock(ep.Body)
	}
}

// validateBlock checks statement typing within a body.
func (v *Validator) validateBlock(block Block) {
	for i, stmt := range block {
		v.context.statement = i
		switch s := stmt.(type) {
		case VarDecl:
			v.validateExpression(s.Init)
			if s.Init != nil && !TypesEqual(s.DataType, s.Init.Type()) {
				v.addError(fmt.Sprintf("local %s declared %s but initialized with %s", s.Name, TypeName(s.DataType), TypeName(s.Init.Type())))
			}
		case Assign:
			v.validateExpression(s.Value)
			if !TypesEqual(s.Target.Type(), s.Value.Type()) {
				v.addError(fmt.Sprintf("assignment of %s to %s", TypeName(s.Value.Type()), TypeName(s.Target.Type())))
			}
		case IfElse:
			v.validateExpression(s.Condition)
			if !TypesEqual(s.Condition.Type(), Bool) {
				v.addError(fmt.Sprintf("if condition has type %s", TypeName(s.Condition.Type())))
			}
			saved := v.context.statement
			v.validateBlock(s.Accept)
			v.validateBlock(s.Reject)
			v.context.statement = saved
		case ExprStmt:
			v.validateExpression(s.Expr)
		case Return:
			v.validateReturn(s)
		default:
			v.addError(fmt.Sprintf("unknown statement %T", stmt))
		}
	}
}

func (v *Validator) validateReturn(s Return) {
	switch {
	case s.Value == nil && v.context.result != nil:
		v.addError(fmt.Sprintf("bare return in function returning %s", TypeName(v.context.result)))
	case s.Value != nil && v.context.result == nil:
		v.addError("return with a value in function without a result")
	case s.Value != nil:
		v.validateExpression(s.Value)
		if !TypesEqual(s.Value.Type(), v.context.result) {
			v.addError(fmt.Sprintf("return of %s in function returning %s", TypeName(s.Value.Type()), TypeName(v.context.result)))
		}
	}
}

// validateExpression re-derives the type of e from its operands.
func (v *Validator) validateExpression(e Expression) {
	if e == nil {
		return
	}
	for _, child := range Children(e) {
		v.validateExpression(child)
	}
	switch e := e.(type) {
	case Literal:
		if err := ValidateLiteral(e.Value); err != nil {
			v.addError(err.Error())
		}
	case Compare:
		if err := ResolveCompare(e.Op, e.Left.Type(), e.Right.Type()); err != nil {
			v.addError(err.Error())
		}
	case Binary:
		res, err := ResolveBinary(e.Op, e.Left.Type(), e.Right.Type())
		if err != nil {
			v.addError(err.Error())
		} else if res != e.Result {
			v.addError(fmt.Sprintf("operator %s result recorded as %s, resolves to %s", e.Op, e.Result, res))
		}
	case Unary:
		if _, err := ResolveUnary(e.Op, e.Operand.Type()); err != nil {
			v.addError(err.Error())
		}
	case VecConstruct:
		args := make([]DataType, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.Type()
		}
		if err := ResolveVecConstruct(e.DataType, args); err != nil {
			v.addError(err.Error())
		}
	case BufferRead:
		v.validateBufferAccess(e.Buffer, e.Element, e.Index)
	case BufferLength:
		if v.findBinding(e.Buffer) == nil {
			v.addError(fmt.Sprintf("length of unknown buffer %s", e.Buffer))
		}
	case UniformRead:
		if v.module.Uniforms == nil {
			v.addError("uniform read in module without uniforms")
		}
	case FieldRead:
		st, ok := e.Base.Type().(*StructType)
		if !ok {
			v.addError(fmt.Sprintf("field %s read from non-struct %s", e.Field, TypeName(e.Base.Type())))
			break
		}
		if f, ok := st.Field(e.Field); !ok || !TypesEqual(f.DataType, e.DataType) {
			v.addError(fmt.Sprintf("struct %s has no field %s of type %s", st.Name, e.Field, TypeName(e.DataType)))
		}
	case Call:
		v.validateCall(e)
	}
}

func (v *Validator) validateBufferAccess(name Identifier, element DataType, index Expression) {
	b := v.findBinding(name)
	if b == nil {
		v.addError(fmt.Sprintf("access to unknown buffer %s", name))
		return
	}
	if !TypesEqual(b.Element, element) {
		v.addError(fmt.Sprintf("buffer %s accessed as %s, declared %s", name, TypeName(element), TypeName(b.Element)))
	}
	if b.Singleton != (index == nil) {
		v.addError(fmt.Sprintf("buffer %s: index presence does not match binding shape", name))
	}
	if index != nil {
		if t, ok := index.Type().(BuiltinType); !ok || t.IsVector() || !t.IsInteger() {
			v.addError(fmt.Sprintf("buffer %s indexed with %s", name, TypeName(index.Type())))
		}
	}
}

func (v *Validator) validateCall(e Call) {
	idx, ok := v.functions[e.Function]
	if !ok || idx >= v.context.functionIdx {
		v.addError(fmt.Sprintf("call to %s before its definition", e.Function))
		return
	}
	fn := &v.module.Functions[idx]
	if len(e.Args) != len(fn.ArgTypes) {
		v.addError(fmt.Sprintf("call to %s with %d arguments, want %d", e.Function, len(e.Args), len(fn.ArgTypes)))
		return
	}
	for i, a := range e.Args {
		if !TypesEqual(a.Type(), fn.ArgTypes[i]) {
			v.addError(fmt.Sprintf("call to %s: argument %d has type %s, want %s", e.Function, i, TypeName(a.Type()), TypeName(fn.ArgTypes[i])))
		}
	}
	if !TypesEqual(e.Result, fn.Result) && (e.Result != nil || fn.Result != nil) {
		v.addError(fmt.Sprintf("call to %s: result recorded as %s", e.Function, TypeName(e.Result)))
	}
}

func (v *Validator) findBinding(name Identifier) *BufferBinding {
	for i := range v.module.Bindings {
		if v.module.Bindings[i].Name == name {
			return &v.module.Bindings[i]
		}
	}
	return nil
}

// addError records a validation error with the current context.
func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Function:  v.context.functionName,
		Statement: v.context.statement,
	})
}

// ValidateLiteral rejects literals that have no WGSL spelling:
// non-finite floats and malformed vectors.
func ValidateLiteral(lit LiteralValue) error {
	switch l := lit.(type) {
	case nil:
		return fmt.Errorf("nil literal")
	case LiteralF32:
		f := float64(l)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("float literal %v is not finite", f)
		}
	case LiteralVector:
		if l.Type() == nil {
			return fmt.Errorf("vector literal with %d components does not form a builtin vector", len(l.Components))
		}
		for _, c := range l.Components {
			if err := ValidateLiteral(c); err != nil {
				return err
			}
		}
	}
	return nil
}
