package ir

// TypeCollector records struct types in dependency order.
// Each struct is recorded the first time it is seen, after its field
// types. Revisiting an already-recorded name is a no-op.
type TypeCollector struct {
	types []*StructType
	seen  map[Identifier]struct{}
}

// NewTypeCollector creates an empty collector.
func NewTypeCollector() *TypeCollector {
	return &TypeCollector{
		types: make([]*StructType, 0, 8),
		seen:  make(map[Identifier]struct{}, 8),
	}
}

// Types returns the recorded structs in dependency order.
func (c *TypeCollector) Types() []*StructType {
	return c.types
}

// Count returns the number of recorded structs.
func (c *TypeCollector) Count() int {
	return len(c.types)
}

// Contains reports whether a struct of the given name was recorded.
func (c *TypeCollector) Contains(name Identifier) bool {
	_, ok := c.seen[name]
	return ok
}

// VisitType records t and every struct it contains.
func (c *TypeCollector) VisitType(t DataType) {
	st, ok := t.(*StructType)
	if !ok || st == nil {
		return
	}
	if _, ok := c.seen[st.Name]; ok {
		return
	}
	// Marked before recursing so a malformed self-referencing struct
	// cannot loop forever.
	c.seen[st.Name] = struct{}{}
	for _, f := range st.Fields {
		c.VisitType(f.DataType)
	}
	c.types = append(c.types, st)
}

// VisitExpression records the types of e and all its sub-expressions.
func (c *TypeCollector) VisitExpression(e Expression) {
	if e == nil {
		return
	}
	c.VisitType(e.Type())
	for _, child := range Children(e) {
		c.VisitExpression(child)
	}
}

// VisitLvalue records the types reachable from an assignment target.
func (c *TypeCollector) VisitLvalue(l Lvalue) {
	c.VisitType(l.Type())
	switch l := l.(type) {
	case BufferElementLvalue:
		c.VisitExpression(l.Index)
	case FieldLvalue:
		c.VisitLvalue(l.Base)
	}
}

// VisitBlock records the types used by every statement of b.
func (c *TypeCollector) VisitBlock(b Block) {
	for _, stmt := range b {
		switch s := stmt.(type) {
		case VarDecl:
			c.VisitType(s.DataType)
			c.VisitExpression(s.Init)
		case Assign:
			c.VisitLvalue(s.Target)
			c.VisitExpression(s.Value)
		case IfElse:
			c.VisitExpression(s.Condition)
			c.VisitBlock(s.Accept)
			c.VisitBlock(s.Reject)
		case ExprStmt:
			c.VisitExpression(s.Expr)
		case Return:
			c.VisitExpression(s.Value)
		}
	}
}

// VisitModule walks the declarations of m: the uniform type, binding
// element types, constants, functions and entry points.
func (c *TypeCollector) VisitModule(m *Module) {
	if m.Uniforms != nil {
		c.VisitType(m.Uniforms)
	}
	for i := range m.Bindings {
		c.VisitType(m.Bindings[i].Element)
	}
	for i := range m.Constants {
		c.VisitType(m.Constants[i].Value.Type())
	}
	for i := range m.Functions {
		fn := &m.Functions[i]
		for _, t := range fn.ArgTypes {
			c.VisitType(t)
		}
		c.VisitType(fn.Result)
		c.VisitBlock(fn.Body)
	}
	for i := range m.EntryPoints {
		c.VisitBlock(m.EntryPoints[i].Body)
	}
}

// CollectTypes returns every struct type reachable from m, ordered so
// that no struct precedes a struct it contains.
func CollectTypes(m *Module) []*StructType {
	c := NewTypeCollector()
	c.VisitModule(m)
	return c.Types()
}
