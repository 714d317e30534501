package ir

// Statement represents one imperative step in a body.
// Statements have side effects and structured control flow, but do not produce values.
type Statement interface {
	statement()
}

// Block represents a sequence of statements executed in order.
type Block []Statement

// Mutability selects the declaration keyword of a local.
type Mutability uint8

const (
	MutabilityVar Mutability = iota // Mutable local (var)
	MutabilityLet                   // Immutable binding (let)
)

// String returns the WGSL keyword.
func (m Mutability) String() string {
	if m == MutabilityLet {
		return "let"
	}
	return "var"
}

// VarDecl declares a local with an initializer.
type VarDecl struct {
	Name       Identifier
	Mutability Mutability
	DataType   DataType
	Init       Expression
}

func (VarDecl) statement() {}

// Assign stores Value into Target. Both have the same type.
type Assign struct {
	Target Lvalue
	Value  Expression
}

func (Assign) statement() {}

// IfElse conditionally executes one of two blocks based on the condition value.
// Reject is only rendered when HasElse is set.
type IfElse struct {
	Condition Expression // Must be a bool expression
	Accept    Block
	Reject    Block
	HasElse   bool
}

func (IfElse) statement() {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expression
}

func (ExprStmt) statement() {}

// Return returns from the enclosing function.
// Value is nil for a bare return.
type Return struct {
	Value Expression
}

func (Return) statement() {}

// Lvalue is an assignable location. Lvalues are not expressions;
// ReadExpr converts one into a read of the same location.
type Lvalue interface {
	Type() DataType
	ReadExpr() Expression
	lvalue()
}

// VariableLvalue names a mutable local.
type VariableLvalue struct {
	Name     Identifier
	DataType DataType
}

func (VariableLvalue) lvalue()          {}
func (l VariableLvalue) Type() DataType { return l.DataType }

// ReadExpr returns an identifier read of the variable.
func (l VariableLvalue) ReadExpr() Expression {
	return Ident(l)
}

// BufferElementLvalue addresses one element of a buffer binding.
// Index is nil for singleton bindings.
type BufferElementLvalue struct {
	Buffer  Identifier
	Element DataType
	Index   Expression
}

func (BufferElementLvalue) lvalue()          {}
func (l BufferElementLvalue) Type() DataType { return l.Element }

// ReadExpr returns a read of the same element.
func (l BufferElementLvalue) ReadExpr() Expression {
	return BufferRead(l)
}

// FieldLvalue addresses a struct field of another lvalue.
type FieldLvalue struct {
	Base     Lvalue
	Field    Identifier
	DataType DataType
}

func (FieldLvalue) lvalue()          {}
func (l FieldLvalue) Type() DataType { return l.DataType }

// ReadExpr returns a field read of the base location.
func (l FieldLvalue) ReadExpr() Expression {
	return FieldRead{Base: l.Base.ReadExpr(), Field: l.Field, DataType: l.DataType}
}
