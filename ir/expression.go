package ir

// Expression is a typed, side-effect-free computation node.
// Every expression reports its own type without consulting a symbol table.
type Expression interface {
	Type() DataType
	expression()
}

// LiteralValue represents the value of a literal.
type LiteralValue interface {
	Type() DataType
	literalValue()
}

// LiteralBool represents a boolean literal.
type LiteralBool bool

func (LiteralBool) literalValue()  {}
func (LiteralBool) Type() DataType { return Bool }

// LiteralI32 represents a 32-bit signed integer literal.
type LiteralI32 int32

func (LiteralI32) literalValue()  {}
func (LiteralI32) Type() DataType { return I32 }

// LiteralU32 represents a 32-bit unsigned integer literal.
type LiteralU32 uint32

func (LiteralU32) literalValue()  {}
func (LiteralU32) Type() DataType { return U32 }

// LiteralF32 represents a 32-bit float literal (may not be NaN or infinity).
type LiteralF32 float32

func (LiteralF32) literalValue()  {}
func (LiteralF32) Type() DataType { return F32 }

// LiteralVector represents a vector literal. Components are scalar
// literals of one kind; their count selects the vector width.
type LiteralVector struct {
	Components []LiteralValue
}

func (LiteralVector) literalValue() {}

// Type returns the vector type, or nil when the components do not form
// a builtin vector.
func (v LiteralVector) Type() DataType {
	if len(v.Components) == 0 {
		return nil
	}
	first, ok := v.Components[0].Type().(BuiltinType)
	if !ok || first.IsVector() {
		return nil
	}
	for _, c := range v.Components[1:] {
		if ct, ok := c.Type().(BuiltinType); !ok || ct != first {
			return nil
		}
	}
	t, ok := VectorOf(first.Scalar(), len(v.Components))
	if !ok || !t.IsVector() {
		return nil
	}
	return t
}

// Literal represents a literal constant value.
type Literal struct {
	Value LiteralValue
}

func (Literal) expression()      {}
func (e Literal) Type() DataType { return e.Value.Type() }

// Ident reads a named value: a local, an argument or a constant.
type Ident struct {
	Name     Identifier
	DataType DataType
}

func (Ident) expression()      {}
func (e Ident) Type() DataType { return e.DataType }

// CompareOperator represents comparison operations.
type CompareOperator uint8

const (
	CompareEqual        CompareOperator = iota // ==
	CompareNotEqual                            // !=
	CompareLess                                // <
	CompareLessEqual                           // <=
	CompareGreater                             // >
	CompareGreaterEqual                        // >=
)

// String returns the WGSL operator token.
func (op CompareOperator) String() string {
	switch op {
	case CompareEqual:
		return "=="
	case CompareNotEqual:
		return "!="
	case CompareLess:
		return "<"
	case CompareLessEqual:
		return "<="
	case CompareGreater:
		return ">"
	case CompareGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Compare compares two scalars of identical type and yields bool.
type Compare struct {
	Op    CompareOperator
	Left  Expression
	Right Expression
}

func (Compare) expression()    {}
func (Compare) Type() DataType { return Bool }

// BinaryOperator represents binary operations.
type BinaryOperator uint8

const (
	// Arithmetic operations
	BinaryAdd      BinaryOperator = iota // Addition
	BinarySubtract                       // Subtraction
	BinaryMultiply                       // Multiplication
	BinaryDivide                         // Division
	BinaryModulo                         // Modulo

	// Bitwise operations
	BinaryAnd         // Bitwise AND
	BinaryExclusiveOr // Bitwise XOR
	BinaryInclusiveOr // Bitwise OR
	BinaryShiftLeft   // Left shift
	BinaryShiftRight  // Right shift

	// Logical operations
	BinaryLogicalAnd // Logical AND
	BinaryLogicalOr  // Logical OR

	binaryOperatorCount
)

// String returns the WGSL operator token.
func (op BinaryOperator) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySubtract:
		return "-"
	case BinaryMultiply:
		return "*"
	case BinaryDivide:
		return "/"
	case BinaryModulo:
		return "%"
	case BinaryAnd:
		return "&"
	case BinaryExclusiveOr:
		return "^"
	case BinaryInclusiveOr:
		return "|"
	case BinaryShiftLeft:
		return "<<"
	case BinaryShiftRight:
		return ">>"
	case BinaryLogicalAnd:
		return "&&"
	case BinaryLogicalOr:
		return "||"
	default:
		return "?"
	}
}

// Binary represents an arithmetic, bitwise, logical or shift operation.
// Result is the type resolved from the operator table.
type Binary struct {
	Op     BinaryOperator
	Left   Expression
	Right  Expression
	Result BuiltinType
}

func (Binary) expression()      {}
func (e Binary) Type() DataType { return e.Result }

// UnaryOperator represents unary operations.
type UnaryOperator uint8

const (
	UnaryNegate     UnaryOperator = iota // Arithmetic negation
	UnaryLogicalNot                      // Logical not (!)
	UnaryBitwiseNot                      // Bitwise not (~)
)

// String returns the WGSL operator token.
func (op UnaryOperator) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryLogicalNot:
		return "!"
	case UnaryBitwiseNot:
		return "~"
	default:
		return "?"
	}
}

// Unary represents a unary operation. The result has the operand's type.
type Unary struct {
	Op      UnaryOperator
	Operand Expression
}

func (Unary) expression()      {}
func (e Unary) Type() DataType { return e.Operand.Type() }

// VecConstruct builds a vector from scalars and smaller vectors.
type VecConstruct struct {
	DataType BuiltinType
	Args     []Expression
}

func (VecConstruct) expression()      {}
func (e VecConstruct) Type() DataType { return e.DataType }

// BufferRead reads an element of a buffer binding.
// Index is nil for singleton bindings.
type BufferRead struct {
	Buffer  Identifier
	Element DataType
	Index   Expression
}

func (BufferRead) expression()      {}
func (e BufferRead) Type() DataType { return e.Element }

// BufferLength reads the element count of a buffer binding from the
// synthesized uniform block.
type BufferLength struct {
	Buffer Identifier
}

func (BufferLength) expression()    {}
func (BufferLength) Type() DataType { return U32 }

// UniformRead reads the user uniform struct from the uniform block.
type UniformRead struct {
	DataType *StructType
}

func (UniformRead) expression()      {}
func (e UniformRead) Type() DataType { return e.DataType }

// FieldRead reads a struct field of a base expression.
type FieldRead struct {
	Base     Expression
	Field    Identifier
	DataType DataType
}

func (FieldRead) expression()      {}
func (e FieldRead) Type() DataType { return e.DataType }

// Call invokes a helper function. Result is nil for functions without
// a return type; such calls are only valid as expression statements.
type Call struct {
	Function Identifier
	Args     []Expression
	Result   DataType
}

func (Call) expression()      {}
func (e Call) Type() DataType { return e.Result }

// DispatchIndex is the invocation index of a compute entry point,
// narrowed to the entry point's dimensionality.
type DispatchIndex struct {
	Dims Dims
}

func (DispatchIndex) expression() {}

// Type returns u32, vec2<u32> or vec3<u32>.
func (e DispatchIndex) Type() DataType {
	return Workgroup{Dims: e.Dims}.IndexType()
}

// Children returns the direct sub-expressions of e, in evaluation order.
func Children(e Expression) []Expression {
	switch e := e.(type) {
	case Compare:
		return []Expression{e.Left, e.Right}
	case Binary:
		return []Expression{e.Left, e.Right}
	case Unary:
		return []Expression{e.Operand}
	case VecConstruct:
		return e.Args
	case BufferRead:
		if e.Index != nil {
			return []Expression{e.Index}
		}
	case FieldRead:
		return []Expression{e.Base}
	case Call:
		return e.Args
	}
	return nil
}
