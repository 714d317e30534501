package ir

import "fmt"

type binaryKey struct {
	op          BinaryOperator
	left, right BuiltinType
}

// binaryTable maps (operator, left, right) to the result type.
// It is generated once from the builtin table.
var binaryTable = buildBinaryTable()

func buildBinaryTable() map[binaryKey]BuiltinType {
	table := make(map[binaryKey]BuiltinType)
	put := func(op BinaryOperator, l, r, res BuiltinType) {
		table[binaryKey{op, l, r}] = res
	}
	arithmetic := []BinaryOperator{BinaryAdd, BinarySubtract, BinaryMultiply, BinaryDivide, BinaryModulo}
	bitwise := []BinaryOperator{BinaryAnd, BinaryExclusiveOr, BinaryInclusiveOr}

	for _, t := range Builtins() {
		switch {
		case t == Bool:
			put(BinaryAnd, t, t, t)
			put(BinaryInclusiveOr, t, t, t)
			put(BinaryLogicalAnd, t, t, t)
			put(BinaryLogicalOr, t, t, t)
			continue
		case !t.IsNumeric():
			continue
		}

		for _, op := range arithmetic {
			put(op, t, t, t)
			if t.IsVector() {
				s := t.ScalarType()
				put(op, t, s, t)
				put(op, s, t, t)
			}
		}

		if !t.IsInteger() {
			continue
		}
		for _, op := range bitwise {
			put(op, t, t, t)
		}
		amount, _ := VectorOf(ScalarUint, t.Width())
		put(BinaryShiftLeft, t, amount, t)
		put(BinaryShiftRight, t, amount, t)
	}
	return table
}

// ResolveBinary returns the result type of applying op to operands of
// the given types.
func ResolveBinary(op BinaryOperator, left, right DataType) (BuiltinType, error) {
	l, lok := left.(BuiltinType)
	r, rok := right.(BuiltinType)
	if !lok || !rok {
		return 0, fmt.Errorf("operator %s is not defined for %s and %s", op, TypeName(left), TypeName(right))
	}
	res, ok := binaryTable[binaryKey{op, l, r}]
	if !ok {
		return 0, fmt.Errorf("operator %s is not defined for %s and %s", op, l, r)
	}
	return res, nil
}

// ResolveUnary returns the result type of applying op to an operand of
// type t. Negation needs a signed or float operand, logical not needs
// bool and bitwise not needs an integer.
func ResolveUnary(op UnaryOperator, t DataType) (BuiltinType, error) {
	b, ok := t.(BuiltinType)
	if !ok {
		return 0, fmt.Errorf("operator %s is not defined for %s", op, TypeName(t))
	}
	var valid bool
	switch op {
	case UnaryNegate:
		valid = b.Scalar() == ScalarSint || b.Scalar() == ScalarFloat
	case UnaryLogicalNot:
		valid = b == Bool
	case UnaryBitwiseNot:
		valid = b.IsInteger()
	}
	if !valid {
		return 0, fmt.Errorf("operator %s is not defined for %s", op, b)
	}
	return b, nil
}

// ResolveCompare checks that a comparison is defined for the operand
// types: both sides must be the same scalar. Ordering comparisons are
// not defined on bool.
func ResolveCompare(op CompareOperator, left, right DataType) error {
	l, lok := left.(BuiltinType)
	r, rok := right.(BuiltinType)
	if !lok || !rok || l != r {
		return fmt.Errorf("cannot compare %s with %s", TypeName(left), TypeName(right))
	}
	if l.IsVector() {
		return fmt.Errorf("comparison of vector type %s", l)
	}
	if l == Bool && op != CompareEqual && op != CompareNotEqual {
		return fmt.Errorf("operator %s is not defined for bool", op)
	}
	return nil
}

// ResolveVecConstruct checks the arguments of a vector constructor
// against the target type. A single argument is either a scalar of the
// target kind (splat) or a vector of the exact target type; otherwise
// the argument widths must sum to the target width.
func ResolveVecConstruct(target BuiltinType, args []DataType) error {
	if !target.IsVector() {
		return fmt.Errorf("%s is not a vector type", target)
	}
	if len(args) == 0 {
		return fmt.Errorf("%s constructor needs at least one argument", target)
	}
	width := 0
	for i, a := range args {
		b, ok := a.(BuiltinType)
		if !ok || b.Scalar() != target.Scalar() {
			return fmt.Errorf("%s constructor argument %d has type %s", target, i, TypeName(a))
		}
		width += b.Width()
	}
	if len(args) == 1 && (width == 1 || width == target.Width()) {
		return nil
	}
	if width != target.Width() {
		return fmt.Errorf("%s constructor arguments cover %d components, want %d", target, width, target.Width())
	}
	return nil
}
