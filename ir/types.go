package ir

import "strings"

// DataType is the canonical description of a value's type:
// either a BuiltinType or a *StructType.
type DataType interface {
	dataType()
}

// ScalarKind represents scalar type kinds.
type ScalarKind uint8

const (
	ScalarBool  ScalarKind = iota // Boolean
	ScalarSint                    // Signed integer
	ScalarUint                    // Unsigned integer
	ScalarFloat                   // Floating point
)

// String returns the WGSL scalar spelling.
func (k ScalarKind) String() string {
	switch k {
	case ScalarBool:
		return "bool"
	case ScalarSint:
		return "i32"
	case ScalarUint:
		return "u32"
	case ScalarFloat:
		return "f32"
	default:
		return "unknown"
	}
}

// BuiltinType is one of the closed set of builtin scalar and vector types.
type BuiltinType uint8

const (
	Bool BuiltinType = iota
	I32
	Vec2I32
	Vec3I32
	Vec4I32
	U32
	Vec2U32
	Vec3U32
	Vec4U32
	F32
	Vec2F32
	Vec3F32
	Vec4F32

	builtinCount
)

func (BuiltinType) dataType() {}

type builtinInfo struct {
	name   string
	scalar ScalarKind
	width  int // 1 for scalars
}

// builtinTable drives type names, operator resolution and vector
// construction. Indexed by BuiltinType.
var builtinTable = [builtinCount]builtinInfo{
	Bool:    {"bool", ScalarBool, 1},
	I32:     {"i32", ScalarSint, 1},
	Vec2I32: {"vec2<i32>", ScalarSint, 2},
	Vec3I32: {"vec3<i32>", ScalarSint, 3},
	Vec4I32: {"vec4<i32>", ScalarSint, 4},
	U32:     {"u32", ScalarUint, 1},
	Vec2U32: {"vec2<u32>", ScalarUint, 2},
	Vec3U32: {"vec3<u32>", ScalarUint, 3},
	Vec4U32: {"vec4<u32>", ScalarUint, 4},
	F32:     {"f32", ScalarFloat, 1},
	Vec2F32: {"vec2<f32>", ScalarFloat, 2},
	Vec3F32: {"vec3<f32>", ScalarFloat, 3},
	Vec4F32: {"vec4<f32>", ScalarFloat, 4},
}

// Builtins returns every builtin type in tag order.
func Builtins() []BuiltinType {
	out := make([]BuiltinType, 0, builtinCount)
	for b := BuiltinType(0); b < builtinCount; b++ {
		out = append(out, b)
	}
	return out
}

// Valid reports whether b is a known builtin tag.
func (b BuiltinType) Valid() bool {
	return b < builtinCount
}

// String returns the WGSL spelling of the type.
func (b BuiltinType) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return builtinTable[b].name
}

// Scalar returns the scalar kind of the type or of its components.
func (b BuiltinType) Scalar() ScalarKind {
	return builtinTable[b].scalar
}

// Width returns the number of components: 1 for scalars.
func (b BuiltinType) Width() int {
	return builtinTable[b].width
}

// IsVector reports whether b is a vector type.
func (b BuiltinType) IsVector() bool {
	return b.Valid() && builtinTable[b].width > 1
}

// IsNumeric reports whether b is an integer or float scalar or vector.
func (b BuiltinType) IsNumeric() bool {
	return b.Valid() && b.Scalar() != ScalarBool
}

// IsInteger reports whether b is an integer scalar or vector.
func (b BuiltinType) IsInteger() bool {
	k := b.Scalar()
	return b.Valid() && (k == ScalarSint || k == ScalarUint)
}

// ScalarType returns the scalar builtin of b's components.
func (b BuiltinType) ScalarType() BuiltinType {
	t, _ := VectorOf(b.Scalar(), 1)
	return t
}

// VectorOf returns the builtin with the given scalar kind and width.
// Width 1 yields the scalar type. Boolean vectors are not part of the
// builtin set.
func VectorOf(kind ScalarKind, width int) (BuiltinType, bool) {
	for b := BuiltinType(0); b < builtinCount; b++ {
		if builtinTable[b].scalar == kind && builtinTable[b].width == width {
			return b, true
		}
	}
	return 0, false
}

// StructType is a named aggregate type with ordered fields.
type StructType struct {
	Name   Identifier
	Fields []StructField
}

func (*StructType) dataType() {}

// StructField is one field of an aggregate.
type StructField struct {
	Name     Identifier
	DataType DataType
}

// Field looks up a field by name.
func (s *StructType) Field(name Identifier) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// TypeName returns the WGSL spelling of t.
func TypeName(t DataType) string {
	switch t := t.(type) {
	case BuiltinType:
		return t.String()
	case *StructType:
		return string(t.Name)
	default:
		return "<invalid>"
	}
}

// TypesEqual reports whether a and b denote the same type. Builtins
// compare by tag; structs by name and structurally equal fields.
func TypesEqual(a, b DataType) bool {
	switch a := a.(type) {
	case BuiltinType:
		bb, ok := b.(BuiltinType)
		return ok && a == bb
	case *StructType:
		bs, ok := b.(*StructType)
		if !ok || a == nil || bs == nil {
			return ok && a == bs
		}
		if a == bs {
			return true
		}
		if a.Name != bs.Name || len(a.Fields) != len(bs.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != bs.Fields[i].Name {
				return false
			}
			if !TypesEqual(a.Fields[i].DataType, bs.Fields[i].DataType) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsHostShareable reports whether t may live in a storage or uniform
// buffer. Booleans are not host-shareable.
func IsHostShareable(t DataType) bool {
	switch t := t.(type) {
	case BuiltinType:
		return t.IsNumeric()
	case *StructType:
		if t == nil || len(t.Fields) == 0 {
			return false
		}
		for _, f := range t.Fields {
			if !IsHostShareable(f.DataType) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsUniformShareable reports whether t may live in the uniform address
// space with the member offsets the generator writes. Struct members of
// uniform structs would need 16-byte alignment, so structs may only
// contain builtin members.
func IsUniformShareable(t DataType) bool {
	if !IsHostShareable(t) {
		return false
	}
	st, ok := t.(*StructType)
	if !ok {
		return true
	}
	for _, f := range st.Fields {
		if _, nested := f.DataType.(*StructType); nested {
			return false
		}
	}
	return true
}

// FormatStruct renders a one-line description of a struct, used in
// error messages.
func FormatStruct(s *StructType) string {
	var sb strings.Builder
	sb.WriteString(string(s.Name))
	sb.WriteString("{")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(f.Name))
		sb.WriteString(": ")
		sb.WriteString(TypeName(f.DataType))
	}
	sb.WriteString("}")
	return sb.String()
}
