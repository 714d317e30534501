package ir

import "testing"

func TestBuiltinTypeNames(t *testing.T) {
	tests := []struct {
		typ  BuiltinType
		want string
	}{
		{Bool, "bool"},
		{I32, "i32"},
		{U32, "u32"},
		{F32, "f32"},
		{Vec2I32, "vec2<i32>"},
		{Vec3I32, "vec3<i32>"},
		{Vec4I32, "vec4<i32>"},
		{Vec2U32, "vec2<u32>"},
		{Vec3U32, "vec3<u32>"},
		{Vec4U32, "vec4<u32>"},
		{Vec2F32, "vec2<f32>"},
		{Vec3F32, "vec3<f32>"},
		{Vec4F32, "vec4<f32>"},
	}

	if len(tests) != len(Builtins()) {
		t.Fatalf("table covers %d builtins, have %d", len(tests), len(Builtins()))
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := TypeName(tt.typ); got != tt.want {
				t.Errorf("TypeName(%d) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestVectorOfInvertsTable(t *testing.T) {
	for _, b := range Builtins() {
		got, ok := VectorOf(b.Scalar(), b.Width())
		if !ok || got != b {
			t.Errorf("VectorOf(%v, %d) = %v, %v; want %v", b.Scalar(), b.Width(), got, ok, b)
		}
	}
	if _, ok := VectorOf(ScalarBool, 2); ok {
		t.Error("VectorOf(bool, 2) should not exist")
	}
}

func TestTypesEqual(t *testing.T) {
	point := &StructType{Name: "Point", Fields: []StructField{{"x", U32}, {"y", U32}}}
	point2 := &StructType{Name: "Point", Fields: []StructField{{"x", U32}, {"y", U32}}}
	other := &StructType{Name: "Point", Fields: []StructField{{"x", F32}, {"y", U32}}}

	tests := []struct {
		name string
		a, b DataType
		want bool
	}{
		{"same builtin", U32, U32, true},
		{"different builtin", U32, I32, false},
		{"builtin vs struct", U32, point, false},
		{"same pointer", point, point, true},
		{"structural", point, point2, true},
		{"field type differs", point, other, false},
		{"nil", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("TypesEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsHostShareable(t *testing.T) {
	withBool := &StructType{Name: "Flags", Fields: []StructField{{"on", Bool}}}
	nested := &StructType{Name: "Outer", Fields: []StructField{{"f", withBool}}}
	ok := &StructType{Name: "Ok", Fields: []StructField{{"v", Vec3F32}}}

	if IsHostShareable(Bool) {
		t.Error("bool must not be host-shareable")
	}
	if !IsHostShareable(Vec4U32) {
		t.Error("vec4<u32> must be host-shareable")
	}
	if IsHostShareable(nested) {
		t.Error("struct containing bool must not be host-shareable")
	}
	if !IsHostShareable(ok) {
		t.Error("struct of vectors must be host-shareable")
	}
}

func TestIsUniformShareable(t *testing.T) {
	inner := &StructType{Name: "Inner", Fields: []StructField{{"v", U32}}}
	tests := []struct {
		name string
		t    DataType
		want bool
	}{
		{"scalar", U32, true},
		{"vector", Vec3F32, true},
		{"bool", Bool, false},
		{"flat struct", &StructType{Name: "Flat", Fields: []StructField{{"a", U32}, {"b", Vec3F32}}}, true},
		{"struct member", &StructType{Name: "Params", Fields: []StructField{{"a", U32}, {"p", inner}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniformShareable(tt.t); got != tt.want {
				t.Errorf("IsUniformShareable(%s) = %v, want %v", TypeName(tt.t), got, tt.want)
			}
		})
	}
}

func TestLiteralTypes(t *testing.T) {
	tests := []struct {
		name string
		lit  LiteralValue
		want DataType
	}{
		{"bool", LiteralBool(true), Bool},
		{"i32", LiteralI32(-4), I32},
		{"u32", LiteralU32(33), U32},
		{"f32", LiteralF32(1.5), F32},
		{"vec2u", LiteralVector{Components: []LiteralValue{LiteralU32(1), LiteralU32(2)}}, Vec2U32},
		{"vec4f", LiteralVector{Components: []LiteralValue{LiteralF32(0), LiteralF32(1), LiteralF32(2), LiteralF32(3)}}, Vec4F32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Literal{Value: tt.lit}).Type(); !TypesEqual(got, tt.want) {
				t.Errorf("Type() = %v, want %v", TypeName(got), TypeName(tt.want))
			}
		})
	}

	bad := []LiteralVector{
		{},
		{Components: []LiteralValue{LiteralU32(1)}},
		{Components: []LiteralValue{LiteralU32(1), LiteralI32(2)}},
		{Components: []LiteralValue{LiteralBool(true), LiteralBool(false)}},
	}
	for i, v := range bad {
		if v.Type() != nil {
			t.Errorf("bad vector %d resolved to %s", i, TypeName(v.Type()))
		}
	}
}

func TestLvalueReadExpr(t *testing.T) {
	point := &StructType{Name: "Point", Fields: []StructField{{"x", U32}, {"y", U32}}}
	base := BufferElementLvalue{Buffer: "points", Element: point, Index: DispatchIndex{Dims: Dims1D}}
	field := FieldLvalue{Base: base, Field: "y", DataType: U32}

	read, ok := field.ReadExpr().(FieldRead)
	if !ok {
		t.Fatalf("ReadExpr() = %T, want FieldRead", field.ReadExpr())
	}
	if read.Type() != DataType(U32) {
		t.Errorf("field read type = %s", TypeName(read.Type()))
	}
	if br, ok := read.Base.(BufferRead); !ok || br.Buffer != "points" {
		t.Errorf("base = %#v, want read of points", read.Base)
	}

	v := VariableLvalue{Name: "foo", DataType: U32}
	if id, ok := v.ReadExpr().(Ident); !ok || id.Name != "foo" || id.DataType != DataType(U32) {
		t.Errorf("variable ReadExpr() = %#v", v.ReadExpr())
	}
}

func TestWorkgroup(t *testing.T) {
	tests := []struct {
		wg     Workgroup
		index  BuiltinType
		extent [3]uint32
	}{
		{Workgroup{Dims: Dims1D, Size: [3]uint32{64, 9, 9}}, U32, [3]uint32{64, 1, 1}},
		{Workgroup{Dims: Dims2D, Size: [3]uint32{8, 8, 9}}, Vec2U32, [3]uint32{8, 8, 1}},
		{Workgroup{Dims: Dims3D, Size: [3]uint32{4, 4, 4}}, Vec3U32, [3]uint32{4, 4, 4}},
	}
	for _, tt := range tests {
		if got := tt.wg.IndexType(); got != tt.index {
			t.Errorf("IndexType(%d) = %v, want %v", tt.wg.Dims, got, tt.index)
		}
		if got := tt.wg.Extent(); got != tt.extent {
			t.Errorf("Extent(%d) = %v, want %v", tt.wg.Dims, got, tt.extent)
		}
		if got := (DispatchIndex{Dims: tt.wg.Dims}).Type(); got != DataType(tt.index) {
			t.Errorf("DispatchIndex(%d).Type() = %v", tt.wg.Dims, got)
		}
	}
}
