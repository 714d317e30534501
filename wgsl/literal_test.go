// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/shade/ir"
)

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		value ir.LiteralValue
		want  string
	}{
		{ir.LiteralBool(true), "true"},
		{ir.LiteralBool(false), "false"},
		{ir.LiteralU32(33), "33u"},
		{ir.LiteralU32(math.MaxUint32), "4294967295u"},
		{ir.LiteralI32(-4), "-4i"},
		{ir.LiteralI32(math.MaxInt32), "2147483647i"},
		{ir.LiteralI32(math.MinInt32), "i32(-2147483648)"},
		{ir.LiteralF32(1.5), "1.5f"},
		{ir.LiteralF32(1), "1f"},
		{ir.LiteralF32(-0.25), "-0.25f"},
		{ir.LiteralF32(1e20), "1e+20f"},
		{ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralU32(1), ir.LiteralU32(2)}}, "vec2<u32>(1u, 2u)"},
		{ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralF32(0), ir.LiteralF32(0.5), ir.LiteralF32(1)}}, "vec3<f32>(0f, 0.5f, 1f)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatLiteral(tt.value)
			if err != nil {
				t.Fatalf("FormatLiteral() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatLiteral() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLiteralErrors(t *testing.T) {
	tests := []struct {
		name  string
		value ir.LiteralValue
	}{
		{"nan", ir.LiteralF32(float32(math.NaN()))},
		{"inf", ir.LiteralF32(float32(math.Inf(1)))},
		{"nil", nil},
		{"short vector", ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralU32(1)}}},
		{"mixed vector", ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralU32(1), ir.LiteralI32(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := FormatLiteral(tt.value); err == nil {
				t.Errorf("FormatLiteral() = %q, want error", got)
			}
		})
	}
}

// Parsing the rendered text must reproduce the value exactly.
func TestLiteralRoundTrip(t *testing.T) {
	values := []ir.LiteralValue{
		ir.LiteralBool(true),
		ir.LiteralBool(false),
		ir.LiteralU32(0),
		ir.LiteralU32(33),
		ir.LiteralU32(math.MaxUint32),
		ir.LiteralI32(0),
		ir.LiteralI32(-1),
		ir.LiteralI32(math.MaxInt32),
		ir.LiteralI32(math.MinInt32),
		ir.LiteralF32(0),
		ir.LiteralF32(0.1),
		ir.LiteralF32(-3.75),
		ir.LiteralF32(1e20),
		ir.LiteralF32(math.MaxFloat32),
		ir.LiteralF32(math.SmallestNonzeroFloat32),
		ir.LiteralF32(16777217),
		ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralU32(1), ir.LiteralU32(2)}},
		ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralI32(-1), ir.LiteralI32(math.MinInt32), ir.LiteralI32(7)}},
		ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralF32(-0.5), ir.LiteralF32(1e-30), ir.LiteralF32(2), ir.LiteralF32(3)}},
	}

	for _, v := range values {
		text, err := FormatLiteral(v)
		if err != nil {
			t.Fatalf("FormatLiteral(%v) error = %v", v, err)
		}
		t.Run(text, func(t *testing.T) {
			got, err := ParseLiteral(text)
			if err != nil {
				t.Fatalf("ParseLiteral(%q) error = %v", text, err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("ParseLiteral(%q) = %#v, want %#v", text, got, v)
			}
		})
	}
}

// Hand-written spellings the generator never emits still parse.
func TestParseLiteralSpellings(t *testing.T) {
	tests := []struct {
		text string
		want ir.LiteralValue
	}{
		{"0xffu", ir.LiteralU32(255)},
		{"0XFFi", ir.LiteralI32(255)},
		{"-0x10i", ir.LiteralI32(-16)},
		{"1.0e2f", ir.LiteralF32(100)},
		{"2e3f", ir.LiteralF32(2000)},
		{"u32(7)", ir.LiteralU32(7)},
		{"i32(-5)", ir.LiteralI32(-5)},
		{"f32(1.25)", ir.LiteralF32(1.25)},
		{" 33u /* count */ ", ir.LiteralU32(33)},
		{"vec2<i32>(-1i,\n\t2i)", ir.LiteralVector{Components: []ir.LiteralValue{ir.LiteralI32(-1), ir.LiteralI32(2)}}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseLiteral(tt.text)
			if err != nil {
				t.Fatalf("ParseLiteral() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLiteral() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []string{
		"",
		"33",
		"1.5",
		"x",
		"4294967296u",
		"2147483648i",
		"-4u",
		"1.5q",
		"abcf",
		"1h",
		"33u 4u",
		"-true",
		"i32(4u)",
		"i32(2147483648)",
		"u32(-1)",
		"vec2<u32>(1u)",
		"vec2<u32>(1u, 2i)",
		"vec3<u32>(1u, 2u)",
		"vec2<u32>(1u, 2u",
		"vec2<f32>(vec2<f32>(1f, 2f), 3f)",
		"33u /* open",
		"33u $",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if got, err := ParseLiteral(text); err == nil {
				t.Errorf("ParseLiteral(%q) = %#v, want error", text, got)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"fn", true},
		{"var", true},
		{"let", true},
		{"struct", true},
		{"vec3", true},
		{"array", true},
		{"storage", true},
		{"_", true},
		{"data", false},
		{"foo", false},
		{"main", false},
	}

	for _, tt := range tests {
		if got := IsReserved(tt.name); got != tt.want {
			t.Errorf("IsReserved(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
