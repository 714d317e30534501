// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package samples

import (
	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/ir"
)

// Point is a pair of unsigned coordinates.
type Point struct {
	X, Y uint32
}

func (Point) StructName() string { return "Point" }

func (Point) VisitFields(v *builder.FieldVisitor) {
	builder.Field(v, "x", func(p *Point) uint32 { return p.X }, func(p *Point, x uint32) { p.X = x })
	builder.Field(v, "y", func(p *Point) uint32 { return p.Y }, func(p *Point, y uint32) { p.Y = y })
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	TopLeft, BottomRight Point
}

func (Rect) StructName() string { return "Rect" }

func (Rect) VisitFields(v *builder.FieldVisitor) {
	builder.Field(v, "top_left", func(r *Rect) Point { return r.TopLeft }, func(r *Rect, p Point) { r.TopLeft = p })
	builder.Field(v, "bottom_right", func(r *Rect) Point { return r.BottomRight }, func(r *Rect, p Point) { r.BottomRight = p })
}

func init() {
	register(Sample{
		Name:        "project",
		Description: "smoke test: expression statement, if/else and bare return",
		Define:      defineProject,
	})
	register(Sample{
		Name:        "increment",
		Description: "writes the dispatch index plus one to a buffer",
		Define:      defineIncrement,
	})
	register(Sample{
		Name:        "call",
		Description: "calls a helper function from an entry point",
		Define:      defineCall,
	})
	register(Sample{
		Name:        "rect",
		Description: "nested struct types in a storage buffer",
		Define:      defineRect,
	})
}

func defineProject(s *builder.ShaderBuilder) error {
	points, err := builder.Buffer[uint32](s, "points", 0, 0, ir.DispositionRead)
	if err != nil {
		return err
	}
	_, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, id builder.Expr) error {
		if err := b.Expr(id); err != nil {
			return err
		}
		foo, err := b.Var("foo", points.Read(id))
		if err != nil {
			return err
		}
		err = b.IfElse(foo.Read().Eq(builder.Lit(uint32(33))),
			func(b *builder.Block) error {
				return b.Assign(foo.Target(), id)
			},
			func(b *builder.Block) error {
				return b.Assign(foo.Target(), foo.Read().Add(builder.Lit(uint32(1))))
			})
		if err != nil {
			return err
		}
		return b.ReturnVoid()
	})
	return err
}

func defineIncrement(s *builder.ShaderBuilder) error {
	data, err := builder.Buffer[uint32](s, "data", 0, 0, ir.DispositionReadWrite)
	if err != nil {
		return err
	}
	_, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, id builder.Expr) error {
		return b.Assign(data.Element(id), id.Add(builder.Lit(uint32(1))))
	})
	return err
}

func defineCall(s *builder.ShaderBuilder) error {
	data, err := builder.Buffer[uint32](s, "data", 0, 0, ir.DispositionReadWrite)
	if err != nil {
		return err
	}
	f, err := s.DefineFunction("f", []builder.Parameter{builder.Param[uint32]("x")}, ir.U32,
		func(b *builder.Block, args []builder.Expr) error {
			return b.Return(args[0].Add(builder.Lit(uint32(33))))
		})
	if err != nil {
		return err
	}
	_, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, id builder.Expr) error {
		return b.Assign(data.Element(id), f.Call(id))
	})
	return err
}

func defineRect(s *builder.ShaderBuilder) error {
	rects, err := builder.Buffer[Rect](s, "rects", 0, 0, ir.DispositionReadWrite)
	if err != nil {
		return err
	}
	origins, err := builder.Buffer[Point](s, "origins", 0, 1, ir.DispositionRead)
	if err != nil {
		return err
	}
	_, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, id builder.Expr) error {
		r, err := b.Var("r", rects.Read(id))
		if err != nil {
			return err
		}
		if err := b.Assign(r.Target().Field("top_left"), origins.Read(id)); err != nil {
			return err
		}
		return b.Assign(rects.Element(id), r.Read())
	})
	return err
}
