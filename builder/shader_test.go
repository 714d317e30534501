// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/shade/ir"
)

type point struct {
	X, Y uint32
}

func (point) StructName() string { return "Point" }

func (point) VisitFields(v *FieldVisitor) {
	Field(v, "x", func(p *point) uint32 { return p.X }, func(p *point, x uint32) { p.X = x })
	Field(v, "y", func(p *point) uint32 { return p.Y }, func(p *point, y uint32) { p.Y = y })
}

type rect struct {
	TopLeft, BottomRight point
}

func (rect) StructName() string { return "Rect" }

func (rect) VisitFields(v *FieldVisitor) {
	Field(v, "top_left", func(r *rect) point { return r.TopLeft }, func(r *rect, p point) { r.TopLeft = p })
	Field(v, "bottom_right", func(r *rect) point { return r.BottomRight }, func(r *rect, p point) { r.BottomRight = p })
}

// otherPoint reuses the name Point for a different shape.
type otherPoint struct {
	X float32
}

func (otherPoint) StructName() string { return "Point" }

func (otherPoint) VisitFields(v *FieldVisitor) {
	Field(v, "x", func(p *otherPoint) float32 { return p.X }, func(p *otherPoint, x float32) { p.X = x })
}

type duplicated struct {
	A uint32
}

func (duplicated) StructName() string { return "Duplicated" }

func (duplicated) VisitFields(v *FieldVisitor) {
	Field(v, "a", func(d *duplicated) uint32 { return d.A }, func(d *duplicated, a uint32) { d.A = a })
	Field(v, "a", func(d *duplicated) uint32 { return d.A }, func(d *duplicated, a uint32) { d.A = a })
}

type withBool struct {
	Flag bool
}

func (withBool) StructName() string { return "WithBool" }

func (withBool) VisitFields(v *FieldVisitor) {
	Field(v, "flag", func(w *withBool) bool { return w.Flag }, func(w *withBool, f bool) { w.Flag = f })
}

type selfRef struct{}

func (selfRef) StructName() string { return "SelfRef" }

func (selfRef) VisitFields(v *FieldVisitor) {
	Field(v, "next", func(*selfRef) selfRef { return selfRef{} }, func(*selfRef, selfRef) {})
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %s", err, kind)
	}
}

// entry defines a one-dimensional entry point named main and returns the
// error reported by DefineEntryPoint.
func entry(s *ShaderBuilder, body func(b *Block, idx Expr) error) error {
	_, err := s.DefineEntryPoint("main", Workgroup1D(64), body)
	return err
}

func TestBindingCollision(t *testing.T) {
	s := NewShader()
	if _, err := Buffer[uint32](s, "a", 0, 0, ir.DispositionRead); err != nil {
		t.Fatalf("Buffer(a) error = %v", err)
	}
	_, err := Buffer[uint32](s, "b", 0, 0, ir.DispositionRead)
	wantKind(t, err, ErrBindingCollision)

	// The first fault is sticky.
	if _, err := Const(s, "K", uint32(1)); !errors.Is(err, ErrBindingCollision) {
		t.Errorf("DefineConstant after fault = %v, want the binding collision", err)
	}
	if _, err := s.Finish(); !errors.Is(err, ErrBindingCollision) {
		t.Errorf("Finish() = %v, want the binding collision", err)
	}
	if !errors.Is(s.Err(), ErrBindingCollision) {
		t.Errorf("Err() = %v, want the binding collision", s.Err())
	}
}

func TestDistinctSlots(t *testing.T) {
	s := NewShader()
	slots := []ir.Slot{{Group: 0, Index: 0}, {Group: 0, Index: 1}, {Group: 1, Index: 0}}
	for i, slot := range slots {
		name := string(rune('a' + i))
		if _, err := Buffer[uint32](s, name, slot.Group, slot.Index, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer(%s) error = %v", name, err)
		}
	}
	if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
		t.Fatalf("DefineEntryPoint() error = %v", err)
	}
	m, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if want := (ir.Slot{Group: 0, Index: 2}); m.UniformSlot != want {
		t.Errorf("UniformSlot = %+v, want %+v", m.UniformSlot, want)
	}
}

func TestUniformSlot(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		s := NewShader(WithUniformSlot(3, 7))
		if _, err := Buffer[uint32](s, "data", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		m, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		if want := (ir.Slot{Group: 3, Index: 7}); m.UniformSlot != want {
			t.Errorf("UniformSlot = %+v, want %+v", m.UniformSlot, want)
		}
	})

	t.Run("collides with buffer", func(t *testing.T) {
		s := NewShader(WithUniformSlot(0, 0))
		_, err := Buffer[uint32](s, "data", 0, 0, ir.DispositionRead)
		wantKind(t, err, ErrBindingCollision)
	})

	t.Run("unused group zero", func(t *testing.T) {
		s := NewShader(WithUniformsOf[point]())
		if _, err := Buffer[uint32](s, "data", 2, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		m, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		if m.UniformSlot != (ir.Slot{}) {
			t.Errorf("UniformSlot = %+v, want group 0 binding 0", m.UniformSlot)
		}
	})

	t.Run("not host-shareable", func(t *testing.T) {
		s := NewShader(WithUniformsOf[withBool]())
		wantKind(t, s.Err(), ErrTypeMismatch)
	})
}

func TestUniformStructMembers(t *testing.T) {
	t.Run("uniforms with struct member", func(t *testing.T) {
		s := NewShader(WithUniformsOf[rect]())
		wantKind(t, s.Err(), ErrTypeMismatch)
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err == nil {
			t.Error("DefineEntryPoint() succeeded after a rejected uniform struct")
		}
	})

	t.Run("uniform buffer with struct member", func(t *testing.T) {
		s := NewShader()
		rt, err := TypeOf[rect]()
		if err != nil {
			t.Fatalf("TypeOf() error = %v", err)
		}
		_, err = s.DefineUniformBuffer("cfg", 0, 0, rt)
		wantKind(t, err, ErrTypeMismatch)
	})

	t.Run("same struct in storage", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[rect](s, "rects", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
	})

	t.Run("flat struct accepted", func(t *testing.T) {
		s := NewShader(WithUniformsOf[point]())
		pt, err := TypeOf[point]()
		if err != nil {
			t.Fatalf("TypeOf() error = %v", err)
		}
		if _, err := s.DefineUniformBuffer("cfg", 0, 0, pt); err != nil {
			t.Fatalf("DefineUniformBuffer() error = %v", err)
		}
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		if _, err := s.Finish(); err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
	})
}

func TestScopeViolation(t *testing.T) {
	tests := []struct {
		name string
		body func(s *ShaderBuilder) func(b *Block, idx Expr) error
	}{
		{
			name: "local from then arm used in else arm",
			body: func(s *ShaderBuilder) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					var leaked *Var
					return b.IfElse(idx.Eq(Lit(uint32(0))),
						func(b *Block) error {
							v, err := b.Var("leaked", Lit(uint32(1)))
							leaked = v
							return err
						},
						func(b *Block) error {
							return b.Assign(leaked.Target(), Lit(uint32(2)))
						})
				}
			},
		},
		{
			name: "local from then arm used after the statement",
			body: func(s *ShaderBuilder) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					var leaked *Let
					err := b.If(idx.Eq(Lit(uint32(0))), func(b *Block) error {
						l, err := b.Let("leaked", idx)
						leaked = l
						return err
					})
					if err != nil {
						return err
					}
					return b.Expr(leaked.Read())
				}
			},
		},
		{
			name: "operands from sibling arms",
			body: func(s *ShaderBuilder) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					var first Expr
					return b.IfElse(idx.Eq(Lit(uint32(0))),
						func(b *Block) error {
							l, err := b.Let("first", idx)
							if err == nil {
								first = l.Read()
							}
							return err
						},
						func(b *Block) error {
							l, err := b.Let("second", idx)
							if err != nil {
								return err
							}
							return b.Expr(first.Add(l.Read()))
						})
				}
			},
		},
		{
			name: "dispatch index from another entry point",
			body: func(s *ShaderBuilder) func(b *Block, idx Expr) error {
				var saved Expr
				if _, err := s.DefineEntryPoint("first", Workgroup1D(1), func(b *Block, idx Expr) error {
					saved = idx
					return nil
				}); err != nil {
					panic(err)
				}
				return func(b *Block, idx Expr) error {
					return b.Expr(saved)
				}
			},
		},
		{
			name: "suspended parent",
			body: func(s *ShaderBuilder) func(b *Block, idx Expr) error {
				return func(outer *Block, idx Expr) error {
					return outer.If(idx.Eq(Lit(uint32(0))), func(b *Block) error {
						return outer.Expr(idx)
					})
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShader()
			err := entry(s, tt.body(s))
			wantKind(t, err, ErrScopeViolation)
			if _, err := s.Finish(); !errors.Is(err, ErrScopeViolation) {
				t.Errorf("Finish() = %v, want the scope violation", err)
			}
		})
	}
}

func TestSealedBlock(t *testing.T) {
	s := NewShader()
	var saved *Block
	err := entry(s, func(b *Block, idx Expr) error {
		saved = b
		return nil
	})
	if err != nil {
		t.Fatalf("DefineEntryPoint() error = %v", err)
	}
	wantKind(t, saved.Expr(Lit(uint32(1))), ErrScopeViolation)
}

func TestCrossShaderHandles(t *testing.T) {
	a := NewShader()
	buf, err := Buffer[uint32](a, "data", 0, 0, ir.DispositionReadWrite)
	if err != nil {
		t.Fatalf("Buffer() error = %v", err)
	}
	k, err := Const(a, "K", uint32(4))
	if err != nil {
		t.Fatalf("Const() error = %v", err)
	}

	t.Run("buffer", func(t *testing.T) {
		b := NewShader()
		err := entry(b, func(blk *Block, idx Expr) error {
			return blk.Assign(buf.Element(idx), idx)
		})
		wantKind(t, err, ErrScopeViolation)
	})

	t.Run("constant", func(t *testing.T) {
		b := NewShader()
		err := entry(b, func(blk *Block, idx Expr) error {
			return blk.Expr(k.Read())
		})
		wantKind(t, err, ErrScopeViolation)
	})
}

func TestTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		body func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error
	}{
		{
			name: "mixed scalar add",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(idx.Add(Lit(int32(1))))
				}
			},
		},
		{
			name: "shift by signed amount",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(idx.Shl(Lit(int32(1))))
				}
			},
		},
		{
			name: "negate unsigned",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(idx.Neg())
				}
			},
		},
		{
			name: "index with float",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(data.Read(Lit(float32(1))))
				}
			},
		},
		{
			name: "assign signed to unsigned",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Assign(data.Element(idx), Lit(int32(1)))
				}
			},
		},
		{
			name: "non-bool condition",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.If(idx, func(b *Block) error { return nil })
				}
			},
		},
		{
			name: "compare vectors",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					v := Lit([2]uint32{1, 2})
					return b.Expr(v.Eq(v))
				}
			},
		},
		{
			name: "vector constructor width",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(Vec(ir.Vec3U32, idx, idx))
				}
			},
		},
		{
			name: "return from entry point",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Return(idx)
				}
			},
		},
		{
			name: "expect",
			body: func(s *ShaderBuilder, data *BufferHandle) func(b *Block, idx Expr) error {
				return func(b *Block, idx Expr) error {
					return b.Expr(As[float32](idx))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShader()
			data, err := Buffer[uint32](s, "data", 0, 0, ir.DispositionReadWrite)
			if err != nil {
				t.Fatalf("Buffer() error = %v", err)
			}
			wantKind(t, entry(s, tt.body(s, data)), ErrTypeMismatch)
		})
	}
}

func TestFunctionCalls(t *testing.T) {
	newShader := func(t *testing.T) (*ShaderBuilder, *FunctionHandle, *FunctionHandle) {
		t.Helper()
		s := NewShader()
		double, err := s.DefineFunction("double", []Parameter{Param[uint32]("x")}, ir.U32,
			func(b *Block, args []Expr) error {
				return b.Return(args[0].Mul(Lit(uint32(2))))
			})
		if err != nil {
			t.Fatalf("DefineFunction(double) error = %v", err)
		}
		noop, err := s.DefineFunction("noop", nil, nil, func(b *Block, args []Expr) error {
			return b.ReturnVoid()
		})
		if err != nil {
			t.Fatalf("DefineFunction(noop) error = %v", err)
		}
		return s, double, noop
	}

	t.Run("valid", func(t *testing.T) {
		s, double, noop := newShader(t)
		err := entry(s, func(b *Block, idx Expr) error {
			if _, err := b.Let("y", double.Call(double.Call(idx))); err != nil {
				return err
			}
			return b.Call(noop)
		})
		if err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
	})

	t.Run("argument type", func(t *testing.T) {
		s, double, _ := newShader(t)
		wantKind(t, entry(s, func(b *Block, idx Expr) error {
			return b.Expr(double.Call(Lit(float32(1))))
		}), ErrTypeMismatch)
	})

	t.Run("argument count", func(t *testing.T) {
		s, double, _ := newShader(t)
		wantKind(t, entry(s, func(b *Block, idx Expr) error {
			return b.Expr(double.Call(idx, idx))
		}), ErrTypeMismatch)
	})

	t.Run("void call as value", func(t *testing.T) {
		s, _, noop := newShader(t)
		wantKind(t, entry(s, func(b *Block, idx Expr) error {
			_, err := b.Var("v", noop.Call())
			return err
		}), ErrTypeMismatch)
	})

	t.Run("parameter read outside the function", func(t *testing.T) {
		s := NewShader()
		var param Expr
		_, err := s.DefineFunction("keep", []Parameter{Param[uint32]("x")}, nil, func(b *Block, args []Expr) error {
			param = args[0]
			return nil
		})
		if err != nil {
			t.Fatalf("DefineFunction() error = %v", err)
		}
		wantKind(t, entry(s, func(b *Block, idx Expr) error {
			return b.Expr(param)
		}), ErrScopeViolation)
	})
}

func TestReturnPaths(t *testing.T) {
	tests := []struct {
		name string
		body func(b *Block, args []Expr) error
		kind ErrorKind
		ok   bool
	}{
		{
			name: "missing return",
			body: func(b *Block, args []Expr) error { return nil },
			kind: ErrInvalidOperation,
		},
		{
			name: "return in one arm",
			body: func(b *Block, args []Expr) error {
				return b.If(args[0].Gt(Lit(uint32(1))), func(b *Block) error {
					return b.Return(args[0])
				})
			},
			kind: ErrInvalidOperation,
		},
		{
			name: "return in both arms",
			body: func(b *Block, args []Expr) error {
				return b.IfElse(args[0].Gt(Lit(uint32(1))),
					func(b *Block) error { return b.Return(args[0]) },
					func(b *Block) error { return b.Return(Lit(uint32(1))) })
			},
			ok: true,
		},
		{
			name: "bare return",
			body: func(b *Block, args []Expr) error { return b.ReturnVoid() },
			kind: ErrTypeMismatch,
		},
		{
			name: "wrong result type",
			body: func(b *Block, args []Expr) error { return b.Return(Lit(int32(1))) },
			kind: ErrTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShader()
			_, err := s.DefineFunction("clamp_low", []Parameter{Param[uint32]("x")}, ir.U32, tt.body)
			if tt.ok {
				if err != nil {
					t.Fatalf("DefineFunction() error = %v", err)
				}
				return
			}
			wantKind(t, err, tt.kind)
		})
	}
}

func TestNames(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		for _, name := range []string{"", "1x", "a-b", "_", "__x", "fn", "storage", "uniforms", "global_id", "BufferLengths"} {
			s := NewShader()
			_, err := Const(s, name, uint32(1))
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("Const(%q) error = %v, want InvalidName", name, err)
			}
		}
	})

	t.Run("module level collision", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[uint32](s, "data", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		_, err := Const(s, "data", uint32(1))
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("struct shape collision", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[point](s, "points", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		_, err := Buffer[otherPoint](s, "others", 0, 1, ir.DispositionRead)
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("struct name reused for the same shape", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[point](s, "points", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		if _, err := Buffer[rect](s, "rects", 0, 1, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
	})

	t.Run("struct registered after a local of the same name", func(t *testing.T) {
		s := NewShader()
		err := entry(s, func(b *Block, idx Expr) error {
			_, err := b.Var("Point", idx)
			return err
		})
		if err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		_, err = Buffer[point](s, "points", 0, 0, ir.DispositionRead)
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("struct registered after a parameter of the same name", func(t *testing.T) {
		s := NewShader()
		_, err := s.DefineFunction("f", []Parameter{Param[uint32]("Rect")}, nil, func(b *Block, args []Expr) error {
			return nil
		})
		if err != nil {
			t.Fatalf("DefineFunction() error = %v", err)
		}
		_, err = Buffer[rect](s, "rects", 0, 0, ir.DispositionRead)
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("struct name collides with buffer", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[uint32](s, "Point", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		_, err := Buffer[point](s, "points", 0, 1, ir.DispositionRead)
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("local shadows module name", func(t *testing.T) {
		s := NewShader()
		if _, err := Const(s, "K", uint32(1)); err != nil {
			t.Fatalf("Const() error = %v", err)
		}
		wantKind(t, entry(s, func(b *Block, idx Expr) error {
			_, err := b.Var("K", idx)
			return err
		}), ErrNameCollision)
	})

	t.Run("local shadows parameter", func(t *testing.T) {
		s := NewShader()
		_, err := s.DefineFunction("f", []Parameter{Param[uint32]("x")}, nil, func(b *Block, args []Expr) error {
			return b.If(args[0].Eq(Lit(uint32(0))), func(b *Block) error {
				_, err := b.Let("x", args[0])
				return err
			})
		})
		wantKind(t, err, ErrNameCollision)
	})

	t.Run("same local in sibling arms", func(t *testing.T) {
		s := NewShader()
		err := entry(s, func(b *Block, idx Expr) error {
			declare := func(b *Block) error {
				_, err := b.Var("tmp", idx)
				return err
			}
			return b.IfElse(idx.Eq(Lit(uint32(0))), declare, declare)
		})
		if err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
	})
}

func TestBufferDisposition(t *testing.T) {
	s := NewShader()
	in, err := Buffer[uint32](s, "input", 0, 0, ir.DispositionRead)
	if err != nil {
		t.Fatalf("Buffer(input) error = %v", err)
	}
	out, err := Buffer[uint32](s, "output", 0, 1, ir.DispositionWrite)
	if err != nil {
		t.Fatalf("Buffer(output) error = %v", err)
	}
	one, err := SingletonBuffer[uint32](s, "total", 0, 2, ir.DispositionReadWrite)
	if err != nil {
		t.Fatalf("SingletonBuffer(total) error = %v", err)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"write to read-only", in.Element(Lit(uint32(0))).Err()},
		{"read from write-only", out.Read(Lit(uint32(0))).Err()},
		{"read back write-only target", out.Element(Lit(uint32(0))).Read().Err()},
		{"index a singleton", one.Read(Lit(uint32(0))).Err()},
		{"singleton value of an array", in.Value().Err()},
		{"target of an array", out.Target().Err()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantKind(t, tt.err, ErrInvalidOperation)
		})
	}

	for _, e := range []error{
		in.Read(Lit(uint32(0))).Err(),
		out.Element(Lit(int32(0))).Err(),
		one.Value().Err(),
		one.Target().Err(),
		one.Target().Read().Err(),
		in.Len().Err(),
	} {
		if e != nil {
			t.Errorf("permitted access faulted: %v", e)
		}
	}
}

func TestFinish(t *testing.T) {
	t.Run("no entry points", func(t *testing.T) {
		s := NewShader()
		_, err := s.Finish()
		wantKind(t, err, ErrInvalidModule)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := NewShader()
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		first, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		second, err := s.Finish()
		if err != nil || second != first {
			t.Errorf("second Finish() = %p, %v; want %p, nil", second, err, first)
		}
		_, err = Const(s, "LATE", uint32(1))
		wantKind(t, err, ErrInvalidModule)
		_, err = Buffer[withBool](s, "late", 0, 0, ir.DispositionRead)
		wantKind(t, err, ErrInvalidModule)
		if err := s.Err(); err != nil {
			t.Errorf("Err() after late declarations = %v, want nil", err)
		}
		third, err := s.Finish()
		if err != nil || third != first {
			t.Errorf("Finish() after late declarations = %p, %v; want %p, nil", third, err, first)
		}
	})

	t.Run("types collected", func(t *testing.T) {
		s := NewShader()
		if _, err := Buffer[rect](s, "rects", 0, 0, ir.DispositionRead); err != nil {
			t.Fatalf("Buffer() error = %v", err)
		}
		if err := entry(s, func(b *Block, idx Expr) error { return nil }); err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		m, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		if len(m.Types) != 2 || m.Types[0].Name != "Point" || m.Types[1].Name != "Rect" {
			t.Errorf("Types = %v, want [Point Rect]", m.Types)
		}
		if errs, err := ir.Validate(m); err != nil || len(errs) != 0 {
			t.Errorf("Validate() = %v, %v", errs, err)
		}
	})

	t.Run("callback error is recorded", func(t *testing.T) {
		s := NewShader()
		boom := errors.New("boom")
		err := entry(s, func(b *Block, idx Expr) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("DefineEntryPoint() error = %v, want boom", err)
		}
		if _, err := s.Finish(); !errors.Is(err, boom) {
			t.Errorf("Finish() = %v, want boom", err)
		}
	})

	t.Run("workgroup", func(t *testing.T) {
		for _, wg := range []ir.Workgroup{{Dims: 0}, {Dims: 4, Size: [3]uint32{1, 1, 1}}, Workgroup2D(8, 0)} {
			s := NewShader()
			_, err := s.DefineEntryPoint("main", wg, func(b *Block, idx Expr) error { return nil })
			wantKind(t, err, ErrInvalidOperation)
		}
	})
}

func TestDispatchIndexType(t *testing.T) {
	tests := []struct {
		wg   ir.Workgroup
		want ir.DataType
	}{
		{Workgroup1D(64), ir.U32},
		{Workgroup2D(8, 8), ir.Vec2U32},
		{Workgroup3D(4, 4, 4), ir.Vec3U32},
	}
	for _, tt := range tests {
		s := NewShader()
		var got ir.DataType
		_, err := s.DefineEntryPoint("main", tt.wg, func(b *Block, idx Expr) error {
			got = idx.Type()
			return nil
		})
		if err != nil {
			t.Fatalf("DefineEntryPoint() error = %v", err)
		}
		if !ir.TypesEqual(got, tt.want) {
			t.Errorf("%d-D index type = %s, want %s", tt.wg.Dims, ir.TypeName(got), ir.TypeName(tt.want))
		}
	}
}

func TestErrorFormat(t *testing.T) {
	err := NewError(ErrScopeViolation, "handle used outside its block")
	if got, want := err.Error(), "shade ScopeViolation: handle used outside its block"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !err.IsScopeViolation() || err.IsTypeMismatch() {
		t.Error("kind predicates disagree with Kind")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Error("errors.Is matched a different kind")
	}
	if !strings.Contains(ErrorKind(200).String(), "Unknown") {
		t.Errorf("unknown kind String() = %q", ErrorKind(200).String())
	}
}
