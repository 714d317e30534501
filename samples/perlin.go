// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package samples

import (
	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/ir"
)

// PerlinUniforms are the host parameters of the perlin sample.
type PerlinUniforms struct {
	Dims [2]uint32
}

func (PerlinUniforms) StructName() string { return "Uniforms" }

func (PerlinUniforms) VisitFields(v *builder.FieldVisitor) {
	builder.Field(v, "dims", func(u *PerlinUniforms) [2]uint32 { return u.Dims }, func(u *PerlinUniforms, d [2]uint32) { u.Dims = d })
}

// xxhash32 primes.
const (
	xxhashPrime1 uint32 = 0x9E3779B1
	xxhashPrime2 uint32 = 0x85EBCA77
	xxhashPrime3 uint32 = 0xC2B2AE3D
)

func init() {
	register(Sample{
		Name:        "perlin",
		Description: "xxhash32 lattice hashing for perlin noise",
		Options:     []builder.Option{builder.WithUniformsOf[PerlinUniforms]()},
		Define:      definePerlin,
	})
}

func definePerlin(s *builder.ShaderBuilder) error {
	vec4u := ir.Vec4U32
	u32 := func(v uint32) builder.Expr { return builder.Lit(v) }

	// rot_left(val, rot) rotates each lane of val left by rot bits.
	rotLeft, err := s.DefineFunction("rot_left",
		[]builder.Parameter{builder.Param[[4]uint32]("val"), builder.Param[[4]uint32]("rot")},
		vec4u,
		func(b *builder.Block, args []builder.Expr) error {
			val, rot := args[0], args[1]
			return b.Return(val.Shl(rot).Or(val.Shr(u32(32).Sub(rot))))
		})
	if err != nil {
		return err
	}

	prime1, err := builder.Const(s, "XXHASH_PRIME_1", xxhashPrime1)
	if err != nil {
		return err
	}
	prime2, err := builder.Const(s, "XXHASH_PRIME_2", xxhashPrime2)
	if err != nil {
		return err
	}
	prime3, err := builder.Const(s, "XXHASH_PRIME_3", xxhashPrime3)
	if err != nil {
		return err
	}

	xxhash, err := s.DefineFunction("xxhash32",
		[]builder.Parameter{builder.Param[uint32]("seed"), builder.Param[[4]uint32]("values")},
		vec4u,
		func(b *builder.Block, args []builder.Expr) error {
			seed, values := args[0], args[1]
			state, err := b.Let("state", builder.Vec(vec4u,
				seed.Add(prime1.Read()).Add(prime2.Read()),
				seed.Add(prime2.Read()),
				seed,
				seed.Sub(prime1.Read()),
			))
			if err != nil {
				return err
			}
			preRotate, err := b.Let("pre_rotate", state.Read().Add(values).Mul(prime2.Read()))
			if err != nil {
				return err
			}
			newState, err := b.Let("new_state", rotLeft.Call(
				rotLeft.Call(preRotate.Read(), builder.Vec(vec4u, u32(13))).Mul(prime1.Read()),
				builder.Vec(vec4u, u32(1), u32(7), u32(12), u32(18)),
			))
			if err != nil {
				return err
			}
			return b.Return(newState.Read().Xor(newState.Read().Shr(builder.Vec(vec4u, u32(15)))).Mul(prime3.Read()))
		})
	if err != nil {
		return err
	}

	hashes, err := builder.Buffer[[4]uint32](s, "hashes", 0, 0, ir.DispositionWrite)
	if err != nil {
		return err
	}
	_, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, idx builder.Expr) error {
		dims := builder.FieldAs[[2]uint32](s.Uniforms(), "dims")
		return b.If(idx.Lt(hashes.Len()), func(b *builder.Block) error {
			return b.Assign(hashes.Element(idx), xxhash.Call(idx, builder.Vec(vec4u, dims, idx, u32(0))))
		})
	})
	return err
}
