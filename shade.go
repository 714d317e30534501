// Package shade builds WGSL compute shaders from typed Go code.
//
// A shader is described by a define function that declares buffers,
// constants, helper functions and entry points on a builder. The builder
// checks types, names, bindings and handle scopes as the program is
// built; the finished module is rendered to WGSL by the wgsl package.
//
// Example usage:
//
//	source, err := shade.Compile(func(s *builder.ShaderBuilder) error {
//	    data, err := builder.Buffer[uint32](s, "data", 0, 0, ir.DispositionReadWrite)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = s.DefineEntryPoint("main", builder.Workgroup1D(64), func(b *builder.Block, id builder.Expr) error {
//	        return b.Assign(data.Element(id), id.Add(builder.Lit(uint32(1))))
//	    })
//	    return err
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For device integration, use the gpu package; for buffer layouts and
// binding manifests, use the layout package.
package shade

import (
	"fmt"

	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/wgsl"
)

// DefineFunc populates a shader builder.
type DefineFunc func(s *builder.ShaderBuilder) error

// Define runs define against a new builder and returns the finished
// module.
func Define(define DefineFunc, opts ...builder.Option) (*ir.Module, error) {
	if define == nil {
		return nil, fmt.Errorf("shade: nil define function")
	}
	s := builder.NewShader(opts...)
	if err := define(s); err != nil {
		return nil, err
	}
	return s.Finish()
}

// Validate validates a module.
//
// Returns a slice of validation errors. If the slice is empty, validation passed.
func Validate(module *ir.Module) ([]ir.ValidationError, error) {
	return ir.Validate(module)
}

// Generate renders a module to WGSL with default options.
func Generate(module *ir.Module) (string, error) {
	return GenerateWithOptions(module, wgsl.DefaultOptions())
}

// GenerateWithOptions renders a module to WGSL.
func GenerateWithOptions(module *ir.Module, opts wgsl.Options) (string, error) {
	return wgsl.Compile(module, opts)
}

// Compile defines a shader and renders it to WGSL.
//
// The compilation pipeline is:
//  1. Build the module with define
//  2. Finish the builder (collects struct types, places the uniform block)
//  3. Validate the module
//  4. Generate WGSL
func Compile(define DefineFunc, opts ...builder.Option) (string, error) {
	module, err := Define(define, opts...)
	if err != nil {
		return "", fmt.Errorf("build error: %w", err)
	}
	source, err := Generate(module)
	if err != nil {
		return "", fmt.Errorf("generation error: %w", err)
	}
	return source, nil
}
