// Package wgsl renders shade IR modules as WGSL (WebGPU Shading Language)
// compute shaders.
//
// # Usage
//
//	source, err := wgsl.Compile(module, wgsl.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Output
//
// The generated module is laid out in a fixed order, one blank line
// between top-level items:
//
//   - Struct definitions, dependency ordered
//   - BufferLengths and UniformBlock, when the module has bindings or
//     user uniforms
//   - Buffer bindings followed by the uniform block binding
//   - Module constants
//   - Helper functions, in definition order
//   - Compute entry points
//
// Compound expressions are fully parenthesized. Output depends only on
// the module and the options, so identical inputs produce byte-identical
// text.
//
// # WGSL Specification
//
// https://www.w3.org/TR/WGSL/
package wgsl
