// Package ir defines the intermediate representation for shade.
//
// The IR describes a single compute shader module:
//   - Types: builtin scalars and vectors plus named structs
//   - Bindings: storage and uniform buffers addressed by (group, index)
//   - Constants: module-scope literal values
//   - Functions: helper functions, ordered so callees precede callers
//   - EntryPoints: compute entry points with a workgroup size
//
// # Typing
//
// Every Expression reports its own DataType. Operator results come from
// a fixed table keyed by (operator, left type, right type), so the type
// of any node is known the moment it is built.
//
// # Pipeline
//
//	builder → ir.Module → ir.Validate → wgsl.Compile
//
// CollectTypes walks a module and returns the struct types it reaches in
// dependency order, which is the order the generator declares them.
package ir
