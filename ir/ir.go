package ir

// Identifier is a name used as a key throughout the IR.
// Identifiers compare and hash by content.
type Identifier string

// String returns the identifier's name.
func (i Identifier) String() string {
	return string(i)
}

// Module represents a shader module in IR form.
type Module struct {
	// Types holds every struct type reachable from the module,
	// ordered so that no struct precedes a struct it contains.
	Types []*StructType

	// Uniforms is the user uniform struct, or nil.
	Uniforms *StructType

	// UniformSlot is where the synthesized uniform block is bound.
	// Only meaningful when HasUniformBlock reports true.
	UniformSlot Slot

	// Bindings holds buffer bindings in declaration order.
	Bindings []BufferBinding

	// Constants holds module-scope constants.
	Constants []Constant

	// Functions holds helper functions in definition order.
	Functions []Function

	// EntryPoints holds compute entry points in definition order.
	EntryPoints []EntryPoint
}

// HasUniformBlock reports whether the generator must synthesize the
// uniform wrapper struct and its binding.
func (m *Module) HasUniformBlock() bool {
	return m.Uniforms != nil || len(m.Bindings) > 0
}

// Slot addresses a resource by bind group and binding index.
type Slot struct {
	Group uint32
	Index uint32
}

// MemorySpace is the address space of a buffer binding.
type MemorySpace uint8

const (
	SpaceStorage MemorySpace = iota
	SpaceUniform
)

// String returns the WGSL address space keyword.
func (s MemorySpace) String() string {
	switch s {
	case SpaceStorage:
		return "storage"
	case SpaceUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// Disposition is the declared access mode of a buffer binding.
type Disposition uint8

const (
	DispositionRead Disposition = iota
	DispositionWrite
	DispositionReadWrite
)

// String returns the disposition name.
func (d Disposition) String() string {
	switch d {
	case DispositionRead:
		return "read"
	case DispositionWrite:
		return "write"
	case DispositionReadWrite:
		return "read_write"
	default:
		return "unknown"
	}
}

// CanRead reports whether shader code may read the binding.
func (d Disposition) CanRead() bool {
	return d == DispositionRead || d == DispositionReadWrite
}

// CanWrite reports whether shader code may write the binding.
func (d Disposition) CanWrite() bool {
	return d == DispositionWrite || d == DispositionReadWrite
}

// BufferBinding represents a shader-visible buffer resource.
type BufferBinding struct {
	Name        Identifier
	Space       MemorySpace
	Disposition Disposition
	Group       uint32
	Index       uint32
	Element     DataType

	// Singleton bindings hold one Element instead of a runtime-sized array.
	Singleton bool
}

// Slot returns the binding's (group, index) pair.
func (b *BufferBinding) Slot() Slot {
	return Slot{Group: b.Group, Index: b.Index}
}

// Constant represents a module-scope constant.
type Constant struct {
	Name  Identifier
	Value LiteralValue
}

// Function represents a helper function definition.
type Function struct {
	Name     Identifier
	ArgNames []Identifier
	ArgTypes []DataType
	Result   DataType // nil for functions returning nothing
	Body     Block
}

// Dims is the dimensionality of a compute dispatch.
type Dims uint8

const (
	Dims1D Dims = 1
	Dims2D Dims = 2
	Dims3D Dims = 3
)

// Workgroup describes how many invocations an entry point dispatches
// over. Size entries beyond Dims are ignored.
type Workgroup struct {
	Dims Dims
	Size [3]uint32
}

// IndexType returns the type of the dispatch index for this workgroup.
func (w Workgroup) IndexType() BuiltinType {
	switch w.Dims {
	case Dims2D:
		return Vec2U32
	case Dims3D:
		return Vec3U32
	default:
		return U32
	}
}

// Extent returns the size in all three dimensions, padding with 1.
func (w Workgroup) Extent() [3]uint32 {
	ext := [3]uint32{1, 1, 1}
	for i := 0; i < int(w.Dims) && i < 3; i++ {
		ext[i] = w.Size[i]
	}
	return ext
}

// EntryPoint represents a compute shader entry point.
type EntryPoint struct {
	Name      Identifier
	Workgroup Workgroup
	Body      Block
}

// Names synthesized by the generator. User declarations may not use them.
const (
	UniformBlockTypeName  Identifier = "UniformBlock"
	BufferLengthsTypeName Identifier = "BufferLengths"
	UniformBlockVarName   Identifier = "uniforms"
	UniformUserField      Identifier = "user"
	BufferLengthsField    Identifier = "buffer_lengths"
	DispatchIndexName     Identifier = "global_id"
)
