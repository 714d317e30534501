package shade

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/shade/builder"
	"github.com/gogpu/shade/ir"
	"github.com/gogpu/shade/samples"
)

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

// TestCompile tests the full define, finish, generate pipeline.
func TestCompile(t *testing.T) {
	source, err := Compile(defineIncrement)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(source, "data[global_id.x] = (global_id.x + 1u);") {
		t.Errorf("unexpected output:\n%s", source)
	}
}

// TestCompileMatchesSample checks that the facade and the sample registry
// agree on the same program.
func TestCompileMatchesSample(t *testing.T) {
	viaFacade, err := Compile(defineIncrement)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	s, ok := samples.Lookup("increment")
	if !ok {
		t.Fatal("increment sample not registered")
	}
	m, err := s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	viaSample, err := Generate(m)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if viaFacade != viaSample {
		t.Errorf("facade and sample output differ\n--- facade ---\n%s\n--- sample ---\n%s", viaFacade, viaSample)
	}
}

func TestDefine(t *testing.T) {
	m, err := Define(defineIncrement)
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	errs, err := Validate(m)
	if err != nil || len(errs) != 0 {
		t.Errorf("Validate() = %v, %v", errs, err)
	}
	if len(m.Bindings) != 1 || len(m.EntryPoints) != 1 {
		t.Errorf("module has %d bindings and %d entry points", len(m.Bindings), len(m.EntryPoints))
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Define(nil); err == nil {
		t.Error("Define(nil) succeeded")
	}

	_, err := Compile(func(s *builder.ShaderBuilder) error {
		if _, err := builder.Buffer[uint32](s, "a", 0, 0, ir.DispositionRead); err != nil {
			return err
		}
		_, err := builder.Buffer[uint32](s, "b", 0, 0, ir.DispositionRead)
		return err
	})
	if !errors.Is(err, builder.ErrBindingCollision) {
		t.Errorf("Compile() error = %v, want BindingCollision", err)
	}

	_, err = Compile(func(s *builder.ShaderBuilder) error { return nil })
	if !errors.Is(err, builder.ErrInvalidModule) {
		t.Errorf("Compile() without entry points = %v, want InvalidModule", err)
	}

	if _, err := Generate(nil); err == nil {
		t.Error("Generate(nil) succeeded")
	}
}
