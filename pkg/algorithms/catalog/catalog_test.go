package catalog

import (
	"testing"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/trace"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != len(Descriptors()) {
		t.Fatalf("registry has %d of %d descriptors", reg.Len(), len(Descriptors()))
	}
	want := []string{"dynamic-programming", "graph", "greedy", "searching", "sorting"}
	got := reg.Categories()
	if len(got) != len(want) {
		t.Fatalf("categories=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories=%v", got)
		}
	}
	if _, err := Default(Descriptors()[0]); err == nil {
		t.Fatal("duplicate extra descriptor accepted")
	}
}

func TestEveryDescriptorRunsOnItsSample(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	m := trace.NewMaterializer()
	for _, d := range reg.List() {
		t.Run(d.ID, func(t *testing.T) {
			in := Sample(d)
			if v := d.Validate(in); !v.OK {
				t.Fatalf("sample rejected: %s", v.Error)
			}
			if schema := d.ParamSchema(); len(schema) > 0 {
				if err := algorithm.CompileJSONSchema(schema); err != nil {
					t.Fatalf("param schema: %v", err)
				}
			}
			tl, err := m.Run(t.Context(), d, in, nil)
			if err != nil {
				t.Fatal(err)
			}
			last := tl.Last()
			if !last.Done || last.Result == nil {
				t.Fatalf("run ended without a result after %d steps", tl.Len())
			}
			for i := 0; i < tl.Len(); i++ {
				s, _ := tl.At(i)
				for _, l := range s.Lines {
					if l >= len(d.Pseudocode) {
						t.Fatalf("step %d highlights line %d of %d", i, l, len(d.Pseudocode))
					}
				}
			}
		})
	}
}
