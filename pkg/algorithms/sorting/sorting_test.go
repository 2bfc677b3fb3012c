package sorting

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

var inputs = [][]float64{
	{5, 2, 4},
	{1, 2},
	{3, 3, 1, 2, 3},
	{9, -4, 0, 12, 7, 7, 1, 30, -2, 5, 8, 6, 11, 4, 2, 3, 10, 15, 14, 13},
	{1, 2, 3, 4, 5, 6},
}

func TestSortsProduceSortedTimelines(t *testing.T) {
	m := trace.NewMaterializer()
	for _, d := range Descriptors() {
		for _, values := range inputs {
			t.Run(d.ID, func(t *testing.T) {
				tl, err := m.Run(t.Context(), d, algorithm.ArrayInput{Values: values}, nil)
				if err != nil {
					t.Fatal(err)
				}
				want := slices.Sorted(slices.Values(values))
				last := tl.Last()
				if diff := cmp.Diff(want, last.Values); diff != "" {
					t.Fatalf("final values (-want +got):\n%s", diff)
				}
				if last.Result != event.Text(algorithm.FormatValues(want)) {
					t.Fatalf("result=%v", last.Result)
				}
				for i := range values {
					if !last.HasTag(i, event.TagSorted) {
						t.Fatalf("index %d not marked sorted", i)
					}
				}
				for i := 0; i < tl.Len(); i++ {
					s, _ := tl.At(i)
					for _, l := range s.Lines {
						if l >= len(d.Pseudocode) {
							t.Fatalf("highlight line %d outside pseudocode", l)
						}
					}
				}
			})
		}
	}
}

func TestBubble_SmallArray(t *testing.T) {
	tl, err := trace.NewMaterializer().Run(t.Context(), Bubble(), algorithm.ArrayInput{Values: []float64{5, 2, 4}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	last := tl.Last()
	if last.Metrics.Comparisons != 3 || last.Metrics.Swaps != 2 {
		t.Fatalf("metrics=%+v", last.Metrics)
	}
}

func TestValidate_Caps(t *testing.T) {
	for _, d := range Descriptors() {
		if v := d.Validate(algorithm.ArrayInput{Values: []float64{1}}); v.OK {
			t.Fatalf("%s accepted a single value", d.ID)
		}
		if v := d.Validate(algorithm.ArrayInput{Values: make([]float64, 21)}); v.OK {
			t.Fatalf("%s accepted 21 values", d.ID)
		}
		if v := d.Validate(algorithm.ArrayInput{Values: []float64{1, 5000}}); v.OK {
			t.Fatalf("%s accepted an out of range value", d.ID)
		}
	}
}

func TestHeap_EmitsHeapView(t *testing.T) {
	tl, err := trace.NewMaterializer().Run(t.Context(), Heap(), algorithm.ArrayInput{Values: []float64{4, 10, 3, 5, 1}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var sawHeap bool
	for _, e := range tl.Events() {
		if aux, ok := e.(event.Auxiliary); ok {
			if _, ok := aux.Aux.(event.HeapView); ok {
				sawHeap = true
			}
		}
	}
	if !sawHeap {
		t.Fatal("no heap view emitted")
	}
}
