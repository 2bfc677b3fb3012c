package searching

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

func target(v float64) *float64 { return &v }

func run(t *testing.T, d algorithm.Descriptor, in algorithm.ArrayInput, params map[string]any) trace.Snapshot {
	t.Helper()
	tl, err := trace.NewMaterializer().Run(t.Context(), d, in, params)
	if err != nil {
		t.Fatal(err)
	}
	return tl.Last()
}

func TestTwoSum_FindsPair(t *testing.T) {
	last := run(t, TwoSum(), algorithm.ArrayInput{Values: []float64{2, 7, 11, 15}, Target: target(9)}, nil)
	if diff := cmp.Diff(event.Indices{0, 1}, last.Result); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
	table, ok := last.Aux.(event.HashTableView)
	if !ok || len(table.Entries) != 1 || table.Entries[0].Key != "2" {
		t.Fatalf("aux=%#v", last.Aux)
	}
}

func TestTwoSum_NoPair(t *testing.T) {
	last := run(t, TwoSum(), algorithm.ArrayInput{Values: []float64{1, 2}, Target: target(10)}, nil)
	if _, ok := last.Result.(event.NotFound); !ok {
		t.Fatalf("result=%#v", last.Result)
	}
}

func TestBinarySearch(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		target float64
		want   event.ResultValue
	}{
		{"found", []float64{1, 3, 5, 7, 9, 11}, 7, event.Indices{3}},
		{"first", []float64{1, 3, 5}, 1, event.Indices{0}},
		{"unsorted input", []float64{9, 1, 5}, 9, event.Indices{2}},
		{"missing", []float64{1, 3, 5}, 4, event.NotFound{Reason: "target 4 is not in the array"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := run(t, BinarySearch(), algorithm.ArrayInput{Values: tc.values, Target: target(tc.target)}, nil)
			if diff := cmp.Diff(tc.want, last.Result); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearch_RequiresTarget(t *testing.T) {
	for _, d := range []algorithm.Descriptor{BinarySearch(), LinearSearch(), TwoSum()} {
		if v := d.Validate(algorithm.ArrayInput{Values: []float64{1, 2}}); v.OK {
			t.Fatalf("%s accepted input without target", d.ID)
		}
	}
}

func TestLinearSearch(t *testing.T) {
	last := run(t, LinearSearch(), algorithm.ArrayInput{Values: []float64{4, 8, 15, 16}, Target: target(15)}, nil)
	if diff := cmp.Diff(event.Indices{2}, last.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if last.Metrics.Comparisons != 3 {
		t.Fatalf("comparisons=%d", last.Metrics.Comparisons)
	}
}

func TestSlidingWindow(t *testing.T) {
	last := run(t, SlidingWindow(), algorithm.ArrayInput{Values: []float64{2, 1, 5, 1, 3, 2}}, map[string]any{"k": 3})
	if last.Result != event.Number(9) {
		t.Fatalf("result=%v", last.Result)
	}
	for _, i := range []int{2, 3, 4} {
		if !last.HasTag(i, event.TagFound) {
			t.Fatalf("index %d not in best window: %v", i, last.Marks)
		}
	}
	if last.Metrics.Counters["window_moves"] != 3 {
		t.Fatalf("counters=%v", last.Metrics.Counters)
	}
	tooWide := run(t, SlidingWindow(), algorithm.ArrayInput{Values: []float64{1, 2}}, map[string]any{"k": 5})
	if _, ok := tooWide.Result.(event.NotFound); !ok {
		t.Fatalf("result=%#v", tooWide.Result)
	}
}
