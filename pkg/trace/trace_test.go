package trace

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
)

// bubble is a minimal compare/swap sort used to drive the materializer.
var bubble = algorithm.Descriptor{
	ID:         "bubble-test",
	Name:       "Bubble",
	Category:   "sorting",
	Difficulty: algorithm.Easy,
	InputKind:  algorithm.InputArray,
	Validate: algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
		if len(in.Values) > 20 {
			return algorithm.Invalid("at most 20 values")
		}
		return algorithm.Valid()
	}),
	Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
		a := append([]float64(nil), in.Values...)
		for end := len(a) - 1; end > 0; end-- {
			for j := 0; j < end; j++ {
				em.Highlight(2)
				em.Compare(j, j+1)
				if a[j] > a[j+1] {
					a[j], a[j+1] = a[j+1], a[j]
					em.Swap(j, j+1)
				}
			}
			em.Mark(event.TagSorted, end)
		}
		em.Mark(event.TagSorted, 0)
		em.Message(event.LevelSuccess, "sorted %s", algorithm.FormatValues(a))
		em.Result(event.Text("sorted"))
	}),
}

var equateEmpty = cmpopts.EquateEmpty()

func materialize(t *testing.T, values ...float64) *Timeline {
	t.Helper()
	tl, err := NewMaterializer().Run(t.Context(), bubble, algorithm.ArrayInput{Values: values}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestMaterialize_SortsSmallArray(t *testing.T) {
	tl := materialize(t, 5, 2, 4)
	if tl.Len() < 3 {
		t.Fatalf("len=%d", tl.Len())
	}
	last := tl.Last()
	if diff := cmp.Diff([]float64{2, 4, 5}, last.Values); diff != "" {
		t.Fatalf("final values (-want +got):\n%s", diff)
	}
	if last.Metrics.Comparisons != 3 || last.Metrics.Swaps < 1 {
		t.Fatalf("metrics=%+v", last.Metrics)
	}
	if !last.Done || last.Result != event.Text("sorted") {
		t.Fatalf("result=%v done=%v", last.Result, last.Done)
	}
	if init, ok := tl.At(-1); !ok || init.Step != -1 || init.Values[0] != 5 {
		t.Fatalf("initial=%+v", init)
	}
	if _, ok := tl.At(tl.Len()); ok {
		t.Fatal("At past the end must report !ok")
	}
}

func TestMaterialize_Deterministic(t *testing.T) {
	a := materialize(t, 9, 3, 7, 1, 8)
	b := materialize(t, 9, 3, 7, 1, 8)
	if a.ID() == b.ID() {
		t.Fatal("each materialization gets its own id")
	}
	if diff := cmp.Diff(a.Snapshots(), b.Snapshots()); diff != "" {
		t.Fatalf("timelines differ (-a +b):\n%s", diff)
	}
}

func TestMaterialize_MetricsMonotonic(t *testing.T) {
	tl := materialize(t, 4, 3, 2, 1)
	prev := tl.Initial()
	for i := 0; i < tl.Len(); i++ {
		s, _ := tl.At(i)
		if !prev.Metrics.LE(s.Metrics) {
			t.Fatalf("metrics decreased at %d: %+v -> %+v", i, prev.Metrics, s.Metrics)
		}
		prev = s
	}
}

func TestReplay_ReproducesTimeline(t *testing.T) {
	tl := materialize(t, 3, 1, 2)
	snaps, err := Replay(tl.Initial(), tl.Events())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tl.Snapshots(), snaps); diff != "" {
		t.Fatalf("replay differs (-materialized +replayed):\n%s", diff)
	}
	// every prefix folds to the recorded snapshot
	events := tl.Events()
	for i := range events {
		prefix, err := Replay(tl.Initial(), events[:i+1])
		if err != nil {
			t.Fatal(err)
		}
		want, _ := tl.At(i)
		if diff := cmp.Diff(want, prefix[i]); diff != "" {
			t.Fatalf("prefix %d differs:\n%s", i, diff)
		}
	}
}

func TestMaterialize_Failures(t *testing.T) {
	cases := []struct {
		name string
		m    *Materializer
		p    func() algorithm.Producer
		code string
	}{
		{
			name: "panic",
			m:    NewMaterializer(),
			p: func() algorithm.Producer {
				return algorithm.FromSeq(func(yield func(event.Event) bool) {
					yield(event.Compare{I: 0, J: 1})
					panic("index out of range")
				})
			},
			code: "producer_failed",
		},
		{
			name: "hand written panic",
			m:    NewMaterializer(),
			p: func() algorithm.Producer {
				return algorithm.FrameFunc(func() (event.Event, bool, error) { panic("boom") })
			},
			code: "producer_failed",
		},
		{
			name: "event cap",
			m:    NewMaterializer(WithMaxEvents(2)),
			p: func() algorithm.Producer {
				return algorithm.Slice(event.Compare{}, event.Compare{}, event.Compare{})
			},
			code: "event_limit",
		},
		{
			name: "invalid event",
			m:    NewMaterializer(),
			p: func() algorithm.Producer {
				return algorithm.Slice(event.Mark{Indices: []int{0}})
			},
			code: "invalid_event",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tl, err := tc.m.Materialize(t.Context(), "x", Snapshot{Step: -1}, tc.p())
			if tl != nil {
				t.Fatal("partial timeline must be discarded")
			}
			if !errmodel.IsCategory(err, errmodel.CategoryProducer) || !errmodel.HasCode(err, tc.code) {
				t.Fatalf("err=%v want %s", err, tc.code)
			}
		})
	}
}

func TestMaterialize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewMaterializer().Materialize(ctx, "x", Snapshot{Step: -1}, algorithm.Slice(event.Compare{}))
	if !errmodel.HasCode(err, "canceled") {
		t.Fatalf("err=%v", err)
	}
}

func TestRun_ValidationError(t *testing.T) {
	values := make([]float64, 21)
	_, err := NewMaterializer().Run(t.Context(), bubble, algorithm.ArrayInput{Values: values}, nil)
	if !errmodel.IsCategory(err, errmodel.CategoryValidation) {
		t.Fatalf("err=%v", err)
	}
	_, err = NewMaterializer().Run(t.Context(), bubble, algorithm.ArrayInput{Values: values[:3]}, map[string]any{"nope": 1})
	if !errmodel.HasCode(err, "unknown_parameter") {
		t.Fatalf("err=%v", err)
	}
}

func TestFold_Semantics(t *testing.T) {
	s := Initial(algorithm.ArrayInput{Values: []float64{1, 2}})
	s1 := Fold(s, event.Set{Index: 4, Value: 9})
	if diff := cmp.Diff([]float64{1, 2, 0, 0, 9}, s1.Values); diff != "" {
		t.Fatalf("set past end (-want +got):\n%s", diff)
	}
	if len(s.Values) != 2 {
		t.Fatal("fold mutated its input")
	}
	s2 := Fold(Fold(s1, event.Mark{Indices: []int{0, 1}, Tag: "window"}), event.Mark{Indices: []int{0}, Tag: "current"})
	if diff := cmp.Diff([]string{"current", "window"}, s2.Tags(0)); diff != "" {
		t.Fatalf("tags sorted (-want +got):\n%s", diff)
	}
	s3 := Fold(s2, event.Unmark{Indices: []int{0}})
	if len(s3.Tags(0)) != 0 || !s3.HasTag(1, "window") || !s2.HasTag(0, "current") {
		t.Fatalf("unmark all: %v / %v", s3.Marks, s2.Marks)
	}
	s4 := Fold(s3, event.Swap{I: 0, J: 7})
	if s4.Metrics.Swaps != 1 || s4.Values[0] != 1 {
		t.Fatalf("out of range swap: %+v", s4)
	}
	done := Fold(s4, event.Result{Value: event.Number(1)})
	after := Fold(done, event.Message{Text: "late", Level: event.LevelInfo})
	if !after.Done || after.Message.Text != "late" || after.Step != done.Step+1 {
		t.Fatalf("events after result keep folding: %+v", after)
	}
	m := Fold(after, event.Metric{Name: "visits", Delta: 2})
	if m.Metrics.Counters["visits"] != 2 || after.Metrics.Counters["visits"] != 0 {
		t.Fatalf("counters: %+v", m.Metrics)
	}
}

func TestCapture_ExportImport(t *testing.T) {
	tl := materialize(t, 6, 1, 3)
	data, err := ExportJSON(CaptureOf(tl))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type": "compare"`) {
		t.Fatalf("export lacks wire shape: %s", data)
	}
	c, err := ImportJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.AlgorithmID != bubble.ID || c.InputKind != algorithm.InputArray {
		t.Fatalf("capture=%+v", c)
	}
	rebuilt, err := c.Timeline()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tl.Snapshots(), rebuilt.Snapshots(), equateEmpty); diff != "" {
		t.Fatalf("rebuilt timeline differs:\n%s", diff)
	}
}

func TestDiff(t *testing.T) {
	a := Initial(algorithm.ArrayInput{Values: []float64{5, 2}})
	b := Fold(Fold(a, event.Swap{I: 0, J: 1}), event.Mark{Indices: []int{1}, Tag: "sorted"})
	var got []string
	for _, c := range Diff(a, b) {
		got = append(got, c.String())
	}
	want := []string{"values[0]: 5 -> 2", "values[1]: 2 -> 5", "marks[1]: - -> sorted", "swaps: 0 -> 1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if Diff(b, b) != nil {
		t.Fatal("equal snapshots must not differ")
	}
}

func TestMaterialize_CountsTimelinesAndFailures(t *testing.T) {
	timelines := testutil.ToFloat64(timelinesTotal.WithLabelValues(bubble.ID))
	folded := testutil.ToFloat64(eventsFolded)
	limits := testutil.ToFloat64(materializeFailures.WithLabelValues("event_limit"))

	tl := materialize(t, 2, 1)
	_, err := NewMaterializer(WithMaxEvents(1)).Materialize(t.Context(), "x", Snapshot{Step: -1}, algorithm.Slice(event.Compare{}, event.Compare{}))
	if !errmodel.HasCode(err, "event_limit") {
		t.Fatalf("err=%v", err)
	}

	if got := testutil.ToFloat64(timelinesTotal.WithLabelValues(bubble.ID)) - timelines; got != 1 {
		t.Fatalf("timelines grew by %v", got)
	}
	if got := testutil.ToFloat64(eventsFolded) - folded; got != float64(tl.Len()) {
		t.Fatalf("folded grew by %v, want %d", got, tl.Len())
	}
	if got := testutil.ToFloat64(materializeFailures.WithLabelValues("event_limit")) - limits; got != 1 {
		t.Fatalf("event_limit failures grew by %v", got)
	}
}
