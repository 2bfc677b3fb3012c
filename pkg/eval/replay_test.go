package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/algorithms/catalog"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

func TestReplayCapture(t *testing.T) {
	reg, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	m := trace.NewMaterializer()
	d, _ := reg.Lookup("meeting-rooms")
	tl, err := m.Run(t.Context(), d, algorithm.ArrayInput{Values: []float64{3, 1, 4, 1, 5}}, map[string]any{"seed": 42})
	if err != nil {
		t.Fatal(err)
	}
	data, err := trace.ExportJSON(trace.CaptureOf(tl))
	if err != nil {
		t.Fatal(err)
	}
	c, err := trace.ImportJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	replayed, err := ReplayCapture(t.Context(), reg, m, c)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tl.Last().Values, replayed.Last().Values); diff != "" {
		t.Fatalf("(-captured +replayed):\n%s", diff)
	}

	c.Events = append(c.Events[:len(c.Events)-1:len(c.Events)-1], event.Message{Text: "edited", Level: event.LevelInfo})
	if _, err := ReplayCapture(t.Context(), reg, m, c); !errmodel.HasCode(err, "capture_mismatch") {
		t.Fatalf("err=%v", err)
	}
	c.Events = c.Events[:2]
	if _, err := ReplayCapture(t.Context(), reg, m, c); !errmodel.HasCode(err, "capture_mismatch") {
		t.Fatalf("err=%v", err)
	}
	c.AlgorithmID = "nope"
	if _, err := ReplayCapture(t.Context(), reg, m, c); !errmodel.HasCode(err, "unknown_algorithm") {
		t.Fatalf("err=%v", err)
	}
}
