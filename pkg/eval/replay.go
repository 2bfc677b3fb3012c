package eval

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

// ReplayCapture runs the captured algorithm again on the captured input and parameters and
// returns the fresh timeline. It fails with capture_mismatch when the new run emits a
// different event stream, which flags a nondeterministic or changed algorithm.
func ReplayCapture(ctx context.Context, reg *algorithm.Registry, m *trace.Materializer, c trace.Capture) (*trace.Timeline, error) {
	d, ok := reg.Lookup(c.AlgorithmID)
	if !ok {
		return nil, errmodel.Validation("unknown_algorithm", fmt.Sprintf("unknown algorithm %q", c.AlgorithmID), nil)
	}
	if c.Input == nil {
		return nil, errmodel.Validation("invalid_input", "capture has no input", map[string]any{"algorithm": c.AlgorithmID})
	}
	tl, err := m.Run(ctx, d, c.Input, c.Params)
	if err != nil {
		return nil, err
	}
	got := tl.Events()
	for i := range max(len(got), len(c.Events)) {
		if i >= len(got) || i >= len(c.Events) {
			return nil, mismatch(c.AlgorithmID, i, fmt.Sprintf("replay emitted %d events, capture has %d", len(got), len(c.Events)))
		}
		a, err := event.Marshal(c.Events[i])
		if err != nil {
			return nil, err
		}
		b, err := event.Marshal(got[i])
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(a, b) {
			return nil, mismatch(c.AlgorithmID, i, fmt.Sprintf("captured %s, replayed %s", a, b))
		}
	}
	return tl, nil
}

func mismatch(id string, step int, msg string) error {
	return errmodel.New(errmodel.CategoryProducer, "capture_mismatch", fmt.Sprintf("step %d: %s", step, msg),
		map[string]any{"algorithm": id, "step": step})
}
