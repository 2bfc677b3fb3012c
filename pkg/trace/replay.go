package trace

import (
	"encoding/json"
	"fmt"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

// Capture is a recorded run: what was asked for and every event the producer emitted.
type Capture struct {
	AlgorithmID string              `json:"algorithm"`
	InputKind   algorithm.InputKind `json:"input_kind,omitempty"`
	Input       algorithm.Input     `json:"-"`
	Params      algorithm.Params    `json:"params,omitempty"`
	Events      []event.Event       `json:"-"`
}

type captureWire struct {
	AlgorithmID string              `json:"algorithm"`
	InputKind   algorithm.InputKind `json:"input_kind,omitempty"`
	Input       json.RawMessage     `json:"input,omitempty"`
	Params      algorithm.Params    `json:"params,omitempty"`
	Events      event.List          `json:"events"`
}

// CaptureOf records a materialized timeline.
func CaptureOf(t *Timeline) Capture {
	c := Capture{AlgorithmID: t.algorithmID, Input: t.input, Params: t.params, Events: t.Events()}
	if t.input != nil {
		c.InputKind = t.input.InputKind()
	}
	return c
}

// Replay folds events from initial and returns one snapshot per event. It does not depend on
// the materializer, so Replay(tl.Initial(), tl.Events()) must reproduce tl.Snapshots().
func Replay(initial Snapshot, events []event.Event) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(events))
	acc := initial
	for i, e := range events {
		if err := event.Validate(e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		acc = Fold(acc, e)
		out = append(out, acc)
	}
	return out, nil
}

// Timeline rebuilds the captured run as a fresh timeline.
func (c Capture) Timeline() (*Timeline, error) {
	initial := Initial(c.Input)
	snaps, err := Replay(initial, c.Events)
	if err != nil {
		return nil, err
	}
	tl := newTimeline(c.AlgorithmID, initial, snaps, append([]event.Event(nil), c.Events...))
	tl.input = c.Input
	tl.params = c.Params
	return tl, nil
}

// ExportJSON encodes the capture with events in their wire shape.
func ExportJSON(c Capture) ([]byte, error) {
	w := captureWire{AlgorithmID: c.AlgorithmID, InputKind: c.InputKind, Params: c.Params, Events: event.List(c.Events)}
	if w.Events == nil {
		w.Events = event.List{}
	}
	if c.Input != nil {
		raw, err := json.Marshal(c.Input)
		if err != nil {
			return nil, fmt.Errorf("capture input: %w", err)
		}
		w.Input = raw
		w.InputKind = c.Input.InputKind()
	}
	return json.MarshalIndent(w, "", "  ")
}

// ImportJSON decodes a capture written by ExportJSON.
func ImportJSON(data []byte) (Capture, error) {
	var w captureWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Capture{}, fmt.Errorf("capture: %w", err)
	}
	c := Capture{AlgorithmID: w.AlgorithmID, InputKind: w.InputKind, Params: w.Params, Events: []event.Event(w.Events)}
	if len(w.Input) > 0 && w.InputKind != "" {
		in, err := algorithm.DecodeInput(w.InputKind, w.Input)
		if err != nil {
			return Capture{}, fmt.Errorf("capture input: %w", err)
		}
		c.Input = in
	}
	return c, nil
}
