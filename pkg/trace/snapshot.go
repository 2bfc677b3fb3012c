// Package trace turns event producers into immutable, randomly addressable timelines.
//
// A Snapshot is the visualization state after a prefix of events. Snapshots are built by
// Fold, a pure function: Timeline[i] == Fold(Timeline[i-1], Event[i]). The Materializer
// drives a producer eagerly and records one snapshot per event; Replay rebuilds the same
// snapshots from a recorded event list.
package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

// Metrics are the counters carried by a snapshot. They never decrease along a timeline.
type Metrics struct {
	Comparisons int            `json:"comparisons"`
	Swaps       int            `json:"swaps"`
	Writes      int            `json:"writes"`
	Counters    map[string]int `json:"counters,omitempty"`
}

// LE reports whether every counter of m is at most the same counter of o.
func (m Metrics) LE(o Metrics) bool {
	if m.Comparisons > o.Comparisons || m.Swaps > o.Swaps || m.Writes > o.Writes {
		return false
	}
	for k, v := range m.Counters {
		if v > o.Counters[k] {
			return false
		}
	}
	return true
}

// Snapshot is the visualization state after applying events [0..Step].
//
// Snapshots share backing storage with their predecessors where a field did not change;
// callers must treat every slice and map as read-only.
type Snapshot struct {
	// Step is the index of the event that produced this snapshot, -1 for the initial state.
	Step      int                 `json:"step"`
	Values    []float64           `json:"values"`
	Marks     map[int][]string    `json:"marks,omitempty"`
	Active    []int               `json:"active,omitempty"`
	Lines     []int               `json:"lines,omitempty"`
	Message   *event.Message      `json:"message,omitempty"`
	Metrics   Metrics             `json:"metrics"`
	Pointers  []event.PointerMark `json:"pointers,omitempty"`
	Variables []event.Variable    `json:"variables,omitempty"`
	Aux       event.Aux           `json:"-"`
	Result    event.ResultValue   `json:"-"`
	Done      bool                `json:"done"`
	Event     event.Event         `json:"-"`
}

// Initial returns the pre-run snapshot for an input. Array values are copied.
func Initial(in algorithm.Input) Snapshot {
	s := Snapshot{Step: -1, Values: []float64{}}
	if arr, ok := in.(algorithm.ArrayInput); ok {
		s.Values = slices.Clone(arr.Values)
	}
	return s
}

// Tags returns the sorted tags of index i.
func (s Snapshot) Tags(i int) []string { return s.Marks[i] }

// HasTag reports whether index i carries tag.
func (s Snapshot) HasTag(i int, tag string) bool {
	return slices.Contains(s.Marks[i], tag)
}

// Fold applies e to s and returns the next snapshot. s is never modified.
// Fold panics on an event type it does not know; producers are checked with event.Validate
// before their events reach it.
func Fold(s Snapshot, e event.Event) Snapshot {
	next := s
	next.Step = s.Step + 1
	next.Event = e
	switch v := e.(type) {
	case event.Compare:
		next.Active = []int{v.I, v.J}
		next.Metrics.Comparisons++
	case event.Swap:
		next.Active = []int{v.I, v.J}
		next.Metrics.Swaps++
		if v.I != v.J && v.I < len(s.Values) && v.J < len(s.Values) {
			next.Values = slices.Clone(s.Values)
			next.Values[v.I], next.Values[v.J] = next.Values[v.J], next.Values[v.I]
		}
	case event.Set:
		next.Active = []int{v.Index}
		next.Metrics.Writes++
		next.Values = setValue(s.Values, v.Index, v.Value)
	case event.Mark:
		next.Marks = maps.Clone(s.Marks)
		if next.Marks == nil {
			next.Marks = make(map[int][]string, len(v.Indices))
		}
		for _, i := range v.Indices {
			next.Marks[i] = addTag(next.Marks[i], v.Tag)
		}
	case event.Unmark:
		next.Marks = maps.Clone(s.Marks)
		for _, i := range v.Indices {
			tags := removeTag(next.Marks[i], v.Tag)
			if len(tags) == 0 {
				delete(next.Marks, i)
				continue
			}
			next.Marks[i] = tags
		}
	case event.Message:
		msg := v
		next.Message = &msg
	case event.Highlight:
		next.Lines = slices.Clone(v.Lines)
	case event.Pointer:
		next.Pointers = slices.Clone(v.Pointers)
		next.Variables = slices.Clone(v.Variables)
	case event.Auxiliary:
		next.Aux = v.Aux
	case event.Metric:
		next.Metrics = addCounter(s.Metrics, v.Name, v.Delta)
	case event.Result:
		next.Result = v.Value
		next.Done = true
	default:
		panic(fmt.Sprintf("trace: fold of unhandled event %T", e))
	}
	return next
}

// setValue writes v at i on a copy of values, growing it with zeros when i is past the end.
func setValue(values []float64, i int, v float64) []float64 {
	n := len(values)
	if i >= n {
		n = i + 1
	}
	out := make([]float64, n)
	copy(out, values)
	out[i] = v
	return out
}

func addTag(tags []string, tag string) []string {
	if slices.Contains(tags, tag) {
		return tags
	}
	out := append(slices.Clone(tags), tag)
	sort.Strings(out)
	return out
}

func removeTag(tags []string, tag string) []string {
	if tag == "" {
		return nil
	}
	if !slices.Contains(tags, tag) {
		return tags
	}
	out := make([]string, 0, len(tags)-1)
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

func addCounter(m Metrics, name string, delta int) Metrics {
	out := m
	out.Counters = maps.Clone(m.Counters)
	if out.Counters == nil {
		out.Counters = map[string]int{}
	}
	out.Counters[name] += delta
	return out
}

// MarshalJSON renders the snapshot for renderers, with the auxiliary view, result and source
// event in their tagged wire shapes.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	out := struct {
		plain
		Aux    json.RawMessage `json:"aux,omitempty"`
		Result json.RawMessage `json:"result,omitempty"`
		Event  json.RawMessage `json:"event,omitempty"`
	}{plain: plain(s)}
	var err error
	if s.Aux != nil {
		if out.Aux, err = event.MarshalAux(s.Aux); err != nil {
			return nil, err
		}
	}
	if s.Result != nil {
		if out.Result, err = event.MarshalResult(s.Result); err != nil {
			return nil, err
		}
	}
	if s.Event != nil {
		if out.Event, err = event.Marshal(s.Event); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}
