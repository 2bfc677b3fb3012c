package trace

import (
	"slices"

	"github.com/google/uuid"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

// Timeline is the immutable result of one materialization: one snapshot per emitted event
// plus the initial state. Index access is O(1).
type Timeline struct {
	id          string
	algorithmID string
	input       algorithm.Input
	params      algorithm.Params
	initial     Snapshot
	snapshots   []Snapshot
	events      []event.Event
}

func newTimeline(algorithmID string, initial Snapshot, snapshots []Snapshot, events []event.Event) *Timeline {
	return &Timeline{
		id:          uuid.NewString(),
		algorithmID: algorithmID,
		initial:     initial,
		snapshots:   snapshots,
		events:      events,
	}
}

// ID identifies this materialization.
func (t *Timeline) ID() string { return t.id }

// AlgorithmID is the descriptor id the timeline was produced by.
func (t *Timeline) AlgorithmID() string { return t.algorithmID }

// Input is the input of the run, nil when the timeline was built from a bare producer.
func (t *Timeline) Input() algorithm.Input { return t.input }

// Params are the resolved parameters of the run.
func (t *Timeline) Params() algorithm.Params { return t.params }

// Initial is Snapshot[-1], the pre-run state.
func (t *Timeline) Initial() Snapshot { return t.initial }

// Len is the number of events, and snapshots, in the timeline.
func (t *Timeline) Len() int { return len(t.snapshots) }

// At returns Snapshot[i]. i == -1 addresses the initial state; any other out-of-range
// index reports ok=false.
func (t *Timeline) At(i int) (Snapshot, bool) {
	if i == -1 {
		return t.initial, true
	}
	if i < 0 || i >= len(t.snapshots) {
		return Snapshot{}, false
	}
	return t.snapshots[i], true
}

// Last returns the final snapshot, or the initial one for an empty timeline.
func (t *Timeline) Last() Snapshot {
	if len(t.snapshots) == 0 {
		return t.initial
	}
	return t.snapshots[len(t.snapshots)-1]
}

// Events returns a copy of the event log.
func (t *Timeline) Events() []event.Event { return slices.Clone(t.events) }

// Snapshots returns a copy of the snapshot list.
func (t *Timeline) Snapshots() []Snapshot { return slices.Clone(t.snapshots) }
