// Package greedy provides the greedy algorithms of the catalog.
//
// These bodies need more data than a plain array carries (start times, item values), so they
// fabricate it from the run's seeded generator. The input values keep a meaning of their own
// (durations or weights) and a zero seed derives the generator from the input, so equal runs
// still produce equal timelines.
package greedy

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const (
	category = "greedy"
	horizon  = 20
	maxItems = 12
)

// Descriptors returns every greedy algorithm.
func Descriptors() []algorithm.Descriptor {
	return []algorithm.Descriptor{ActivitySelection(), FractionalKnapsack(), MeetingRooms(), MinPlatforms()}
}

// interval is a fabricated time range for the array element at idx.
type interval struct {
	idx        int
	start, end int
}

func (iv interval) String() string { return fmt.Sprintf("[%d, %d)", iv.start, iv.end) }

// schedule gives every duration a start time in [0, horizon).
func schedule(rng *rand.Rand, durations []float64) []interval {
	out := make([]interval, len(durations))
	for i, d := range durations {
		s := rng.IntN(horizon)
		out[i] = interval{idx: i, start: s, end: s + int(d)}
	}
	return out
}

func byEnd(a, b interval) int {
	return cmp.Or(cmp.Compare(a.end, b.end), cmp.Compare(a.start, b.start), cmp.Compare(a.idx, b.idx))
}

func byStart(a, b interval) int {
	return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(a.end, b.end), cmp.Compare(a.idx, b.idx))
}

// intervalTable lists intervals one per row in the given order. status annotates each row.
func intervalTable(title string, ivs []interval, status func(interval) string, active ...int) event.DPTable {
	t := event.DPTable{Title: title, ColLabels: []string{"start", "end", ""}}
	for r, iv := range ivs {
		t.RowLabels = append(t.RowLabels, "#"+strconv.Itoa(iv.idx))
		t.Cells = append(t.Cells, []string{strconv.Itoa(iv.start), strconv.Itoa(iv.end), status(iv)})
		if slices.Contains(active, iv.idx) {
			t.Active = append(t.Active, event.Cell{Row: r, Col: 0}, event.Cell{Row: r, Col: 1})
		}
	}
	return t
}

// wholeNumbers accepts 2..maxItems values that are whole numbers within [1, hi].
func wholeNumbers(what string, hi int) algorithm.ValidateFunc {
	return algorithm.All(
		algorithm.ArraySize(algorithm.MinArrayLen, maxItems, 0),
		algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
			for _, v := range in.Values {
				if v < 1 || v > float64(hi) || v != math.Trunc(v) {
					return algorithm.Invalid("%s must be whole numbers between 1 and %d", what, hi)
				}
			}
			return algorithm.Valid()
		}),
	)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
