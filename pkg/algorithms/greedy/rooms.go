package greedy

import (
	"container/heap"
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func MeetingRooms() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "meeting-rooms",
		Name:       "Meeting Rooms",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"give each meeting a start time; end = start + duration",
			"sort meetings by start time",
			"ends = empty min-heap",
			"for each meeting m in order:",
			"  if ends is not empty and ends.min <= m.start: pop ends (reuse that room)",
			"  push m.end onto ends",
			"return size of ends",
		},
		Complexity:  algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
		Params:      []algorithm.ParamSpec{algorithm.SeedParam()},
		InputKind:   algorithm.InputArray,
		Description: "Input values are meeting durations; start times are drawn from the seed.",
		Validate:    wholeNumbers("durations", 10),
		Produce:     algorithm.ProduceWith(meetingRooms),
	}
}

// endHeap is a min-heap of meeting end times.
type endHeap []int

func (h endHeap) Len() int           { return len(h) }
func (h endHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h endHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *endHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *endHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

func (h endHeap) view() event.HeapView {
	v := event.HeapView{Values: make([]float64, len(h)), Size: len(h)}
	for i, e := range h {
		v.Values[i] = float64(e)
	}
	if len(h) > 0 {
		v.Active = []int{0}
	}
	return v
}

func meetingRooms(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	meetings := schedule(algorithm.NewRand(in, p), in.Values)
	none := func(interval) string { return "" }
	em.Highlight(0)
	em.Aux(intervalTable("meetings", meetings, none))

	sorted := slices.SortedFunc(slices.Values(meetings), byStart)
	em.Highlight(1)
	em.Aux(intervalTable("meetings by start time", sorted, none))

	ends := &endHeap{}
	rooms := 0
	em.Highlight(2)
	em.Aux(ends.view())
	for _, m := range sorted {
		em.Highlight(3, 4)
		em.Mark(event.TagCurrent, m.idx)
		em.Pointers([]event.PointerMark{{Index: m.idx, Label: "m"}}, algorithm.V("m", m.String()), algorithm.V("rooms", rooms))
		if ends.Len() > 0 && (*ends)[0] <= m.start {
			freed := heap.Pop(ends).(int)
			em.Metric("rooms_reused", 1)
			em.Step("Meeting %d reuses the room freed at %d", m.idx, freed)
		} else {
			em.Step("Meeting %d needs a new room", m.idx)
		}
		heap.Push(ends, m.end)
		rooms = max(rooms, ends.Len())
		em.Highlight(5)
		em.Aux(ends.view())
		em.Unmark(event.TagCurrent, m.idx)
		em.Mark(event.TagVisited, m.idx)
	}
	em.Highlight(6)
	em.Pointers(nil, algorithm.V("rooms", rooms))
	em.Message(event.LevelSuccess, "%d meetings need %d rooms", len(meetings), rooms)
	em.Result(event.Number(rooms))
}
