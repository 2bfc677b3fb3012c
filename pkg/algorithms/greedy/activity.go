package greedy

import (
	"slices"
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func ActivitySelection() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "activity-selection",
		Name:       "Activity Selection",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"give each activity a start time; end = start + duration",
			"sort activities by end time",
			"lastEnd = -1",
			"for each activity a in order:",
			"  if a.start >= lastEnd:",
			"    select a; lastEnd = a.end",
			"return selected",
		},
		Complexity:  algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
		Params:      []algorithm.ParamSpec{algorithm.SeedParam()},
		InputKind:   algorithm.InputArray,
		Description: "Input values are activity durations; start times are drawn from the seed.",
		Validate:    wholeNumbers("durations", 10),
		Produce:     algorithm.ProduceWith(activitySelection),
	}
}

func activitySelection(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	acts := schedule(algorithm.NewRand(in, p), in.Values)
	selected := map[int]bool{}
	status := func(iv interval) string {
		if selected[iv.idx] {
			return "selected"
		}
		return ""
	}
	em.Highlight(0)
	em.Aux(intervalTable("activities", acts, status))

	sorted := slices.SortedFunc(slices.Values(acts), byEnd)
	em.Highlight(1)
	em.Aux(intervalTable("activities by end time", sorted, status))

	lastEnd := -1
	em.Highlight(2)
	var chosen []interval
	for _, a := range sorted {
		em.Highlight(3, 4)
		em.Mark(event.TagCurrent, a.idx)
		em.Pointers([]event.PointerMark{{Index: a.idx, Label: "a"}}, algorithm.V("a", a.String()), algorithm.V("lastEnd", lastEnd))
		em.Metric("activities_checked", 1)
		if a.start >= lastEnd {
			selected[a.idx] = true
			chosen = append(chosen, a)
			lastEnd = a.end
			em.Highlight(5)
			em.Mark(event.TagSelected, a.idx)
			em.Step("Select activity %d %s", a.idx, a)
			em.Aux(intervalTable("activities by end time", sorted, status, a.idx))
		} else {
			em.Step("Skip activity %d %s: starts before %d", a.idx, a, lastEnd)
		}
		em.Unmark(event.TagCurrent, a.idx)
	}

	em.Highlight(6)
	items := make(event.Items, 0, len(chosen))
	for _, a := range chosen {
		items = append(items, event.Item{Label: "#" + strconv.Itoa(a.idx), Value: a.String()})
	}
	em.Message(event.LevelSuccess, "Selected %d of %d activities", len(chosen), len(acts))
	em.Result(items)
}
