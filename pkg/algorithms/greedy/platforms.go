package greedy

import (
	"slices"
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func MinPlatforms() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "minimum-platforms",
		Name:       "Minimum Platforms",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"give each train an arrival time; departure = arrival + dwell",
			"sort arrivals; sort departures",
			"i = 0; j = 0; needed = 0; best = 0",
			"while i < n:",
			"  if arr[i] <= dep[j]: needed++; best = max(best, needed); i++",
			"  else: needed--; j++",
			"return best",
		},
		Complexity:  algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
		Params:      []algorithm.ParamSpec{algorithm.SeedParam()},
		InputKind:   algorithm.InputArray,
		Description: "Input values are dwell times; arrivals are drawn from the seed. A train arriving when another departs needs its own platform.",
		Validate:    wholeNumbers("dwell times", 10),
		Produce:     algorithm.ProduceWith(minPlatforms),
	}
}

func minPlatforms(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	trains := schedule(algorithm.NewRand(in, p), in.Values)
	em.Highlight(0)
	em.Aux(intervalTable("trains", trains, func(interval) string { return "" }))

	n := len(trains)
	arr := make([]int, n)
	dep := make([]int, n)
	for k, t := range trains {
		arr[k], dep[k] = t.start, t.end
	}
	slices.Sort(arr)
	slices.Sort(dep)
	sweep := func(i, j int) event.DPTable {
		t := event.DPTable{Title: "sweep", RowLabels: []string{"arrivals", "departures"}, Cells: [][]string{make([]string, n), make([]string, n)}}
		for k := range n {
			t.ColLabels = append(t.ColLabels, strconv.Itoa(k))
			t.Cells[0][k], t.Cells[1][k] = strconv.Itoa(arr[k]), strconv.Itoa(dep[k])
		}
		if i < n {
			t.Active = append(t.Active, event.Cell{Row: 0, Col: i})
		}
		if j < n {
			t.Active = append(t.Active, event.Cell{Row: 1, Col: j})
		}
		return t
	}
	em.Highlight(1)
	em.Aux(sweep(0, 0))

	i, j, needed, best := 0, 0, 0, 0
	em.Highlight(2)
	for i < n {
		em.Highlight(3)
		em.Metric("events_swept", 1)
		if arr[i] <= dep[j] {
			needed++
			best = max(best, needed)
			em.Highlight(4)
			em.Step("Train arrives at %d: %d platforms in use", arr[i], needed)
			i++
		} else {
			needed--
			em.Highlight(5)
			em.Step("Train departs at %d: %d platforms in use", dep[j], needed)
			j++
		}
		em.Pointers(nil, algorithm.V("needed", needed), algorithm.V("best", best))
		em.Aux(sweep(i, j))
	}
	em.Highlight(6)
	em.Message(event.LevelSuccess, "%d trains need %d platforms", n, best)
	em.Result(event.Number(best))
}
