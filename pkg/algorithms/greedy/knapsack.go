package greedy

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func FractionalKnapsack() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "fractional-knapsack",
		Name:       "Fractional Knapsack",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"give each item a value",
			"sort items by value/weight, highest first",
			"for each item while capacity > 0:",
			"  take = min(weight, capacity)",
			"  total += value * take / weight; capacity -= take",
			"return total",
		},
		Complexity: algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
		Params: []algorithm.ParamSpec{
			{ID: "capacity", Label: "Capacity", Type: algorithm.ParamNumber, Default: 15, Min: algorithm.Bound(1), Max: algorithm.Bound(100), Step: algorithm.Bound(1)},
			algorithm.SeedParam(),
		},
		InputKind:   algorithm.InputArray,
		Description: "Input values are item weights; item values are drawn from the seed.",
		Validate:    wholeNumbers("weights", 30),
		Produce:     algorithm.ProduceWith(fractionalKnapsack),
	}
}

type item struct {
	idx    int
	weight float64
	value  float64
}

func (it item) ratio() float64 { return it.value / it.weight }

func fractionalKnapsack(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	rng := algorithm.NewRand(in, p)
	items := make([]item, len(in.Values))
	for i, w := range in.Values {
		items[i] = item{idx: i, weight: w, value: float64(1 + rng.IntN(50))}
	}
	taken := make(map[int]float64, len(items))
	view := func(order []item, active int) event.DPTable {
		t := event.DPTable{Title: "items", ColLabels: []string{"weight", "value", "ratio", "taken"}}
		for r, it := range order {
			t.RowLabels = append(t.RowLabels, "#"+strconv.Itoa(it.idx))
			t.Cells = append(t.Cells, []string{
				event.FormatValue(it.weight),
				event.FormatValue(it.value),
				event.FormatValue(round2(it.ratio())),
				event.FormatValue(round2(taken[it.idx])),
			})
			if it.idx == active {
				t.Active = append(t.Active, event.Cell{Row: r, Col: 3})
			}
		}
		return t
	}
	em.Highlight(0)
	em.Aux(view(items, -1))

	sorted := slices.SortedStableFunc(slices.Values(items), func(a, b item) int {
		return cmp.Compare(b.ratio(), a.ratio())
	})
	em.Highlight(1)
	em.Aux(view(sorted, -1))

	capacity := p.Float("capacity")
	total := 0.0
	for _, it := range sorted {
		if capacity <= 0 {
			break
		}
		em.Highlight(2, 3)
		em.Mark(event.TagCurrent, it.idx)
		take := min(it.weight, capacity)
		total += it.value * take / it.weight
		capacity -= take
		taken[it.idx] = take
		em.Highlight(4)
		em.Metric("items_taken", 1)
		em.Pointers([]event.PointerMark{{Index: it.idx, Label: "item"}},
			algorithm.V("take", take), algorithm.V("capacity", capacity), algorithm.V("total", round2(total)))
		if take < it.weight {
			em.Step("Take %s of %s units of item %d", event.FormatValue(take), event.FormatValue(it.weight), it.idx)
		} else {
			em.Step("Take all of item %d", it.idx)
		}
		em.Aux(view(sorted, it.idx))
		em.Unmark(event.TagCurrent, it.idx)
		em.Mark(event.TagSelected, it.idx)
	}

	em.Highlight(5)
	result := event.Items{{Label: "total value", Value: event.FormatValue(round2(total))}}
	for _, it := range sorted {
		if w, ok := taken[it.idx]; ok {
			result = append(result, event.Item{Label: "#" + strconv.Itoa(it.idx), Value: event.FormatValue(w)})
		}
	}
	em.Message(event.LevelSuccess, "Total value %s", event.FormatValue(round2(total)))
	em.Result(result)
}
