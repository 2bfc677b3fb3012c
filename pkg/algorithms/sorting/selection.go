package sorting

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Selection() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "selection-sort",
		Name:       "Selection Sort",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"for i from 0 to n-2:",
			"  min = i",
			"  for j from i+1 to n-1:",
			"    if a[j] < a[min]: min = j",
			"  swap(a[i], a[min])",
		},
		Complexity: algorithm.Complexity{Best: "O(n²)", Average: "O(n²)", Worst: "O(n²)", Space: "O(1)"},
		InputKind:  algorithm.InputArray,
		Validate:   validate(),
		Produce:    algorithm.ProduceWith(selection),
	}
}

func selection(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := working(in)
	n := len(a)
	for i := 0; i < n-1; i++ {
		minIdx := i
		em.Highlight(1)
		em.Mark(event.TagCurrent, minIdx)
		for j := i + 1; j < n; j++ {
			em.Pointers([]event.PointerMark{{Index: i, Label: "i"}, {Index: j, Label: "j"}, {Index: minIdx, Label: "min"}})
			em.Highlight(3)
			em.Compare(j, minIdx)
			if a[j] < a[minIdx] {
				em.Unmark(event.TagCurrent, minIdx)
				minIdx = j
				em.Mark(event.TagCurrent, minIdx)
			}
		}
		em.Unmark(event.TagCurrent, minIdx)
		if minIdx != i {
			a[i], a[minIdx] = a[minIdx], a[i]
			em.Highlight(4)
			em.Swap(i, minIdx)
		}
		em.Mark(event.TagSorted, i)
	}
	finish(em, a)
}
