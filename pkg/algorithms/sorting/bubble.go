package sorting

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Bubble() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "bubble-sort",
		Name:       "Bubble Sort",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"for i from 0 to n-1:",
			"  swapped = false",
			"  for j from 0 to n-i-2:",
			"    if a[j] > a[j+1]:",
			"      swap(a[j], a[j+1]); swapped = true",
			"  if not swapped: break",
		},
		Complexity:  algorithm.Complexity{Best: "O(n)", Average: "O(n²)", Worst: "O(n²)", Space: "O(1)"},
		InputKind:   algorithm.InputArray,
		Description: "Repeatedly swaps adjacent out-of-order pairs until a pass makes no swap.",
		Validate:    validate(),
		Produce:     algorithm.ProduceWith(bubble),
	}
}

func bubble(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := working(in)
	n := len(a)
	for i := 0; i < n-1; i++ {
		em.Highlight(0, 1)
		swapped := false
		for j := 0; j < n-i-1; j++ {
			em.Pointers([]event.PointerMark{{Index: j, Label: "j"}, {Index: j + 1, Label: "j+1"}}, algorithm.V("i", i), algorithm.V("swapped", swapped))
			em.Highlight(3)
			em.Compare(j, j+1)
			if a[j] > a[j+1] {
				a[j], a[j+1] = a[j+1], a[j]
				em.Highlight(4)
				em.Swap(j, j+1)
				swapped = true
			}
		}
		em.Mark(event.TagSorted, n-i-1)
		if !swapped {
			em.Highlight(5)
			em.Step("No swaps in pass %d, the array is sorted", i+1)
			break
		}
	}
	finish(em, a)
}
