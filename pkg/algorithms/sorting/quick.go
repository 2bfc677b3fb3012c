package sorting

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Quick() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "quick-sort",
		Name:       "Quick Sort",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"quickSort(a, lo, hi):",
			"  if lo >= hi: return",
			"  pivot = a[hi]; i = lo",
			"  for j from lo to hi-1:",
			"    if a[j] < pivot: swap(a[i], a[j]); i++",
			"  swap(a[i], a[hi])",
			"  quickSort(a, lo, i-1); quickSort(a, i+1, hi)",
		},
		Complexity: algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n²)", Space: "O(log n)"},
		InputKind:  algorithm.InputArray,
		Validate:   validate(),
		Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
			a := working(in)
			quickSort(em, a, 0, len(a)-1)
			finish(em, a)
		}),
	}
}

func quickSort(em *algorithm.Emitter, a []float64, lo, hi int) {
	em.Highlight(1)
	if lo >= hi {
		if lo == hi {
			em.Mark(event.TagSorted, lo)
		}
		return
	}
	em.Highlight(2)
	em.Mark(event.TagPivot, hi)
	pivot := a[hi]
	i := lo
	for j := lo; j < hi; j++ {
		em.Pointers([]event.PointerMark{{Index: i, Label: "i"}, {Index: j, Label: "j"}, {Index: hi, Label: "pivot"}}, algorithm.V("pivot", pivot))
		em.Highlight(4)
		em.Compare(j, hi)
		if a[j] < pivot {
			if i != j {
				a[i], a[j] = a[j], a[i]
				em.Swap(i, j)
			}
			i++
		}
	}
	em.Unmark(event.TagPivot, hi)
	em.Highlight(5)
	if i != hi {
		a[i], a[hi] = a[hi], a[i]
		em.Swap(i, hi)
	}
	em.Mark(event.TagSorted, i)
	em.Highlight(6)
	quickSort(em, a, lo, i-1)
	quickSort(em, a, i+1, hi)
}
