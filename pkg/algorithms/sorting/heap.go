package sorting

import (
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Heap() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "heap-sort",
		Name:       "Heap Sort",
		Category:   category,
		Difficulty: algorithm.Hard,
		Pseudocode: []string{
			"for i from n/2-1 down to 0: siftDown(a, i, n)",
			"for end from n-1 down to 1:",
			"  swap(a[0], a[end])",
			"  siftDown(a, 0, end)",
			"siftDown(a, i, size):",
			"  largest = max of i and its children within size",
			"  if largest != i: swap(a[i], a[largest]); siftDown(a, largest, size)",
		},
		Complexity: algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(1)"},
		InputKind:  algorithm.InputArray,
		Validate:   validate(),
		Produce:    algorithm.ProduceWith(heapSort),
	}
}

func heapSort(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := working(in)
	n := len(a)
	em.Highlight(0)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(em, a, i, n)
	}
	em.Step("Max-heap built, largest value %s at the root", event.FormatValue(a[0]))
	for end := n - 1; end > 0; end-- {
		em.Highlight(1, 2)
		a[0], a[end] = a[end], a[0]
		em.Swap(0, end)
		em.Mark(event.TagSorted, end)
		em.Highlight(3)
		siftDown(em, a, 0, end)
	}
	finish(em, a)
}

func siftDown(em *algorithm.Emitter, a []float64, i, size int) {
	for {
		em.Aux(event.HeapView{Values: slices.Clone(a[:size]), Size: size, Active: []int{i}})
		largest := i
		for _, c := range []int{2*i + 1, 2*i + 2} {
			if c < size {
				em.Highlight(5)
				em.Compare(c, largest)
				if a[c] > a[largest] {
					largest = c
				}
			}
		}
		if largest == i {
			return
		}
		em.Highlight(6)
		a[i], a[largest] = a[largest], a[i]
		em.Swap(i, largest)
		i = largest
	}
}
