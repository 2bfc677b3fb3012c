package sorting

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Insertion() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "insertion-sort",
		Name:       "Insertion Sort",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"for i from 1 to n-1:",
			"  key = a[i]; j = i-1",
			"  while j >= 0 and a[j] > key:",
			"    a[j+1] = a[j]; j = j-1",
			"  a[j+1] = key",
		},
		Complexity: algorithm.Complexity{Best: "O(n)", Average: "O(n²)", Worst: "O(n²)", Space: "O(1)"},
		InputKind:  algorithm.InputArray,
		Validate:   validate(),
		Produce:    algorithm.ProduceWith(insertion),
	}
}

func insertion(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := working(in)
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		em.Highlight(1)
		em.Pointers([]event.PointerMark{{Index: i, Label: "i"}}, algorithm.V("key", key))
		for j >= 0 {
			em.Highlight(2)
			em.Compare(j, j+1)
			if a[j] <= key {
				break
			}
			a[j+1] = a[j]
			em.Highlight(3)
			em.Set(j+1, a[j])
			j--
		}
		a[j+1] = key
		em.Highlight(4)
		em.Set(j+1, key)
	}
	finish(em, a)
}
