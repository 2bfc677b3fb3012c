package searching

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func LinearSearch() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "linear-search",
		Name:       "Linear Search",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"for i from 0 to n-1:",
			"  if a[i] == target: return i",
			"return not found",
		},
		Complexity: algorithm.Complexity{Best: "O(1)", Average: "O(n)", Worst: "O(n)", Space: "O(1)"},
		InputKind:  algorithm.InputArray,
		Validate:   algorithm.All(arrayCaps(), needTarget()),
		Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
			target := in.TargetOr(0)
			for i, v := range in.Values {
				em.Highlight(0, 1)
				em.Mark(event.TagCurrent, i)
				em.Compare(i, i)
				if v == target {
					em.Mark(event.TagFound, i)
					em.Result(event.Indices{i})
					return
				}
				em.Unmark(event.TagCurrent, i)
				em.Mark(event.TagVisited, i)
			}
			em.Highlight(2)
			em.Result(event.NotFound{Reason: "target " + event.FormatValue(target) + " is not in the array"})
		}),
	}
}
