package dp

import (
	"math"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const maxPartitionSum = 200

func Partition() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "partition-equal-subset",
		Name:       "Partition Equal Subset Sum",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"if sum is odd: return cannot partition",
			"half = sum / 2; can[0][0] = true",
			"for i from 1 to n:",
			"  for s from 0 to half:",
			"    can[i][s] = can[i-1][s] or (a[i-1] <= s and can[i-1][s-a[i-1]])",
			"return can[n][half]",
		},
		Complexity: algorithm.Complexity{Best: "O(n·sum)", Average: "O(n·sum)", Worst: "O(n·sum)", Space: "O(n·sum)"},
		InputKind:  algorithm.InputArray,
		Validate: algorithm.All(
			algorithm.ArraySize(algorithm.MinArrayLen, 12, 0),
			algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
				sum := 0.0
				for _, v := range in.Values {
					if v <= 0 || v != math.Trunc(v) {
						return algorithm.Invalid("values must be positive whole numbers")
					}
					sum += v
				}
				if sum > maxPartitionSum {
					return algorithm.Invalid("values must sum to at most %d", maxPartitionSum)
				}
				return algorithm.Valid()
			}),
		),
		Produce: algorithm.ProduceWith(partition),
	}
}

func partition(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := in.Values
	sum := 0
	for _, v := range a {
		sum += int(v)
	}
	em.Highlight(0)
	em.Pointers(nil, algorithm.V("sum", sum))
	if sum%2 == 1 {
		em.Message(event.LevelWarning, "Sum %d is odd", sum)
		em.Result(event.NotFound{Reason: "cannot partition into equal subsets"})
		return
	}
	half := sum / 2
	n := len(a)
	can := make([][]bool, n+1)
	for i := range can {
		can[i] = make([]bool, half+1)
	}
	can[0][0] = true
	t := newTable("reachable sums", n+1, half+1, "F")
	t.cells[0][0] = "T"
	t.colLabels = numbers(0, half)
	t.rowLabels = []string{"-"}
	for _, v := range a {
		t.rowLabels = append(t.rowLabels, event.FormatValue(v))
	}
	em.Highlight(1)
	em.Aux(t.view(event.Cell{Row: 0, Col: 0}))

	for i := 1; i <= n; i++ {
		ai := int(a[i-1])
		em.Highlight(2)
		em.Mark(event.TagCurrent, i-1)
		for s := 0; s <= half; s++ {
			can[i][s] = can[i-1][s] || (ai <= s && can[i-1][s-ai])
			if can[i][s] {
				t.cells[i][s] = "T"
			}
			if ai <= s {
				em.Highlight(3, 4)
				em.Metric("cell_updates", 1)
				em.Aux(t.view(event.Cell{Row: i - 1, Col: s - ai}, event.Cell{Row: i, Col: s}))
			}
		}
		em.Unmark(event.TagCurrent, i-1)
	}

	em.Highlight(5)
	if !can[n][half] {
		em.Result(event.NotFound{Reason: "cannot partition into equal subsets"})
		return
	}
	var subset []int
	for i, s := n, half; i > 0 && s > 0; i-- {
		if !can[i-1][s] {
			subset = append([]int{i - 1}, subset...)
			s -= int(a[i-1])
		}
	}
	em.Mark(event.TagSelected, subset...)
	em.Message(event.LevelSuccess, "Subset %v sums to %d", subset, half)
	em.Result(event.Indices(subset))
}
