package dp

import (
	"fmt"
	"math"
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const maxCapacity = 30

func Knapsack() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "knapsack-01",
		Name:       "0/1 Knapsack",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"dp[0][*] = 0",
			"for i from 1 to n:",
			"  for c from 0 to capacity:",
			"    dp[i][c] = dp[i-1][c]",
			"    if w[i] <= c: dp[i][c] = max(dp[i][c], dp[i-1][c-w[i]] + v[i])",
			"walk back from dp[n][capacity] to collect the chosen items",
		},
		Complexity: algorithm.Complexity{Best: "O(nW)", Average: "O(nW)", Worst: "O(nW)", Space: "O(nW)"},
		Params: []algorithm.ParamSpec{
			{ID: "capacity", Label: "Capacity", Type: algorithm.ParamNumber, Default: 10, Min: algorithm.Bound(1), Max: algorithm.Bound(maxCapacity), Step: algorithm.Bound(1)},
			{ID: "values", Label: "Item values (comma separated, empty = weights)", Type: algorithm.ParamText, Default: ""},
		},
		InputKind:   algorithm.InputArray,
		Description: "Input values are item weights (positive integers up to the capacity limit).",
		Validate: algorithm.All(
			algorithm.ArraySize(1, 10, 0),
			algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
				for _, w := range in.Values {
					if w <= 0 || w != math.Trunc(w) || w > maxCapacity {
						return algorithm.Invalid("weights must be whole numbers between 1 and %d", maxCapacity)
					}
				}
				return algorithm.Valid()
			}),
		),
		Produce: algorithm.ProduceWith(knapsack),
	}
}

func knapsack(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	w := in.Values
	n := len(w)
	capacity := p.Int("capacity")
	v := slices.Clone(w)
	if raw := p.String("values"); raw != "" {
		parsed, err := algorithm.ParseValues(raw)
		if err != nil || len(parsed) != n {
			em.Message(event.LevelWarning, "Item values %q do not match %d items; using weights as values", raw, n)
		} else {
			v = parsed
		}
	}

	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, capacity+1)
	}
	t := newTable("best value", n+1, capacity+1, "0")
	t.colLabels = numbers(0, capacity)
	t.rowLabels = []string{"-"}
	for i := 0; i < n; i++ {
		t.rowLabels = append(t.rowLabels, fmt.Sprintf("w=%s v=%s", event.FormatValue(w[i]), event.FormatValue(v[i])))
	}
	em.Highlight(0)
	em.Aux(t.view())

	for i := 1; i <= n; i++ {
		wi := int(w[i-1])
		em.Highlight(1)
		em.Mark(event.TagCurrent, i-1)
		for c := 0; c <= capacity; c++ {
			dp[i][c] = dp[i-1][c]
			em.Highlight(2, 3)
			if wi <= c {
				take := dp[i-1][c-wi] + v[i-1]
				em.Highlight(4)
				em.Metric("cell_comparisons", 1)
				if take > dp[i][c] {
					dp[i][c] = take
				}
				t.cells[i][c] = event.FormatValue(dp[i][c])
				em.Aux(t.view(event.Cell{Row: i - 1, Col: c}, event.Cell{Row: i - 1, Col: c - wi}, event.Cell{Row: i, Col: c}))
				continue
			}
			t.cells[i][c] = event.FormatValue(dp[i][c])
		}
		em.Aux(t.view())
		em.Unmark(event.TagCurrent, i-1)
	}

	em.Highlight(5)
	var chosen []int
	for i, c := n, capacity; i > 0; i-- {
		if dp[i][c] != dp[i-1][c] {
			chosen = append(chosen, i-1)
			c -= int(w[i-1])
		}
	}
	slices.Reverse(chosen)
	if len(chosen) == 0 {
		em.Result(event.NotFound{Reason: "no item fits in the knapsack"})
		return
	}
	em.Mark(event.TagSelected, chosen...)
	em.Message(event.LevelSuccess, "Best value %s using items %v", event.FormatValue(dp[n][capacity]), chosen)
	em.Result(event.Items{
		{Label: "value", Value: event.FormatValue(dp[n][capacity])},
		{Label: "items", Value: event.Indices(chosen).String()},
	})
}
