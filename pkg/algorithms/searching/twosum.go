package searching

import (
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func TwoSum() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "two-sum",
		Name:       "Two Sum",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"seen = {}",
			"for i from 0 to n-1:",
			"  need = target - a[i]",
			"  if need in seen: return [seen[need], i]",
			"  seen[a[i]] = i",
			"return not found",
		},
		Complexity: algorithm.Complexity{Best: "O(1)", Average: "O(n)", Worst: "O(n)", Space: "O(n)"},
		InputKind:  algorithm.InputArray,
		Validate:   algorithm.All(arrayCaps(), needTarget()),
		Produce:    algorithm.ProduceWith(twoSum),
	}
}

func twoSum(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	target := in.TargetOr(0)
	seen := map[float64]int{}
	var table event.HashTableView
	em.Highlight(0)
	em.Aux(table)
	for i, v := range in.Values {
		need := target - v
		em.Highlight(1, 2)
		em.Mark(event.TagCurrent, i)
		em.Pointers([]event.PointerMark{{Index: i, Label: "i"}}, algorithm.V("need", need))
		em.Highlight(3)
		table.Active = event.FormatValue(need)
		em.Aux(cloneTable(table))
		if j, ok := seen[need]; ok {
			em.Compare(j, i)
			em.Mark(event.TagFound, j, i)
			em.Message(event.LevelSuccess, "a[%d] + a[%d] = %s", j, i, event.FormatValue(target))
			em.Result(event.Indices{j, i})
			return
		}
		seen[v] = i
		table.Entries = append(table.Entries, event.HashEntry{Key: event.FormatValue(v), Value: strconv.Itoa(i)})
		table.Active = event.FormatValue(v)
		em.Highlight(4)
		em.Aux(cloneTable(table))
		em.Unmark(event.TagCurrent, i)
	}
	em.Highlight(5)
	em.Result(event.NotFound{Reason: "no pair sums to " + event.FormatValue(target)})
}

func cloneTable(t event.HashTableView) event.HashTableView {
	t.Entries = append([]event.HashEntry(nil), t.Entries...)
	return t
}
