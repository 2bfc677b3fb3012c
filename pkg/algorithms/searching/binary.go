package searching

import (
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func BinarySearch() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "binary-search",
		Name:       "Binary Search",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"lo = 0; hi = n-1",
			"while lo <= hi:",
			"  mid = (lo + hi) / 2",
			"  if a[mid] == target: return mid",
			"  if a[mid] < target: lo = mid + 1",
			"  else: hi = mid - 1",
			"return not found",
		},
		Complexity:  algorithm.Complexity{Best: "O(1)", Average: "O(log n)", Worst: "O(log n)", Space: "O(1)"},
		InputKind:   algorithm.InputArray,
		Description: "Halves a sorted range each step. Unsorted input is sorted first.",
		Validate:    algorithm.All(arrayCaps(), needTarget()),
		Produce:     algorithm.ProduceWith(binarySearch),
	}
}

func binarySearch(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
	a := slices.Clone(in.Values)
	target := in.TargetOr(0)
	if !slices.IsSorted(a) {
		slices.Sort(a)
		em.Message(event.LevelInfo, "Binary search needs sorted input; sorting to %s", algorithm.FormatValues(a))
		for i, v := range a {
			em.Set(i, v)
		}
	}
	lo, hi := 0, len(a)-1
	em.Highlight(0)
	for lo <= hi {
		mid := lo + (hi-lo)/2
		em.Highlight(1, 2)
		em.Pointers([]event.PointerMark{{Index: lo, Label: "lo"}, {Index: mid, Label: "mid"}, {Index: hi, Label: "hi"}},
			algorithm.V("target", target), algorithm.V("a[mid]", a[mid]))
		em.Mark(event.TagWindow, span(lo, hi)...)
		em.Compare(mid, mid)
		em.Highlight(3)
		if a[mid] == target {
			em.Mark(event.TagFound, mid)
			em.Message(event.LevelSuccess, "Found %s at index %d", event.FormatValue(target), mid)
			em.Result(event.Indices{mid})
			return
		}
		em.Unmark(event.TagWindow, span(lo, hi)...)
		if a[mid] < target {
			em.Highlight(4)
			em.Step("%s < %s, search the right half", event.FormatValue(a[mid]), event.FormatValue(target))
			lo = mid + 1
		} else {
			em.Highlight(5)
			em.Step("%s > %s, search the left half", event.FormatValue(a[mid]), event.FormatValue(target))
			hi = mid - 1
		}
	}
	em.Highlight(6)
	em.Message(event.LevelWarning, "%s is not in the array", event.FormatValue(target))
	em.Result(event.NotFound{Reason: "target " + event.FormatValue(target) + " is not in the array"})
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
