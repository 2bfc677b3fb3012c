package sorting

import (
	"iter"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Merge() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "merge-sort",
		Name:       "Merge Sort",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"mergeSort(a, lo, hi):",
			"  if lo >= hi: return",
			"  mid = (lo + hi) / 2",
			"  mergeSort(a, lo, mid); mergeSort(a, mid+1, hi)",
			"  merge a[lo..mid] and a[mid+1..hi]",
			"  write merged values back into a[lo..hi]",
		},
		Complexity: algorithm.Complexity{Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
		InputKind:  algorithm.InputArray,
		Validate:   validate(),
		Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
			a := working(in)
			em.Delegate(mergeSort(a, 0, len(a)-1))
			finish(em, a)
		}),
	}
}

// mergeSort is the recursive helper; each call is its own sub-sequence delegated to the
// caller, so the events of a half are fully emitted before the sibling half starts.
func mergeSort(a []float64, lo, hi int) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		em := algorithm.NewEmitter(yield)
		em.Highlight(1)
		if lo >= hi {
			return
		}
		mid := (lo + hi) / 2
		em.Highlight(2)
		em.Pointers([]event.PointerMark{{Index: lo, Label: "lo"}, {Index: mid, Label: "mid"}, {Index: hi, Label: "hi"}})
		em.Highlight(3)
		em.Delegate(mergeSort(a, lo, mid))
		em.Delegate(mergeSort(a, mid+1, hi))
		merge(em, a, lo, mid, hi)
	}
}

func merge(em *algorithm.Emitter, a []float64, lo, mid, hi int) {
	span := make([]int, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		span = append(span, k)
	}
	em.Mark(event.TagRange, span...)
	em.Highlight(4)
	merged := make([]float64, 0, hi-lo+1)
	i, j := lo, mid+1
	for i <= mid && j <= hi {
		em.Compare(i, j)
		if a[i] <= a[j] {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, a[j])
			j++
		}
	}
	merged = append(merged, a[i:mid+1]...)
	merged = append(merged, a[j:hi+1]...)
	em.Highlight(5)
	for k, v := range merged {
		a[lo+k] = v
		em.Set(lo+k, v)
	}
	em.Unmark(event.TagRange, span...)
}
