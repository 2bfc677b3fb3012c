package searching

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func SlidingWindow() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "sliding-window-max-sum",
		Name:       "Sliding Window Maximum Sum",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"sum = a[0] + ... + a[k-1]; best = sum",
			"for i from k to n-1:",
			"  sum = sum + a[i] - a[i-k]",
			"  best = max(best, sum)",
			"return best",
		},
		Complexity: algorithm.Complexity{Best: "O(n)", Average: "O(n)", Worst: "O(n)", Space: "O(1)"},
		Params: []algorithm.ParamSpec{
			{ID: "k", Label: "Window size", Type: algorithm.ParamNumber, Default: 3, Min: algorithm.Bound(1), Max: algorithm.Bound(algorithm.MaxArrayLen), Step: algorithm.Bound(1)},
		},
		InputKind: algorithm.InputArray,
		Validate:  arrayCaps(),
		Produce:   algorithm.ProduceWith(slidingWindow),
	}
}

func slidingWindow(em *algorithm.Emitter, in algorithm.ArrayInput, p algorithm.Params) {
	a := in.Values
	k := p.Int("k")
	if k > len(a) {
		em.Message(event.LevelWarning, "Window size %d is larger than the array (%d values)", k, len(a))
		em.Result(event.NotFound{Reason: "window larger than array"})
		return
	}
	sum := 0.0
	em.Highlight(0)
	for i := 0; i < k; i++ {
		sum += a[i]
		em.Mark(event.TagWindow, i)
	}
	best, bestAt := sum, 0
	em.Pointers([]event.PointerMark{{Index: 0, Label: "start"}}, algorithm.V("sum", sum), algorithm.V("best", best))
	for i := k; i < len(a); i++ {
		em.Highlight(1, 2)
		em.Unmark(event.TagWindow, i-k)
		em.Mark(event.TagWindow, i)
		sum += a[i] - a[i-k]
		em.Metric("window_moves", 1)
		em.Highlight(3)
		if sum > best {
			best, bestAt = sum, i-k+1
			em.Step("New best %s for window starting at %d", event.FormatValue(best), bestAt)
		}
		em.Pointers([]event.PointerMark{{Index: i - k + 1, Label: "start"}, {Index: i, Label: "end"}}, algorithm.V("sum", sum), algorithm.V("best", best))
	}
	win := make([]int, 0, k)
	for i := bestAt; i < bestAt+k; i++ {
		win = append(win, i)
	}
	em.Highlight(4)
	em.Unmark("", span(0, len(a)-1)...)
	em.Mark(event.TagFound, win...)
	em.Result(event.Number(best))
}
