package dp

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Fibonacci() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "fibonacci",
		Name:       "Fibonacci (bottom-up)",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"f[0] = 0; f[1] = 1",
			"for i from 2 to n:",
			"  f[i] = f[i-1] + f[i-2]",
			"return f[n]",
		},
		Complexity: algorithm.Complexity{Best: "O(n)", Average: "O(n)", Worst: "O(n)", Space: "O(n)"},
		Params: []algorithm.ParamSpec{
			{ID: "n", Label: "n", Type: algorithm.ParamNumber, Default: 10, Min: algorithm.Bound(1), Max: algorithm.Bound(30), Step: algorithm.Bound(1)},
		},
		InputKind:   algorithm.InputArray,
		Description: "Builds the sequence in an array; the input values are ignored.",
		Validate:    anyArray(),
		Produce:     algorithm.ProduceWith(fibonacci),
	}
}

func fibonacci(em *algorithm.Emitter, _ algorithm.ArrayInput, p algorithm.Params) {
	n := p.Int("n")
	f := make([]float64, n+1)
	t := newTable("f", 1, n+1, "")
	t.colLabels = numbers(0, n)
	f[1] = 1
	t.cells[0][0], t.cells[0][1] = "0", "1"
	em.Highlight(0)
	em.Set(0, 0)
	em.Set(1, 1)
	em.Aux(t.view(event.Cell{Row: 0, Col: 1}))
	for i := 2; i <= n; i++ {
		em.Highlight(1, 2)
		em.Pointers([]event.PointerMark{{Index: i - 2, Label: "i-2"}, {Index: i - 1, Label: "i-1"}, {Index: i, Label: "i"}})
		f[i] = f[i-1] + f[i-2]
		em.Set(i, f[i])
		t.cells[0][i] = event.FormatValue(f[i])
		em.Aux(t.view(event.Cell{Row: 0, Col: i - 2}, event.Cell{Row: 0, Col: i - 1}, event.Cell{Row: 0, Col: i}))
	}
	em.Highlight(3)
	em.Mark(event.TagFound, n)
	em.Result(event.Number(f[n]))
}
