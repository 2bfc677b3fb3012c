// Package dp provides the dynamic programming algorithms of the catalog. Each one renders
// its table as a DPTable auxiliary view.
package dp

import (
	"slices"
	"strconv"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const category = "dynamic-programming"

// Descriptors returns every dynamic programming algorithm.
func Descriptors() []algorithm.Descriptor {
	return []algorithm.Descriptor{Fibonacci(), Knapsack(), LCS(), Partition()}
}

// table is a mutable grid that is copied into an immutable DPTable on every emit.
type table struct {
	title     string
	rowLabels []string
	colLabels []string
	cells     [][]string
}

func newTable(title string, rows, cols int, fill string) *table {
	t := &table{title: title, cells: make([][]string, rows)}
	for r := range t.cells {
		t.cells[r] = make([]string, cols)
		for c := range t.cells[r] {
			t.cells[r][c] = fill
		}
	}
	return t
}

func (t *table) view(active ...event.Cell) event.DPTable {
	cells := make([][]string, len(t.cells))
	for r, row := range t.cells {
		cells[r] = slices.Clone(row)
	}
	return event.DPTable{
		Title:     t.title,
		RowLabels: slices.Clone(t.rowLabels),
		ColLabels: slices.Clone(t.colLabels),
		Cells:     cells,
		Active:    slices.Clone(active),
	}
}

func numbers(lo, hi int) []string {
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func anyArray() algorithm.ValidateFunc {
	return algorithm.ArraySize(0, algorithm.MaxArrayLen, 0)
}
