// Package sorting provides the comparison sorts of the catalog.
package sorting

import (
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const category = "sorting"

// valueBound keeps bars drawable.
const valueBound = 999

// Descriptors returns every sorting algorithm.
func Descriptors() []algorithm.Descriptor {
	return []algorithm.Descriptor{Bubble(), Selection(), Insertion(), Merge(), Quick(), Heap()}
}

func validate() algorithm.ValidateFunc {
	return algorithm.ArraySize(algorithm.MinArrayLen, algorithm.MaxArrayLen, valueBound)
}

// finish marks every index sorted and reports the sorted values.
func finish(em *algorithm.Emitter, a []float64) {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = i
	}
	em.Mark(event.TagSorted, idx...)
	em.Message(event.LevelSuccess, "Sorted: %s", algorithm.FormatValues(a))
	em.Result(event.Text(algorithm.FormatValues(a)))
}

func working(in algorithm.ArrayInput) []float64 { return slices.Clone(in.Values) }
