// Package catalog assembles the built-in algorithm families into one registry.
package catalog

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/algorithms/dp"
	"github.com/wilhg/stepviz/pkg/algorithms/graph"
	"github.com/wilhg/stepviz/pkg/algorithms/greedy"
	"github.com/wilhg/stepviz/pkg/algorithms/searching"
	"github.com/wilhg/stepviz/pkg/algorithms/sorting"
)

// Descriptors returns every built-in descriptor, family by family.
func Descriptors() []algorithm.Descriptor {
	var out []algorithm.Descriptor
	for _, family := range [][]algorithm.Descriptor{
		sorting.Descriptors(),
		searching.Descriptors(),
		graph.Descriptors(),
		dp.Descriptors(),
		greedy.Descriptors(),
	} {
		out = append(out, family...)
	}
	return out
}

// Default builds the registry of built-in algorithms plus any extra descriptors, such as
// loaded scripts or user code.
func Default(extra ...algorithm.Descriptor) (*algorithm.Registry, error) {
	return algorithm.NewRegistry(append(Descriptors(), extra...)...)
}

// Sample returns a demo input that d accepts, used when a caller does not supply one.
func Sample(d algorithm.Descriptor) algorithm.Input {
	switch d.InputKind {
	case algorithm.InputGraph:
		g, _ := algorithm.ParseEdgeList("A-B:4,A-C:2,B-C:1,B-D:5,C-D:8,C-E:10,D-E:2", false)
		return g
	default:
		target := 8.0
		return algorithm.ArrayInput{Values: []float64{5, 2, 8, 1, 9, 3}, Target: &target}
	}
}
