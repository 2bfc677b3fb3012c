// Package graph provides the graph traversals of the catalog.
package graph

import (
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const category = "graph"

// Descriptors returns every graph algorithm.
func Descriptors() []algorithm.Descriptor {
	return []algorithm.Descriptor{BFS(), DFS(), Dijkstra()}
}

// canvas renders GraphView payloads for one input. Node positions are array indices for
// marks, so renderers can colour nodes the same way they colour bars.
type canvas struct {
	g     algorithm.GraphInput
	index map[string]int
	hot   map[[2]string]bool
}

func newCanvas(g algorithm.GraphInput) *canvas {
	c := &canvas{g: g, index: make(map[string]int, len(g.Nodes)), hot: map[[2]string]bool{}}
	for i, n := range g.Nodes {
		c.index[n.ID] = i
	}
	return c
}

// touch highlights the edge between a and b.
func (c *canvas) touch(a, b string) {
	c.hot[[2]string{a, b}] = true
	if !c.g.IsDirected {
		c.hot[[2]string{b, a}] = true
	}
}

func (c *canvas) view(visited, frontier []string, current string, values []event.NodeValue) event.GraphView {
	v := event.GraphView{
		Directed: c.g.IsDirected,
		Visited:  slices.Clone(visited),
		Frontier: slices.Clone(frontier),
		Current:  current,
		Values:   slices.Clone(values),
	}
	for _, n := range c.g.Nodes {
		v.Nodes = append(v.Nodes, event.GraphNode{ID: n.ID, Label: c.g.Label(n.ID), X: n.X, Y: n.Y})
	}
	for _, e := range c.g.Edges {
		v.Edges = append(v.Edges, event.GraphEdge{
			Source: e.Source, Target: e.Target, Weight: e.Weight,
			Highlighted: c.hot[[2]string{e.Source, e.Target}],
		})
	}
	return v
}
