package graph

import (
	"math"
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func Dijkstra() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "dijkstra",
		Name:       "Dijkstra's Shortest Paths",
		Category:   category,
		Difficulty: algorithm.Hard,
		Pseudocode: []string{
			"dist[start] = 0; dist[others] = ∞",
			"while some unvisited node has finite dist:",
			"  u = unvisited node with smallest dist",
			"  for each edge (u, v, w):",
			"    if dist[u] + w < dist[v]: dist[v] = dist[u] + w; prev[v] = u",
			"  visited.add(u)",
			"return dist (and the path to target)",
		},
		Complexity: algorithm.Complexity{Best: "O(V²)", Average: "O(V²)", Worst: "O(V²)", Space: "O(V)"},
		Params: []algorithm.ParamSpec{
			{ID: "target", Label: "Target node (empty = all distances)", Type: algorithm.ParamText, Default: ""},
		},
		InputKind:   algorithm.InputGraph,
		Description: "Edges without a weight count as weight 1. Negative weights are rejected.",
		Validate:    algorithm.GraphSize(2, 10, true),
		Produce:     algorithm.ProduceWith(dijkstra),
	}
}

func weight(e algorithm.Edge) float64 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}

func dijkstra(em *algorithm.Emitter, g algorithm.GraphInput, p algorithm.Params) {
	c := newCanvas(g)
	start := g.StartNode()
	dist := make(map[string]float64, len(g.Nodes))
	prev := map[string]string{}
	for _, n := range g.Nodes {
		dist[n.ID] = math.Inf(1)
	}
	dist[start] = 0
	done := map[string]bool{}
	var visited []string

	distances := func() []event.NodeValue {
		out := make([]event.NodeValue, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			out = append(out, event.NodeValue{Node: n.ID, Value: fmtDist(dist[n.ID])})
		}
		return out
	}

	em.Highlight(0)
	em.Aux(c.view(nil, []string{start}, "", distances()))
	for {
		u := ""
		for _, n := range g.Nodes {
			if !done[n.ID] && !math.IsInf(dist[n.ID], 1) && (u == "" || dist[n.ID] < dist[u]) {
				u = n.ID
			}
		}
		if u == "" {
			break
		}
		em.Highlight(1, 2)
		em.Mark(event.TagCurrent, c.index[u])
		em.Step("Settle %s at distance %s", g.Label(u), fmtDist(dist[u]))
		for _, e := range g.Neighbors(u) {
			if done[e.Target] {
				continue
			}
			em.Highlight(3)
			em.Compare(c.index[u], c.index[e.Target])
			if nd := dist[u] + weight(e); nd < dist[e.Target] {
				dist[e.Target] = nd
				prev[e.Target] = u
				c.touch(u, e.Target)
				em.Highlight(4)
				em.Metric("relaxations", 1)
				em.Aux(c.view(visited, frontier(g, done, dist), u, distances()))
			}
		}
		done[u] = true
		visited = append(visited, u)
		em.Highlight(5)
		em.Unmark(event.TagCurrent, c.index[u])
		em.Mark(event.TagVisited, c.index[u])
		em.Aux(c.view(visited, frontier(g, done, dist), "", distances()))
	}

	em.Highlight(6)
	target := p.String("target")
	if target == "" {
		items := make(event.Items, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			items = append(items, event.Item{Label: g.Label(n.ID), Value: fmtDist(dist[n.ID])})
		}
		em.Result(items)
		return
	}
	if !g.HasNode(target) || math.IsInf(dist[target], 1) {
		em.Message(event.LevelWarning, "No path from %s to %s", g.Label(start), target)
		em.Result(event.NotFound{Reason: "no path found"})
		return
	}
	path := []string{target}
	for at := target; at != start; {
		at = prev[at]
		path = append(path, at)
	}
	slices.Reverse(path)
	idx := make([]int, len(path))
	for i, id := range path {
		idx[i] = c.index[id]
	}
	em.Mark(event.TagFound, idx...)
	em.Message(event.LevelSuccess, "Shortest path %s has length %s", event.Order(labels(g, path)).String(), fmtDist(dist[target]))
	em.Result(event.Order(path))
}

func frontier(g algorithm.GraphInput, done map[string]bool, dist map[string]float64) []string {
	var out []string
	for _, n := range g.Nodes {
		if !done[n.ID] && !math.IsInf(dist[n.ID], 1) {
			out = append(out, n.ID)
		}
	}
	return out
}

func fmtDist(d float64) string {
	if math.IsInf(d, 1) {
		return "∞"
	}
	return event.FormatValue(d)
}
