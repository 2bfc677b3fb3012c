package graph

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func BFS() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "bfs",
		Name:       "Breadth-First Search",
		Category:   category,
		Difficulty: algorithm.Easy,
		Pseudocode: []string{
			"queue = [start]; visited = {start}",
			"while queue is not empty:",
			"  node = queue.dequeue()",
			"  for each neighbor of node:",
			"    if neighbor not in visited:",
			"      visited.add(neighbor); queue.enqueue(neighbor)",
			"return visit order",
		},
		Complexity: algorithm.Complexity{Best: "O(V + E)", Average: "O(V + E)", Worst: "O(V + E)", Space: "O(V)"},
		InputKind:  algorithm.InputGraph,
		Validate:   algorithm.GraphSize(1, 15, false),
		Produce:    algorithm.ProduceWith(bfs),
	}
}

func bfs(em *algorithm.Emitter, g algorithm.GraphInput, _ algorithm.Params) {
	c := newCanvas(g)
	start := g.StartNode()
	queue := []string{start}
	visited := map[string]bool{start: true}
	var order []string

	em.Highlight(0)
	em.Aux(c.view(order, queue, "", nil))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		em.Highlight(1, 2)
		em.Mark(event.TagCurrent, c.index[node])
		em.Step("Visit %s", g.Label(node))
		em.Aux(c.view(order, queue, node, nil))
		for _, e := range g.Neighbors(node) {
			em.Highlight(3, 4)
			em.Metric("edges_examined", 1)
			if visited[e.Target] {
				continue
			}
			visited[e.Target] = true
			queue = append(queue, e.Target)
			c.touch(node, e.Target)
			em.Highlight(5)
			em.Mark(event.TagSelected, c.index[e.Target])
			em.Aux(c.view(order, queue, node, nil))
		}
		em.Unmark(event.TagCurrent, c.index[node])
		em.Mark(event.TagVisited, c.index[node])
	}
	em.Highlight(6)
	em.Message(event.LevelSuccess, "Visit order: %s", event.Order(labels(g, order)).String())
	em.Result(event.Order(order))
}

func labels(g algorithm.GraphInput, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Label(id)
	}
	return out
}
