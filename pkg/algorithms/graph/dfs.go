package graph

import (
	"slices"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
)

func DFS() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "dfs",
		Name:       "Depth-First Search",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"dfs(node):",
			"  visited.add(node)",
			"  for each neighbor of node:",
			"    if neighbor not in visited: dfs(neighbor)",
			"  return to caller",
			"return visit order",
		},
		Complexity: algorithm.Complexity{Best: "O(V + E)", Average: "O(V + E)", Worst: "O(V + E)", Space: "O(V)"},
		InputKind:  algorithm.InputGraph,
		Validate:   algorithm.GraphSize(1, 15, false),
		Produce: func(in algorithm.Input, _ algorithm.Params) algorithm.Producer {
			g, ok := in.(algorithm.GraphInput)
			if !ok {
				return algorithm.Fail(errmodel.Producer("input_type", "dfs needs a graph input", nil, nil))
			}
			return newDFS(g)
		},
	}
}

// dfsRun is the state shared by every frame of one traversal.
type dfsRun struct {
	g       algorithm.GraphInput
	c       *canvas
	stack   *algorithm.Stack
	visited map[string]bool
	order   []string
	calls   []string
}

// newDFS builds the traversal as explicit frames: the bottom frame reports the result once
// the frame of the start node and all of its descendants have finished.
func newDFS(g algorithm.GraphInput) algorithm.Producer {
	run := &dfsRun{g: g, c: newCanvas(g), visited: map[string]bool{}}
	done := false
	run.stack = algorithm.NewStack(algorithm.FrameFunc(func() (event.Event, bool, error) {
		if done {
			return nil, false, nil
		}
		done = true
		return event.Result{Value: event.Order(slices.Clone(run.order))}, true, nil
	}))
	run.stack.Push(run.frame(g.StartNode(), ""))
	return run.stack
}

// dfsFrame is one activation of dfs(node).
type dfsFrame struct {
	run     *dfsRun
	node    string
	parent  string
	entered bool
	left    bool
	nbrs    []algorithm.Edge
	next    int
	pending []event.Event
}

func (r *dfsRun) frame(node, parent string) *dfsFrame {
	return &dfsFrame{run: r, node: node, parent: parent}
}

func (f *dfsFrame) Next() (event.Event, bool, error) {
	r := f.run
	for {
		if len(f.pending) > 0 {
			e := f.pending[0]
			f.pending = f.pending[1:]
			return e, true, nil
		}
		switch {
		case !f.entered:
			f.entered = true
			r.visited[f.node] = true
			r.order = append(r.order, f.node)
			r.calls = append(r.calls, f.node)
			if f.parent != "" {
				r.c.touch(f.parent, f.node)
			}
			f.nbrs = r.g.Neighbors(f.node)
			f.pending = append(f.pending,
				event.Highlight{Lines: []int{0, 1}},
				event.Mark{Indices: []int{r.c.index[f.node]}, Tag: event.TagCurrent},
				event.Message{Text: "Visit " + r.g.Label(f.node), Level: event.LevelStep},
				event.Auxiliary{Aux: r.c.view(r.order, nil, f.node, nil)},
			)
		case f.next < len(f.nbrs):
			e := f.nbrs[f.next]
			f.next++
			if r.visited[e.Target] {
				f.pending = append(f.pending, event.Metric{Name: "edges_examined", Delta: 1})
				continue
			}
			// descend: the child frame runs before this frame resumes
			r.stack.Push(r.frame(e.Target, f.node))
			return event.Highlight{Lines: []int{2, 3}}, true, nil
		case !f.left:
			f.left = true
			r.calls = r.calls[:len(r.calls)-1]
			idx := r.c.index[f.node]
			f.pending = append(f.pending,
				event.Highlight{Lines: []int{4}},
				event.Unmark{Indices: []int{idx}, Tag: event.TagCurrent},
				event.Mark{Indices: []int{idx}, Tag: event.TagVisited},
				event.Auxiliary{Aux: event.StackView{Title: "call stack", Items: labels(r.g, r.calls)}},
			)
		default:
			return nil, false, nil
		}
	}
}

func (f *dfsFrame) Close() {}
