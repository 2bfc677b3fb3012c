package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

func mustGraph(t *testing.T, spec string, directed bool) algorithm.GraphInput {
	t.Helper()
	g, err := algorithm.ParseEdgeList(spec, directed)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func last(t *testing.T, d algorithm.Descriptor, g algorithm.GraphInput, params map[string]any) trace.Snapshot {
	t.Helper()
	if v := d.Validate(g); !v.OK {
		t.Fatalf("validate: %s", v.Error)
	}
	tl, err := trace.NewMaterializer().Run(t.Context(), d, g, params)
	if err != nil {
		t.Fatal(err)
	}
	return tl.Last()
}

func TestBFS_VisitOrder(t *testing.T) {
	s := last(t, BFS(), mustGraph(t, "A-B,B-C", false), nil)
	if diff := cmp.Diff(event.Order{"A", "B", "C"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	view, ok := s.Aux.(event.GraphView)
	if !ok || len(view.Visited) != 3 {
		t.Fatalf("aux=%#v", s.Aux)
	}
}

func TestBFS_LevelOrder(t *testing.T) {
	s := last(t, BFS(), mustGraph(t, "A-B,A-C,B-D,C-E,D-F", false), nil)
	if diff := cmp.Diff(event.Order{"A", "B", "C", "D", "E", "F"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDFS_VisitOrder(t *testing.T) {
	g := mustGraph(t, "A-B,A-C,B-D,C-D", false)
	s := last(t, DFS(), g, nil)
	if diff := cmp.Diff(event.Order{"A", "B", "D", "C"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	for i := range g.Nodes {
		if !s.HasTag(i, event.TagVisited) {
			t.Fatalf("node %d not visited: %v", i, s.Marks)
		}
	}
}

func TestDFS_DirectedUnreachable(t *testing.T) {
	g := mustGraph(t, "A-B,C-A", true)
	s := last(t, DFS(), g, nil)
	if diff := cmp.Diff(event.Order{"A", "B"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDijkstra(t *testing.T) {
	g := mustGraph(t, "A-B:4,A-C:1,C-B:2,B-D:5", false)
	s := last(t, Dijkstra(), g, map[string]any{"target": "D"})
	if diff := cmp.Diff(event.Order{"A", "C", "B", "D"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	all := last(t, Dijkstra(), g, nil)
	want := event.Items{{Label: "A", Value: "0"}, {Label: "B", Value: "3"}, {Label: "C", Value: "1"}, {Label: "D", Value: "8"}}
	if diff := cmp.Diff(want, all.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDijkstra_NoPath(t *testing.T) {
	g := mustGraph(t, "A-B:1,C", false)
	s := last(t, Dijkstra(), g, map[string]any{"target": "C"})
	if diff := cmp.Diff(event.NotFound{Reason: "no path found"}, s.Result); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValidate_RejectsBadGraphs(t *testing.T) {
	tooBig := algorithm.GraphInput{}
	for i := 0; i < 16; i++ {
		tooBig.Nodes = append(tooBig.Nodes, algorithm.Node{ID: string(rune('a' + i))})
	}
	dangling := algorithm.GraphInput{Nodes: []algorithm.Node{{ID: "A"}, {ID: "B"}}, Edges: []algorithm.Edge{{Source: "A", Target: "Z"}}}
	negative := algorithm.GraphInput{Nodes: []algorithm.Node{{ID: "A"}, {ID: "B"}}, Edges: []algorithm.Edge{{Source: "A", Target: "B", Weight: -1}}}
	for name, tc := range map[string]struct {
		d algorithm.Descriptor
		g algorithm.GraphInput
	}{
		"bfs too big":       {BFS(), tooBig},
		"dfs dangling edge": {DFS(), dangling},
		"dijkstra negative": {Dijkstra(), negative},
	} {
		if v := tc.d.Validate(tc.g); v.OK {
			t.Fatalf("%s: accepted", name)
		}
	}
}
