package algorithm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wilhg/stepviz/pkg/errmodel"
)

// InputKind selects how a raw input payload is decoded.
type InputKind string

const (
	InputArray InputKind = "array"
	InputGraph InputKind = "graph"
)

// Input is an opaque payload passed through to Validate and Produce.
type Input interface {
	InputKind() InputKind
}

// ArrayInput is a list of numbers plus an optional search target.
type ArrayInput struct {
	Values []float64 `json:"values" jsonschema:"the numbers to visualize"`
	Target *float64  `json:"target,omitempty" jsonschema:"target value for search style algorithms"`
}

// Node is a graph vertex. X and Y are layout hints in [0,1].
type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// Edge connects two node ids.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// GraphInput is a small graph. Start names the traversal origin; empty means the first node.
type GraphInput struct {
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
	IsDirected bool   `json:"isDirected,omitempty"`
	IsWeighted bool   `json:"isWeighted,omitempty"`
	Start      string `json:"start,omitempty" jsonschema:"id of the start node"`
}

func (ArrayInput) InputKind() InputKind { return InputArray }
func (GraphInput) InputKind() InputKind { return InputGraph }

// TargetOr returns the target, or def when none was given.
func (in ArrayInput) TargetOr(def float64) float64 {
	if in.Target == nil {
		return def
	}
	return *in.Target
}

// StartNode returns the start node id, defaulting to the first node.
func (g GraphInput) StartNode() string {
	if g.Start != "" {
		return g.Start
	}
	if len(g.Nodes) > 0 {
		return g.Nodes[0].ID
	}
	return ""
}

// Label returns the display label of a node id.
func (g GraphInput) Label(id string) string {
	for _, n := range g.Nodes {
		if n.ID == id {
			if n.Label != "" {
				return n.Label
			}
			return n.ID
		}
	}
	return id
}

// HasNode reports whether id is a node of g.
func (g GraphInput) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Neighbors returns the adjacency of id in edge declaration order. Undirected edges are
// followed both ways.
func (g GraphInput) Neighbors(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		switch {
		case e.Source == id:
			out = append(out, e)
		case !g.IsDirected && e.Target == id:
			out = append(out, Edge{Source: id, Target: e.Source, Weight: e.Weight})
		}
	}
	return out
}

var (
	arraySchema = sync.OnceValues(func() (*jsonschema.Resolved, error) { return resolve[ArrayInput]() })
	graphSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) { return resolve[GraphInput]() })
)

func resolve[T any]() (*jsonschema.Resolved, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}

// InputSchema returns the JSON Schema of an input kind, derived from the Go types.
func InputSchema(kind InputKind) (*jsonschema.Schema, error) {
	switch kind {
	case InputArray:
		return jsonschema.For[ArrayInput](nil)
	case InputGraph:
		return jsonschema.For[GraphInput](nil)
	default:
		return nil, fmt.Errorf("unknown input kind %q", kind)
	}
}

// DecodeInput checks raw JSON against the schema of kind and decodes it.
func DecodeInput(kind InputKind, raw []byte) (Input, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errmodel.Validation("bad_json", "input is not valid JSON", map[string]any{"error": err.Error()})
	}
	var (
		rs  *jsonschema.Resolved
		err error
	)
	switch kind {
	case InputArray:
		rs, err = arraySchema()
	case InputGraph:
		rs, err = graphSchema()
	default:
		return nil, errmodel.Validation("bad_input_kind", fmt.Sprintf("unknown input kind %q", kind), nil)
	}
	if err != nil {
		return nil, errmodel.System("schema", "input schema unavailable", nil, err)
	}
	if err := rs.Validate(doc); err != nil {
		return nil, errmodel.Validation("invalid_input", err.Error(), map[string]any{"kind": string(kind)})
	}
	switch kind {
	case InputArray:
		var in ArrayInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, errmodel.Validation("invalid_input", err.Error(), nil)
		}
		return in, nil
	default:
		var in GraphInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, errmodel.Validation("invalid_input", err.Error(), nil)
		}
		return in, nil
	}
}

// ParseValues parses a comma or space separated number list such as "5,2,4".
func ParseValues(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %q is not a finite number", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseEdgeList builds a graph from "A-B,B-C:4,D" style text. Nodes are created in order of
// first appearance; a ":w" suffix sets the edge weight and marks the graph weighted. A bare
// id adds an isolated node.
func ParseEdgeList(s string, directed bool) (GraphInput, error) {
	g := GraphInput{IsDirected: directed}
	seen := map[string]bool{}
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			g.Nodes = append(g.Nodes, Node{ID: id, Label: id})
		}
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		spec, weight, hasWeight := strings.Cut(part, ":")
		from, to, _ := strings.Cut(spec, "-")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from == "" {
			return GraphInput{}, fmt.Errorf("edge %q: want A-B, A-B:weight or a lone node", part)
		}
		addNode(from)
		if to == "" {
			continue
		}
		addNode(to)
		e := Edge{Source: from, Target: to}
		if hasWeight {
			w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
			if err != nil {
				return GraphInput{}, fmt.Errorf("edge %q: bad weight", part)
			}
			e.Weight = w
			g.IsWeighted = true
		}
		g.Edges = append(g.Edges, e)
	}
	layoutCircle(g.Nodes)
	return g, nil
}
