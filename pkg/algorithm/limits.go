package algorithm

import (
	"fmt"
	"math"
)

// Size caps shared by the catalog. They keep traces short enough to follow step by step.
const (
	MinArrayLen = 2
	MaxArrayLen = 20
)

// ArraySize returns a validator accepting arrays with lo..hi finite values, each within
// [-bound, bound] when bound > 0.
func ArraySize(lo, hi int, bound float64) ValidateFunc {
	return ValidateWith(func(in ArrayInput) Validation {
		if n := len(in.Values); n < lo || n > hi {
			return Invalid("need between %d and %d values, got %d", lo, hi, n)
		}
		for i, v := range in.Values {
			if !finite(v) {
				return Invalid("value %d is not a finite number", i)
			}
		}
		if in.Target != nil && !finite(*in.Target) {
			return Invalid("target is not a finite number")
		}
		if bound > 0 {
			for _, v := range in.Values {
				if v < -bound || v > bound {
					return Invalid("values must lie within ±%s", fmtBound(bound))
				}
			}
		}
		return Valid()
	})
}

// GraphSize returns a validator for graphs with lo..hi nodes whose edges reference known
// nodes. Weighted checks reject negative weights.
func GraphSize(lo, hi int, nonNegative bool) ValidateFunc {
	return ValidateWith(func(g GraphInput) Validation {
		if n := len(g.Nodes); n < lo || n > hi {
			return Invalid("need between %d and %d nodes, got %d", lo, hi, n)
		}
		seen := make(map[string]bool, len(g.Nodes))
		for _, n := range g.Nodes {
			if n.ID == "" {
				return Invalid("node without id")
			}
			if seen[n.ID] {
				return Invalid("duplicate node %q", n.ID)
			}
			seen[n.ID] = true
		}
		for _, e := range g.Edges {
			if !seen[e.Source] || !seen[e.Target] {
				return Invalid("edge %s-%s references an unknown node", e.Source, e.Target)
			}
			if nonNegative && e.Weight < 0 {
				return Invalid("edge %s-%s has negative weight", e.Source, e.Target)
			}
		}
		if g.Start != "" && !seen[g.Start] {
			return Invalid("start node %q is not in the graph", g.Start)
		}
		return Valid()
	})
}

// All runs validators in order and returns the first failure.
func All(fns ...ValidateFunc) ValidateFunc {
	return func(in Input) Validation {
		for _, fn := range fns {
			if v := fn(in); !v.OK {
				return v
			}
		}
		return Valid()
	}
}

func fmtBound(b float64) string { return fmt.Sprintf("%g", b) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
