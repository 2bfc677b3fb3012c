package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/algorithms/catalog"
)

// inputFlags are the ways to hand an input to run and play. Without any of them the
// algorithm's built-in sample is used.
type inputFlags struct {
	values    string
	target    float64
	edges     string
	directed  bool
	start     string
	inputFile string
	params    []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.values, "values", "", `array input, e.g. "5,2,8,1"`)
	fl.Float64Var(&f.target, "target", 0, "search target for array algorithms")
	fl.StringVar(&f.edges, "edges", "", `graph input as an edge list, e.g. "A-B:4,B-C"`)
	fl.BoolVar(&f.directed, "directed", false, "treat --edges as directed")
	fl.StringVar(&f.start, "start", "", "start node for graph algorithms")
	fl.StringVarP(&f.inputFile, "input", "i", "", "read the input from a JSON file")
	fl.StringArrayVarP(&f.params, "param", "p", nil, "algorithm parameter as key=value (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("values", "edges", "input")
}

func (f *inputFlags) resolve(cmd *cobra.Command, d algorithm.Descriptor) (algorithm.Input, map[string]any, error) {
	params, err := algorithm.ParseParamFlags(f.params)
	if err != nil {
		return nil, nil, err
	}
	in, err := f.input(cmd, d)
	if err != nil {
		return nil, nil, err
	}
	return in, params, nil
}

func (f *inputFlags) input(cmd *cobra.Command, d algorithm.Descriptor) (algorithm.Input, error) {
	if f.inputFile != "" {
		raw, err := os.ReadFile(f.inputFile)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return algorithm.DecodeInput(d.InputKind, raw)
	}
	switch d.InputKind {
	case algorithm.InputArray:
		if f.edges != "" {
			return nil, fmt.Errorf("%s takes an array input, not --edges", d.ID)
		}
		in := algorithm.ArrayInput{}
		if f.values == "" {
			in = catalog.Sample(d).(algorithm.ArrayInput)
		} else {
			vs, err := algorithm.ParseValues(f.values)
			if err != nil {
				return nil, err
			}
			in.Values = vs
		}
		if cmd.Flags().Changed("target") {
			t := f.target
			in.Target = &t
		}
		return in, nil
	default:
		if f.values != "" {
			return nil, fmt.Errorf("%s takes a graph input, not --values", d.ID)
		}
		g := catalog.Sample(d).(algorithm.GraphInput)
		if f.edges != "" {
			var err error
			if g, err = algorithm.ParseEdgeList(f.edges, f.directed); err != nil {
				return nil, err
			}
		}
		if f.start != "" {
			g.Start = f.start
		}
		return g, nil
	}
}
