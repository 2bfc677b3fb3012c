package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/eval"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/mcpserver"
	"github.com/wilhg/stepviz/pkg/otel"
	"github.com/wilhg/stepviz/pkg/trace"
	"github.com/wilhg/stepviz/pkg/tui"
)

func newListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().Headers("ID", "NAME", "CATEGORY", "DIFFICULTY", "INPUT")
			n := 0
			for _, d := range a.registry.List() {
				if category != "" && d.Category != category {
					continue
				}
				t.Row(d.ID, d.Name, d.Category, string(d.Difficulty), string(d.InputKind))
				n++
			}
			if n == 0 {
				return fmt.Errorf("no algorithms in category %q (have %s)", category, strings.Join(a.registry.Categories(), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe <algorithm>",
		Short: "Show an algorithm's pseudocode, complexity and parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			describe(out, d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the descriptor as JSON")
	return cmd
}

func describe(w io.Writer, d algorithm.Descriptor) {
	fmt.Fprintf(w, "%s (%s, %s, %s input)\n", d.Name, d.Category, d.Difficulty, d.InputKind)
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	c := d.Complexity
	fmt.Fprintf(w, "\ntime best %s, average %s, worst %s; space %s\n\n", c.Best, c.Average, c.Worst, c.Space)
	for i, line := range d.Pseudocode {
		fmt.Fprintf(w, "%3d  %s\n", i, line)
	}
	if len(d.Params) > 0 {
		fmt.Fprintln(w, "\nparameters:")
		for _, p := range d.Params {
			fmt.Fprintf(w, "  %-10s %-7s default %v  %s\n", p.ID, p.Type, p.Default, p.Label)
		}
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		in      inputFlags
		export  string
		verbose bool
		metrics bool
	)
	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Record a run and print its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			input, params, err := in.resolve(cmd, d)
			if err != nil {
				return err
			}
			tl, err := a.mat.Run(cmd.Context(), d, input, params)
			if err != nil {
				return err
			}
			printTimeline(cmd.OutOrStdout(), d, tl, verbose)
			if export != "" {
				data, err := trace.ExportJSON(trace.CaptureOf(tl))
				if err != nil {
					return err
				}
				if err := os.WriteFile(export, data, 0o644); err != nil {
					return fmt.Errorf("write capture: %w", err)
				}
				a.logger.Info("capture written", "path", export, "events", tl.Len())
			}
			if metrics {
				return otel.WriteMetrics(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&export, "export", "o", "", "write a replayable capture to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print what changed at every step")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "write the process metrics to stderr after the run")
	return cmd
}

// printTimeline lists the narrated steps of tl, or every step with its changes when verbose.
func printTimeline(w io.Writer, d algorithm.Descriptor, tl *trace.Timeline, verbose bool) {
	initial := tl.Initial()
	fmt.Fprintf(w, "%s: %d events\n", d.Name, tl.Len())
	if len(initial.Values) > 0 {
		fmt.Fprintf(w, "input  %s\n", algorithm.FormatValues(initial.Values))
	}
	prev := initial
	for i := 0; i < tl.Len(); i++ {
		s, _ := tl.At(i)
		if verbose {
			fmt.Fprintf(w, "%4d  %s\n", i, s.Event.Kind())
			for _, c := range trace.Diff(prev, s) {
				fmt.Fprintf(w, "        %s\n", c)
			}
		} else if m, ok := s.Event.(event.Message); ok {
			fmt.Fprintf(w, "%4d  %s\n", i, m.Text)
		}
		prev = s
	}
	last := tl.Last()
	if len(last.Values) > 0 {
		fmt.Fprintf(w, "output %s\n", algorithm.FormatValues(last.Values))
	}
	m := last.Metrics
	fmt.Fprintf(w, "comparisons %d, swaps %d, writes %d\n", m.Comparisons, m.Swaps, m.Writes)
	if last.Result != nil {
		fmt.Fprintf(w, "result %s\n", last.Result)
	}
}

func newPlayCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "play <algorithm>",
		Short: "Play a run interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			input, params, err := in.resolve(cmd, d)
			if err != nil {
				return err
			}
			p := a.newPlayer()
			if err := p.LoadInput(cmd.Context(), d.ID, input, params); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), p)
		},
	}
	in.register(cmd)
	return cmd
}

func newReplayCmd(a *app) *cobra.Command {
	var play bool
	cmd := &cobra.Command{
		Use:   "replay <capture.json>",
		Short: "Check that a capture still reproduces, then print or play it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read capture: %w", err)
			}
			c, err := trace.ImportJSON(data)
			if err != nil {
				return err
			}
			tl, err := eval.ReplayCapture(cmd.Context(), a.registry, a.mat, c)
			if err != nil {
				return err
			}
			if play {
				p := a.newPlayer()
				p.LoadTimeline(tl)
				return tui.Run(cmd.Context(), p)
			}
			d, _ := a.lookup(c.AlgorithmID)
			printTimeline(cmd.OutOrStdout(), d, tl, false)
			return nil
		},
	}
	cmd.Flags().BoolVar(&play, "play", false, "open the replayed run in the player")
	return cmd
}

func newEvalCmd(a *app) *cobra.Command {
	var minScore float64
	cmd := &cobra.Command{
		Use:   "eval <fixtures-dir>",
		Short: "Run the JSON fixtures in a directory and report which pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, total, passed, details, err := eval.EvaluateFixtures(cmd.Context(), a.registry, a.mat, os.DirFS(args[0]), ".")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range details {
				fmt.Fprintf(out, "FAIL %s\n", d)
			}
			fmt.Fprintf(out, "%d/%d fixtures passed (score %.2f)\n", passed, total, score)
			if score < minScore {
				return errmodel.Policy("score_below_minimum", fmt.Sprintf("score %.2f is below %.2f", score, minScore),
					map[string]any{"score": score, "min_score": minScore, "failed": total - passed})
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minScore, "min-score", 1, "fail when the score is below this")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the player as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Info("serving mcp over stdio", "algorithms", a.registry.Len())
			s := mcpserver.New(a.newPlayer(), version, mcpserver.WithLogger(a.logger))
			return s.ServeStdio(cmd.Context())
		},
	}
}
