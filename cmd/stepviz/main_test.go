package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wilhg/stepviz/pkg/errmodel"
)

// execute runs the CLI with logs sent to a temp file and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd, a := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "stepviz.log")}, args...))
	err := a.execute(t.Context(), cmd)
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("stepviz %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestVersion(t *testing.T) {
	out := mustExecute(t, "version")
	if !strings.HasPrefix(out, "stepviz dev") {
		t.Fatalf("out=%q", out)
	}
}

func TestList(t *testing.T) {
	out := mustExecute(t, "list")
	for _, id := range []string{"bubble-sort", "dijkstra", "lcs", "meeting-rooms", "binary-search"} {
		if !strings.Contains(out, id) {
			t.Fatalf("list lacks %s:\n%s", id, out)
		}
	}
	graphs := mustExecute(t, "list", "--category", "graph")
	if strings.Contains(graphs, "bubble-sort") || !strings.Contains(graphs, "bfs") {
		t.Fatalf("category filter:\n%s", graphs)
	}
	if _, err := execute(t, "list", "--category", "nope"); err == nil {
		t.Fatal("unknown category must fail")
	}
}

func TestDescribe(t *testing.T) {
	out := mustExecute(t, "describe", "knapsack-01")
	for _, want := range []string{"capacity", "parameters:", "space"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe lacks %q:\n%s", want, out)
		}
	}
	raw := mustExecute(t, "describe", "--json", "bubble-sort")
	var d struct {
		ID         string   `json:"id"`
		Pseudocode []string `json:"pseudocode"`
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatal(err)
	}
	if d.ID != "bubble-sort" || len(d.Pseudocode) == 0 {
		t.Fatalf("descriptor=%+v", d)
	}
	if _, err := execute(t, "describe", "nope"); err == nil {
		t.Fatal("unknown algorithm must fail")
	}
}

func TestRun(t *testing.T) {
	out := mustExecute(t, "run", "bubble-sort", "--values", "3,1,2")
	for _, want := range []string{"input  [3, 1, 2]", "output [1, 2, 3]", "result [1, 2, 3]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run lacks %q:\n%s", want, out)
		}
	}
	verbose := mustExecute(t, "run", "bubble-sort", "--values", "2,1", "-v")
	if !strings.Contains(verbose, "swap") || !strings.Contains(verbose, "values[0]: 2 -> 1") {
		t.Fatalf("verbose:\n%s", verbose)
	}
	sample := mustExecute(t, "run", "binary-search")
	if !strings.Contains(sample, "result") {
		t.Fatalf("sample run:\n%s", sample)
	}
	graph := mustExecute(t, "run", "bfs", "--edges", "A-B,B-C,A-D", "--start", "B")
	if !strings.Contains(graph, "result") {
		t.Fatalf("graph run:\n%s", graph)
	}
}

func TestRun_Metrics(t *testing.T) {
	out := mustExecute(t, "run", "insertion-sort", "--values", "2,1", "--metrics")
	for _, want := range []string{
		`stepviz_timelines_materialized_total{algorithm="insertion-sort"}`,
		"stepviz_events_folded_total",
		"stepviz_materialize_duration_seconds_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics lack %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "go_goroutines") {
		t.Fatalf("runtime metrics written:\n%s", out)
	}
}

func TestExecute_ClosesAfterFailure(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "stepviz.log")
	cmd, a := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--log-file", logFile, "--debug", "run", "insertion-sort", "--values", "2,1",
		"--export", filepath.Join(t.TempDir(), "missing", "capture.json")})
	if err := a.execute(t.Context(), cmd); err == nil || !strings.Contains(err.Error(), "write capture") {
		t.Fatalf("err=%v", err)
	}
	if a.closers != nil {
		t.Fatalf("%d closers left open", len(a.closers))
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "timeline materialized") {
		t.Fatalf("log:\n%s", data)
	}
}

func TestRun_Rejects(t *testing.T) {
	cases := [][]string{
		{"run", "nope"},
		{"run", "bfs", "--values", "1,2"},
		{"run", "bubble-sort", "--edges", "A-B"},
		{"run", "bubble-sort", "--values", "1,x"},
		{"run", "bubble-sort", "--values", "1,2", "-p", "nope=1"},
		{"run", "sliding-window-max-sum", "--values", "1,2,3", "-p", "k"},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("%v must fail", args)
		}
	}
}

func TestRun_ExportThenReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	mustExecute(t, "run", "selection-sort", "--values", "4,2,9,1", "--export", path)
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	out := mustExecute(t, "replay", path)
	if !strings.Contains(out, "output [1, 2, 4, 9]") {
		t.Fatalf("replay:\n%s", out)
	}
}

func TestEval(t *testing.T) {
	dir := t.TempDir()
	fixture := `{"name": "sorts", "algorithm": "merge-sort", "input": {"values": [3, 1, 2]}, "expect": {"values": [1, 2, 3]}}`
	if err := os.WriteFile(filepath.Join(dir, "sorts.json"), []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}
	out := mustExecute(t, "eval", dir)
	if !strings.Contains(out, "1/1 fixtures passed") {
		t.Fatalf("eval:\n%s", out)
	}
	bad := `{"name": "wrong", "algorithm": "merge-sort", "input": {"values": [3, 1, 2]}, "expect": {"values": [3, 2, 1]}}`
	if err := os.WriteFile(filepath.Join(dir, "wrong.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "eval", dir)
	if !errmodel.IsCategory(err, errmodel.CategoryPolicy) || !errmodel.HasCode(err, "score_below_minimum") || !strings.Contains(out, "FAIL wrong") {
		t.Fatalf("err=%v out:\n%s", err, out)
	}
	mustExecute(t, "eval", dir, "--min-score", "0.5")
}

func TestScriptsDir(t *testing.T) {
	dir := t.TempDir()
	src := `
return {
	id = "touch-all",
	name = "Touch all",
	run = function(input, params)
		for i = 0, #input.values - 1 do
			viz.mark("current", i)
		end
		viz.result(#input.values)
	end,
}
`
	if err := os.WriteFile(filepath.Join(dir, "touch.lua"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STEPVIZ_SCRIPTS_DIR", dir)
	if out := mustExecute(t, "list", "--category", "scripts"); !strings.Contains(out, "touch-all") {
		t.Fatalf("list:\n%s", out)
	}
	if out := mustExecute(t, "run", "touch-all", "--values", "1,2,3"); !strings.Contains(out, "result 3") {
		t.Fatalf("run:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepviz.yaml")
	if err := os.WriteFile(path, []byte("maxEvents: 5\nmaxScriptEvents: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "run", "bubble-sort", "--values", "5,4,3,2,1"); err == nil {
		t.Fatal("a run past maxEvents must fail")
	}
	if _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list"); err == nil {
		t.Fatal("a missing config file must fail")
	}
}
