// Package eval scores the algorithm catalog against fixture cases and checks that captured
// runs still reproduce.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/trace"
)

// Fixture represents one algorithm evaluation case.
type Fixture struct {
	Name      string          `json:"name"`
	Algorithm string          `json:"algorithm"`
	Input     json.RawMessage `json:"input"`
	Params    map[string]any  `json:"params,omitempty"`
	Expect    Expectation     `json:"expect"`
}

// Expectation lists the checks a fixture makes. Empty fields are not checked.
type Expectation struct {
	// Result is compared with the final result's String form.
	Result    string    `json:"result,omitempty"`
	Values    []float64 `json:"values,omitempty"`
	MinEvents int       `json:"min_events,omitempty"`
	// Error is the expected error code; the run must fail with it.
	Error string `json:"error,omitempty"`
}

// EvaluateFixtures loads fixtures from an fs.FS directory (json files), materializes each
// against reg and evaluates its expectations. Returns score [0,1].
func EvaluateFixtures(ctx context.Context, reg *algorithm.Registry, m *trace.Materializer, fsys fs.FS, dir string) (score float64, total int, passed int, details []string, err error) {
	fixtures, err := loadFixtures(fsys, dir)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	total = len(fixtures)
	if total == 0 {
		return 1, 0, 0, nil, nil
	}
	for _, fx := range fixtures {
		problems := evaluate(ctx, reg, m, fx)
		for _, p := range problems {
			details = append(details, fx.Name+": "+p)
		}
		if len(problems) == 0 {
			passed++
		}
	}
	score = float64(passed) / float64(total)
	return score, total, passed, details, nil
}

func evaluate(ctx context.Context, reg *algorithm.Registry, m *trace.Materializer, fx Fixture) []string {
	d, ok := reg.Lookup(fx.Algorithm)
	if !ok {
		return []string{fmt.Sprintf("unknown algorithm %q", fx.Algorithm)}
	}
	tl, err := run(ctx, d, m, fx)
	if fx.Expect.Error != "" {
		if !errmodel.HasCode(err, fx.Expect.Error) {
			return []string{fmt.Sprintf("want error %s, got %v", fx.Expect.Error, err)}
		}
		return nil
	}
	if err != nil {
		return []string{"run error: " + err.Error()}
	}

	var problems []string
	last := tl.Last()
	if want := fx.Expect.Result; want != "" {
		got := "<none>"
		if last.Result != nil {
			got = fmt.Sprint(last.Result)
		}
		if got != want {
			problems = append(problems, fmt.Sprintf("result %q, want %q", got, want))
		}
	}
	if want := fx.Expect.Values; want != nil && !slices.Equal(last.Values, want) {
		problems = append(problems, fmt.Sprintf("values %v, want %v", last.Values, want))
	}
	if tl.Len() < fx.Expect.MinEvents {
		problems = append(problems, fmt.Sprintf("%d events, want at least %d", tl.Len(), fx.Expect.MinEvents))
	}
	return problems
}

func run(ctx context.Context, d algorithm.Descriptor, m *trace.Materializer, fx Fixture) (*trace.Timeline, error) {
	in, err := algorithm.DecodeInput(d.InputKind, fx.Input)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, d, in, fx.Params)
}

func loadFixtures(fsys fs.FS, dir string) ([]Fixture, error) {
	var out []Fixture
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var fx Fixture
		if err := json.Unmarshal(b, &fx); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if fx.Name == "" {
			fx.Name = strings.TrimSuffix(e.Name(), ".json")
		}
		out = append(out, fx)
	}
	return out, nil
}
