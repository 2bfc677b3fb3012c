package trace

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/wilhg/stepviz/pkg/event"
)

// Change is one field that differs between two snapshots.
type Change struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Field, c.From, c.To)
}

// Diff lists what changed from a to b: values, marks, metrics, message, lines, aux and
// result. Equal snapshots yield nil.
func Diff(a, b Snapshot) []Change {
	var out []Change
	add := func(field, from, to string) {
		if from != to {
			out = append(out, Change{Field: field, From: from, To: to})
		}
	}

	n := max(len(a.Values), len(b.Values))
	for i := 0; i < n; i++ {
		add(fmt.Sprintf("values[%d]", i), valueAt(a.Values, i), valueAt(b.Values, i))
	}

	idx := map[int]bool{}
	for i := range a.Marks {
		idx[i] = true
	}
	for i := range b.Marks {
		idx[i] = true
	}
	keys := make([]int, 0, len(idx))
	for i := range idx {
		keys = append(keys, i)
	}
	sort.Ints(keys)
	for _, i := range keys {
		add(fmt.Sprintf("marks[%d]", i), tagList(a.Marks[i]), tagList(b.Marks[i]))
	}

	add("comparisons", fmt.Sprint(a.Metrics.Comparisons), fmt.Sprint(b.Metrics.Comparisons))
	add("swaps", fmt.Sprint(a.Metrics.Swaps), fmt.Sprint(b.Metrics.Swaps))
	add("writes", fmt.Sprint(a.Metrics.Writes), fmt.Sprint(b.Metrics.Writes))
	names := make([]string, 0, len(b.Metrics.Counters))
	for k := range b.Metrics.Counters {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		add("counter."+k, fmt.Sprint(a.Metrics.Counters[k]), fmt.Sprint(b.Metrics.Counters[k]))
	}

	add("message", messageText(a.Message), messageText(b.Message))
	if !slices.Equal(a.Lines, b.Lines) {
		add("lines", fmt.Sprint(a.Lines), fmt.Sprint(b.Lines))
	}
	add("aux", auxKind(a.Aux), auxKind(b.Aux))
	add("result", resultText(a.Result), resultText(b.Result))
	return out
}

func valueAt(vs []float64, i int) string {
	if i >= len(vs) {
		return "-"
	}
	return event.FormatValue(vs[i])
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, "+")
}

func messageText(m *event.Message) string {
	if m == nil {
		return "-"
	}
	return m.Text
}

func auxKind(a event.Aux) string {
	if a == nil {
		return "-"
	}
	return string(a.AuxKind())
}

func resultText(r event.ResultValue) string {
	if r == nil {
		return "-"
	}
	return r.String()
}
