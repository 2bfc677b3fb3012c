package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

const colWidth = 4

// renderBars draws one vertical bar per value, scaled to height rows, with value labels and
// pointer labels underneath.
func renderBars(s trace.Snapshot, height int) string {
	if len(s.Values) == 0 {
		return labelStyle.Render("(no values)")
	}
	peak := 0.0
	for _, v := range s.Values {
		peak = max(peak, math.Abs(v))
	}
	heights := make([]int, len(s.Values))
	for i, v := range s.Values {
		if peak > 0 {
			heights[i] = int(math.Round(math.Abs(v) / peak * float64(height)))
		}
		if v != 0 && heights[i] == 0 {
			heights[i] = 1
		}
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		for i := range s.Values {
			cell := strings.Repeat(" ", colWidth)
			if heights[i] >= row {
				cell = barStyle(s, i).Render(strings.Repeat("█", colWidth-1)) + " "
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	for _, v := range s.Values {
		b.WriteString(pad(event.FormatValue(v)))
	}
	b.WriteByte('\n')
	for i := range s.Values {
		b.WriteString(pad(pointerLabel(s.Pointers, i)))
	}
	return strings.TrimRight(b.String(), " \n")
}

func barStyle(s trace.Snapshot, i int) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorPrimary)
	if slices.Contains(s.Active, i) {
		return st.Foreground(colorHighlight)
	}
	for _, tc := range tagColors {
		if s.HasTag(i, tc.tag) {
			return st.Foreground(tc.color)
		}
	}
	return st
}

func pointerLabel(ps []event.PointerMark, i int) string {
	var labels []string
	for _, p := range ps {
		if p.Index == i {
			labels = append(labels, p.Label)
		}
	}
	return strings.Join(labels, ",")
}

func pad(s string) string {
	if r := []rune(s); len(r) >= colWidth {
		return string(r[:colWidth-1]) + " "
	}
	return s + strings.Repeat(" ", colWidth-len([]rune(s)))
}

// renderPseudocode marks the highlighted lines with an arrow.
func renderPseudocode(lines []string, highlighted []int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if slices.Contains(highlighted, i) {
			out[i] = activeLine.Render("▶ " + l)
		} else {
			out[i] = lineStyle.Render("  " + l)
		}
	}
	return strings.Join(out, "\n")
}

func renderMetrics(m trace.Metrics) string {
	parts := []string{
		fmt.Sprintf("comparisons %d", m.Comparisons),
		fmt.Sprintf("swaps %d", m.Swaps),
		fmt.Sprintf("writes %d", m.Writes),
	}
	names := make([]string, 0, len(m.Counters))
	for k := range m.Counters {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s %d", k, m.Counters[k]))
	}
	return strings.Join(parts, "  ")
}

func renderVariables(vs []event.Variable) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = labelStyle.Render(v.Name+" =") + " " + v.Value
	}
	return strings.Join(out, "  ")
}

func renderMessage(m *event.Message) string {
	if m == nil {
		return ""
	}
	c, ok := levelColors[m.Level]
	if !ok {
		c = levelColors[event.LevelInfo]
	}
	return lipgloss.NewStyle().Foreground(c).Render(m.Text)
}

// renderAux summarizes the auxiliary view as text.
func renderAux(a event.Aux) string {
	switch v := a.(type) {
	case nil:
		return ""
	case event.DPTable:
		return renderTable(v)
	case event.GraphView:
		var lines []string
		if v.Current != "" {
			lines = append(lines, "current  "+v.Current)
		}
		lines = append(lines, "visited  "+strings.Join(v.Visited, " "), "frontier "+strings.Join(v.Frontier, " "))
		if len(v.Values) > 0 {
			vals := make([]string, len(v.Values))
			for i, nv := range v.Values {
				vals[i] = nv.Node + "=" + nv.Value
			}
			lines = append(lines, "values   "+strings.Join(vals, " "))
		}
		return strings.Join(lines, "\n")
	case event.HeapView:
		items := make([]string, 0, v.Size)
		for i := 0; i < v.Size && i < len(v.Values); i++ {
			s := event.FormatValue(v.Values[i])
			if slices.Contains(v.Active, i) {
				s = activeLine.Render(s)
			}
			items = append(items, s)
		}
		return "heap [" + strings.Join(items, " ") + "]"
	case event.HashTableView:
		lines := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			line := e.Key + " → " + e.Value
			if e.Key == v.Active {
				line = activeLine.Render(line)
			}
			lines[i] = line
		}
		if len(lines) == 0 {
			return "{}"
		}
		return strings.Join(lines, "\n")
	case event.StackView:
		title := v.Title
		if title == "" {
			title = "stack"
		}
		return title + " [" + strings.Join(v.Items, " | ") + "]"
	default:
		return string(a.AuxKind())
	}
}

func renderTable(t event.DPTable) string {
	width := 1
	for _, l := range t.ColLabels {
		width = max(width, len([]rune(l)))
	}
	for _, row := range t.Cells {
		for _, c := range row {
			width = max(width, len([]rune(c)))
		}
	}
	rowWidth := 0
	for _, l := range t.RowLabels {
		rowWidth = max(rowWidth, len([]rune(l)))
	}
	cell := func(s string, w int) string { return s + strings.Repeat(" ", w-len([]rune(s))+1) }

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(labelStyle.Render(t.Title) + "\n")
	}
	if len(t.ColLabels) > 0 {
		b.WriteString(cell("", rowWidth))
		for _, l := range t.ColLabels {
			b.WriteString(labelStyle.Render(cell(l, width)))
		}
		b.WriteByte('\n')
	}
	for r, row := range t.Cells {
		label := ""
		if r < len(t.RowLabels) {
			label = t.RowLabels[r]
		}
		b.WriteString(labelStyle.Render(cell(label, rowWidth)))
		for c, v := range row {
			s := cell(v, width)
			if slices.Contains(t.Active, event.Cell{Row: r, Col: c}) {
				s = activeLine.Render(s)
			}
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
