package dp

import (
	"strings"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

const maxLCSLen = 12

func LCS() algorithm.Descriptor {
	return algorithm.Descriptor{
		ID:         "lcs",
		Name:       "Longest Common Subsequence",
		Category:   category,
		Difficulty: algorithm.Medium,
		Pseudocode: []string{
			"dp[0][*] = dp[*][0] = 0",
			"for i from 1 to len(a):",
			"  for j from 1 to len(b):",
			"    if a[i-1] == b[j-1]: dp[i][j] = dp[i-1][j-1] + 1",
			"    else: dp[i][j] = max(dp[i-1][j], dp[i][j-1])",
			"walk back from dp[len(a)][len(b)] to read the subsequence",
		},
		Complexity: algorithm.Complexity{Best: "O(mn)", Average: "O(mn)", Worst: "O(mn)", Space: "O(mn)"},
		Params: []algorithm.ParamSpec{
			{ID: "a", Label: "First string", Type: algorithm.ParamText, Default: "ABCBDAB"},
			{ID: "b", Label: "Second string", Type: algorithm.ParamText, Default: "BDCABA"},
		},
		InputKind:   algorithm.InputArray,
		Description: "Compares the two string parameters; the input values are ignored.",
		Validate:    anyArray(),
		Produce:     algorithm.ProduceWith(lcs),
	}
}

func lcs(em *algorithm.Emitter, _ algorithm.ArrayInput, p algorithm.Params) {
	a, b := []rune(p.String("a")), []rune(p.String("b"))
	if len(a) == 0 || len(b) == 0 || len(a) > maxLCSLen || len(b) > maxLCSLen {
		em.Message(event.LevelWarning, "Both strings need 1 to %d characters", maxLCSLen)
		em.Result(event.NotFound{Reason: "strings out of range"})
		return
	}
	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	t := newTable("LCS length", m+1, n+1, "0")
	t.rowLabels = append([]string{"ε"}, strings.Split(string(a), "")...)
	t.colLabels = append([]string{"ε"}, strings.Split(string(b), "")...)
	em.Highlight(0)
	em.Aux(t.view())

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			em.Highlight(1, 2)
			em.Metric("char_comparisons", 1)
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
				em.Highlight(3)
				t.cells[i][j] = itoa(dp[i][j])
				em.Aux(t.view(event.Cell{Row: i - 1, Col: j - 1}, event.Cell{Row: i, Col: j}))
				continue
			}
			dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			em.Highlight(4)
			t.cells[i][j] = itoa(dp[i][j])
			em.Aux(t.view(event.Cell{Row: i - 1, Col: j}, event.Cell{Row: i, Col: j - 1}, event.Cell{Row: i, Col: j}))
		}
	}

	em.Highlight(5)
	var out []rune
	var path []event.Cell
	for i, j := m, n; i > 0 && j > 0; {
		path = append(path, event.Cell{Row: i, Col: j})
		switch {
		case a[i-1] == b[j-1]:
			out = append(out, a[i-1])
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	em.Aux(t.view(path...))
	if len(out) == 0 {
		em.Result(event.NotFound{Reason: "no common subsequence"})
		return
	}
	em.Message(event.LevelSuccess, "LCS %q has length %d", string(out), len(out))
	em.Result(event.Text(string(out)))
}

func itoa(n int) string { return event.FormatValue(float64(n)) }
