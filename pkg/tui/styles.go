package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wilhg/stepviz/pkg/event"
)

var (
	colorPrimary   = lipgloss.Color("62")  // purple
	colorSecondary = lipgloss.Color("241") // gray
	colorHighlight = lipgloss.Color("212") // pink
	colorSuccess   = lipgloss.Color("78")  // green
	colorWarning   = lipgloss.Color("214") // orange
	colorError     = lipgloss.Color("196") // red
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(colorPrimary).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(colorSecondary).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSecondary).Padding(0, 1)
	lineStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
	activeLine  = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	labelStyle  = lipgloss.NewStyle().Foreground(colorSecondary)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// tagColors colours a bar by the first tag it carries, in this priority order.
var tagColors = []struct {
	tag   string
	color lipgloss.Color
}{
	{event.TagFound, colorSuccess},
	{event.TagCurrent, colorHighlight},
	{event.TagPivot, colorWarning},
	{event.TagSelected, colorSuccess},
	{event.TagSorted, lipgloss.Color("35")},
	{event.TagWindow, lipgloss.Color("69")},
	{event.TagRange, lipgloss.Color("111")},
	{event.TagVisited, lipgloss.Color("245")},
}

var levelColors = map[event.Level]lipgloss.Color{
	event.LevelInfo:    lipgloss.Color("255"),
	event.LevelStep:    lipgloss.Color("255"),
	event.LevelSuccess: colorSuccess,
	event.LevelWarning: colorWarning,
	event.LevelError:   colorError,
}
