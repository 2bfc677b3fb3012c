// Package tui is the terminal front-end of the player: a Bubble Tea model that renders the
// current snapshot and maps key presses to player operations.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/player"
	"github.com/wilhg/stepviz/pkg/trace"
)

const barHeight = 10

// stateMsg carries a player state delivered by the subscription.
type stateMsg player.State

// Model is the root Bubble Tea model. It never mutates snapshots; every change goes through
// the player, whose notifications drive re-rendering.
type Model struct {
	player  *player.Player
	updates <-chan player.State
	stop    func()

	state player.State
	snap  trace.Snapshot
	desc  algorithm.Descriptor

	help  help.Model
	bar   progress.Model
	width int
}

// New subscribes to p. The subscription ends when the model quits.
func New(p *player.Player) Model {
	updates, stop := p.Subscribe()
	m := Model{
		player:  p,
		updates: updates,
		stop:    stop,
		help:    help.New(),
		bar:     progress.New(progress.WithGradient("#5A56E0", "#EE6FF8"), progress.WithoutPercentage()),
		width:   80,
	}
	return m.refresh()
}

// Run starts a full-screen program over p and blocks until the user quits or ctx ends.
func Run(ctx context.Context, p *player.Player, opts ...tea.ProgramOption) error {
	return run(ctx, New(p), opts...)
}

// run ends m's subscription and pauses the player however the program stops.
func run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.stop()
	defer m.player.Pause()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return m.listen() }

func (m Model) listen() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func (m Model) refresh() Model {
	m.state = m.player.State()
	m.snap = m.player.Current()
	if m.desc.ID != m.state.AlgorithmID {
		m.desc, _ = m.player.Registry().Lookup(m.state.AlgorithmID)
	}
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = max(msg.Width-4, 10)
		return m, nil

	case stateMsg:
		return m.refresh(), m.listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.player
	switch {
	case key.Matches(msg, keys.Quit):
		p.Pause()
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Play):
		if p.Status() == player.StatusRunning {
			p.Pause()
		} else {
			p.Play()
		}
	case key.Matches(msg, keys.Next):
		p.StepForward()
	case key.Matches(msg, keys.Back):
		p.StepBackward()
	case key.Matches(msg, keys.Start):
		p.Seek(0)
	case key.Matches(msg, keys.End):
		p.Seek(p.Len() - 1)
	case key.Matches(msg, keys.Reset):
		p.Reset()
	case key.Matches(msg, keys.Faster):
		_ = p.SetSpeed(min(p.Speed()*2, player.MaxSpeed))
	case key.Matches(msg, keys.Slower):
		_ = p.SetSpeed(max(p.Speed()/2, player.MinSpeed))
	default:
		return m, nil
	}
	return m.refresh(), nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	name := m.desc.Name
	if name == "" {
		name = "stepviz"
	}
	header := titleStyle.Render(name) + statusStyle.Render(fmt.Sprintf("%s  step %d/%d  speed %gx",
		m.state.Status, m.state.Position+1, m.state.Len, m.state.Speed))
	sections = append(sections, header)
	if m.state.Err != "" {
		sections = append(sections, errorStyle.Render(m.state.Err))
	}

	body := renderBars(m.snap, barHeight)
	if len(m.desc.Pseudocode) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "   ", panelStyle.Render(renderPseudocode(m.desc.Pseudocode, m.snap.Lines)))
	}
	sections = append(sections, body)

	if aux := renderAux(m.snap.Aux); aux != "" {
		sections = append(sections, panelStyle.Render(aux))
	}
	sections = append(sections, labelStyle.Render(renderMetrics(m.snap.Metrics)))
	if vars := renderVariables(m.snap.Variables); vars != "" {
		sections = append(sections, vars)
	}
	if msg := renderMessage(m.snap.Message); msg != "" {
		sections = append(sections, msg)
	}
	if m.snap.Done && m.snap.Result != nil {
		sections = append(sections, activeLine.Render(fmt.Sprintf("result: %v", m.snap.Result)))
	}

	percent := 0.0
	if m.state.Len > 0 {
		percent = float64(m.state.Position+1) / float64(m.state.Len)
	}
	sections = append(sections, m.bar.ViewAs(percent), m.help.View(keys))
	return strings.Join(sections, "\n\n")
}
