// Package mcpserver exposes a single player over the Model Context Protocol, so an agent can
// list algorithms, load a timeline and navigate it one tool call at a time.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/algorithms/catalog"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/logging"
	"github.com/wilhg/stepviz/pkg/otel"
	"github.com/wilhg/stepviz/pkg/player"
	"github.com/wilhg/stepviz/pkg/trace"
)

// Server owns the MCP server and the player its tools drive.
type Server struct {
	player *player.Player
	srv    *mcp.Server
	logger *log.Logger
}

type Option func(*Server)

// WithLogger logs every tool call at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New registers the playback tools for p.
func New(p *player.Player, version string, opts ...Option) *Server {
	s := &Server{
		player: p,
		srv:    mcp.NewServer(&mcp.Implementation{Name: "stepviz", Version: version}, nil),
		logger: logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = logging.OrNop(s.logger)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "list_algorithms",
		Description: "List the registered algorithms with their input kind and parameters",
	}, s.listAlgorithms)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "load",
		Description: "Run an algorithm on an input and load the resulting timeline. Without an input a built-in sample is used",
	}, s.load)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "step",
		Description: "Step forward or backward through the loaded timeline",
	}, s.step)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "seek",
		Description: "Jump to a position of the loaded timeline; out-of-range positions are clamped",
	}, s.seek)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "reset",
		Description: "Return to the first snapshot",
	}, s.reset)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "current",
		Description: "Return the player state and the current snapshot",
	}, s.current)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "capture",
		Description: "Export the loaded run as a replayable capture (algorithm, input, params and events)",
	}, s.capture)
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "metrics",
		Description: "Return the process counters for materializations and playback in the Prometheus text format",
	}, s.metrics)
	return s
}

// MCP returns the underlying server, for callers that manage their own transport.
func (s *Server) MCP() *mcp.Server { return s.srv }

// Run serves over t until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.srv.Run(ctx, t)
}

// ServeStdio serves over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// ParamInfo describes one parameter of an algorithm.
type ParamInfo struct {
	ID      string   `json:"id" jsonschema:"parameter identifier, used as the key in load params"`
	Type    string   `json:"type" jsonschema:"number, text or select"`
	Default any      `json:"default,omitempty" jsonschema:"value used when the parameter is omitted"`
	Min     *float64 `json:"min,omitempty" jsonschema:"inclusive lower bound of a number parameter"`
	Max     *float64 `json:"max,omitempty" jsonschema:"inclusive upper bound of a number parameter"`
	Options []string `json:"options,omitempty" jsonschema:"allowed values of a select parameter"`
}

// AlgorithmInfo summarizes one descriptor.
type AlgorithmInfo struct {
	ID          string      `json:"id" jsonschema:"algorithm identifier, used by load"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Difficulty  string      `json:"difficulty"`
	InputKind   string      `json:"input_kind" jsonschema:"array or graph"`
	Description string      `json:"description,omitempty"`
	Params      []ParamInfo `json:"params,omitempty"`
}

type ListInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list algorithms of this category"`
}

type ListResult struct {
	Algorithms []AlgorithmInfo `json:"algorithms"`
	Categories []string        `json:"categories"`
}

func (s *Server) listAlgorithms(_ context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListResult, error) {
	reg := s.player.Registry()
	out := ListResult{Algorithms: []AlgorithmInfo{}, Categories: reg.Categories()}
	if in.Category != "" && !slices.Contains(out.Categories, in.Category) {
		return nil, ListResult{}, fmt.Errorf("unknown category %q", in.Category)
	}
	for _, d := range reg.List() {
		if in.Category != "" && d.Category != in.Category {
			continue
		}
		out.Algorithms = append(out.Algorithms, describe(d))
	}
	return nil, out, nil
}

func describe(d algorithm.Descriptor) AlgorithmInfo {
	info := AlgorithmInfo{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		Difficulty:  string(d.Difficulty),
		InputKind:   string(d.InputKind),
		Description: d.Description,
	}
	for _, p := range d.Params {
		pi := ParamInfo{ID: p.ID, Type: string(p.Type), Default: p.Default, Min: p.Min, Max: p.Max}
		for _, o := range p.Options {
			pi.Options = append(pi.Options, o.Value)
		}
		info.Params = append(info.Params, pi)
	}
	return info
}

// PlaybackResult is returned by every navigation tool.
type PlaybackResult struct {
	State    player.State   `json:"state"`
	Snapshot map[string]any `json:"snapshot,omitempty" jsonschema:"the current snapshot: values, marks, pointers, metrics, aux view and result"`
}

func (s *Server) playback() (PlaybackResult, error) {
	out := PlaybackResult{State: s.player.State()}
	if out.State.Len == 0 {
		return out, nil
	}
	snap, err := toMap(s.player.Current())
	if err != nil {
		return PlaybackResult{}, err
	}
	out.Snapshot = snap
	return out, nil
}

type LoadInput struct {
	Algorithm string         `json:"algorithm" jsonschema:"algorithm identifier from list_algorithms"`
	Input     map[string]any `json:"input,omitempty" jsonschema:"array input {values, target} or graph input {nodes, edges, start, isDirected}"`
	Params    map[string]any `json:"params,omitempty" jsonschema:"parameter values keyed by parameter id"`
}

func (s *Server) load(ctx context.Context, _ *mcp.CallToolRequest, in LoadInput) (*mcp.CallToolResult, PlaybackResult, error) {
	s.logger.Debug("tool call", "tool", "load", "algorithm", in.Algorithm)
	var err error
	if len(in.Input) == 0 {
		d, ok := s.player.Registry().Lookup(in.Algorithm)
		if !ok {
			return nil, PlaybackResult{}, toolError(errmodel.Validation("unknown_algorithm", fmt.Sprintf("unknown algorithm %q", in.Algorithm), nil))
		}
		err = s.player.LoadInput(ctx, in.Algorithm, catalog.Sample(d), in.Params)
	} else {
		var raw []byte
		if raw, err = json.Marshal(in.Input); err != nil {
			return nil, PlaybackResult{}, err
		}
		err = s.player.Load(ctx, in.Algorithm, raw, in.Params)
	}
	if err != nil {
		s.logger.Debug("load rejected", "algorithm", in.Algorithm, "err", err)
		return nil, PlaybackResult{}, toolError(err)
	}
	out, err := s.playback()
	return nil, out, err
}

// toolError hands the client the compact error envelope as the tool's error text.
func toolError(err error) error {
	return errors.New(string(errmodel.JSON(err)))
}

type StepInput struct {
	Direction string `json:"direction,omitempty" jsonschema:"forward (default) or backward"`
	Count     int    `json:"count,omitempty" jsonschema:"number of steps, default 1"`
}

func (s *Server) step(_ context.Context, _ *mcp.CallToolRequest, in StepInput) (*mcp.CallToolResult, PlaybackResult, error) {
	move := s.player.StepForward
	switch in.Direction {
	case "", "forward":
	case "backward":
		move = s.player.StepBackward
	default:
		return nil, PlaybackResult{}, fmt.Errorf("direction must be forward or backward, got %q", in.Direction)
	}
	if in.Count < 0 {
		return nil, PlaybackResult{}, fmt.Errorf("count must not be negative")
	}
	n := max(in.Count, 1)
	for range min(n, s.player.Len()) {
		move()
	}
	out, err := s.playback()
	return nil, out, err
}

type SeekInput struct {
	Position int `json:"position" jsonschema:"zero-based snapshot index"`
}

func (s *Server) seek(_ context.Context, _ *mcp.CallToolRequest, in SeekInput) (*mcp.CallToolResult, PlaybackResult, error) {
	s.player.Seek(in.Position)
	out, err := s.playback()
	return nil, out, err
}

func (s *Server) reset(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, PlaybackResult, error) {
	s.player.Reset()
	out, err := s.playback()
	return nil, out, err
}

func (s *Server) current(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, PlaybackResult, error) {
	out, err := s.playback()
	return nil, out, err
}

type CaptureResult struct {
	Capture map[string]any `json:"capture"`
}

func (s *Server) capture(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, CaptureResult, error) {
	tl := s.player.Timeline()
	if tl == nil {
		return nil, CaptureResult{}, fmt.Errorf("no timeline loaded")
	}
	data, err := trace.ExportJSON(trace.CaptureOf(tl))
	if err != nil {
		return nil, CaptureResult{}, err
	}
	var c map[string]any
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, CaptureResult{}, err
	}
	return nil, CaptureResult{Capture: c}, nil
}

type MetricsResult struct {
	Text string `json:"text" jsonschema:"Prometheus text exposition of the stepviz metrics"`
}

func (s *Server) metrics(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, MetricsResult, error) {
	var b strings.Builder
	if err := otel.WriteMetrics(&b, prometheus.DefaultGatherer); err != nil {
		return nil, MetricsResult{}, err
	}
	return nil, MetricsResult{Text: b.String()}, nil
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	err = json.Unmarshal(data, &m)
	return m, err
}
