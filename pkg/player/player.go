// Package player is the playback state machine over a materialized timeline.
//
// A Player holds one timeline, a position into it and a status. Loading validates the
// request, materializes a fresh timeline and replaces the previous one; any pending
// auto-advance is cancelled before the new timeline is built, and every tick carries the
// generation it was scheduled for so a late tick can never move a replaced timeline.
package player

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/logging"
	"github.com/wilhg/stepviz/pkg/trace"
)

// Status is the run status of a Player.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// Speed bounds. The tick interval is BaseInterval / speed.
const (
	MinSpeed float64 = 0.25
	MaxSpeed float64 = 8
)

// DefaultBaseInterval is the tick interval at speed 1.
const DefaultBaseInterval = 500 * time.Millisecond

// State is a point-in-time view of a Player, as delivered to subscribers.
type State struct {
	Status      Status  `json:"status"`
	Position    int     `json:"position"`
	Len         int     `json:"length"`
	Speed       float64 `json:"speed"`
	AlgorithmID string  `json:"algorithm,omitempty"`
	TimelineID  string  `json:"timeline,omitempty"`
	Err         string  `json:"error,omitempty"`
}

// Player is safe for concurrent use; auto-advance ticks arrive on scheduler goroutines.
type Player struct {
	registry *algorithm.Registry
	mat      *trace.Materializer
	sched    Scheduler
	base     time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	tl     *trace.Timeline
	pos    int
	status Status
	speed  float64
	err    error
	timer  Timer
	gen    uint64
	subs   map[int]chan State
	nextID int
}

// Option configures a Player at construction time.
type Option func(*Player)

// WithScheduler replaces the wall clock used for auto-advance.
func WithScheduler(s Scheduler) Option {
	return func(p *Player) {
		if s != nil {
			p.sched = s
		}
	}
}

// WithBaseInterval sets the tick interval at speed 1.
func WithBaseInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.base = d
		}
	}
}

// WithLogger sets the logger for loads and transitions.
func WithLogger(l *log.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSpeed sets the initial playback speed, clamped to [MinSpeed, MaxSpeed].
func WithSpeed(f float64) Option {
	return func(p *Player) {
		if f > 0 && !math.IsInf(f, 0) {
			p.speed = clampSpeed(f)
		}
	}
}

// New returns an idle Player over registry. Timelines are built with mat.
func New(registry *algorithm.Registry, mat *trace.Materializer, opts ...Option) *Player {
	p := &Player{
		registry: registry,
		mat:      mat,
		sched:    WallClock{},
		base:     DefaultBaseInterval,
		logger:   logging.Nop(),
		status:   StatusIdle,
		speed:    1,
		pos:      -1,
		subs:     map[int]chan State{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry is the algorithm set the player loads from.
func (p *Player) Registry() *algorithm.Registry { return p.registry }

// Current returns the snapshot at the current position; the initial snapshot when the
// position is -1 and an empty one before any load.
func (p *Player) Current() trace.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *Player) currentLocked() trace.Snapshot {
	if p.tl == nil {
		return trace.Snapshot{Step: -1, Values: []float64{}}
	}
	s, _ := p.tl.At(p.pos)
	return s
}

func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Len is the length of the loaded timeline, 0 before any load.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lenLocked()
}

func (p *Player) lenLocked() int {
	if p.tl == nil {
		return 0
	}
	return p.tl.Len()
}

func (p *Player) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Timeline returns the loaded timeline, nil before any successful load.
func (p *Player) Timeline() *trace.Timeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl
}

// Err is the producer failure behind an error status, nil otherwise.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Player) stateLocked() State {
	s := State{Status: p.status, Position: p.pos, Len: p.lenLocked(), Speed: p.speed}
	if p.tl != nil {
		s.AlgorithmID = p.tl.AlgorithmID()
		s.TimelineID = p.tl.ID()
	}
	if p.err != nil {
		s.Err = p.err.Error()
	}
	return s
}

// Load decodes rawInput for algorithm id and loads the resulting timeline. See LoadInput.
func (p *Player) Load(ctx context.Context, id string, rawInput []byte, rawParams map[string]any) error {
	d, ok := p.registry.Lookup(id)
	if !ok {
		return p.rejectLoad(errmodel.Validation("unknown_algorithm", fmt.Sprintf("unknown algorithm %q", id), nil))
	}
	in, err := algorithm.DecodeInput(d.InputKind, rawInput)
	if err != nil {
		return p.rejectLoad(err)
	}
	return p.LoadInput(ctx, id, in, rawParams)
}

// LoadInput validates in, materializes the run and replaces the loaded timeline.
//
// The pending auto-advance is cancelled first. A validation failure returns a
// validation-category error and leaves the session as it was (a running session is left
// paused). A producer defect moves the player to StatusError and keeps the previous timeline
// and position. On success the player is Ready at position 0, or -1 for an empty timeline.
func (p *Player) LoadInput(ctx context.Context, id string, in algorithm.Input, rawParams map[string]any) error {
	tr := otel.Tracer("player")
	ctx, span := tr.Start(ctx, "player.Load", oteltrace.WithAttributes(attribute.String("algorithm.id", id)))
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	prev := p.status
	if prev == StatusRunning {
		prev = StatusPaused
	}
	p.setStatusLocked(StatusLoading)

	d, ok := p.registry.Lookup(id)
	if !ok {
		p.setStatusLocked(prev)
		return p.rejectLoadLocked(errmodel.Validation("unknown_algorithm", fmt.Sprintf("unknown algorithm %q", id), nil))
	}
	tl, err := p.mat.Run(ctx, d, in, rawParams)
	if err != nil {
		span.RecordError(err)
		if errmodel.IsCategory(err, errmodel.CategoryValidation) {
			p.setStatusLocked(prev)
			return p.rejectLoadLocked(err)
		}
		span.SetStatus(codes.Error, "producer failure")
		loads.WithLabelValues("failed").Inc()
		p.err = err
		p.setStatusLocked(StatusError)
		p.logger.Error("load failed", "algorithm", id, "err", err)
		p.notifyLocked()
		return err
	}
	p.installLocked(tl)
	loads.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("timeline.events", tl.Len()))
	p.logger.Info("timeline loaded", "algorithm", id, "events", tl.Len(), "timeline", tl.ID())
	return nil
}

// LoadTimeline installs an already materialized timeline, such as one rebuilt from a capture.
func (p *Player) LoadTimeline(tl *trace.Timeline) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.installLocked(tl)
}

func (p *Player) installLocked(tl *trace.Timeline) {
	p.tl = tl
	p.err = nil
	p.pos = 0
	if tl.Len() == 0 {
		p.pos = -1
	}
	p.setStatusLocked(StatusReady)
	p.notifyLocked()
}

func (p *Player) rejectLoad(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	if p.status == StatusRunning {
		p.setStatusLocked(StatusPaused)
	}
	return p.rejectLoadLocked(err)
}

func (p *Player) rejectLoadLocked(err error) error {
	loads.WithLabelValues("invalid").Inc()
	p.logger.Warn("load rejected", "err", err)
	p.notifyLocked()
	return err
}

// Play starts auto-advance from Ready, Paused or a recovered Error state. Playing a finished
// timeline restarts it from the beginning. An empty timeline finishes immediately.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.navigableLocked() || p.status == StatusRunning {
		return
	}
	p.recoverLocked()
	if p.lenLocked() == 0 {
		p.setStatusLocked(StatusFinished)
		p.notifyLocked()
		return
	}
	if p.status == StatusFinished {
		p.pos = 0
	}
	p.setStatusLocked(StatusRunning)
	p.scheduleLocked()
	p.notifyLocked()
}

// Pause stops auto-advance. The position is unchanged.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusRunning {
		return
	}
	p.cancelLocked()
	p.setStatusLocked(StatusPaused)
	p.notifyLocked()
}

// StepForward advances one snapshot. At the last index it moves the player to Finished.
func (p *Player) StepForward() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.navigableLocked() {
		return
	}
	p.recoverLocked()
	p.advanceLocked()
	p.notifyLocked()
}

// StepBackward moves back one snapshot; a no-op at position 0.
func (p *Player) StepBackward() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.navigableLocked() {
		return
	}
	p.recoverLocked()
	if p.pos > 0 {
		p.pos--
		if p.status == StatusFinished {
			p.setStatusLocked(StatusPaused)
		}
	}
	p.notifyLocked()
}

// Seek moves to clamp(i, 0, Len-1). Seeking before the end of a finished timeline pauses it.
func (p *Player) Seek(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.navigableLocked() {
		return
	}
	p.recoverLocked()
	p.seekLocked(i)
	p.notifyLocked()
}

func (p *Player) seekLocked(i int) {
	n := p.lenLocked()
	if n == 0 {
		return
	}
	p.pos = min(max(i, 0), n-1)
	if p.status == StatusFinished && p.pos < n-1 {
		p.setStatusLocked(StatusPaused)
	}
}

// Reset seeks to the start and pauses. A Ready player stays Ready.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.navigableLocked() {
		return
	}
	p.recoverLocked()
	p.cancelLocked()
	p.seekLocked(0)
	if p.status == StatusRunning || p.status == StatusFinished {
		p.setStatusLocked(StatusPaused)
	}
	p.notifyLocked()
}

// SetSpeed changes the playback speed, clamped to [MinSpeed, MaxSpeed]. A running player
// reschedules its pending tick at the new interval.
func (p *Player) SetSpeed(f float64) error {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return errmodel.Validation("invalid_speed", fmt.Sprintf("speed must be a positive number, got %v", f), nil)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = clampSpeed(f)
	if p.status == StatusRunning {
		p.cancelLocked()
		p.scheduleLocked()
	}
	p.notifyLocked()
	return nil
}

// Interval is the current tick interval.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalLocked()
}

func (p *Player) intervalLocked() time.Duration {
	return time.Duration(float64(p.base) / p.speed)
}

// Subscribe returns a channel receiving the player state after every change, and a func
// that unsubscribes and closes it. Each subscriber keeps only the latest unread state.
func (p *Player) Subscribe() (<-chan State, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	ch := make(chan State, 1)
	p.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

func (p *Player) notifyLocked() {
	s := p.stateLocked()
	for _, ch := range p.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// navigableLocked reports whether a timeline is available to move over.
func (p *Player) navigableLocked() bool {
	if p.tl == nil {
		return false
	}
	switch p.status {
	case StatusIdle, StatusLoading:
		return false
	}
	return true
}

// recoverLocked resumes navigation on the preserved timeline after a failed load.
func (p *Player) recoverLocked() {
	if p.status == StatusError {
		p.err = nil
		p.setStatusLocked(StatusPaused)
	}
}

func (p *Player) advanceLocked() {
	n := p.lenLocked()
	if n == 0 || p.pos >= n-1 {
		p.cancelLocked()
		p.setStatusLocked(StatusFinished)
		return
	}
	p.pos++
}

func (p *Player) scheduleLocked() {
	gen := p.gen
	p.timer = p.sched.AfterFunc(p.intervalLocked(), func() { p.tick(gen) })
}

// cancelLocked stops the pending tick and invalidates any tick already in flight.
func (p *Player) cancelLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.status != StatusRunning {
		staleTicks.Inc()
		return
	}
	p.timer = nil
	p.advanceLocked()
	if p.status == StatusRunning {
		p.scheduleLocked()
	}
	p.notifyLocked()
}

func (p *Player) setStatusLocked(s Status) {
	if p.status == s {
		return
	}
	transitions.WithLabelValues(string(p.status), string(s)).Inc()
	p.logger.Debug("status", "from", p.status, "to", s, "position", p.pos)
	p.status = s
}

func clampSpeed(f float64) float64 {
	return min(max(f, MinSpeed), MaxSpeed)
}
