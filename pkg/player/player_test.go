package player

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/trace"
)

// manualClock records scheduled ticks; tests fire them explicitly.
type manualClock struct {
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs the oldest live timer and reports whether there was one.
func (c *manualClock) fire() bool {
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
			return true
		}
	}
	return false
}

func (c *manualClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// counter emits one set event per input value, so the timeline length equals len(values).
var counter = algorithm.Descriptor{
	ID: "counter", Name: "Counter", Category: "test", Difficulty: algorithm.Easy, InputKind: algorithm.InputArray,
	Validate: algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
		if len(in.Values) > 50 {
			return algorithm.Invalid("too many values")
		}
		return algorithm.Valid()
	}),
	Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
		for i, v := range in.Values {
			em.Set(i, v+1)
		}
	}),
}

var broken = algorithm.Descriptor{
	ID: "broken", Name: "Broken", Category: "test", Difficulty: algorithm.Easy, InputKind: algorithm.InputArray,
	Validate: algorithm.ValidateWith(func(algorithm.ArrayInput) algorithm.Validation { return algorithm.Valid() }),
	Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
		em.Compare(0, 1)
		panic("defect")
	}),
}

func newPlayer(t *testing.T) (*Player, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	reg := algorithm.MustRegistry(counter, broken)
	return New(reg, trace.NewMaterializer(), WithScheduler(clock), WithBaseInterval(100*time.Millisecond)), clock
}

func values(n int) algorithm.ArrayInput {
	in := algorithm.ArrayInput{Values: make([]float64, n)}
	for i := range in.Values {
		in.Values[i] = float64(i)
	}
	return in
}

func load(t *testing.T, p *Player, n int) {
	t.Helper()
	if err := p.LoadInput(t.Context(), "counter", values(n), nil); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_ReadyAtZero(t *testing.T) {
	p, _ := newPlayer(t)
	if p.Status() != StatusIdle || p.Position() != -1 {
		t.Fatalf("fresh player: %+v", p.State())
	}
	load(t, p, 4)
	if p.Status() != StatusReady || p.Position() != 0 || p.Len() != 4 {
		t.Fatalf("state=%+v", p.State())
	}
	if got := p.Current(); got.Step != 0 || got.Values[0] != 1 {
		t.Fatalf("current=%+v", got)
	}
}

func TestLoad_RawJSON(t *testing.T) {
	p, _ := newPlayer(t)
	if err := p.Load(t.Context(), "counter", []byte(`{"values":[3,1]}`), nil); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 2 {
		t.Fatalf("len=%d", p.Len())
	}
	if err := p.Load(t.Context(), "nope", []byte(`{}`), nil); !errmodel.HasCode(err, "unknown_algorithm") {
		t.Fatalf("err=%v", err)
	}
	if err := p.Load(t.Context(), "counter", []byte(`{"values":"x"}`), nil); !errmodel.IsCategory(err, errmodel.CategoryValidation) {
		t.Fatalf("err=%v", err)
	}
	if p.Status() != StatusReady || p.Len() != 2 {
		t.Fatalf("rejected loads must keep the session: %+v", p.State())
	}
}

func TestSeek_Clamps(t *testing.T) {
	p, _ := newPlayer(t)
	load(t, p, 10)
	p.Seek(5)
	p.Seek(100)
	if p.Position() != 9 {
		t.Fatalf("position=%d want 9", p.Position())
	}
	p.Seek(-5)
	if p.Position() != 0 {
		t.Fatalf("position=%d want 0", p.Position())
	}
	if p.Status() != StatusReady {
		t.Fatalf("seek changed status to %s", p.Status())
	}
}

func TestStep_Boundaries(t *testing.T) {
	p, _ := newPlayer(t)
	load(t, p, 3)
	p.StepBackward()
	if p.Position() != 0 {
		t.Fatalf("step back at 0 moved to %d", p.Position())
	}
	p.StepForward()
	p.StepForward()
	if p.Position() != 2 || p.Status() == StatusFinished {
		t.Fatalf("state=%+v", p.State())
	}
	p.StepForward()
	if p.Position() != 2 || p.Status() != StatusFinished {
		t.Fatalf("step past end: %+v", p.State())
	}
	p.Seek(1)
	if p.Status() != StatusPaused {
		t.Fatalf("seek before end of finished timeline: %s", p.Status())
	}
}

func TestPlay_AdvancesUntilFinished(t *testing.T) {
	p, clock := newPlayer(t)
	load(t, p, 3)
	p.Play()
	if p.Status() != StatusRunning || clock.pending() != 1 {
		t.Fatalf("state=%+v pending=%d", p.State(), clock.pending())
	}
	if clock.timers[0].d != 100*time.Millisecond {
		t.Fatalf("interval=%v", clock.timers[0].d)
	}
	clock.fire()
	clock.fire()
	if p.Position() != 2 || p.Status() != StatusRunning {
		t.Fatalf("state=%+v", p.State())
	}
	clock.fire()
	if p.Status() != StatusFinished || clock.pending() != 0 {
		t.Fatalf("state=%+v pending=%d", p.State(), clock.pending())
	}
	p.Play()
	if p.Position() != 0 || p.Status() != StatusRunning {
		t.Fatalf("replay from finished: %+v", p.State())
	}
}

func TestPauseAndReset(t *testing.T) {
	p, clock := newPlayer(t)
	load(t, p, 5)
	p.Play()
	clock.fire()
	p.Pause()
	if p.Status() != StatusPaused || p.Position() != 1 || clock.pending() != 0 {
		t.Fatalf("state=%+v pending=%d", p.State(), clock.pending())
	}
	p.Play()
	clock.fire()
	p.Reset()
	if p.Status() != StatusPaused || p.Position() != 0 || clock.pending() != 0 {
		t.Fatalf("reset: %+v", p.State())
	}
	load(t, p, 5)
	p.Reset()
	if p.Status() != StatusReady {
		t.Fatalf("reset from ready: %s", p.Status())
	}
}

func TestLoadWhileRunning_CancelsOldTimeline(t *testing.T) {
	p, clock := newPlayer(t)
	load(t, p, 10)
	p.Play()
	clock.fire()
	stale := clock.timers[len(clock.timers)-1]
	oldID := p.State().TimelineID

	load(t, p, 4)
	if p.Status() != StatusReady || p.Len() != 4 || p.Position() != 0 {
		t.Fatalf("state=%+v", p.State())
	}
	if p.State().TimelineID == oldID {
		t.Fatal("timeline not replaced")
	}
	if !stale.stopped || clock.pending() != 0 {
		t.Fatal("old auto-advance still pending")
	}
	// a tick that escaped cancellation must not move the new timeline
	stale.f()
	if p.Position() != 0 || p.Status() != StatusReady {
		t.Fatalf("stale tick moved player: %+v", p.State())
	}
}

func TestProducerDefect_PreservesSession(t *testing.T) {
	p, _ := newPlayer(t)
	load(t, p, 6)
	p.Seek(3)
	err := p.LoadInput(t.Context(), "broken", values(2), nil)
	if !errmodel.IsCategory(err, errmodel.CategoryProducer) {
		t.Fatalf("err=%v", err)
	}
	if p.Status() != StatusError || p.Err() == nil {
		t.Fatalf("state=%+v", p.State())
	}
	if p.Len() != 6 || p.Position() != 3 || p.State().AlgorithmID != "counter" {
		t.Fatalf("previous timeline lost: %+v", p.State())
	}
	p.StepForward()
	if p.Status() != StatusPaused || p.Position() != 4 || p.Err() != nil {
		t.Fatalf("navigation after error: %+v", p.State())
	}
}

func TestProducerDefect_WithoutTimeline(t *testing.T) {
	p, _ := newPlayer(t)
	if err := p.LoadInput(t.Context(), "broken", values(2), nil); err == nil {
		t.Fatal("expected error")
	}
	p.StepForward()
	p.Play()
	if p.Status() != StatusError || p.Position() != -1 {
		t.Fatalf("state=%+v", p.State())
	}
}

func TestValidationFailure_KeepsStatus(t *testing.T) {
	p, clock := newPlayer(t)
	if err := p.LoadInput(t.Context(), "counter", values(51), nil); !errmodel.IsCategory(err, errmodel.CategoryValidation) {
		t.Fatalf("err=%v", err)
	}
	if p.Status() != StatusIdle {
		t.Fatalf("status=%s", p.Status())
	}
	load(t, p, 3)
	p.Play()
	if err := p.LoadInput(t.Context(), "counter", values(51), nil); err == nil {
		t.Fatal("expected error")
	}
	if p.Status() != StatusPaused || p.Len() != 3 || clock.pending() != 0 {
		t.Fatalf("state=%+v pending=%d", p.State(), clock.pending())
	}
}

func TestEmptyTimeline(t *testing.T) {
	p, _ := newPlayer(t)
	load(t, p, 0)
	if p.Status() != StatusReady || p.Position() != -1 || p.Current().Step != -1 {
		t.Fatalf("state=%+v", p.State())
	}
	p.Seek(3)
	if p.Position() != -1 {
		t.Fatalf("position=%d", p.Position())
	}
	p.Play()
	if p.Status() != StatusFinished {
		t.Fatalf("status=%s", p.Status())
	}
}

func TestSetSpeed(t *testing.T) {
	p, clock := newPlayer(t)
	load(t, p, 5)
	p.Play()
	if err := p.SetSpeed(2); err != nil {
		t.Fatal(err)
	}
	if clock.pending() != 1 || clock.timers[len(clock.timers)-1].d != 50*time.Millisecond {
		t.Fatalf("reschedule: pending=%d", clock.pending())
	}
	if err := p.SetSpeed(100); err != nil || p.Speed() != MaxSpeed {
		t.Fatalf("speed=%v err=%v", p.Speed(), err)
	}
	if err := p.SetSpeed(-1); !errmodel.HasCode(err, "invalid_speed") {
		t.Fatalf("err=%v", err)
	}
}

func TestSubscribe_DeliversLatest(t *testing.T) {
	p, _ := newPlayer(t)
	ch, cancel := p.Subscribe()
	load(t, p, 4)
	p.Seek(2)
	p.Seek(3)
	got := <-ch
	if got.Position != 3 || got.Status != StatusReady {
		t.Fatalf("latest=%+v", got)
	}
	select {
	case s := <-ch:
		t.Fatalf("unexpected extra state %+v", s)
	default:
	}
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel not closed")
	}
}

func TestCurrent_SnapshotFollowsPosition(t *testing.T) {
	p, _ := newPlayer(t)
	load(t, p, 3)
	p.Seek(2)
	s := p.Current()
	if s.Step != 2 || s.Metrics.Writes != 3 {
		t.Fatalf("snapshot=%+v", s)
	}
	if _, ok := s.Event.(event.Set); !ok {
		t.Fatalf("event=%T", s.Event)
	}
}

func TestLoad_CountsOutcomes(t *testing.T) {
	before := map[string]float64{}
	for _, o := range []string{"ok", "invalid", "failed"} {
		before[o] = testutil.ToFloat64(loads.WithLabelValues(o))
	}
	readyToRunning := testutil.ToFloat64(transitions.WithLabelValues(string(StatusReady), string(StatusRunning)))

	p, _ := newPlayer(t)
	load(t, p, 2)
	_ = p.LoadInput(t.Context(), "nope", values(1), nil)
	_ = p.LoadInput(t.Context(), "broken", values(2), nil)
	load(t, p, 2)
	p.Play()

	for o, want := range map[string]float64{"ok": 2, "invalid": 1, "failed": 1} {
		if got := testutil.ToFloat64(loads.WithLabelValues(o)) - before[o]; got != want {
			t.Fatalf("loads{%s} grew by %v, want %v", o, got, want)
		}
	}
	if got := testutil.ToFloat64(transitions.WithLabelValues(string(StatusReady), string(StatusRunning))) - readyToRunning; got != 1 {
		t.Fatalf("ready->running grew by %v", got)
	}
}
