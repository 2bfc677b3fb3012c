package trace

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
	"github.com/wilhg/stepviz/pkg/logging"
)

// DefaultMaxEvents bounds a single timeline when no explicit cap is configured.
const DefaultMaxEvents = 100_000

// cancelCheckEvery is how many events are folded between context checks.
const cancelCheckEvery = 256

// Materializer drives producers to completion and records their timelines.
// It holds no per-run state and is safe for concurrent use.
type Materializer struct {
	maxEvents int
	logger    *log.Logger
}

// Option configures the Materializer at construction time.
type Option func(*Materializer)

// WithMaxEvents caps the number of events one producer may emit. n <= 0 keeps the default.
func WithMaxEvents(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.maxEvents = n
		}
	}
}

// WithLogger sets the logger used for per-run summaries.
func WithLogger(l *log.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMaterializer constructs a Materializer.
func NewMaterializer(opts ...Option) *Materializer {
	m := &Materializer{maxEvents: DefaultMaxEvents, logger: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxEvents is the configured event cap.
func (m *Materializer) MaxEvents() int { return m.maxEvents }

// Materialize pulls every event from p, folding each into the next snapshot. The producer is
// always closed. On a producer defect, an event over the cap, a malformed event or context
// cancellation the partial timeline is discarded and a producer-category error is returned.
func (m *Materializer) Materialize(ctx context.Context, algorithmID string, initial Snapshot, p algorithm.Producer) (*Timeline, error) {
	tr := otel.Tracer("trace/materializer")
	ctx, span := tr.Start(ctx, "trace.Materialize", oteltrace.WithAttributes(
		attribute.String("algorithm.id", algorithmID),
	))
	defer span.End()
	timer := prometheus.NewTimer(materializeDuration)
	defer timer.ObserveDuration()
	defer p.Close()

	fail := func(err *errmodel.Error, count int) (*Timeline, error) {
		materializeFailures.WithLabelValues(err.Code).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Code)
		m.logger.Warn("materialization discarded", "algorithm", algorithmID, "events", count, "code", err.Code)
		return nil, err
	}

	var (
		acc       = initial
		snapshots []Snapshot
		events    []event.Event
	)
	for {
		if len(events)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fail(errmodel.Producer("canceled", "materialization canceled", map[string]any{"algorithm": algorithmID}, err), len(events))
			}
		}
		e, ok, err := next(p)
		if err != nil {
			return fail(errmodel.Producer("producer_failed", fmt.Sprintf("algorithm %s failed after %d events", algorithmID, len(events)),
				map[string]any{"algorithm": algorithmID, "events": len(events)}, err), len(events))
		}
		if !ok {
			break
		}
		if len(events) >= m.maxEvents {
			return fail(errmodel.Producer("event_limit", fmt.Sprintf("algorithm %s exceeded %d events", algorithmID, m.maxEvents),
				map[string]any{"algorithm": algorithmID, "limit": m.maxEvents}, nil), len(events))
		}
		if err := event.Validate(e); err != nil {
			return fail(errmodel.Producer("invalid_event", fmt.Sprintf("event %d: %v", len(events), err),
				map[string]any{"algorithm": algorithmID, "index": len(events)}, err), len(events))
		}
		acc = Fold(acc, e)
		snapshots = append(snapshots, acc)
		events = append(events, e)
	}

	tl := newTimeline(algorithmID, initial, snapshots, events)
	timelinesTotal.WithLabelValues(algorithmID).Inc()
	eventsFolded.Add(float64(len(events)))
	span.SetAttributes(attribute.Int("timeline.events", len(events)), attribute.String("timeline.id", tl.id))
	m.logger.Debug("timeline materialized", "algorithm", algorithmID, "events", len(events), "timeline", tl.id)
	return tl, nil
}

// Run validates in against d, resolves raw parameters and materializes the resulting
// producer. Input and parameter problems come back as validation-category errors.
func (m *Materializer) Run(ctx context.Context, d algorithm.Descriptor, in algorithm.Input, rawParams map[string]any) (*Timeline, error) {
	p, params, err := d.Run(in, rawParams)
	if err != nil {
		return nil, err
	}
	tl, err := m.Materialize(ctx, d.ID, Initial(in), p)
	if err != nil {
		return nil, err
	}
	tl.input = in
	tl.params = params
	return tl, nil
}

// next calls p.Next, turning a panic in a hand-written producer into a producer error.
func next(p algorithm.Producer) (e event.Event, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errmodel.Producer("producer_panic", fmt.Sprintf("producer panicked: %v", r), nil, nil)
		}
	}()
	return p.Next()
}
