package algorithm

import (
	"fmt"
	"iter"

	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
)

// Producer is a cooperative, single-threaded computation that emits one event per Next call.
// Next returns ok=false once the producer has finished. A non-nil error is a producer defect;
// algorithmic edge cases are reported as Result events, never as errors.
// Close releases resources of a producer that will not be drained.
type Producer interface {
	Next() (e event.Event, ok bool, err error)
	Close()
}

// FromSeq adapts a push-style event sequence into a pull-based Producer. A panic inside the
// sequence is recovered and surfaces as a producer error from Next.
func FromSeq(seq iter.Seq[event.Event]) Producer {
	next, stop := iter.Pull(seq)
	return &seqProducer{next: next, stop: stop}
}

type seqProducer struct {
	next func() (event.Event, bool)
	stop func()
	done bool
}

func (p *seqProducer) Next() (e event.Event, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			p.done = true
			err = panicError(r)
		}
	}()
	e, ok = p.next()
	if !ok {
		p.done = true
	}
	return e, ok, nil
}

func (p *seqProducer) Close() {
	p.done = true
	p.stop()
}

func panicError(r any) error {
	if ce, ok := r.(*errmodel.Error); ok && ce.Category == errmodel.CategoryProducer {
		return ce
	}
	var cause error
	if err, ok := r.(error); ok {
		cause = err
	} else {
		cause = fmt.Errorf("%v", r)
	}
	return errmodel.Producer("producer_panic", "producer panicked: "+cause.Error(), nil, cause)
}

// Slice returns a producer over a fixed list of events.
func Slice(events ...event.Event) Producer {
	return &sliceProducer{events: events}
}

type sliceProducer struct {
	events []event.Event
	pos    int
}

func (p *sliceProducer) Next() (event.Event, bool, error) {
	if p.pos >= len(p.events) {
		return nil, false, nil
	}
	e := p.events[p.pos]
	p.pos++
	return e, true, nil
}

func (p *sliceProducer) Close() { p.pos = len(p.events) }

// Fail returns a producer whose first Next reports err.
func Fail(err error) Producer { return &failProducer{err: err} }

type failProducer struct {
	err  error
	done bool
}

func (p *failProducer) Next() (event.Event, bool, error) {
	if p.done {
		return nil, false, nil
	}
	p.done = true
	return nil, false, p.err
}

func (p *failProducer) Close() { p.done = true }

// Stack composes producers as explicit call frames. Next forwards to the top frame and pops
// frames as they finish, so a child's events are fully interleaved before its parent resumes.
//
// A frame delegates by calling Push from inside its own Next. A frame that pushed a child
// during Next is not popped even if it returned ok=false; the child runs first.
type Stack struct {
	frames []Producer
}

// NewStack creates a stack with root as its bottom frame.
func NewStack(root Producer) *Stack {
	s := &Stack{}
	if root != nil {
		s.frames = append(s.frames, root)
	}
	return s
}

// Push makes child the active frame.
func (s *Stack) Push(child Producer) {
	s.frames = append(s.frames, child)
}

// Depth is the number of live frames.
func (s *Stack) Depth() int { return len(s.frames) }

func (s *Stack) Next() (event.Event, bool, error) {
	for len(s.frames) > 0 {
		n := len(s.frames)
		top := s.frames[n-1]
		e, ok, err := top.Next()
		if err != nil {
			s.Close()
			return nil, false, err
		}
		if len(s.frames) > n {
			if ok {
				return e, true, nil
			}
			continue
		}
		if ok {
			return e, true, nil
		}
		top.Close()
		s.frames = s.frames[:n-1]
	}
	return nil, false, nil
}

// Close closes every remaining frame, top first.
func (s *Stack) Close() {
	for i := len(s.frames) - 1; i >= 0; i-- {
		s.frames[i].Close()
	}
	s.frames = nil
}

// FrameFunc adapts a function to a Producer frame for use with Stack.
type FrameFunc func() (event.Event, bool, error)

func (f FrameFunc) Next() (event.Event, bool, error) { return f() }
func (FrameFunc) Close()                             {}

// ProduceWith builds a ProduceFunc from a body written against a concrete input type.
// The body runs as an iter.Seq; each Emitter call is one suspension point.
func ProduceWith[I Input](body func(em *Emitter, in I, p Params)) ProduceFunc {
	return func(in Input, p Params) Producer {
		typed, ok := in.(I)
		if !ok {
			var want I
			return Fail(errmodel.Producer("input_type", fmt.Sprintf("expected %T input, got %T", want, in), nil, nil))
		}
		return FromSeq(func(yield func(event.Event) bool) {
			body(&Emitter{yield: yield}, typed, p)
		})
	}
}

// ValidateWith builds a ValidateFunc for a concrete input type. Inputs of any other type fail.
func ValidateWith[I Input](fn func(in I) Validation) ValidateFunc {
	return func(in Input) Validation {
		typed, ok := in.(I)
		if !ok {
			var want I
			return Invalid("expected %s input", want.InputKind())
		}
		return fn(typed)
	}
}
