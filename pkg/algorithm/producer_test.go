package algorithm

import (
	"testing"

	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
)

func drain(t *testing.T, p Producer) ([]event.Event, error) {
	t.Helper()
	var out []event.Event
	for i := 0; i < 10000; i++ {
		e, ok, err := p.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, e)
	}
	t.Fatal("producer did not terminate")
	return nil, nil
}

func TestFromSeq_PullsLazily(t *testing.T) {
	ran := 0
	p := FromSeq(func(yield func(event.Event) bool) {
		for i := 0; i < 3; i++ {
			ran++
			if !yield(event.Set{Index: i, Value: float64(i)}) {
				return
			}
		}
	})
	defer p.Close()
	if ran != 0 {
		t.Fatalf("body ran before first Next: %d", ran)
	}
	e, ok, err := p.Next()
	if err != nil || !ok || e.(event.Set).Index != 0 || ran != 1 {
		t.Fatalf("first: %v %v %v ran=%d", e, ok, err, ran)
	}
	rest, err := drain(t, p)
	if err != nil || len(rest) != 2 {
		t.Fatalf("rest=%v err=%v", rest, err)
	}
	if _, ok, _ := p.Next(); ok {
		t.Fatal("Next after completion must report done")
	}
}

func TestFromSeq_PanicBecomesProducerError(t *testing.T) {
	p := FromSeq(func(yield func(event.Event) bool) {
		yield(event.Compare{I: 0, J: 1})
		var xs []int
		_ = xs[3]
	})
	defer p.Close()
	events, err := drain(t, p)
	if len(events) != 1 {
		t.Fatalf("events=%d", len(events))
	}
	if !errmodel.IsCategory(err, errmodel.CategoryProducer) || !errmodel.HasCode(err, "producer_panic") {
		t.Fatalf("err=%v", err)
	}
	if _, ok, err := p.Next(); ok || err != nil {
		t.Fatal("producer must stay finished after a defect")
	}
}

func TestEmitter_StopsAfterClose(t *testing.T) {
	emitted := 0
	p := ProduceWith(func(em *Emitter, in ArrayInput, _ Params) {
		for i := range in.Values {
			em.Set(i, 0)
			if em.Stopped() {
				return
			}
			emitted++
		}
	})(ArrayInput{Values: []float64{1, 2, 3, 4}}, nil)
	if _, ok, _ := p.Next(); !ok {
		t.Fatal("expected first event")
	}
	p.Close()
	if emitted > 1 {
		t.Fatalf("body kept running after close: %d", emitted)
	}
}

func TestProduceWith_WrongInput(t *testing.T) {
	p := ProduceWith(func(em *Emitter, in GraphInput, _ Params) {})(ArrayInput{}, nil)
	if _, _, err := p.Next(); !errmodel.HasCode(err, "input_type") {
		t.Fatalf("err=%v", err)
	}
}

// countdown frames push a child for n-1 after emitting their own value, mimicking recursion.
func countdown(s *Stack, n int) Producer {
	state := 0
	return FrameFunc(func() (event.Event, bool, error) {
		switch state {
		case 0:
			state = 1
			return event.Metric{Name: "enter", Delta: n}, true, nil
		case 1:
			state = 2
			if n > 1 {
				s.Push(countdown(s, n-1))
				return nil, false, nil
			}
			fallthrough
		case 2:
			state = 3
			return event.Metric{Name: "leave", Delta: n}, true, nil
		default:
			return nil, false, nil
		}
	})
}

func TestStack_PreservesTotalOrder(t *testing.T) {
	s := NewStack(nil)
	s.Push(countdown(s, 3))
	events, err := drain(t, s)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"enter3", "enter2", "enter1", "leave1", "leave2", "leave3"}
	if len(events) != len(want) {
		t.Fatalf("events=%v", events)
	}
	for i, e := range events {
		m := e.(event.Metric)
		if got := m.Name + string(rune('0'+m.Delta)); got != want[i] {
			t.Fatalf("event %d = %s want %s", i, got, want[i])
		}
	}
	if s.Depth() != 0 {
		t.Fatalf("depth=%d", s.Depth())
	}
}

func TestStack_ErrorClosesFrames(t *testing.T) {
	s := NewStack(Slice(event.Compare{I: 0, J: 1}))
	s.Push(Fail(errmodel.Producer("boom", "child failed", nil, nil)))
	if _, _, err := s.Next(); !errmodel.HasCode(err, "boom") {
		t.Fatalf("err=%v", err)
	}
	if s.Depth() != 0 {
		t.Fatalf("depth=%d", s.Depth())
	}
}

func TestDelegateProducer_KeepsOrder(t *testing.T) {
	p := ProduceWith(func(em *Emitter, _ ArrayInput, _ Params) {
		em.Step("parent start")
		em.DelegateProducer(Slice(event.Compare{I: 0, J: 1}, event.Swap{I: 0, J: 1}))
		em.Step("parent end")
	})(ArrayInput{}, nil)
	events, err := drain(t, p)
	if err != nil {
		t.Fatal(err)
	}
	kinds := ""
	for _, e := range events {
		kinds += string(e.Kind()) + " "
	}
	if kinds != "message compare swap message " {
		t.Fatalf("kinds=%q", kinds)
	}
}

func TestDelegateProducer_ChildFailureSurfacesUnchanged(t *testing.T) {
	child := NewStack(Fail(errmodel.Producer("child_failed", "child gave up", nil, nil)))
	child.Push(Slice(event.Compare{I: 0, J: 1}))
	p := FromSeq(func(yield func(event.Event) bool) {
		NewEmitter(yield).DelegateProducer(child)
	})
	events, err := drain(t, p)
	if len(events) != 1 || !errmodel.HasCode(err, "child_failed") {
		t.Fatalf("events=%v err=%v", events, err)
	}
}
