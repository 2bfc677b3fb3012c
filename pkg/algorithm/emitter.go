package algorithm

import (
	"fmt"
	"iter"
	"slices"

	"github.com/wilhg/stepviz/pkg/event"
)

// Emitter is handed to algorithm bodies. Each method emits exactly one event and suspends
// the body until the consumer asks for the next one. Slices passed in are copied, so a body
// may keep mutating its own buffers after emitting.
//
// Once the consumer stops pulling, every further emit is a no-op and Stopped reports true;
// long-running bodies may check it to return early.
type Emitter struct {
	yield   func(event.Event) bool
	stopped bool
	count   int
}

// NewEmitter wraps a sequence's yield func, for bodies written directly as iter.Seq values
// such as recursive helpers passed to Delegate.
func NewEmitter(yield func(event.Event) bool) *Emitter { return &Emitter{yield: yield} }

// Emit sends e as is.
func (em *Emitter) Emit(e event.Event) {
	if em.stopped {
		return
	}
	em.count++
	if !em.yield(e) {
		em.stopped = true
	}
}

// Stopped reports whether the consumer abandoned the run.
func (em *Emitter) Stopped() bool { return em.stopped }

// Count is the number of events emitted so far.
func (em *Emitter) Count() int { return em.count }

func (em *Emitter) Compare(i, j int) { em.Emit(event.Compare{I: i, J: j}) }

func (em *Emitter) Swap(i, j int) { em.Emit(event.Swap{I: i, J: j}) }

func (em *Emitter) Set(index int, value float64) { em.Emit(event.Set{Index: index, Value: value}) }

func (em *Emitter) Mark(tag string, indices ...int) {
	em.Emit(event.Mark{Indices: slices.Clone(indices), Tag: tag})
}

func (em *Emitter) Unmark(tag string, indices ...int) {
	em.Emit(event.Unmark{Indices: slices.Clone(indices), Tag: tag})
}

// Message emits a formatted message.
func (em *Emitter) Message(level event.Level, format string, args ...any) {
	em.Emit(event.Message{Text: fmt.Sprintf(format, args...), Level: level})
}

// Step emits a step-level message, the most common narration.
func (em *Emitter) Step(format string, args ...any) {
	em.Message(event.LevelStep, format, args...)
}

// Highlight selects pseudocode lines.
func (em *Emitter) Highlight(lines ...int) {
	em.Emit(event.Highlight{Lines: slices.Clone(lines)})
}

// Pointers replaces the pointer overlay; variables are given as name/value pairs.
func (em *Emitter) Pointers(pointers []event.PointerMark, vars ...Var) {
	out := event.Pointer{Pointers: slices.Clone(pointers)}
	if out.Pointers == nil {
		out.Pointers = []event.PointerMark{}
	}
	for _, v := range vars {
		out.Variables = append(out.Variables, event.Variable{Name: v.Name, Value: formatVar(v.Value)})
	}
	em.Emit(out)
}

// Aux replaces the auxiliary view.
func (em *Emitter) Aux(a event.Aux) { em.Emit(event.Auxiliary{Aux: a}) }

// Metric adds delta to a named counter.
func (em *Emitter) Metric(name string, delta int) { em.Emit(event.Metric{Name: name, Delta: delta}) }

// Result emits the final answer.
func (em *Emitter) Result(v event.ResultValue) { em.Emit(event.Result{Value: v}) }

// Delegate forwards every event of a sub-sequence in order, then returns.
func (em *Emitter) Delegate(child iter.Seq[event.Event]) {
	for e := range child {
		if em.stopped {
			return
		}
		em.Emit(e)
	}
}

// DelegateProducer drains a child producer into this body. A child defect is re-raised as a
// panic so it surfaces unchanged from the outer producer's Next.
func (em *Emitter) DelegateProducer(child Producer) {
	defer child.Close()
	for !em.stopped {
		e, ok, err := child.Next()
		if err != nil {
			panic(err)
		}
		if !ok {
			return
		}
		em.Emit(e)
	}
}

// Var is a named value for the variables table.
type Var struct {
	Name  string
	Value any
}

// V builds a Var.
func V(name string, value any) Var { return Var{Name: name, Value: value} }

func formatVar(v any) string {
	switch t := v.(type) {
	case float64:
		return event.FormatValue(t)
	case []float64:
		return FormatValues(t)
	case nil:
		return "-"
	default:
		return fmt.Sprint(t)
	}
}

// FormatValues renders a number list as "[a, b, c]".
func FormatValues(vs []float64) string {
	out := "["
	for i, v := range vs {
		if i > 0 {
			out += ", "
		}
		out += event.FormatValue(v)
	}
	return out + "]"
}
