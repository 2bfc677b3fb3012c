package script

import (
	"github.com/Shopify/go-lua"

	"github.com/wilhg/stepviz/pkg/event"
)

// recorder collects the events a run emits through the viz table.
type recorder struct {
	events []event.Event
	max    int
}

func (r *recorder) register(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "compare", Function: func(l *lua.State) int {
			return r.emit(l, event.Compare{I: lua.CheckInteger(l, 1), J: lua.CheckInteger(l, 2)})
		}},
		{Name: "swap", Function: func(l *lua.State) int {
			return r.emit(l, event.Swap{I: lua.CheckInteger(l, 1), J: lua.CheckInteger(l, 2)})
		}},
		{Name: "set", Function: func(l *lua.State) int {
			return r.emit(l, event.Set{Index: lua.CheckInteger(l, 1), Value: lua.CheckNumber(l, 2)})
		}},
		{Name: "mark", Function: func(l *lua.State) int {
			return r.emit(l, event.Mark{Tag: lua.CheckString(l, 1), Indices: integers(l, 2)})
		}},
		{Name: "unmark", Function: func(l *lua.State) int {
			return r.emit(l, event.Unmark{Tag: lua.OptString(l, 1, ""), Indices: integers(l, 2)})
		}},
		{Name: "message", Function: func(l *lua.State) int {
			return r.emit(l, event.Message{Text: lua.CheckString(l, 1), Level: event.Level(lua.OptString(l, 2, string(event.LevelStep)))})
		}},
		{Name: "highlight", Function: func(l *lua.State) int {
			return r.emit(l, event.Highlight{Lines: integers(l, 1)})
		}},
		{Name: "pointer", Function: func(l *lua.State) int {
			return r.emit(l, event.Pointer{Pointers: []event.PointerMark{{Index: lua.CheckInteger(l, 1), Label: lua.CheckString(l, 2)}}})
		}},
		{Name: "metric", Function: func(l *lua.State) int {
			return r.emit(l, event.Metric{Name: lua.CheckString(l, 1), Delta: lua.OptInteger(l, 2, 1)})
		}},
		{Name: "result", Function: func(l *lua.State) int {
			return r.emit(l, event.Result{Value: resultValue(l, 1)})
		}},
		{Name: "not_found", Function: func(l *lua.State) int {
			return r.emit(l, event.Result{Value: event.NotFound{Reason: lua.OptString(l, 1, "not found")}})
		}},
	}, 0)
	state.SetGlobal("viz")
}

func (r *recorder) emit(l *lua.State, e event.Event) int {
	if err := event.Validate(e); err != nil {
		lua.Errorf(l, "viz.%s: %s", string(e.Kind()), err.Error())
	}
	if len(r.events) >= r.max {
		lua.Errorf(l, "script exceeded %d events", r.max)
	}
	r.events = append(r.events, e)
	return 0
}

// integers reads every argument from first on as an integer.
func integers(l *lua.State, first int) []int {
	out := make([]int, 0, max(l.Top()-first+1, 0))
	for i := first; i <= l.Top(); i++ {
		out = append(out, lua.CheckInteger(l, i))
	}
	return out
}
