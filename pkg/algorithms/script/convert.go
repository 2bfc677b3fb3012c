package script

import (
	"math"
	"slices"

	"github.com/Shopify/go-lua"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/event"
)

func pushInput(state *lua.State, in algorithm.Input) {
	switch v := in.(type) {
	case algorithm.ArrayInput:
		state.NewTable()
		pushNumbers(state, v.Values)
		state.SetField(-2, "values")
		if v.Target != nil {
			state.PushNumber(*v.Target)
			state.SetField(-2, "target")
		}
	case algorithm.GraphInput:
		state.NewTable()
		state.NewTable()
		for i, n := range v.Nodes {
			state.NewTable()
			state.PushString(n.ID)
			state.SetField(-2, "id")
			state.PushString(v.Label(n.ID))
			state.SetField(-2, "label")
			state.RawSetInt(-2, i+1)
		}
		state.SetField(-2, "nodes")
		state.NewTable()
		for i, e := range v.Edges {
			state.NewTable()
			state.PushString(e.Source)
			state.SetField(-2, "source")
			state.PushString(e.Target)
			state.SetField(-2, "target")
			state.PushNumber(e.Weight)
			state.SetField(-2, "weight")
			state.RawSetInt(-2, i+1)
		}
		state.SetField(-2, "edges")
		state.PushString(v.StartNode())
		state.SetField(-2, "start")
		state.PushBoolean(v.IsDirected)
		state.SetField(-2, "directed")
	default:
		state.PushNil()
	}
}

func pushNumbers(state *lua.State, vs []float64) {
	state.CreateTable(len(vs), 0)
	for i, v := range vs {
		state.PushNumber(v)
		state.RawSetInt(-2, i+1)
	}
}

func pushParams(state *lua.State, p algorithm.Params) {
	state.NewTable()
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		switch v := p[k].(type) {
		case string:
			state.PushString(v)
		case bool:
			state.PushBoolean(v)
		default:
			state.PushNumber(p.Float(k))
		}
		state.SetField(-2, k)
	}
}

// luaValue converts a scalar at index. Tables and functions have no Go counterpart here.
func luaValue(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		s, _ := state.ToString(index)
		return s
	case lua.TypeNumber:
		v, _ := state.ToNumber(index)
		if v == math.Trunc(v) {
			return int(v)
		}
		return v
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	default:
		return nil
	}
}

// resultValue maps a Lua value to a result: numbers, strings and booleans map directly,
// a list of numbers becomes Indices and a list of strings an Order.
func resultValue(l *lua.State, index int) event.ResultValue {
	switch l.TypeOf(index) {
	case lua.TypeNumber:
		v, _ := l.ToNumber(index)
		return event.Number(v)
	case lua.TypeString:
		s, _ := l.ToString(index)
		return event.Text(s)
	case lua.TypeBoolean:
		return event.Boolean(l.ToBoolean(index))
	case lua.TypeTable:
		index = l.AbsIndex(index)
		n := l.RawLength(index)
		if n == 0 {
			return event.Indices{}
		}
		l.RawGetInt(index, 1)
		strs := l.TypeOf(-1) == lua.TypeString
		l.Pop(1)
		if strs {
			out := make(event.Order, 0, n)
			for i := 1; i <= n; i++ {
				l.RawGetInt(index, i)
				s, _ := l.ToString(-1)
				out = append(out, s)
				l.Pop(1)
			}
			return out
		}
		out := make(event.Indices, 0, n)
		for i := 1; i <= n; i++ {
			l.RawGetInt(index, i)
			v, ok := l.ToInteger(-1)
			l.Pop(1)
			if !ok {
				lua.ArgumentError(l, index, "list results hold integers or strings")
			}
			out = append(out, v)
		}
		return out
	default:
		return event.NotFound{Reason: "no result"}
	}
}
