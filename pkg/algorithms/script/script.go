// Package script loads algorithms written in Lua.
//
// A script returns a definition table and supplies a run function, either as the table's
// run field or as a global:
//
//	return {
//		id = "reverse",
//		name = "Reverse",
//		category = "scripts",
//		pseudocode = { "i = 0; j = n-1", "while i < j: swap a[i], a[j]" },
//		run = function(input, params)
//			local i, j = 0, #input.values - 1
//			while i < j do
//				viz.highlight(1)
//				viz.swap(i, j)
//				i, j = i + 1, j - 1
//			end
//			viz.result(#input.values)
//		end,
//	}
//
// The run function drives the visualization through the viz table. Indices and pseudocode
// lines are 0-based, matching the event vocabulary. Calls are recorded while the script runs
// and replayed as a fixed event list; a Lua error ends the run as a producer defect.
package script

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/wilhg/stepviz/pkg/algorithm"
	"github.com/wilhg/stepviz/pkg/errmodel"
	"github.com/wilhg/stepviz/pkg/event"
)

// DefaultMaxEvents caps what one script run may record.
const DefaultMaxEvents = 10_000

// Option configures script loading.
type Option func(*options)

type options struct {
	maxEvents int
}

// WithMaxEvents overrides the per-run event cap.
func WithMaxEvents(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEvents = n
		}
	}
}

type source struct {
	name      string
	code      string
	maxEvents int
}

// Load compiles src and returns the descriptor it defines. name labels the chunk in errors.
func Load(name string, src []byte, opts ...Option) (algorithm.Descriptor, error) {
	o := options{maxEvents: DefaultMaxEvents}
	for _, opt := range opts {
		opt(&o)
	}
	s := &source{name: name, code: string(src), maxEvents: o.maxEvents}

	state := lua.NewState()
	lua.OpenLibraries(state)
	if err := s.define(state); err != nil {
		return algorithm.Descriptor{}, err
	}
	def, err := readDefinition(state, -1)
	state.Pop(1)
	if err != nil {
		return algorithm.Descriptor{}, fmt.Errorf("script %s: %w", name, err)
	}
	if def.id == "" {
		def.id = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	if def.name == "" {
		def.name = def.id
	}
	d := def.descriptor()
	d.Produce = s.produce
	if err := d.Check(); err != nil {
		return algorithm.Descriptor{}, fmt.Errorf("script %s: %w", name, err)
	}
	return d, nil
}

// LoadFS loads every *.lua file directly under dir, in name order.
func LoadFS(fsys fs.FS, dir string, opts ...Option) ([]algorithm.Descriptor, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.lua"))
	if err != nil {
		return nil, err
	}
	out := make([]algorithm.Descriptor, 0, len(names))
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		d, err := Load(name, src, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadDir loads the scripts of a directory on disk. An empty dir loads nothing.
func LoadDir(dir string, opts ...Option) ([]algorithm.Descriptor, error) {
	if dir == "" {
		return nil, nil
	}
	return LoadFS(os.DirFS(dir), ".", opts...)
}

// define runs the chunk, leaving the definition table on the stack and the run function
// stored as the global run.
func (s *source) define(state *lua.State) error {
	if err := lua.LoadBuffer(state, s.code, s.name, "t"); err != nil {
		return fmt.Errorf("script %s: %w", s.name, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return fmt.Errorf("script %s: %w", s.name, err)
	}
	if state.TypeOf(-1) != lua.TypeTable {
		state.Pop(1)
		return fmt.Errorf("script %s must return a definition table", s.name)
	}
	state.Field(-1, "run")
	if state.TypeOf(-1) == lua.TypeFunction {
		state.SetGlobal("run")
	} else {
		state.Pop(1)
	}
	state.Global("run")
	ok := state.TypeOf(-1) == lua.TypeFunction
	state.Pop(1)
	if !ok {
		state.Pop(1)
		return fmt.Errorf("script %s defines no run function", s.name)
	}
	return nil
}

// produce runs the script on the first Next and then replays what it recorded.
func (s *source) produce(in algorithm.Input, p algorithm.Params) algorithm.Producer {
	return algorithm.FromSeq(func(yield func(event.Event) bool) {
		algorithm.NewEmitter(yield).DelegateProducer(s.record(in, p))
	})
}

// record executes run(input, params) in a fresh state. Events recorded before a failure are
// still replayed; the failure follows them.
func (s *source) record(in algorithm.Input, p algorithm.Params) algorithm.Producer {
	rec := &recorder{max: s.maxEvents}
	state := lua.NewState()
	lua.OpenLibraries(state)
	err := s.define(state)
	if err == nil {
		state.Pop(1)
		rec.register(state)
		state.Global("run")
		pushInput(state, in)
		pushParams(state, p)
		err = state.ProtectedCall(2, 0, 0)
	}
	if err == nil {
		return algorithm.Slice(rec.events...)
	}
	stack := algorithm.NewStack(algorithm.Fail(errmodel.Producer("script_failed", err.Error(),
		map[string]any{"script": s.name, "events": len(rec.events)}, nil)))
	stack.Push(algorithm.Slice(rec.events...))
	return stack
}
