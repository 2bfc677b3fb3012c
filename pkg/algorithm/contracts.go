// Package algorithm defines the contract every visualizable algorithm satisfies.
// It decouples what an algorithm does from how its execution is played back.
//
// An algorithm is described by a Descriptor:
//   - metadata (id, name, category, difficulty, pseudocode, complexity)
//   - a parameter schema (ParamSpec), validated with JSON Schema
//   - a total, side-effect free input validator
//   - a producer factory that emits the algorithm's events lazily
//
// Example usage:
//
//	algorithm.Descriptor{
//		ID:        "countdown",
//		Name:      "Countdown",
//		InputKind: algorithm.InputArray,
//		Validate:  algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation { return algorithm.Valid() }),
//		Produce: algorithm.ProduceWith(func(em *algorithm.Emitter, in algorithm.ArrayInput, _ algorithm.Params) {
//			em.Message(event.LevelInfo, "done")
//		}),
//	}
package algorithm

import (
	"fmt"

	"github.com/wilhg/stepviz/pkg/errmodel"
)

// Difficulty grades how hard an algorithm is to follow.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Complexity holds the asymptotic cost notes shown next to a visualization.
type Complexity struct {
	Best    string `json:"best"`
	Average string `json:"average"`
	Worst   string `json:"worst"`
	Space   string `json:"space"`
}

// Validation is the outcome of an input check. A failed validation is not an error:
// it is reported to the caller, never raised.
type Validation struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Valid is the successful Validation.
func Valid() Validation { return Validation{OK: true} }

// Invalid builds a failed Validation with a formatted message.
func Invalid(format string, args ...any) Validation {
	return Validation{OK: false, Error: fmt.Sprintf(format, args...)}
}

// ValidateFunc checks an input. It must be total and side-effect free, and must reject
// inputs that would make the producer run unboundedly or exceed visualization caps.
type ValidateFunc func(in Input) Validation

// ProduceFunc creates a fresh producer for one run. It is only called with inputs that
// passed validation and with resolved parameters.
type ProduceFunc func(in Input, p Params) Producer

// Descriptor declares one algorithm. Descriptors are immutable once registered.
type Descriptor struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	// Pseudocode is indexed by line; Highlight events refer to these indices.
	Pseudocode  []string    `json:"pseudocode"`
	Complexity  Complexity  `json:"complexity"`
	Params      []ParamSpec `json:"parameters,omitempty"`
	InputKind   InputKind   `json:"inputKind"`
	Description string      `json:"description,omitempty"`

	Validate ValidateFunc `json:"-"`
	Produce  ProduceFunc  `json:"-"`
}

// Check reports structural problems with the descriptor itself (not with an input).
func (d Descriptor) Check() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor id is empty")
	}
	if d.Name == "" {
		return fmt.Errorf("descriptor %q: name is empty", d.ID)
	}
	if d.Produce == nil {
		return fmt.Errorf("descriptor %q: produce is nil", d.ID)
	}
	if d.Validate == nil {
		return fmt.Errorf("descriptor %q: validate is nil", d.ID)
	}
	switch d.InputKind {
	case InputArray, InputGraph:
	default:
		return fmt.Errorf("descriptor %q: unknown input kind %q", d.ID, d.InputKind)
	}
	seen := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		if p.ID == "" {
			return fmt.Errorf("descriptor %q: parameter id is empty", d.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("descriptor %q: duplicate parameter %q", d.ID, p.ID)
		}
		seen[p.ID] = true
	}
	for _, p := range d.Params {
		if p.DependsOn != nil && !seen[p.DependsOn.ParameterID] {
			return fmt.Errorf("descriptor %q: parameter %q depends on unknown %q", d.ID, p.ID, p.DependsOn.ParameterID)
		}
	}
	if err := CompileJSONSchema(d.ParamSchema()); err != nil {
		return fmt.Errorf("descriptor %q: parameter schema: %w", d.ID, err)
	}
	if _, err := d.ResolveParams(nil); err != nil {
		return fmt.Errorf("descriptor %q: defaults: %w", d.ID, err)
	}
	return nil
}

// Run validates in, resolves raw parameters and creates a producer. Input and parameter
// problems are validation-category errors; the producer has not been created in that case.
func (d Descriptor) Run(in Input, raw map[string]any) (Producer, Params, error) {
	if v := d.Validate(in); !v.OK {
		return nil, nil, errmodel.Validation("invalid_input", v.Error, map[string]any{"algorithm": d.ID})
	}
	params, err := d.ResolveParams(raw)
	if err != nil {
		return nil, nil, err
	}
	return d.Produce(in, params), params, nil
}
