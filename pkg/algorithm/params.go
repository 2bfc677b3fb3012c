package algorithm

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wilhg/stepviz/pkg/errmodel"
)

// ParamType is the form control a host builds for a parameter.
type ParamType string

const (
	ParamNumber ParamType = "number"
	ParamText   ParamType = "text"
	ParamSelect ParamType = "select"
)

// ParamOption is one choice of a select parameter.
type ParamOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Dependency makes a parameter relevant only while another parameter holds one of Values.
type Dependency struct {
	ParameterID string   `json:"parameterId"`
	Values      []string `json:"values"`
}

// ParamSpec declares one configurable parameter. The core does not interpret UI semantics
// (Label, Step); it only applies defaults, dependencies and range/option constraints.
type ParamSpec struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	Type      ParamType     `json:"type"`
	Default   any           `json:"default"`
	Min       *float64      `json:"min,omitempty"`
	Max       *float64      `json:"max,omitempty"`
	Step      *float64      `json:"step,omitempty"`
	Options   []ParamOption `json:"options,omitempty"`
	DependsOn *Dependency   `json:"dependsOn,omitempty"`
}

// Bound is a convenience for ParamSpec.Min/Max/Step literals.
func Bound(v float64) *float64 { return &v }

// Params holds resolved parameter values keyed by ParamSpec.ID.
type Params map[string]any

// Float returns the numeric value of id, or 0 when absent or not numeric.
func (p Params) Float(id string) float64 {
	switch v := p[id].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// Int returns the value of id rounded to the nearest integer.
func (p Params) Int(id string) int {
	return int(math.Round(p.Float(id)))
}

// String returns the value of id formatted as text.
func (p Params) String(id string) string {
	v, ok := p[id]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reports whether id survived resolution.
func (p Params) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// ParamSchema renders the descriptor's parameters as a JSON Schema object.
func (d Descriptor) ParamSchema() []byte {
	props := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		prop := map[string]any{}
		if p.Label != "" {
			prop["title"] = p.Label
		}
		switch p.Type {
		case ParamNumber:
			prop["type"] = "number"
			if p.Min != nil {
				prop["minimum"] = *p.Min
			}
			if p.Max != nil {
				prop["maximum"] = *p.Max
			}
		case ParamSelect:
			prop["type"] = "string"
			enum := make([]string, 0, len(p.Options))
			for _, o := range p.Options {
				enum = append(enum, o.Value)
			}
			prop["enum"] = enum
		default:
			prop["type"] = "string"
		}
		props[p.ID] = prop
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	b, _ := json.Marshal(schema)
	return b
}

// ResolveParams applies defaults, drops parameters whose dependency is unsatisfied and
// validates the result against ParamSchema. Unknown keys are rejected.
func (d Descriptor) ResolveParams(raw map[string]any) (Params, error) {
	specs := make(map[string]ParamSpec, len(d.Params))
	for _, p := range d.Params {
		specs[p.ID] = p
	}
	out := make(Params, len(d.Params))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		spec, ok := specs[k]
		if !ok {
			return nil, errmodel.Validation("unknown_parameter", fmt.Sprintf("unknown parameter %q", k), map[string]any{"algorithm": d.ID})
		}
		v, err := coerce(spec, raw[k])
		if err != nil {
			return nil, errmodel.Validation("invalid_parameters", err.Error(), map[string]any{"algorithm": d.ID, "parameter": k})
		}
		out[k] = v
	}
	for _, p := range d.Params {
		if _, ok := out[p.ID]; !ok && p.Default != nil {
			out[p.ID] = p.Default
		}
	}
	for _, p := range d.Params {
		if p.DependsOn != nil && !p.DependsOn.satisfied(out) {
			delete(out, p.ID)
		}
	}
	if err := JSONSchemaValidator(d.ParamSchema(), map[string]any(out)); err != nil {
		return nil, errmodel.Validation("invalid_parameters", err.Error(), map[string]any{"algorithm": d.ID})
	}
	return out, nil
}

func (dep Dependency) satisfied(p Params) bool {
	v, ok := p[dep.ParameterID]
	if !ok {
		return false
	}
	got := fmt.Sprint(v)
	for _, want := range dep.Values {
		if got == want {
			return true
		}
	}
	return false
}

// coerce converts textual values (from flags or forms) into the parameter's type.
func coerce(spec ParamSpec, v any) (any, error) {
	s, isString := v.(string)
	if spec.Type != ParamNumber || !isString {
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %q is not a number", spec.ID, s)
	}
	return f, nil
}

// ParseParamFlags turns "key=value" pairs into a raw parameter map.
func ParseParamFlags(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("parameter %q: want key=value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
