package script

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/wilhg/stepviz/pkg/algorithm"
)

type definition struct {
	id, name, category, description string
	difficulty                      algorithm.Difficulty
	kind                            algorithm.InputKind
	pseudocode                      []string
	complexity                      algorithm.Complexity
	params                          []algorithm.ParamSpec
	minLen, maxLen                  int
}

func (def definition) descriptor() algorithm.Descriptor {
	d := algorithm.Descriptor{
		ID:          def.id,
		Name:        def.name,
		Category:    def.category,
		Difficulty:  def.difficulty,
		Pseudocode:  def.pseudocode,
		Complexity:  def.complexity,
		Params:      def.params,
		InputKind:   def.kind,
		Description: def.description,
	}
	if def.kind == algorithm.InputGraph {
		d.Validate = algorithm.GraphSize(max(def.minLen, 1), def.maxLen, false)
	} else {
		d.Validate = algorithm.ArraySize(def.minLen, def.maxLen, 0)
	}
	return d
}

// readDefinition reads the definition table at index.
func readDefinition(state *lua.State, index int) (definition, error) {
	index = state.AbsIndex(index)
	def := definition{
		id:          stringField(state, index, "id", ""),
		name:        stringField(state, index, "name", ""),
		category:    stringField(state, index, "category", "scripts"),
		description: stringField(state, index, "description", ""),
		difficulty:  algorithm.Difficulty(stringField(state, index, "difficulty", string(algorithm.Medium))),
		kind:        algorithm.InputKind(stringField(state, index, "input", string(algorithm.InputArray))),
		minLen:      int(numberField(state, index, "min", 0)),
		maxLen:      int(numberField(state, index, "max", algorithm.MaxArrayLen)),
	}
	if def.minLen < 0 || def.maxLen < def.minLen {
		return def, fmt.Errorf("invalid size range %d..%d", def.minLen, def.maxLen)
	}
	switch def.difficulty {
	case algorithm.Easy, algorithm.Medium, algorithm.Hard:
	default:
		return def, fmt.Errorf("unknown difficulty %q", def.difficulty)
	}

	state.Field(index, "pseudocode")
	if state.TypeOf(-1) == lua.TypeTable {
		for i := 1; i <= state.RawLength(-1); i++ {
			state.RawGetInt(-1, i)
			line, _ := state.ToString(-1)
			def.pseudocode = append(def.pseudocode, line)
			state.Pop(1)
		}
	}
	state.Pop(1)

	state.Field(index, "complexity")
	if state.TypeOf(-1) == lua.TypeTable {
		t := state.AbsIndex(-1)
		def.complexity = algorithm.Complexity{
			Best:    stringField(state, t, "best", ""),
			Average: stringField(state, t, "average", ""),
			Worst:   stringField(state, t, "worst", ""),
			Space:   stringField(state, t, "space", ""),
		}
	}
	state.Pop(1)

	state.Field(index, "params")
	if state.TypeOf(-1) == lua.TypeTable {
		for i := 1; i <= state.RawLength(-1); i++ {
			state.RawGetInt(-1, i)
			spec, err := readParam(state, state.AbsIndex(-1))
			state.Pop(1)
			if err != nil {
				state.Pop(1)
				return def, err
			}
			def.params = append(def.params, spec)
		}
	}
	state.Pop(1)
	return def, nil
}

func readParam(state *lua.State, index int) (algorithm.ParamSpec, error) {
	if state.TypeOf(index) != lua.TypeTable {
		return algorithm.ParamSpec{}, fmt.Errorf("params entries must be tables")
	}
	spec := algorithm.ParamSpec{
		ID:    stringField(state, index, "id", ""),
		Label: stringField(state, index, "label", ""),
		Type:  algorithm.ParamType(stringField(state, index, "type", string(algorithm.ParamNumber))),
	}
	if spec.Label == "" {
		spec.Label = spec.ID
	}
	state.Field(index, "default")
	spec.Default = luaValue(state, -1)
	state.Pop(1)
	for key, dst := range map[string]**float64{"min": &spec.Min, "max": &spec.Max, "step": &spec.Step} {
		state.Field(index, key)
		if v, ok := state.ToNumber(-1); ok && state.TypeOf(-1) == lua.TypeNumber {
			*dst = algorithm.Bound(v)
		}
		state.Pop(1)
	}
	return spec, nil
}

func stringField(state *lua.State, index int, key, def string) string {
	state.Field(index, key)
	defer state.Pop(1)
	if state.TypeOf(-1) != lua.TypeString {
		return def
	}
	s, _ := state.ToString(-1)
	return s
}

func numberField(state *lua.State, index int, key string, def float64) float64 {
	state.Field(index, key)
	defer state.Pop(1)
	if state.TypeOf(-1) != lua.TypeNumber {
		return def
	}
	v, _ := state.ToNumber(-1)
	return v
}
