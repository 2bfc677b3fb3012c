package algorithm

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// SeedParam is the parameter every demo-data fabricating algorithm declares.
// Zero derives the seed from the input, so identical runs produce identical timelines.
func SeedParam() ParamSpec {
	return ParamSpec{
		ID:      "seed",
		Label:   "Random seed (0 = derived from input)",
		Type:    ParamNumber,
		Default: 0,
		Min:     Bound(0),
		Step:    Bound(1),
	}
}

// NewRand returns the deterministic generator for a run.
func NewRand(in Input, p Params) *rand.Rand {
	seed := uint64(p.Int("seed"))
	if seed == 0 {
		seed = Fingerprint(in)
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fingerprint hashes an input's JSON form. An input JSON cannot encode, such as one holding
// NaN, hashes to its kind alone.
func Fingerprint(in Input) uint64 {
	b, err := json.Marshal(in)
	if err != nil {
		b = nil
	}
	return xxhash.Sum64(append([]byte(in.InputKind()), b...))
}
