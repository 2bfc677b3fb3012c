// Package searching provides the search and two-pointer algorithms of the catalog.
package searching

import (
	"github.com/wilhg/stepviz/pkg/algorithm"
)

const category = "searching"

// Descriptors returns every searching algorithm.
func Descriptors() []algorithm.Descriptor {
	return []algorithm.Descriptor{BinarySearch(), LinearSearch(), TwoSum(), SlidingWindow()}
}

func needTarget() algorithm.ValidateFunc {
	return algorithm.ValidateWith(func(in algorithm.ArrayInput) algorithm.Validation {
		if in.Target == nil {
			return algorithm.Invalid("a target value is required")
		}
		return algorithm.Valid()
	})
}

func arrayCaps() algorithm.ValidateFunc {
	return algorithm.ArraySize(algorithm.MinArrayLen, algorithm.MaxArrayLen, 9999)
}
