package event

import (
	"errors"
	"fmt"
)

// maxIndex bounds positions so a corrupt event cannot make the fold allocate unboundedly.
const maxIndex = 1 << 16

// Validate rejects malformed events before they are folded.
func Validate(e Event) error {
	switch v := e.(type) {
	case nil:
		return errors.New("nil event")
	case Compare:
		return checkIndices(v.I, v.J)
	case Swap:
		return checkIndices(v.I, v.J)
	case Set:
		return checkIndices(v.Index)
	case Mark:
		if v.Tag == "" {
			return errors.New("mark without tag")
		}
		return checkIndices(v.Indices...)
	case Unmark:
		return checkIndices(v.Indices...)
	case Message:
		return nil
	case Highlight:
		for _, l := range v.Lines {
			if l < 0 {
				return fmt.Errorf("negative pseudocode line %d", l)
			}
		}
		return nil
	case Pointer:
		for _, p := range v.Pointers {
			if p.Index < -1 || p.Index > maxIndex {
				return fmt.Errorf("pointer %q index %d out of range", p.Label, p.Index)
			}
		}
		return nil
	case Auxiliary:
		if v.Aux == nil {
			return errors.New("auxiliary event without payload")
		}
		return nil
	case Metric:
		if v.Name == "" {
			return errors.New("metric without name")
		}
		if v.Delta < 0 {
			return fmt.Errorf("metric %q: negative delta %d", v.Name, v.Delta)
		}
		return nil
	case Result:
		if v.Value == nil {
			return errors.New("result without value")
		}
		return nil
	default:
		return fmt.Errorf("unknown event %T", e)
	}
}

func checkIndices(idx ...int) error {
	for _, i := range idx {
		if i < 0 || i > maxIndex {
			return fmt.Errorf("index %d out of range", i)
		}
	}
	return nil
}
