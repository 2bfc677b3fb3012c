package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Marshal encodes e as {"type": "<kind>", ...fields}. Auxiliary payloads are nested under
// "data" with a "shape" discriminant; results under "value" with a "kind" discriminant.
func Marshal(e Event) ([]byte, error) {
	switch v := e.(type) {
	case nil:
		return nil, errors.New("event: nil event")
	case Auxiliary:
		data, err := MarshalAux(v.Aux)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type Kind            `json:"type"`
			Data json.RawMessage `json:"data"`
		}{KindAuxiliary, data})
	case Result:
		val, err := MarshalResult(v.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Type  Kind            `json:"type"`
			Value json.RawMessage `json:"value"`
		}{KindResult, val})
	default:
		return tagged("type", string(e.Kind()), e)
	}
}

// Unmarshal decodes the wire shape produced by Marshal.
func Unmarshal(data []byte) (Event, error) {
	var head struct {
		Type  Kind            `json:"type"`
		Data  json.RawMessage `json:"data"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("event: %w", err)
	}
	switch head.Type {
	case KindCompare:
		return decode[Compare](data)
	case KindSwap:
		return decode[Swap](data)
	case KindSet:
		return decode[Set](data)
	case KindMark:
		return decode[Mark](data)
	case KindUnmark:
		return decode[Unmark](data)
	case KindMessage:
		return decode[Message](data)
	case KindHighlight:
		return decode[Highlight](data)
	case KindPointer:
		return decode[Pointer](data)
	case KindMetric:
		return decode[Metric](data)
	case KindAuxiliary:
		aux, err := UnmarshalAux(head.Data)
		if err != nil {
			return nil, err
		}
		return Auxiliary{Aux: aux}, nil
	case KindResult:
		val, err := UnmarshalResult(head.Value)
		if err != nil {
			return nil, err
		}
		return Result{Value: val}, nil
	default:
		return nil, fmt.Errorf("event: unknown type %q", head.Type)
	}
}

// MarshalAux encodes an auxiliary payload with its "shape" discriminant.
func MarshalAux(a Aux) ([]byte, error) {
	if a == nil {
		return nil, errors.New("event: nil auxiliary payload")
	}
	return tagged("shape", string(a.AuxKind()), a)
}

// UnmarshalAux decodes a payload produced by MarshalAux.
func UnmarshalAux(data []byte) (Aux, error) {
	var head struct {
		Shape AuxKind `json:"shape"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("event: auxiliary: %w", err)
	}
	switch head.Shape {
	case AuxDPTable:
		return decodeAux[DPTable](data)
	case AuxGraph:
		return decodeAux[GraphView](data)
	case AuxHeap:
		return decodeAux[HeapView](data)
	case AuxHashTable:
		return decodeAux[HashTableView](data)
	case AuxStack:
		return decodeAux[StackView](data)
	default:
		return nil, fmt.Errorf("event: unknown auxiliary shape %q", head.Shape)
	}
}

type resultWire struct {
	Kind    ResultKind `json:"kind"`
	Indices []int      `json:"indices,omitempty"`
	Order   []string   `json:"order,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Text    *string    `json:"text,omitempty"`
	Items   []Item     `json:"items,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// MarshalResult encodes a result value with its "kind" discriminant.
func MarshalResult(r ResultValue) ([]byte, error) {
	w := resultWire{}
	switch v := r.(type) {
	case nil:
		return nil, errors.New("event: nil result value")
	case Indices:
		w.Indices = nonNil(v)
	case Order:
		w.Order = nonNil(v)
	case Number:
		n := float64(v)
		w.Number = &n
	case Boolean:
		b := bool(v)
		w.Boolean = &b
	case Text:
		s := string(v)
		w.Text = &s
	case Items:
		w.Items = nonNil(v)
	case NotFound:
		w.Reason = v.Reason
	}
	w.Kind = r.ResultKind()
	return json.Marshal(w)
}

// UnmarshalResult decodes a value produced by MarshalResult.
func UnmarshalResult(data []byte) (ResultValue, error) {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("event: result: %w", err)
	}
	switch w.Kind {
	case ResultIndices:
		return Indices(nonNil(w.Indices)), nil
	case ResultOrder:
		return Order(nonNil(w.Order)), nil
	case ResultNumber:
		if w.Number == nil {
			return nil, errors.New("event: number result without value")
		}
		return Number(*w.Number), nil
	case ResultBoolean:
		if w.Boolean == nil {
			return nil, errors.New("event: boolean result without value")
		}
		return Boolean(*w.Boolean), nil
	case ResultText:
		if w.Text == nil {
			return Text(""), nil
		}
		return Text(*w.Text), nil
	case ResultItems:
		return Items(nonNil(w.Items)), nil
	case ResultNotFound:
		return NotFound{Reason: w.Reason}, nil
	default:
		return nil, fmt.Errorf("event: unknown result kind %q", w.Kind)
	}
}

// List is an ordered event sequence that marshals every element with Marshal.
type List []Event

func (l List) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, len(l))
	for i, e := range l {
		b, err := Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		raws[i] = b
	}
	return json.Marshal(raws)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		e, err := Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

func decode[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("event: %w", err)
	}
	return v, nil
}

func decodeAux[T Aux](data []byte) (Aux, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("event: auxiliary: %w", err)
	}
	return v, nil
}

// tagged marshals v (a struct) and prepends the discriminant field key=tag.
func tagged(key, tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("event: %s %q does not encode as an object", key, tag)
	}
	head, _ := json.Marshal(tag)
	var buf bytes.Buffer
	buf.WriteString(`{"` + key + `":`)
	buf.Write(head)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
