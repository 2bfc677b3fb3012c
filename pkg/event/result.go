package event

import (
	"fmt"
	"strconv"
	"strings"
)

// ResultKind names the type of a final answer.
type ResultKind string

const (
	ResultIndices  ResultKind = "indices"
	ResultOrder    ResultKind = "order"
	ResultNumber   ResultKind = "number"
	ResultBoolean  ResultKind = "boolean"
	ResultText     ResultKind = "text"
	ResultItems    ResultKind = "items"
	ResultNotFound ResultKind = "not-found"
)

// ResultValue is the closed union of typed final answers.
type ResultValue interface {
	ResultKind() ResultKind
	String() string
	isResult()
}

// Indices is a list of array positions, e.g. the two indices of a two-sum pair.
type Indices []int

// Order is a visit order of graph node ids.
type Order []string

// Number is a scalar answer.
type Number float64

// Boolean is a yes/no answer.
type Boolean bool

// Text is a free-form answer.
type Text string

// Item is a labelled entry of an Items answer.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Items is a list of labelled values, e.g. selected activities or Huffman codes.
type Items []Item

// NotFound reports an algorithmic edge case such as "no path found". It is not an error.
type NotFound struct {
	Reason string `json:"reason"`
}

func (Indices) ResultKind() ResultKind  { return ResultIndices }
func (Order) ResultKind() ResultKind    { return ResultOrder }
func (Number) ResultKind() ResultKind   { return ResultNumber }
func (Boolean) ResultKind() ResultKind  { return ResultBoolean }
func (Text) ResultKind() ResultKind     { return ResultText }
func (Items) ResultKind() ResultKind    { return ResultItems }
func (NotFound) ResultKind() ResultKind { return ResultNotFound }

func (Indices) isResult()  {}
func (Order) isResult()    {}
func (Number) isResult()   {}
func (Boolean) isResult()  {}
func (Text) isResult()     {}
func (Items) isResult()    {}
func (NotFound) isResult() {}

func (r Indices) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (r Order) String() string { return strings.Join(r, " → ") }

func (r Number) String() string { return FormatValue(float64(r)) }

func (r Boolean) String() string { return strconv.FormatBool(bool(r)) }

func (r Text) String() string { return string(r) }

func (r Items) String() string {
	parts := make([]string, len(r))
	for i, it := range r {
		parts[i] = fmt.Sprintf("%s=%s", it.Label, it.Value)
	}
	return strings.Join(parts, ", ")
}

func (r NotFound) String() string { return "not found: " + r.Reason }

// FormatValue renders an array value without a trailing ".0" for integral numbers.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
