// Package event defines the closed vocabulary of events an algorithm emits while it runs.
//
// Events are pure values. Each variant carries only what is needed to update the
// visualization state incrementally; the trace package folds them into snapshots.
// The set of variants is closed: Event has an unexported method so only this package
// can add kinds, and every consumer can switch over the concrete types exhaustively.
//
// Wire shape: every event marshals to a JSON object with a "type" discriminant plus the
// kind-specific fields (see Marshal and Unmarshal). Field names are part of the contract
// with renderers.
package event

// Kind is the "type" discriminant of an event.
type Kind string

const (
	KindCompare   Kind = "compare"
	KindSwap      Kind = "swap"
	KindSet       Kind = "set"
	KindMark      Kind = "mark"
	KindUnmark    Kind = "unmark"
	KindMessage   Kind = "message"
	KindHighlight Kind = "highlight"
	KindPointer   Kind = "pointer"
	KindAuxiliary Kind = "auxiliary"
	KindMetric    Kind = "metric"
	KindResult    Kind = "result"
)

// Kinds lists every event kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindCompare, KindSwap, KindSet, KindMark, KindUnmark, KindMessage,
		KindHighlight, KindPointer, KindAuxiliary, KindMetric, KindResult,
	}
}

// Event is one atomic, typed fact about a step of an algorithm's execution.
type Event interface {
	Kind() Kind
	isEvent()
}

// Compare records a comparison between the values at positions I and J.
type Compare struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Swap exchanges the values at positions I and J.
type Swap struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Set writes Value at position Index.
type Set struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Common mark tags. Tags are free-form; these are the ones renderers colour.
const (
	TagCurrent  = "current"
	TagSorted   = "sorted"
	TagWindow   = "window"
	TagPivot    = "pivot"
	TagFound    = "found"
	TagVisited  = "visited"
	TagSelected = "selected"
	TagRange    = "range"
)

// Mark adds Tag to every index in Indices.
type Mark struct {
	Indices []int  `json:"indices"`
	Tag     string `json:"tag"`
}

// Unmark removes Tag from every index in Indices. An empty Tag clears all tags of those indices.
type Unmark struct {
	Indices []int  `json:"indices"`
	Tag     string `json:"tag,omitempty"`
}

// Level categorizes a message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelStep    Level = "step"
)

// Message is free text shown alongside the visualization.
type Message struct {
	Text  string `json:"text"`
	Level Level  `json:"level"`
}

// Highlight selects the pseudocode lines (0-based) to emphasize.
type Highlight struct {
	Lines []int `json:"lines"`
}

// PointerMark is a labelled overlay at an array index.
type PointerMark struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Variable is a named value displayed in the variables table.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Pointer replaces the pointer overlay and the variables table.
type Pointer struct {
	Pointers  []PointerMark `json:"pointers"`
	Variables []Variable    `json:"variables,omitempty"`
}

// Auxiliary carries algorithm-family specific structured state. It replaces the
// displayed auxiliary state wholesale.
type Auxiliary struct {
	Aux Aux `json:"data"`
}

// Metric adds Delta to the named counter. Delta is never negative.
type Metric struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

// Result carries the final answer of a run.
type Result struct {
	Value ResultValue `json:"value"`
}

func (Compare) Kind() Kind   { return KindCompare }
func (Swap) Kind() Kind      { return KindSwap }
func (Set) Kind() Kind       { return KindSet }
func (Mark) Kind() Kind      { return KindMark }
func (Unmark) Kind() Kind    { return KindUnmark }
func (Message) Kind() Kind   { return KindMessage }
func (Highlight) Kind() Kind { return KindHighlight }
func (Pointer) Kind() Kind   { return KindPointer }
func (Auxiliary) Kind() Kind { return KindAuxiliary }
func (Metric) Kind() Kind    { return KindMetric }
func (Result) Kind() Kind    { return KindResult }

func (Compare) isEvent()   {}
func (Swap) isEvent()      {}
func (Set) isEvent()       {}
func (Mark) isEvent()      {}
func (Unmark) isEvent()    {}
func (Message) isEvent()   {}
func (Highlight) isEvent() {}
func (Pointer) isEvent()   {}
func (Auxiliary) isEvent() {}
func (Metric) isEvent()    {}
func (Result) isEvent()    {}
