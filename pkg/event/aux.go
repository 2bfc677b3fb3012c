package event

// AuxKind names the shape of an auxiliary payload.
type AuxKind string

const (
	AuxDPTable   AuxKind = "dp-table"
	AuxGraph     AuxKind = "graph"
	AuxHeap      AuxKind = "heap"
	AuxHashTable AuxKind = "hashtable"
	AuxStack     AuxKind = "stack"
)

// Aux is the closed union of auxiliary payload shapes.
type Aux interface {
	AuxKind() AuxKind
	isAux()
}

// Cell addresses a DP table cell.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// DPTable is a dynamic programming table rendered as a grid of preformatted cells.
type DPTable struct {
	Title     string     `json:"title,omitempty"`
	RowLabels []string   `json:"rowLabels,omitempty"`
	ColLabels []string   `json:"colLabels,omitempty"`
	Cells     [][]string `json:"cells"`
	Active    []Cell     `json:"active,omitempty"`
}

// GraphNode is a node of a graph view.
type GraphNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// GraphEdge is an edge of a graph view.
type GraphEdge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Weight      float64 `json:"weight,omitempty"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// NodeValue annotates a node with a display value, e.g. a tentative distance.
type NodeValue struct {
	Node  string `json:"node"`
	Value string `json:"value"`
}

// GraphView is the state of a graph traversal.
type GraphView struct {
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Directed bool        `json:"directed,omitempty"`
	Visited  []string    `json:"visited,omitempty"`
	Frontier []string    `json:"frontier,omitempty"`
	Current  string      `json:"current,omitempty"`
	Values   []NodeValue `json:"values,omitempty"`
}

// HeapView is an array-backed binary heap. Only the first Size values belong to the heap.
type HeapView struct {
	Values []float64 `json:"values"`
	Size   int       `json:"size"`
	Active []int     `json:"active,omitempty"`
}

// HashEntry is one key/value pair of a hash table view.
type HashEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HashTableView is the contents of a lookup table, in insertion order.
type HashTableView struct {
	Entries []HashEntry `json:"entries"`
	Active  string      `json:"active,omitempty"`
}

// StackView is a stack or queue rendered top to bottom.
type StackView struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items"`
}

func (DPTable) AuxKind() AuxKind       { return AuxDPTable }
func (GraphView) AuxKind() AuxKind     { return AuxGraph }
func (HeapView) AuxKind() AuxKind      { return AuxHeap }
func (HashTableView) AuxKind() AuxKind { return AuxHashTable }
func (StackView) AuxKind() AuxKind     { return AuxStack }

func (DPTable) isAux()       {}
func (GraphView) isAux()     {}
func (HeapView) isAux()      {}
func (HashTableView) isAux() {}
func (StackView) isAux()     {}
