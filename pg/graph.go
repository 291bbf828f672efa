// Package pg builds the Program Graph (PG) for a Micro-C program: a
// labeled directed multigraph whose nodes are program points and whose
// edges carry the ast.Action executed in moving from one point to the
// next. Construction is grounded on the original implementation's
// passes/cfg.py (UCProgramGraph), storage-backed by the multigraph
// primitives the rest of the example pack exercises (katalvlaran/lvlath's
// core.Graph) rather than a hand-rolled adjacency list, the way the
// teacher backs its own control-flow graph on a purpose-built type.
package pg

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/core"

	"github.com/ucanalyze/ucanalyze/ast"
)

// Selector classifies a node by the branch construct that introduced
// it: the entry point of an if's then-body, an else-body, or a while's
// loop body. Ordinary sequential nodes carry SelNone. It has no bearing
// on any analysis's transfer function or on how construction fuses
// nodes; the tags stay on the built graph and are read through
// SelectorOf.
type Selector int

const (
	SelNone Selector = iota
	SelThen
	SelElse
	SelLoop
)

func (s Selector) String() string {
	switch s {
	case SelThen:
		return "if/then"
	case SelElse:
		return "else"
	case SelLoop:
		return "loop/while"
	default:
		return "none"
	}
}

// Edge is a read-only view of one Program Graph edge: a flow from From
// to To, executing Action.
type Edge struct {
	ID     string
	From   string
	To     string
	Action ast.Action
}

// Graph is a built Program Graph. Node identities are the decimal
// strings "1".."n" once Build has renumbered them; during construction
// they are allocated from an internal monotonic counter.
type Graph struct {
	g        *core.Graph
	actions  map[string]ast.Action // edge ID -> action
	selector map[string]Selector   // node ID -> selector
	vars     map[string]ast.Decl   // declared name -> declaration
	source   string
	sink     string
	counter  int
}

func newGraph() *Graph {
	return &Graph{
		g:        core.NewGraph(core.WithDirected(true), core.WithMultiEdges()),
		actions:  map[string]ast.Action{},
		selector: map[string]Selector{},
		vars:     map[string]ast.Decl{},
	}
}

func (pg *Graph) newNode() string {
	pg.counter++
	id := strconv.Itoa(pg.counter)
	_ = pg.g.AddVertex(id)
	return id
}

func (pg *Graph) addEdge(from, to string, action ast.Action) string {
	id, err := pg.g.AddEdge(from, to, 0)
	if err != nil {
		// AddEdge only fails on empty IDs or constraint violations, none of
		// which construction ever produces; surfacing it as a panic keeps
		// every call site above from having to thread an error it can
		// never actually observe.
		panic("pg: AddEdge: " + err.Error())
	}
	pg.actions[id] = action
	return id
}

// merge fuses remove into keep: every edge touching remove is rebuilt to
// touch keep instead, remove's selector (if any) transfers to keep, and
// the now-unused remove vertex is dropped. This is the node-identification
// step behind both join (sink-to-source fusion when composing statements)
// and stitch_sinks (collapsing a block's several candidate exit points
// into the block's single sink).
func (pg *Graph) merge(keep, remove string) {
	if keep == remove {
		return
	}
	for _, e := range pg.g.Edges() {
		if e.From != remove && e.To != remove {
			continue
		}
		from, to := e.From, e.To
		if from == remove {
			from = keep
		}
		if to == remove {
			to = keep
		}
		act := pg.actions[e.ID]
		_ = pg.g.RemoveEdge(e.ID)
		delete(pg.actions, e.ID)
		newID, err := pg.g.AddEdge(from, to, 0)
		if err != nil {
			panic("pg: merge: " + err.Error())
		}
		pg.actions[newID] = act
	}
	if sel, ok := pg.selector[remove]; ok {
		pg.selector[keep] = sel
		delete(pg.selector, remove)
	}
	_ = pg.g.RemoveVertex(remove)
}

// Nodes returns every node ID in ascending numeric order.
func (pg *Graph) Nodes() []string {
	ids := pg.g.Vertices()
	sort.Slice(ids, func(i, j int) bool { return numeric(ids[i]) < numeric(ids[j]) })
	return ids
}

// Edges returns every edge, in ascending ID order (stable for tests/dot
// output, matching the underlying store's own ordering guarantee).
func (pg *Graph) Edges() []Edge {
	raw := pg.g.Edges()
	out := make([]Edge, 0, len(raw))
	for _, e := range raw {
		out = append(out, Edge{ID: e.ID, From: e.From, To: e.To, Action: pg.actions[e.ID]})
	}
	return out
}

// Out returns the edges leaving node.
func (pg *Graph) Out(node string) []Edge {
	var out []Edge
	for _, e := range pg.Edges() {
		if e.From == node {
			out = append(out, e)
		}
	}
	return out
}

// In returns the edges entering node.
func (pg *Graph) In(node string) []Edge {
	var out []Edge
	for _, e := range pg.Edges() {
		if e.To == node {
			out = append(out, e)
		}
	}
	return out
}

// Source returns the program's unique entry node.
func (pg *Graph) Source() string { return pg.source }

// Sink returns the program's unique exit node.
func (pg *Graph) Sink() string { return pg.sink }

// SelectorOf returns the branch-role of node.
func (pg *Graph) SelectorOf(node string) Selector { return pg.selector[node] }

// Vars returns the flat declaration table built while constructing the
// graph, keyed by declared identifier.
func (pg *Graph) Vars() map[string]ast.Decl { return pg.vars }

// Reverse returns a new Graph with every edge direction flipped and
// Source/Sink swapped, used to run a backward analysis (Live Variables)
// as a forward one over the reversed flow.
func (pg *Graph) Reverse() *Graph {
	rev := newGraph()
	rev.counter = pg.counter
	for _, id := range pg.Nodes() {
		_ = rev.g.AddVertex(id)
	}
	for _, e := range pg.Edges() {
		rev.addEdge(e.To, e.From, e.Action)
	}
	for id, sel := range pg.selector {
		rev.selector[id] = sel
	}
	for name, d := range pg.vars {
		rev.vars[name] = d
	}
	rev.source = pg.sink
	rev.sink = pg.source
	return rev
}

func numeric(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
