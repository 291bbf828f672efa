package dataflow

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/worklist"
)

// LVResult is the fixed-point solution: the set of variables live at
// (about to be read on some path from) each node, decoded into a sorted
// slice for reporting.
type LVResult struct {
	At map[string][]string
}

// LiveVariables runs the Live Variables analysis over g. It is a
// backward analysis, so it runs forward over g.Reverse() and reports
// results keyed by the original node identities. Grounded on the
// original's UCLiveVariables.analysis_fn.
func LiveVariables(g *pg.Graph, strategy worklist.Strategy) LVResult {
	rev := g.Reverse()
	vars := sortedVarNames(g)

	index := make(map[string]uint, len(vars))
	for i, v := range vars {
		index[v] = uint(i)
	}

	R := map[string]*bitset.BitSet{}
	for _, n := range rev.Nodes() {
		R[n] = bitset.New(uint(len(vars)))
	}

	af := func(revFrom, revTo string) bool {
		before := R[revTo].Clone()

		// Merge into the existing R[revTo] rather than overwrite it: the
		// same accumulation reasoning as Reaching Definitions applies,
		// mirrored onto the reversed graph. Each edge's gen/kill is
		// computed against its own contribution, never against bits
		// already merged in from a different predecessor edge.
		next := R[revTo].Clone()
		for _, action := range edgesBetween(rev, revFrom, revTo) {
			contribution := R[revFrom].Clone()
			if assign, ok := action.(*ast.Assignment); ok && isScalarTarget(assign.Lhs) {
				contribution.Clear(index[baseName(assign.Lhs)])
			}
			contribution.InPlaceUnion(genLive(action, index))
			next.InPlaceUnion(contribution)
		}
		R[revTo] = next
		return !before.Equal(next)
	}

	worklist.Solve(rev, rev.Nodes(), af, strategy)

	result := LVResult{At: map[string][]string{}}
	for _, n := range rev.Nodes() {
		var live []string
		for _, v := range vars {
			if R[n].Test(index[v]) {
				live = append(live, v)
			}
		}
		sort.Strings(live)
		result.At[n] = live
	}
	return result
}

// genLive returns the variables action reads: its source expression's
// free variables, plus (for an array/record-deref target) the base
// variable itself, since writing into one slot of an array or record
// first requires reading the whole variable.
func genLive(action ast.Action, index map[string]uint) *bitset.BitSet {
	gen := bitset.New(uint(len(index)))
	mark := func(name string) {
		if i, ok := index[name]; ok {
			gen.Set(i)
		}
	}

	if src := actionSource(action); src != nil {
		for _, name := range FreeVars(src) {
			mark(name)
		}
	}
	if target := actionTarget(action); target != nil && !isScalarTarget(target) {
		mark(baseName(target))
		if ad, ok := target.(*ast.ArrayDeref); ok {
			for _, name := range FreeVars(ad.Index) {
				mark(name)
			}
		}
	}
	if call, ok := action.(*ast.Call); ok && call.Kind == ast.Write {
		for _, name := range FreeVars(call.Arg) {
			mark(name)
		}
	}
	if be, ok := action.(*ast.BoolExpr); ok {
		for _, name := range FreeVars(be.Expr) {
			mark(name)
		}
	}
	return gen
}
