package dataflow

import (
	"sort"

	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/worklist"
)

// DVResult is the fixed-point solution: the set of variables whose
// current value cannot be trusted to have come from a fully-initialized
// source, at each node.
type DVResult struct {
	At map[string][]string
}

// DangerousVariables runs the Dangerous Variables analysis over g. A
// variable is dangerous at a point if its value may still originate
// from an undefined read (Reaching Definitions' Undefined site) on some
// path; assigning it a value derived only from non-dangerous variables
// clears it, assigning it anything touched by a dangerous variable
// taints it, and `read` always clears a scalar target (external input is
// trusted once read). Seeded from an embedded Reaching Definitions pass,
// grounded on the original's UCDangerousVars.analysis_fn.
func DangerousVariables(g *pg.Graph, strategy worklist.Strategy) DVResult {
	vars := sortedVarNames(g)
	rd := ReachingDefinitions(g, worklist.NewFIFO())

	dangerousAtSource := map[string]bool{}
	for _, f := range rd.At[g.Source()] {
		if f.DefSite == Undefined {
			dangerousAtSource[f.Var] = true
		}
	}

	R := map[string]map[string]bool{}
	for _, n := range g.Nodes() {
		R[n] = map[string]bool{}
	}
	R[g.Source()] = dangerousAtSource

	af := func(u, v string) bool {
		before := R[v]

		// Merge into the existing R[v] rather than overwrite it: v may
		// have several predecessors, and each edge's kill must only
		// affect that edge's own contribution, never bits already merged
		// in from a different predecessor.
		next := map[string]bool{}
		for name := range before {
			next[name] = true
		}
		for _, action := range edgesBetween(g, u, v) {
			contribution := map[string]bool{}
			for name := range R[u] {
				contribution[name] = true
			}
			applyDVAction(action, R[u], next, contribution)
			for name := range contribution {
				next[name] = true
			}
		}

		R[v] = next
		return !sameSet(before, next)
	}

	worklist.Solve(g, g.Nodes(), af, strategy)

	result := DVResult{At: map[string][]string{}}
	for _, n := range g.Nodes() {
		var names []string
		for _, v := range vars {
			if R[n][v] {
				names = append(names, v)
			}
		}
		sort.Strings(names)
		result.At[n] = names
	}
	return result
}

// applyDVAction mutates contribution (this edge's own dangerous set,
// seeded from pre) to reflect action's effect. post is the accumulating
// R[v] being built by the caller across all of v's already-processed
// predecessor edges — the evolving post-state, distinct from pre
// (R[u], this edge's source state alone).
func applyDVAction(action ast.Action, pre map[string]bool, post map[string]bool, contribution map[string]bool) {
	target := actionTarget(action)
	if target == nil {
		return
	}
	name := baseName(target)

	if call, ok := action.(*ast.Call); ok && call.Kind == ast.Read {
		if isScalarTarget(target) {
			delete(contribution, name)
		}
		// An array/record read target keeps whatever dangerousness the
		// base already carried: re-reading into a single slot does not
		// clear the rest of the structure.
		return
	}

	var fv []string
	if src := actionSource(action); src != nil {
		fv = FreeVars(src)
	}

	if isScalarTarget(target) {
		if intersects(fv, pre) {
			contribution[name] = true
		} else {
			delete(contribution, name)
		}
		return
	}

	// Deliberate asymmetry, preserved as observed in the original: this
	// weak-update branch tests the right-hand side's free variables
	// against the post-state R[v] (post) rather than the pre-state R[u]
	// (pre) the scalar case above uses.
	if intersects(fv, post) {
		contribution[name] = true
	}
}

func intersects(names []string, set map[string]bool) bool {
	for _, n := range names {
		if set[n] {
			return true
		}
	}
	return false
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
