package dataflow

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/worklist"
)

// Undefined is the sentinel definition site meaning "not yet assigned
// on this path" — spec's "?" entry in a reaching-definitions triple.
const Undefined = "?"

// RDFact is one reaching-definition triple: Var may have last been
// assigned on the edge DefSite->UseSite reaching this program point.
// DefSite is Undefined for the synthetic initial definition at the
// source.
type RDFact struct {
	Var     string
	DefSite string
	UseSite string
}

// RDResult is the fixed-point solution: the set of RDFacts holding at
// each node, decoded into a sorted slice for easy reporting.
type RDResult struct {
	At map[string][]RDFact
}

// ReachingDefinitions runs the Reaching Definitions analysis over g
// using strategy for the worklist order. Grounded on the original
// implementation's UCReachingDefinitions.analysis_fn, with gen/kill
// computed over a bits-and-blooms/bitset universe the way the teacher's
// own reaching.go represents its bitvector facts.
func ReachingDefinitions(g *pg.Graph, strategy worklist.Strategy) RDResult {
	vars := sortedVarNames(g)

	index := map[RDFact]uint{}
	var universe []RDFact
	add := func(f RDFact) uint {
		if i, ok := index[f]; ok {
			return i
		}
		i := uint(len(universe))
		index[f] = i
		universe = append(universe, f)
		return i
	}

	// varBits records, per variable, every bit a strong-kill assignment
	// to that variable must clear — every triple naming it as Var,
	// regardless of def/use site.
	varBits := map[string][]uint{}
	for _, v := range vars {
		varBits[v] = append(varBits[v], add(RDFact{Var: v, DefSite: Undefined, UseSite: g.Source()}))
	}
	for _, e := range g.Edges() {
		for _, v := range vars {
			varBits[v] = append(varBits[v], add(RDFact{Var: v, DefSite: e.From, UseSite: e.To}))
		}
	}

	R := map[string]*bitset.BitSet{}
	for _, n := range g.Nodes() {
		R[n] = bitset.New(uint(len(universe)))
	}
	if src, ok := R[g.Source()]; ok {
		for _, v := range vars {
			src.Set(add(RDFact{Var: v, DefSite: Undefined, UseSite: g.Source()}))
		}
	}

	af := func(u, v string) bool {
		before := R[v].Clone()

		// Merge into the existing R[v] rather than overwrite it: v may
		// have several predecessors (an if/else join, a loop header), and
		// each must contribute, not just whichever was processed last.
		next := R[v].Clone()
		for _, action := range edgesBetween(g, u, v) {
			contribution := R[u].Clone()
			if target := actionTarget(action); target != nil {
				name := baseName(target)
				if isScalarTarget(target) {
					for _, bit := range varBits[name] {
						contribution.Clear(bit)
					}
					contribution.Set(add(RDFact{Var: name, DefSite: u, UseSite: v}))
				}
				// Array/record targets are a weak update: existing triples
				// for the base variable are preserved and no new triple is
				// added, matching the observed source behavior.
			}
			next.InPlaceUnion(contribution)
		}
		R[v] = next
		return !before.Equal(next)
	}

	worklist.Solve(g, g.Nodes(), af, strategy)

	result := RDResult{At: map[string][]RDFact{}}
	for _, n := range g.Nodes() {
		var facts []RDFact
		for i, f := range universe {
			if R[n].Test(uint(i)) {
				facts = append(facts, f)
			}
		}
		sort.Slice(facts, func(i, j int) bool {
			if facts[i].Var != facts[j].Var {
				return facts[i].Var < facts[j].Var
			}
			if facts[i].DefSite != facts[j].DefSite {
				return facts[i].DefSite < facts[j].DefSite
			}
			return facts[i].UseSite < facts[j].UseSite
		})
		result.At[n] = facts
	}
	return result
}

func sortedVarNames(g *pg.Graph) []string {
	names := make([]string, 0, len(g.Vars()))
	for name := range g.Vars() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// edgesBetween returns the action on every parallel edge from u to v.
func edgesBetween(g *pg.Graph, u, v string) []ast.Action {
	var out []ast.Action
	for _, e := range g.Out(u) {
		if e.To == v {
			out = append(out, e.Action)
		}
	}
	return out
}
