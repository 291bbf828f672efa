// Package report renders a dataflow analysis's per-node assignment map
// as the human-readable lines spec §6 calls for, one per analysis:
// RD(q): ..., LV(q): ..., DV(q): ..., DS(q): .... Grounded on the
// original's UCAnalysis.__str__, which walks the same source-first /
// sink-last node ordering before printing each assignment.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ucanalyze/ucanalyze/dataflow"
	"github.com/ucanalyze/ucanalyze/pg"
)

// NodeLabel renders a node id the way the report wants it: the unique
// source as ▷, the unique sink as ◀, everything else by its renumbered
// integer id.
func NodeLabel(g *pg.Graph, id string) string {
	switch id {
	case g.Source():
		return "▷"
	case g.Sink():
		return "◀"
	default:
		return id
	}
}

// orderedNodes returns every node of g in report order: for a forward
// analysis the source comes first and the sink last; for a backward
// analysis (LV) that's reversed. Internal nodes are always in ascending
// numeric order in between.
func orderedNodes(g *pg.Graph, backward bool) []string {
	var internal []string
	for _, n := range g.Nodes() {
		if n != g.Source() && n != g.Sink() {
			internal = append(internal, n)
		}
	}
	sort.Slice(internal, func(i, j int) bool {
		a, _ := strconv.Atoi(internal[i])
		b, _ := strconv.Atoi(internal[j])
		return a < b
	})

	ordered := make([]string, 0, len(internal)+2)
	if backward {
		ordered = append(ordered, g.Sink())
		ordered = append(ordered, internal...)
		ordered = append(ordered, g.Source())
	} else {
		ordered = append(ordered, g.Source())
		ordered = append(ordered, internal...)
		ordered = append(ordered, g.Sink())
	}
	return ordered
}

// ReachingDefinitions renders one RD(q) line per node, source-first.
func ReachingDefinitions(g *pg.Graph, result dataflow.RDResult) []string {
	var lines []string
	for _, n := range orderedNodes(g, false) {
		facts := result.At[n]
		if len(facts) == 0 {
			lines = append(lines, fmt.Sprintf("RD(%s): ∅", NodeLabel(g, n)))
			continue
		}
		parts := make([]string, len(facts))
		for i, f := range facts {
			parts[i] = fmt.Sprintf("(%s, %s, %s)", f.Var, NodeLabel(g, f.DefSite), NodeLabel(g, f.UseSite))
		}
		lines = append(lines, fmt.Sprintf("RD(%s): %s", NodeLabel(g, n), strings.Join(parts, ", ")))
	}
	return lines
}

// LiveVariables renders one LV(q) line per node, sink-first (LV is a
// backward analysis).
func LiveVariables(g *pg.Graph, result dataflow.LVResult) []string {
	var lines []string
	for _, n := range orderedNodes(g, true) {
		lines = append(lines, fmt.Sprintf("LV(%s): %s", NodeLabel(g, n), joinOrEmpty(result.At[n])))
	}
	return lines
}

// DangerousVariables renders one DV(q) line per node, source-first.
func DangerousVariables(g *pg.Graph, result dataflow.DVResult) []string {
	var lines []string
	for _, n := range orderedNodes(g, false) {
		lines = append(lines, fmt.Sprintf("DV(%s): %s", NodeLabel(g, n), joinOrEmpty(result.At[n])))
	}
	return lines
}

// DetectionOfSigns renders one DS(q) line per node, source-first.
func DetectionOfSigns(g *pg.Graph, result dataflow.DSResult) []string {
	var lines []string
	for _, n := range orderedNodes(g, false) {
		mem := result.At[n]
		parts := make([]string, 0, len(result.Vars))
		for _, v := range result.Vars {
			parts = append(parts, fmt.Sprintf("%s: %s", v, mem[v]))
		}
		lines = append(lines, fmt.Sprintf("DS(%s): %s", NodeLabel(g, n), strings.Join(parts, ", ")))
	}
	return lines
}

func joinOrEmpty(names []string) string {
	if len(names) == 0 {
		return "∅"
	}
	return strings.Join(names, ", ")
}
