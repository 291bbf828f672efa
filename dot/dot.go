// Package dot exports a Program Graph as a Graphviz DOT file and, via
// the system `dot` binary, an SVG rendering of it (spec §6 "Graph
// export", §7: rendering failures are swallowed). DOT text emission
// follows the digraph-literal style the pack's own graph-debug dumpers
// use (e.g. irviz's CFGDAGForest.AsDOT); no example shows an actual
// os/exec invocation of the `dot` tool, so that half is plain stdlib —
// it is thin process plumbing, not a concern any pack library owns.
package dot

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ucanalyze/ucanalyze/pg"
)

// Edges walks g depth-first from its source and returns one "u v =>
// action" line per edge, in DFS order, matching the CLI's stdout
// contract (spec §6).
func Edges(g *pg.Graph) []string {
	var lines []string
	visited := map[string]bool{}
	var visit func(string)
	visit = func(u string) {
		if visited[u] {
			return
		}
		visited[u] = true
		for _, e := range g.Out(u) {
			lines = append(lines, fmt.Sprintf("%s %s => %s", e.From, e.To, actionLabel(e.Action)))
			visit(e.To)
		}
	}
	visit(g.Source())
	for _, n := range g.Nodes() {
		visit(n)
	}
	return lines
}

func actionLabel(a fmt.Stringer) string { return a.String() }

// Source renders g as a DOT digraph literal.
func Source(g *pg.Graph) string {
	var b strings.Builder
	b.WriteString("digraph PG {\n")
	for _, n := range g.Nodes() {
		shape := "circle"
		if n == g.Source() || n == g.Sink() {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\t%q [shape=%s];\n", n, shape)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "\t%q -> %q [label=%q];\n", e.From, e.To, actionLabel(e.Action))
	}
	b.WriteString("}\n")
	return b.String()
}

// Write writes g's DOT source to stem+".dot" and attempts to render it
// to stem+".svg" with the system `dot` tool. Any pre-existing artifacts
// at those paths are removed first (spec §5's "delete stale artifacts"
// resource discipline). A rendering failure is swallowed: the .dot file
// having been written successfully is enough for Write to report nil.
func Write(g *pg.Graph, stem string) error {
	dotPath := stem + ".dot"
	svgPath := stem + ".svg"

	os.Remove(dotPath)
	os.Remove(svgPath)

	if err := os.WriteFile(dotPath, []byte(Source(g)), 0644); err != nil {
		return fmt.Errorf("dot: writing %s: %w", dotPath, err)
	}

	cmd := exec.Command("dot", "-Tsvg", "-o", svgPath, dotPath)
	_ = cmd.Run() // rendering errors are swallowed per spec §7

	return nil
}
