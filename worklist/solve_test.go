package worklist

import (
	"testing"

	"github.com/ucanalyze/ucanalyze/parse"
	"github.com/ucanalyze/ucanalyze/pg"
)

func mustBuild(t *testing.T, src string) *pg.Graph {
	t.Helper()
	prog, log := parse.Parse([]byte(src))
	if log.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", log.String())
	}
	g, err := pg.Build(prog)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// countingAF reaches a fixed point by marking every node reachable from
// the source as true, one hop at a time, with its own per-node
// "reached" map rather than relying on the shared R that a real
// analysis would own.
func countingAF(reached map[string]bool) TransferFunc {
	return func(u, v string) bool {
		if !reached[u] || reached[v] {
			return false
		}
		reached[v] = true
		return true
	}
}

func TestSolveReachesEveryNodeFromSource(t *testing.T) {
	g := mustBuild(t, `{ int x;
		x := 1;
		if (x < 10) { x := x + 1; } else { x := 0; }
		while (x < 10) { x := x + 1; } }`)

	reached := map[string]bool{g.Source(): true}
	Solve(g, g.Nodes(), countingAF(reached), NewFIFO())

	for _, n := range g.Nodes() {
		if !reached[n] {
			t.Errorf("node %s was never reached by Solve", n)
		}
	}
}

func TestSolveTerminatesWithLIFOAndRoundRobin(t *testing.T) {
	g := mustBuild(t, `{ int x;
		x := 1;
		while (x < 10) { x := x + 1; } }`)

	for _, strategy := range []Strategy{NewLIFO(), NewRoundRobin(ReversePostorder(g))} {
		reached := map[string]bool{g.Source(): true}
		iterations := Solve(g, g.Nodes(), countingAF(reached), strategy)
		if iterations == 0 {
			t.Errorf("expected at least one iteration")
		}
		for _, n := range g.Nodes() {
			if !reached[n] {
				t.Errorf("node %s was never reached", n)
			}
		}
	}
}

func TestSolveCallsAFOncePerDistinctTargetDespiteParallelEdges(t *testing.T) {
	g := mustBuild(t, `{ int x; if (x < 1) {} }`)

	// Both out-edges of the source target the same merged sink node; af
	// must be invoked once for that pair, not once per parallel edge.
	calls := map[[2]string]int{}
	af := func(u, v string) bool {
		calls[[2]string{u, v}]++
		return false
	}
	Solve(g, g.Nodes(), af, NewFIFO())

	for pair, n := range calls {
		if n != 1 {
			t.Errorf("af called %d times for %v, want exactly 1", n, pair)
		}
	}
}

func TestReversePostorderStartsAtSource(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; x := x + 1; }`)
	order := ReversePostorder(g)
	if len(order) == 0 || order[0] != g.Source() {
		t.Fatalf("got order %v, want it to start at source %s", order, g.Source())
	}
	if len(order) != len(g.Nodes()) {
		t.Fatalf("got %d nodes in order, want %d", len(order), len(g.Nodes()))
	}
}
