package worklist

import "github.com/ucanalyze/ucanalyze/pg"

// TransferFunc applies an analysis's transfer function across the edge
// u->v, updating that analysis's own assignment map (captured by
// closure) for v, and reports whether v's entry changed. Keeping R out
// of this package's signature — rather than threading it through a
// generic parameter — lets each analysis own its lattice's concrete
// representation (a RD triple-set, an LV identifier-set, a DS sign-map)
// without this package needing to know its shape.
// When u and v are joined by more than one parallel edge (the PG is a
// multigraph — e.g. an if whose then- and else-branches both immediately
// rejoin the same node), af is called once per distinct v and is
// responsible for looking up and combining every edge between u and v
// itself; Solve does not call it once per edge.
type TransferFunc func(u, v string) bool

// Solve runs the worklist algorithm to a fixed point: seed primes the
// initial dirty set (conventionally every node in g), and af is applied
// along every outgoing edge of each node popped from strategy until the
// strategy reports nothing left pending. It returns the number of nodes
// popped, i.e. the number of transfer-function rounds performed.
func Solve(g *pg.Graph, seed []string, af TransferFunc, strategy Strategy) int {
	strategy.Seed(seed)
	iterations := 0
	for {
		u, ok := strategy.Next()
		if !ok {
			return iterations
		}
		iterations++
		seen := map[string]bool{}
		for _, e := range g.Out(u) {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			if af(u, e.To) {
				strategy.Add(e.To)
			}
		}
	}
}
