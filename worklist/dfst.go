package worklist

import "github.com/ucanalyze/ucanalyze/pg"

// ReversePostorder computes the reverse postorder of a depth-first
// spanning tree rooted at g's source, the fixed visiting order used by
// NewRoundRobin. Grounded on the original implementation's
// passes/internal/dfst.py.
func ReversePostorder(g *pg.Graph) []string {
	visited := map[string]bool{}
	var post []string

	var visit func(u string)
	visit = func(u string) {
		if visited[u] {
			return
		}
		visited[u] = true
		for _, e := range g.Out(u) {
			visit(e.To)
		}
		post = append(post, u)
	}
	visit(g.Source())

	for _, n := range g.Nodes() {
		visit(n)
	}

	out := make([]string, len(post))
	for i, n := range post {
		out[len(post)-1-i] = n
	}
	return out
}
