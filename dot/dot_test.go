package dot

import (
	"os"
	"path/filepath"
	"strings"
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

func TestEdgesCoversEveryEdgeExactlyOnce(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; if (x < 1) { x := 0; } }`)
	lines := Edges(g)
	if len(lines) != len(g.Edges()) {
		t.Fatalf("got %d lines, want %d (one per edge)", len(lines), len(g.Edges()))
	}
	for _, line := range lines {
		if !strings.Contains(line, "=>") {
			t.Errorf("line %q missing the \"=>\" action separator", line)
		}
	}
}

func TestSourceProducesAValidDigraphLiteral(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; }`)
	src := Source(g)
	if !strings.HasPrefix(src, "digraph PG {\n") {
		t.Errorf("dot source does not start with the digraph header: %q", src)
	}
	if !strings.HasSuffix(src, "}\n") {
		t.Errorf("dot source does not end with a closing brace: %q", src)
	}
	for _, n := range g.Nodes() {
		if !strings.Contains(src, "\""+n+"\"") {
			t.Errorf("dot source does not mention node %s", n)
		}
	}
}

func TestWriteProducesADotFileAndRemovesStaleArtifacts(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; }`)
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")

	stale := stem + ".svg"
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatalf("seeding stale artifact: %v", err)
	}

	if err := Write(g, stem); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(stem + ".dot")
	if err != nil {
		t.Fatalf("reading written .dot file: %v", err)
	}
	if string(data) != Source(g) {
		t.Errorf("written .dot contents differ from Source(g)")
	}

	// Write must always remove whatever stale .svg was there before,
	// regardless of whether the `dot` binary is installed to regenerate it.
	if contents, err := os.ReadFile(stale); err == nil && string(contents) == "stale" {
		t.Errorf(".svg was not removed before Write attempted to regenerate it")
	}
}
