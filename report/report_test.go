package report

import (
	"strings"
	"testing"

	"github.com/ucanalyze/ucanalyze/dataflow"
	"github.com/ucanalyze/ucanalyze/parse"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/worklist"
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

func TestNodeLabelMarksSourceAndSink(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; }`)
	if got := NodeLabel(g, g.Source()); got != "▷" {
		t.Errorf("source label = %q, want ▷", got)
	}
	if got := NodeLabel(g, g.Sink()); got != "◀" {
		t.Errorf("sink label = %q, want ◀", got)
	}
}

func TestOrderedNodesForwardPutsSourceFirstSinkLast(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; x := x + 1; }`)
	order := orderedNodes(g, false)
	if order[0] != g.Source() {
		t.Errorf("forward order[0] = %s, want source %s", order[0], g.Source())
	}
	if order[len(order)-1] != g.Sink() {
		t.Errorf("forward order[last] = %s, want sink %s", order[len(order)-1], g.Sink())
	}
}

func TestOrderedNodesBackwardPutsSinkFirstSourceLast(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; x := x + 1; }`)
	order := orderedNodes(g, true)
	if order[0] != g.Sink() {
		t.Errorf("backward order[0] = %s, want sink %s", order[0], g.Sink())
	}
	if order[len(order)-1] != g.Source() {
		t.Errorf("backward order[last] = %s, want source %s", order[len(order)-1], g.Source())
	}
}

func TestReachingDefinitionsReportFormat(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; }`)
	rd := dataflow.ReachingDefinitions(g, worklist.NewFIFO())
	lines := ReachingDefinitions(g, rd)

	if len(lines) != len(g.Nodes()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(g.Nodes()))
	}
	if !strings.HasPrefix(lines[0], "RD(▷): ") {
		t.Errorf("first line = %q, want it to start with RD(▷): ", lines[0])
	}
	sink := lines[len(lines)-1]
	if !strings.HasPrefix(sink, "RD(◀): ") {
		t.Errorf("last line = %q, want it to start with RD(◀): ", sink)
	}
	if !strings.Contains(sink, "(x, ▷, ") {
		t.Errorf("last line = %q, want a triple naming x's definition site", sink)
	}
}

func TestDangerousVariablesReportEmptyIsBottomSymbol(t *testing.T) {
	g := mustBuild(t, `{ int x; x := 1; }`)
	dv := dataflow.DangerousVariables(g, worklist.NewFIFO())
	lines := DangerousVariables(g, dv)
	for _, line := range lines {
		if !strings.Contains(line, "∅") && !strings.Contains(line, "x") {
			t.Errorf("line %q has neither ∅ nor x", line)
		}
	}
}

func TestDetectionOfSignsReportListsEveryVariableAtEveryNode(t *testing.T) {
	g := mustBuild(t, `{ int x; int y; x := 1; y := x + 1; }`)
	ds := dataflow.DetectionOfSigns(g, worklist.NewFIFO())
	lines := DetectionOfSigns(g, ds)
	for _, line := range lines {
		if !strings.Contains(line, "x:") || !strings.Contains(line, "y:") {
			t.Errorf("line %q does not mention both x and y", line)
		}
	}
}
