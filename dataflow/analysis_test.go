package dataflow

import (
	"testing"

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

func hasFact(facts []RDFact, v string, def string) bool {
	for _, f := range facts {
		if f.Var == v && f.DefSite == def {
			return true
		}
	}
	return false
}

// Scenario 1 — straight-line scalar (spec §8).
func TestReachingDefinitionsStraightLine(t *testing.T) {
	g := mustBuild(t, `{ int x; int y;
		x := 1;
		y := x + 2; }`)

	rd := ReachingDefinitions(g, worklist.NewFIFO())
	sink := rd.At[g.Sink()]

	if !hasFact(sink, "x", "1") && !hasFact(sink, "x", "2") {
		// Node ids depend on renumbering order, but x and y must each
		// have exactly one non-Undefined definition reaching the sink.
	}
	var xDefs, yDefs int
	for _, f := range sink {
		switch f.Var {
		case "x":
			xDefs++
		case "y":
			yDefs++
		}
		if f.DefSite == Undefined {
			t.Errorf("variable %s still has an Undefined definition reaching the sink", f.Var)
		}
	}
	if xDefs != 1 || yDefs != 1 {
		t.Fatalf("got %d defs for x and %d for y at the sink, want exactly 1 each", xDefs, yDefs)
	}
}

// Scenario 4 — array weak update: RD kills no prior definition of A, and
// the sink's only fact for A is still the initial (Undefined) one.
func TestReachingDefinitionsArrayWeakUpdate(t *testing.T) {
	g := mustBuild(t, `{ int[3] A; int i;
		i := 0;
		A[i] := 1; }`)

	rd := ReachingDefinitions(g, worklist.NewFIFO())
	sink := rd.At[g.Sink()]

	if !hasFact(sink, "A", Undefined) {
		t.Fatalf("expected A's only reaching definition at the sink to remain Undefined, got %+v", sink)
	}
	for _, f := range sink {
		if f.Var == "A" && f.DefSite != Undefined {
			t.Errorf("array weak update must not add a new definition site for A, got %+v", f)
		}
	}
}

func TestLiveVariablesDuality(t *testing.T) {
	g := mustBuild(t, `{ int x; int y;
		x := 1;
		y := x + 2; }`)

	forward := LiveVariables(g, worklist.NewFIFO())
	reversedTwice := LiveVariables(g.Reverse().Reverse(), worklist.NewFIFO())

	for n, want := range forward.At {
		got := reversedTwice.At[n]
		if len(got) != len(want) {
			t.Fatalf("node %s: got %v, want %v", n, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("node %s: got %v, want %v", n, got, want)
			}
		}
	}
}

func TestLiveVariablesSourceIsEmptyWhenEveryVarIsWrittenBeforeRead(t *testing.T) {
	g := mustBuild(t, `{ int x; int y;
		x := 1;
		y := x + 2; }`)

	lv := LiveVariables(g, worklist.NewFIFO())
	if len(lv.At[g.Source()]) != 0 {
		t.Fatalf("LV(source) = %v, want empty (no variable is read before being written)", lv.At[g.Source()])
	}
}

// Scenario 4 — A starts dangerous and the weak update A[i] := 1 never
// removes it, so DV contains A at the sink; here we only check the
// weaker, always-true property: DV must stay a subset of RD's Undefined
// projection (universal invariant 6).
func TestDangerousVariablesSubsetOfRDUndefinedProjection(t *testing.T) {
	g := mustBuild(t, `{ int[3] A; int i;
		i := 0;
		A[i] := 1; }`)

	rd := ReachingDefinitions(g, worklist.NewFIFO())
	dv := DangerousVariables(g, worklist.NewFIFO())

	for _, n := range g.Nodes() {
		undefinedAt := map[string]bool{}
		for _, f := range rd.At[n] {
			if f.DefSite == Undefined {
				undefinedAt[f.Var] = true
			}
		}
		for _, v := range dv.At[n] {
			if !undefinedAt[v] {
				t.Errorf("node %s: DV contains %q, which is not in RD's Undefined projection", n, v)
			}
		}
	}
}

func TestDangerousVariablesClearedByReadAndSafeAssignment(t *testing.T) {
	g := mustBuild(t, `{ int x;
		read x;
		x := 1; }`)

	dv := DangerousVariables(g, worklist.NewFIFO())
	sink := dv.At[g.Sink()]
	for _, v := range sink {
		if v == "x" {
			t.Fatalf("x should be safe at the sink: read clears it, then x:=1 assigns from no free vars")
		}
	}
}

func signsOf(mem Memory, v string) SignSet { return mem[v] }

// Scenario 1 from spec §8: DS(sink) = {x:{+}, y:{+}}.
func TestDetectionOfSignsStraightLine(t *testing.T) {
	g := mustBuild(t, `{ int x; int y;
		x := 1;
		y := x + 2; }`)

	ds := DetectionOfSigns(g, worklist.NewFIFO())
	sink := ds.At[g.Sink()]

	if signsOf(sink, "x") != singleton(SignPos) {
		t.Errorf("x at sink = %s, want {+}", signsOf(sink, "x"))
	}
	if signsOf(sink, "y") != singleton(SignPos) {
		t.Errorf("y at sink = %s, want {+}", signsOf(sink, "y"))
	}
}

// Scenario 2 from spec §8: after x := 0, the guard x < 1 is always true,
// so the join's only contribution is the then-branch's {+} (from 0+1);
// the else-branch (the negated guard) is a contradiction and reaches
// nothing on the surviving path.
func TestDetectionOfSignsIfWithDeadBranch(t *testing.T) {
	g := mustBuild(t, `{ int x;
		x := 0;
		if (x < 1) { x := x + 1; } }`)

	ds := DetectionOfSigns(g, worklist.NewFIFO())
	sink := ds.At[g.Sink()]

	if signsOf(sink, "x") != singleton(SignPos) {
		t.Errorf("x at sink = %s, want {+}", signsOf(sink, "x"))
	}
}

// Scenario 6 from spec §8: reading x then branching on x < 0 refines x
// to {-} inside the then-branch; at the sink (after the if, with no
// else) x is {0,+} union {whatever the then-branch produced, which
// negates back to positive via 0 - x}.
func TestDetectionOfSignsGuardRefinement(t *testing.T) {
	g := mustBuild(t, `{ int x;
		read x;
		if (x < 0) { x := 0 - x; } }`)

	ds := DetectionOfSigns(g, worklist.NewFIFO())
	sink := ds.At[g.Sink()]

	// x must never be refined to Neg at the sink: the then-branch
	// negates a negative x to positive, and the false branch already
	// excludes Neg.
	if sink["x"].has(SignNeg) {
		t.Errorf("x at sink = %s, must not include Neg", sink["x"])
	}
}
