package ast_test

import (
	"strings"
	"testing"

	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/parse"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, log := parse.Parse([]byte(src))
	if log.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", log.String())
	}
	return prog
}

func TestDumpIncludesDeclarationsAndStatements(t *testing.T) {
	prog := mustParse(t, `{ int x;
		x := 1;
		if (x < 1) { x := 0; } }`)

	out := ast.Dump(prog)
	for _, want := range []string{"Block", "Declarations", "VarDecl x", "Statements", "Assignment x := 1", "If ("} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() missing %q:\n%s", want, out)
		}
	}
}

func TestDumpNestsIfElseBranches(t *testing.T) {
	prog := mustParse(t, `{ int x;
		if (x < 1) { x := 1; } else { x := 2; } }`)

	out := ast.Dump(prog)
	if !strings.Contains(out, "IfElse (") {
		t.Errorf("Dump() missing IfElse heading:\n%s", out)
	}
	thenIdx := strings.Index(out, "x := 1")
	elseIdx := strings.Index(out, "x := 2")
	if thenIdx == -1 || elseIdx == -1 || thenIdx > elseIdx {
		t.Errorf("Dump() did not render the then-branch before the else-branch:\n%s", out)
	}
}

func TestDumpIndentsNestedBlocksDeeper(t *testing.T) {
	prog := mustParse(t, `{ int x; while (x < 1) { x := x + 1; } }`)
	out := ast.Dump(prog)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var whileDepth, bodyDepth int
	for i, line := range lines {
		if strings.Contains(line, "While (") {
			whileDepth = leadingTabs(line)
			bodyDepth = leadingTabs(lines[i+1])
		}
	}
	if bodyDepth <= whileDepth {
		t.Errorf("body line is not indented deeper than the While heading: %d vs %d", bodyDepth, whileDepth)
	}
}

func leadingTabs(s string) int {
	n := 0
	for n < len(s) && s[n] == '\t' {
		n++
	}
	return n
}
