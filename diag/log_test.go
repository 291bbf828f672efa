package diag

import (
	"strings"
	"testing"
)

func TestHasErrorsOnlyTrueAfterAnErrorEntry(t *testing.T) {
	log := NewLog()
	if log.HasErrors() {
		t.Fatal("empty log must not have errors")
	}

	log.Warnf(Position{1, 1}, "suspicious but not fatal")
	if log.HasErrors() {
		t.Fatal("a warning must not count as an error")
	}

	log.Errorf(Position{2, 3}, "undeclared identifier %s", "y")
	if !log.HasErrors() {
		t.Fatal("expected HasErrors to be true after an Errorf call")
	}
}

func TestStringRendersSeverityPositionAndMessage(t *testing.T) {
	log := NewLog()
	log.Errorf(Position{4, 5}, "redeclaration of %s", "x")

	out := log.String()
	if !strings.Contains(out, "error: ") {
		t.Errorf("output %q missing severity prefix", out)
	}
	if !strings.Contains(out, "4:5") {
		t.Errorf("output %q missing position", out)
	}
	if !strings.Contains(out, "redeclaration of x") {
		t.Errorf("output %q missing formatted message", out)
	}
}

func TestEntryWithZeroPositionOmitsLocation(t *testing.T) {
	e := Entry{Severity: Info, Message: "no location here"}
	if strings.Contains(e.String(), ":") {
		t.Errorf("zero Position should not render a line:col prefix, got %q", e.String())
	}
}
