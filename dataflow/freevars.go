// Package dataflow implements the four monotone analyses run over a
// Program Graph: Reaching Definitions, Live Variables, Dangerous
// Variables, and Detection of Signs. Each is grounded on the transfer
// functions in the original implementation's passes/analysis.py; RD and
// LV additionally follow the bitset-backed gen/kill shape the teacher
// used for its own two analyses (formerly analysis/dataflow/reaching.go
// and live.go).
package dataflow

import "github.com/ucanalyze/ucanalyze/ast"

// FreeVars collects, in first-occurrence order, every variable name an
// expression reads: identifiers, array bases and indices, record bases.
func FreeVars(e ast.Expr) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.Identifier:
			add(e.Name)
		case *ast.NumberLiteral, *ast.BoolLiteral:
			// no variables
		case *ast.ArrayDeref:
			add(e.Base.Name)
			walk(e.Index)
		case *ast.RecordDeref:
			add(e.Base.Name)
		case *ast.RecordInitializerList:
			walk(e.First)
			walk(e.Second)
		case *ast.BinExpr:
			walk(e.Lhs)
			walk(e.Rhs)
		case *ast.Not:
			walk(e.Operand)
		}
	}
	walk(e)
	return out
}

// actionTarget returns the lvalue an Assignment or a `read` Call writes
// to, or nil for a `write` Call or a BoolExpr guard.
func actionTarget(a ast.Action) ast.LValue {
	switch a := a.(type) {
	case *ast.Assignment:
		return a.Lhs
	case *ast.Call:
		if a.Kind == ast.Read {
			return a.Arg.(ast.LValue)
		}
	}
	return nil
}

// actionSource returns the expression an Assignment reads from, or nil
// for a `read`/`write` Call or a BoolExpr guard (a `read` has no source
// expression to analyze; a `write`'s argument is read but not stored).
func actionSource(a ast.Action) ast.Expr {
	if asn, ok := a.(*ast.Assignment); ok {
		return asn.Rhs
	}
	return nil
}

// baseName returns the declared identifier an lvalue ultimately names:
// itself for a plain Identifier, or its Base for an array/record deref.
func baseName(lv ast.LValue) string {
	switch lv := lv.(type) {
	case *ast.Identifier:
		return lv.Name
	case *ast.ArrayDeref:
		return lv.Base.Name
	case *ast.RecordDeref:
		return lv.Base.Name
	}
	return ""
}

// isScalarTarget reports whether lv assigns the whole variable (a bare
// Identifier) rather than weakly updating part of an array or record.
func isScalarTarget(lv ast.LValue) bool {
	_, ok := lv.(*ast.Identifier)
	return ok
}
