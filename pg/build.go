package pg

import (
	"fmt"
	"strconv"

	"github.com/ucanalyze/ucanalyze/ast"
)

// unit is a partially built Program Graph for a single statement or
// statement sequence: one entry node (Source) and the still-open exit
// nodes (Sinks) a following statement's source will be fused into.
type unit struct {
	Source string
	Sinks  []string
}

// Build constructs the Program Graph for prog's single top-level block,
// per the inductive table in the original's UCProgramGraph: union glues
// two independently-built subgraphs into one node/edge set; join fuses
// a predecessor's sink(s) into its successor's source; stitch_sinks
// (called once, at the end, on the whole block) collapses the block's
// remaining open exits into the graph's single sink. Nested bodies
// (if/while) are never separately stitched — their open sinks are
// threaded one at a time into whatever follows, exactly as join does
// for ordinary statement sequencing.
func Build(prog *ast.Program) (*Graph, error) {
	if len(prog.Blocks) != 1 {
		return nil, fmt.Errorf("pg: expected exactly one top-level block, found %d", len(prog.Blocks))
	}
	block := prog.Blocks[0]

	g := newGraph()
	if block.Decls != nil {
		for _, d := range block.Decls.Decls {
			g.vars[ast.DeclName(d)] = d
		}
	}

	var stmts []ast.Stmt
	if block.Stmts != nil {
		stmts = block.Stmts.Stmts
	}
	top := g.buildSeq(stmts)

	g.source = top.Source
	sink := top.Sinks[0]
	for _, s := range top.Sinks[1:] {
		g.merge(sink, s)
	}
	g.sink = sink

	g.renumber()
	return g, nil
}

// buildSeq builds the union-then-join chain for a statement sequence.
// An empty sequence is a single node that is both its own source and
// sink (e.g. an if/while body written as `{}`).
func (g *Graph) buildSeq(stmts []ast.Stmt) unit {
	if len(stmts) == 0 {
		p := g.newNode()
		return unit{Source: p, Sinks: []string{p}}
	}

	first := g.buildStmt(stmts[0])
	cur := first
	for _, s := range stmts[1:] {
		next := g.buildStmt(s)
		for _, sink := range cur.Sinks {
			g.merge(next.Source, sink)
		}
		cur = unit{Source: first.Source, Sinks: next.Sinks}
	}
	return cur
}

func (g *Graph) buildStmt(s ast.Stmt) unit {
	switch s := s.(type) {
	case *ast.Assignment:
		return g.buildAction(s)
	case *ast.Call:
		return g.buildAction(s)
	case *ast.If:
		return g.buildIf(s)
	case *ast.IfElse:
		return g.buildIfElse(s)
	case *ast.While:
		return g.buildWhile(s)
	default:
		panic(fmt.Sprintf("pg: unhandled statement type %T", s))
	}
}

func (g *Graph) buildAction(action ast.Action) unit {
	a := g.newNode()
	b := g.newNode()
	g.addEdge(a, b, action)
	return unit{Source: a, Sinks: []string{b}}
}

func nestedStmts(nb *ast.NestedBlock) []ast.Stmt {
	if nb == nil || nb.Stmts == nil {
		return nil
	}
	return nb.Stmts.Stmts
}

func (g *Graph) buildIf(s *ast.If) unit {
	cond := g.newNode()
	body := g.buildSeq(nestedStmts(s.Body))
	g.selector[body.Source] = SelThen
	g.addEdge(cond, body.Source, &ast.BoolExpr{Expr: s.Cond})

	falseNode := g.newNode()
	g.addEdge(cond, falseNode, &ast.BoolExpr{Expr: &ast.Not{Operand: s.Cond}})

	sinks := append([]string{}, body.Sinks...)
	sinks = append(sinks, falseNode)
	return unit{Source: cond, Sinks: sinks}
}

func (g *Graph) buildIfElse(s *ast.IfElse) unit {
	cond := g.newNode()
	then := g.buildSeq(nestedStmts(s.Then))
	g.selector[then.Source] = SelThen
	els := g.buildSeq(nestedStmts(s.Els))
	g.selector[els.Source] = SelElse

	g.addEdge(cond, then.Source, &ast.BoolExpr{Expr: s.Cond})
	g.addEdge(cond, els.Source, &ast.BoolExpr{Expr: &ast.Not{Operand: s.Cond}})

	sinks := append([]string{}, then.Sinks...)
	sinks = append(sinks, els.Sinks...)
	return unit{Source: cond, Sinks: sinks}
}

func (g *Graph) buildWhile(s *ast.While) unit {
	cond := g.newNode()
	body := g.buildSeq(nestedStmts(s.Body))
	g.selector[body.Source] = SelLoop
	g.addEdge(cond, body.Source, &ast.BoolExpr{Expr: s.Cond})
	for _, sink := range body.Sinks {
		g.merge(cond, sink)
	}

	exitNode := g.newNode()
	g.addEdge(cond, exitNode, &ast.BoolExpr{Expr: &ast.Not{Operand: s.Cond}})
	return unit{Source: cond, Sinks: []string{exitNode}}
}

// renumber reassigns every surviving node a dense "1".."n" identity,
// preserving the relative order nodes were first allocated in (merges
// during construction leave gaps, since a merged-away node's number is
// simply retired). This is the ▷ 1..n ◀ renumbering the spec calls for.
func (g *Graph) renumber() {
	old := g.Nodes()
	mapping := make(map[string]string, len(old))
	for i, id := range old {
		mapping[id] = strconv.Itoa(i + 1)
	}

	fresh := newGraph()
	fresh.counter = len(old)
	for _, id := range old {
		_ = fresh.g.AddVertex(mapping[id])
	}
	for _, e := range g.Edges() {
		fresh.addEdge(mapping[e.From], mapping[e.To], e.Action)
	}
	for id, sel := range g.selector {
		fresh.selector[mapping[id]] = sel
	}
	fresh.vars = g.vars
	fresh.source = mapping[g.source]
	fresh.sink = mapping[g.sink]

	*g = *fresh
}
