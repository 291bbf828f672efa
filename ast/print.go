package ast

import (
	"fmt"
	"strings"
)

// Dump renders the tree in the indented, one-node-per-line form used by
// the CLI's --ast debug flag, grounded on the original's UCASTNode.__str__.
func Dump(p *Program) string {
	var b strings.Builder
	for _, blk := range p.Blocks {
		dumpBlock(&b, blk, 0)
	}
	return b.String()
}

func dumpBlock(b *strings.Builder, blk *Block, depth int) {
	line(b, depth, "Block")
	if blk.Decls != nil {
		line(b, depth+1, "Declarations")
		for _, d := range blk.Decls.Decls {
			dumpDecl(b, d, depth+2)
		}
	}
	if blk.Stmts != nil {
		line(b, depth+1, "Statements")
		for _, s := range blk.Stmts.Stmts {
			dumpStmt(b, s, depth+2)
		}
	}
}

func dumpNestedBlock(b *strings.Builder, nb *NestedBlock, depth int) {
	line(b, depth, "NestedBlock")
	for _, s := range nb.Stmts.Stmts {
		dumpStmt(b, s, depth+1)
	}
}

func dumpDecl(b *strings.Builder, d Decl, depth int) {
	switch d := d.(type) {
	case *VarDecl:
		line(b, depth, fmt.Sprintf("VarDecl %s - line %d", d.Name, d.Line))
	case *ArrayDecl:
		line(b, depth, fmt.Sprintf("ArrayDecl %s[%d] - line %d", d.Name, d.Size, d.Line))
	case *RecordDecl:
		line(b, depth, fmt.Sprintf("RecordDecl %s - line %d", d.Name, d.Line))
	}
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	switch s := s.(type) {
	case *Assignment:
		line(b, depth, fmt.Sprintf("Assignment %s - line %d", s, s.Line))
	case *Call:
		line(b, depth, fmt.Sprintf("Call %s - line %d", s, s.Line))
	case *If:
		line(b, depth, fmt.Sprintf("If (%s) - line %d", s.Cond, s.Line))
		dumpNestedBlock(b, s.Body, depth+1)
	case *IfElse:
		line(b, depth, fmt.Sprintf("IfElse (%s) - line %d", s.Cond, s.Line))
		dumpNestedBlock(b, s.Then, depth+1)
		dumpNestedBlock(b, s.Els, depth+1)
	case *While:
		line(b, depth, fmt.Sprintf("While (%s) - line %d", s.Cond, s.Line))
		dumpNestedBlock(b, s.Body, depth+1)
	}
}

func line(b *strings.Builder, depth int, s string) {
	b.WriteString(strings.Repeat("\t", depth))
	b.WriteString(s)
	b.WriteString("\n")
}
