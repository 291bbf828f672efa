// Package parse turns Micro-C source into an *ast.Program, recursive-
// descent over the token stream produced by package lex. Grounded on the
// grammar shape in spec.md §6 and on the original implementation's
// parse/parser.py, restructured (per spec §7) to accumulate semantic
// errors in a diag.Log instead of exiting on the first one.
package parse

import (
	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/diag"
	"github.com/ucanalyze/ucanalyze/lex"
)

// Parser holds the token stream and the accumulated diagnostic log.
type Parser struct {
	toks []lex.Token
	pos  int
	log  *diag.Log

	decls map[string]ast.Decl // flat declaration scope, per spec §3
}

// Parse lexes and parses src, returning the AST and a diag.Log. If the
// log's HasErrors() is true the AST may be partial or nil and must not
// be fed to the program-graph builder.
func Parse(src []byte) (*ast.Program, *diag.Log) {
	l := lex.New(src)
	var toks []lex.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == lex.EOF {
			break
		}
	}

	p := &Parser{toks: toks, log: diag.NewLog(), decls: map[string]ast.Decl{}}
	prog := p.parseProgram()
	return prog, p.log
}

func (p *Parser) cur() lex.Token  { return p.toks[p.pos] }
func (p *Parser) at(k lex.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lex.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lex.Kind) lex.Token {
	if !p.at(k) {
		p.errorf("expected %s, got %q", k, p.cur().Lit)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.log.Errorf(diag.Position{Line: p.cur().Line}, format, args...)
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(lex.EOF) {
		prog.Blocks = append(prog.Blocks, p.parseBlock())
	}
	if len(prog.Blocks) == 0 {
		p.errorf("empty program")
	} else if len(prog.Blocks) > 1 {
		p.errorf("only a single top-level block is supported, found %d", len(prog.Blocks))
	}
	return prog
}

func (p *Parser) parseBlock() *ast.Block {
	line := p.cur().Line
	p.expect(lex.LBrace)
	decls := p.parseDeclarations()
	stmts := p.parseStatements(lex.RBrace)
	p.expect(lex.RBrace)
	return &ast.Block{Line: line, Decls: decls, Stmts: stmts}
}

func (p *Parser) parseNestedBlock() *ast.NestedBlock {
	line := p.cur().Line
	p.expect(lex.LBrace)
	stmts := p.parseStatements(lex.RBrace)
	p.expect(lex.RBrace)
	return &ast.NestedBlock{Line: line, Stmts: stmts}
}

func (p *Parser) parseDeclarations() *ast.Declarations {
	decls := &ast.Declarations{}
	for p.at(lex.Int) || p.at(lex.LBrace) {
		d := p.parseDeclaration()
		if d != nil {
			p.checkRedeclare(d)
			decls.Decls = append(decls.Decls, d)
		}
		p.expect(lex.Semicolon)
	}
	return decls
}

func (p *Parser) parseDeclaration() ast.Decl {
	line := p.cur().Line
	switch {
	case p.at(lex.Int):
		p.advance()
		if p.at(lex.LBracket) {
			p.advance()
			size := p.expect(lex.Number)
			p.expect(lex.RBracket)
			name := p.identLit()
			return &ast.ArrayDecl{Line: line, Name: name, Size: atoi(size.Lit)}
		}
		name := p.identLit()
		return &ast.VarDecl{Line: line, Name: name}
	case p.at(lex.LBrace):
		p.advance()
		p.expect(lex.Int)
		p.expect(lex.Fst)
		p.expect(lex.Semicolon)
		p.expect(lex.Int)
		p.expect(lex.Snd)
		p.expect(lex.RBrace)
		name := p.identLit()
		return &ast.RecordDecl{Line: line, Name: name}
	default:
		p.errorf("expected a declaration, got %q", p.cur().Lit)
		p.advance()
		return nil
	}
}

// identLit consumes an identifier, a bare `fst`, or a bare `snd` (both
// are reserved words but may stand alone as scalar variable names per
// spec §3) and returns its literal text.
func (p *Parser) identLit() string {
	switch {
	case p.at(lex.Ident):
		return p.advance().Lit
	case p.at(lex.Fst), p.at(lex.Snd):
		return p.advance().Lit
	default:
		p.errorf("expected identifier, got %q", p.cur().Lit)
		return ""
	}
}

func (p *Parser) parseStatements(end lex.Kind) *ast.Statements {
	stmts := &ast.Statements{}
	for !p.at(end) && !p.at(lex.EOF) {
		stmts.Stmts = append(stmts.Stmts, p.parseStatement())
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	line := p.cur().Line
	switch {
	case p.at(lex.If):
		return p.parseIf()
	case p.at(lex.While):
		return p.parseWhile()
	case p.at(lex.Read):
		p.advance()
		lv := p.parseLValue()
		p.expect(lex.Semicolon)
		p.checkRead(line, lv)
		return &ast.Call{Line: line, Kind: ast.Read, Arg: lv}
	case p.at(lex.Write):
		p.advance()
		e := p.parseAExpr()
		p.expect(lex.Semicolon)
		return &ast.Call{Line: line, Kind: ast.Write, Arg: e}
	case p.at(lex.Ident), p.at(lex.Fst), p.at(lex.Snd):
		lv := p.parseLValue()
		p.expect(lex.Assign)
		rhs := p.parseRhs()
		p.expect(lex.Semicolon)
		p.checkAssignment(line, lv, rhs)
		return &ast.Assignment{Line: line, Lhs: lv, Rhs: rhs}
	default:
		p.errorf("expected a statement, got %q", p.cur().Lit)
		p.advance()
		return &ast.Assignment{Line: line}
	}
}

func (p *Parser) parseIf() ast.Stmt {
	line := p.cur().Line
	p.advance()
	p.expect(lex.LParen)
	cond := p.parseBExpr()
	p.expect(lex.RParen)
	then := p.parseNestedBlock()
	if p.at(lex.Else) {
		p.advance()
		els := p.parseNestedBlock()
		return &ast.IfElse{Line: line, Cond: cond, Then: then, Els: els}
	}
	return &ast.If{Line: line, Cond: cond, Body: then}
}

func (p *Parser) parseWhile() ast.Stmt {
	line := p.cur().Line
	p.advance()
	p.expect(lex.LParen)
	cond := p.parseBExpr()
	p.expect(lex.RParen)
	body := p.parseNestedBlock()
	return &ast.While{Line: line, Cond: cond, Body: body}
}

// parseLValue parses `ID`, `ID[aexpr]`, or `ID.fst|snd`.
func (p *Parser) parseLValue() ast.LValue {
	line := p.cur().Line
	name := p.identLit()
	id := &ast.Identifier{Line: line, Name: name}
	p.checkDeclared(line, name)

	switch {
	case p.at(lex.LBracket):
		p.advance()
		idx := p.parseAExpr()
		p.expect(lex.RBracket)
		return &ast.ArrayDeref{Line: line, Base: id, Index: idx}
	case p.at(lex.Dot):
		p.advance()
		var f ast.Field
		switch {
		case p.at(lex.Fst):
			f = ast.Fst
		case p.at(lex.Snd):
			f = ast.Snd
		default:
			p.errorf("expected fst or snd, got %q", p.cur().Lit)
		}
		p.advance()
		return &ast.RecordDeref{Line: line, Base: id, Field: f}
	default:
		return id
	}
}

// parseRhs parses either a record initializer list `(a, b)` or a plain
// arithmetic expression, disambiguated by the presence of a comma inside
// a leading parenthesized group.
func (p *Parser) parseRhs() ast.Expr {
	if p.at(lex.LParen) {
		start := p.pos
		p.advance()
		first := p.parseAExpr()
		if p.at(lex.Comma) {
			p.advance()
			second := p.parseAExpr()
			p.expect(lex.RParen)
			return &ast.RecordInitializerList{Line: p.toks[start].Line, First: first, Second: second}
		}
		p.expect(lex.RParen)
		return first
	}
	return p.parseAExpr()
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
