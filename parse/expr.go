package parse

import "github.com/ucanalyze/ucanalyze/ast"
import "github.com/ucanalyze/ucanalyze/lex"

// parseBExpr parses a boolean expression. Precedence, loosest to
// tightest: '|', '&', unary '!', with a relational/equality comparison
// of two arithmetic expressions (or true/false/a parenthesized bexpr) as
// the atom — matching spec.md §6's table.
func (p *Parser) parseBExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	lhs := p.parseAnd()
	for p.at(lex.Pipe) {
		line := p.cur().Line
		p.advance()
		rhs := p.parseAnd()
		lhs = &ast.BinExpr{Line: line, Op: ast.Or, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parseAnd() ast.Expr {
	lhs := p.parseNot()
	for p.at(lex.Amp) {
		line := p.cur().Line
		p.advance()
		rhs := p.parseNot()
		lhs = &ast.BinExpr{Line: line, Op: ast.And, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(lex.Bang) {
		line := p.cur().Line
		p.advance()
		return &ast.Not{Line: line, Operand: p.parseNot()}
	}
	return p.parseBoolAtom()
}

func (p *Parser) parseBoolAtom() ast.Expr {
	line := p.cur().Line
	switch {
	case p.at(lex.True):
		p.advance()
		return &ast.BoolLiteral{Line: line, Value: true}
	case p.at(lex.False):
		p.advance()
		return &ast.BoolLiteral{Line: line, Value: false}
	case p.at(lex.LParen):
		p.advance()
		inner := p.parseBExpr()
		p.expect(lex.RParen)
		return inner
	default:
		lhs := p.parseAExpr()
		op, ok := p.relOp()
		if !ok {
			p.errorf("expected a relational operator, got %q", p.cur().Lit)
			return lhs
		}
		p.advance()
		rhs := p.parseAExpr()
		p.checkRelational(line, lhs, rhs)
		return &ast.BinExpr{Line: line, Op: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) relOp() (ast.BinOp, bool) {
	switch p.cur().Kind {
	case lex.Lt:
		return ast.Lt, true
	case lex.Lte:
		return ast.Lte, true
	case lex.Gt:
		return ast.Gt, true
	case lex.Gte:
		return ast.Gte, true
	case lex.Eq:
		return ast.Eq, true
	case lex.Neq:
		return ast.Neq, true
	}
	return 0, false
}

// parseAExpr parses an arithmetic expression: '+'/'-' loosest, '*'/'/'
// /'%' tighter, with identifiers, numbers, array/record derefs, and
// parenthesized subexpressions as atoms. Micro-C has no unary minus
// (spec §3 enumerates unary Not as the language's only unary operator).
func (p *Parser) parseAExpr() ast.Expr {
	lhs := p.parseTerm()
	for p.at(lex.Plus) || p.at(lex.Minus) {
		line := p.cur().Line
		op := ast.Add
		if p.at(lex.Minus) {
			op = ast.Sub
		}
		p.advance()
		rhs := p.parseTerm()
		lhs = &ast.BinExpr{Line: line, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parseTerm() ast.Expr {
	lhs := p.parsePrimary()
	for p.at(lex.Star) || p.at(lex.Slash) || p.at(lex.Percent) {
		line := p.cur().Line
		var op ast.BinOp
		switch p.cur().Kind {
		case lex.Star:
			op = ast.Mul
		case lex.Slash:
			op = ast.Div
		default:
			op = ast.Mod
		}
		p.advance()
		rhs := p.parsePrimary()
		lhs = &ast.BinExpr{Line: line, Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parsePrimary() ast.Expr {
	line := p.cur().Line
	switch {
	case p.at(lex.Number):
		lit := p.advance().Lit
		return &ast.NumberLiteral{Line: line, Value: atoi(lit)}
	case p.at(lex.LParen):
		p.advance()
		inner := p.parseAExpr()
		p.expect(lex.RParen)
		return inner
	case p.at(lex.Ident), p.at(lex.Fst), p.at(lex.Snd):
		lv := p.parseLValue()
		if id, ok := lv.(*ast.Identifier); ok {
			p.checkScalarRead(line, id.Name)
		}
		return lv
	default:
		p.errorf("expected a number, identifier, or parenthesized expression, got %q", p.cur().Lit)
		p.advance()
		return &ast.NumberLiteral{Line: line, Value: 0}
	}
}
