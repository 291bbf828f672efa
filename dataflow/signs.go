package dataflow

import (
	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/worklist"
)

// Sign is one of the three abstract values a scalar can hold.
type Sign int

const (
	SignNeg Sign = iota
	SignZero
	SignPos
)

func (s Sign) String() string {
	switch s {
	case SignNeg:
		return "-"
	case SignZero:
		return "0"
	default:
		return "+"
	}
}

// SignSet is the powerset lattice element 𝒫({-,0,+}), one bit per Sign.
type SignSet uint8

const (
	bitNeg  SignSet = 1 << SignNeg
	bitZero SignSet = 1 << SignZero
	bitPos  SignSet = 1 << SignPos
	Bottom  SignSet = 0
	Top     SignSet = bitNeg | bitZero | bitPos
)

func singleton(s Sign) SignSet { return 1 << s }

func (s SignSet) has(sign Sign) bool { return s&singleton(sign) != 0 }

func (s SignSet) union(o SignSet) SignSet { return s | o }

// String renders a sign set the way the report wants it: "{-,0,+}".
func (s SignSet) String() string {
	if s == Bottom {
		return "{}"
	}
	out := "{"
	first := true
	for _, sign := range []Sign{SignNeg, SignZero, SignPos} {
		if s.has(sign) {
			if !first {
				out += ","
			}
			out += sign.String()
			first = false
		}
	}
	return out + "}"
}

// Memory is the abstract state: every declared variable's current set
// of possible signs.
type Memory map[string]SignSet

func (m Memory) clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m Memory) equal(o Memory) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if o[k] != v {
			return false
		}
	}
	return true
}

func (m Memory) merge(o Memory) Memory {
	out := m.clone()
	for k, v := range o {
		out[k] = out[k].union(v)
	}
	return out
}

// signOf classifies a concrete integer.
func signOf(n int) Sign {
	switch {
	case n < 0:
		return SignNeg
	case n == 0:
		return SignZero
	default:
		return SignPos
	}
}

// samples are representative concrete values for each Sign, used to
// compute arithmetic and relational tables by direct evaluation instead
// of a hand-maintained truth table: two values per infinite class are
// enough to witness every possible result sign/outcome for these
// monotone and affine operations.
var samples = map[Sign][]int{SignNeg: {-2, -1}, SignZero: {0}, SignPos: {1, 2}}

func applyArith(a, b SignSet, f func(x, y int) (int, bool)) SignSet {
	result := Bottom
	for sa, xs := range samples {
		if !a.has(sa) {
			continue
		}
		for sb, ys := range samples {
			if !b.has(sb) {
				continue
			}
			for _, x := range xs {
				for _, y := range ys {
					if v, ok := f(x, y); ok {
						result = result.union(singleton(signOf(v)))
					}
				}
			}
		}
	}
	return result
}

func signArith(op ast.BinOp, a, b SignSet) SignSet {
	switch op {
	case ast.Add:
		return applyArith(a, b, func(x, y int) (int, bool) { return x + y, true })
	case ast.Sub:
		return applyArith(a, b, func(x, y int) (int, bool) { return x - y, true })
	case ast.Mul:
		return applyArith(a, b, func(x, y int) (int, bool) { return x * y, true })
	case ast.Div:
		return applyArith(a, b, func(x, y int) (int, bool) {
			if y == 0 {
				return 0, false
			}
			return x / y, true
		})
	case ast.Mod:
		return applyArith(a, b, func(x, y int) (int, bool) {
			if y == 0 {
				return 0, false
			}
			return x % y, true
		})
	}
	return Top
}

// relPossible reports whether some concrete pair drawn from a and b
// could make "a op b" evaluate true, and whether some pair could make
// it false.
func relPossible(op ast.BinOp, a, b SignSet) (canTrue, canFalse bool) {
	evalRel := func(x, y int) bool {
		switch op {
		case ast.Lt:
			return x < y
		case ast.Lte:
			return x <= y
		case ast.Gt:
			return x > y
		case ast.Gte:
			return x >= y
		case ast.Eq:
			return x == y
		case ast.Neq:
			return x != y
		}
		return true
	}
	for sa, xs := range samples {
		if !a.has(sa) {
			continue
		}
		for sb, ys := range samples {
			if !b.has(sb) {
				continue
			}
			for _, x := range xs {
				for _, y := range ys {
					if evalRel(x, y) {
						canTrue = true
					} else {
						canFalse = true
					}
				}
			}
		}
	}
	return
}

// evalSign evaluates an arithmetic expression's possible signs under mem.
// Array and record accesses are not tracked per-slot, so they evaluate
// conservatively to Top.
func evalSign(mem Memory, e ast.Expr) SignSet {
	switch e := e.(type) {
	case *ast.NumberLiteral:
		return singleton(signOf(e.Value))
	case *ast.Identifier:
		if s, ok := mem[e.Name]; ok {
			return s
		}
		return Top
	case *ast.ArrayDeref, *ast.RecordDeref:
		return Top
	case *ast.BinExpr:
		return signArith(e.Op, evalSign(mem, e.Lhs), evalSign(mem, e.Rhs))
	default:
		return Top
	}
}

// refine narrows mem assuming cond evaluates to want (true or false).
// Conjunctions/disjunctions/negations are handled structurally; a
// relational comparison narrows whichever side is a bare identifier by
// keeping only the signs consistent with the required outcome — the
// "basic memory" splitting spec calls for, done per-variable rather
// than over the full Cartesian product of every variable's signs, which
// is unnecessary here since each relational atom only ever constrains
// the identifiers it directly names.
func refine(mem Memory, cond ast.Expr, want bool) Memory {
	switch cond := cond.(type) {
	case *ast.BoolLiteral:
		if cond.Value != want {
			return bottomMemory(mem)
		}
		return mem.clone()
	case *ast.Not:
		return refine(mem, cond.Operand, !want)
	case *ast.BinExpr:
		switch {
		case cond.Op == ast.And:
			if want {
				return refine(refine(mem, cond.Lhs, true), cond.Rhs, true)
			}
			return refine(mem, cond.Lhs, false).merge(refine(mem, cond.Rhs, false))
		case cond.Op == ast.Or:
			if want {
				return refine(mem, cond.Lhs, true).merge(refine(mem, cond.Rhs, true))
			}
			return refine(refine(mem, cond.Lhs, false), cond.Rhs, false)
		case cond.Op.IsRelational():
			return refineRelational(mem, cond.Op, cond.Lhs, cond.Rhs, want)
		}
	}
	return mem.clone()
}

func refineRelational(mem Memory, op ast.BinOp, lhs, rhs ast.Expr, want bool) Memory {
	out := mem.clone()
	if id, ok := lhs.(*ast.Identifier); ok {
		out[id.Name] = narrow(mem[id.Name], evalSign(mem, rhs), op, want)
	}
	if id, ok := rhs.(*ast.Identifier); ok {
		out[id.Name] = narrow(mem[id.Name], evalSign(mem, lhs), mirror(op), want)
	}
	return out
}

// mirror swaps a relational operator's operand order: "a op b" becomes
// "b mirror(op) a".
func mirror(op ast.BinOp) ast.BinOp {
	switch op {
	case ast.Lt:
		return ast.Gt
	case ast.Lte:
		return ast.Gte
	case ast.Gt:
		return ast.Lt
	case ast.Gte:
		return ast.Lte
	default:
		return op
	}
}

// narrow keeps only the signs in mine that some value of other's sign
// set could pair with to make the relation evaluate to want.
func narrow(mine, other SignSet, op ast.BinOp, want bool) SignSet {
	kept := Bottom
	for _, s := range []Sign{SignNeg, SignZero, SignPos} {
		if !mine.has(s) {
			continue
		}
		canTrue, canFalse := relPossible(op, singleton(s), other)
		if want && canTrue {
			kept = kept.union(singleton(s))
		}
		if !want && canFalse {
			kept = kept.union(singleton(s))
		}
	}
	return kept
}

func bottomMemory(mem Memory) Memory {
	out := make(Memory, len(mem))
	for k := range mem {
		out[k] = Bottom
	}
	return out
}

// DSResult is the fixed-point solution: the abstract Memory at each
// node, with variables reported in name-sorted order.
type DSResult struct {
	At   map[string]Memory
	Vars []string
}

// DetectionOfSigns runs the Detection of Signs analysis over g.
// Grounded on the original's UCDetectionOfSigns.analysis_fn, including
// its guard-sensitive refinement of the true/false successor memories.
func DetectionOfSigns(g *pg.Graph, strategy worklist.Strategy) DSResult {
	vars := sortedVarNames(g)

	R := map[string]Memory{}
	for _, n := range g.Nodes() {
		R[n] = Memory{}
	}
	// Micro-C's declaration grammar has no initializer syntax, so every
	// declared variable starts life as the concrete value 0 — {0}, not
	// Top — regardless of whether it's a scalar, an array, or a record.
	initial := Memory{}
	for _, v := range vars {
		initial[v] = singleton(SignZero)
	}
	R[g.Source()] = initial

	af := func(u, v string) bool {
		before := R[v]
		next := before.clone()
		if next == nil {
			next = Memory{}
		}
		for _, action := range edgesBetween(g, u, v) {
			next = next.merge(dsTransfer(R[u], action))
		}
		R[v] = next
		return !before.equal(next)
	}

	worklist.Solve(g, g.Nodes(), af, strategy)
	return DSResult{At: R, Vars: vars}
}

func dsTransfer(mem Memory, action ast.Action) Memory {
	switch a := action.(type) {
	case *ast.Assignment:
		return dsAssign(mem, a.Lhs, evalSign(mem, a.Rhs))
	case *ast.Call:
		if a.Kind == ast.Read {
			return dsAssign(mem, a.Arg.(ast.LValue), Top)
		}
		return mem.clone()
	case *ast.BoolExpr:
		return refine(mem, a.Expr, true)
	}
	return mem.clone()
}

func dsAssign(mem Memory, lv ast.LValue, value SignSet) Memory {
	out := mem.clone()
	name := baseName(lv)
	if isScalarTarget(lv) {
		out[name] = value
	} else {
		out[name] = out[name].union(value)
	}
	return out
}
