package ast

import "fmt"

// Identifier is a reference to a previously declared variable. Identifiers
// are structural values: two Identifiers with the same Name denote the
// same variable (equal by textual id, per spec §3).
type Identifier struct {
	Line int
	Name string
}

func (e *Identifier) Pos() Position  { return Position{e.Line} }
func (*Identifier) exprNode()        {}
func (*Identifier) lvalueNode()      {}
func (e *Identifier) String() string { return e.Name }

// NumberLiteral is an integer constant.
type NumberLiteral struct {
	Line  int
	Value int
}

func (e *NumberLiteral) Pos() Position  { return Position{e.Line} }
func (*NumberLiteral) exprNode()        {}
func (e *NumberLiteral) String() string { return fmt.Sprintf("%d", e.Value) }

// BoolLiteral is a `true` or `false` constant.
type BoolLiteral struct {
	Line  int
	Value bool
}

func (e *BoolLiteral) Pos() Position  { return Position{e.Line} }
func (*BoolLiteral) exprNode()        {}
func (e *BoolLiteral) String() string { return fmt.Sprintf("%t", e.Value) }

// ArrayDeref is `Base[Index]`, usable both as an expression and (when the
// whole statement is an assignment) as an lvalue.
type ArrayDeref struct {
	Line  int
	Base  *Identifier
	Index Expr
}

func (e *ArrayDeref) Pos() Position  { return Position{e.Line} }
func (*ArrayDeref) exprNode()        {}
func (*ArrayDeref) lvalueNode()      {}
func (e *ArrayDeref) String() string { return fmt.Sprintf("%s[%s]", e.Base, e.Index) }

// RecordDeref is `Base.fst` or `Base.snd`.
type RecordDeref struct {
	Line  int
	Base  *Identifier
	Field Field
}

func (e *RecordDeref) Pos() Position  { return Position{e.Line} }
func (*RecordDeref) exprNode()        {}
func (*RecordDeref) lvalueNode()      {}
func (e *RecordDeref) String() string { return fmt.Sprintf("%s.%s", e.Base, e.Field) }

// RecordInitializerList is `(v1, v2)`, the only expression form a record
// may be assigned from. Neither First nor Second may itself be a
// RecordInitializerList (spec §3 invariant).
type RecordInitializerList struct {
	Line          int
	First, Second Expr
}

func (e *RecordInitializerList) Pos() Position { return Position{e.Line} }
func (*RecordInitializerList) exprNode()        {}
func (e *RecordInitializerList) String() string {
	return fmt.Sprintf("(%s, %s)", e.First, e.Second)
}

// BinOp is the operator tag for a binary arithmetic, relational, or
// boolean expression.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Lt
	Lte
	Gt
	Gte
	Eq
	Neq
	And
	Or
)

var binOpSymbol = map[BinOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Lt: "<", Lte: "<=", Gt: ">", Gte: ">=", Eq: "==", Neq: "!=",
	And: "&", Or: "|",
}

func (op BinOp) String() string { return binOpSymbol[op] }

// IsArithmetic reports whether op combines two arithmetic expressions
// into an arithmetic result (+ - * / %).
func (op BinOp) IsArithmetic() bool { return op >= Add && op <= Mod }

// IsRelational reports whether op compares two arithmetic expressions
// into a boolean result (< <= > >= == !=).
func (op BinOp) IsRelational() bool { return op >= Lt && op <= Neq }

// IsBoolean reports whether op combines two boolean expressions (& |).
func (op BinOp) IsBoolean() bool { return op == And || op == Or }

// BinExpr is a binary operator application. Its Lhs/Rhs are both
// arithmetic expressions for an arithmetic or relational BinOp, and both
// boolean expressions for a boolean BinOp.
type BinExpr struct {
	Line     int
	Op       BinOp
	Lhs, Rhs Expr
}

func (e *BinExpr) Pos() Position  { return Position{e.Line} }
func (*BinExpr) exprNode()        {}
func (e *BinExpr) String() string { return fmt.Sprintf("(%s %s %s)", e.Lhs, e.Op, e.Rhs) }

// Not is the unary boolean negation `!b`.
type Not struct {
	Line    int
	Operand Expr
}

func (e *Not) Pos() Position  { return Position{e.Line} }
func (*Not) exprNode()        {}
func (e *Not) String() string { return fmt.Sprintf("(! %s)", e.Operand) }
