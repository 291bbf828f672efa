// Package ast defines the abstract syntax tree for Micro-C.
//
// The tree is a closed sum type: every variant implements Node, and
// consumers (the program-graph builder, the semantic checker, the
// dataflow transfer functions) dispatch on concrete type via a type
// switch. This mirrors the original Python implementation's node
// hierarchy (lang/ast.py, lang/types.py, lang/ops.py) but replaces its
// isinstance-based dispatch with a statically checked Go interface, per
// the redesign called for in the spec's design notes: the compiler
// rejects a transfer function that forgets a variant.
package ast

// Position is the source line a node was parsed from. Lines are
// 1-based; a zero Position means synthetic (not parsed from source),
// e.g. the implicit "!" wrapping an if/while condition's negation.
type Position struct {
	Line int
}

// Node is implemented by every AST variant.
type Node interface {
	Pos() Position
}

// Decl is implemented by the three declaration shapes.
type Decl interface {
	Node
	declName() string
}

// Stmt is implemented by the five statement shapes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression shape (arithmetic, boolean,
// relational, and the lvalue-capable identifier/deref expressions).
type Expr interface {
	Node
	exprNode()
	String() string
}

// LValue is implemented by the three assignable expression shapes.
type LValue interface {
	Expr
	lvalueNode()
}

// Action is the payload carried by a single Program Graph edge: an
// Assignment, a Call, or a BoolExpr guard (the condition of an if/while,
// or its syntactic negation). Declarations never appear on edges.
type Action interface {
	Node
	actionNode()
	String() string
}
