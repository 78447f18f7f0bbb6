// ast.go — HER abstract syntax tree.
//
// Nodes are immutable once the parser returns them. Every node carries the
// source span of the syntax it was parsed from; runtime faults reuse those
// spans for caret diagnostics.
package herlang

// Span is a source location range. Line/EndLine are 1-based, Col/EndCol are
// 0-based rune columns; StartByte/EndByte delimit the range in the source
// (half-open).
type Span struct {
	Line      int `json:"line"`
	Col       int `json:"col"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
	StartByte int `json:"-"`
	EndByte   int `json:"-"`
}

func spanFromToken(tok Token) Span {
	return Span{
		Line:      tok.Line,
		Col:       tok.Col,
		EndLine:   tok.EndLine,
		EndCol:    tok.EndCol,
		StartByte: tok.StartByte,
		EndByte:   tok.EndByte,
	}
}

// join returns the span covering both a and b.
func (s Span) join(other Span) Span {
	out := s
	if other.StartByte < out.StartByte {
		out.Line, out.Col, out.StartByte = other.Line, other.Col, other.StartByte
	}
	if other.EndByte > out.EndByte {
		out.EndLine, out.EndCol, out.EndByte = other.EndLine, other.EndCol, other.EndByte
	}
	return out
}

// Node is implemented by every AST node.
type Node interface {
	NodeSpan() Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// Program is the AST root: a sequence of top-level statements.
type Program struct {
	Span       Span
	Statements []Stmt
}

func (n *Program) NodeSpan() Span { return n.Span }

// ----- expressions -----

type IntLiteral struct {
	Span  Span
	Value int64
}

func (n *IntLiteral) NodeSpan() Span { return n.Span }
func (n *IntLiteral) exprNode()      {}

type StringLiteral struct {
	Span  Span
	Value string
}

func (n *StringLiteral) NodeSpan() Span { return n.Span }
func (n *StringLiteral) exprNode()      {}

type BoolLiteral struct {
	Span  Span
	Value bool
}

func (n *BoolLiteral) NodeSpan() Span { return n.Span }
func (n *BoolLiteral) exprNode()      {}

// Ident is a name reference. Name is NFC-normalized by the lexer.
type Ident struct {
	Span Span
	Name string
}

func (n *Ident) NodeSpan() Span { return n.Span }
func (n *Ident) exprNode()      {}

type ArrayLiteral struct {
	Span     Span
	Elements []Expr
}

func (n *ArrayLiteral) NodeSpan() Span { return n.Span }
func (n *ArrayLiteral) exprNode()      {}

// HashPair is one key/value entry of a hash literal, in source order.
type HashPair struct {
	Key   Expr
	Value Expr
}

type HashLiteral struct {
	Span  Span
	Pairs []HashPair
}

func (n *HashLiteral) NodeSpan() Span { return n.Span }
func (n *HashLiteral) exprNode()      {}

type PrefixExpr struct {
	Span    Span
	Op      string // "!", "-", "+"
	Operand Expr
}

func (n *PrefixExpr) NodeSpan() Span { return n.Span }
func (n *PrefixExpr) exprNode()      {}

type InfixExpr struct {
	Span  Span
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||"
	Left  Expr
	Right Expr
}

func (n *InfixExpr) NodeSpan() Span { return n.Span }
func (n *InfixExpr) exprNode()      {}

// AssignExpr mutates an existing binding or container slot:
// name = v, arr[i] = v, hash.key = v.
type AssignExpr struct {
	Span   Span
	Target Expr // *Ident or *IndexExpr
	Value  Expr
}

func (n *AssignExpr) NodeSpan() Span { return n.Span }
func (n *AssignExpr) exprNode()      {}

// IndexExpr is arr[i] or hash[k]; Dot marks the h.key sugar so the
// formatter can print it back the way it was written.
type IndexExpr struct {
	Span  Span
	Left  Expr
	Index Expr
	Dot   bool
}

func (n *IndexExpr) NodeSpan() Span { return n.Span }
func (n *IndexExpr) exprNode()      {}

// IfExpr yields the value of the taken branch; a missing/untaken branch
// yields null.
type IfExpr struct {
	Span        Span
	Cond        Expr
	Consequence *BlockStmt
	Alternative *BlockStmt // nil when there is no else
}

func (n *IfExpr) NodeSpan() Span { return n.Span }
func (n *IfExpr) exprNode()      {}

// WhileExpr evaluates to null.
type WhileExpr struct {
	Span Span
	Cond Expr
	Body *BlockStmt
}

func (n *WhileExpr) NodeSpan() Span { return n.Span }
func (n *WhileExpr) exprNode()      {}

// FuncLit is fn(a, b) { ... } or the arrow form (a, b) => body. The arrow
// form with an expression body keeps the expression in ArrowBody and has a
// nil Body.
type FuncLit struct {
	Span      Span
	Params    []*Ident
	Body      *BlockStmt
	ArrowBody Expr
	Arrow     bool
}

func (n *FuncLit) NodeSpan() Span { return n.Span }
func (n *FuncLit) exprNode()      {}

type CallExpr struct {
	Span   Span
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) NodeSpan() Span { return n.Span }
func (n *CallExpr) exprNode()      {}

// ----- statements -----

type LetStmt struct {
	Span  Span
	Name  *Ident
	Value Expr
}

func (n *LetStmt) NodeSpan() Span { return n.Span }
func (n *LetStmt) stmtNode()      {}

// ReturnStmt carries a nil Value for a bare `return;`.
type ReturnStmt struct {
	Span  Span
	Value Expr
}

func (n *ReturnStmt) NodeSpan() Span { return n.Span }
func (n *ReturnStmt) stmtNode()      {}

type BreakStmt struct {
	Span Span
}

func (n *BreakStmt) NodeSpan() Span { return n.Span }
func (n *BreakStmt) stmtNode()      {}

type ContinueStmt struct {
	Span Span
}

func (n *ContinueStmt) NodeSpan() Span { return n.Span }
func (n *ContinueStmt) stmtNode()      {}

type ExprStmt struct {
	Span Span
	Expr Expr
}

func (n *ExprStmt) NodeSpan() Span { return n.Span }
func (n *ExprStmt) stmtNode()      {}

// BlockStmt introduces a child scope for its statements.
type BlockStmt struct {
	Span       Span
	Statements []Stmt
}

func (n *BlockStmt) NodeSpan() Span { return n.Span }
func (n *BlockStmt) stmtNode()      {}

// BlankStmt records a blank line between statements; it has no effect at
// runtime and exists for the formatter.
type BlankStmt struct {
	Span Span
}

func (n *BlankStmt) NodeSpan() Span { return n.Span }
func (n *BlankStmt) stmtNode()      {}
