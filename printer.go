// printer.go — value rendering and the source formatter.
//
// FormatValue renders runtime values the way the REPL and repr show them:
// int, bool, string, array and hash render as literals that lex back to
// an equal value. Format reconstructs canonical source text from an AST;
// it is deterministic and idempotent on its own output.
package herlang

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders a value for display.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTStr:
		return quoteString(v.Data.(string))
	case VTArray:
		arr := v.Data.(*ArrayObject)
		parts := make([]string, len(arr.Elements))
		for i, elem := range arr.Elements {
			parts[i] = FormatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTHash:
		h := v.Data.(*HashObject)
		parts := make([]string, 0, len(h.Order))
		for _, hk := range h.Order {
			e := h.Entries[hk]
			parts = append(parts, FormatValue(e.Key)+": "+FormatValue(e.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VTFun:
		fn := v.Data.(*Fun)
		return "fn(" + strings.Join(fn.Params(), ", ") + ") { ... }"
	case VTBuiltin:
		return "[builtin function]"
	default:
		return fmt.Sprintf("<unknown value tag %d>", v.Tag)
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Format parses src and prints it back in canonical form: ASCII keywords
// and operators, one statement per line, four-space indentation, blank
// lines between statements preserved (runs collapse to one).
func Format(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	return FormatProgram(prog), nil
}

// FormatProgram prints an already-parsed program.
func FormatProgram(prog *Program) string {
	var p sourcePrinter
	p.stmts(prog.Statements)
	return p.b.String()
}

type sourcePrinter struct {
	b      strings.Builder
	indent int
}

func (p *sourcePrinter) line(s string) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *sourcePrinter) stmts(stmts []Stmt) {
	blankPending := false
	wrote := false
	for _, stmt := range stmts {
		if _, isBlank := stmt.(*BlankStmt); isBlank {
			if wrote {
				blankPending = true
			}
			continue
		}
		if blankPending {
			p.b.WriteByte('\n')
			blankPending = false
		}
		p.stmt(stmt)
		wrote = true
	}
}

func (p *sourcePrinter) stmt(stmt Stmt) {
	switch n := stmt.(type) {
	case *LetStmt:
		p.line("let " + n.Name.Name + " = " + p.expr(n.Value) + ";")
	case *ReturnStmt:
		if n.Value == nil {
			p.line("return;")
		} else {
			p.line("return " + p.expr(n.Value) + ";")
		}
	case *BreakStmt:
		p.line("break;")
	case *ContinueStmt:
		p.line("continue;")
	case *ExprStmt:
		s := p.expr(n.Expr)
		// a statement-leading '{' would reparse as a block
		if strings.HasPrefix(s, "{") {
			s = "(" + s + ")"
		}
		p.line(s + ";")
	case *BlockStmt:
		p.line("{")
		p.indent++
		p.stmts(n.Statements)
		p.indent--
		p.line("}")
	case *BlankStmt:
		// handled by stmts
	default:
		panic(fmt.Sprintf("herlang: unhandled statement %T", stmt))
	}
}

// block prints a block inline after a header, e.g. "if (x) {".
func (p *sourcePrinter) block(header string, body *BlockStmt, footer string) {
	p.line(header + " {")
	p.indent++
	p.stmts(body.Statements)
	p.indent--
	p.line("}" + footer)
}

func (p *sourcePrinter) expr(expr Expr) string {
	switch n := expr.(type) {
	case *IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *StringLiteral:
		return quoteString(n.Value)
	case *BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *Ident:
		return n.Name
	case *ArrayLiteral:
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			parts[i] = p.expr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *HashLiteral:
		parts := make([]string, len(n.Pairs))
		for i, pair := range n.Pairs {
			parts[i] = p.expr(pair.Key) + ": " + p.expr(pair.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *PrefixExpr:
		return n.Op + p.operand(n.Operand, precPrefix)
	case *InfixExpr:
		prec := opPrecedence(n.Op)
		// Left-associative operators: the right child needs parens at
		// equal precedence, the left one does not.
		return p.operand(n.Left, prec) + " " + n.Op + " " + p.operand(n.Right, prec+1)
	case *AssignExpr:
		return p.expr(n.Target) + " = " + p.expr(n.Value)
	case *IndexExpr:
		if n.Dot {
			if key, isStr := n.Index.(*StringLiteral); isStr {
				return p.operand(n.Left, precIndex) + "." + key.Value
			}
		}
		return p.operand(n.Left, precIndex) + "[" + p.expr(n.Index) + "]"
	case *IfExpr:
		return p.ifString(n)
	case *WhileExpr:
		return "while (" + p.expr(n.Cond) + ") " + p.blockString(n.Body)
	case *FuncLit:
		return p.funcString(n)
	case *CallExpr:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = p.expr(a)
		}
		return p.operand(n.Callee, precCall) + "(" + strings.Join(parts, ", ") + ")"
	default:
		panic(fmt.Sprintf("herlang: unhandled expression %T", expr))
	}
}

// operand parenthesizes a child expression when its precedence is lower
// than the context requires.
func (p *sourcePrinter) operand(expr Expr, min precedence) string {
	if exprPrecedence(expr) < min {
		return "(" + p.expr(expr) + ")"
	}
	return p.expr(expr)
}

func exprPrecedence(expr Expr) precedence {
	switch n := expr.(type) {
	case *InfixExpr:
		return opPrecedence(n.Op)
	case *AssignExpr:
		return precAssign
	case *PrefixExpr:
		return precPrefix
	case *FuncLit:
		if n.Arrow {
			return precLowest
		}
		return precIndex
	case *IfExpr, *WhileExpr:
		return precLowest
	default:
		return precCall
	}
}

func opPrecedence(op string) precedence {
	switch op {
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=":
		return precEquals
	case "<", "<=", ">", ">=":
		return precLessGreater
	case "+", "-":
		return precSum
	case "*", "/", "%":
		return precProduct
	default:
		return precLowest
	}
}

func (p *sourcePrinter) ifString(n *IfExpr) string {
	s := "if (" + p.expr(n.Cond) + ") " + p.blockString(n.Consequence)
	if n.Alternative != nil {
		s += " else " + p.blockString(n.Alternative)
	}
	return s
}

func (p *sourcePrinter) funcString(n *FuncLit) string {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = param.Name
	}
	if n.Arrow {
		head := "(" + strings.Join(params, ", ") + ") => "
		if n.Body != nil {
			return head + p.blockString(n.Body)
		}
		return head + p.expr(n.ArrowBody)
	}
	return "fn(" + strings.Join(params, ", ") + ") " + p.blockString(n.Body)
}

// blockString prints a block at the current indentation, for use inside
// an expression line.
func (p *sourcePrinter) blockString(body *BlockStmt) string {
	var inner sourcePrinter
	inner.indent = p.indent + 1
	inner.stmts(body.Statements)
	if inner.b.Len() == 0 {
		return "{}"
	}
	return "{\n" + inner.b.String() + strings.Repeat("    ", p.indent) + "}"
}
