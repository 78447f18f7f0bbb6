// errors.go — runtime fault types and caret-snippet rendering.
//
// Three disjoint fault families exist and are never conflated: LexError
// (lexer.go), ParseError (parser.go), and the RuntimeFault kinds defined
// here. All are plain error values; nothing in the core ever aborts the
// process. WrapErrorWithSource turns any of them into a readable
// multi-line snippet with a caret under the offending column:
//
//	PARSE ERROR at 3:12: expected ')', found 'let'
//
//	   2 | let x = (1 + 2
//	   3 |            let
//	     |            ^
//	   4 | x
package herlang

import (
	"fmt"
	"strings"
)

// RuntimeFault is implemented by every evaluation-time fault. The span is
// the node that raised the fault.
type RuntimeFault interface {
	error
	FaultSpan() Span
	faultNode() // sealed marker
}

// NameError: unknown name, assignment to an undeclared name, or
// redeclaration in the same scope.
type NameError struct {
	Span Span
	Name string
	Msg  string
}

func (e *NameError) FaultSpan() Span { return e.Span }
func (e *NameError) faultNode()      {}
func (e *NameError) Error() string {
	return faultString(e.Span, "NameError: "+e.Msg)
}

// TypeError: an operator or operation applied to operands of the wrong
// kind.
type TypeError struct {
	Span Span
	Msg  string
}

func (e *TypeError) FaultSpan() Span { return e.Span }
func (e *TypeError) faultNode()      {}
func (e *TypeError) Error() string {
	return faultString(e.Span, "TypeError: "+e.Msg)
}

// ArityError: a call with the wrong number of arguments. No parameter is
// bound when arity does not match.
type ArityError struct {
	Span     Span
	Expected int
	Got      int
}

func (e *ArityError) FaultSpan() Span { return e.Span }
func (e *ArityError) faultNode()      {}
func (e *ArityError) Error() string {
	return faultString(e.Span, fmt.Sprintf("ArityError: expected %d argument(s), got %d", e.Expected, e.Got))
}

// ArithmeticError: division or modulo by zero.
type ArithmeticError struct {
	Span Span
	Msg  string
}

func (e *ArithmeticError) FaultSpan() Span { return e.Span }
func (e *ArithmeticError) faultNode()      {}
func (e *ArithmeticError) Error() string {
	return faultString(e.Span, "ArithmeticError: "+e.Msg)
}

// ControlError: a break/continue/return signal that escaped to the top
// level without a loop or call to catch it.
type ControlError struct {
	Span Span
	Kind string // "break", "continue" or "return"
}

func (e *ControlError) FaultSpan() Span { return e.Span }
func (e *ControlError) faultNode()      {}
func (e *ControlError) Error() string {
	return faultString(e.Span, fmt.Sprintf("ControlError: '%s' outside of %s", e.Kind, controlHome(e.Kind)))
}

func controlHome(kind string) string {
	if kind == "return" {
		return "a function"
	}
	return "a loop"
}

func faultString(span Span, msg string) string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", span.Line, span.Col+1, msg)
}

/* ===========================
   caret-snippet rendering
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lex, parse and runtime
// faults and leaves any other error untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("<repl>",
// a file path) shown in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyMessage(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyMessage(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.describe()))
	case RuntimeFault:
		span := e.FaultSpan()
		msg := trimFaultPrefix(e.Error())
		return fmt.Errorf("%s", prettyMessage(src, "RUNTIME ERROR", srcName, span.Line, span.Col+1, msg))
	default:
		return err
	}
}

// trimFaultPrefix strips the "RUNTIME ERROR at L:C: " prefix so the
// snippet header does not repeat the position.
func trimFaultPrefix(s string) string {
	if i := strings.Index(s, ": "); i >= 0 && strings.HasPrefix(s, "RUNTIME ERROR at ") {
		return s[i+2:]
	}
	return s
}

// prettyMessage builds the snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based here and
// clamped to the source bounds.
func prettyMessage(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
