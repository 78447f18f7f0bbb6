// diagnostic.go — structured diagnostics for host adapters.
//
// The terminal front-end and the browser sandbox both need a machine
// readable description of what went wrong; Diagnose maps the error types
// of the three pipeline stages onto one shape.
package herlang

// Diagnostic is the host-facing form of a lex, parse or runtime error.
// Positions inside Span stay 0-based for columns; hosts that show them to
// people add 1.
type Diagnostic struct {
	Stage   string `json:"stage"` // "lex", "parse" or "runtime"
	Message string `json:"message"`
	Span    Span   `json:"span"`
}

// Diagnose classifies err. ok is false for errors that did not come out of
// the interpreter pipeline.
func Diagnose(err error) (Diagnostic, bool) {
	switch e := err.(type) {
	case *LexError:
		return Diagnostic{
			Stage:   "lex",
			Message: e.Msg,
			Span:    Span{Line: e.Line, Col: e.Col, EndLine: e.Line, EndCol: e.Col + 1},
		}, true
	case *ParseError:
		return Diagnostic{
			Stage:   "parse",
			Message: e.describe(),
			Span:    Span{Line: e.Line, Col: e.Col, EndLine: e.Line, EndCol: e.Col + 1},
		}, true
	case RuntimeFault:
		return Diagnostic{
			Stage:   "runtime",
			Message: faultMessage(e),
			Span:    e.FaultSpan(),
		}, true
	default:
		return Diagnostic{}, false
	}
}

// faultMessage is the fault text without the position prefix; the span
// already carries the position.
func faultMessage(f RuntimeFault) string {
	return trimFaultPrefix(f.Error())
}
