//go:build js && wasm

package main

import (
	"strings"
	"syscall/js"

	herlang "github.com/justjavac/herlang"
)

// The browser sandbox gets two globals:
//
//	herEval(src[, onPrint]) -> {ok, value, output} or {ok: false, diagnostic, output}
//	herFormat(src)          -> {ok, source} or {ok: false, diagnostic}
//
// When onPrint is a function it receives each chunk of print output as it
// happens; the full transcript still comes back as "output". Each herEval
// call runs in a fresh interpreter; the sandbox has no process to exit, so
// quit faults there.
func main() {
	js.Global().Set("herEval", js.FuncOf(herEval))
	js.Global().Set("herFormat", js.FuncOf(herFormat))
	js.Global().Set("herVersion", herlang.Version)
	<-make(chan struct{})
}

func herEval(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"ok": false, "diagnostic": badCall("herEval expects (source: string)")}
	}
	src := args[0].String()

	var onPrint js.Value
	if len(args) > 1 && args[1].Type() == js.TypeFunction {
		onPrint = args[1]
	}

	var out strings.Builder
	ip := herlang.NewInterpreter(herlang.Hooks{
		Print: func(s string) {
			out.WriteString(s)
			if !onPrint.IsUndefined() {
				onPrint.Invoke(s)
			}
		},
	})

	v, err := ip.EvalSource(src)
	if err != nil {
		return map[string]any{
			"ok":         false,
			"output":     out.String(),
			"diagnostic": diagnosticJS(err),
		}
	}
	return map[string]any{
		"ok":     true,
		"output": out.String(),
		"value":  herlang.FormatValue(v),
	}
}

func herFormat(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"ok": false, "diagnostic": badCall("herFormat expects (source: string)")}
	}
	formatted, err := herlang.Format(args[0].String())
	if err != nil {
		return map[string]any{"ok": false, "diagnostic": diagnosticJS(err)}
	}
	return map[string]any{"ok": true, "source": formatted}
}

// diagnosticJS renders a pipeline error for JS consumers. Columns go out
// 1-based like the lines.
func diagnosticJS(err error) map[string]any {
	d, ok := herlang.Diagnose(err)
	if !ok {
		return badCall(err.Error())
	}
	return map[string]any{
		"stage":   d.Stage,
		"message": d.Message,
		"line":    d.Span.Line,
		"col":     d.Span.Col + 1,
		"endLine": d.Span.EndLine,
		"endCol":  d.Span.EndCol + 1,
	}
}

func badCall(msg string) map[string]any {
	return map[string]any{"stage": "host", "message": msg}
}
