// builtins.go — the native function table.
//
// Builtins reach the host only through the interpreter's hooks, so the
// same table serves the terminal and the browser sandbox. Each builtin
// has both an ASCII name and, where the language defines one, a Chinese
// alias bound to the same implementation.
package herlang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

func newBuiltins() map[string]*Builtin {
	table := map[string]*Builtin{}
	add := func(name string, arity int, impl BuiltinImpl, aliases ...string) {
		b := &Builtin{Name: name, Arity: arity, Impl: impl}
		table[name] = b
		for _, alias := range aliases {
			table[alias] = b
		}
	}

	add("len", 1, builtinLen)
	add("first", 1, builtinFirst)
	add("last", 1, builtinLast)
	add("rest", 1, builtinRest)
	add("push", 2, builtinPush)
	add("puts", -1, builtinPuts, "小作文")
	add("print", 1, builtinPrint, "聚焦")
	add("repr", 1, builtinRepr, "复用")
	add("str", 1, builtinStr, "疏通")
	add("atoi", 1, builtinAtoi, "抹零")
	add("quit", -1, builtinQuit, "哼")
	return table
}

func builtinLen(ip *Interpreter, span Span, args []Value) (Value, error) {
	switch args[0].Tag {
	case VTStr:
		return IntVal(int64(utf8.RuneCountInString(args[0].Data.(string)))), nil
	case VTArray:
		return IntVal(int64(len(args[0].Data.(*ArrayObject).Elements))), nil
	case VTHash:
		return IntVal(int64(args[0].Data.(*HashObject).Len())), nil
	default:
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("argument to len must be a string, array or hash, got %s", args[0].Tag),
		}
	}
}

func builtinFirst(ip *Interpreter, span Span, args []Value) (Value, error) {
	arr, err := wantArray(span, "first", args[0])
	if err != nil {
		return Null, err
	}
	if len(arr.Elements) == 0 {
		return Null, nil
	}
	return arr.Elements[0], nil
}

func builtinLast(ip *Interpreter, span Span, args []Value) (Value, error) {
	arr, err := wantArray(span, "last", args[0])
	if err != nil {
		return Null, err
	}
	if len(arr.Elements) == 0 {
		return Null, nil
	}
	return arr.Elements[len(arr.Elements)-1], nil
}

// builtinRest returns a fresh array holding everything after the first
// element, null for an empty array.
func builtinRest(ip *Interpreter, span Span, args []Value) (Value, error) {
	arr, err := wantArray(span, "rest", args[0])
	if err != nil {
		return Null, err
	}
	if len(arr.Elements) == 0 {
		return Null, nil
	}
	out := make([]Value, len(arr.Elements)-1)
	copy(out, arr.Elements[1:])
	return NewArray(out), nil
}

// builtinPush returns a fresh array with the element appended; the input
// array is left untouched.
func builtinPush(ip *Interpreter, span Span, args []Value) (Value, error) {
	arr, err := wantArray(span, "push", args[0])
	if err != nil {
		return Null, err
	}
	out := make([]Value, 0, len(arr.Elements)+1)
	out = append(out, arr.Elements...)
	out = append(out, args[1])
	return NewArray(out), nil
}

func builtinPuts(ip *Interpreter, span Span, args []Value) (Value, error) {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(FormatValue(arg))
		b.WriteByte('\n')
	}
	ip.print(b.String())
	return Null, nil
}

// builtinPrint writes a string without quoting, followed by a newline.
func builtinPrint(ip *Interpreter, span Span, args []Value) (Value, error) {
	if args[0].Tag != VTStr {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("argument to print must be a string, got %s", args[0].Tag),
		}
	}
	ip.print(args[0].Data.(string) + "\n")
	return Null, nil
}

func builtinRepr(ip *Interpreter, span Span, args []Value) (Value, error) {
	return StrVal(FormatValue(args[0])), nil
}

// builtinStr passes strings through unchanged and renders every other
// value the way puts would.
func builtinStr(ip *Interpreter, span Span, args []Value) (Value, error) {
	if args[0].Tag == VTStr {
		return args[0], nil
	}
	return StrVal(FormatValue(args[0])), nil
}

func builtinAtoi(ip *Interpreter, span Span, args []Value) (Value, error) {
	if args[0].Tag != VTStr {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("argument to atoi must be a string, got %s", args[0].Tag),
		}
	}
	s := args[0].Data.(string)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Null, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("argument to atoi must be valid digits, got %q", s),
		}
	}
	return IntVal(n), nil
}

// builtinQuit ends the host session with an optional exit code. Hosts
// without an exit facility (the browser sandbox) reject it.
func builtinQuit(ip *Interpreter, span Span, args []Value) (Value, error) {
	code := 0
	switch len(args) {
	case 0:
	case 1:
		if args[0].Tag != VTInt {
			return Null, &TypeError{
				Span: span,
				Msg:  fmt.Sprintf("argument to quit must be an int, got %s", args[0].Tag),
			}
		}
		code = int(args[0].Data.(int64))
	default:
		return Null, &ArityError{Span: span, Expected: 1, Got: len(args)}
	}
	if ip.hooks.Exit == nil {
		return Null, &TypeError{Span: span, Msg: "quit is not available in this host"}
	}
	ip.hooks.Exit(code)
	return Null, nil
}

func wantArray(span Span, name string, v Value) (*ArrayObject, error) {
	if v.Tag != VTArray {
		return nil, &TypeError{
			Span: span,
			Msg:  fmt.Sprintf("argument to %s must be an array, got %s", name, v.Tag),
		}
	}
	return v.Data.(*ArrayObject), nil
}
