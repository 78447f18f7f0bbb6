package herlang

import (
	"testing"
)

func format(t *testing.T, src string) string {
	t.Helper()
	out, err := Format(src)
	if err != nil {
		t.Fatalf("Format error for %q: %v", src, err)
	}
	return out
}

// --- FormatValue -----------------------------------------------------------

func Test_FormatValue_Scalars(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{IntVal(42), "42"},
		{IntVal(-1), "-1"},
		{BoolVal(true), "true"},
		{BoolVal(false), "false"},
		{StrVal("hi"), `"hi"`},
		{StrVal("a\"b"), `"a\"b"`},
		{StrVal("a\nb"), `"a\nb"`},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.v); got != tc.want {
			t.Fatalf("FormatValue: want %q, got %q", tc.want, got)
		}
	}
}

func Test_FormatValue_Containers(t *testing.T) {
	if got := FormatValue(evalSrc(t, `[1, "a", [true]]`)); got != `[1, "a", [true]]` {
		t.Fatalf("array rendering: got %q", got)
	}
	if got := FormatValue(evalSrc(t, `let h = {"z": 1, "a": 2}; h`)); got != `{"z": 1, "a": 2}` {
		t.Fatalf("hash rendering must keep insertion order: got %q", got)
	}
	if got := FormatValue(evalSrc(t, "fn(a, b) { a; }")); got != "fn(a, b) { ... }" {
		t.Fatalf("function rendering: got %q", got)
	}
	if got := FormatValue(evalSrc(t, "len")); got != "[builtin function]" {
		t.Fatalf("builtin rendering: got %q", got)
	}
}

// null is excluded here: it renders as "null" but the language has no
// null literal to read it back with.
func Test_FormatValue_RoundTripsThroughEval(t *testing.T) {
	for _, src := range []string{
		"42", `"she"`, "true", `[1, "a", [true, false]]`,
	} {
		rendered := FormatValue(evalSrc(t, src))
		again := evalSrc(t, rendered)
		eq, ok := valuesEqual(evalSrc(t, src), again)
		if !ok || !eq {
			t.Fatalf("value %q did not round-trip (rendered %q)", src, rendered)
		}
	}
}

// --- Format ----------------------------------------------------------------

func Test_Format_Canonicalizes(t *testing.T) {
	cases := []struct{ src, want string }{
		{"let x=1", "let x = 1;\n"},
		{"1+2*3", "1 + 2 * 3;\n"},
		{"let f = fn(a,b){a+b;}", "let f = fn(a, b) {\n    a + b;\n};\n"},
		{"(x)=>x", "(x) => x;\n"},
		{"h.key", "h.key;\n"},
		{`h["key word"]`, "h[\"key word\"];\n"},
		{"if(x){1;}else{2;}", "if (x) {\n    1;\n} else {\n    2;\n};\n"},
		{"while(x){x=x-1;}", "while (x) {\n    x = x - 1;\n};\n"},
	}
	for _, tc := range cases {
		if got := format(t, tc.src); got != tc.want {
			t.Fatalf("format %q:\nwant %q\ngot  %q", tc.src, tc.want, got)
		}
	}
}

func Test_Format_RewritesAliasesToASCII(t *testing.T) {
	got := format(t, "宝宝你是一个 转运 = 想要你一个态度(x) { 反手举报 x 拼单 1; };")
	want := "let 转运 = fn(x) {\n    return x + 1;\n};\n"
	if got != want {
		t.Fatalf("alias formatting:\nwant %q\ngot  %q", want, got)
	}
}

func Test_Format_PreservesBlankSeparators(t *testing.T) {
	got := format(t, "let a = 1;\n\n\nlet b = 2;")
	want := "let a = 1;\n\nlet b = 2;\n"
	if got != want {
		t.Fatalf("blank separators:\nwant %q\ngot  %q", want, got)
	}
	// leading blanks are dropped
	got = format(t, "\n\nlet a = 1;")
	if got != "let a = 1;\n" {
		t.Fatalf("leading blank kept: %q", got)
	}
}

func Test_Format_Idempotent(t *testing.T) {
	sources := []string{
		"let x=1;let y=x+2;",
		"let f = fn(a) { if (a > 0) { return a; } else { return -a; } };",
		"let add = (n) => (m) => n + m;\n\nadd(5)(3);",
		`let h = {"a": [1, 2], "b": (x) => x};`,
		"{ let inner = 1; }",
	}
	for _, src := range sources {
		once := format(t, src)
		twice := format(t, once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\nonce  %q\ntwice %q", src, once, twice)
		}
	}
}

func Test_Format_KeepsPrecedenceParens(t *testing.T) {
	// formatting must not change what the code means
	cases := []string{
		"(1 + 2) * 3;",
		"a - (b - c);",
		"(a || b) && c;",
		"!(a == b);",
	}
	for _, src := range cases {
		if got := format(t, src); got != src+"\n" {
			t.Fatalf("parens lost: %q became %q", src, got)
		}
	}
}

func Test_Format_SyntaxErrorPassesThrough(t *testing.T) {
	if _, err := Format("let = 1"); err == nil {
		t.Fatalf("Format must refuse unparseable input")
	}
}
