package herlang

import "testing"

func FuzzLexer(f *testing.F) {
	seeds := []string{
		`let x = 1;`,
		`fn(a, b) { a + b; }`,
		`"hello" "with\nescape" "quote\""`,
		`+ - * / % > < >= <= == != && || =>`,
		"宝宝你是一个 转运 = 想要你一个态度(x) { 反手举报 x 拼单 1; };",
		"微胖 下头 哼",
		`"\x41\u{1F600}"`,
		"1\n\n2",
		"// comment only",
		`"unterminated`,
		"123abc",
		"9223372036854775808",
		"",
		"   ",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		// any error is fine; panics and infinite loops are not
		tokens, err := NewLexer(src).Scan()
		if err != nil {
			return
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
			t.Fatalf("token stream must end in EOF: %v", tokens)
		}
	})
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		`let x = 1; x + 2`,
		`let add = fn(a, b) { return a + b; }; add(1, 2)`,
		`(n) => (m) => n + m`,
		`if (true) { 1; } else { 2; }`,
		`while (x < 10) { x = x + 1; }`,
		`let h = {"a": [1, 2], 3: true}; h.a[0]`,
		"姐妹们觉得呢 (那么普通却那么自信) { 反手举报 1; }",
		`{ let scoped = 1; }`,
		`a = b = c`,
		`return (`,
		`[1, 2,`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		prog, err := Parse(src)
		if err != nil {
			return
		}
		// whatever parses must also format, and the formatter must be
		// idempotent on its own output
		once := FormatProgram(prog)
		reparsed, err := Parse(once)
		if err != nil {
			t.Fatalf("formatter output does not reparse: %v\ninput: %q\nformatted: %q", err, src, once)
		}
		twice := FormatProgram(reparsed)
		if once != twice {
			t.Fatalf("formatter not idempotent\ninput: %q\nonce: %q\ntwice: %q", src, once, twice)
		}
	})
}
