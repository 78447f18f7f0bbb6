package herlang

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error for %q: %v", src, err)
	}
	return tokens
}

func wantTypes(t *testing.T, src string, types ...TokenType) []Token {
	t.Helper()
	tokens := scanAll(t, src)
	types = append(types, EOF)
	if len(tokens) != len(types) {
		t.Fatalf("token count for %q: want %d, got %d (%v)", src, len(types), len(tokens), tokens)
	}
	for i, tt := range types {
		if tokens[i].Type != tt {
			t.Fatalf("token %d of %q: want %s, got %s (lexeme %q)", i, src, tt, tokens[i].Type, tokens[i].Lexeme)
		}
	}
	return tokens
}

func wantLexError(t *testing.T, src, msgPart string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("want lex error for %q, got none", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError for %q, got %T: %v", src, err, err)
	}
	if !strings.Contains(le.Msg, msgPart) {
		t.Fatalf("lex error for %q: want message containing %q, got %q", src, msgPart, le.Msg)
	}
	return le
}

// --- tokens ----------------------------------------------------------------

func Test_Lexer_Operators_LongestMatch(t *testing.T) {
	wantTypes(t, "= == => ! != < <= > >= && ||",
		ASSIGN, EQ, ARROW, BANG, NEQ, LT, LTEQ, GT, GTEQ, ANDAND, OROR)
	// no space between: maximal munch still applies
	wantTypes(t, "a<=b", IDENT, LTEQ, IDENT)
	wantTypes(t, "a==b", IDENT, EQ, IDENT)
}

func Test_Lexer_Punctuation(t *testing.T) {
	wantTypes(t, "( ) { } [ ] , ; : . + - * / %",
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		COMMA, SEMICOLON, COLON, DOT, PLUS, MINUS, ASTERISK, SLASH, PERCENT)
}

func Test_Lexer_Keywords_ASCII(t *testing.T) {
	wantTypes(t, "fn let if else while break continue return",
		FUNCTION, LET, IF, ELSE, WHILE, BREAK, CONTINUE, RETURN)
}

func Test_Lexer_Keywords_Aliases(t *testing.T) {
	wantTypes(t, "想要你一个态度", FUNCTION)
	wantTypes(t, "宝宝你是一个", LET)
	wantTypes(t, "姐妹们觉得呢", IF)
	wantTypes(t, "抛开事实不谈", IF)
	wantTypes(t, "那能一样吗", ELSE)
	wantTypes(t, "我接受不等于我同意", ELSE)
	wantTypes(t, "你再说一遍", WHILE)
	wantTypes(t, "下头", BREAK)
	wantTypes(t, "反手举报", RETURN)
}

func Test_Lexer_Booleans(t *testing.T) {
	toks := wantTypes(t, "true false 那么普通却那么自信 那咋了", BOOLEAN, BOOLEAN, BOOLEAN, BOOLEAN)
	wantBools := []bool{true, false, true, false}
	for i, want := range wantBools {
		if got := toks[i].Literal.(bool); got != want {
			t.Fatalf("boolean %d: want %v, got %v", i, want, got)
		}
	}
}

func Test_Lexer_WordOperators(t *testing.T) {
	wantTypes(t, "1 拼单 2", INT, PLUS, INT)
	wantTypes(t, "1 接 2", INT, PLUS, INT)
	wantTypes(t, "1 差异 2", INT, MINUS, INT)
	wantTypes(t, "1 种草 2", INT, ASTERISK, INT)
	wantTypes(t, "1 踩雷 2", INT, SLASH, INT)
	wantTypes(t, "1 避雷 2", INT, SLASH, INT)
	wantTypes(t, "1 我同意 2", INT, EQ, INT)
	wantTypes(t, "1 我接受 2", INT, EQ, INT)
}

func Test_Lexer_Weight_IsAString(t *testing.T) {
	toks := wantTypes(t, "微胖", STRING)
	if got := toks[0].Literal.(string); got != "180kg" {
		t.Fatalf("微胖 should lex as the string \"180kg\", got %q", got)
	}
}

func Test_Lexer_Integers(t *testing.T) {
	toks := wantTypes(t, "0 7 123456789", INT, INT, INT)
	wantVals := []int64{0, 7, 123456789}
	for i, want := range wantVals {
		if got := toks[i].Literal.(int64); got != want {
			t.Fatalf("int %d: want %d, got %d", i, want, got)
		}
	}
	toks = wantTypes(t, "9223372036854775807", INT)
	if toks[0].Literal.(int64) != 9223372036854775807 {
		t.Fatalf("max int64 literal mis-lexed: %v", toks[0].Literal)
	}
}

func Test_Lexer_Integer_Malformed(t *testing.T) {
	wantLexError(t, "123abc", "malformed number")
	wantLexError(t, "1.5", "fractional")
	wantLexError(t, "9223372036854775808", "out of range")
}

func Test_Lexer_Strings_Escapes(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"hello"`, "hello"},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"a\0b"`, "a\x00b"},
		{`"\x41"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"你好"`, "你好"},
	}
	for _, tc := range cases {
		toks := wantTypes(t, tc.src, STRING)
		if got := toks[0].Literal.(string); got != tc.want {
			t.Fatalf("string %s: want %q, got %q", tc.src, tc.want, got)
		}
	}
}

func Test_Lexer_Strings_Malformed(t *testing.T) {
	wantLexError(t, `"abc`, "not terminated")
	wantLexError(t, "\"ab\nc\"", "not terminated")
	wantLexError(t, `"a\qb"`, "invalid escape")
	wantLexError(t, `"\x4"`, "\\x escape")
	wantLexError(t, `"\u{}"`, "unicode escape")
}

func Test_Lexer_SingleAmpersandAndPipe(t *testing.T) {
	wantLexError(t, "a & b", "'&&'")
	wantLexError(t, "a | b", "'||'")
}

func Test_Lexer_Comments(t *testing.T) {
	wantTypes(t, "1 // the rest is ignored\n2", INT, INT)
	wantTypes(t, "// only a comment")
}

func Test_Lexer_UnicodeWhitespace(t *testing.T) {
	// Pattern_White_Space minus '\n' separates tokens like a space does
	wantTypes(t, "12", INT, INT)
	wantTypes(t, "1‎2", INT, INT)
	wantTypes(t, "1‏2", INT, INT)
	wantTypes(t, "1 2", INT, INT)
	wantTypes(t, "1 2", INT, INT)
}

func Test_Lexer_BlankLines(t *testing.T) {
	// a single newline is whitespace, a newline pair is a BLANK token
	wantTypes(t, "1\n2", INT, INT)
	wantTypes(t, "1\n\n2", INT, BLANK, INT)
}

func Test_Lexer_Identifiers_Unicode(t *testing.T) {
	toks := wantTypes(t, "姐妹 _x $y ¥z", IDENT, IDENT, IDENT, IDENT)
	if toks[0].Literal.(string) != "姐妹" {
		t.Fatalf("unicode identifier mangled: %q", toks[0].Literal)
	}
}

func Test_Lexer_Identifiers_NFC(t *testing.T) {
	// e + combining acute vs precomposed é normalize to the same name
	decomposed := "é"
	composed := "é"
	a := wantTypes(t, decomposed, IDENT)
	b := wantTypes(t, composed, IDENT)
	if a[0].Literal.(string) != b[0].Literal.(string) {
		t.Fatalf("NFC normalization: %q vs %q", a[0].Literal, b[0].Literal)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	toks := scanAll(t, "let x = 1\nlet y = 2")
	// second `let` starts line 2, column 0
	if toks[4].Type != LET {
		t.Fatalf("token layout changed: %v", toks)
	}
	if toks[4].Line != 2 || toks[4].Col != 0 {
		t.Fatalf("second let position: want 2:0, got %d:%d", toks[4].Line, toks[4].Col)
	}
	// columns count runes, not bytes
	toks = scanAll(t, "姐妹 = 1")
	if toks[1].Type != ASSIGN || toks[1].Col != 3 {
		t.Fatalf("assign after CJK ident: want col 3, got %d", toks[1].Col)
	}
}

func Test_Lexer_Rescan_Deterministic(t *testing.T) {
	src := `let 转运 = fn(x) { x 拼单 1 }; 转运(41)`
	a := scanAll(t, src)
	b := scanAll(t, src)
	if len(a) != len(b) {
		t.Fatalf("rescan token count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rescan token %d differs: %#v vs %#v", i, a[i], b[i])
		}
	}
}
