package herlang

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func parseProg(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error for %q: %v", src, err)
	}
	return prog
}

// parseOneExpr parses src and returns the single expression statement.
func parseOneExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog := parseProg(t, src)
	if len(prog.Statements) != 1 {
		t.Fatalf("want 1 statement for %q, got %d", src, len(prog.Statements))
	}
	es, ok := prog.Statements[0].(*ExprStmt)
	if !ok {
		t.Fatalf("want expression statement for %q, got %T", src, prog.Statements[0])
	}
	return es.Expr
}

func wantParseError(t *testing.T, src, msgPart string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("want parse error for %q, got none", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError for %q, got %T: %v", src, err, err)
	}
	if !strings.Contains(pe.describe(), msgPart) {
		t.Fatalf("parse error for %q: want %q in %q", src, msgPart, pe.describe())
	}
	return pe
}

// canonical reformats src; precedence tests read the parse off the
// parenthesization the printer re-inserts.
func canonical(t *testing.T, src string) string {
	t.Helper()
	out, err := Format(src)
	if err != nil {
		t.Fatalf("Format error for %q: %v", src, err)
	}
	return strings.TrimSuffix(out, "\n")
}

// --- statements ------------------------------------------------------------

func Test_Parser_LetStatement(t *testing.T) {
	prog := parseProg(t, "let answer = 42;")
	ls, ok := prog.Statements[0].(*LetStmt)
	if !ok {
		t.Fatalf("want *LetStmt, got %T", prog.Statements[0])
	}
	if ls.Name.Name != "answer" {
		t.Fatalf("let name: want answer, got %q", ls.Name.Name)
	}
	if lit, ok := ls.Value.(*IntLiteral); !ok || lit.Value != 42 {
		t.Fatalf("let value: want 42, got %#v", ls.Value)
	}
}

func Test_Parser_LetRejectsProtectedNames(t *testing.T) {
	for _, name := range []string{"女性", "her", "女", "female", "woman", "girl", "lady"} {
		wantParseError(t, "let "+name+" = 1;", "女性是不能被定义的！！！")
	}
	// reading a protected name is fine syntactically
	parseProg(t, "her")
}

func Test_Parser_FnParamsRejectProtectedNames(t *testing.T) {
	wantParseError(t, "fn(her) { 1; }", "女性是不能被定义的！！！")
	wantParseError(t, "(woman) => 1", "女性是不能被定义的！！！")
}

func Test_Parser_ReturnForms(t *testing.T) {
	prog := parseProg(t, "fn() { return; }")
	fn := prog.Statements[0].(*ExprStmt).Expr.(*FuncLit)
	rs := fn.Body.Statements[0].(*ReturnStmt)
	if rs.Value != nil {
		t.Fatalf("bare return should carry no value, got %#v", rs.Value)
	}

	prog = parseProg(t, "fn() { return 1 + 2; }")
	fn = prog.Statements[0].(*ExprStmt).Expr.(*FuncLit)
	rs = fn.Body.Statements[0].(*ReturnStmt)
	if _, ok := rs.Value.(*InfixExpr); !ok {
		t.Fatalf("return value: want infix, got %#v", rs.Value)
	}
}

func Test_Parser_BraceAtStatementPositionIsABlock(t *testing.T) {
	prog := parseProg(t, "{ let x = 1; }")
	if _, ok := prog.Statements[0].(*BlockStmt); !ok {
		t.Fatalf("want *BlockStmt, got %T", prog.Statements[0])
	}
	// in expression position the same token starts a hash
	prog = parseProg(t, `x = {"a": 1}`)
	as := prog.Statements[0].(*ExprStmt).Expr.(*AssignExpr)
	if _, ok := as.Value.(*HashLiteral); !ok {
		t.Fatalf("want hash literal, got %T", as.Value)
	}
}

func Test_Parser_BlankLinesCollapse(t *testing.T) {
	prog := parseProg(t, "1\n\n\n\n2")
	kinds := []string{}
	for _, s := range prog.Statements {
		switch s.(type) {
		case *ExprStmt:
			kinds = append(kinds, "expr")
		case *BlankStmt:
			kinds = append(kinds, "blank")
		}
	}
	want := []string{"expr", "blank", "expr"}
	if len(kinds) != len(want) {
		t.Fatalf("statement kinds: want %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("statement kinds: want %v, got %v", want, kinds)
		}
	}
}

// --- expressions -----------------------------------------------------------

func Test_Parser_Precedence(t *testing.T) {
	cases := []struct{ src, want string }{
		{"1 + 2 * 3", "1 + 2 * 3;"},
		{"(1 + 2) * 3", "(1 + 2) * 3;"},
		{"-a * b", "-a * b;"},
		{"!(a == b)", "!(a == b);"},
		{"a + b - c", "a + b - c;"},
		{"a - (b - c)", "a - (b - c);"},
		{"a < b == c > d", "a < b == c > d;"},
		{"a && b || c && d", "a && b || c && d;"},
		{"(a || b) && c", "(a || b) && c;"},
		{"a + b[0] * c(1)", "a + b[0] * c(1);"},
		{"1 拼单 2 种草 3", "1 + 2 * 3;"},
	}
	for _, tc := range cases {
		if got := canonical(t, tc.src); got != tc.want {
			t.Fatalf("precedence of %q: want %q, got %q", tc.src, tc.want, got)
		}
	}
}

func Test_Parser_AssignIsRightAssociative(t *testing.T) {
	expr := parseOneExpr(t, "a = b = 1")
	outer, ok := expr.(*AssignExpr)
	if !ok {
		t.Fatalf("want assign, got %T", expr)
	}
	if _, ok := outer.Value.(*AssignExpr); !ok {
		t.Fatalf("a = b = 1 should group rightward, got %#v", outer.Value)
	}
}

func Test_Parser_AssignTargets(t *testing.T) {
	parseProg(t, "x = 1")
	parseProg(t, "a[0] = 1")
	parseProg(t, "h.k = 1")
	wantParseError(t, "1 = 2", "invalid assignment target")
	wantParseError(t, "f() = 2", "invalid assignment target")
}

func Test_Parser_DotDesugarsToIndex(t *testing.T) {
	expr := parseOneExpr(t, "h.name")
	ix, ok := expr.(*IndexExpr)
	if !ok {
		t.Fatalf("want index expr, got %T", expr)
	}
	if !ix.Dot {
		t.Fatalf("dot access should set the Dot flag")
	}
	key, ok := ix.Index.(*StringLiteral)
	if !ok || key.Value != "name" {
		t.Fatalf("dot key: want \"name\", got %#v", ix.Index)
	}
}

func Test_Parser_ArrowFunctions(t *testing.T) {
	expr := parseOneExpr(t, "(a, b) => a + b")
	fn, ok := expr.(*FuncLit)
	if !ok || !fn.Arrow {
		t.Fatalf("want arrow fn, got %#v", expr)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("arrow params: got %#v", fn.Params)
	}
	if fn.Body != nil || fn.ArrowBody == nil {
		t.Fatalf("expression-bodied arrow should use ArrowBody")
	}

	expr = parseOneExpr(t, "(x) => { return x; }")
	fn = expr.(*FuncLit)
	if fn.Body == nil || fn.ArrowBody != nil {
		t.Fatalf("block-bodied arrow should use Body")
	}

	// empty parameter list and currying
	parseOneExpr(t, "() => 1")
	expr = parseOneExpr(t, "(n) => (m) => n + m")
	fn = expr.(*FuncLit)
	if _, ok := fn.ArrowBody.(*FuncLit); !ok {
		t.Fatalf("curried arrow: want nested fn, got %#v", fn.ArrowBody)
	}
}

func Test_Parser_ArrowParamsMustBeIdents(t *testing.T) {
	wantParseError(t, "(a + b) => 1", "parameters must be identifiers")
}

func Test_Parser_GroupedExpr(t *testing.T) {
	expr := parseOneExpr(t, "(1 + 2)")
	if _, ok := expr.(*InfixExpr); !ok {
		t.Fatalf("grouped expr unwrapped wrong: %#v", expr)
	}
	wantParseError(t, "(1, 2)", "single grouped expression")
}

func Test_Parser_CallAndIndexChains(t *testing.T) {
	expr := parseOneExpr(t, "f(1)(2)[0].k")
	ix := expr.(*IndexExpr)
	if !ix.Dot {
		t.Fatalf("outermost should be the dot access")
	}
	inner := ix.Left.(*IndexExpr)
	call := inner.Left.(*CallExpr)
	if _, ok := call.Callee.(*CallExpr); !ok {
		t.Fatalf("chain shape: got %#v", expr)
	}
}

func Test_Parser_IfElseAndWhile(t *testing.T) {
	expr := parseOneExpr(t, "if (x < 1) { 1; } else { 2; }")
	ie := expr.(*IfExpr)
	if ie.Alternative == nil {
		t.Fatalf("else branch lost")
	}
	expr = parseOneExpr(t, "while (x < 10) { x = x + 1; }")
	we := expr.(*WhileExpr)
	if len(we.Body.Statements) != 1 {
		t.Fatalf("while body: got %#v", we.Body)
	}
}

func Test_Parser_AliasKeywordsParse(t *testing.T) {
	src := `宝宝你是一个 转运 = 想要你一个态度(x) { 反手举报 x 拼单 1; };
姐妹们觉得呢 (转运(1) 我同意 2) { 1; } 那能一样吗 { 2; }`
	parseProg(t, src)
}

func Test_Parser_ErrorReportsExpectedAndFound(t *testing.T) {
	pe := wantParseError(t, "let = 1;", "expected identifier")
	if pe.Line != 1 {
		t.Fatalf("error line: want 1, got %d", pe.Line)
	}
	wantParseError(t, "let x 1;", "expected '='")
	wantParseError(t, "if x { 1; }", "expected '('")
	wantParseError(t, "[1, 2", "expected ']'")
}

func Test_Parser_IsIncomplete(t *testing.T) {
	for _, src := range []string{
		"let x = (1 +",
		"fn(a) {",
		"[1, 2,",
		"if (true) {",
	} {
		_, err := Parse(src)
		if err == nil {
			t.Fatalf("want error for truncated %q", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("truncated %q should read as incomplete, got %v", src, err)
		}
	}
	_, err := Parse("let = 1")
	if IsIncomplete(err) {
		t.Fatalf("a real syntax error is not incomplete input")
	}
}

func Test_Parser_NoTrailingGarbage(t *testing.T) {
	wantParseError(t, "1 + 2 )", "expression")
}

func Test_Parser_SpansCoverNodes(t *testing.T) {
	prog := parseProg(t, "let x = 1 + 2;")
	ls := prog.Statements[0].(*LetStmt)
	span := ls.NodeSpan()
	if span.Line != 1 || span.Col != 0 {
		t.Fatalf("let span start: want 1:0, got %d:%d", span.Line, span.Col)
	}
	if span.EndByte <= span.StartByte {
		t.Fatalf("span bytes not increasing: %#v", span)
	}
	val := ls.Value.NodeSpan()
	if val.Col != 8 {
		t.Fatalf("value span: want col 8, got %d", val.Col)
	}
}
