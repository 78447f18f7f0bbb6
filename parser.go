// parser.go — Pratt parser for HER.
//
// Recursive descent for statement forms, precedence climbing for
// expressions. The parser owns all syntax error detection and fails on the
// first error: it reports the offending token together with what it
// expected, and never tries to recover. It pulls tokens lazily from the
// lexer with exactly one token of lookahead.
package herlang

import "fmt"

// ParseError is a malformed-syntax fault. Line is 1-based, Col 0-based.
// Expected/Found describe the token mismatch; Msg is used for syntax
// errors that are not plain token mismatches.
type ParseError struct {
	Line     int
	Col      int
	Expected string
	Found    string
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.describe())
}

func (e *ParseError) describe() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// IsIncomplete reports whether err is a parse error caused by the input
// ending too early. REPLs use this to keep reading continuation lines.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Found == EOF.String()
}

// operator precedence, low to high
type precedence int

const (
	precLowest precedence = iota
	precAssign             // =
	precOr                 // ||
	precAnd                // &&
	precEquals             // == !=
	precLessGreater        // < <= > >=
	precSum                // + -
	precProduct            // * / %
	precPrefix             // -x !x
	precIndex              // a[i] a.b
	precCall               // f(x)
)

func tokenPrecedence(tt TokenType) precedence {
	switch tt {
	case ASSIGN:
		return precAssign
	case OROR:
		return precOr
	case ANDAND:
		return precAnd
	case EQ, NEQ:
		return precEquals
	case LT, LTEQ, GT, GTEQ:
		return precLessGreater
	case PLUS, MINUS:
		return precSum
	case ASTERISK, SLASH, PERCENT:
		return precProduct
	case LBRACKET, DOT:
		return precIndex
	case LPAREN:
		return precCall
	default:
		return precLowest
	}
}

var infixOps = map[TokenType]string{
	PLUS:     "+",
	MINUS:    "-",
	ASTERISK: "*",
	SLASH:    "/",
	PERCENT:  "%",
	EQ:       "==",
	NEQ:      "!=",
	LT:       "<",
	LTEQ:     "<=",
	GT:       ">",
	GTEQ:     ">=",
	ANDAND:   "&&",
	OROR:     "||",
}

// Parser consumes the token stream and builds the AST.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	nextToken Token
}

// NewParser creates a parser over src. The returned error is a *LexError
// when the very first tokens are already malformed.
func NewParser(src string) (*Parser, error) {
	p := &Parser{lexer: NewLexer(src)}
	if err := p.bump(); err != nil {
		return nil, err
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse is the one-call convenience: source text in, AST root out.
func Parse(src string) (*Program, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func (p *Parser) bump() error {
	p.curToken = p.nextToken
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.nextToken = tok
	return nil
}

func (p *Parser) curIs(tt TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) nextIs(tt TokenType) bool { return p.nextToken.Type == tt }

// expectNext advances iff the next token has the wanted type.
func (p *Parser) expectNext(tt TokenType) error {
	if !p.nextIs(tt) {
		return p.errNext(tt.String())
	}
	return p.bump()
}

func (p *Parser) errNext(expected string) error {
	return &ParseError{
		Line:     p.nextToken.Line,
		Col:      p.nextToken.Col,
		Expected: expected,
		Found:    p.nextToken.Type.String(),
	}
}

func (p *Parser) errCur(expected string) error {
	return &ParseError{
		Line:     p.curToken.Line,
		Col:      p.curToken.Col,
		Expected: expected,
		Found:    p.curToken.Type.String(),
	}
}

func (p *Parser) syntaxErr(tok Token, msg string) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Found: tok.Type.String(), Msg: msg}
}

// skipOptionalSemicolon consumes a trailing ';' if present.
func (p *Parser) skipOptionalSemicolon() error {
	if p.nextIs(SEMICOLON) {
		return p.bump()
	}
	return nil
}

// ParseProgram parses the whole token stream into one Program root. Every
// token up to end-of-input must belong to some statement; trailing garbage
// is a ParseError, never silently dropped.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{Span: spanFromToken(p.curToken)}
	for !p.curIs(EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	if len(prog.Statements) > 0 {
		prog.Span = prog.Span.join(prog.Statements[len(prog.Statements)-1].NodeSpan())
	}
	return prog, nil
}

// ----- statements -----

func (p *Parser) parseStmt() (Stmt, error) {
	switch p.curToken.Type {
	case LET:
		return p.parseLetStmt()
	case RETURN:
		return p.parseReturnStmt()
	case BREAK:
		return p.parseBreakStmt()
	case CONTINUE:
		return p.parseContinueStmt()
	case LBRACE:
		return p.parseBlockStmt()
	case BLANK:
		return p.parseBlankStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() (Stmt, error) {
	letTok := p.curToken
	if err := p.expectNext(IDENT); err != nil {
		return nil, err
	}
	nameTok := p.curToken
	name := &Ident{Span: spanFromToken(nameTok), Name: nameTok.Literal.(string)}

	// 女性是不能被定义滴.
	if IsProtectedName(name.Name) {
		return nil, p.syntaxErr(nameTok, "女性是不能被定义的！！！")
	}

	if err := p.expectNext(ASSIGN); err != nil {
		return nil, err
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.skipOptionalSemicolon(); err != nil {
		return nil, err
	}
	return &LetStmt{
		Span:  spanFromToken(letTok).join(value.NodeSpan()),
		Name:  name,
		Value: value,
	}, nil
}

func (p *Parser) parseReturnStmt() (Stmt, error) {
	retTok := p.curToken
	span := spanFromToken(retTok)

	// bare `return` / `return;`
	if p.nextIs(SEMICOLON) || p.nextIs(EOF) || p.nextIs(RBRACE) || p.nextIs(BLANK) {
		if err := p.skipOptionalSemicolon(); err != nil {
			return nil, err
		}
		return &ReturnStmt{Span: span}, nil
	}

	if err := p.bump(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.skipOptionalSemicolon(); err != nil {
		return nil, err
	}
	return &ReturnStmt{Span: span.join(value.NodeSpan()), Value: value}, nil
}

func (p *Parser) parseBreakStmt() (Stmt, error) {
	stmt := &BreakStmt{Span: spanFromToken(p.curToken)}
	if err := p.skipOptionalSemicolon(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseContinueStmt() (Stmt, error) {
	stmt := &ContinueStmt{Span: spanFromToken(p.curToken)}
	if err := p.skipOptionalSemicolon(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseBlankStmt() (Stmt, error) {
	stmt := &BlankStmt{Span: spanFromToken(p.curToken)}
	// collapse runs of blank lines into one
	for p.nextIs(BLANK) {
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.skipOptionalSemicolon(); err != nil {
		return nil, err
	}
	return &ExprStmt{Span: expr.NodeSpan(), Expr: expr}, nil
}

// parseBlockStmt parses { stmt* }. The current token must be '{'.
func (p *Parser) parseBlockStmt() (*BlockStmt, error) {
	openTok := p.curToken
	block := &BlockStmt{Span: spanFromToken(openTok)}
	if err := p.bump(); err != nil {
		return nil, err
	}
	for !p.curIs(RBRACE) {
		if p.curIs(EOF) {
			return nil, p.errCur(RBRACE.String())
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	block.Span = block.Span.join(spanFromToken(p.curToken))
	return block, nil
}

// ----- expressions -----

func (p *Parser) parseExpr(prec precedence) (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for !p.nextIs(SEMICOLON) && prec < tokenPrecedence(p.nextToken.Type) {
		switch p.nextToken.Type {
		case PLUS, MINUS, ASTERISK, SLASH, PERCENT,
			EQ, NEQ, LT, LTEQ, GT, GTEQ, ANDAND, OROR:
			if err := p.bump(); err != nil {
				return nil, err
			}
			left, err = p.parseInfixExpr(left)
		case ASSIGN:
			if err := p.bump(); err != nil {
				return nil, err
			}
			left, err = p.parseAssignExpr(left)
		case LBRACKET:
			if err := p.bump(); err != nil {
				return nil, err
			}
			left, err = p.parseIndexExpr(left)
		case DOT:
			if err := p.bump(); err != nil {
				return nil, err
			}
			left, err = p.parseDotExpr(left)
		case LPAREN:
			if err := p.bump(); err != nil {
				return nil, err
			}
			left, err = p.parseCallExpr(left)
		default:
			return left, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (Expr, error) {
	switch p.curToken.Type {
	case IDENT:
		return &Ident{Span: spanFromToken(p.curToken), Name: p.curToken.Literal.(string)}, nil
	case INT:
		return &IntLiteral{Span: spanFromToken(p.curToken), Value: p.curToken.Literal.(int64)}, nil
	case STRING:
		return &StringLiteral{Span: spanFromToken(p.curToken), Value: p.curToken.Literal.(string)}, nil
	case BOOLEAN:
		return &BoolLiteral{Span: spanFromToken(p.curToken), Value: p.curToken.Literal.(bool)}, nil
	case BANG, MINUS, PLUS:
		return p.parsePrefixExpr()
	case LPAREN:
		return p.parseParenExpr()
	case LBRACKET:
		return p.parseArrayLiteral()
	case LBRACE:
		return p.parseHashLiteral()
	case IF:
		return p.parseIfExpr()
	case WHILE:
		return p.parseWhileExpr()
	case FUNCTION:
		return p.parseFuncLit()
	default:
		return nil, p.errCur("an expression")
	}
}

func (p *Parser) parsePrefixExpr() (Expr, error) {
	opTok := p.curToken
	op := opTok.Lexeme
	switch opTok.Type {
	case BANG:
		op = "!"
	case MINUS:
		op = "-"
	case PLUS:
		op = "+"
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr(precPrefix)
	if err != nil {
		return nil, err
	}
	return &PrefixExpr{
		Span:    spanFromToken(opTok).join(operand.NodeSpan()),
		Op:      op,
		Operand: operand,
	}, nil
}

func (p *Parser) parseInfixExpr(left Expr) (Expr, error) {
	opTok := p.curToken
	op, ok := infixOps[opTok.Type]
	if !ok {
		return nil, p.errCur("an infix operator")
	}
	prec := tokenPrecedence(opTok.Type)
	if err := p.bump(); err != nil {
		return nil, err
	}
	right, err := p.parseExpr(prec)
	if err != nil {
		return nil, err
	}
	return &InfixExpr{
		Span:  left.NodeSpan().join(right.NodeSpan()),
		Op:    op,
		Left:  left,
		Right: right,
	}, nil
}

// parseAssignExpr parses `target = value` (right-associative). The current
// token is '='.
func (p *Parser) parseAssignExpr(left Expr) (Expr, error) {
	assignTok := p.curToken
	switch left.(type) {
	case *Ident, *IndexExpr:
	default:
		return nil, p.syntaxErr(assignTok, "invalid assignment target")
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	// precAssign-1 makes chains like a = b = 1 group rightward
	value, err := p.parseExpr(precAssign - 1)
	if err != nil {
		return nil, err
	}
	return &AssignExpr{
		Span:   left.NodeSpan().join(value.NodeSpan()),
		Target: left,
		Value:  value,
	}, nil
}

func (p *Parser) parseIndexExpr(left Expr) (Expr, error) {
	if err := p.bump(); err != nil {
		return nil, err
	}
	index, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectNext(RBRACKET); err != nil {
		return nil, err
	}
	return &IndexExpr{
		Span:  left.NodeSpan().join(spanFromToken(p.curToken)),
		Left:  left,
		Index: index,
	}, nil
}

// parseDotExpr desugars h.key into h["key"], keeping the Dot flag for the
// formatter.
func (p *Parser) parseDotExpr(left Expr) (Expr, error) {
	if err := p.expectNext(IDENT); err != nil {
		return nil, err
	}
	keyTok := p.curToken
	key := &StringLiteral{Span: spanFromToken(keyTok), Value: keyTok.Literal.(string)}
	return &IndexExpr{
		Span:  left.NodeSpan().join(key.Span),
		Left:  left,
		Index: key,
		Dot:   true,
	}, nil
}

func (p *Parser) parseCallExpr(callee Expr) (Expr, error) {
	args, end, err := p.parseExprList(RPAREN)
	if err != nil {
		return nil, err
	}
	return &CallExpr{
		Span:   callee.NodeSpan().join(end),
		Callee: callee,
		Args:   args,
	}, nil
}

// parseExprList parses a comma-separated expression list. The current
// token is the opening delimiter; on return the current token is `end` and
// the returned span is its location.
func (p *Parser) parseExprList(end TokenType) ([]Expr, Span, error) {
	var list []Expr
	if p.nextIs(end) {
		if err := p.bump(); err != nil {
			return nil, Span{}, err
		}
		return list, spanFromToken(p.curToken), nil
	}
	if err := p.bump(); err != nil {
		return nil, Span{}, err
	}
	first, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, Span{}, err
	}
	list = append(list, first)
	for p.nextIs(COMMA) {
		if err := p.bump(); err != nil {
			return nil, Span{}, err
		}
		if err := p.bump(); err != nil {
			return nil, Span{}, err
		}
		elem, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, Span{}, err
		}
		list = append(list, elem)
	}
	if err := p.expectNext(end); err != nil {
		return nil, Span{}, err
	}
	return list, spanFromToken(p.curToken), nil
}

// parseParenExpr handles both grouped expressions and arrow function
// literals. `(a, b) => body` is recognized after the closing paren: the
// grouped expressions are then reinterpreted as the parameter list.
func (p *Parser) parseParenExpr() (Expr, error) {
	openTok := p.curToken
	exprs, _, err := p.parseExprList(RPAREN)
	if err != nil {
		return nil, err
	}

	if p.nextIs(ARROW) {
		if err := p.bump(); err != nil {
			return nil, err
		}
		return p.parseArrowRest(openTok, exprs)
	}

	if len(exprs) != 1 {
		return nil, p.syntaxErr(openTok, "expected a single grouped expression")
	}
	return exprs[0], nil
}

// parseArrowRest finishes an arrow function. The current token is '=>' and
// params holds the already-parsed parenthesized expressions.
func (p *Parser) parseArrowRest(openTok Token, params []Expr) (Expr, error) {
	idents := make([]*Ident, len(params))
	for i, e := range params {
		id, ok := e.(*Ident)
		if !ok {
			return nil, p.syntaxErr(openTok, "arrow function parameters must be identifiers")
		}
		if IsProtectedName(id.Name) {
			return nil, p.syntaxErr(openTok, "女性是不能被定义的！！！")
		}
		idents[i] = id
	}

	fn := &FuncLit{Span: spanFromToken(openTok), Params: idents, Arrow: true}

	if p.nextIs(LBRACE) {
		if err := p.bump(); err != nil {
			return nil, err
		}
		body, err := p.parseBlockStmt()
		if err != nil {
			return nil, err
		}
		fn.Body = body
		fn.Span = fn.Span.join(body.Span)
		return fn, nil
	}

	if err := p.bump(); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	fn.ArrowBody = body
	fn.Span = fn.Span.join(body.NodeSpan())
	return fn, nil
}

func (p *Parser) parseArrayLiteral() (Expr, error) {
	openTok := p.curToken
	elems, end, err := p.parseExprList(RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ArrayLiteral{
		Span:     spanFromToken(openTok).join(end),
		Elements: elems,
	}, nil
}

func (p *Parser) parseHashLiteral() (Expr, error) {
	openTok := p.curToken
	hash := &HashLiteral{Span: spanFromToken(openTok)}
	for !p.nextIs(RBRACE) {
		if err := p.bump(); err != nil {
			return nil, err
		}
		key, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectNext(COLON); err != nil {
			return nil, err
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		hash.Pairs = append(hash.Pairs, HashPair{Key: key, Value: value})
		if !p.nextIs(RBRACE) {
			if err := p.expectNext(COMMA); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectNext(RBRACE); err != nil {
		return nil, err
	}
	hash.Span = hash.Span.join(spanFromToken(p.curToken))
	return hash, nil
}

func (p *Parser) parseIfExpr() (Expr, error) {
	ifTok := p.curToken
	if err := p.expectNext(LPAREN); err != nil {
		return nil, err
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectNext(RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectNext(LBRACE); err != nil {
		return nil, err
	}
	consequence, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}

	expr := &IfExpr{
		Span:        spanFromToken(ifTok).join(consequence.Span),
		Cond:        cond,
		Consequence: consequence,
	}

	if p.nextIs(ELSE) {
		if err := p.bump(); err != nil {
			return nil, err
		}
		if err := p.expectNext(LBRACE); err != nil {
			return nil, err
		}
		alternative, err := p.parseBlockStmt()
		if err != nil {
			return nil, err
		}
		expr.Alternative = alternative
		expr.Span = expr.Span.join(alternative.Span)
	}
	return expr, nil
}

func (p *Parser) parseWhileExpr() (Expr, error) {
	whileTok := p.curToken
	if err := p.expectNext(LPAREN); err != nil {
		return nil, err
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectNext(RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectNext(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &WhileExpr{
		Span: spanFromToken(whileTok).join(body.Span),
		Cond: cond,
		Body: body,
	}, nil
}

// parseFuncLit parses fn(a, b) { ... }.
func (p *Parser) parseFuncLit() (Expr, error) {
	fnTok := p.curToken
	if err := p.expectNext(LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseFuncParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectNext(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &FuncLit{
		Span:   spanFromToken(fnTok).join(body.Span),
		Params: params,
		Body:   body,
	}, nil
}

// parseFuncParams parses the (a, b, c) parameter list of an fn literal.
// The current token is '('.
func (p *Parser) parseFuncParams() ([]*Ident, error) {
	var params []*Ident
	if p.nextIs(RPAREN) {
		return params, p.bump()
	}
	for {
		if err := p.expectNext(IDENT); err != nil {
			return nil, err
		}
		name := p.curToken.Literal.(string)
		if IsProtectedName(name) {
			return nil, p.syntaxErr(p.curToken, "女性是不能被定义的！！！")
		}
		params = append(params, &Ident{Span: spanFromToken(p.curToken), Name: name})
		if !p.nextIs(COMMA) {
			break
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	return params, p.expectNext(RPAREN)
}
