// lexer.go — rune-level scanner for HER source text.
//
// The lexer is lazy: the parser pulls tokens one at a time via NextToken,
// and the lexer never looks past the token it is producing. Scan is a
// convenience that drains the stream (tests, tooling). Identifiers are
// NFC-normalized so visually identical names denote one binding.
package herlang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF   TokenType = iota
	BLANK           // a blank line (two consecutive newlines); kept for the formatter

	// Identifiers & literals
	IDENT
	INT
	STRING
	BOOLEAN

	// Operators
	ASSIGN   // "="
	PLUS     // "+"
	MINUS    // "-"
	BANG     // "!"
	ASTERISK // "*"
	SLASH    // "/"
	PERCENT  // "%"
	EQ       // "=="
	NEQ      // "!="
	LT       // "<"
	LTEQ     // "<="
	GT       // ">"
	GTEQ     // ">="
	ANDAND   // "&&"
	OROR     // "||"
	ARROW    // "=>"

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	LBRACKET  // "["
	RBRACKET  // "]"
	COMMA     // ","
	SEMICOLON // ";"
	COLON     // ":"
	DOT       // "."

	// Keywords
	FUNCTION
	LET
	IF
	ELSE
	WHILE
	BREAK
	CONTINUE
	RETURN
)

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	BLANK:     "blank line",
	IDENT:     "identifier",
	INT:       "integer literal",
	STRING:    "string literal",
	BOOLEAN:   "boolean literal",
	ASSIGN:    "'='",
	PLUS:      "'+'",
	MINUS:     "'-'",
	BANG:      "'!'",
	ASTERISK:  "'*'",
	SLASH:     "'/'",
	PERCENT:   "'%'",
	EQ:        "'=='",
	NEQ:       "'!='",
	LT:        "'<'",
	LTEQ:      "'<='",
	GT:        "'>'",
	GTEQ:      "'>='",
	ANDAND:    "'&&'",
	OROR:      "'||'",
	ARROW:     "'=>'",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	LBRACKET:  "'['",
	RBRACKET:  "']'",
	COMMA:     "','",
	SEMICOLON: "';'",
	COLON:     "':'",
	DOT:       "'.'",
	FUNCTION:  "'fn'",
	LET:       "'let'",
	IF:        "'if'",
	ELSE:      "'else'",
	WHILE:     "'while'",
	BREAK:     "'break'",
	CONTINUE:  "'continue'",
	RETURN:    "'return'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a lexical token with optional literal value. Line is 1-based,
// Col is a 0-based rune column; StartByte/EndByte delimit the lexeme in
// the original source (half-open).
type Token struct {
	Type      TokenType
	Lexeme    string
	Literal   interface{} // int64 for INT, string for STRING/IDENT, bool for BOOLEAN
	Line      int
	Col       int
	EndLine   int
	EndCol    int
	StartByte int
	EndByte   int
}

// keywords maps reserved words to token types. HER accepts both the Monkey
// spellings and the aba-aba spellings.
var keywords = map[string]TokenType{
	"fn":       FUNCTION,
	"let":      LET,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,

	"想要你一个态度":   FUNCTION,
	"宝宝你是一个":    LET,
	"那么普通却那么自信": BOOLEAN,
	"那咋了":       BOOLEAN,
	"姐妹们觉得呢":    IF,
	"抛开事实不谈":    IF,
	"那能一样吗":     ELSE,
	"我接受不等于我同意": ELSE,
	"你再说一遍":     WHILE,
	"下头":        BREAK,
	"反手举报":      RETURN,
}

// wordOperators are identifier-shaped aliases that lex as operator tokens.
var wordOperators = map[string]TokenType{
	"我同意": EQ,
	"我接受": EQ,
	"拼单":  PLUS,
	"接":   PLUS,
	"差异":  MINUS,
	"种草":  ASTERISK,
	"踩雷":  SLASH,
	"避雷":  SLASH,
}

// trueWords are the BOOLEAN spellings that mean true.
var trueWords = map[string]bool{"true": true, "那么普通却那么自信": true}

// Lexer scans a HER source string into tokens.
type Lexer struct {
	src   string
	start int // byte index of current token start
	cur   int // current byte index
	line  int // 1-based
	col   int // 0-based rune column within line

	// position of the token being scanned
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source. Re-lexing the same
// source with a fresh lexer yields the identical token sequence.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[l.cur:])
	if l.cur+size >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur+size:])
	return r
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) makeToken(tt TokenType, lit interface{}) Token {
	return Token{
		Type:      tt,
		Lexeme:    l.src[l.start:l.cur],
		Literal:   lit,
		Line:      l.tokStartLine,
		Col:       l.tokStartCol,
		EndLine:   l.line,
		EndCol:    l.col,
		StartByte: l.start,
		EndByte:   l.cur,
	}
}

// ----- errors -----

// LexError is a malformed-token fault. Line is 1-based, Col 0-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- character classes -----

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isEmojiLike admits the rune ranges HER tolerates in identifiers.
func isEmojiLike(r rune) bool {
	if r < 0x80 {
		return false
	}
	switch {
	case r == 0x200D, r == 0xFE0F, r == 0xFE0E, r == 0x2139:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2190 && r <= 0x21FF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x25A0 && r <= 0x25FF:
		return true
	case r >= 0x2600 && r <= 0x26FF:
		return true
	case r >= 0x2700 && r <= 0x27FF:
		return true
	}
	return false
}

// isIdentStart: Unicode letters plus '_', '$', '¥' and emoji-like runes.
func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || r == '¥' ||
		unicode.IsLetter(r) || isEmojiLike(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// nfcNormalize returns the NFC form of an identifier. All bindings are
// keyed by normalized text.
func nfcNormalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// skipWhitespace eats Pattern_White_Space minus '\n': newline pairs become
// BLANK tokens so the formatter can keep paragraph breaks. The set is
// stable across Unicode versions, so it is hard-coded.
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\v', '\f',
			'', // NEXT LINE
			'‎', // LEFT-TO-RIGHT MARK
			'‏', // RIGHT-TO-LEFT MARK
			' ', // LINE SEPARATOR
			' ': // PARAGRAPH SEPARATOR
			l.advance()
		default:
			return
		}
	}
}

// ----- scanners -----

// scanString scans a double-quoted string literal. The opening quote has
// already been consumed. Escapes follow the original: \" \' \\ \/ \0 \n \r
// \t, \xNN, and \u{...}.
func (l *Lexer) scanString() (string, error) {
	var out strings.Builder
	for {
		if l.isAtEnd() {
			return "", l.err("string literal was not terminated")
		}
		r := l.advance()
		if r == '"' {
			return out.String(), nil
		}
		if r == '\n' {
			return "", l.err("string literal was not terminated")
		}
		if r != '\\' {
			out.WriteRune(r)
			continue
		}
		if l.isAtEnd() {
			return "", l.err("unfinished escape sequence")
		}
		esc := l.advance()
		switch esc {
		case '"':
			out.WriteByte('"')
		case '\'':
			out.WriteByte('\'')
		case '\\':
			out.WriteByte('\\')
		case '/':
			out.WriteByte('/')
		case '0':
			out.WriteByte(0)
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'x':
			var hex [2]rune
			for i := range hex {
				b := l.peek()
				if !isHexDigit(b) {
					return "", l.err("invalid \\x escape (expect 2 hex digits)")
				}
				hex[i] = b
				l.advance()
			}
			v, convErr := strconv.ParseUint(string(hex[:]), 16, 8)
			if convErr != nil || v > 0x7F {
				return "", l.err("invalid \\x escape")
			}
			out.WriteByte(byte(v))
		case 'u':
			if l.peek() != '{' {
				return "", l.err("invalid unicode escape (expect \\u{...})")
			}
			l.advance()
			var digits strings.Builder
			for l.peek() != '}' {
				b := l.peek()
				if !isHexDigit(b) || digits.Len() >= 6 {
					return "", l.err("invalid unicode escape")
				}
				digits.WriteRune(b)
				l.advance()
			}
			l.advance() // '}'
			if digits.Len() == 0 {
				return "", l.err("empty unicode escape")
			}
			v, convErr := strconv.ParseUint(digits.String(), 16, 32)
			if convErr != nil || !utf8.ValidRune(rune(v)) {
				return "", l.err("invalid unicode escape")
			}
			out.WriteRune(rune(v))
		default:
			return "", l.err(fmt.Sprintf("invalid escape sequence: \\%c", esc))
		}
	}
}

// scanNumber scans a decimal integer run. The first digit has been consumed.
func (l *Lexer) scanNumber() (int64, error) {
	for isDigit(l.peek()) {
		l.advance()
	}
	// 123abc is one malformed token, not INT then IDENT.
	if isIdentStart(l.peek()) {
		return 0, l.err("malformed number")
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		return 0, l.err("malformed number: HER integers have no fractional part")
	}
	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseInt(lex, 10, 64)
	if convErr != nil {
		return 0, l.err("integer literal out of range")
	}
	return v, nil
}

// scanIdentifier scans an identifier or keyword. The first rune has been
// consumed.
func (l *Lexer) scanIdentifier() string {
	for isIdentContinue(l.peek()) {
		l.advance()
	}
	return l.src[l.start:l.cur]
}

func (l *Lexer) ignoreUntilNewline() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// ----- main scanner -----

// NextToken scans and returns the next token. After the first EOF it keeps
// returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.makeToken(EOF, nil), nil
		}

		r := l.advance()

		switch r {
		case '\n':
			// A newline pair is a blank line; a single newline is plain
			// whitespace.
			if l.peek() == '\n' {
				return l.makeToken(BLANK, nil), nil
			}
			continue
		case '(':
			return l.makeToken(LPAREN, nil), nil
		case ')':
			return l.makeToken(RPAREN, nil), nil
		case '{':
			return l.makeToken(LBRACE, nil), nil
		case '}':
			return l.makeToken(RBRACE, nil), nil
		case '[':
			return l.makeToken(LBRACKET, nil), nil
		case ']':
			return l.makeToken(RBRACKET, nil), nil
		case ',':
			return l.makeToken(COMMA, nil), nil
		case ';':
			return l.makeToken(SEMICOLON, nil), nil
		case ':':
			return l.makeToken(COLON, nil), nil
		case '.':
			return l.makeToken(DOT, nil), nil
		case '+':
			return l.makeToken(PLUS, nil), nil
		case '-':
			return l.makeToken(MINUS, nil), nil
		case '*':
			return l.makeToken(ASTERISK, nil), nil
		case '%':
			return l.makeToken(PERCENT, nil), nil
		case '/':
			if l.peek() == '/' {
				l.ignoreUntilNewline()
				continue
			}
			return l.makeToken(SLASH, nil), nil
		case '=':
			if l.peek() == '=' {
				l.advance()
				return l.makeToken(EQ, nil), nil
			}
			if l.peek() == '>' {
				l.advance()
				return l.makeToken(ARROW, nil), nil
			}
			return l.makeToken(ASSIGN, nil), nil
		case '!':
			if l.peek() == '=' {
				l.advance()
				return l.makeToken(NEQ, nil), nil
			}
			return l.makeToken(BANG, nil), nil
		case '<':
			if l.peek() == '=' {
				l.advance()
				return l.makeToken(LTEQ, nil), nil
			}
			return l.makeToken(LT, nil), nil
		case '>':
			if l.peek() == '=' {
				l.advance()
				return l.makeToken(GTEQ, nil), nil
			}
			return l.makeToken(GT, nil), nil
		case '&':
			if l.peek() == '&' {
				l.advance()
				return l.makeToken(ANDAND, nil), nil
			}
			return Token{}, l.err("unexpected character: '&' (did you mean '&&'?)")
		case '|':
			if l.peek() == '|' {
				l.advance()
				return l.makeToken(OROR, nil), nil
			}
			return Token{}, l.err("unexpected character: '|' (did you mean '||'?)")
		case '"':
			text, err := l.scanString()
			if err != nil {
				return Token{}, err
			}
			return l.makeToken(STRING, text), nil
		}

		if isDigit(r) {
			v, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.makeToken(INT, v), nil
		}

		if isIdentStart(r) {
			lex := l.scanIdentifier()
			if tt, ok := wordOperators[lex]; ok {
				return l.makeToken(tt, nil), nil
			}
			// 微胖 is, famously, the string "180kg".
			if lex == "微胖" {
				return l.makeToken(STRING, "180kg"), nil
			}
			if tt, ok := keywords[lex]; ok {
				if tt == BOOLEAN {
					return l.makeToken(BOOLEAN, trueWords[lex]), nil
				}
				return l.makeToken(tt, nil), nil
			}
			return l.makeToken(IDENT, nfcNormalize(lex)), nil
		}

		return Token{}, l.err(fmt.Sprintf("unexpected character: %q", r))
	}
}

// Scan tokenizes the entire source and returns all tokens, EOF included.
func (l *Lexer) Scan() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
