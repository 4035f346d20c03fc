package lexer

import (
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/source"
)

var keywords = map[string]TokenType{
	"char":   KW_CHAR,
	"short":  KW_SHORT,
	"int":    KW_INT,
	"long":   KW_LONG,
	"return": KW_RETURN,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"struct": KW_STRUCT,
	"union":  KW_UNION,
	"const":  KW_CONST,
}

// Two-byte operators come before their one-byte prefixes.
var punctuators = []struct {
	lex string
	typ TokenType
}{
	{"==", EQEQ},
	{"!=", NEQ},
	{">=", GE},
	{"<=", LE},
	{"+=", PLUS_ASSIGN},
	{"-=", MINUS_ASSIGN},
	{"*=", STAR_ASSIGN},
	{"/=", SLASH_ASSIGN},
	{"->", ARROW},

	{"=", ASSIGN},
	{"&", AMP},
	{">", GT},
	{"<", LT},
	{"{", LBRACE},
	{"}", RBRACE},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACK},
	{"]", RBRACK},
	{";", SEMI},
	{",", COMMA},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{".", DOT},
}

type Lexer struct {
	src    string
	i      int
	line   int
	col    int
	idents *ident.Table
}

// New returns a lexer over src that interns identifiers into idents.
func New(idents *ident.Table, src string) *Lexer {
	return &Lexer{src: src, idents: idents}
}

func (l *Lexer) peek(n int) byte {
	if l.i+n >= len(l.src) {
		return 0
	}
	return l.src[l.i+n]
}

func (l *Lexer) read() {
	if l.i >= len(l.src) {
		return
	}
	if l.src[l.i] == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	l.i++
}

func (l *Lexer) atEOF() bool { return l.i >= len(l.src) }

func (l *Lexer) skipSpaceAndComments() {
	for !l.atEOF() {
		switch ch := l.peek(0); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.read()
		case ch == '/' && l.peek(1) == '/':
			for !l.atEOF() && l.peek(0) != '\n' {
				l.read()
			}
		case ch == '/' && l.peek(1) == '*':
			l.read()
			l.read()
			for !l.atEOF() {
				if l.peek(0) == '*' && l.peek(1) == '/' {
					l.read()
					l.read()
					break
				}
				l.read()
			}
		default:
			return
		}
	}
}

func (l *Lexer) finish(typ TokenType, start source.Span) Token {
	start.End = l.i
	return Token{Type: typ, Lex: l.src[start.Start:l.i], Span: start}
}

// Next returns the next token, or an EOF token once the input is exhausted.
// An unrecognised character is a fatal error.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()
	start := source.Span{Start: l.i, End: l.i, Line: l.line, Col: l.col}
	if l.atEOF() {
		return Token{Type: EOF, Span: start}, nil
	}

	ch := l.peek(0)
	switch {
	case isDigit(ch):
		for isDigit(l.peek(0)) {
			l.read()
		}
		return l.finish(INT, start), nil
	case isLetter(ch):
		for isLetter(l.peek(0)) || isDigit(l.peek(0)) {
			l.read()
		}
		tok := l.finish(IDENT, start)
		if kw, ok := keywords[tok.Lex]; ok {
			tok.Type = kw
			return tok, nil
		}
		tok.Ident = l.idents.Intern(tok.Lex)
		return tok, nil
	}

	rest := l.src[l.i:]
	for _, p := range punctuators {
		if len(rest) >= len(p.lex) && rest[:len(p.lex)] == p.lex {
			for i := 0; i < len(p.lex); i++ {
				l.read()
			}
			return l.finish(p.typ, start), nil
		}
	}

	start.End = start.Start + 1
	return Token{}, diag.Fatalf(start, "unexpected character %q", rune(ch))
}

func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool { return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
