package lexer

import (
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/source"
)

type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Identifiers + literals
	IDENT
	INT

	// Keywords
	keywordBegin
	KW_CHAR
	KW_SHORT
	KW_INT
	KW_LONG
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_STRUCT
	KW_UNION
	KW_CONST
	keywordEnd

	// Symbols
	punctBegin
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	LBRACK // [
	RBRACK // ]
	SEMI   // ;
	COMMA  // ,
	DOT    // .
	ARROW  // ->
	AMP    // &

	// Arithmetic
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Assignment
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	STAR_ASSIGN  // *=
	SLASH_ASSIGN // /=

	// Comparison
	EQEQ // ==
	NEQ  // !=
	LT   // <
	LE   // <=
	GT   // >
	GE   // >=
	punctEnd
)

var tokenNames = map[TokenType]string{
	EOF:          "EOF",
	IDENT:        "IDENT",
	INT:          "INT",
	KW_CHAR:      "char",
	KW_SHORT:     "short",
	KW_INT:       "int",
	KW_LONG:      "long",
	KW_RETURN:    "return",
	KW_IF:        "if",
	KW_ELSE:      "else",
	KW_STRUCT:    "struct",
	KW_UNION:     "union",
	KW_CONST:     "const",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACE:       "{",
	RBRACE:       "}",
	LBRACK:       "[",
	RBRACK:       "]",
	SEMI:         ";",
	COMMA:        ",",
	DOT:          ".",
	ARROW:        "->",
	AMP:          "&",
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",
	EQEQ:         "==",
	NEQ:          "!=",
	LT:           "<",
	LE:           "<=",
	GT:           ">",
	GE:           ">=",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

func (t TokenType) IsKeyword() bool { return t > keywordBegin && t < keywordEnd }
func (t TokenType) IsPunct() bool   { return t > punctBegin && t < punctEnd }

// Token is one lexeme. Ident is set for IDENT tokens; Lex holds the source
// text for every token except EOF.
type Token struct {
	Type  TokenType
	Lex   string
	Ident *ident.Ident
	Span  source.Span
}

func (t Token) Is(op TokenType) bool { return t.Type == op }
