package parser

import (
	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/lexer"
	"github.com/tinyrange/subc/internal/source"
)

// Diagnostic messages. Each parse error carries one of these verbatim.
const (
	msgPrimaryExpr = "expected primary expression"
	msgSemicolon   = "expected semicolon"
	msgIdentifier  = "expected identifier"
	msgTypeSpec    = "expected type specifier"
	msgOpenParen   = "expected opening parenthesis"
	msgCloseParen  = "expected closing parenthesis"
	msgOpenBrace   = "expected opening brace"
	msgCloseBrace  = "expected closing brace"
)

type Parser struct {
	lx     *lexer.Lexer
	tok    lexer.Token
	prev   lexer.Token
	lexErr error
}

// New returns a parser over src, interning identifiers into idents.
func New(idents *ident.Table, src string) *Parser {
	p := &Parser{lx: lexer.New(idents, src)}
	p.next()
	return p
}

// ParseFile parses a translation unit. filename is informational only.
func ParseFile(filename, src string) (*ast.Program, error) {
	return ParseProgram(ident.NewTable(), src)
}

// ParseProgram parses a translation unit with a caller supplied interner.
func ParseProgram(idents *ident.Table, src string) (*ast.Program, error) {
	p := New(idents, src)
	prog := &ast.Program{Functions: map[*ident.Ident]*ast.Function{}, Idents: idents}
	for p.tok.Type != lexer.EOF {
		f, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions[f.Name] = f
	}
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return prog, nil
}

// ParseExpr parses src as a single expression.
func ParseExpr(idents *ident.Table, src string) (ast.Expr, error) {
	p := New(idents, src)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.EOF {
		return nil, p.fail(msgSemicolon)
	}
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return e, nil
}

// next refills the lookahead. A lexical error parks the parser at EOF and is
// reported by the next failure, or at the end of the parse.
func (p *Parser) next() {
	p.prev = p.tok
	if p.lexErr != nil {
		return
	}
	tok, err := p.lx.Next()
	if err != nil {
		p.lexErr = err
		d, _ := diag.As(err)
		tok = lexer.Token{Type: lexer.EOF, Span: d.Span}
	}
	p.tok = tok
}

func (p *Parser) fail(msg string) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return diag.Errorf(p.tok.Span, "%s", msg)
}

func (p *Parser) expect(tt lexer.TokenType, msg string) (lexer.Token, error) {
	if p.tok.Type != tt {
		return lexer.Token{}, p.fail(msg)
	}
	t := p.tok
	p.next()
	return t, nil
}

// span returns the range from start to the end of the last consumed token.
func (p *Parser) span(start source.Span) source.Span { return start.To(p.prev.Span) }

// <function> ::= <type-specifier> <identifier> "(" ")" <block>
func (p *Parser) parseFunction() (*ast.Function, error) {
	start := p.tok.Span
	if !p.startsTypeSpec() {
		return nil, p.fail(msgTypeSpec)
	}
	result, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, msgIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, msgOpenParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, msgCloseParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: nameTok.Ident, Result: result, Body: body, Span: p.span(start)}, nil
}

// <block> ::= "{" <block-item>* "}"
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.LBRACE, msgOpenBrace)
	if err != nil {
		return nil, err
	}
	var items []ast.BlockItem
	for p.tok.Type != lexer.RBRACE {
		if p.tok.Type == lexer.EOF {
			return nil, p.fail(msgCloseBrace)
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.next()
	return &ast.Block{Items: items, Span: p.span(open.Span)}, nil
}

// A block item is a declaration exactly when it begins with a type specifier.
func (p *Parser) parseBlockItem() (ast.BlockItem, error) {
	if p.startsTypeSpec() {
		return p.parseDeclaration()
	}
	return p.parseStmt()
}

func (p *Parser) startsTypeSpec() bool {
	switch p.tok.Type {
	case lexer.KW_CHAR, lexer.KW_SHORT, lexer.KW_INT, lexer.KW_LONG,
		lexer.KW_STRUCT, lexer.KW_UNION, lexer.KW_CONST:
		return true
	default:
		return false
	}
}
