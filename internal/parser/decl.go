package parser

import (
	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/lexer"
)

var basicTypes = map[lexer.TokenType]ast.BasicType{
	lexer.KW_CHAR:  ast.BTChar,
	lexer.KW_SHORT: ast.BTShort,
	lexer.KW_INT:   ast.BTInt,
	lexer.KW_LONG:  ast.BTLong,
}

// <declaration> ::= <type-specifier> [<init-declarator> {"," <init-declarator>}] ";"
// <init-declarator> ::= <declarator> ["=" <assignment>]
func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	start := p.tok.Span
	ts, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	d := &ast.Declaration{Type: ts}
	if p.tok.Type != lexer.SEMI {
		for {
			decl, err := p.parseDeclarator()
			if err != nil {
				return nil, err
			}
			item := &ast.InitDeclarator{Declarator: decl}
			if p.tok.Type == lexer.ASSIGN {
				p.next()
				if item.Init, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
			d.Declarators = append(d.Declarators, item)
			if p.tok.Type != lexer.COMMA {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(lexer.SEMI, msgSemicolon); err != nil {
		return nil, err
	}
	d.Span = p.span(start)
	return d, nil
}

// <type-specifier> ::= ["const"] (<basic-type> | <record-specifier>)
func (p *Parser) parseTypeSpec() (ast.TypeSpec, error) {
	start := p.tok.Span
	isConst := false
	if p.tok.Type == lexer.KW_CONST {
		isConst = true
		p.next()
	}
	if bt, ok := basicTypes[p.tok.Type]; ok {
		p.next()
		return &ast.BasicTypeSpec{Kind: bt, Const: isConst, Span: p.span(start)}, nil
	}
	if p.tok.Type != lexer.KW_STRUCT && p.tok.Type != lexer.KW_UNION {
		return nil, p.fail(msgTypeSpec)
	}
	rec, err := p.parseRecordSpec()
	if err != nil {
		return nil, err
	}
	rec.Const = isConst
	rec.Span = p.span(start)
	return rec, nil
}

// <record-specifier> ::= ("struct" | "union") [<identifier>] ["{" <struct-declaration>* "}"]
//
// At least one of the tag and the body must be present.
func (p *Parser) parseRecordSpec() (*ast.RecordTypeSpec, error) {
	rec := &ast.RecordTypeSpec{Union: p.tok.Type == lexer.KW_UNION}
	p.next()
	if p.tok.Type == lexer.IDENT {
		rec.Tag = p.tok.Ident
		p.next()
	}
	if p.tok.Type != lexer.LBRACE {
		if rec.Tag == nil {
			return nil, p.fail(msgOpenBrace)
		}
		return rec, nil
	}
	p.next()
	rec.Defined = true
	for p.tok.Type != lexer.RBRACE {
		if p.tok.Type == lexer.EOF {
			return nil, p.fail(msgCloseBrace)
		}
		m, err := p.parseStructDeclaration()
		if err != nil {
			return nil, err
		}
		rec.Members = append(rec.Members, m)
	}
	p.next()
	return rec, nil
}

// <struct-declaration> ::= <type-specifier> [<declarator> {"," <declarator>}] ";"
func (p *Parser) parseStructDeclaration() (*ast.StructDeclaration, error) {
	start := p.tok.Span
	if !p.startsTypeSpec() {
		return nil, p.fail(msgTypeSpec)
	}
	ts, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	d := &ast.StructDeclaration{Type: ts}
	if p.tok.Type != lexer.SEMI {
		for {
			decl, err := p.parseDeclarator()
			if err != nil {
				return nil, err
			}
			d.Declarators = append(d.Declarators, decl)
			if p.tok.Type != lexer.COMMA {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(lexer.SEMI, msgSemicolon); err != nil {
		return nil, err
	}
	d.Span = p.span(start)
	return d, nil
}

// <declarator> ::= {"*" ["const"]} <identifier>
//
// The leftmost star is the outermost PointerDeclarator.
func (p *Parser) parseDeclarator() (ast.Declarator, error) {
	if p.tok.Type == lexer.STAR {
		start := p.tok.Span
		p.next()
		isConst := false
		if p.tok.Type == lexer.KW_CONST {
			isConst = true
			p.next()
		}
		inner, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		return &ast.PointerDeclarator{Inner: inner, Const: isConst, Span: p.span(start)}, nil
	}
	tok, err := p.expect(lexer.IDENT, msgIdentifier)
	if err != nil {
		return nil, err
	}
	return &ast.NameDeclarator{Name: tok.Ident, Span: tok.Span}, nil
}
