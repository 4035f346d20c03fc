package parser

import (
	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/lexer"
)

// <statement> ::= "return" <expr> ";"
//               | "if" "(" <expr> ")" <statement> ["else" <statement>]
//               | <block>
//               | <expr> ";"
func (p *Parser) parseStmt() (ast.Stmt, error) {
	start := p.tok.Span
	switch p.tok.Type {
	case lexer.KW_RETURN:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI, msgSemicolon); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{X: e, Span: p.span(start)}, nil
	case lexer.KW_IF:
		p.next()
		if _, err := p.expect(lexer.LPAREN, msgOpenParen); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, msgCloseParen); err != nil {
			return nil, err
		}
		then, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		s := &ast.IfStmt{Cond: cond, Then: then}
		if p.tok.Type == lexer.KW_ELSE {
			p.next()
			if s.Else, err = p.parseStmt(); err != nil {
				return nil, err
			}
		}
		s.Span = p.span(start)
		return s, nil
	case lexer.LBRACE:
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Block: b}, nil
	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMI, msgSemicolon); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: e}, nil
	}
}
