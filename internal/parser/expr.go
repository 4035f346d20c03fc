package parser

import (
	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/lexer"
)

// Expr grammar, loosest first:
// assignment     = equality [assign-op equality]
// equality       = relational {("==" | "!=") relational}
// relational     = additive {("<" | "<=" | ">" | ">=") additive}
// additive       = multiplicative {("+" | "-") multiplicative}
// multiplicative = unary {("*" | "/") unary}
// unary          = ("-" | "&" | "*") unary | postfix
// postfix        = primary {("." | "->") identifier}
// primary        = INT | IDENT | "(" expr ")"

var (
	equalityOps = map[lexer.TokenType]ast.BinOp{
		lexer.EQEQ: ast.OpEq,
		lexer.NEQ:  ast.OpNe,
	}
	relationalOps = map[lexer.TokenType]ast.BinOp{
		lexer.LT: ast.OpLt,
		lexer.LE: ast.OpLe,
		lexer.GT: ast.OpGt,
		lexer.GE: ast.OpGe,
	}
	additiveOps = map[lexer.TokenType]ast.BinOp{
		lexer.PLUS:  ast.OpAdd,
		lexer.MINUS: ast.OpSub,
	}
	multiplicativeOps = map[lexer.TokenType]ast.BinOp{
		lexer.STAR:  ast.OpMul,
		lexer.SLASH: ast.OpDiv,
	}
	assignOps = map[lexer.TokenType]ast.AssignOp{
		lexer.ASSIGN:       ast.OpAssign,
		lexer.PLUS_ASSIGN:  ast.OpAddAssign,
		lexer.MINUS_ASSIGN: ast.OpSubAssign,
		lexer.STAR_ASSIGN:  ast.OpMulAssign,
		lexer.SLASH_ASSIGN: ast.OpDivAssign,
	}
	unaryOps = map[lexer.TokenType]ast.UnOp{
		lexer.MINUS: ast.OpNeg,
		lexer.AMP:   ast.OpAddr,
		lexer.STAR:  ast.OpDeref,
	}
)

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseAssignment() }

// The right operand is parsed at equality tier, so only a single assignment
// folds: `a = b = c` stops after `a = b`.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	op, ok := assignOps[p.tok.Type]
	if !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{Op: op, Left: left, Right: right, Span: left.Pos().To(right.Pos())}, nil
}

// parseBinary parses a left-associative chain of operand (op operand)*,
// folding each new operator over the tree built so far.
func (p *Parser) parseBinary(operand func() (ast.Expr, error), ops map[lexer.TokenType]ast.BinOp) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.tok.Type]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: left.Pos().To(right.Pos())}
	}
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary(p.parseRelational, equalityOps)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.parseBinary(p.parseAdditive, relationalOps)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinary(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinary(p.parseUnary, multiplicativeOps)
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	op, ok := unaryOps[p.tok.Type]
	if !ok {
		return p.parsePostfix()
	}
	start := p.tok.Span
	p.next()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Op: op, X: x, Span: start.To(x.Pos())}, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == lexer.DOT || p.tok.Type == lexer.ARROW {
		deref := p.tok.Type == lexer.ARROW
		p.next()
		member, err := p.expect(lexer.IDENT, msgIdentifier)
		if err != nil {
			return nil, err
		}
		x = &ast.MemberExpr{X: x, Member: member.Ident, Deref: deref, Span: x.Pos().To(member.Span)}
	}
	return x, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Type {
	case lexer.INT:
		lit := &ast.IntLit{Value: p.tok.Lex, Span: p.tok.Span}
		p.next()
		return lit, nil
	case lexer.IDENT:
		v := &ast.Var{Name: p.tok.Ident, Span: p.tok.Span}
		p.next()
		return v, nil
	case lexer.LPAREN:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, msgCloseParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.fail(msgPrimaryExpr)
	}
}
