package sema

import (
	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/types"
)

// expr types e and records the result in Info.Types.
func (c *Checker) expr(e ast.Expr, env Env) (*types.Type, error) {
	t, err := c.typeOf(e, env)
	if err != nil {
		return nil, err
	}
	c.info.Types[e] = t
	return t, nil
}

func (c *Checker) typeOf(e ast.Expr, env Env) (*types.Type, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		return types.IntT(), nil
	case *ast.Var:
		t, ok := c.names.Lookup(env.Names, x.Name)
		if !ok {
			return nil, diag.Fatalf(x.Span, "undeclared identifier %s", x.Name)
		}
		return t, nil
	case *ast.BinaryExpr:
		l, err := c.expr(x.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := c.expr(x.Right, env)
		if err != nil {
			return nil, err
		}
		if l.IsRecord() || r.IsRecord() {
			return nil, diag.Fatalf(x.Span, "invalid operands to %s (%s and %s)", x.Op, l, r)
		}
		return binaryType(x.Op, l, r), nil
	case *ast.UnaryExpr:
		t, err := c.expr(x.X, env)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case ast.OpAddr:
			return types.PointerTo(t), nil
		case ast.OpDeref:
			if !t.IsPointer() {
				return nil, diag.Fatalf(x.Span, "indirection requires pointer operand, have %s", t)
			}
			return t.Elem, nil
		default:
			return promote(t), nil
		}
	case *ast.AssignExpr:
		l, err := c.expr(x.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := c.expr(x.Right, env)
		if err != nil {
			return nil, err
		}
		c.checkAssignable(l, r, x.Right)
		return l, nil
	case *ast.MemberExpr:
		return c.member(x, env)
	}
	return nil, diag.Fatalf(e.Pos(), "unknown expression")
}

func (c *Checker) member(x *ast.MemberExpr, env Env) (*types.Type, error) {
	base, err := c.expr(x.X, env)
	if err != nil {
		return nil, err
	}
	if x.Deref {
		if !base.IsPointer() {
			return nil, diag.Fatalf(x.Span, "member reference type %s is not a pointer", base)
		}
		base = base.Elem
	}
	switch {
	case base.K == types.Incomplete:
		return nil, diag.Fatalf(x.Span, "member access into incomplete type %s", base)
	case !base.IsRecord():
		return nil, diag.Fatalf(x.Span, "member reference base type %s is not a structure or union", base)
	}
	m, ok := base.Lookup(x.Member)
	if !ok {
		return nil, diag.Fatalf(x.Span, "no member named %s in %s", x.Member, base)
	}
	return m.Type, nil
}

// promote applies the integer promotions: anything narrower than int
// becomes int.
func promote(t *types.Type) *types.Type {
	if t.IsInteger() && t.Basic < types.Int {
		return types.IntT()
	}
	return t
}

func binaryType(op ast.BinOp, l, r *types.Type) *types.Type {
	if op.IsComparison() {
		return types.IntT()
	}
	switch {
	case l.IsPointer() && r.IsPointer():
		if op == ast.OpSub {
			return types.LongT()
		}
		return l
	case l.IsPointer():
		return l
	case r.IsPointer() && op == ast.OpAdd:
		return r
	}
	l, r = promote(l), promote(r)
	if l.IsInteger() && r.IsInteger() && r.Basic > l.Basic {
		return r
	}
	return l
}
