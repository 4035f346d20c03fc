// Package llvm lowers programs to LLVM IR text. It follows the same word
// model as the x86_64 backend: every local is an i64 stack slot and every
// expression yields an i64.
package llvm

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/logger"
)

var i64Ptr = types.NewPointer(types.I64)

// EmitModule returns the textual LLVM IR for prog. Functions appear in name
// order.
func EmitModule(prog *ast.Program) (string, error) {
	m, err := Lower(prog)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Lower translates prog into an llir module.
func Lower(prog *ast.Program) (*ir.Module, error) {
	funcs := make([]*ast.Function, 0, len(prog.Functions))
	for _, f := range prog.Functions {
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name.String() < funcs[j].Name.String() })

	m := ir.NewModule()
	for _, f := range funcs {
		if err := lowerFunc(m, f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// generator holds the state for one function. cur is the block new
// instructions go into.
type generator struct {
	fn     *ir.Func
	entry  *ir.Block
	cur    *ir.Block
	slots  map[*ident.Ident]*ir.InstAlloca
	blocks int
}

func lowerFunc(m *ir.Module, f *ast.Function) error {
	fn := m.NewFunc(f.Name.String(), types.I64)
	entry := fn.NewBlock("entry")
	g := &generator{fn: fn, entry: entry, cur: entry, slots: map[*ident.Ident]*ir.InstAlloca{}}
	if err := g.items(f.Body.Items); err != nil {
		return err
	}
	if g.cur.Term == nil {
		g.cur.NewRet(constant.NewInt(types.I64, 0))
	}
	logger.Debug("lowered function", "name", f.Name.String(), "blocks", len(fn.Blocks))
	return nil
}

func (g *generator) newBlock(kind string, n int) *ir.Block {
	return g.fn.NewBlock(fmt.Sprintf("%s.%d", kind, n))
}

func (g *generator) items(items []ast.BlockItem) error {
	for _, item := range items {
		var err error
		switch x := item.(type) {
		case *ast.Declaration:
			err = g.declaration(x)
		case ast.Stmt:
			err = g.stmt(x)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) declaration(d *ast.Declaration) error {
	for _, id := range d.Declarators {
		var init value.Value = constant.NewInt(types.I64, 0)
		if id.Init != nil {
			v, err := g.expr(id.Init)
			if err != nil {
				return err
			}
			init = v
		}
		name := ast.DeclaratorName(id.Declarator).Name
		slot := g.entry.NewAlloca(types.I64)
		slot.SetName(fmt.Sprintf("%s.addr.%d", name, len(g.entry.Insts)))
		g.cur.NewStore(init, slot)
		g.slots[name] = slot
	}
	return nil
}

func (g *generator) stmt(s ast.Stmt) error {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		v, err := g.expr(x.X)
		if err != nil {
			return err
		}
		g.cur.NewRet(v)
		g.blocks++
		g.cur = g.newBlock("after.ret", g.blocks)
	case *ast.IfStmt:
		return g.ifStmt(x)
	case *ast.BlockStmt:
		saved := make(map[*ident.Ident]*ir.InstAlloca, len(g.slots))
		for k, v := range g.slots {
			saved[k] = v
		}
		err := g.items(x.Block.Items)
		g.slots = saved
		return err
	case *ast.ExprStmt:
		_, err := g.expr(x.X)
		return err
	}
	return nil
}

func (g *generator) ifStmt(x *ast.IfStmt) error {
	cond, err := g.expr(x.Cond)
	if err != nil {
		return err
	}
	g.blocks++
	n := g.blocks
	then, end := g.newBlock("if.then", n), g.newBlock("if.end", n)
	els := end
	if x.Else != nil {
		els = g.newBlock("if.else", n)
	}
	g.cur.NewCondBr(g.cur.NewICmp(enum.IPredNE, cond, constant.NewInt(types.I64, 0)), then, els)

	g.cur = then
	if err := g.stmt(x.Then); err != nil {
		return err
	}
	g.cur.NewBr(end)
	if x.Else != nil {
		g.cur = els
		if err := g.stmt(x.Else); err != nil {
			return err
		}
		g.cur.NewBr(end)
	}
	g.cur = end
	return nil
}

var (
	arith = map[ast.BinOp]func(b *ir.Block, x, y value.Value) value.Value{
		ast.OpAdd: func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) },
		ast.OpSub: func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) },
		ast.OpMul: func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) },
		ast.OpDiv: func(b *ir.Block, x, y value.Value) value.Value { return b.NewSDiv(x, y) },
	}
	preds = map[ast.BinOp]enum.IPred{
		ast.OpEq: enum.IPredEQ,
		ast.OpNe: enum.IPredNE,
		ast.OpLt: enum.IPredSLT,
		ast.OpLe: enum.IPredSLE,
		ast.OpGt: enum.IPredSGT,
		ast.OpGe: enum.IPredSGE,
	}
)

func (g *generator) binop(op ast.BinOp, x, y value.Value) value.Value {
	if f, ok := arith[op]; ok {
		return f(g.cur, x, y)
	}
	return g.cur.NewZExt(g.cur.NewICmp(preds[op], x, y), types.I64)
}

func (g *generator) slot(v *ast.Var) (*ir.InstAlloca, error) {
	s, ok := g.slots[v.Name]
	if !ok {
		return nil, diag.Fatalf(v.Span, "undeclared identifier %s", v.Name)
	}
	return s, nil
}

func (g *generator) expr(e ast.Expr) (value.Value, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		v, err := strconv.ParseInt(x.Value, 10, 64)
		if err != nil {
			return nil, diag.Fatalf(x.Span, "integer constant %s is too large", x.Value)
		}
		return constant.NewInt(types.I64, v), nil
	case *ast.Var:
		s, err := g.slot(x)
		if err != nil {
			return nil, err
		}
		return g.cur.NewLoad(types.I64, s), nil
	case *ast.BinaryExpr:
		// Right first, matching the x86_64 backend.
		r, err := g.expr(x.Right)
		if err != nil {
			return nil, err
		}
		l, err := g.expr(x.Left)
		if err != nil {
			return nil, err
		}
		return g.binop(x.Op, l, r), nil
	case *ast.UnaryExpr:
		return g.unary(x)
	case *ast.AssignExpr:
		return g.assign(x)
	case *ast.MemberExpr:
		return nil, diag.Fatalf(x.Span, "member access is not supported by the llvm backend")
	}
	return nil, diag.Fatalf(e.Pos(), "unknown expression")
}

func (g *generator) unary(x *ast.UnaryExpr) (value.Value, error) {
	if x.Op == ast.OpNeg {
		v, err := g.expr(x.X)
		if err != nil {
			return nil, err
		}
		return g.cur.NewSub(constant.NewInt(types.I64, 0), v), nil
	}
	v, ok := x.X.(*ast.Var)
	if !ok {
		op := "*"
		if x.Op == ast.OpAddr {
			op = "&"
		}
		return nil, diag.Fatalf(x.Span, "operand of %s must be a variable", op)
	}
	s, err := g.slot(v)
	if err != nil {
		return nil, err
	}
	if x.Op == ast.OpAddr {
		return g.cur.NewPtrToInt(s, types.I64), nil
	}
	addr := g.cur.NewIntToPtr(g.cur.NewLoad(types.I64, s), i64Ptr)
	return g.cur.NewLoad(types.I64, addr), nil
}

func (g *generator) assign(x *ast.AssignExpr) (value.Value, error) {
	v, ok := x.Left.(*ast.Var)
	if !ok {
		return nil, diag.Fatalf(x.Left.Pos(), "left side of assignment must be a variable")
	}
	s, err := g.slot(v)
	if err != nil {
		return nil, err
	}
	r, err := g.expr(x.Right)
	if err != nil {
		return nil, err
	}
	if op, ok := x.Op.BinOp(); ok {
		r = g.binop(op, g.cur.NewLoad(types.I64, s), r)
	}
	g.cur.NewStore(r, s)
	return r, nil
}
