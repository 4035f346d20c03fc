package x86_64

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/logger"
)

// WordSize is the size of every stack slot.
const WordSize = 8

// EmitProgram emits AT&T syntax x86_64 assembly for a stack machine: every
// expression leaves its value in %rax, and every local lives in one word
// below %rbp.
func EmitProgram(prog *ast.Program) (string, error) {
	var b strings.Builder
	b.WriteString(".text\n")
	for _, f := range prog.Functions {
		if err := emitFunc(&b, f); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Generate writes the assembly for prog to w. Nothing is written if code
// generation fails.
func Generate(w io.Writer, prog *ast.Program) error {
	s, err := EmitProgram(prog)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// frame is the per-function code generation state. Slots map each visible
// local to its offset below %rbp; stack is the offset the next slot gets.
type frame struct {
	b      *strings.Builder
	name   string
	slots  map[*ident.Ident]int
	stack  int
	labels int
}

func emitFunc(b *strings.Builder, f *ast.Function) error {
	fr := &frame{b: b, name: f.Name.String(), slots: map[*ident.Ident]int{}, stack: WordSize}
	fmt.Fprintf(b, ".globl %s\n%s:\n", fr.name, fr.name)
	// Prologue
	b.WriteString("  push %rbp\n")
	b.WriteString("  mov %rsp, %rbp\n")

	for _, item := range f.Body.Items {
		if err := fr.item(item); err != nil {
			return err
		}
	}

	// Falling off the end returns 0.
	b.WriteString("  mov $0, %rax\n")
	fr.epilogue()
	logger.Debug("emitted function", "name", fr.name, "labels", fr.labels)
	return nil
}

func (fr *frame) emit(format string, args ...any) {
	fr.b.WriteString("  ")
	fmt.Fprintf(fr.b, format, args...)
	fr.b.WriteString("\n")
}

func (fr *frame) label(l string) { fmt.Fprintf(fr.b, "%s:\n", l) }

// newLabel returns a label that is unique within the program.
func (fr *frame) newLabel() string {
	l := fmt.Sprintf("%s.if_%d", fr.name, fr.labels)
	fr.labels++
	return l
}

func (fr *frame) epilogue() {
	fr.emit("mov %%rbp, %%rsp")
	fr.emit("pop %%rbp")
	fr.emit("ret")
}

func (fr *frame) slot(v *ast.Var) (int, error) {
	off, ok := fr.slots[v.Name]
	if !ok {
		return 0, diag.Fatalf(v.Span, "undeclared identifier %s", v.Name)
	}
	return off, nil
}

func (fr *frame) item(item ast.BlockItem) error {
	switch x := item.(type) {
	case *ast.Declaration:
		return fr.declaration(x)
	case ast.Stmt:
		return fr.stmt(x)
	}
	return nil
}

// declaration pushes one slot per declarator. The initializer is evaluated
// before the name is bound.
func (fr *frame) declaration(d *ast.Declaration) error {
	for _, id := range d.Declarators {
		if id.Init != nil {
			if err := fr.expr(id.Init); err != nil {
				return err
			}
			fr.emit("push %%rax")
		} else {
			fr.emit("push $0")
		}
		fr.slots[ast.DeclaratorName(id.Declarator).Name] = -fr.stack
		fr.stack += WordSize
	}
	return nil
}

// block runs items in a nested scope. Slots pushed inside are released on
// exit so the stack depth matches on every path through an if.
func (fr *frame) block(b *ast.Block) error {
	saved := make(map[*ident.Ident]int, len(fr.slots))
	for k, v := range fr.slots {
		saved[k] = v
	}
	depth := fr.stack
	for _, item := range b.Items {
		if err := fr.item(item); err != nil {
			return err
		}
	}
	if n := fr.stack - depth; n > 0 {
		fr.emit("add $%d, %%rsp", n)
	}
	fr.slots, fr.stack = saved, depth
	return nil
}

func (fr *frame) stmt(s ast.Stmt) error {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		if err := fr.expr(x.X); err != nil {
			return err
		}
		fr.epilogue()
	case *ast.IfStmt:
		if err := fr.expr(x.Cond); err != nil {
			return err
		}
		fr.emit("cmp $0, %%rax")
		if x.Else == nil {
			end := fr.newLabel()
			fr.emit("je %s", end)
			if err := fr.stmt(x.Then); err != nil {
				return err
			}
			fr.label(end)
			return nil
		}
		els, end := fr.newLabel(), fr.newLabel()
		fr.emit("je %s", els)
		if err := fr.stmt(x.Then); err != nil {
			return err
		}
		fr.emit("jmp %s", end)
		fr.label(els)
		if err := fr.stmt(x.Else); err != nil {
			return err
		}
		fr.label(end)
	case *ast.BlockStmt:
		return fr.block(x.Block)
	case *ast.ExprStmt:
		return fr.expr(x.X)
	}
	return nil
}

var (
	arith = map[ast.BinOp]string{
		ast.OpAdd: "add",
		ast.OpSub: "sub",
		ast.OpMul: "imul",
	}
	setcc = map[ast.BinOp]string{
		ast.OpEq: "e",
		ast.OpNe: "ne",
		ast.OpLt: "l",
		ast.OpLe: "le",
		ast.OpGt: "g",
		ast.OpGe: "ge",
	}
)

// binop combines %rax (left) and %rcx (right) into %rax.
func (fr *frame) binop(op ast.BinOp) {
	if ins, ok := arith[op]; ok {
		fr.emit("%s %%rcx, %%rax", ins)
		return
	}
	if op == ast.OpDiv {
		fr.emit("cqo")
		fr.emit("idiv %%rcx")
		return
	}
	fr.emit("cmp %%rcx, %%rax")
	fr.emit("set%s %%al", setcc[op])
	fr.emit("movzx %%al, %%rax")
}

func (fr *frame) expr(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.IntLit:
		v, err := strconv.ParseInt(x.Value, 10, 64)
		if err != nil {
			return diag.Fatalf(x.Span, "integer constant %s is too large", x.Value)
		}
		fr.emit("mov $%d, %%rax", v)
	case *ast.Var:
		off, err := fr.slot(x)
		if err != nil {
			return err
		}
		fr.emit("mov %d(%%rbp), %%rax", off)
	case *ast.BinaryExpr:
		if err := fr.expr(x.Right); err != nil {
			return err
		}
		fr.emit("push %%rax")
		if err := fr.expr(x.Left); err != nil {
			return err
		}
		fr.emit("pop %%rcx")
		fr.binop(x.Op)
	case *ast.UnaryExpr:
		return fr.unary(x)
	case *ast.AssignExpr:
		return fr.assign(x)
	case *ast.MemberExpr:
		return diag.Fatalf(x.Span, "member access is not supported by the x86_64 backend")
	default:
		return diag.Fatalf(e.Pos(), "unknown expression")
	}
	return nil
}

func (fr *frame) unary(x *ast.UnaryExpr) error {
	if x.Op == ast.OpNeg {
		if err := fr.expr(x.X); err != nil {
			return err
		}
		fr.emit("neg %%rax")
		return nil
	}
	v, ok := x.X.(*ast.Var)
	if !ok {
		return diag.Fatalf(x.Span, "operand of %s must be a variable", opName(x.Op))
	}
	off, err := fr.slot(v)
	if err != nil {
		return err
	}
	if x.Op == ast.OpAddr {
		fr.emit("lea %d(%%rbp), %%rax", off)
		return nil
	}
	fr.emit("mov %d(%%rbp), %%rax", off)
	fr.emit("mov (%%rax), %%rax")
	return nil
}

func opName(op ast.UnOp) string {
	if op == ast.OpAddr {
		return "&"
	}
	return "*"
}

func (fr *frame) assign(x *ast.AssignExpr) error {
	v, ok := x.Left.(*ast.Var)
	if !ok {
		return diag.Fatalf(x.Left.Pos(), "left side of assignment must be a variable")
	}
	off, err := fr.slot(v)
	if err != nil {
		return err
	}
	if err := fr.expr(x.Right); err != nil {
		return err
	}
	if op, ok := x.Op.BinOp(); ok {
		fr.emit("mov %%rax, %%rcx")
		fr.emit("mov %d(%%rbp), %%rax", off)
		fr.binop(op)
	}
	fr.emit("mov %%rax, %d(%%rbp)", off)
	return nil
}
