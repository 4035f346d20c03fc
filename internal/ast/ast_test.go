package ast

import (
	"strings"
	"testing"

	"github.com/tinyrange/subc/internal/ident"
)

func TestDeclaratorHelpers(t *testing.T) {
	tab := ident.NewTable()
	name := &NameDeclarator{Name: tab.Intern("p")}
	d := &PointerDeclarator{Inner: &PointerDeclarator{Inner: name, Const: true}}

	if got := DeclaratorName(d); got != name {
		t.Errorf("DeclaratorName = %v", got)
	}
	if got := PointerDepth(d); got != 2 {
		t.Errorf("PointerDepth = %d, want 2", got)
	}
	if got := PointerDepth(name); got != 0 {
		t.Errorf("PointerDepth(name) = %d", got)
	}
	if got := String(d); got != "**const p" {
		t.Errorf("String = %q", got)
	}
}

func TestAssignOpBinOp(t *testing.T) {
	tests := []struct {
		op   AssignOp
		want BinOp
		ok   bool
	}{
		{OpAssign, 0, false},
		{OpAddAssign, OpAdd, true},
		{OpSubAssign, OpSub, true},
		{OpMulAssign, OpMul, true},
		{OpDivAssign, OpDiv, true},
	}
	for _, tc := range tests {
		got, ok := tc.op.BinOp()
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("%v.BinOp() = %v, %v", tc.op, got, ok)
		}
	}
	if !OpGe.IsComparison() || OpDiv.IsComparison() {
		t.Error("IsComparison misclassifies")
	}
}

func TestPrintProgram(t *testing.T) {
	tab := ident.NewTable()
	a, b, main, other := tab.Intern("a"), tab.Intern("b"), tab.Intern("main"), tab.Intern("other")
	intT := &BasicTypeSpec{Kind: BTInt}

	body := &Block{Items: []BlockItem{
		&Declaration{Type: intT, Declarators: []*InitDeclarator{
			{Declarator: &NameDeclarator{Name: a}, Init: &IntLit{Value: "1"}},
			{Declarator: &PointerDeclarator{Inner: &NameDeclarator{Name: b}}},
		}},
		&IfStmt{
			Cond: &BinaryExpr{Op: OpLt, Left: &Var{Name: a}, Right: &IntLit{Value: "2"}},
			Then: &ExprStmt{X: &AssignExpr{Op: OpAddAssign, Left: &Var{Name: a}, Right: &UnaryExpr{Op: OpNeg, X: &IntLit{Value: "3"}}}},
			Else: &BlockStmt{Block: &Block{}},
		},
		&ReturnStmt{X: &MemberExpr{X: &Var{Name: b}, Member: a, Deref: true}},
	}}
	prog := &Program{Idents: tab, Functions: map[*ident.Ident]*Function{
		other: {Name: other, Result: intT, Body: &Block{}},
		main:  {Name: main, Result: intT, Body: body},
	}}

	want := strings.Join([]string{
		"Function(name=main, Block(Decl(int, a = 1, *b), " +
			"If(Expr(Var(a) < 2), ExprStmt(Assign(Var(a) += Expr(Neg(3)))), Block()), " +
			"Return(Member(Var(b)->a))))",
		"Function(name=other, Block())",
		"",
	}, "\n")
	if got := String(prog); got != want {
		t.Errorf("String =\n%s\nwant\n%s", got, want)
	}
}

func TestPrintRecordTypeSpec(t *testing.T) {
	tab := ident.NewTable()
	spec := &RecordTypeSpec{
		Tag:     tab.Intern("s"),
		Defined: true,
		Members: []*StructDeclaration{
			{Type: &BasicTypeSpec{Kind: BTChar}, Declarators: []Declarator{&NameDeclarator{Name: tab.Intern("c")}}},
			{Type: &RecordTypeSpec{Union: true, Defined: true, Members: []*StructDeclaration{
				{Type: &BasicTypeSpec{Kind: BTLong, Const: true}, Declarators: []Declarator{&NameDeclarator{Name: tab.Intern("l")}}},
			}}},
		},
	}
	want := "struct s {Decl(char, c), Decl(union {Decl(const long, l)})}"
	if got := String(spec); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if got := String(&RecordTypeSpec{Tag: tab.Intern("s")}); got != "struct s" {
		t.Errorf("tag reference = %q", got)
	}
}
