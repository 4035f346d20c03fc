package ast

import (
	"io"
	"sort"
	"strings"

	"github.com/tinyrange/subc/internal/pprint"
)

// Fprint writes a compact, single-line-per-function rendering of n, used for
// diagnostics and snapshot tests. n may be a *Program, *Function, *Block,
// *Declaration, Stmt, Expr, TypeSpec or Declarator. Functions are printed in
// name order.
func Fprint(w io.Writer, n any) error {
	p := pprint.New(w)
	printNode(p, n)
	return p.Err()
}

// String returns the Fprint rendering of n.
func String(n any) string {
	var b strings.Builder
	Fprint(&b, n)
	return b.String()
}

func printNode(p *pprint.Printer, n any) {
	switch x := n.(type) {
	case *Program:
		printProgram(p, x)
	case *Function:
		printFunction(p, x)
	case *Block:
		printBlock(p, x)
	case *Declaration:
		printDeclaration(p, x)
	case Stmt:
		printStmt(p, x)
	case Expr:
		printExpr(p, x)
	case TypeSpec:
		printTypeSpec(p, x)
	case Declarator:
		printDeclarator(p, x)
	}
}

func printProgram(p *pprint.Printer, prog *Program) {
	funcs := make([]*Function, 0, len(prog.Functions))
	for _, f := range prog.Functions {
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name.String() < funcs[j].Name.String() })
	for _, f := range funcs {
		printFunction(p, f)
	}
}

func printFunction(p *pprint.Printer, f *Function) {
	p.Printf("Function(name=%s, ", f.Name)
	printBlock(p, f.Body)
	p.Printf(")")
	p.Newline()
}

func printBlock(p *pprint.Printer, b *Block) {
	p.Printf("Block(")
	for i, item := range b.Items {
		if i > 0 {
			p.Printf(", ")
		}
		switch x := item.(type) {
		case *Declaration:
			printDeclaration(p, x)
		case Stmt:
			printStmt(p, x)
		}
	}
	p.Printf(")")
}

func printDeclaration(p *pprint.Printer, d *Declaration) {
	p.Printf("Decl(")
	printTypeSpec(p, d.Type)
	for _, id := range d.Declarators {
		p.Printf(", ")
		printDeclarator(p, id.Declarator)
		if id.Init != nil {
			p.Printf(" = ")
			printExpr(p, id.Init)
		}
	}
	p.Printf(")")
}

func printStructDeclaration(p *pprint.Printer, d *StructDeclaration) {
	p.Printf("Decl(")
	printTypeSpec(p, d.Type)
	for _, decl := range d.Declarators {
		p.Printf(", ")
		printDeclarator(p, decl)
	}
	p.Printf(")")
}

func printTypeSpec(p *pprint.Printer, t TypeSpec) {
	switch x := t.(type) {
	case *BasicTypeSpec:
		if x.Const {
			p.Printf("const ")
		}
		p.Printf("%s", x.Kind)
	case *RecordTypeSpec:
		if x.Const {
			p.Printf("const ")
		}
		if x.Union {
			p.Printf("union")
		} else {
			p.Printf("struct")
		}
		if x.Tag != nil {
			p.Printf(" %s", x.Tag)
		}
		if !x.Defined {
			return
		}
		p.Printf(" {")
		for i, m := range x.Members {
			if i > 0 {
				p.Printf(", ")
			}
			printStructDeclaration(p, m)
		}
		p.Printf("}")
	}
}

func printDeclarator(p *pprint.Printer, d Declarator) {
	switch x := d.(type) {
	case *NameDeclarator:
		p.Printf("%s", x.Name)
	case *PointerDeclarator:
		p.Printf("*")
		if x.Const {
			p.Printf("const ")
		}
		printDeclarator(p, x.Inner)
	}
}

func printStmt(p *pprint.Printer, s Stmt) {
	switch x := s.(type) {
	case *ReturnStmt:
		p.Printf("Return(")
		printExpr(p, x.X)
		p.Printf(")")
	case *IfStmt:
		p.Printf("If(")
		printExpr(p, x.Cond)
		p.Printf(", ")
		printStmt(p, x.Then)
		if x.Else != nil {
			p.Printf(", ")
			printStmt(p, x.Else)
		}
		p.Printf(")")
	case *BlockStmt:
		printBlock(p, x.Block)
	case *ExprStmt:
		p.Printf("ExprStmt(")
		printExpr(p, x.X)
		p.Printf(")")
	}
}

func printExpr(p *pprint.Printer, e Expr) {
	switch x := e.(type) {
	case *IntLit:
		p.Printf("%s", x.Value)
	case *Var:
		p.Printf("Var(%s)", x.Name)
	case *BinaryExpr:
		p.Printf("Expr(")
		printExpr(p, x.Left)
		p.Printf(" %s ", x.Op)
		printExpr(p, x.Right)
		p.Printf(")")
	case *UnaryExpr:
		p.Printf("Expr(%s(", x.Op)
		printExpr(p, x.X)
		p.Printf("))")
	case *AssignExpr:
		p.Printf("Assign(")
		printExpr(p, x.Left)
		p.Printf(" %s ", x.Op)
		printExpr(p, x.Right)
		p.Printf(")")
	case *MemberExpr:
		p.Printf("Member(")
		printExpr(p, x.X)
		if x.Deref {
			p.Printf("->")
		} else {
			p.Printf(".")
		}
		p.Printf("%s)", x.Member)
	}
}
