package ast

import (
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/source"
)

// Program maps each function name to its definition. A later definition
// with the same name replaces the earlier one. Idents is the table the
// handles were interned in.
type Program struct {
	Functions map[*ident.Ident]*Function
	Idents    *ident.Table
}

type Function struct {
	Name   *ident.Ident
	Result TypeSpec
	Body   *Block
	Span   source.Span
}

type Block struct {
	Items []BlockItem
	Span  source.Span
}

// BlockItem is either a *Declaration or a Stmt.
type BlockItem interface{ isBlockItem() }

// Type specifiers

type TypeSpec interface {
	isTypeSpec()
	Pos() source.Span
}

type BasicType int

const (
	BTChar BasicType = iota
	BTShort
	BTInt
	BTLong
)

func (bt BasicType) String() string {
	switch bt {
	case BTChar:
		return "char"
	case BTShort:
		return "short"
	case BTInt:
		return "int"
	case BTLong:
		return "long"
	default:
		return "UNKNOWN_TYPE"
	}
}

type BasicTypeSpec struct {
	Kind  BasicType
	Const bool
	Span  source.Span
}

// RecordTypeSpec is a struct or union specifier. Defined is false for a bare
// tag reference such as `struct point p;`.
type RecordTypeSpec struct {
	Union   bool
	Tag     *ident.Ident
	Members []*StructDeclaration
	Defined bool
	Const   bool
	Span    source.Span
}

func (*BasicTypeSpec) isTypeSpec()  {}
func (*RecordTypeSpec) isTypeSpec() {}

func (t *BasicTypeSpec) Pos() source.Span  { return t.Span }
func (t *RecordTypeSpec) Pos() source.Span { return t.Span }

// Declarators

type Declarator interface {
	isDeclarator()
	Pos() source.Span
}

type NameDeclarator struct {
	Name *ident.Ident
	Span source.Span
}

// PointerDeclarator adds one level of indirection around Inner.
type PointerDeclarator struct {
	Inner Declarator
	Const bool
	Span  source.Span
}

func (*NameDeclarator) isDeclarator()    {}
func (*PointerDeclarator) isDeclarator() {}

func (d *NameDeclarator) Pos() source.Span    { return d.Span }
func (d *PointerDeclarator) Pos() source.Span { return d.Span }

// DeclaratorName returns the identifier at the core of d.
func DeclaratorName(d Declarator) *NameDeclarator {
	for {
		switch x := d.(type) {
		case *NameDeclarator:
			return x
		case *PointerDeclarator:
			d = x.Inner
		default:
			return nil
		}
	}
}

func PointerDepth(d Declarator) int {
	n := 0
	for {
		p, ok := d.(*PointerDeclarator)
		if !ok {
			return n
		}
		n++
		d = p.Inner
	}
}

// Declarations

type InitDeclarator struct {
	Declarator Declarator
	Init       Expr // may be nil
}

type Declaration struct {
	Type        TypeSpec
	Declarators []*InitDeclarator
	Span        source.Span
}

func (*Declaration) isBlockItem() {}

// StructDeclaration is one member declaration inside a struct or union body.
// No declarators means an anonymous member or a nested tag declaration.
type StructDeclaration struct {
	Type        TypeSpec
	Declarators []Declarator
	Span        source.Span
}

// Statements

type Stmt interface {
	BlockItem
	isStmt()
	Pos() source.Span
}

type ReturnStmt struct {
	X    Expr
	Span source.Span
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
	Span source.Span
}

type BlockStmt struct{ Block *Block }

type ExprStmt struct{ X Expr }

func (*ReturnStmt) isStmt() {}
func (*IfStmt) isStmt()     {}
func (*BlockStmt) isStmt()  {}
func (*ExprStmt) isStmt()   {}

func (*ReturnStmt) isBlockItem() {}
func (*IfStmt) isBlockItem()     {}
func (*BlockStmt) isBlockItem()  {}
func (*ExprStmt) isBlockItem()   {}

func (s *ReturnStmt) Pos() source.Span { return s.Span }
func (s *IfStmt) Pos() source.Span     { return s.Span }
func (s *BlockStmt) Pos() source.Span  { return s.Block.Span }
func (s *ExprStmt) Pos() source.Span   { return s.X.Pos() }

// Expressions

type Expr interface {
	isExpr()
	Pos() source.Span
}

// IntLit keeps the constant's source text.
type IntLit struct {
	Value string
	Span  source.Span
}

type Var struct {
	Name *ident.Ident
	Span source.Span
}

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var binOpNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
}

func (op BinOp) String() string {
	if op >= 0 && int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "UNKNOWN_OP"
}

// IsComparison reports whether op yields a 0/1 truth value.
func (op BinOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

type BinaryExpr struct {
	Op          BinOp
	Left, Right Expr
	Span        source.Span
}

type UnOp int

const (
	OpNeg UnOp = iota
	OpAddr
	OpDeref
)

func (op UnOp) String() string {
	switch op {
	case OpNeg:
		return "Neg"
	case OpAddr:
		return "AddrOf"
	case OpDeref:
		return "Deref"
	default:
		return "UNKNOWN_OP"
	}
}

type UnaryExpr struct {
	Op   UnOp
	X    Expr
	Span source.Span
}

type AssignOp int

const (
	OpAssign AssignOp = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

var assignOpNames = [...]string{
	OpAssign: "=", OpAddAssign: "+=", OpSubAssign: "-=", OpMulAssign: "*=", OpDivAssign: "/=",
}

func (op AssignOp) String() string {
	if op >= 0 && int(op) < len(assignOpNames) {
		return assignOpNames[op]
	}
	return "UNKNOWN_OP"
}

// BinOp returns the arithmetic operator a compound assignment applies.
// ok is false for plain assignment.
func (op AssignOp) BinOp() (BinOp, bool) {
	switch op {
	case OpAddAssign:
		return OpAdd, true
	case OpSubAssign:
		return OpSub, true
	case OpMulAssign:
		return OpMul, true
	case OpDivAssign:
		return OpDiv, true
	default:
		return 0, false
	}
}

type AssignExpr struct {
	Op          AssignOp
	Left, Right Expr
	Span        source.Span
}

// MemberExpr is X.Member, or X->Member when Deref is set.
type MemberExpr struct {
	X      Expr
	Member *ident.Ident
	Deref  bool
	Span   source.Span
}

func (*IntLit) isExpr()     {}
func (*Var) isExpr()        {}
func (*BinaryExpr) isExpr() {}
func (*UnaryExpr) isExpr()  {}
func (*AssignExpr) isExpr() {}
func (*MemberExpr) isExpr() {}

func (e *IntLit) Pos() source.Span     { return e.Span }
func (e *Var) Pos() source.Span        { return e.Span }
func (e *BinaryExpr) Pos() source.Span { return e.Span }
func (e *UnaryExpr) Pos() source.Span  { return e.Span }
func (e *AssignExpr) Pos() source.Span { return e.Span }
func (e *MemberExpr) Pos() source.Span { return e.Span }
