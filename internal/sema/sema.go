// Package sema resolves declarations to types and types every expression.
//
// Tags and ordinary identifiers live in separate namespaces, kept as two
// scope trees grown in lockstep: an Env names one node in each.
package sema

import (
	"sort"

	"github.com/tinyrange/subc/internal/ast"
	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/layout"
	"github.com/tinyrange/subc/internal/logger"
	"github.com/tinyrange/subc/internal/scope"
	"github.com/tinyrange/subc/internal/types"
)

// Info records the results of a successful Check.
type Info struct {
	// Defs maps each declared name to its type.
	Defs map[*ast.NameDeclarator]*types.Type
	// Types maps every checked expression to its type.
	Types map[ast.Expr]*types.Type
	// Results maps each function to its result type.
	Results map[*ident.Ident]*types.Type
}

// Env is a position in the scope trees.
type Env struct {
	Tags  scope.ID
	Names scope.ID
}

type Checker struct {
	tags  *scope.Tree[*types.Type]
	names *scope.Tree[*types.Type]
	info  *Info
}

func NewChecker() *Checker {
	return &Checker{
		tags:  scope.NewTree[*types.Type](),
		names: scope.NewTree[*types.Type](),
		info: &Info{
			Defs:    map[*ast.NameDeclarator]*types.Type{},
			Types:   map[ast.Expr]*types.Type{},
			Results: map[*ident.Ident]*types.Type{},
		},
	}
}

func (c *Checker) Root() Env { return Env{Tags: c.tags.Root(), Names: c.names.Root()} }

// Child opens a scope nested in env.
func (c *Checker) Child(env Env) Env {
	return Env{Tags: c.tags.NewChild(env.Tags), Names: c.names.NewChild(env.Names)}
}

func (c *Checker) Info() *Info { return c.info }

// Owned returns the untagged record types whose lifetime is tied to env.
func (c *Checker) Owned(env Env) []*types.Type {
	var out []*types.Type
	for _, v := range c.tags.Owned(env.Tags) {
		out = append(out, v.(*types.Type))
	}
	return out
}

// LookupTag finds the innermost record declared under tag.
func (c *Checker) LookupTag(env Env, tag *ident.Ident) (*types.Type, bool) {
	return c.tags.Lookup(env.Tags, tag)
}

// LookupName finds the innermost variable called name.
func (c *Checker) LookupName(env Env, name *ident.Ident) (*types.Type, bool) {
	return c.names.Lookup(env.Names, name)
}

// Check resolves every function of prog in a fresh Checker.
func Check(prog *ast.Program) (*Info, error) {
	c := NewChecker()
	root := c.Root()

	funcs := make([]*ast.Function, 0, len(prog.Functions))
	for _, f := range prog.Functions {
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name.String() < funcs[j].Name.String() })

	for _, f := range funcs {
		result, err := c.ResolveType(f.Result, root)
		if err != nil {
			return nil, err
		}
		c.info.Results[f.Name] = result
		if err := c.checkBlock(f.Body, c.Child(root)); err != nil {
			return nil, err
		}
		logger.Debug("checked function", "name", f.Name.String(), "result", result.String())
	}
	return c.info, nil
}

// ResolveType maps a type specifier to its Type, declaring any record tags
// it defines in env.
func (c *Checker) ResolveType(spec ast.TypeSpec, env Env) (*types.Type, error) {
	switch s := spec.(type) {
	case *ast.BasicTypeSpec:
		return types.BasicOf(basicKinds[s.Kind]), nil
	case *ast.RecordTypeSpec:
		if !s.Defined {
			return c.referenceRecord(s, env)
		}
		return c.defineRecord(s, env)
	}
	return nil, diag.Fatalf(spec.Pos(), "unknown type specifier")
}

var basicKinds = map[ast.BasicType]types.BasicKind{
	ast.BTChar:  types.Char,
	ast.BTShort: types.Short,
	ast.BTInt:   types.Int,
	ast.BTLong:  types.Long,
}

// Wrap applies the pointer levels of d to base.
func Wrap(base *types.Type, d ast.Declarator) *types.Type {
	t := base
	for i := ast.PointerDepth(d); i > 0; i-- {
		t = types.PointerTo(t)
	}
	return t
}

func recordKind(s *ast.RecordTypeSpec) types.Kind {
	if s.Union {
		return types.Union
	}
	return types.Struct
}

// referenceRecord resolves `struct tag` without a body. An unknown tag is
// declared in env as an incomplete type, to be completed by a later
// definition in the same scope.
func (c *Checker) referenceRecord(s *ast.RecordTypeSpec, env Env) (*types.Type, error) {
	if t, ok := c.tags.Lookup(env.Tags, s.Tag); ok {
		if t.K != types.Incomplete && t.K != recordKind(s) {
			return nil, diag.Fatalf(s.Span, "%s is not a %s", s.Tag, recordKind(s))
		}
		return t, nil
	}
	t := types.NewIncomplete(s.Tag)
	c.tags.Declare(env.Tags, s.Tag, t)
	return t, nil
}

func (c *Checker) defineRecord(s *ast.RecordTypeSpec, env Env) (*types.Type, error) {
	var members []types.Member
	for _, sd := range s.Members {
		mt, err := c.ResolveType(sd.Type, env)
		if err != nil {
			return nil, err
		}
		if len(sd.Declarators) == 0 {
			inner, ok := sd.Type.(*ast.RecordTypeSpec)
			if !ok || inner.Tag != nil || !inner.Defined {
				return nil, diag.Fatalf(sd.Span, "declaration does not declare anything")
			}
			members = append(members, types.Member{Type: mt, Anonymous: true})
			continue
		}
		for _, d := range sd.Declarators {
			members = append(members, types.Member{Name: ast.DeclaratorName(d).Name, Type: Wrap(mt, d)})
		}
	}

	var (
		t   *types.Type
		err error
	)
	if s.Union {
		t, err = types.NewUnion(s.Tag, members)
	} else {
		t, err = types.NewStruct(s.Tag, members)
	}
	if err != nil {
		return nil, diag.Fatalf(s.Span, "%s", err)
	}
	l, err := layout.Of(t)
	if err != nil {
		return nil, diag.Fatalf(s.Span, "%s", err)
	}
	logger.Debug("record layout", "type", t.String(), "size", l.Size, "align", l.Align)

	if s.Tag == nil {
		c.tags.TakeOwnership(env.Tags, t)
		return t, nil
	}
	if prev, ok := c.tags.LookupLocal(env.Tags, s.Tag); ok {
		if prev.K != types.Incomplete {
			return nil, diag.Fatalf(s.Span, "redefinition of %s %s", t.K, s.Tag)
		}
		// Complete the forward declaration in place so earlier pointers to
		// it see the members.
		*prev = *t
		return prev, nil
	}
	c.tags.Declare(env.Tags, s.Tag, t)
	return t, nil
}

func (c *Checker) checkBlock(b *ast.Block, env Env) error {
	for _, item := range b.Items {
		var err error
		switch x := item.(type) {
		case *ast.Declaration:
			err = c.checkDeclaration(x, env)
		case ast.Stmt:
			err = c.checkStmt(x, env)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkDeclaration(d *ast.Declaration, env Env) error {
	base, err := c.ResolveType(d.Type, env)
	if err != nil {
		return err
	}
	for _, id := range d.Declarators {
		t := Wrap(base, id.Declarator)
		name := ast.DeclaratorName(id.Declarator)
		if t.K == types.Incomplete {
			return diag.Fatalf(name.Span, "variable %s has incomplete type %s", name.Name, t)
		}
		if id.Init != nil {
			it, err := c.expr(id.Init, env)
			if err != nil {
				return err
			}
			c.checkAssignable(t, it, id.Init)
		}
		c.names.Declare(env.Names, name.Name, t)
		c.info.Defs[name] = t
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt, env Env) error {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		_, err := c.expr(x.X, env)
		return err
	case *ast.IfStmt:
		if _, err := c.expr(x.Cond, env); err != nil {
			return err
		}
		if err := c.checkStmt(x.Then, env); err != nil {
			return err
		}
		if x.Else != nil {
			return c.checkStmt(x.Else, env)
		}
		return nil
	case *ast.BlockStmt:
		return c.checkBlock(x.Block, c.Child(env))
	case *ast.ExprStmt:
		_, err := c.expr(x.X, env)
		return err
	}
	return diag.Fatalf(s.Pos(), "unknown statement")
}

// checkAssignable warns when a value of type from is stored into to. A
// literal zero converts to any pointer.
func (c *Checker) checkAssignable(to, from *types.Type, e ast.Expr) {
	if types.Compatible(to, from) {
		return
	}
	if lit, ok := e.(*ast.IntLit); ok && lit.Value == "0" && to.IsPointer() {
		return
	}
	logger.Warn("incompatible assignment", "pos", e.Pos().String(), "to", to.String(), "from", from.String())
}
