// Package scope implements lexical scopes as an arena of nodes addressed by
// index. A child never outlives the tree it belongs to, and lookups walk
// parent links toward the root.
package scope

import "github.com/tinyrange/subc/internal/ident"

// ID addresses a scope within its Tree.
type ID int

// Root is the ID of the outermost scope of every Tree.
const Root ID = 0

// None is the parent of the root.
const None ID = -1

type node[V any] struct {
	parent   ID
	children []ID
	names    map[*ident.Ident]V
	owned    []any
}

// Tree is an arena of nested scopes mapping identifiers to V.
type Tree[V any] struct {
	nodes []node[V]
}

// NewTree returns a tree holding only the root scope.
func NewTree[V any]() *Tree[V] {
	t := &Tree[V]{}
	t.nodes = append(t.nodes, node[V]{parent: None, names: map[*ident.Ident]V{}})
	return t
}

func (t *Tree[V]) Root() ID { return Root }

// Len returns the number of scopes in the tree.
func (t *Tree[V]) Len() int { return len(t.nodes) }

// NewChild appends a scope nested inside parent and returns its ID.
func (t *Tree[V]) NewChild(parent ID) ID {
	t.check(parent)
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node[V]{parent: parent, names: map[*ident.Ident]V{}})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Parent returns the enclosing scope of s, or None for the root.
func (t *Tree[V]) Parent(s ID) ID {
	t.check(s)
	return t.nodes[s].parent
}

// Children returns the scopes directly nested in s, in creation order.
func (t *Tree[V]) Children(s ID) []ID {
	t.check(s)
	return t.nodes[s].children
}

// Declare binds name to v in s, replacing any earlier binding in s.
func (t *Tree[V]) Declare(s ID, name *ident.Ident, v V) {
	t.check(s)
	t.nodes[s].names[name] = v
}

// LookupLocal searches s only.
func (t *Tree[V]) LookupLocal(s ID, name *ident.Ident) (V, bool) {
	t.check(s)
	v, ok := t.nodes[s].names[name]
	return v, ok
}

// Lookup searches s and then each enclosing scope, returning the innermost
// binding of name.
func (t *Tree[V]) Lookup(s ID, name *ident.Ident) (V, bool) {
	t.check(s)
	for cur := s; cur != None; cur = t.nodes[cur].parent {
		if v, ok := t.nodes[cur].names[name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// TakeOwnership records that v lives as long as scope s. It is used for
// values, such as untagged record types, that no name refers to.
func (t *Tree[V]) TakeOwnership(s ID, v any) {
	t.check(s)
	t.nodes[s].owned = append(t.nodes[s].owned, v)
}

// Owned returns the values handed to TakeOwnership for s.
func (t *Tree[V]) Owned(s ID) []any {
	t.check(s)
	return t.nodes[s].owned
}

func (t *Tree[V]) check(s ID) {
	if s < 0 || int(s) >= len(t.nodes) {
		panic("scope: invalid scope id")
	}
}
