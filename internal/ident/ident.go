// Package ident interns identifier spellings so later passes can compare
// handles instead of strings.
package ident

import "strings"

// Ident is the canonical handle for one spelling. Two handles from the same
// Table are the same pointer iff their spellings are equal.
type Ident struct {
	name string
}

func (id *Ident) String() string { return id.name }

type Table struct {
	byName map[string]*Ident
	all    []*Ident
}

func NewTable() *Table {
	return &Table{byName: map[string]*Ident{}}
}

// Intern returns the handle for s, registering a copy of s on first sight.
func (t *Table) Intern(s string) *Ident {
	if id, ok := t.byName[s]; ok {
		return id
	}
	id := &Ident{name: strings.Clone(s)}
	t.byName[id.name] = id
	t.all = append(t.all, id)
	return id
}

// Lookup reports the handle for s without registering it.
func (t *Table) Lookup(s string) (*Ident, bool) {
	id, ok := t.byName[s]
	return id, ok
}

func (t *Table) Len() int { return len(t.all) }

// All returns the handles in first-interned order.
func (t *Table) All() []*Ident { return t.all }
