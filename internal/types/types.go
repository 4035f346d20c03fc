package types

import (
	"fmt"
	"strings"

	"github.com/tinyrange/subc/internal/ident"
)

// Kind distinguishes the shapes a Type can take.
type Kind int

const (
	Incomplete Kind = iota
	Basic
	Pointer
	Struct
	Union
)

func (k Kind) String() string {
	switch k {
	case Incomplete:
		return "incomplete"
	case Basic:
		return "basic"
	case Pointer:
		return "pointer"
	case Struct:
		return "struct"
	case Union:
		return "union"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BasicKind enumerates the integer types, narrowest first.
type BasicKind int

const (
	Char BasicKind = iota
	Short
	Int
	Long
)

func (b BasicKind) String() string {
	switch b {
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	}
	return fmt.Sprintf("BasicKind(%d)", int(b))
}

// Member is one entry of a record's member list. Anonymous members have a nil
// Name and a record Type whose own members are reachable through Lookup.
type Member struct {
	Name      *ident.Ident
	Type      *Type
	Anonymous bool
}

// Type is a resolved C type. Records are compared by identity: two
// declarations of the same shape are different types.
type Type struct {
	K     Kind
	Basic BasicKind    // K == Basic
	Elem  *Type        // K == Pointer
	Tag   *ident.Ident // records and incomplete types; nil when untagged

	Members []Member // K == Struct or Union, declaration order
	lookup  map[*ident.Ident]*Member
}

var basics = [...]*Type{
	Char:  {K: Basic, Basic: Char},
	Short: {K: Basic, Basic: Short},
	Int:   {K: Basic, Basic: Int},
	Long:  {K: Basic, Basic: Long},
}

// BasicOf returns the shared instance for k.
func BasicOf(k BasicKind) *Type { return basics[k] }

func CharT() *Type  { return basics[Char] }
func ShortT() *Type { return basics[Short] }
func IntT() *Type   { return basics[Int] }
func LongT() *Type  { return basics[Long] }

func PointerTo(elem *Type) *Type { return &Type{K: Pointer, Elem: elem} }

// NewIncomplete returns a placeholder for a record referenced by tag before
// (or without) its definition.
func NewIncomplete(tag *ident.Ident) *Type { return &Type{K: Incomplete, Tag: tag} }

// NewStruct builds a struct type and its member lookup index.
func NewStruct(tag *ident.Ident, members []Member) (*Type, error) {
	return newRecord(Struct, tag, members)
}

// NewUnion builds a union type and its member lookup index.
func NewUnion(tag *ident.Ident, members []Member) (*Type, error) {
	return newRecord(Union, tag, members)
}

func newRecord(k Kind, tag *ident.Ident, members []Member) (*Type, error) {
	t := &Type{K: k, Tag: tag, Members: members, lookup: map[*ident.Ident]*Member{}}
	for i := range t.Members {
		if err := t.index(&t.Members[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// index adds m to the lookup table. Anonymous members contribute the names
// of their own members, recursively, rather than a name of their own.
func (t *Type) index(m *Member) error {
	if !m.Anonymous {
		if _, dup := t.lookup[m.Name]; dup {
			return fmt.Errorf("duplicate member %s in %s", m.Name, t)
		}
		t.lookup[m.Name] = m
		return nil
	}
	if !m.Type.IsRecord() {
		return fmt.Errorf("anonymous member of non-record type %s", m.Type)
	}
	for i := range m.Type.Members {
		if err := t.index(&m.Type.Members[i]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a member by name, descending into anonymous members.
func (t *Type) Lookup(name *ident.Ident) (*Member, bool) {
	m, ok := t.lookup[name]
	return m, ok
}

// Path returns the chain of members leading from t to name: the anonymous
// members passed through, followed by the named member itself.
func (t *Type) Path(name *ident.Ident) ([]*Member, bool) {
	for i := range t.Members {
		m := &t.Members[i]
		if !m.Anonymous {
			if m.Name == name {
				return []*Member{m}, true
			}
			continue
		}
		if rest, ok := m.Type.Path(name); ok {
			return append([]*Member{m}, rest...), true
		}
	}
	return nil, false
}

func (t *Type) IsRecord() bool  { return t.K == Struct || t.K == Union }
func (t *Type) IsPointer() bool { return t.K == Pointer }
func (t *Type) IsInteger() bool { return t.K == Basic }

// Compatible reports whether a and b have the same top-level kind. Pointee
// and member types are not compared.
func Compatible(a, b *Type) bool { return a.K == b.K }

func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.K {
	case Basic:
		b.WriteString(t.Basic.String())
	case Pointer:
		t.Elem.write(b)
		b.WriteString("*")
	case Incomplete:
		b.WriteString("incomplete")
		if t.Tag != nil {
			fmt.Fprintf(b, " %s", t.Tag)
		}
	case Struct, Union:
		b.WriteString(t.K.String())
		if t.Tag != nil {
			fmt.Fprintf(b, " %s", t.Tag)
			return
		}
		b.WriteString(" {")
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(";")
			}
			b.WriteString(" ")
			m.Type.write(b)
			if !m.Anonymous {
				fmt.Fprintf(b, " %s", m.Name)
			}
		}
		b.WriteString(" }")
	}
}
