// Package layout computes the storage layout of resolved types on x86-64.
package layout

import (
	"fmt"
	"io"
	"strings"

	"modernc.org/mathutil"

	"github.com/tinyrange/subc/internal/ident"
	"github.com/tinyrange/subc/internal/pprint"
	"github.com/tinyrange/subc/internal/types"
)

// PointerSize is the size and alignment of every pointer type.
const PointerSize = 8

// Layout is derived from a Type and never stored on it. Size is always a
// multiple of Align.
type Layout struct {
	Align   int
	Size    int
	Members []Member
}

// Member places one member of a record. Anonymous members have a nil Name.
type Member struct {
	Name   *ident.Ident
	Offset int
	Layout *Layout
}

var basic = [...]Layout{
	types.Char:  {Align: 1, Size: 1},
	types.Short: {Align: 2, Size: 2},
	types.Int:   {Align: 4, Size: 4},
	types.Long:  {Align: 8, Size: 8},
}

// Padding returns the number of bytes needed to round base up to a multiple
// of align.
func Padding(base, align int) int {
	if align <= 1 {
		return 0
	}
	return (align - base%align) % align
}

// Of computes the layout of t.
func Of(t *types.Type) (*Layout, error) {
	switch t.K {
	case types.Basic:
		l := basic[t.Basic]
		return &l, nil
	case types.Pointer:
		return &Layout{Align: PointerSize, Size: PointerSize}, nil
	case types.Struct:
		return ofStruct(t)
	case types.Union:
		return ofUnion(t)
	case types.Incomplete:
		return nil, fmt.Errorf("layout of incomplete type %s", t)
	}
	return nil, fmt.Errorf("layout of unknown kind %s", t.K)
}

func ofStruct(t *types.Type) (*Layout, error) {
	l := &Layout{Align: 1}
	for _, m := range t.Members {
		ml, err := Of(m.Type)
		if err != nil {
			return nil, err
		}
		l.Size += Padding(l.Size, ml.Align)
		l.Members = append(l.Members, Member{Name: m.Name, Offset: l.Size, Layout: ml})
		l.Size += ml.Size
		l.Align = mathutil.Max(l.Align, ml.Align)
	}
	l.Size += Padding(l.Size, l.Align)
	return l, nil
}

func ofUnion(t *types.Type) (*Layout, error) {
	l := &Layout{Align: 1}
	for _, m := range t.Members {
		ml, err := Of(m.Type)
		if err != nil {
			return nil, err
		}
		l.Members = append(l.Members, Member{Name: m.Name, Layout: ml})
		l.Size = mathutil.Max(l.Size, ml.Size)
		l.Align = mathutil.Max(l.Align, ml.Align)
	}
	l.Size += Padding(l.Size, l.Align)
	return l, nil
}

// Offset returns the byte offset of the member called name, descending into
// anonymous members.
func (l *Layout) Offset(name *ident.Ident) (int, bool) {
	for _, m := range l.Members {
		if m.Name == name {
			return m.Offset, true
		}
		if m.Name == nil {
			if off, ok := m.Layout.Offset(name); ok {
				return m.Offset + off, true
			}
		}
	}
	return 0, false
}

// Fprint writes l as an indented tree, one member per line.
func Fprint(w io.Writer, l *Layout) error {
	p := pprint.New(w)
	p.Printf("size %d, align %d", l.Size, l.Align)
	p.Newline()
	printMembers(p, l)
	return p.Err()
}

func printMembers(p *pprint.Printer, l *Layout) {
	p.Indent()
	for _, m := range l.Members {
		name := "<anonymous>"
		if m.Name != nil {
			name = m.Name.String()
		}
		p.Printf("%s: offset %d, size %d, align %d", name, m.Offset, m.Layout.Size, m.Layout.Align)
		p.Newline()
		printMembers(p, m.Layout)
	}
	p.Unindent()
}

func (l *Layout) String() string {
	var b strings.Builder
	Fprint(&b, l)
	return b.String()
}
