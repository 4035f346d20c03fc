package types

import (
	"testing"

	"github.com/tinyrange/subc/internal/ident"
)

func TestBasicsShared(t *testing.T) {
	if BasicOf(Int) != IntT() {
		t.Error("BasicOf(Int) is not the shared instance")
	}
	if got := PointerTo(PointerTo(CharT())).String(); got != "char**" {
		t.Errorf("String = %q", got)
	}
}

func TestAnonymousMemberFlattening(t *testing.T) {
	tab := ident.NewTable()
	x, y := tab.Intern("x"), tab.Intern("y")

	inner, err := NewStruct(nil, []Member{{Name: x, Type: IntT()}})
	if err != nil {
		t.Fatal(err)
	}
	outer, err := NewStruct(tab.Intern("s"), []Member{
		{Type: inner, Anonymous: true},
		{Name: y, Type: IntT()},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []*ident.Ident{x, y} {
		if _, ok := outer.Lookup(name); !ok {
			t.Errorf("lookup of %s failed", name)
		}
	}
	for _, m := range outer.Members {
		if m.Name == x {
			t.Error("x is a top-level member")
		}
	}
	mx, _ := outer.Lookup(x)
	if mx != &inner.Members[0] {
		t.Error("lookup entry does not point into the nested member list")
	}

	path, ok := outer.Path(x)
	if !ok || len(path) != 2 || !path[0].Anonymous || path[1].Name != x {
		t.Errorf("Path(x) = %v, %v", path, ok)
	}
	if path, _ := outer.Path(y); len(path) != 1 {
		t.Errorf("Path(y) has %d steps", len(path))
	}
}

func TestNestedAnonymous(t *testing.T) {
	tab := ident.NewTable()
	a, b := tab.Intern("a"), tab.Intern("b")
	deep, _ := NewUnion(nil, []Member{{Name: a, Type: CharT()}, {Name: b, Type: LongT()}})
	mid, _ := NewStruct(nil, []Member{{Type: deep, Anonymous: true}})
	top, err := NewStruct(nil, []Member{{Type: mid, Anonymous: true}})
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := top.Lookup(b); !ok || m.Type != LongT() {
		t.Errorf("Lookup(b) = %v, %v", m, ok)
	}
}

func TestDuplicateMember(t *testing.T) {
	tab := ident.NewTable()
	x := tab.Intern("x")
	inner, _ := NewStruct(nil, []Member{{Name: x, Type: IntT()}})
	if _, err := NewStruct(nil, []Member{{Name: x, Type: IntT()}, {Name: x, Type: CharT()}}); err == nil {
		t.Error("expected duplicate error")
	}
	if _, err := NewStruct(nil, []Member{{Name: x, Type: IntT()}, {Type: inner, Anonymous: true}}); err == nil {
		t.Error("expected duplicate error through anonymous member")
	}
}

func TestCompatibleIsShallow(t *testing.T) {
	tests := []struct {
		a, b *Type
		want bool
	}{
		{IntT(), IntT(), true},
		{IntT(), CharT(), true},
		{PointerTo(IntT()), PointerTo(CharT()), true},
		{PointerTo(IntT()), IntT(), false},
		{NewIncomplete(nil), IntT(), false},
	}
	for _, tc := range tests {
		if got := Compatible(tc.a, tc.b); got != tc.want {
			t.Errorf("Compatible(%s, %s) = %v", tc.a, tc.b, got)
		}
	}
}

func TestString(t *testing.T) {
	tab := ident.NewTable()
	s, _ := NewStruct(nil, []Member{{Name: tab.Intern("c"), Type: CharT()}, {Name: tab.Intern("p"), Type: PointerTo(IntT())}})
	if got, want := s.String(), "struct { char c; int* p }"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	u, _ := NewUnion(tab.Intern("u"), nil)
	if got := u.String(); got != "union u" {
		t.Errorf("got %q", got)
	}
	if got := NewIncomplete(tab.Intern("t")).String(); got != "incomplete t" {
		t.Errorf("got %q", got)
	}
}
