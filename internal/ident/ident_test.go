package ident

import "testing"

func TestInternSameTwice(t *testing.T) {
	tab := NewTable()
	if tab.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tab.Len())
	}

	one1 := tab.Intern("one")
	if tab.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tab.Len())
	}
	two := tab.Intern("two")
	if tab.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tab.Len())
	}
	one2 := tab.Intern("one")
	if tab.Len() != 2 {
		t.Fatalf("Len = %d after re-intern, want 2", tab.Len())
	}

	if one1 != one2 {
		t.Errorf("handles for %q differ", "one")
	}
	if one1 == two {
		t.Errorf("handles for different spellings are equal")
	}
	for _, tc := range []struct {
		id   *Ident
		want string
	}{{one1, "one"}, {one2, "one"}, {two, "two"}} {
		if got := tc.id.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestInternOwnsText(t *testing.T) {
	tab := NewTable()
	buf := []byte("abc")
	id := tab.Intern(string(buf))
	buf[0] = 'x'
	if id.String() != "abc" {
		t.Errorf("interned text changed to %q", id.String())
	}
	if got := tab.Intern("abc"); got != id {
		t.Errorf("re-intern returned a new handle")
	}
}

func TestLookupDoesNotRegister(t *testing.T) {
	tab := NewTable()
	if _, ok := tab.Lookup("x"); ok {
		t.Fatal("Lookup found an unregistered name")
	}
	if tab.Len() != 0 {
		t.Fatalf("Lookup registered a name")
	}
	x := tab.Intern("x")
	if got, ok := tab.Lookup("x"); !ok || got != x {
		t.Errorf("Lookup(x) = %v, %v", got, ok)
	}
	if all := tab.All(); len(all) != 1 || all[0] != x {
		t.Errorf("All() = %v", all)
	}
}
