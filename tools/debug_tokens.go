// debug_tokens prints the token stream of a source file with 1-based
// positions and byte ranges, followed by the interned identifiers.
package main

import (
	"fmt"
	"os"

	"github.com/tinyrange/subc/internal/diag"
	"github.com/tinyrange/subc/internal/ident"
	lx "github.com/tinyrange/subc/internal/lexer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_tokens <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	src := string(data)
	idents := ident.NewTable()
	l := lx.New(idents, src)
	for {
		t, err := l.Next()
		if err != nil {
			if d, ok := diag.As(err); ok {
				diag.Print(os.Stderr, src, d, false)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(1)
		}
		fmt.Printf("%s %q at %s [%d,%d)\n", t.Type, t.Lex, t.Span, t.Span.Start, t.Span.End)
		if t.Type == lx.EOF {
			break
		}
	}
	fmt.Printf("%d distinct identifiers:", idents.Len())
	for _, id := range idents.All() {
		fmt.Printf(" %s", id)
	}
	fmt.Println()
}
