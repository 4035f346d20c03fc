// Package pprint is a small indent-aware writer for the AST and layout
// printers.
package pprint

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

type Printer struct {
	w       io.Writer
	newline bool
	indent  int
	err     error
}

func New(w io.Writer) *Printer { return &Printer{w: w} }

// Printf writes formatted text, indenting first if it starts a line.
func (p *Printer) Printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if p.newline {
		if _, p.err = io.WriteString(p.w, strings.Repeat(indentUnit, p.indent)); p.err != nil {
			return
		}
		p.newline = false
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Newline() {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, "\n")
	p.newline = true
}

func (p *Printer) Indent() { p.indent++ }

func (p *Printer) Unindent() {
	if p.indent > 0 {
		p.indent--
	}
}

// Err reports the first write error.
func (p *Printer) Err() error { return p.err }
