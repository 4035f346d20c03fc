// Package diag defines the single error type shared by every compiler pass.
//
// Errors come in two classes. Parse errors are reportable: the driver renders
// them and abandons the compilation. Fatal errors mark conditions the later
// passes cannot continue from (an unexpected character, taking the address of
// a non-variable, an undeclared identifier reaching code generation). Both
// travel as ordinary error values so a batch driver can stop one compilation
// without stopping the process.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tinyrange/subc/internal/source"
)

type Kind int

const (
	Parse Kind = iota
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Span, e.Msg)
}

// Errorf builds a reportable parse error.
func Errorf(span source.Span, format string, args ...any) *Error {
	return &Error{Kind: Parse, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// Fatalf builds an unrecoverable error.
func Fatalf(span source.Span, format string, args ...any) *Error {
	return &Error{Kind: Fatal, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// As unwraps err to a *Error.
func As(err error) (*Error, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

func IsFatal(err error) bool {
	d, ok := As(err)
	return ok && d.Kind == Fatal
}

const (
	highlight = "\033[1;31m"
	reset     = "\033[0m"
)

// Print renders e against src: the offending line with the span highlighted,
// its 1-based position and the message. Without color a caret line marks the
// span instead.
func Print(w io.Writer, src string, e *Error, color bool) {
	ls, le := source.LineBounds(src, e.Span.Start)
	hs := e.Span.Start
	if hs < ls {
		hs = ls
	}
	if hs > le {
		hs = le
	}
	he := e.Span.End
	if he > le {
		he = le
	}
	if he < hs {
		he = hs
	}

	fmt.Fprintln(w, "---")
	if color {
		fmt.Fprintf(w, "%s%s%s%s%s\n", src[ls:hs], highlight, src[hs:he], reset, src[he:le])
	} else {
		fmt.Fprintln(w, src[ls:le])
		n := he - hs
		if n < 1 {
			n = 1
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", hs-ls), strings.Repeat("^", n))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Line %d, Column %d\n", e.Span.Line+1, e.Span.Col+1)
	fmt.Fprintf(w, "Error: %s\n", e.Msg)
	fmt.Fprintln(w, "---")
}
