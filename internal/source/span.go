// Package source describes locations in a translation unit.
package source

import "fmt"

// Span covers src[Start:End]. Line and Col are the 0-based position of Start.
type Span struct {
	Start int
	End   int
	Line  int
	Col   int
}

// To returns a span from the start of s to the end of o.
func (s Span) To(o Span) Span {
	return Span{Start: s.Start, End: o.End, Line: s.Line, Col: s.Col}
}

func (s Span) Len() int { return s.End - s.Start }

// String formats the span as 1-based line:col.
func (s Span) String() string { return fmt.Sprintf("%d:%d", s.Line+1, s.Col+1) }

// Text returns the spanned bytes of src, clamped to its bounds.
func (s Span) Text(src string) string {
	start, end := clamp(s.Start, len(src)), clamp(s.End, len(src))
	if end < start {
		end = start
	}
	return src[start:end]
}

// LineBounds returns the byte range of the line containing offset, excluding
// the trailing newline.
func LineBounds(src string, offset int) (int, int) {
	offset = clamp(offset, len(src))
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return start, end
}

func clamp(n, hi int) int {
	if n < 0 {
		return 0
	}
	if n > hi {
		return hi
	}
	return n
}
