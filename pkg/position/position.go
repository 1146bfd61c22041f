package position

import "fmt"

// Span is a half-open [Start, End) range of byte offsets into the full
// source text. Offsets are always relative to the whole file, never to a
// single line.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies fully inside s. Containment, not
// overlap: a range that merely crosses one of s's bounds does not count.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) Equal(other Span) bool {
	return s.Start == other.Start && s.End == other.End
}

// Overlaps reports whether the two spans share at least one offset.
func (s Span) Overlaps(other Span) bool {
	if s.Len() == 0 {
		return s.Start >= other.Start && s.Start <= other.End
	}
	if other.Len() == 0 {
		return other.Start >= s.Start && other.Start <= s.End
	}
	return other.Start < s.End && other.End > s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Place is a 1-based line/column pair, the form used in human-readable
// diagnostics output.
type Place struct {
	Line   int
	Column int
}

// PlaceOf converts a byte offset into a 1-based line/column position.
// Offsets past the end of text clamp to the final position.
func PlaceOf(text string, offset int) Place {
	if offset > len(text) {
		offset = len(text)
	}
	line := 1
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return Place{Line: line, Column: offset - lastNewline}
}
