// Package tokenizer defines the grammar-tokenizer collaborator contract:
// lexical style runs over source text, one run set per configured theme,
// with no semantic awareness.
package tokenizer

import "context"

// RawStyle is the presentation of one run under one theme.
type RawStyle struct {
	// Color is the foreground as "#rrggbb", empty for the theme default.
	Color     string
	Bold      bool
	Italic    bool
	Underline bool

	// BaseColor is true when Color equals the theme's default foreground.
	BaseColor bool
}

// RawToken is one contiguous style run within a single line. Content never
// contains a newline.
type RawToken struct {
	Content string

	// Styles holds one entry per configured theme, in theme order.
	Styles []RawStyle
}

// Tokenizer produces per-line style runs for source text.
type Tokenizer interface {
	// CodeToTokens tokenizes text in one shot, returning one slice of
	// runs per source line (empty lines yield empty slices).
	CodeToTokens(ctx context.Context, text, language string) ([][]RawToken, error)

	// StreamLines tokenizes text incrementally, invoking sink once per
	// completed line in source order. A sink error stops the stream and
	// is returned unchanged.
	StreamLines(ctx context.Context, text, language string, sink func([]RawToken) error) error

	// ThemeCount reports how many themes each RawToken carries styles
	// for.
	ThemeCount() int
}

// PlainLines returns unstyled single-run lines for text, used when no
// grammar applies.
func PlainLines(text string) [][]RawToken {
	var lines [][]RawToken
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if i > start {
				lines = append(lines, []RawToken{{Content: text[start:i], Styles: []RawStyle{{BaseColor: true}}}})
			} else {
				lines = append(lines, nil)
			}
			start = i + 1
		}
	}
	return lines
}
