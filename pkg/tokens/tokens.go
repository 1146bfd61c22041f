// Package tokens defines the annotated output token and the geometric core
// of the pipeline: splitting grammar-produced style runs on symbol
// boundaries and attaching diagnostics by range containment.
package tokens

import (
	"strings"

	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/position"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
)

// Style is the resolved presentation of a token under a single theme.
type Style struct {
	Color          string `json:"color,omitempty"`
	FontStyle      string `json:"fontStyle,omitempty"`
	FontWeight     string `json:"fontWeight,omitempty"`
	TextDecoration string `json:"textDecoration,omitempty"`
}

// Token is the atomic unit of annotated output.
//
// Start and End are half-open byte offsets into the full source text, so
// End-Start always equals len(Value). Tokens within one line are contiguous
// and ordered by ascending Start; concatenating their values reconstructs
// the line exactly.
type Token struct {
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`

	// Style carries the single-theme style; StyleVars carries
	// CSS-custom-property keys per theme in multi-theme mode. Exactly one
	// of the two is populated.
	Style     Style             `json:"style,omitempty"`
	StyleVars map[string]string `json:"styleVars,omitempty"`

	IsBaseColor  bool `json:"isBaseColor"`
	IsWhitespace bool `json:"isWhitespace"`
	IsSymbol     bool `json:"isSymbol"`
	IsDeprecated bool `json:"isDeprecated"`

	// Diagnostics is present only on symbol tokens whose range is fully
	// contained by one or more diagnostic ranges.
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`

	// QuickInfo is present only on symbol tokens with a resolvable hover
	// entry.
	QuickInfo *quickinfo.Entry `json:"quickInfo,omitempty"`
}

// Span returns the token's range over the full source text.
func (t Token) Span() position.Span {
	return position.NewSpan(t.Start, t.End)
}

func isWhitespace(value string) bool {
	return strings.TrimSpace(value) == ""
}
