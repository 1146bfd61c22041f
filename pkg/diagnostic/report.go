package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/snipdoc/snipdoc/pkg/position"
)

// Report renders the fail-loud error text for source that carries
// disallowed diagnostics: one header per diagnostic with its code and
// 1-based line/column, followed by a plain-text listing of the source with
// `^` markers under every marked span, followed by remediation guidance.
//
// marked holds the spans of the tokens the diagnostics resolved to; when a
// diagnostic resolved to no token, pass its own span so the marker still
// lands somewhere useful.
func Report(source string, diags []Diagnostic, marked []position.Span) string {
	var b strings.Builder

	for _, d := range diags {
		place := position.PlaceOf(source, d.Start)
		fmt.Fprintf(&b, "[%d] %s (line %d, column %d)\n", d.Code, d.Message, place.Line, place.Column)
	}
	b.WriteString("\n")

	writeMarkedSource(&b, source, marked)

	b.WriteString("\n")
	b.WriteString("These errors must be fixed before the code can be rendered.\n")
	b.WriteString("Use allowErrors to permit specific codes, or showErrors to render them inline.\n")
	return b.String()
}

func writeMarkedSource(b *strings.Builder, source string, marked []position.Span) {
	spans := append([]position.Span(nil), marked...)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	lines := strings.Split(source, "\n")
	lineStart := 0
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")

		lineSpan := position.NewSpan(lineStart, lineStart+len(line))
		var markers []position.Span
		for _, s := range spans {
			if lineSpan.Overlaps(s) {
				markers = append(markers, s)
			}
		}
		if len(markers) > 0 {
			b.WriteString(markerLine(line, lineStart, markers))
			b.WriteString("\n")
		}
		lineStart = lineSpan.End + 1
	}
}

// markerLine builds a row of spaces with `^` runs under each marked span.
// Columns are counted in grapheme clusters so markers stay aligned under
// multi-byte source text.
func markerLine(line string, lineStart int, markers []position.Span) string {
	var b strings.Builder
	col := 0
	for _, m := range markers {
		start := m.Start - lineStart
		end := m.End - lineStart
		if start < 0 {
			start = 0
		}
		if end > len(line) {
			end = len(line)
		}
		pad := graphemeLen(line[:start])
		if pad < col {
			continue // overlapping marker already covered
		}
		b.WriteString(strings.Repeat(" ", pad-col))
		width := graphemeLen(line[start:end])
		if width < 1 {
			width = 1
		}
		b.WriteString(strings.Repeat("^", width))
		col = pad + width
	}
	return b.String()
}

func graphemeLen(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}
