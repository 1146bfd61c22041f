package tokens

import "github.com/snipdoc/snipdoc/pkg/diagnostic"

// AttachDiagnostics adds to tok every diagnostic whose range fully contains
// the token's range. Only symbol tokens receive diagnostics; a diagnostic
// range that merely overlaps part of a token never attaches.
//
// A token may end up carrying several diagnostics when error ranges
// overlap.
func AttachDiagnostics(tok *Token, diags []diagnostic.Diagnostic) {
	if !tok.IsSymbol {
		return
	}
	for _, d := range diags {
		if d.Span().Contains(tok.Span()) {
			tok.Diagnostics = append(tok.Diagnostics, d)
		}
	}
}
