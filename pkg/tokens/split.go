package tokens

import "github.com/snipdoc/snipdoc/pkg/langsvc"

// Split divides one grammar token on the boundary of a contained symbol
// range so that symbol edges never fall mid-token.
//
// Grammar tokenizers never split mid-identifier, so the test is full
// containment: a symbol range that merely overlaps the token (straddles a
// raw-token boundary) fails the check and the token passes through unsplit
// and unannotated. Callers accept that as a known limitation rather than a
// crash.
//
// The emitted sub-tokens partition the input's range with no gaps or
// overlaps, all inheriting the input's style.
func Split(tok Token, ranges []langsvc.SymbolRange) []Token {
	span := tok.Span()

	var symbol *langsvc.SymbolRange
	for i := range ranges {
		if span.Contains(ranges[i].Span) {
			symbol = &ranges[i]
			break
		}
	}
	if symbol == nil {
		return []Token{tok}
	}

	if symbol.Span.Equal(span) {
		tok.IsSymbol = true
		tok.IsDeprecated = symbol.Deprecated
		return []Token{tok}
	}

	var out []Token
	emit := func(start, end int, isSymbol bool) {
		if end <= start {
			return
		}
		sub := tok
		sub.Value = tok.Value[start-tok.Start : end-tok.Start]
		sub.Start = start
		sub.End = end
		sub.IsSymbol = isSymbol
		sub.IsDeprecated = isSymbol && symbol.Deprecated
		sub.IsWhitespace = isWhitespace(sub.Value)
		out = append(out, sub)
	}

	emit(tok.Start, symbol.Span.Start, false)
	emit(symbol.Span.Start, symbol.Span.End, true)
	emit(symbol.Span.End, tok.End, false)
	return out
}

// SplitAll applies Split to every token of a line, preserving order.
func SplitAll(line []Token, ranges []langsvc.SymbolRange) []Token {
	if len(ranges) == 0 {
		return line
	}
	out := make([]Token, 0, len(line))
	for _, tok := range line {
		out = append(out, Split(tok, ranges)...)
	}
	return out
}
