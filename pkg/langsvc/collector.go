package langsvc

import "github.com/snipdoc/snipdoc/pkg/position"

// CollectSymbolRanges turns a parsed file's symbol nodes into the ranges the
// token splitter works with.
//
// Doc-comment nodes are dropped (they are documentation text). When jsxOnly
// is set, import specifiers and clauses are dropped too, since JSX-only
// snippets strip their import scaffolding from rendered output. Import
// specifier bounds are inset by one character per side so the surrounding
// quotes, which grammar tokenizers emit as separate tokens, stay outside the
// symbol.
//
// The result is not sorted; lookups over it are containment scans.
func CollectSymbolRanges(file ParsedFile, jsxOnly bool) []SymbolRange {
	if file == nil {
		return nil
	}

	var ranges []SymbolRange
	for _, node := range file.SymbolNodes() {
		if node.InDocComment {
			continue
		}

		span := node.Span
		switch node.Kind {
		case NodeIdentifier:
			// kept as-is
		case NodeImportSpecifier:
			if jsxOnly {
				continue
			}
			span = position.NewSpan(span.Start+1, span.End-1)
			if span.Len() < 0 {
				continue
			}
		case NodeImportClause:
			if jsxOnly {
				continue
			}
		default:
			continue
		}

		ranges = append(ranges, SymbolRange{Span: span, Deprecated: node.Deprecated})
	}
	return ranges
}
