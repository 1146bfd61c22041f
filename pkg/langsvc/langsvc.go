// Package langsvc defines the contract between the token pipeline and a
// semantic language service: parsed symbol nodes, diagnostics, and hover
// quick info, all keyed by byte offset.
package langsvc

import (
	"context"

	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/position"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
)

// NodeKind classifies the nodes a parsed file exposes to the collector.
type NodeKind int

const (
	// NodeIdentifier is a plain identifier.
	NodeIdentifier NodeKind = iota + 1

	// NodeImportSpecifier is the quoted module path of an import
	// declaration, bounds inclusive of the quote characters.
	NodeImportSpecifier

	// NodeImportClause is the binding part of an import declaration
	// (default/named imports).
	NodeImportClause
)

func (k NodeKind) String() string {
	switch k {
	case NodeIdentifier:
		return "identifier"
	case NodeImportSpecifier:
		return "import-specifier"
	case NodeImportClause:
		return "import-clause"
	default:
		return "unknown"
	}
}

// SymbolNode is one candidate symbol as reported by a parsed source file.
type SymbolNode struct {
	Kind NodeKind
	Span position.Span

	// InDocComment marks nodes that live inside documentation comments;
	// those are prose, not code symbols.
	InDocComment bool

	// Deprecated marks nodes whose underlying symbol carries a
	// deprecation tag.
	Deprecated bool
}

// ParsedFile is the parse-tree view the collector needs.
type ParsedFile interface {
	// SymbolNodes returns every identifier and import node of the file in
	// any order.
	SymbolNodes() []SymbolNode
}

// Service is the semantic analysis collaborator. Implementations may be
// backed by a real compiler front end or by fixtures in tests.
type Service interface {
	// ParsedFile returns the parse-tree view for path, or false when no
	// source file is realizable for it (e.g. inline snippets).
	ParsedFile(ctx context.Context, path string) (ParsedFile, bool)

	// Diagnostics returns the pre-emit diagnostics for path. Unresolvable
	// paths yield an empty slice, not an error.
	Diagnostics(ctx context.Context, path string) ([]diagnostic.Diagnostic, error)

	// QuickInfoAt returns hover documentation for the symbol at offset,
	// or nil when there is none.
	QuickInfoAt(ctx context.Context, path string, offset int) (*quickinfo.Entry, error)
}

// SymbolRange is a collected symbol span over the whole source text.
type SymbolRange struct {
	Span       position.Span
	Deprecated bool
}
