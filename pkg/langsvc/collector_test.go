package langsvc_test

import (
	"testing"

	"github.com/snipdoc/snipdoc/pkg/langsvc"
	"github.com/snipdoc/snipdoc/pkg/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParsedFile struct {
	nodes []langsvc.SymbolNode
}

func (f *fakeParsedFile) SymbolNodes() []langsvc.SymbolNode {
	return f.nodes
}

func TestCollectSymbolRanges(t *testing.T) {
	// import x from 'mod'
	// 0123456789012345678
	file := &fakeParsedFile{nodes: []langsvc.SymbolNode{
		{Kind: langsvc.NodeImportClause, Span: position.NewSpan(7, 8)},      // x
		{Kind: langsvc.NodeImportSpecifier, Span: position.NewSpan(14, 19)}, // 'mod'
	}}

	ranges := langsvc.CollectSymbolRanges(file, false)
	require.Len(t, ranges, 2)

	assert.Equal(t, position.NewSpan(7, 8), ranges[0].Span)

	// The specifier range excludes both quote characters.
	assert.Equal(t, position.NewSpan(15, 18), ranges[1].Span)
	assert.Equal(t, 3, ranges[1].Span.Len())
}

func TestCollectSymbolRangesJSXOnlyDropsImports(t *testing.T) {
	file := &fakeParsedFile{nodes: []langsvc.SymbolNode{
		{Kind: langsvc.NodeImportClause, Span: position.NewSpan(7, 8)},
		{Kind: langsvc.NodeImportSpecifier, Span: position.NewSpan(14, 19)},
		{Kind: langsvc.NodeIdentifier, Span: position.NewSpan(25, 30)},
	}}

	ranges := langsvc.CollectSymbolRanges(file, true)
	require.Len(t, ranges, 1)
	assert.Equal(t, position.NewSpan(25, 30), ranges[0].Span)
}

func TestCollectSymbolRangesSkipsDocComments(t *testing.T) {
	file := &fakeParsedFile{nodes: []langsvc.SymbolNode{
		{Kind: langsvc.NodeIdentifier, Span: position.NewSpan(3, 8), InDocComment: true},
		{Kind: langsvc.NodeIdentifier, Span: position.NewSpan(12, 17), Deprecated: true},
	}}

	ranges := langsvc.CollectSymbolRanges(file, false)
	require.Len(t, ranges, 1)
	assert.Equal(t, position.NewSpan(12, 17), ranges[0].Span)
	assert.True(t, ranges[0].Deprecated)
}

func TestCollectSymbolRangesNilFile(t *testing.T) {
	assert.Nil(t, langsvc.CollectSymbolRanges(nil, false))
}

func TestIsJSXOnly(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{
			name:   "bare jsx expression",
			source: "<Button label=\"ok\" />",
			want:   true,
		},
		{
			name:   "jsx with import scaffolding",
			source: "import React from 'react'\n\nexport default <div>\n  <span>hi</span>\n</div>",
			want:   true,
		},
		{
			name:   "plain statements",
			source: "const a = 1\nconst b = 2",
			want:   false,
		},
		{
			name:   "jsx assigned to a variable",
			source: "const el = <div />",
			want:   false,
		},
		{
			name:   "empty source",
			source: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, langsvc.IsJSXOnly(tt.source))
		})
	}
}
