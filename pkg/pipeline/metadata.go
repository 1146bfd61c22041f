package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/langsvc"
	"github.com/snipdoc/snipdoc/pkg/position"
)

// metadata is the language-service half of one invocation: symbol ranges
// plus the diagnostics split into the set that aborts the run and the set
// that gets attached to tokens.
type metadata struct {
	ranges []langsvc.SymbolRange

	// failing are the diagnostics not covered by the allow list; any
	// entry here aborts the invocation with a report.
	failing []diagnostic.Diagnostic

	// attach are the diagnostics attached to symbol tokens. Empty unless
	// ShowErrors forces allowed diagnostics into the output.
	attach []diagnostic.Diagnostic

	// all diagnostics, kept for marker resolution in reports
	all []diagnostic.Diagnostic

	err error
}

func (a *Assembler) collectMetadata(ctx context.Context, path string, p Params, jsxOnly bool) metadata {
	if a.service == nil || path == "" {
		return metadata{}
	}

	var meta metadata
	file, ok := a.service.ParsedFile(ctx, path)
	if !ok {
		// No realizable source file: degrade to plain tokenization.
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no source file resolvable, skipping annotation")
		return metadata{}
	}
	meta.ranges = langsvc.CollectSymbolRanges(file, jsxOnly)

	diags, err := a.service.Diagnostics(ctx, path)
	if err != nil {
		meta.err = err
		return meta
	}

	meta.all = diags
	meta.failing = p.AllowErrors.Filter(diags)
	if p.ShowErrors {
		meta.attach = diags
	}
	return meta
}

// markers returns the spans to underline in a failure report: every symbol
// range fully contained by a failing diagnostic, or the diagnostic's own
// span when no symbol matches.
func (m metadata) markers() []position.Span {
	var spans []position.Span
	for _, d := range m.failing {
		found := false
		for _, r := range m.ranges {
			if d.Span().Contains(r.Span) {
				spans = append(spans, r.Span)
				found = true
			}
		}
		if !found {
			spans = append(spans, d.Span())
		}
	}
	return spans
}
