// Package pipeline merges grammar style runs, symbol ranges, diagnostics,
// and quick info into annotated token lines.
//
// Two entry points share one line processor: GetTokens collects every line,
// EachLine hands lines to a sink as the tokenizer produces them. Metadata
// collection (symbols + diagnostics) runs concurrently with tokenizer
// startup and is awaited exactly once, when the first line needs it.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/langsvc"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
	"github.com/snipdoc/snipdoc/pkg/tokenizer"
	"github.com/snipdoc/snipdoc/pkg/tokens"
	"gitlab.com/tozd/go/errors"
)

// VirtualScheme prefixes the synthetic file names given to inline snippets
// that were never realized on disk. The quick-info sanitizer strips it from
// hover text.
const VirtualScheme = "snipdoc://"

// plainLanguages short-circuit the pipeline entirely: no tokenizer, no
// language service, one token covering the whole input.
var plainLanguages = map[string]bool{
	"":          true,
	"plaintext": true,
	"text":      true,
	"txt":       true,
	"diff":      true,
}

var jsFamily = map[string]bool{
	"js":         true,
	"jsx":        true,
	"cjs":        true,
	"mjs":        true,
	"ts":         true,
	"tsx":        true,
	"javascript": true,
	"typescript": true,
}

// Params configures one pipeline invocation.
type Params struct {
	// Language selects the grammar and the JSX-only handling.
	Language string

	// Path is the file the language service can resolve; empty for
	// inline snippets, which then degrade to plain tokenization.
	Path string

	// AllowErrors permits diagnostics that would otherwise abort the
	// invocation.
	AllowErrors diagnostic.AllowErrors

	// ShowErrors attaches diagnostics to tokens even when allowed,
	// enabling annotated-but-not-failing output.
	ShowErrors bool
}

// Assembler owns the collaborators and cache for token assembly.
type Assembler struct {
	tokenizer tokenizer.Tokenizer
	service   langsvc.Service
	cache     *quickinfo.Cache
	sanitizer quickinfo.Sanitizer
	isJSXOnly func(string) bool
}

// Option adjusts an Assembler.
type Option func(*Assembler)

// WithCache replaces the default quick-info cache.
func WithCache(cache *quickinfo.Cache) Option {
	return func(a *Assembler) { a.cache = cache }
}

// WithRootDir sets the absolute project root stripped from hover text.
func WithRootDir(dir string) Option {
	return func(a *Assembler) { a.sanitizer.RootDir = dir }
}

// WithJSXClassifier replaces the structural JSX-only check.
func WithJSXClassifier(fn func(string) bool) Option {
	return func(a *Assembler) { a.isJSXOnly = fn }
}

// New builds an Assembler. The tokenizer is required; service may be nil,
// in which case tokens carry styles but no symbol, diagnostic, or
// quick-info annotation.
func New(tok tokenizer.Tokenizer, service langsvc.Service, opts ...Option) *Assembler {
	a := &Assembler{
		tokenizer: tok,
		service:   service,
		cache:     quickinfo.NewCache(quickinfo.DefaultCapacity),
		sanitizer: quickinfo.Sanitizer{VirtualMarker: VirtualScheme},
		isJSXOnly: langsvc.IsJSXOnly,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetTokens assembles every annotated line of text in one call.
func (a *Assembler) GetTokens(ctx context.Context, text string, p Params) ([][]tokens.Token, error) {
	var lines [][]tokens.Token
	err := a.EachLine(ctx, text, p, func(line []tokens.Token) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// EachLine assembles annotated lines and hands each to sink in source
// order. A sink error stops the stream and is returned unchanged. When the
// source carries diagnostics not covered by p.AllowErrors, EachLine fails
// with the formatted report before any line reaches the sink.
func (a *Assembler) EachLine(ctx context.Context, text string, p Params, sink func([]tokens.Token) error) error {
	if a.tokenizer == nil {
		return errors.New("pipeline: tokenizer not initialized")
	}

	if plainLanguages[p.Language] {
		return sink([]tokens.Token{{
			Value:        text,
			Start:        0,
			End:          len(text),
			IsBaseColor:  true,
			IsWhitespace: strings.TrimSpace(text) == "",
		}})
	}

	jsxOnly := jsFamily[p.Language] && a.isJSXOnly(text)
	path := a.effectivePath(p)

	// Fired before the tokenizer starts so language-service latency
	// overlaps grammar/theme loading. Received exactly once.
	metaCh := make(chan metadata, 1)
	go func() {
		metaCh <- a.collectMetadata(ctx, path, p, jsxOnly)
	}()

	var meta metadata
	metaReady := false
	trimmed := jsxOnly
	lineStart := 0

	err := a.tokenizer.StreamLines(ctx, text, p.Language, func(raw []tokenizer.RawToken) error {
		if !metaReady {
			meta = <-metaCh
			metaReady = true
			if meta.err != nil {
				return meta.err
			}
			if len(meta.failing) > 0 {
				return errors.New(diagnostic.Report(text, meta.failing, meta.markers()))
			}
		}

		line, next := a.assembleLine(ctx, raw, lineStart, meta, p, path)
		lineStart = next

		if trimmed {
			if !lineStartsJSX(line) {
				return nil
			}
			trimmed = false
		}
		return sink(line)
	})
	if err != nil {
		return err
	}
	return nil
}

// assembleLine converts one line of raw style runs into annotated tokens,
// returning the absolute offset of the next line's first character.
func (a *Assembler) assembleLine(ctx context.Context, raw []tokenizer.RawToken, lineStart int, meta metadata, p Params, path string) ([]tokens.Token, int) {
	cursor := lineStart
	var line []tokens.Token

	for _, run := range raw {
		tok := a.buildToken(run, cursor)
		cursor += len(run.Content)

		subs := tokens.Split(tok, meta.ranges)
		for i := range subs {
			if !subs[i].IsSymbol {
				continue
			}
			tokens.AttachDiagnostics(&subs[i], meta.attach)
			a.attachQuickInfo(ctx, &subs[i], path)
		}
		line = append(line, subs...)
	}

	// +1 for the newline the tokenizer stripped
	return line, cursor + 1
}

func (a *Assembler) buildToken(run tokenizer.RawToken, start int) tokens.Token {
	tok := tokens.Token{
		Value:        run.Content,
		Start:        start,
		End:          start + len(run.Content),
		IsWhitespace: strings.TrimSpace(run.Content) == "",
	}

	if len(run.Styles) == 1 {
		tok.Style = singleStyle(run.Styles[0])
		tok.IsBaseColor = run.Styles[0].BaseColor
		return tok
	}

	tok.StyleVars = make(map[string]string)
	tok.IsBaseColor = true
	for i, rs := range run.Styles {
		if !rs.BaseColor {
			tok.IsBaseColor = false
		}
		if rs.Color != "" {
			tok.StyleVars[fmt.Sprintf("--%dfg", i)] = rs.Color
		}
		if rs.Italic {
			tok.StyleVars[fmt.Sprintf("--%dfs", i)] = "italic"
		}
		if rs.Bold {
			tok.StyleVars[fmt.Sprintf("--%dfw", i)] = "bold"
		}
		if rs.Underline {
			tok.StyleVars[fmt.Sprintf("--%dtd", i)] = "underline"
		}
	}
	return tok
}

func singleStyle(rs tokenizer.RawStyle) tokens.Style {
	style := tokens.Style{Color: rs.Color}
	if rs.Italic {
		style.FontStyle = "italic"
	}
	if rs.Bold {
		style.FontWeight = "bold"
	}
	if rs.Underline {
		style.TextDecoration = "underline"
	}
	return style
}

func (a *Assembler) attachQuickInfo(ctx context.Context, tok *tokens.Token, path string) {
	if a.service == nil || path == "" {
		return
	}

	key := quickinfo.Key{Path: path, Offset: tok.Start}
	if entry, ok := a.cache.Get(key); ok {
		tok.QuickInfo = entry
		return
	}

	entry, err := a.service.QuickInfoAt(ctx, path, tok.Start)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Int("offset", tok.Start).Msg("quick info lookup failed")
		return
	}
	if entry != nil {
		sanitized := a.sanitizer.Sanitize(*entry)
		entry = &sanitized
	}
	a.cache.Set(key, entry)
	tok.QuickInfo = entry
}

// effectivePath names the snippet for language-service lookups. Inline
// snippets get a virtual name so a service that realizes virtual files can
// resolve them; services that cannot simply report no file, and the
// pipeline degrades to plain annotation.
func (a *Assembler) effectivePath(p Params) string {
	if p.Path != "" || a.service == nil {
		return p.Path
	}
	return VirtualScheme + uuid.NewString() + "." + p.Language
}

func lineStartsJSX(line []tokens.Token) bool {
	for _, tok := range line {
		if strings.Contains(tok.Value, "<") {
			return true
		}
	}
	return false
}
