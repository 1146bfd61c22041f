// Package chromatok implements the tokenizer contract with the chroma
// lexer library.
package chromatok

import (
	"context"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"
	"github.com/snipdoc/snipdoc/pkg/tokenizer"
	"gitlab.com/tozd/go/errors"
)

// Tokenizer resolves chroma lexers by language alias and renders style runs
// under one or more chroma themes.
type Tokenizer struct {
	names  []string
	themes []*chroma.Style
}

// New builds a tokenizer for the given theme names. At least one theme is
// required; an unknown theme name is a configuration error.
func New(themeNames ...string) (*Tokenizer, error) {
	if len(themeNames) == 0 {
		return nil, errors.New("chromatok: at least one theme is required")
	}

	t := &Tokenizer{names: themeNames}
	for _, name := range themeNames {
		style, ok := styles.Registry[name]
		if !ok {
			return nil, errors.Errorf("chromatok: unknown theme %q", name)
		}
		t.themes = append(t.themes, style)
	}
	return t, nil
}

// ThemeCount implements tokenizer.Tokenizer.
func (t *Tokenizer) ThemeCount() int {
	return len(t.themes)
}

// CodeToTokens implements tokenizer.Tokenizer.
func (t *Tokenizer) CodeToTokens(ctx context.Context, text, language string) ([][]tokenizer.RawToken, error) {
	var lines [][]tokenizer.RawToken
	err := t.StreamLines(ctx, text, language, func(line []tokenizer.RawToken) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// StreamLines implements tokenizer.Tokenizer. Lines are emitted in source
// order; the number of emitted lines always equals the number of lines in
// text, regardless of how the lexer batches its output.
func (t *Tokenizer) StreamLines(ctx context.Context, text, language string, sink func([]tokenizer.RawToken) error) error {
	if t == nil || len(t.themes) == 0 {
		return errors.New("chromatok: tokenizer not initialized")
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		zerolog.Ctx(ctx).Debug().Str("language", language).Msg("no lexer registered, falling back to plain")
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return errors.Errorf("tokenising %s: %w", language, err)
	}

	expected := strings.Count(text, "\n") + 1
	emitted := 0
	var line []tokenizer.RawToken

	flush := func() error {
		if emitted >= expected {
			// the lexer appended a trailing newline the source lacks
			line = nil
			return nil
		}
		emitted++
		done := line
		line = nil
		return sink(done)
	}

	for tok := iterator(); tok != chroma.EOF; tok = iterator() {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("tokenising %s: %w", language, err)
		}
		value := strings.ReplaceAll(tok.Value, "\r\n", "\n")
		parts := strings.Split(value, "\n")
		for i, part := range parts {
			if i > 0 {
				if err := flush(); err != nil {
					return err
				}
			}
			if part != "" {
				line = append(line, t.styleRun(part, tok.Type))
			}
		}
	}

	for emitted < expected {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tokenizer) styleRun(content string, tokenType chroma.TokenType) tokenizer.RawToken {
	runStyles := make([]tokenizer.RawStyle, len(t.themes))
	for i, theme := range t.themes {
		entry := theme.Get(tokenType)
		base := theme.Get(chroma.Text)

		style := tokenizer.RawStyle{
			Bold:      entry.Bold == chroma.Yes,
			Italic:    entry.Italic == chroma.Yes,
			Underline: entry.Underline == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			style.Color = entry.Colour.String()
		}
		style.BaseColor = !entry.Colour.IsSet() || entry.Colour == base.Colour
		runStyles[i] = style
	}
	return tokenizer.RawToken{Content: content, Styles: runStyles}
}
