package annotate

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/snipdoc/snipdoc/pkg/config"
	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/langsvc"
	"github.com/snipdoc/snipdoc/pkg/langsvc/gosource"
	"github.com/snipdoc/snipdoc/pkg/pipeline"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
	"github.com/snipdoc/snipdoc/pkg/tokenizer/chromatok"
	"github.com/snipdoc/snipdoc/pkg/tokens"
)

type Handler struct {
	patterns    []string
	language    string
	themes      []string
	allowErrors string
	showErrors  bool
	configPath  string
}

// fileResult is one annotated file in the JSON output.
type fileResult struct {
	Path  string           `json:"path"`
	Lines [][]tokens.Token `json:"lines"`
}

func NewAnnotateCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "annotate <glob>...",
		Short: "emit annotated token lines for matching source files as JSON",
	}

	cmd.Flags().StringVar(&me.language, "lang", "", "force a language instead of detecting by extension")
	cmd.Flags().StringSliceVar(&me.themes, "theme", nil, "theme names (repeatable, overrides config)")
	cmd.Flags().StringVar(&me.allowErrors, "allow-errors", "", "\"true\" or comma-separated diagnostic codes to permit")
	cmd.Flags().BoolVar(&me.showErrors, "show-errors", false, "attach permitted diagnostics to tokens")
	cmd.Flags().StringVar(&me.configPath, "config", "", "path to snipdoc.hcl")
	cmd.Args = cobra.MinimumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.patterns = args
		return me.Run(cmd.Context(), cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer) error {
	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, me.configPath)
	if err != nil {
		return err
	}

	themes := cfg.Themes
	if len(me.themes) > 0 {
		themes = me.themes
	}
	tok, err := chromatok.New(themes...)
	if err != nil {
		return err
	}

	allowValue := cfg.AllowErrors
	if me.allowErrors != "" {
		allowValue = me.allowErrors
	}
	allow, err := diagnostic.ParseAllowErrors(allowValue)
	if err != nil {
		return err
	}

	paths, err := me.resolve(fs)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no files match %v", me.patterns)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}

	asm := pipeline.New(tok, me.languageService(ctx, paths, cwd),
		pipeline.WithCache(quickinfo.NewCache(cfg.CacheSize)),
		pipeline.WithRootDir(cwd),
	)

	var results []fileResult
	var errs error
	for _, path := range paths {
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("reading %s: %w", path, err))
			continue
		}

		lines, err := asm.GetTokens(ctx, string(content), pipeline.Params{
			Language:    me.languageFor(path),
			Path:        path,
			AllowErrors: allow,
			ShowErrors:  me.showErrors || cfg.ShowErrors,
		})
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("annotating %s: %w", path, err))
			continue
		}
		results = append(results, fileResult{Path: path, Lines: lines})
	}
	if errs != nil {
		return errs
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func (me *Handler) resolve(fs afero.Fs) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range me.patterns {
		matches, err := doublestar.Glob(afero.NewIOFS(fs), pattern)
		if err != nil {
			return nil, errors.Errorf("resolving glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// languageService loads the Go language service when any matched file is Go
// source; other languages run grammar-only.
func (me *Handler) languageService(ctx context.Context, paths []string, dir string) langsvc.Service {
	hasGo := false
	for _, p := range paths {
		if strings.HasSuffix(p, ".go") {
			hasGo = true
			break
		}
	}
	if !hasGo {
		return nil
	}

	svc, err := gosource.Load(ctx, dir)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("go analysis unavailable, continuing grammar-only")
		return nil
	}
	return svc
}

var extLanguages = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "tsx",
	".js":   "javascript",
	".jsx":  "jsx",
	".mjs":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".sh":   "bash",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".md":   "markdown",
	".txt":  "plaintext",
	".diff": "diff",
}

func (me *Handler) languageFor(path string) string {
	if me.language != "" {
		return me.language
	}
	if lang, ok := extLanguages[filepath.Ext(path)]; ok {
		return lang
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
