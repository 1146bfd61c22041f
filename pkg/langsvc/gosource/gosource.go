// Package gosource implements the langsvc contract for Go source files,
// backed by go/parser and go/types.
package gosource

import (
	"context"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snipdoc/snipdoc/pkg/diagnostic"
	"github.com/snipdoc/snipdoc/pkg/langsvc"
	"github.com/snipdoc/snipdoc/pkg/position"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/tools/go/packages"
)

// typeErrorCode is the diagnostic code assigned to go/types errors, which
// carry no public numeric codes of their own.
const typeErrorCode = 1

// Service resolves Go files to parsed symbol nodes, type-check diagnostics,
// and quick info.
type Service struct {
	files map[string]*File
}

var _ langsvc.Service = (*Service)(nil)

// Load type-checks every package under dir and indexes its files.
func Load(ctx context.Context, dir string) (*Service, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, errors.Errorf("loading packages in %s: %w", dir, err)
	}

	svc := &Service{files: make(map[string]*File)}
	for _, pkg := range pkgs {
		for i, astFile := range pkg.Syntax {
			if i >= len(pkg.CompiledGoFiles) {
				break
			}
			path := pkg.CompiledGoFiles[i]
			file := &File{
				name: path,
				fset: pkg.Fset,
				ast:  astFile,
				info: pkg.TypesInfo,
			}
			file.index()
			for _, e := range pkg.TypeErrors {
				// type errors are package-wide; attach each one only to
				// the file it points into
				if e.Fset.Position(e.Pos).Filename != path {
					continue
				}
				file.addTypeError(e)
			}
			svc.files[path] = file
		}
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(svc.files)).Str("dir", dir).Msg("loaded go packages")
	return svc, nil
}

// FromFile builds a single-file service from in-memory source. Type
// checking is best effort: imports resolve against the local toolchain and
// any failures become diagnostics rather than a load error.
func FromFile(name string, src []byte) (*Service, error) {
	file, err := ParseFile(name, src)
	if err != nil {
		return nil, err
	}
	return &Service{files: map[string]*File{name: file}}, nil
}

// ParsedFile implements langsvc.Service.
func (s *Service) ParsedFile(ctx context.Context, path string) (langsvc.ParsedFile, bool) {
	file, ok := s.lookup(path)
	if !ok {
		return nil, false
	}
	return file, true
}

// Diagnostics implements langsvc.Service.
func (s *Service) Diagnostics(ctx context.Context, path string) ([]diagnostic.Diagnostic, error) {
	file, ok := s.lookup(path)
	if !ok {
		return nil, nil
	}
	return file.diags, nil
}

// QuickInfoAt implements langsvc.Service.
func (s *Service) QuickInfoAt(ctx context.Context, path string, offset int) (*quickinfo.Entry, error) {
	file, ok := s.lookup(path)
	if !ok {
		return nil, nil
	}
	return file.quickInfoAt(offset), nil
}

// lookup resolves path against the indexed files, falling back to the
// absolute form so relative caller paths reach Load's absolute keys.
func (s *Service) lookup(path string) (*File, bool) {
	if file, ok := s.files[path]; ok {
		return file, true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	file, ok := s.files[abs]
	return file, ok
}

// File is one parsed Go source file.
type File struct {
	name  string
	fset  *token.FileSet
	ast   *ast.File
	info  *types.Info
	nodes []langsvc.SymbolNode
	diags []diagnostic.Diagnostic

	// deprecated holds the declaration positions of symbols whose doc
	// comment carries a "Deprecated:" paragraph.
	deprecated map[types.Object]bool
}

var _ langsvc.ParsedFile = (*File)(nil)

// ParseFile parses and best-effort type-checks a single file.
func ParseFile(name string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", name, err)
	}

	file := &File{
		name: name,
		fset: fset,
		ast:  astFile,
		info: &types.Info{
			Defs: make(map[*ast.Ident]types.Object),
			Uses: make(map[*ast.Ident]types.Object),
		},
	}

	conf := types.Config{
		Importer: importer.Default(),
		Error: func(err error) {
			if typeErr, ok := err.(types.Error); ok {
				file.addTypeError(typeErr)
			}
		},
	}
	// The returned error repeats what the Error callback already saw.
	_, _ = conf.Check(astFile.Name.Name, fset, []*ast.File{astFile}, file.info)

	file.index()
	return file, nil
}

// SymbolNodes implements langsvc.ParsedFile.
func (f *File) SymbolNodes() []langsvc.SymbolNode {
	return f.nodes
}

func (f *File) index() {
	f.collectDeprecated()

	importNames := make(map[*ast.Ident]bool)
	for _, spec := range f.ast.Imports {
		if spec.Name != nil {
			importNames[spec.Name] = true
		}
		f.nodes = append(f.nodes, langsvc.SymbolNode{
			Kind: langsvc.NodeImportSpecifier,
			Span: f.span(spec.Path.Pos(), spec.Path.End()),
		})
	}

	ast.Inspect(f.ast, func(node ast.Node) bool {
		ident, ok := node.(*ast.Ident)
		if !ok {
			return true
		}
		kind := langsvc.NodeIdentifier
		if importNames[ident] {
			kind = langsvc.NodeImportClause
		}
		f.nodes = append(f.nodes, langsvc.SymbolNode{
			Kind:       kind,
			Span:       f.span(ident.Pos(), ident.End()),
			Deprecated: f.isDeprecated(ident),
		})
		return true
	})
}

// collectDeprecated records objects declared with a "Deprecated:" doc
// paragraph, the Go analogue of a @deprecated tag.
func (f *File) collectDeprecated() {
	f.deprecated = make(map[types.Object]bool)

	mark := func(ident *ast.Ident) {
		if f.info == nil {
			return
		}
		if obj := f.info.Defs[ident]; obj != nil {
			f.deprecated[obj] = true
		}
	}

	for _, decl := range f.ast.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if hasDeprecatedDoc(d.Doc) {
				mark(d.Name)
			}
		case *ast.GenDecl:
			declDoc := hasDeprecatedDoc(d.Doc)
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					if declDoc || hasDeprecatedDoc(sp.Doc) {
						mark(sp.Name)
					}
				case *ast.ValueSpec:
					if declDoc || hasDeprecatedDoc(sp.Doc) {
						for _, name := range sp.Names {
							mark(name)
						}
					}
				}
			}
		}
	}
}

func (f *File) isDeprecated(ident *ast.Ident) bool {
	if f.info == nil {
		return false
	}
	if obj := f.info.Defs[ident]; obj != nil && f.deprecated[obj] {
		return true
	}
	if obj := f.info.Uses[ident]; obj != nil && f.deprecated[obj] {
		return true
	}
	return false
}

func (f *File) addTypeError(e types.Error) {
	offset := e.Fset.Position(e.Pos).Offset
	length := f.identLengthAt(offset)

	severity := diagnostic.Error
	if e.Soft {
		severity = diagnostic.Warning
	}
	f.diags = append(f.diags, diagnostic.Diagnostic{
		Code:     typeErrorCode,
		Message:  e.Msg,
		Start:    offset,
		Length:   length,
		Severity: severity,
	})
}

func (f *File) identLengthAt(offset int) int {
	for _, node := range f.nodes {
		if node.Span.Start == offset {
			return node.Span.Len()
		}
	}
	// nodes may not be indexed yet when errors arrive during Check
	length := 1
	ast.Inspect(f.ast, func(node ast.Node) bool {
		ident, ok := node.(*ast.Ident)
		if !ok {
			return true
		}
		if f.fset.Position(ident.Pos()).Offset == offset {
			length = len(ident.Name)
			return false
		}
		return true
	})
	return length
}

func (f *File) quickInfoAt(offset int) *quickinfo.Entry {
	var found *ast.Ident
	ast.Inspect(f.ast, func(node ast.Node) bool {
		ident, ok := node.(*ast.Ident)
		if !ok {
			return true
		}
		span := f.span(ident.Pos(), ident.End())
		if offset >= span.Start && offset < span.End {
			found = ident
			return false
		}
		return true
	})
	if found == nil || f.info == nil {
		return nil
	}

	obj := f.info.ObjectOf(found)
	if obj == nil {
		return nil
	}

	entry := &quickinfo.Entry{
		DisplayText:       types.ObjectString(obj, types.RelativeTo(obj.Pkg())),
		DocumentationText: f.docFor(obj),
	}
	return entry
}

// docFor returns the doc comment of obj's declaration when it lives in this
// file.
func (f *File) docFor(obj types.Object) string {
	var doc string
	for _, decl := range f.ast.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Name.Pos() == obj.Pos() && d.Doc != nil {
				doc = d.Doc.Text()
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					if sp.Name.Pos() == obj.Pos() {
						doc = specDoc(sp.Doc, d.Doc)
					}
				case *ast.ValueSpec:
					for _, name := range sp.Names {
						if name.Pos() == obj.Pos() {
							doc = specDoc(sp.Doc, d.Doc)
						}
					}
				}
			}
		}
	}
	return strings.TrimSpace(doc)
}

func specDoc(specDoc, declDoc *ast.CommentGroup) string {
	if specDoc != nil {
		return specDoc.Text()
	}
	if declDoc != nil {
		return declDoc.Text()
	}
	return ""
}

func hasDeprecatedDoc(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, line := range strings.Split(doc.Text(), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Deprecated:") {
			return true
		}
	}
	return false
}

func (f *File) span(start, end token.Pos) position.Span {
	return position.NewSpan(f.fset.Position(start).Offset, f.fset.Position(end).Offset)
}
