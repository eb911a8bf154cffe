/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package loader reads TypeScript/JSX modules and runs the per-module
// transform pipeline: scope marking, legacy decorator lowering, JSX
// lowering, type erasure and runtime helper injection.
package loader

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	tsxfs "bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/source"
)

const (
	// DefaultJSXFactory is the function JSX elements are lowered to.
	DefaultJSXFactory = "React.createElement"
	// DefaultJSXFragment is the component JSX fragments are lowered to.
	DefaultJSXFragment = "React.Fragment"
)

// Legacy decorators with assignment semantics for class fields, and no
// design-time type metadata.
const tsconfigRaw = `{
  "compilerOptions": {
    "experimentalDecorators": true,
    "useDefineForClassFields": false
  }
}`

// Options configures a Loader.
type Options struct {
	// FS is the filesystem to read from. Required.
	FS tsxfs.FileSystem

	// Marks supplies the per-module scope markers. One generator per
	// compile invocation; a fresh one is created when nil.
	Marks *source.MarkGenerator

	// JSXFactory and JSXFragment override the React defaults.
	JSXFactory  string
	JSXFragment string
}

// Loader loads one module at a time. A Loader belongs to a single
// compile invocation and is not safe for concurrent use.
type Loader struct {
	fs          tsxfs.FileSystem
	marks       *source.MarkGenerator
	jsxFactory  string
	jsxFragment string
	scanner     *Scanner
}

// New creates a Loader.
func New(opts Options) *Loader {
	l := &Loader{
		fs:          opts.FS,
		marks:       opts.Marks,
		jsxFactory:  opts.JSXFactory,
		jsxFragment: opts.JSXFragment,
		scanner:     NewScanner(),
	}
	if l.marks == nil {
		l.marks = source.NewMarkGenerator()
	}
	if l.jsxFactory == "" {
		l.jsxFactory = DefaultJSXFactory
	}
	if l.jsxFragment == "" {
		l.jsxFragment = DefaultJSXFragment
	}
	return l
}

// Load reads, parses and transforms file. A syntax error yields a
// *ParseError and no module.
func (l *Loader) Load(file source.File) (*Module, error) {
	if !file.IsReal() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, file)
	}

	esLoader, err := loaderFor(file)
	if err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Path, err)
	}

	m := &Module{
		File:       file,
		JSX:        file.IsJSX(),
		JSON:       esLoader == api.LoaderJSON,
		Unresolved: l.marks.Fresh(),
		TopLevel:   l.marks.Fresh(),
	}

	result := api.Transform(string(data), l.transformOptions(m, esLoader))
	if len(result.Errors) > 0 {
		return nil, newParseError(file.Path, result.Errors[0])
	}
	for _, w := range result.Warnings {
		logger.Debug("%s: %s", file.Path, w.Text)
	}

	if m.JSON {
		// The bundler links JSON documents itself; keep the source text.
		m.Code = string(data)
		return m, nil
	}

	m.Code = string(result.Code)
	m.UsesImportMeta = strings.Contains(m.Code, m.MetaIdent())

	scanned, err := l.scanner.Scan(result.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", file.Path, err)
	}
	m.Imports = scanned.Imports
	m.Helpers = scanned.Helpers
	m.HasExports = scanned.HasExports

	logger.Debug("loaded %s: %d imports, helpers %v", m, len(m.Imports), m.Helpers)
	return m, nil
}

// transformOptions runs the whole pipeline as one esbuild transform.
// esbuild binds scopes while parsing, then lowers decorators and JSX and
// strips types while printing; helpers are emitted once per file.
func (l *Loader) transformOptions(m *Module, esLoader api.Loader) api.TransformOptions {
	return api.TransformOptions{
		Loader:         esLoader,
		Sourcefile:     m.File.Path,
		Target:         api.ES2020,
		TsconfigRaw:    tsconfigRaw,
		JSX:            api.JSXTransform,
		JSXFactory:     l.jsxFactory,
		JSXFragment:    l.jsxFragment,
		JSXSideEffects: true,
		Define: map[string]string{
			"import.meta": m.MetaIdent(),
		},
		LegalComments: api.LegalCommentsNone,
		Charset:       api.CharsetUTF8,
		LogLevel:      api.LogLevelSilent,
	}
}

// loaderFor picks the grammar from the extension. JavaScript sources are
// parsed with the TypeScript grammar; JSX is enabled only for .tsx/.jsx.
func loaderFor(file source.File) (api.Loader, error) {
	switch file.Ext() {
	case "ts", "mts", "cts", "js", "mjs", "cjs":
		return api.LoaderTS, nil
	case "tsx", "jsx":
		return api.LoaderTSX, nil
	case "json":
		return api.LoaderJSON, nil
	default:
		return api.LoaderNone, fmt.Errorf("%w: %s", ErrUnsupportedModule, file.Path)
	}
}
