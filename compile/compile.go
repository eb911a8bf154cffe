/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package compile turns an entry file and its context data into one
// program text, ready for evaluation.
package compile

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/tsxpack/bundler"
	"bennypowers.dev/tsxpack/config"
	"bennypowers.dev/tsxpack/emitter"
	tsxfs "bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/resolver"
	"bennypowers.dev/tsxpack/source"
)

var (
	// ErrUnsupportedEntry indicates an entry file with an extension other
	// than .ts, .tsx, .js or .jsx.
	ErrUnsupportedEntry = errors.New("unsupported entry file")

	// ErrEntryNotFound indicates the entry file does not exist.
	ErrEntryNotFound = errors.New("entry file not found")

	// ErrEntryExports indicates an entry module that exports bindings.
	// A compiled program is evaluated as a script, where export
	// statements are syntax errors.
	ErrEntryExports = errors.New("entry module must not export bindings")
)

var entryExtensions = []string{"ts", "tsx", "js", "jsx"}

// Compiler compiles entries of one project. It holds no per-compile
// state, so one Compiler may serve concurrent requests.
type Compiler struct {
	fs      tsxfs.FileSystem
	rootDir string
	cfg     *config.Config

	// mu serializes debug artifact writes.
	mu sync.Mutex
}

// New creates a Compiler for the project at rootDir. A nil cfg uses
// config.Default().
func New(fsys tsxfs.FileSystem, rootDir string, cfg *config.Config) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Compiler{fs: fsys, rootDir: filepath.Clean(rootDir), cfg: cfg}
}

// Config returns the compiler's configuration.
func (c *Compiler) Config() *config.Config {
	return c.cfg
}

// Option customizes a single compile.
type Option func(*compileOptions)

type compileOptions struct {
	aliases resolver.Aliases
	hook    bundler.MetaHook
}

// WithAlias binds key to target for one compile. Relative targets are
// taken from the project root.
func WithAlias(key, target string) Option {
	return func(o *compileOptions) {
		o.aliases[key] = target
	}
}

// WithHook replaces the import.meta hook for one compile.
func WithHook(hook bundler.MetaHook) Option {
	return func(o *compileOptions) {
		o.hook = hook
	}
}

// Compile bundles entryFile, binds contextData to the configured global
// and returns the emitted program. The program is also written to the
// debug artifact when one is configured.
func (c *Compiler) Compile(entryFile string, contextData any, opts ...Option) (string, error) {
	entry, err := c.entry(entryFile)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(contextData)
	if err != nil {
		return "", fmt.Errorf("failed to encode context data: %w", err)
	}

	b, err := c.bundler(map[string]json.RawMessage{c.contextGlobal(): data}, opts)
	if err != nil {
		return "", err
	}

	bundles, err := b.Bundle(bundler.EntryTable{"main": entry})
	if err != nil {
		return "", err
	}
	if bundles["main"].EntryExports {
		return "", fmt.Errorf("%w: %s", ErrEntryExports, entry.Path)
	}

	program, err := emitter.Emit(bundles["main"], c.emitOptions())
	if err != nil {
		return "", err
	}

	c.writeDebugArtifact(program)
	return program, nil
}

// CompileEntries compiles every named entry in one invocation. No
// context data is bound.
func (c *Compiler) CompileEntries(entries map[string]string, opts ...Option) (map[string]string, error) {
	table := make(bundler.EntryTable, len(entries))
	for name, p := range entries {
		entry, err := c.entry(p)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		table[name] = entry
	}

	b, err := c.bundler(nil, opts)
	if err != nil {
		return nil, err
	}

	bundles, err := b.Bundle(table)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(bundles))
	for name, bundle := range bundles {
		program, err := emitter.Emit(bundle, c.emitOptions())
		if err != nil {
			return nil, err
		}
		out[name] = program
	}
	return out, nil
}

func (c *Compiler) entry(entryFile string) (source.File, error) {
	p := entryFile
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.rootDir, filepath.FromSlash(p))
	}
	entry := source.Real(p)

	if !slices.Contains(entryExtensions, entry.Ext()) {
		return source.File{}, fmt.Errorf("%w: %s", ErrUnsupportedEntry, entry.Path)
	}
	if !tsxfs.IsFile(c.fs, entry.Path) {
		return source.File{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entry.Path)
	}
	return entry, nil
}

func (c *Compiler) bundler(globals map[string]json.RawMessage, opts []Option) (*bundler.Bundler, error) {
	o := compileOptions{aliases: resolver.Aliases(c.cfg.ResolvedAliases(c.rootDir))}
	for _, opt := range opts {
		opt(&o)
	}
	for key, target := range o.aliases {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("alias for %s has an empty name", target)
		}
		if !filepath.IsAbs(target) {
			o.aliases[key] = filepath.Join(c.rootDir, filepath.FromSlash(target))
		}
	}

	return bundler.New(bundler.Options{
		FS:          c.fs,
		RootDir:     c.cfg.AbsoluteRoot,
		Aliases:     o.aliases,
		JSXFactory:  c.cfg.JSX.Factory,
		JSXFragment: c.cfg.JSX.Fragment,
		Hook:        o.hook,
		Globals:     globals,
	}), nil
}

func (c *Compiler) emitOptions() emitter.Options {
	return emitter.Options{
		Minify:  c.cfg.Minify,
		Newline: c.cfg.NewlineSequence(),
	}
}

func (c *Compiler) contextGlobal() string {
	if c.cfg.ContextGlobal == "" {
		return config.DefaultContextGlobal
	}
	return c.cfg.ContextGlobal
}

func (c *Compiler) writeDebugArtifact(program string) {
	if c.cfg.DebugArtifact == "" {
		return
	}
	p := c.cfg.DebugArtifact
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.rootDir, p)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fs.WriteFile(p, []byte(program), 0644); err != nil {
		logger.Warn("failed to write %s: %v", p, err)
		return
	}
	logger.Debug("wrote %s", p)
}
