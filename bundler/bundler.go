/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package bundler walks the import graph of each entry point and merges
// the loaded modules into one self-contained module per entry.
package bundler

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	tsxfs "bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/loader"
	"bennypowers.dev/tsxpack/resolver"
	"bennypowers.dev/tsxpack/source"
)

// EntryTable maps logical entry names to entry files.
type EntryTable map[string]source.File

// Loader loads and transforms one module.
type Loader interface {
	Load(file source.File) (*loader.Module, error)
}

// Options configures a Bundler.
type Options struct {
	// FS is read by the default resolver and loader.
	FS tsxfs.FileSystem

	// RootDir anchors absolute specifiers.
	RootDir string

	// Aliases rewrite bare specifiers before the node_modules walk.
	Aliases resolver.Aliases

	// JSXFactory and JSXFragment override the React defaults.
	JSXFactory  string
	JSXFragment string

	// Hook synthesizes import.meta. Defaults to DefaultHook.
	Hook MetaHook

	// Globals are assigned to globalThis before the program runs.
	Globals map[string]json.RawMessage

	// NewResolver and NewLoader replace the filesystem-backed
	// capabilities. They are called once per Bundle call, so each
	// invocation gets isolated state.
	NewResolver func() resolver.Resolver
	NewLoader   func(marks *source.MarkGenerator) Loader
}

// ModuleRecord describes one module merged into a bundle.
type ModuleRecord struct {
	File    source.File
	IsEntry bool
	// Index is the module's position in the merged namespace;
	// dependencies come before their importers.
	Index int
}

// Bundle is the merged output for one entry.
type Bundle struct {
	Name    string
	Entry   source.File
	Modules []ModuleRecord
	// Cycle is one circular import path, if the graph has any.
	Cycle []string
	// EntryExports reports whether the entry module exports bindings,
	// which keeps export statements in the merged code.
	EntryExports bool
	// Code is the merged program, before emission.
	Code string
}

// Bundler merges import graphs. It holds configuration only; all
// traversal state is created per Bundle call, so a Bundler may be used
// from several goroutines.
type Bundler struct {
	opts Options
	hook MetaHook
}

// New creates a Bundler.
func New(opts Options) *Bundler {
	hook := opts.Hook
	if hook == nil {
		hook = DefaultHook{}
	}
	return &Bundler{opts: opts, hook: hook}
}

// session is the state of one Bundle call.
type session struct {
	resolver resolver.Resolver
	loader   Loader
}

func (b *Bundler) newSession() *session {
	marks := source.NewMarkGenerator()

	var r resolver.Resolver
	if b.opts.NewResolver != nil {
		r = b.opts.NewResolver()
	} else {
		r = resolver.NewNodeResolver(resolver.Options{
			FS:      b.opts.FS,
			RootDir: b.opts.RootDir,
			Aliases: b.opts.Aliases,
		})
	}

	var l Loader
	if b.opts.NewLoader != nil {
		l = b.opts.NewLoader(marks)
	} else {
		l = loader.New(loader.Options{
			FS:          b.opts.FS,
			Marks:       marks,
			JSXFactory:  b.opts.JSXFactory,
			JSXFragment: b.opts.JSXFragment,
		})
	}

	return &session{resolver: resolver.NewCache(r), loader: l}
}

// Bundle produces one bundle per entry. Any failure aborts the call;
// partial bundles are never returned.
func (b *Bundler) Bundle(entries EntryTable) (map[string]*Bundle, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	s := b.newSession()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	bundles := make(map[string]*Bundle, len(entries))
	for _, name := range names {
		entry := entries[name]
		if entry.IsReal() {
			entry = source.Real(entry.Path)
		}

		graph, err := s.walk(entry)
		if err != nil {
			return nil, &EntryError{Entry: name, Err: err}
		}

		bundle, err := b.merge(name, graph)
		if err != nil {
			return nil, &EntryError{Entry: name, Err: err}
		}
		bundles[name] = bundle
	}

	if r, ok := s.resolver.(*resolver.Cache); ok {
		hits, misses := r.Stats()
		logger.Debug("resolution cache: %d hits, %d misses", hits, misses)
	}
	return bundles, nil
}

// walk loads every module reachable from entry. The worklist is
// first-in first-out and a file is enqueued at most once, so each module
// is loaded exactly once and cycles terminate.
func (s *session) walk(entry source.File) (*Graph, error) {
	g := newGraph(entry)
	queue := []source.File{entry}
	seen := map[string]bool{entry.Key(): true}

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]

		m, err := s.loader.Load(file)
		if err != nil {
			return nil, err
		}
		g.addModule(m)

		for _, imp := range m.Imports {
			target, err := s.resolver.Resolve(file, imp.Specifier)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", file.Path, imp.Line, err)
			}
			g.addEdge(file.Key(), imp.Specifier, target.Key())
			if !seen[target.Key()] {
				seen[target.Key()] = true
				queue = append(queue, target)
			}
		}
	}

	if cycle := g.FindCycle(); cycle != nil {
		logger.Warn("circular import: %s (%s is imported by %s)",
			strings.Join(cycle, " -> "), cycle[0], strings.Join(g.Dependents(cycle[0]), ", "))
	}
	return g, nil
}
