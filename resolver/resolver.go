/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver maps import specifiers to files using the Node.js
// require() algorithm, extended with the TypeScript extension substitutes.
package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	tsxfs "bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/source"
	"bennypowers.dev/tsxpack/specifier"
)

// Resolver resolves a specifier written in base to the file it names.
type Resolver interface {
	Resolve(base source.File, spec string) (source.File, error)
}

// extensions are probed in this order, both for files and for index files.
var extensions = []string{"ts", "tsx", "js", "jsx", "json", "node"}

// tsSubstitutes lists the TypeScript sources that may stand in for an
// emitted JavaScript file. ".ts" is always tried before ".tsx", even for
// ".jsx", matching the TypeScript compiler.
var tsSubstitutes = map[string][]string{
	"js":  {"ts", "tsx"},
	"jsx": {"ts", "tsx"},
	"mjs": {"mts"},
	"cjs": {"cts"},
}

// Options configures a NodeResolver.
type Options struct {
	// FS is the filesystem to probe. Required.
	FS tsxfs.FileSystem

	// RootDir anchors absolute specifiers. Defaults to "/".
	RootDir string

	// Aliases rewrite bare specifiers before the node_modules walk.
	Aliases Aliases
}

// NodeResolver implements Resolver over a FileSystem.
type NodeResolver struct {
	fs      tsxfs.FileSystem
	rootDir string
	aliases Aliases
}

// NewNodeResolver creates a resolver using the node_modules algorithm.
func NewNodeResolver(opts Options) *NodeResolver {
	root := opts.RootDir
	if root == "" {
		root = string(filepath.Separator)
	}
	return &NodeResolver{
		fs:      opts.FS,
		rootDir: root,
		aliases: opts.Aliases,
	}
}

// attempts records every candidate path probed during one resolution.
type attempts struct {
	paths []string
}

func (a *attempts) add(p string) {
	a.paths = append(a.paths, p)
}

// Resolve implements Resolver.
func (r *NodeResolver) Resolve(base source.File, spec string) (source.File, error) {
	if !base.IsReal() {
		return source.File{}, &ResolutionError{Base: base.Key(), Specifier: spec, Err: ErrUnsupportedFile}
	}

	tried := &attempts{}
	p, err := r.resolve(base, spec, tried)
	if err != nil {
		return source.File{}, &ResolutionError{
			Base:      base.Path,
			Specifier: spec,
			Attempted: tried.paths,
			Err:       err,
		}
	}
	return source.Real(p), nil
}

func (r *NodeResolver) resolve(base source.File, spec string, tried *attempts) (string, error) {
	if target, ok := r.aliases.Match(spec); ok {
		return r.resolveFileOrDirectory(target, tried)
	}

	parsed := specifier.Parse(spec)
	switch parsed.Kind {
	case specifier.KindAbsolute:
		return r.resolveFileOrDirectory(filepath.Join(r.rootDir, filepath.FromSlash(spec)), tried)
	case specifier.KindRelative:
		return r.resolveFileOrDirectory(filepath.Join(base.Dir(), filepath.FromSlash(spec)), tried)
	default:
		return r.resolveNodeModules(base.Dir(), parsed, tried)
	}
}

func (r *NodeResolver) resolveFileOrDirectory(p string, tried *attempts) (string, error) {
	if file, err := r.resolveAsFile(p, tried); err == nil {
		return file, nil
	}
	return r.resolveAsDirectory(p, tried)
}

// resolveAsFile returns p if it is a file, otherwise p with each
// extension appended, otherwise the TypeScript substitutes for p's own
// extension.
func (r *NodeResolver) resolveAsFile(p string, tried *attempts) (string, error) {
	tried.add(p)
	if tsxfs.IsFile(r.fs, p) {
		return p, nil
	}

	for _, ext := range extensions {
		candidate := p + "." + ext
		tried.add(candidate)
		if tsxfs.IsFile(r.fs, candidate) {
			return candidate, nil
		}
	}

	oldExt := strings.TrimPrefix(filepath.Ext(p), ".")
	stem := strings.TrimSuffix(p, oldExt)
	for _, ext := range tsSubstitutes[oldExt] {
		candidate := stem + ext
		tried.add(candidate)
		if tsxfs.IsFile(r.fs, candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: file %s", ErrNotFound, p)
}

// resolveAsDirectory consults p/package.json, which is never honored,
// then p/index.EXT.
func (r *NodeResolver) resolveAsDirectory(p string, tried *attempts) (string, error) {
	var mainErr error
	pkgPath := filepath.Join(p, "package.json")
	tried.add(pkgPath)
	if tsxfs.IsFile(r.fs, pkgPath) {
		mainErr = r.resolvePackageMain(pkgPath)
	}

	index, err := r.resolveIndex(p, tried)
	if err == nil {
		return index, nil
	}
	if mainErr != nil {
		return "", mainErr
	}
	return "", err
}

// resolvePackageMain always fails: packages must be reachable through
// their index file. The declared main is read only for the error message.
func (r *NodeResolver) resolvePackageMain(pkgPath string) error {
	var pkg struct {
		Main string `json:"main"`
	}
	data, err := r.fs.ReadFile(pkgPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnsupportedPackageMain, pkgPath, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %v", ErrUnsupportedPackageMain, pkgPath, err)
	}
	if pkg.Main == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedPackageMain, pkgPath)
	}
	return fmt.Errorf("%w: %s declares main %q", ErrUnsupportedPackageMain, pkgPath, pkg.Main)
}

func (r *NodeResolver) resolveIndex(p string, tried *attempts) (string, error) {
	for _, ext := range extensions {
		candidate := filepath.Join(p, "index."+ext)
		tried.add(candidate)
		if tsxfs.IsFile(r.fs, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: index in %s", ErrNotFound, p)
}

// resolveNodeModules walks from dir up to the filesystem root, trying
// <ancestor>/node_modules/<spec> at each level.
func (r *NodeResolver) resolveNodeModules(dir string, spec *specifier.Specifier, tried *attempts) (string, error) {
	startDir := dir
	var mainErr error

	for {
		nodeModules := filepath.Join(dir, "node_modules")
		if tsxfs.IsDir(r.fs, nodeModules) {
			p, err := r.resolveFileOrDirectory(filepath.Join(nodeModules, filepath.FromSlash(spec.Raw)), tried)
			if err == nil {
				return p, nil
			}
			if mainErr == nil && errors.Is(err, ErrUnsupportedPackageMain) {
				mainErr = err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if mainErr != nil {
		return "", mainErr
	}
	return "", fmt.Errorf("%w: package %s (looked in node_modules starting from %s)", ErrNotFound, spec.Raw, startDir)
}
