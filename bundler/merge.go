/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package bundler

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// namespace keeps esbuild away from the real filesystem: every path it
// sees was produced by the traversal.
const namespace = "tsxpack"

// merge links the graph into a single module. Top-level bindings are
// renamed on collision and no import or export of an internal module
// survives. Nothing is tree-shaken: an entry's trailing expression
// statement is the program's result even when it has no side effects.
func (b *Bundler) merge(name string, g *Graph) (*Bundle, error) {
	order := g.Order()
	if len(order) != g.Len() {
		return nil, fmt.Errorf("%w: %d of %d modules reachable from %s", ErrMerge, len(order), g.Len(), g.Entry())
	}

	entryKey := g.Entry().Key()
	records := make([]ModuleRecord, len(order))
	contents := make(map[string]string, len(order))

	for i, key := range order {
		m := g.Module(key)
		rec := ModuleRecord{File: m.File, IsEntry: key == entryKey, Index: i}
		records[i] = rec

		props, err := b.hook.ImportMetaProps(rec.File, rec.IsEntry)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %w", ErrHook, m.File, err)
		}

		code := m.Code
		if m.UsesImportMeta {
			prelude, err := metaObject(m.MetaIdent(), props)
			if err != nil {
				return nil, fmt.Errorf("%w for %s: %w", ErrHook, m.File, err)
			}
			code = prelude + code
		}
		contents[key] = code
	}

	banner, err := b.banner()
	if err != nil {
		return nil, err
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{entryKey},
		Bundle:        true,
		TreeShaking:   api.TreeShakingFalse,
		Write:         false,
		Outfile:       name + ".js",
		Format:        api.FormatESModule,
		Platform:      api.PlatformNeutral,
		Target:        api.ES2020,
		Charset:       api.CharsetUTF8,
		LegalComments: api.LegalCommentsNone,
		LogLevel:      api.LogLevelSilent,
		Banner:        map[string]string{"js": banner},
		Plugins:       []api.Plugin{graphPlugin(g, contents)},
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMerge, formatMessages(result.Errors))
	}
	if len(result.OutputFiles) != 1 {
		return nil, fmt.Errorf("%w: expected one output file, got %d", ErrMerge, len(result.OutputFiles))
	}

	return &Bundle{
		Name:         name,
		Entry:        g.Entry(),
		Modules:      records,
		Cycle:        g.FindCycle(),
		EntryExports: g.Module(entryKey).HasExports,
		Code:         string(result.OutputFiles[0].Contents),
	}, nil
}

// banner assigns the configured globals, sorted by name.
func (b *Bundler) banner() (string, error) {
	names := make([]string, 0, len(b.opts.Globals))
	for name := range b.opts.Globals {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	for _, name := range names {
		if !identPattern.MatchString(name) {
			return "", fmt.Errorf("invalid global name %q", name)
		}
		value := b.opts.Globals[name]
		if !json.Valid(value) {
			return "", fmt.Errorf("global %q is not valid JSON", name)
		}
		fmt.Fprintf(&sb, "globalThis.%s = %s;\n", name, value)
	}
	return sb.String(), nil
}

// graphPlugin answers esbuild's resolve and load requests from the
// traversal. esbuild may call these concurrently; both maps are only read.
func graphPlugin(g *Graph, contents map[string]string) api.Plugin {
	return api.Plugin{
		Name: "tsxpack-graph",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if args.Kind == api.ResolveEntryPoint {
					return api.OnResolveResult{Path: g.Entry().Key(), Namespace: namespace}, nil
				}
				target, ok := g.Edge(args.Importer, args.Path)
				if !ok {
					return api.OnResolveResult{}, fmt.Errorf("import %q in %s was not discovered during traversal", args.Path, args.Importer)
				}
				return api.OnResolveResult{Path: target, Namespace: namespace}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: namespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				m := g.Module(args.Path)
				code, ok := contents[args.Path]
				if m == nil || !ok {
					return api.OnLoadResult{}, fmt.Errorf("module %s was not loaded during traversal", args.Path)
				}
				esLoader := api.LoaderJS
				if m.JSON {
					esLoader = api.LoaderJSON
				}
				return api.OnLoadResult{
					Contents:   &code,
					Loader:     esLoader,
					ResolveDir: m.File.Dir(),
				}, nil
			})
		},
	}
}
