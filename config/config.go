/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides project configuration loading for tsxpack.
package config

import (
	"fmt"
	"path/filepath"

	"bennypowers.dev/tsxpack/loader"
)

const (
	// DefaultContextGlobal is the global the context data is bound to.
	DefaultContextGlobal = "routeData"

	// DefaultDebugArtifact is written with the program text of every compile.
	DefaultDebugArtifact = "out.js"

	// DefaultShell is the application shell compiled for every page.
	DefaultShell = "app.tsx"

	// DefaultPages matches the page modules served by the server.
	DefaultPages = "routes/**/*.tsx"

	// RouteAlias is bound to the requested page while the shell compiles.
	RouteAlias = "$route"
)

// Config represents a tsxpack project configuration.
type Config struct {
	// Entries maps logical entry names to entry files, relative to the root.
	Entries map[string]string `yaml:"entries" json:"entries"`

	// Aliases rewrite bare specifiers to files or directories relative to
	// the root. A key matches exactly or as a "key/" prefix.
	Aliases map[string]string `yaml:"aliases" json:"aliases"`

	// AbsoluteRoot anchors specifiers starting with "/". Defaults to "/".
	AbsoluteRoot string `yaml:"absoluteRoot" json:"absoluteRoot"`

	// Minify enables minification of the emitted program.
	Minify bool `yaml:"minify" json:"minify"`

	// Newline is "lf", "crlf" or a literal line terminator.
	Newline string `yaml:"newline" json:"newline"`

	// ContextGlobal names the global holding the context data.
	ContextGlobal string `yaml:"contextGlobal" json:"contextGlobal"`

	// DebugArtifact is written with every compiled program, relative to
	// the root. Empty disables it.
	DebugArtifact string `yaml:"debugArtifact" json:"debugArtifact"`

	// JSX configures JSX lowering.
	JSX JSXConfig `yaml:"jsx" json:"jsx"`

	// Shell is the entry compiled for every page request.
	Shell string `yaml:"shell" json:"shell"`

	// Pages is a glob matching page modules, relative to the root.
	Pages string `yaml:"pages" json:"pages"`

	// Data holds static page data keyed by route.
	Data map[string]any `yaml:"data" json:"data"`
}

// JSXConfig configures the JSX factory functions.
type JSXConfig struct {
	Factory  string `yaml:"factory" json:"factory"`
	Fragment string `yaml:"fragment" json:"fragment"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		AbsoluteRoot:  "/",
		Newline:       "lf",
		ContextGlobal: DefaultContextGlobal,
		DebugArtifact: DefaultDebugArtifact,
		JSX: JSXConfig{
			Factory:  loader.DefaultJSXFactory,
			Fragment: loader.DefaultJSXFragment,
		},
		Shell: DefaultShell,
		Pages: DefaultPages,
	}
}

// NewlineSequence returns the line terminator Newline names.
func (c *Config) NewlineSequence() string {
	switch c.Newline {
	case "", "lf", "LF":
		return "\n"
	case "crlf", "CRLF":
		return "\r\n"
	case "cr", "CR":
		return "\r"
	default:
		return c.Newline
	}
}

// ResolvedAliases returns Aliases with targets made absolute under rootDir.
func (c *Config) ResolvedAliases(rootDir string) map[string]string {
	out := make(map[string]string, len(c.Aliases))
	for key, target := range c.Aliases {
		out[key] = absUnder(rootDir, target)
	}
	return out
}

// EntryPaths returns Entries with paths made absolute under rootDir.
func (c *Config) EntryPaths(rootDir string) (map[string]string, error) {
	if len(c.Entries) == 0 {
		return nil, fmt.Errorf("no entries configured")
	}
	out := make(map[string]string, len(c.Entries))
	for name, p := range c.Entries {
		if name == "" {
			return nil, fmt.Errorf("entry %q has an empty name", p)
		}
		out[name] = absUnder(rootDir, p)
	}
	return out, nil
}

// PageData returns the static data configured for route, or nil.
func (c *Config) PageData(route string) any {
	if c.Data == nil {
		return nil
	}
	return c.Data[route]
}

func absUnder(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rootDir, filepath.FromSlash(p))
}
