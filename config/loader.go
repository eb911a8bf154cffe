/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	tsxfs "bennypowers.dev/tsxpack/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "tsxpack"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Page is a page module and the route it is served at.
type Page struct {
	Route string
	File  string
}

// Load searches for .config/tsxpack.{yaml,yml,json} from rootDir.
// Returns nil if no config found (not an error). Keys absent from the
// file keep their defaults.
func Load(filesystem tsxfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}
		return LoadFile(filesystem, configPath)
	}

	return nil, nil
}

// LoadFile reads one config file. JSON files may contain comments and
// trailing commas.
func LoadFile(filesystem tsxfs.FileSystem, configPath string) (*Config, error) {
	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch ext := filepath.Ext(configPath); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	return cfg, nil
}

// LoadOrDefault returns config or defaults if not found.
func LoadOrDefault(filesystem tsxfs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil || cfg == nil {
		return Default()
	}
	return cfg
}

// DiscoverPages expands the Pages glob under rootDir and derives a route
// for every match: "index" names its directory, and the extension is
// dropped. Pages are sorted by route.
func (c *Config) DiscoverPages(filesystem tsxfs.FileSystem, rootDir string) ([]Page, error) {
	pattern := c.Pages
	if pattern == "" {
		pattern = DefaultPages
	}
	pattern = absUnder(rootDir, pattern)

	baseDir := globBase(pattern)
	if !tsxfs.IsDir(filesystem, baseDir) {
		return nil, nil
	}

	files, err := expandGlob(filesystem, pattern)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(baseDir, file)
		if err != nil {
			return nil, err
		}
		route := RouteFor(rel)
		if other, ok := seen[route]; ok {
			return nil, fmt.Errorf("pages %s and %s both serve %s", other, file, route)
		}
		seen[route] = file
		pages = append(pages, Page{Route: route, File: file})
	}

	slices.SortFunc(pages, func(a, b Page) int {
		return strings.Compare(a.Route, b.Route)
	})
	return pages, nil
}

// RouteFor derives the URL path of a page from its path relative to the
// pages directory.
func RouteFor(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// globBase returns the longest non-glob directory prefix of pattern.
func globBase(pattern string) string {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}
	return baseDir
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem tsxfs.FileSystem, pattern string) ([]string, error) {
	baseDir := globBase(pattern)

	// Get the relative pattern from baseDir
	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))
	relPattern = filepath.ToSlash(relPattern)

	var matches []string

	err := fs.WalkDir(filesystem, baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't read
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}

		relPath := strings.TrimPrefix(p, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matchDoublestar(relPattern, filepath.ToSlash(relPath)) {
			matches = append(matches, p)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return matches, nil
}

// matchDoublestar provides ** glob matching using the doublestar library.
func matchDoublestar(pattern, p string) bool {
	matched, _ := doublestar.Match(pattern, p)
	return matched
}
