/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier classifies import specifiers.
package specifier

import (
	"regexp"
	"strings"
)

// Kind indicates the type of specifier.
type Kind int

const (
	// KindBare is a package-style name resolved through node_modules.
	KindBare Kind = iota
	// KindRelative starts with ./ or ../ and resolves against the importer.
	KindRelative
	// KindAbsolute starts with / and resolves against the root directory.
	KindAbsolute
)

func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	default:
		return "bare"
	}
}

// Specifier represents a parsed import specifier.
type Specifier struct {
	// Kind is the type of specifier (bare, relative, absolute).
	Kind Kind

	// Package is the package name for bare specifiers (e.g., "@scope/pkg" or "pkg").
	Package string

	// Subpath is the path within the package, without a leading slash.
	Subpath string

	// Raw is the original specifier string.
	Raw string
}

// packagePattern matches @scope/pkg/path, pkg/path, or bare pkg
var packagePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/]+)(/.*)?$`)

// Parse parses a specifier string into a Specifier struct.
func Parse(spec string) *Specifier {
	switch {
	case strings.HasPrefix(spec, "/"):
		return &Specifier{Kind: KindAbsolute, Raw: spec}
	case IsRelative(spec):
		return &Specifier{Kind: KindRelative, Raw: spec}
	}

	s := &Specifier{Kind: KindBare, Raw: spec}
	if matches := packagePattern.FindStringSubmatch(spec); len(matches) == 3 {
		s.Package = matches[1]
		s.Subpath = strings.TrimPrefix(matches[2], "/")
	}
	return s
}

// IsRelative returns true for ./x, ../x, . and ..
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// IsBare returns true for specifiers resolved through node_modules.
func IsBare(spec string) bool {
	return Parse(spec).Kind == KindBare
}
