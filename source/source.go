/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package source defines file identities and scope markers shared by the
// resolver, loader and bundler.
package source

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Kind distinguishes where a file's contents come from.
type Kind int

const (
	// KindReal is a path on disk.
	KindReal Kind = iota
	// KindVirtual is a synthetic origin (builtins, generated code).
	KindVirtual
)

// File identifies a module source. Real paths are canonicalized on
// construction so that two spellings of the same path compare equal.
type File struct {
	Kind Kind
	Path string
}

// Real returns the identity of a path on disk.
func Real(p string) File {
	return File{Kind: KindReal, Path: filepath.Clean(p)}
}

// Virtual returns the identity of a synthetic module.
func Virtual(name string) File {
	return File{Kind: KindVirtual, Path: name}
}

// IsReal reports whether f names a path on disk.
func (f File) IsReal() bool {
	return f.Kind == KindReal
}

// Key is the canonical string used for caching and dedup.
func (f File) Key() string {
	if f.Kind == KindVirtual {
		return "virtual:" + f.Path
	}
	return f.Path
}

// Dir returns the directory containing f.
func (f File) Dir() string {
	return filepath.Dir(f.Path)
}

// Ext returns the extension without the leading dot, lowercased.
func (f File) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Path), "."))
}

// IsJSX reports whether the file is JSX-flavored (.tsx or .jsx).
func (f File) IsJSX() bool {
	switch f.Ext() {
	case "tsx", "jsx":
		return true
	}
	return false
}

// URL returns a URL-like string identifying the file.
func (f File) URL() string {
	if f.Kind == KindVirtual {
		return "virtual:" + f.Path
	}
	p := filepath.ToSlash(f.Path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func (f File) String() string {
	return f.Key()
}
