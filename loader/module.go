/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package loader

import (
	"fmt"

	"bennypowers.dev/tsxpack/source"
)

// ImportKind describes the syntax that introduced a dependency.
type ImportKind int

const (
	// ImportStatic is `import ... from "x"` or `import "x"`.
	ImportStatic ImportKind = iota
	// ImportReexport is `export ... from "x"`.
	ImportReexport
	// ImportDynamic is `import("x")`.
	ImportDynamic
	// ImportRequire is `require("x")`.
	ImportRequire
)

func (k ImportKind) String() string {
	switch k {
	case ImportReexport:
		return "re-export"
	case ImportDynamic:
		return "dynamic-import"
	case ImportRequire:
		return "require"
	default:
		return "import"
	}
}

// Import is one dependency found in a transformed module.
type Import struct {
	Specifier string
	Kind      ImportKind
	// Line is 1-based, in the transformed code.
	Line int
}

// Module is a parsed, transformed and type-erased module. It is owned by
// the loader until handed to the bundler and is never shared between
// modules.
type Module struct {
	File source.File

	// JSX is true for .tsx and .jsx sources.
	JSX bool

	// JSON is true when Code holds a JSON document rather than JavaScript.
	JSON bool

	// Unresolved and TopLevel are the module's scope markers.
	Unresolved source.Mark
	TopLevel   source.Mark

	// Code is the transformed JavaScript.
	Code string

	// Imports are listed in source order, duplicates included.
	Imports []Import

	// Helpers are the runtime helpers defined at the module's top level.
	Helpers []string

	// UsesImportMeta reports whether Code references MetaIdent.
	UsesImportMeta bool

	// HasExports reports whether the module exports any binding.
	HasExports bool
}

// MetaIdent is the identifier import.meta was rebound to in this module.
func (m *Module) MetaIdent() string {
	return ImportMetaIdent(m.TopLevel)
}

// ImportMetaIdent names the binding that replaces import.meta in the
// module whose top-level mark is mark.
func ImportMetaIdent(mark source.Mark) string {
	return fmt.Sprintf("__import_meta_%d", uint32(mark))
}

func (m *Module) String() string {
	return fmt.Sprintf("%s (marks %v/%v)", m.File, m.Unresolved, m.TopLevel)
}
