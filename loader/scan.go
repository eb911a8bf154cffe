/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package loader

import (
	"fmt"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Scanner finds dependencies and runtime helpers in transformed
// JavaScript. Each Scan call creates its own tree-sitter parser, so a
// Scanner may be shared.
type Scanner struct {
	language *tree_sitter.Language
}

// NewScanner creates a scanner for the JavaScript grammar.
func NewScanner() *Scanner {
	return &Scanner{
		language: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
	}
}

// ScanResult holds what a scan found.
type ScanResult struct {
	Imports []Import
	Helpers []string
	// HasExports reports a top-level export statement.
	HasExports bool
}

// Span is a byte range in scanned code.
type Span struct {
	Start, End uint
}

// Completion locates the statement whose value a script evaluates to.
type Completion struct {
	// Statement covers the whole statement, terminator included.
	Statement Span
	// Expression covers the statement's expression.
	Expression Span
}

// Scan parses code and returns its imports in source order and the
// helper bindings (names starting with "__") declared at its top level.
func (s *Scanner) Scan(code []byte) (*ScanResult, error) {
	var result *ScanResult
	err := s.parse(code, func(root *tree_sitter.Node) {
		result = &ScanResult{
			Imports:    collectImports(root, code),
			Helpers:    topLevelHelpers(root, code),
			HasExports: hasExports(root),
		}
	})
	return result, err
}

// Completion finds the last top-level statement of code when it is an
// expression statement. Its value is the script's completion value.
func (s *Scanner) Completion(code []byte) (Completion, bool, error) {
	var (
		c  Completion
		ok bool
	)
	err := s.parse(code, func(root *tree_sitter.Node) {
		for i := int(root.NamedChildCount()) - 1; i >= 0; i-- {
			stmt := root.NamedChild(uint(i))
			if stmt.Kind() == "comment" || stmt.Kind() == "empty_statement" {
				continue
			}
			if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
				return
			}
			expr := stmt.NamedChild(0)
			c = Completion{
				Statement:  Span{Start: stmt.StartByte(), End: stmt.EndByte()},
				Expression: Span{Start: expr.StartByte(), End: expr.EndByte()},
			}
			ok = true
			return
		}
	})
	return c, ok, err
}

func (s *Scanner) parse(code []byte, visit func(root *tree_sitter.Node)) error {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(s.language); err != nil {
		return fmt.Errorf("failed to load JavaScript grammar: %w", err)
	}

	tree := parser.Parse(code, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse JavaScript")
	}
	defer tree.Close()

	visit(tree.RootNode())
	return nil
}

// hasExports ignores "export {}", which esbuild leaves behind in modules
// whose exports were all types.
func hasExports(root *tree_sitter.Node) bool {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt.Kind() != "export_statement" {
			continue
		}
		if stmt.NamedChildCount() == 1 {
			clause := stmt.NamedChild(0)
			if clause.Kind() == "export_clause" && clause.NamedChildCount() == 0 {
				continue
			}
		}
		return true
	}
	return false
}

// collectImports walks the tree depth-first with an explicit stack.
func collectImports(root *tree_sitter.Node, code []byte) []Import {
	var imports []Import
	stack := []*tree_sitter.Node{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if imp, ok := importAt(node, code); ok {
			imports = append(imports, imp)
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(uint(i)))
		}
	}

	return imports
}

func importAt(node *tree_sitter.Node, code []byte) (Import, bool) {
	switch node.Kind() {
	case "import_statement":
		return importFromSource(node, code, ImportStatic)
	case "export_statement":
		return importFromSource(node, code, ImportReexport)
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return Import{}, false
		}
		var kind ImportKind
		switch {
		case fn.Kind() == "import":
			kind = ImportDynamic
		case fn.Kind() == "identifier" && fn.Utf8Text(code) == "require":
			kind = ImportRequire
		default:
			return Import{}, false
		}
		args := node.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() != 1 {
			return Import{}, false
		}
		arg := args.NamedChild(0)
		switch arg.Kind() {
		case "string":
			return newImport(arg, code, kind)
		case "template_string":
			return templateImport(arg, code, kind)
		}
		return Import{}, false
	}
	return Import{}, false
}

func importFromSource(node *tree_sitter.Node, code []byte, kind ImportKind) (Import, bool) {
	src := node.ChildByFieldName("source")
	if src == nil {
		return Import{}, false
	}
	return newImport(src, code, kind)
}

func newImport(str *tree_sitter.Node, code []byte, kind ImportKind) (Import, bool) {
	spec, ok := stringValue(str.Utf8Text(code))
	if !ok {
		return Import{}, false
	}
	return Import{
		Specifier: spec,
		Kind:      kind,
		Line:      int(str.StartPosition().Row) + 1,
	}, true
}

// templateImport accepts a template literal without substitutions or
// escapes, which names a module the same way a string literal does.
func templateImport(tmpl *tree_sitter.Node, code []byte, kind ImportKind) (Import, bool) {
	for i := uint(0); i < tmpl.NamedChildCount(); i++ {
		if tmpl.NamedChild(i).Kind() != "string_fragment" {
			return Import{}, false
		}
	}
	raw := tmpl.Utf8Text(code)
	if len(raw) < 2 || strings.Contains(raw, `\`) {
		return Import{}, false
	}
	return Import{
		Specifier: raw[1 : len(raw)-1],
		Kind:      kind,
		Line:      int(tmpl.StartPosition().Row) + 1,
	}, true
}

// stringValue strips the quotes from a string literal.
func stringValue(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return "", false
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}
	if quote == '\'' {
		raw = `"` + strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`) + `"`
	}
	unquoted, err := strconv.Unquote(raw)
	if err != nil {
		return "", false
	}
	return unquoted, true
}

func topLevelHelpers(root *tree_sitter.Node, code []byte) []string {
	var helpers []string
	for i := uint(0); i < root.NamedChildCount(); i++ {
		decl := root.NamedChild(i)
		if decl.Kind() != "variable_declaration" && decl.Kind() != "lexical_declaration" {
			continue
		}
		for j := uint(0); j < decl.NamedChildCount(); j++ {
			declarator := decl.NamedChild(j)
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			name := declarator.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			if ident := name.Utf8Text(code); strings.HasPrefix(ident, "__") {
				helpers = append(helpers, ident)
			}
		}
	}
	return helpers
}
