/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package bundler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/tsxpack/source"
)

// EntryMainExpr evaluates to true when the bundle runs as the program
// and false when a host declares __tsxpackEmbedded before evaluating it.
const EntryMainExpr = `typeof __tsxpackEmbedded === "undefined"`

// MetaProp is one import.meta property. Value is a JavaScript expression.
type MetaProp struct {
	Key   string
	Value string
}

// MetaHook synthesizes the import.meta properties of a module while the
// bundle is merged. An error aborts the bundle for that entry.
type MetaHook interface {
	ImportMetaProps(file source.File, isEntry bool) ([]MetaProp, error)
}

// HookFunc adapts a function to MetaHook.
type HookFunc func(file source.File, isEntry bool) ([]MetaProp, error)

// ImportMetaProps implements MetaHook.
func (f HookFunc) ImportMetaProps(file source.File, isEntry bool) ([]MetaProp, error) {
	return f(file, isEntry)
}

// DefaultHook provides import.meta.url and import.meta.main.
type DefaultHook struct{}

// ImportMetaProps implements MetaHook.
func (DefaultHook) ImportMetaProps(file source.File, isEntry bool) ([]MetaProp, error) {
	main := "false"
	if isEntry {
		main = EntryMainExpr
	}
	return []MetaProp{
		{Key: "url", Value: jsString(file.URL())},
		{Key: "main", Value: main},
	}, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// metaObject renders props as an object literal bound to ident.
func metaObject(ident string, props []MetaProp) (string, error) {
	var b strings.Builder
	b.WriteString("var ")
	b.WriteString(ident)
	b.WriteString(" = {")
	for i, p := range props {
		if !identPattern.MatchString(p.Key) {
			return "", fmt.Errorf("invalid import.meta property name %q", p.Key)
		}
		if strings.TrimSpace(p.Value) == "" {
			return "", fmt.Errorf("empty value for import.meta.%s", p.Key)
		}
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %s: (%s)", p.Key, p.Value)
	}
	b.WriteString(" };\n")
	return b.String(), nil
}

func jsString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
