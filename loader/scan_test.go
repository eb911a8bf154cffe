/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package loader

import "testing"

func TestScanner_Helpers(t *testing.T) {
	code := []byte(`var __defProp = Object.defineProperty;
var __decorateClass = (decorators, target) => target;
let local = 1;
function inner() { var __notTopLevel = 2; }
`)
	res, err := NewScanner().Scan(code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"__defProp", "__decorateClass"}
	if len(res.Helpers) != len(want) {
		t.Fatalf("Helpers = %v, want %v", res.Helpers, want)
	}
	for i := range want {
		if res.Helpers[i] != want[i] {
			t.Errorf("Helpers[%d] = %q, want %q", i, res.Helpers[i], want[i])
		}
	}
}

func TestScanner_IgnoresNonLiteralRequire(t *testing.T) {
	code := []byte(`const name = "x"; require(name); obj.require("y"); import(name);`)
	res, err := NewScanner().Scan(code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Imports) != 0 {
		t.Errorf("expected no imports, got %v", res.Imports)
	}
}

func TestScanner_TemplateLiteralImport(t *testing.T) {
	code := []byte("const m = import(`./util`);\nconst n = import(`./${m}`);\nrequire(`./a\\u0062`);\n")
	res, err := NewScanner().Scan(code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Imports) != 1 {
		t.Fatalf("Imports = %v, want one", res.Imports)
	}
	got := res.Imports[0]
	if got.Specifier != "./util" || got.Kind != ImportDynamic || got.Line != 1 {
		t.Errorf("Imports[0] = %+v, want ./util dynamic import on line 1", got)
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"./a"`, "./a", true},
		{`'./b'`, "./b", true},
		{`"c"`, "c", true},
		{`'it\'s'`, "it's", true},
		{`"`, "", false},
		{"`tpl`", "", false},
	}
	for _, tt := range tests {
		got, ok := stringValue(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("stringValue(%s) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScanner_HasExports(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{`const a = 1; a;`, false},
		{`export {};`, false},
		{`export const a = 1;`, true},
		{`const a = 1; export { a };`, true},
		{`export * from "./x";`, true},
		{`export default 1;`, true},
		{`function f() { return { export: 1 }; }`, false},
	}
	for _, tt := range tests {
		res, err := NewScanner().Scan([]byte(tt.code))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.HasExports != tt.want {
			t.Errorf("HasExports(%q) = %v, want %v", tt.code, res.HasExports, tt.want)
		}
	}
}

func TestScanner_Completion(t *testing.T) {
	tests := []struct {
		name string
		code string
		stmt string
		expr string
		ok   bool
	}{
		{"identifier", "const out = 1;\nout;\n", "out;", "out", true},
		{"literal", `f(); "x";`, `"x";`, `"x"`, true},
		{"sequence", "a(), b;", "a(), b;", "a(), b", true},
		{"trailing comment", "render(1);\n// done\n", "render(1);", "render(1)", true},
		{"declaration last", "f();\nvar x = 1;", "", "", false},
		{"empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := []byte(tt.code)
			c, ok, err := NewScanner().Completion(code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got := string(code[c.Statement.Start:c.Statement.End]); got != tt.stmt {
				t.Errorf("statement = %q, want %q", got, tt.stmt)
			}
			if got := string(code[c.Expression.Start:c.Expression.End]); got != tt.expr {
				t.Errorf("expression = %q, want %q", got, tt.expr)
			}
		})
	}
}
