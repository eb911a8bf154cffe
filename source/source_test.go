/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source

import "testing"

func TestReal_Canonicalizes(t *testing.T) {
	a := Real("/project/js/../js/./app.tsx")
	b := Real("/project/js/app.tsx")
	if a != b {
		t.Errorf("expected %v == %v", a, b)
	}
	if a.Key() != "/project/js/app.tsx" {
		t.Errorf("Key() = %q", a.Key())
	}
}

func TestFile_IsJSX(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/a/app.tsx", true},
		{"/a/app.jsx", true},
		{"/a/app.ts", false},
		{"/a/app.js", false},
		{"/a/App.TSX", true},
	}
	for _, tt := range tests {
		if got := Real(tt.path).IsJSX(); got != tt.want {
			t.Errorf("IsJSX(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFile_URL(t *testing.T) {
	if got := Real("/project/a b.ts").URL(); got != "file:///project/a%20b.ts" {
		t.Errorf("URL() = %q", got)
	}
	if got := Virtual("builtin").URL(); got != "virtual:builtin" {
		t.Errorf("URL() = %q", got)
	}
}

func TestVirtual_KeyDistinctFromReal(t *testing.T) {
	if Virtual("x").Key() == Real("x").Key() {
		t.Error("virtual and real files must not share a key")
	}
}

func TestMarkGenerator_Fresh(t *testing.T) {
	g := NewMarkGenerator()
	seen := map[Mark]bool{}
	for range 100 {
		m := g.Fresh()
		if seen[m] {
			t.Fatalf("mark %v handed out twice", m)
		}
		seen[m] = true
	}

	// Generators are independent of each other.
	if NewMarkGenerator().Fresh() != 1 {
		t.Error("expected a fresh generator to start at 1")
	}
}
