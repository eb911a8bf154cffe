/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import "testing"

func TestAliases_Match(t *testing.T) {
	aliases := Aliases{
		"$lib":      "/p/lib",
		"$lib/deep": "/p/deep",
	}

	tests := []struct {
		spec string
		want string
		ok   bool
	}{
		{"$lib", "/p/lib", true},
		{"$lib/x", "/p/lib/x", true},
		{"$lib/deep/y", "/p/deep/y", true},
		{"$library", "", false},
		{"react", "", false},
	}
	for _, tt := range tests {
		got, ok := aliases.Match(tt.spec)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.spec, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAliases_With(t *testing.T) {
	base := Aliases{"$lib": "/p/lib"}
	next := base.With("$route", "/p/routes/index.tsx")

	if _, ok := base["$route"]; ok {
		t.Error("With must not modify the receiver")
	}
	if next["$lib"] != "/p/lib" || next["$route"] != "/p/routes/index.tsx" {
		t.Errorf("unexpected aliases: %v", next)
	}
}
