/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package bundler

import (
	"slices"
	"testing"

	"bennypowers.dev/tsxpack/loader"
	"bennypowers.dev/tsxpack/source"
)

func buildGraph(entry string, edges map[string][]string) *Graph {
	g := newGraph(source.Real(entry))
	queue := []string{entry}
	seen := map[string]bool{entry: true}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		g.addModule(&loader.Module{File: source.Real(node)})
		for _, dep := range edges[node] {
			g.addEdge(node, dep, dep)
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return g
}

func TestGraph_Order(t *testing.T) {
	tests := []struct {
		name  string
		edges map[string][]string
		want  []string
	}{
		{
			name: "single module",
			want: []string{"/app"},
		},
		{
			name: "chain",
			edges: map[string][]string{
				"/app": {"/a"},
				"/a":   {"/b"},
			},
			want: []string{"/b", "/a", "/app"},
		},
		{
			name: "diamond",
			edges: map[string][]string{
				"/app": {"/a", "/b"},
				"/a":   {"/shared"},
				"/b":   {"/shared"},
			},
			want: []string{"/shared", "/a", "/b", "/app"},
		},
		{
			name: "cycle",
			edges: map[string][]string{
				"/app": {"/a"},
				"/a":   {"/b"},
				"/b":   {"/a"},
			},
			want: []string{"/b", "/a", "/app"},
		},
		{
			name: "self import",
			edges: map[string][]string{
				"/app": {"/app"},
			},
			want: []string{"/app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph("/app", tt.edges)
			got := g.Order()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Order() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraph_FindCycle(t *testing.T) {
	g := buildGraph("/app", map[string][]string{
		"/app": {"/a"},
		"/a":   {"/b"},
		"/b":   {"/c"},
		"/c":   {"/a"},
	})

	cycle := g.FindCycle()
	want := []string{"/a", "/b", "/c", "/a"}
	if !slices.Equal(cycle, want) {
		t.Errorf("FindCycle() = %v, want %v", cycle, want)
	}
}

func TestGraph_NoCycle(t *testing.T) {
	g := buildGraph("/app", map[string][]string{
		"/app": {"/a", "/b"},
		"/a":   {"/b"},
	})
	if cycle := g.FindCycle(); cycle != nil {
		t.Errorf("FindCycle() = %v, want nil", cycle)
	}
}

func TestGraph_EdgesDedupPerSpecifier(t *testing.T) {
	g := newGraph(source.Real("/app"))
	g.addModule(&loader.Module{File: source.Real("/app")})
	g.addEdge("/app", "./a", "/a")
	g.addEdge("/app", "./a", "/a")
	g.addEdge("/app", "./a.ts", "/a")

	if got := g.Dependencies("/app"); len(got) != 2 {
		t.Errorf("Dependencies = %v, want two edges", got)
	}
	to, ok := g.Edge("/app", "./a.ts")
	if !ok || to != "/a" {
		t.Errorf("Edge(./a.ts) = %q, %v", to, ok)
	}
	if _, ok := g.Edge("/app", "./b"); ok {
		t.Error("Edge(./b) found, want missing")
	}
	if got := g.Dependents("/a"); len(got) != 2 {
		t.Errorf("Dependents = %v", got)
	}
}

func TestGraph_DuplicateModulePanics(t *testing.T) {
	g := newGraph(source.Real("/app"))
	g.addModule(&loader.Module{File: source.Real("/app")})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate module")
		}
	}()
	g.addModule(&loader.Module{File: source.Real("/app")})
}

func TestMetaObject(t *testing.T) {
	got, err := metaObject("__import_meta_2", []MetaProp{{Key: "url", Value: `"file:///a.ts"`}, {Key: "main", Value: "false"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "var __import_meta_2 = { url: (\"file:///a.ts\"), main: (false) };\n"
	if got != want {
		t.Errorf("metaObject = %q, want %q", got, want)
	}

	if _, err := metaObject("x", []MetaProp{{Key: "bad-key", Value: "1"}}); err == nil {
		t.Error("expected error for invalid key")
	}
	if _, err := metaObject("x", []MetaProp{{Key: "k", Value: " "}}); err == nil {
		t.Error("expected error for empty value")
	}
}
