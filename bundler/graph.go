/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package bundler

import (
	"fmt"

	"bennypowers.dev/tsxpack/loader"
	"bennypowers.dev/tsxpack/source"
)

// Graph is the import graph of one entry. Nodes are canonical file keys;
// every node holds exactly one loaded module.
type Graph struct {
	entry        source.File
	order        []string
	modules      map[string]*loader.Module
	edges        map[string]map[string]string
	dependencies map[string][]string
	dependents   map[string][]string
}

func newGraph(entry source.File) *Graph {
	return &Graph{
		entry:        entry,
		modules:      make(map[string]*loader.Module),
		edges:        make(map[string]map[string]string),
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}
}

func (g *Graph) addModule(m *loader.Module) {
	key := m.File.Key()
	if _, ok := g.modules[key]; ok {
		panic(fmt.Sprintf("module %s loaded twice", key))
	}
	g.modules[key] = m
	g.order = append(g.order, key)
}

func (g *Graph) addEdge(from, spec, to string) {
	specs, ok := g.edges[from]
	if !ok {
		specs = make(map[string]string)
		g.edges[from] = specs
	}
	if _, seen := specs[spec]; seen {
		return
	}
	specs[spec] = to
	g.dependencies[from] = append(g.dependencies[from], to)
	g.dependents[to] = append(g.dependents[to], from)
}

// Entry returns the file the traversal started from.
func (g *Graph) Entry() source.File {
	return g.entry
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Module returns the loaded module for key, or nil.
func (g *Graph) Module(key string) *loader.Module {
	return g.modules[key]
}

// Edge returns the key that spec, written in from, resolved to.
func (g *Graph) Edge(from, spec string) (string, bool) {
	to, ok := g.edges[from][spec]
	return to, ok
}

// Dependencies returns the modules imported by key.
func (g *Graph) Dependencies(key string) []string {
	if deps, ok := g.dependencies[key]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the modules importing key.
func (g *Graph) Dependents(key string) []string {
	if deps, ok := g.dependents[key]; ok {
		return deps
	}
	return []string{}
}

// FindCycle returns one cycle path, ending where it started, or nil.
func (g *Graph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := []string{}

	for _, node := range g.order {
		if cycle := g.findCycleDFS(node, visited, recStack, path); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *Graph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		cycleStart := -1
		for i, n := range path {
			if n == node {
				cycleStart = i
				break
			}
		}
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(append([]string(nil), path[cycleStart:]...), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.Dependencies(node) {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// Order returns module keys with dependencies before their importers,
// ending with the entry. Back edges of cycles are ignored.
func (g *Graph) Order() []string {
	type frame struct {
		node string
		next int
	}

	entry := g.entry.Key()
	visited := map[string]bool{entry: true}
	stack := []frame{{node: entry}}
	result := make([]string, 0, len(g.order))

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := g.Dependencies(top.node)
		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			if !visited[dep] {
				visited[dep] = true
				stack = append(stack, frame{node: dep})
			}
			continue
		}
		result = append(result, top.node)
		stack = stack[:len(stack)-1]
	}

	return result
}
