/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source

import "fmt"

// Mark is an opaque scope marker. Every loaded module receives two fresh
// marks: one for unresolved references and one for its top level.
type Mark uint32

func (m Mark) String() string {
	return fmt.Sprintf("#%d", uint32(m))
}

// MarkGenerator hands out marks unique within one compile invocation.
// It is not safe for concurrent use; each invocation owns its generator.
type MarkGenerator struct {
	last Mark
}

// NewMarkGenerator returns a generator whose first mark is 1.
func NewMarkGenerator() *MarkGenerator {
	return &MarkGenerator{}
}

// Fresh returns a mark never returned before by this generator.
func (g *MarkGenerator) Fresh() Mark {
	g.last++
	return g.last
}
