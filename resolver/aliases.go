/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"path/filepath"
	"strings"
)

// Aliases maps bare specifiers to absolute paths. A key matches a
// specifier exactly, or as a prefix followed by "/", in which case the
// remainder is joined onto the target.
//
//	"$lib"   -> "/project/js/lib.tsx"   matches "$lib"
//	"$comps" -> "/project/js/components" matches "$comps/button"
type Aliases map[string]string

// Match returns the rewritten path for spec. The longest matching key wins.
func (a Aliases) Match(spec string) (string, bool) {
	if target, ok := a[spec]; ok {
		return target, true
	}

	best := ""
	for key := range a {
		if len(key) > len(best) && strings.HasPrefix(spec, key+"/") {
			best = key
		}
	}
	if best == "" {
		return "", false
	}

	rest := strings.TrimPrefix(spec, best+"/")
	return filepath.Join(a[best], filepath.FromSlash(rest)), true
}

// With returns a copy of a with key bound to target.
func (a Aliases) With(key, target string) Aliases {
	out := make(Aliases, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[key] = target
	return out
}
