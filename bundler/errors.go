/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package bundler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var (
	// ErrMerge indicates the merge step failed. Loaded modules are
	// already valid JavaScript, so this is an internal invariant violation.
	ErrMerge = errors.New("internal error while merging modules")

	// ErrHook indicates the import.meta hook failed for a module.
	ErrHook = errors.New("import.meta hook failed")

	// ErrNoEntries indicates an empty entry table.
	ErrNoEntries = errors.New("no entries to bundle")
)

// EntryError reports which entry a bundle failure belongs to.
type EntryError struct {
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func formatMessages(msgs []api.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column+1, msg.Text))
			continue
		}
		lines = append(lines, msg.Text)
	}
	return strings.Join(lines, "; ")
}
