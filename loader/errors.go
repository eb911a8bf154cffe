/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package loader

import (
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

var (
	// ErrUnsupportedModule indicates a file type the loader cannot parse.
	ErrUnsupportedModule = errors.New("unsupported module type")

	// ErrUnsupportedFile indicates a file identity that is not a real path.
	ErrUnsupportedFile = errors.New("loader supports only files")
)

// ParseError reports malformed source text. Line and Column are 1-based.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

func newParseError(file string, msg api.Message) *ParseError {
	pe := &ParseError{File: file, Message: msg.Text}
	if msg.Location != nil {
		pe.Line = msg.Location.Line
		pe.Column = msg.Location.Column + 1
	}
	return pe
}
