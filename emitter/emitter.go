/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package emitter serializes a merged bundle into program text.
package emitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"bennypowers.dev/tsxpack/bundler"
	"bennypowers.dev/tsxpack/loader"
)

// ResultGlobal holds the program's result when minification would
// otherwise drop a side-effect-free final statement.
const ResultGlobal = "__tsxpackResult"

// ErrEmit indicates the merged bundle could not be printed. The bundle
// is produced by the bundler, so this is an internal error.
var ErrEmit = errors.New("internal error while emitting bundle")

// Options controls the emitted text.
type Options struct {
	// Minify enables whitespace, syntax and identifier minification.
	Minify bool

	// Newline terminates every line. Defaults to "\n".
	Newline string
}

// Emit prints b. Comments are never retained.
func Emit(b *bundler.Bundle, opts Options) (string, error) {
	if b == nil {
		return "", fmt.Errorf("%w: nil bundle", ErrEmit)
	}

	code := b.Code
	if opts.Minify {
		var err error
		if code, err = pinCompletion(code); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrEmit, b.Name, err)
		}
	}

	result := api.Transform(code, api.TransformOptions{
		Loader:            api.LoaderJS,
		Format:            api.FormatESModule,
		Target:            api.ES2020,
		Charset:           api.CharsetUTF8,
		LegalComments:     api.LegalCommentsNone,
		MinifyWhitespace:  opts.Minify,
		MinifySyntax:      opts.Minify,
		MinifyIdentifiers: opts.Minify,
		Sourcefile:        b.Name + ".js",
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		return "", fmt.Errorf("%w: %s: %s", ErrEmit, b.Name, msg.Text)
	}

	code = string(result.Code)
	if opts.Newline != "" && opts.Newline != "\n" {
		code = strings.ReplaceAll(code, "\n", opts.Newline)
	}
	return code, nil
}

// pinCompletion assigns the final expression statement to ResultGlobal.
// Syntax minification removes expression statements without side
// effects, but an assignment keeps both the statement and its value.
func pinCompletion(code string) (string, error) {
	c, ok, err := loader.NewScanner().Completion([]byte(code))
	if err != nil || !ok {
		return code, err
	}
	expr := code[c.Expression.Start:c.Expression.End]
	return code[:c.Statement.Start] +
		"globalThis." + ResultGlobal + " = (" + expr + ");" +
		code[c.Statement.End:], nil
}
