/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package emitter

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tsxpack/bundler"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/internal/mapfs"
	"bennypowers.dev/tsxpack/source"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func bundle(t *testing.T, files map[string]string, entry string) *bundler.Bundle {
	t.Helper()
	b := bundler.New(bundler.Options{FS: mapfs.FromMap(files)})
	bundles, err := b.Bundle(bundler.EntryTable{"main": source.Real(entry)})
	require.NoError(t, err)
	return bundles["main"]
}

var project = map[string]string{
	"/p/app.tsx": `// entry comment
import { format } from "./format";
interface Props { name: string }
/** doc comment */
function Greeting(props: Props) {
  return <p class="greeting">{format(props.name)}</p>;
}
const React = { createElement: (tag: string, _: unknown, ...children: string[]) => "<" + tag + ">" + children.join("") + "</" + tag + ">" };
Greeting({ name: "world" });
`,
	"/p/format.ts": `/* block comment */
export const format = (value: string): string => value.toUpperCase();
`,
}

func TestEmit_NoTypeSyntaxOrComments(t *testing.T) {
	out, err := Emit(bundle(t, project, "/p/app.tsx"), Options{})
	require.NoError(t, err)

	for _, token := range []string{"interface", ": string", ": Props", "<p", "//", "/*"} {
		assert.NotContains(t, out, token)
	}
	assert.Contains(t, out, "toUpperCase()")
	assert.Contains(t, out, `createElement("p"`)
}

func TestEmit_Minify(t *testing.T) {
	b := bundle(t, project, "/p/app.tsx")

	plain, err := Emit(b, Options{})
	require.NoError(t, err)
	minified, err := Emit(b, Options{Minify: true})
	require.NoError(t, err)

	assert.Less(t, len(minified), len(plain))
	assert.Contains(t, minified, "toUpperCase()")
}

func TestEmit_Newline(t *testing.T) {
	b := bundle(t, project, "/p/app.tsx")

	lf, err := Emit(b, Options{})
	require.NoError(t, err)
	crlf, err := Emit(b, Options{Newline: "\r\n"})
	require.NoError(t, err)

	assert.Greater(t, strings.Count(lf, "\n"), 1)
	assert.Equal(t, strings.Count(lf, "\n"), strings.Count(crlf, "\r\n"))
	assert.Equal(t, lf, strings.ReplaceAll(crlf, "\r\n", "\n"))
}

func TestEmit_DefaultNewlineIsLF(t *testing.T) {
	out, err := Emit(bundle(t, project, "/p/app.tsx"), Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, "\r")
}

func TestEmit_NilBundle(t *testing.T) {
	_, err := Emit(nil, Options{})
	assert.ErrorIs(t, err, ErrEmit)
}

func TestEmit_InvalidCode(t *testing.T) {
	_, err := Emit(&bundler.Bundle{Name: "broken", Code: "const = ;"}, Options{})
	assert.ErrorIs(t, err, ErrEmit)
}

func TestEmit_MinifyKeepsTrailingExpression(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"identifier", "const out = `${a}, ${b}`;\nout;\n", "globalThis." + ResultGlobal + "="},
		{"literal", "const m = 1;\n\"x\";\n", "globalThis." + ResultGlobal + "=\"x\""},
		{"trailing comment", "const m = 1;\nm;\n// done\n", "globalThis." + ResultGlobal + "="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Emit(&bundler.Bundle{Name: tt.name, Code: tt.code}, Options{Minify: true})
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestEmit_UnminifiedLeavesTrailingExpression(t *testing.T) {
	out, err := Emit(&bundler.Bundle{Name: "plain", Code: "const m = 1;\n\"x\";\n"}, Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, ResultGlobal)
	assert.Contains(t, out, `"x";`)
}

func TestEmit_MinifyWithoutTrailingExpression(t *testing.T) {
	out, err := Emit(&bundler.Bundle{Name: "decl", Code: "globalThis.x = 1;\nfunction f() {}\n"}, Options{Minify: true})
	require.NoError(t, err)
	assert.NotContains(t, out, ResultGlobal)
}
