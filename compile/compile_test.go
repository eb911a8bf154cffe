/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package compile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tsxpack/config"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/internal/mapfs"
	"bennypowers.dev/tsxpack/loader"
	"bennypowers.dev/tsxpack/render"
	"bennypowers.dev/tsxpack/resolver"
	"bennypowers.dev/tsxpack/testutil"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newProject(t *testing.T) (*Compiler, *mapfs.MapFileSystem) {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "fixtures/project", "/project")
	cfg, err := config.Load(mfs, "/project")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return New(mfs, "/project", cfg), mfs
}

func TestCompile_RendersContextData(t *testing.T) {
	c, _ := newProject(t)

	program, err := c.Compile("hello.tsx", map[string]string{"name": "world"})
	require.NoError(t, err)

	for _, token := range []string{"interface", " as Data", "import ", "export ", "//"} {
		assert.NotContains(t, program, token)
	}

	got, err := render.New(render.Options{}).Render(program)
	require.NoError(t, err)
	assert.Equal(t, `<p class="greeting">Hello, world!</p>`, got)
}

func TestCompile_WritesDebugArtifact(t *testing.T) {
	c, mfs := newProject(t)

	program, err := c.Compile("/project/hello.tsx", map[string]string{"name": "debug"})
	require.NoError(t, err)

	written, ok := mfs.Contents("/project/out.js")
	require.True(t, ok, "expected out.js to be written")
	assert.Equal(t, program, written)
}

func TestCompile_DebugArtifactDisabled(t *testing.T) {
	c, mfs := newProject(t)
	c.Config().DebugArtifact = ""

	_, err := c.Compile("hello.tsx", map[string]string{"name": "world"})
	require.NoError(t, err)

	_, ok := mfs.Contents("/project/out.js")
	assert.False(t, ok)
}

func TestCompile_ShellWithRouteAlias(t *testing.T) {
	c, _ := newProject(t)

	data := map[string]any{
		"path": "/post",
		"data": c.Config().PageData("/post"),
	}
	program, err := c.Compile(c.Config().Shell, data, WithAlias(config.RouteAlias, "routes/post.tsx"))
	require.NoError(t, err)

	got, err := render.New(render.Options{}).Render(program)
	require.NoError(t, err)
	assert.Equal(t, "<html><head><title>/post</title></head><body><article><h1>Hello</h1></article></body></html>", got)
}

func TestCompile_MissingAlias(t *testing.T) {
	c, _ := newProject(t)

	_, err := c.Compile("app.tsx", nil)
	require.Error(t, err)

	var resErr *resolver.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "$route", resErr.Specifier)
}

func TestCompile_ResolutionFailureInPage(t *testing.T) {
	c, _ := newProject(t)

	_, err := c.Compile("app.tsx", nil, WithAlias(config.RouteAlias, "routes/admin/posts.tsx"))
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestCompile_EntryValidation(t *testing.T) {
	c, _ := newProject(t)

	tests := []struct {
		name  string
		entry string
		want  error
	}{
		{"json entry", "package.json", ErrUnsupportedEntry},
		{"stylesheet", "style.css", ErrUnsupportedEntry},
		{"missing file", "nope.tsx", ErrEntryNotFound},
		{"missing module", "routes/missing.ts", ErrEntryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.entry, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompile_InvalidContextData(t *testing.T) {
	c, _ := newProject(t)

	_, err := c.Compile("hello.tsx", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestCompile_ParseError(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/p/app.ts":    `import "./broken"; "ok";`,
		"/p/broken.ts": "const a = 1;\nconst = ;\n",
	})

	_, err := New(mfs, "/p", nil).Compile("app.ts", nil)

	var parseErr *loader.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/p/broken.ts", parseErr.File)
	assert.Equal(t, 2, parseErr.Line)
}

func TestCompile_MinifyAndNewline(t *testing.T) {
	c, _ := newProject(t)
	data := map[string]string{"name": "world"}

	plain, err := c.Compile("hello.tsx", data)
	require.NoError(t, err)

	c.Config().Minify = true
	c.Config().Newline = "crlf"
	minified, err := c.Compile("hello.tsx", data)
	require.NoError(t, err)

	assert.Less(t, len(minified), len(plain))
	assert.NotContains(t, strings.ReplaceAll(minified, "\r\n", ""), "\n")

	got, err := render.New(render.Options{}).Render(minified)
	require.NoError(t, err)
	assert.Equal(t, `<p class="greeting">Hello, world!</p>`, got)
}

func TestCompile_IsolatedInvocations(t *testing.T) {
	c, _ := newProject(t)

	first, err := c.Compile("hello.tsx", map[string]string{"name": "a"})
	require.NoError(t, err)
	second, err := c.Compile("hello.tsx", map[string]string{"name": "a"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileEntries(t *testing.T) {
	c, _ := newProject(t)

	programs, err := c.CompileEntries(map[string]string{
		"hello": "hello.tsx",
		"util":  "util.ts",
	})
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Contains(t, programs["hello"], "renderToStaticMarkup")
	assert.Contains(t, programs["util"], `"Hello"`)
}

func TestCompileEntries_BadEntry(t *testing.T) {
	c, _ := newProject(t)

	_, err := c.CompileEntries(map[string]string{"bad": "missing.ts"})
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestCompile_SideEffectFreeResult(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/p/util.ts": `export const greeting = "Hello";` + "\n",
		"/p/identifier.ts": `import { greeting } from "./util";
const d = globalThis.routeData as { name: string };
const out = ` + "`${greeting}, ${d.name}`" + `;
out;
`,
		"/p/literal.ts": "const m = import(`./util`);\n\"x\";\n",
	})

	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{"trailing identifier", "identifier.ts", "Hello, world"},
		{"trailing literal", "literal.ts", "x"},
	}

	for _, minify := range []bool{false, true} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s minify=%t", tt.name, minify), func(t *testing.T) {
				cfg := config.Default()
				cfg.DebugArtifact = ""
				cfg.Minify = minify

				program, err := New(mfs, "/p", cfg).Compile(tt.entry, map[string]string{"name": "world"})
				require.NoError(t, err)

				got, err := render.New(render.Options{}).Render(program)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestCompile_EntryExports(t *testing.T) {
	c, _ := newProject(t)

	_, err := c.Compile("util.ts", nil)
	require.ErrorIs(t, err, ErrEntryExports)
	assert.Contains(t, err.Error(), "/project/util.ts")
}

func TestCompile_ConcurrentDebugArtifact(t *testing.T) {
	c, mfs := newProject(t)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	programs := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			program, err := c.Compile("hello.tsx", map[string]string{"name": name})
			assert.NoError(t, err)
			programs[i] = program
		}()
	}
	wg.Wait()

	written, ok := mfs.Contents("/project/out.js")
	require.True(t, ok)
	assert.Contains(t, programs, written)
}
