/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package server serves server-rendered pages over HTTP. Every request
// compiles the application shell with the requested page bound to the
// route alias and renders the result.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bennypowers.dev/tsxpack/compile"
	"bennypowers.dev/tsxpack/config"
	tsxfs "bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/render"
)

// RouteContext is the context data bound for every page render.
type RouteContext struct {
	Path  string              `json:"path"`
	Query map[string][]string `json:"query"`
	Data  any                 `json:"data"`
}

// Server routes page requests.
type Server struct {
	compiler *compile.Compiler
	engine   *render.Engine
	pages    []config.Page
	router   chi.Router
}

// New discovers the project's pages and builds the router.
func New(compiler *compile.Compiler, engine *render.Engine, fsys tsxfs.FileSystem, rootDir string) (*Server, error) {
	pages, err := compiler.Config().DiscoverPages(fsys, rootDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		compiler: compiler,
		engine:   engine,
		pages:    pages,
		router:   chi.NewRouter(),
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)
	for _, page := range pages {
		s.router.Get(page.Route, s.pageHandler(page))
		logger.Debug("route %s -> %s", page.Route, page.File)
	}
	return s, nil
}

// Pages returns the routed pages, sorted by route.
func (s *Server) Pages() []config.Page {
	return s.pages
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// pageHandler renders page. Nothing is written until rendering has
// succeeded, so failures never leave a partial body.
func (s *Server) pageHandler(page config.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := RouteContext{
			Path:  r.URL.Path,
			Query: r.URL.Query(),
			Data:  s.compiler.Config().PageData(page.Route),
		}

		program, err := s.compiler.Compile(s.compiler.Config().Shell, data, compile.WithAlias(config.RouteAlias, page.File))
		if err != nil {
			logger.Error("compile %s: %v", page.Route, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		html, err := s.engine.Render(program)
		if err != nil {
			logger.Error("render %s: %v", page.Route, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
