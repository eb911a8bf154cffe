/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package serve provides the serve command for tsxpack.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsxpack/cmd/project"
	"bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
	"bennypowers.dev/tsxpack/render"
	"bennypowers.dev/tsxpack/server"
)

// Cmd is the serve cobra command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project's pages over HTTP",
	Long: `Serve every page matched by the configured pages glob. Each request
compiles the application shell with the page bound to $route and renders it.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("addr", "127.0.0.1:3000", "Address to listen on")
	Cmd.Flags().Duration("timeout", 10*time.Second, "Abort rendering a page after this long (0 disables)")
	_ = viper.BindPFlag("addr", Cmd.Flags().Lookup("addr"))
}

func run(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	addr := viper.GetString("addr")

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem)
	if err != nil {
		return err
	}

	srv, err := server.New(p.Compiler, render.New(render.Options{Timeout: timeout}), filesystem, p.Root)
	if err != nil {
		return err
	}
	if len(srv.Pages()) == 0 {
		logger.Warn("no pages match %s", p.Config.Pages)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Listening on http://%s", addr)
	return srv.ListenAndServe(ctx, addr)
}
