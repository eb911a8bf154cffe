/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project loads the project the CLI commands operate on.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/tsxpack/compile"
	"bennypowers.dev/tsxpack/config"
	"bennypowers.dev/tsxpack/fs"
)

// Project is a loaded project: its root, configuration and compiler.
type Project struct {
	FS       fs.FileSystem
	Root     string
	Config   *config.Config
	Compiler *compile.Compiler
}

// Load reads .config/tsxpack.* from the root directory and overlays the
// values set by flags or TSXPACK_* environment variables.
func Load(filesystem fs.FileSystem) (*Project, error) {
	root, err := filepath.Abs(viper.GetString("root"))
	if err != nil {
		return nil, fmt.Errorf("error resolving project root: %w", err)
	}

	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	Overlay(cfg)

	return &Project{
		FS:       filesystem,
		Root:     root,
		Config:   cfg,
		Compiler: compile.New(filesystem, root, cfg),
	}, nil
}

// Overlay applies flag and environment values on top of cfg.
func Overlay(cfg *config.Config) {
	if viper.GetBool("minify") {
		cfg.Minify = true
	}
	if v := viper.GetString("newline"); v != "" {
		cfg.Newline = v
	}
	if v := viper.GetString("debug-artifact"); v != "" {
		cfg.DebugArtifact = v
	}
}
