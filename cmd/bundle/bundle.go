/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package bundle provides the bundle command for tsxpack.
package bundle

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tsxpack/cmd/project"
	"bennypowers.dev/tsxpack/fs"
	"bennypowers.dev/tsxpack/internal/logger"
)

// Cmd is the bundle cobra command.
var Cmd = &cobra.Command{
	Use:   "bundle [entries...]",
	Short: "Compile entries into single-file programs",
	Long: `Compile each entry and its imports into one JavaScript program.
Without arguments, the entries from .config/tsxpack.* are compiled.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("out-dir", "o", "", "Directory to write <entry>.js files to (default: stdout)")
}

func run(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem)
	if err != nil {
		return err
	}

	entries := EntriesFromArgs(args)
	if len(entries) == 0 {
		entries, err = p.Config.EntryPaths(p.Root)
		if err != nil {
			return fmt.Errorf("no entries given: %w", err)
		}
	}

	programs, err := p.Compiler.CompileEntries(entries)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	slices.Sort(names)

	if outDir == "" {
		if len(programs) > 1 {
			return fmt.Errorf("%d entries compiled, use --out-dir to write them", len(programs))
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), programs[names[0]])
		return err
	}

	if err := filesystem.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("error creating %s: %w", outDir, err)
	}
	for _, name := range names {
		out := filepath.Join(outDir, name+".js")
		if err := filesystem.WriteFile(out, []byte(programs[name]), 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", out, err)
		}
		logger.Info("wrote %s", out)
	}
	return nil
}

// EntriesFromArgs names each entry after its file name without extension.
// A name already taken falls back to the extensionless path.
func EntriesFromArgs(args []string) map[string]string {
	entries := make(map[string]string, len(args))
	for _, arg := range args {
		base := filepath.Base(arg)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if _, taken := entries[name]; taken {
			name = strings.TrimSuffix(filepath.ToSlash(arg), filepath.Ext(arg))
		}
		entries[name] = arg
	}
	return entries
}
