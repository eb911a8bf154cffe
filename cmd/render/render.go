/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides the render command for tsxpack.
package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bennypowers.dev/tsxpack/cmd/project"
	"bennypowers.dev/tsxpack/fs"
	renderlib "bennypowers.dev/tsxpack/render"
)

// Cmd is the render cobra command.
var Cmd = &cobra.Command{
	Use:   "render <entry>",
	Short: "Compile an entry and print the markup it renders",
	Long: `Compile an entry, bind the context data to the configured global and
evaluate the program. The program's completion value is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("data", "d", "", "Context data as JSON")
	Cmd.Flags().String("data-file", "", "Read context data from a JSON file")
	Cmd.Flags().Duration("timeout", 10*time.Second, "Abort rendering after this long (0 disables)")
}

func run(cmd *cobra.Command, args []string) error {
	inline, _ := cmd.Flags().GetString("data")
	dataFile, _ := cmd.Flags().GetString("data-file")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem)
	if err != nil {
		return err
	}

	data, err := ContextData(filesystem, inline, dataFile)
	if err != nil {
		return err
	}

	program, err := p.Compiler.Compile(args[0], data)
	if err != nil {
		return err
	}

	out, err := renderlib.New(renderlib.Options{Name: args[0], Timeout: timeout}).Render(program)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// ContextData decodes the context data from inline JSON or a file.
// Without either, the context data is null.
func ContextData(filesystem fs.FileSystem, inline, file string) (json.RawMessage, error) {
	if inline != "" && file != "" {
		return nil, fmt.Errorf("--data and --data-file are mutually exclusive")
	}

	raw := []byte(inline)
	if file != "" {
		var err error
		raw, err = filesystem.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", file, err)
		}
	}
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("context data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
