/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tsxpack.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsxpack/cmd/bundle"
	"bennypowers.dev/tsxpack/cmd/render"
	"bennypowers.dev/tsxpack/cmd/serve"
	"bennypowers.dev/tsxpack/cmd/version"
	"bennypowers.dev/tsxpack/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tsxpack",
	Short: "Compile TypeScript and JSX into a single server-side program",
	Long: `tsxpack compiles the TypeScript/JSX modules reachable from an entry point
into one self-contained JavaScript program, and renders it with an embedded
JavaScript engine.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool("verbose"))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initEnv)

	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "Project root directory")
	flags.BoolP("verbose", "v", false, "Enable debug output")
	flags.Bool("minify", false, "Minify the emitted program")
	flags.String("newline", "", "Line terminator (lf, crlf)")
	flags.String("debug-artifact", "", "Write every compiled program to this path")

	for _, name := range []string{"root", "verbose", "minify", "newline", "debug-artifact"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(bundle.Cmd)
	rootCmd.AddCommand(render.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

// initEnv lets TSXPACK_* environment variables stand in for flags.
func initEnv() {
	viper.SetEnvPrefix("TSXPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
