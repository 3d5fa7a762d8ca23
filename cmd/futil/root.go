// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/cmd/futil/commands"
	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/config"
	"github.com/walteh/futil/pkg/log"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	noColor    bool
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "futil",
		Short: "Search, count, replace and list across a directory tree",
		Long: `futil walks a directory tree once and applies a line-oriented operation
to the files it finds:

  search   print lines matching a pattern, highlighted
  count    count matching lines per file
  replace  replace a string in place, optionally with backups
  tree     list the tree with sizes

Hidden files and ignore files are handled per command; see --help of each.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr(), flags.debug)
			ctx := logger.WithContext(cmd.Context())

			if flags.noColor {
				color.NoColor = true
				pterm.DisableColor()
			}

			cwd, err := os.Getwd()
			if err != nil {
				return errors.Errorf("getting working directory: %w", err)
			}

			cfg, err := config.LoadOrDefault(ctx, flags.configFile, cwd)
			if err != nil {
				return err
			}

			rootOpts.Config = cfg
			rootOpts.NoColor = flags.noColor
			console := log.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
			cmd.SetContext(log.NewContext(ctx, console))
			return nil
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewSearchCmd(rootOpts),
		commands.NewCountCmd(rootOpts),
		commands.NewReplaceCmd(rootOpts),
		commands.NewTreeCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "C", "", "config file path (default: .futil.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor}).
		Level(level).
		With().Timestamp().Logger()
}
