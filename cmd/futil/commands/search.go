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

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/pattern"
)

// matchPrinter writes "path:line: text" with the matched pieces highlighted
type matchPrinter struct {
	w      io.Writer
	prefix *color.Color
	hit    *color.Color
}

func newMatchPrinter(w io.Writer, enabled bool) *matchPrinter {
	p := &matchPrinter{
		w:      w,
		prefix: color.New(color.FgCyan),
		hit:    color.New(color.FgRed, color.Bold),
	}
	if enabled {
		p.prefix.EnableColor()
		p.hit.EnableColor()
	} else {
		p.prefix.DisableColor()
		p.hit.DisableColor()
	}
	return p
}

func (p *matchPrinter) print(m operation.Match) {
	var b strings.Builder
	b.WriteString(p.prefix.Sprintf("%s:%d: ", m.Path, m.LineNumber))
	for _, seg := range m.Segments() {
		if seg.Matched {
			b.WriteString(p.hit.Sprint(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	fmt.Fprintln(p.w, b.String())
}

// 🔍 NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		caseInsensitive bool
		hidden          bool
		colorFlag       bool
		literal         bool
		maxDepth        int
		ignoreFiles     bool
	)

	cmd := &cobra.Command{
		Use:     "search <dir/glob> <pattern>",
		Aliases: []string{"cat"},
		Short:   "Print lines matching a pattern",
		Long: `Search scans every file under dir whose name matches glob and prints each
line matching pattern as path:line: text, with the matches highlighted.

The first argument is a directory followed by a file name glob, for
example /var/logs/trc* or ./src/*.go. Pattern is a regular expression
unless -F is given.`,
		Example: `  futil search '/var/logs/trc*' 'timeout after \d+ms'
  futil search -i -F './docs/*.md' 'todo:'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			dir, glob, err := pattern.SplitPathPattern(args[0])
			if err != nil {
				return err
			}

			var filename *pattern.Pattern
			if glob != "" {
				if filename, err = pattern.Compile(glob, pattern.KindFilename, pattern.Options{}); err != nil {
					return err
				}
			}

			content, err := pattern.Compile(args[1], pattern.KindContent, pattern.Options{
				CaseInsensitive: caseInsensitive,
				Literal:         literal,
			})
			if err != nil {
				return err
			}

			policy := o.Config.Policy(o.Config.Search)
			applyBool(cmd, &policy.IncludeHidden, "hidden", hidden)
			applyBool(cmd, &policy.RespectIgnoreFiles, "ignore-files", ignoreFiles)
			if err := applyDepth(cmd, &policy, "max-depth", maxDepth); err != nil {
				return err
			}

			console.Infof("Search dir: %s", dir)
			console.Infof("File pattern: %s", glob)

			printer := newMatchPrinter(cmd.OutOrStdout(), useColor(cmd, o, colorFlag, true))
			search, err := operation.NewSearch(operation.SearchOptions{
				Options:  options(ctx, policy),
				Filename: filename,
				Content:  content,
				OnMatch:  printer.print,
			})
			if err != nil {
				return err
			}

			return run(ctx, dir, search)
		},
	}

	cmd.Flags().BoolVarP(&caseInsensitive, "ignore-case", "i", false, "match case-insensitively")
	cmd.Flags().BoolVarP(&hidden, "hidden", "H", false, "include hidden files and directories")
	cmd.Flags().BoolVarP(&colorFlag, "color", "c", false, "highlight matches (default: when stdout is a terminal)")
	cmd.Flags().BoolVarP(&literal, "fixed-strings", "F", false, "treat pattern as a literal string")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "descend at most this many levels (0: unlimited)")
	cmd.Flags().BoolVar(&ignoreFiles, "ignore-files", false, "skip entries listed in .gitignore style files")

	return cmd
}
