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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/pattern"
)

// 📊 NewCountCmd creates the count command
func NewCountCmd(o *opts.RootOpts) *cobra.Command {
	var (
		regex           bool
		caseInsensitive bool
		noHidden        bool
		maxDepth        int
		ignoreFiles     bool
		table           bool
	)

	cmd := &cobra.Command{
		Use:   "count <path> <pattern>",
		Short: "Count lines matching a pattern per file",
		Long: `Count prints, for every file under path with at least one matching line,
the number of matching lines, followed by the total across all files.

Pattern is a literal string unless -r is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			root := args[0]

			p, err := pattern.Compile(args[1], pattern.KindContent, pattern.Options{
				CaseInsensitive: caseInsensitive,
				Literal:         !regex,
			})
			if err != nil {
				return err
			}

			policy := o.Config.Policy(o.Config.Count)
			applyBool(cmd, &policy.IncludeHidden, "no-hidden", !noHidden)
			applyBool(cmd, &policy.RespectIgnoreFiles, "ignore-files", ignoreFiles)
			if err := applyDepth(cmd, &policy, "max-depth", maxDepth); err != nil {
				return err
			}

			count, err := operation.NewCount(operation.CountOptions{
				Options: options(ctx, policy),
				Pattern: p,
			})
			if err != nil {
				return err
			}

			if err := run(ctx, root, count); err != nil {
				return err
			}

			report := count.Report()
			out := cmd.OutOrStdout()
			if table {
				rows := make([][]string, 0, len(report.Files))
				for _, fc := range report.Files {
					rows = append(rows, []string{fc.Path, strconv.Itoa(fc.Count)})
				}
				if len(rows) > 0 {
					if err := console.Table([]string{"File", "Matches"}, rows); err != nil {
						return err
					}
				}
			} else {
				for _, fc := range report.Files {
					fmt.Fprintf(out, "%s: %d\n", fc.Path, fc.Count)
				}
			}
			fmt.Fprintf(out, "Total matches across all files: %d\n", report.Total)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&regex, "regex", "r", false, "treat pattern as a regular expression")
	cmd.Flags().BoolVarP(&caseInsensitive, "ignore-case", "i", false, "match case-insensitively")
	cmd.Flags().BoolVar(&noHidden, "no-hidden", false, "skip hidden files and directories")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "descend at most this many levels (0: unlimited)")
	cmd.Flags().BoolVar(&ignoreFiles, "ignore-files", false, "skip entries listed in .gitignore style files")
	cmd.Flags().BoolVar(&table, "table", false, "print per-file counts as a table")

	return cmd
}
