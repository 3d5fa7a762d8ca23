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

	"github.com/spf13/cobra"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/walk"
)

// 🌳 NewTreeCmd creates the tree command
func NewTreeCmd(o *opts.RootOpts) *cobra.Command {
	var (
		depth     int
		human     bool
		colorFlag bool
		all       bool
		noIgnore  bool
	)

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "List a directory tree with sizes",
		Long: `Tree lists every entry under path (default: the working directory),
indented by depth, with file sizes. Hidden entries and entries matched by
ignore files are left out unless -a or --no-ignore is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			policy := o.Config.Policy(o.Config.Tree)
			applyBool(cmd, &policy.IncludeHidden, "all", all)
			applyBool(cmd, &policy.RespectIgnoreFiles, "no-ignore", !noIgnore)
			if err := applyDepth(cmd, &policy, "depth", depth); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var tree *operation.Tree
			tree = operation.NewTree(operation.TreeOptions{
				Options: options(ctx, policy),
				Human:   human,
				Color:   useColor(cmd, o, colorFlag, false),
				OnEntry: func(e walk.Entry) {
					fmt.Fprintln(out, tree.Line(e))
				},
			})

			return run(ctx, root, tree)
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "descend at most this many levels (0: unlimited)")
	cmd.Flags().BoolVarP(&human, "human-readable", "H", false, "print sizes in KB, MB, GB")
	cmd.Flags().BoolVarP(&colorFlag, "color", "c", false, "color directories and files")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden files and directories")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "do not apply .gitignore style files")

	return cmd
}
