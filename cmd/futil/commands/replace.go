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
	"github.com/walteh/futil/pkg/status"
)

var summaryOrder = []status.Outcome{
	status.OutcomeReplaced,
	status.OutcomeWouldReplace,
	status.OutcomeSkipped,
	status.OutcomeBackupFailed,
	status.OutcomeWriteFailed,
	status.OutcomeReadFailed,
}

// actionDetail is the trailing text of an action line
func actionDetail(a operation.ReplaceAction) string {
	switch {
	case a.Err != nil:
		return a.Err.Error()
	case a.BackupPath != "":
		return fmt.Sprintf("%d occurrences, backup %s", a.Occurrences, a.BackupPath)
	case a.Occurrences > 0:
		return fmt.Sprintf("%d occurrences", a.Occurrences)
	}
	return ""
}

// 🔄 NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun      bool
		backup      bool
		backupExt   string
		noHidden    bool
		maxDepth    int
		ignoreFiles bool
	)

	cmd := &cobra.Command{
		Use:   "replace <path> <old> <new>",
		Short: "Replace a string in every file under a path",
		Long: `Replace rewrites, in place, every literal occurrence of old with new in
each file under path. Files without an occurrence are left untouched.

With -b the original of each changed file is first copied next to it with
its extension replaced by the backup extension (a.txt -> a.bak).`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			root, oldText, newText := args[0], args[1], args[2]

			policy := o.Config.Policy(o.Config.Replace)
			applyBool(cmd, &policy.IncludeHidden, "no-hidden", !noHidden)
			applyBool(cmd, &policy.RespectIgnoreFiles, "ignore-files", ignoreFiles)
			if err := applyDepth(cmd, &policy, "max-depth", maxDepth); err != nil {
				return err
			}

			ext := o.Config.Replace.BackupExtension
			if cmd.Flags().Changed("backup-ext") {
				ext = backupExt
			}

			replace, err := operation.NewReplace(operation.ReplaceOptions{
				Options:         options(ctx, policy),
				Old:             oldText,
				New:             newText,
				DryRun:          dryRun,
				Backup:          backup,
				BackupExtension: ext,
				OnAction: func(a operation.ReplaceAction) {
					console.LogAction(a.Path, a.Outcome, actionDetail(a))
				},
			})
			if err != nil {
				return err
			}

			header := fmt.Sprintf("replacing %q with %q in %s", oldText, newText, root)
			if dryRun {
				header += " (dry run)"
			}
			console.Header(header)

			if err := run(ctx, root, replace); err != nil {
				return err
			}

			report := replace.Report()
			var rows [][]string
			for _, outcome := range summaryOrder {
				if n := report.Count(outcome); n > 0 {
					rows = append(rows, []string{outcome.String(), strconv.Itoa(n)})
				}
			}
			console.LogNewline()
			if len(rows) > 0 {
				if err := console.Table([]string{"Outcome", "Files"}, rows); err != nil {
					return err
				}
			}

			if dryRun {
				console.Successf("dry run: %d files would change", report.Count(status.OutcomeWouldReplace))
			} else {
				console.Successf("%d files changed", report.Count(status.OutcomeReplaced))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "D", false, "report what would change without writing")
	cmd.Flags().BoolVarP(&backup, "backup", "b", false, "copy each file before changing it")
	cmd.Flags().StringVar(&backupExt, "backup-ext", status.DefaultBackupExtension, "extension of backup files")
	cmd.Flags().BoolVar(&noHidden, "no-hidden", false, "skip hidden files and directories")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "descend at most this many levels (0: unlimited)")
	cmd.Flags().BoolVar(&ignoreFiles, "ignore-files", false, "skip entries listed in .gitignore style files")

	return cmd
}
