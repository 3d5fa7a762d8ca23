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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/status"
	"github.com/walteh/futil/pkg/text"
	"github.com/walteh/futil/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// ErrBackupConflict is returned when a backup path is already taken
var ErrBackupConflict = errors.Base("backup path conflict")

// 📝 ReplaceAction is what happened to one visited file
type ReplaceAction struct {
	Path        string
	Outcome     status.Outcome
	Occurrences int
	BackupPath  string // set when a backup was written
	Err         error  // set when Outcome.Failed()
}

// ReplaceReport lists every visited file, in visit order
type ReplaceReport struct {
	Actions []ReplaceAction
}

// Count returns how many actions ended with outcome
func (r ReplaceReport) Count(outcome status.Outcome) int {
	n := 0
	for _, a := range r.Actions {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}

// ActionHandler receives each action as soon as it is decided
type ActionHandler func(ReplaceAction)

// 🔧 ReplaceOptions configure a Replace
type ReplaceOptions struct {
	Options
	Old             string
	New             string
	DryRun          bool
	Backup          bool
	BackupExtension string // status.DefaultBackupExtension when empty
	OnAction        ActionHandler
}

// 🔄 Replace rewrites every literal occurrence of one string with another
type Replace struct {
	BaseOperation
	opts     ReplaceOptions
	replacer text.TextReplacer
	rules    []text.ReplacementRule
	report   ReplaceReport
	backups  map[string]struct{}
}

var _ Operation = (*Replace)(nil)

// 🏭 NewReplace validates opts and builds a Replace
func NewReplace(opts ReplaceOptions) (*Replace, error) {
	replacer := text.NewSimpleTextReplacer()
	rules := []text.ReplacementRule{{FromText: opts.Old, ToText: opts.New}}
	if err := replacer.ValidateRules(rules); err != nil {
		return nil, fserr.Setup("replace needs a non-empty search string", err)
	}
	if opts.BackupExtension == "" {
		opts.BackupExtension = status.DefaultBackupExtension
	}
	if strings.ContainsAny(opts.BackupExtension, `/\`) {
		return nil, fserr.Setup("invalid backup extension "+opts.BackupExtension, nil)
	}
	opts.Policy.FilesOnly = true
	return &Replace{
		BaseOperation: NewBaseOperation(opts.Options),
		opts:          opts,
		replacer:      replacer,
		rules:         rules,
		backups:       make(map[string]struct{}),
	}, nil
}

func (r *Replace) Name() string {
	return "replace"
}

// Visit rewrites one file in place
func (r *Replace) Visit(ctx context.Context, entry walk.Entry) error {
	logger := zerolog.Ctx(ctx)

	if _, ok := r.backups[filepath.Clean(entry.Path)]; ok {
		logger.Trace().Str("path", entry.Path).Msg("skipping backup written by this run")
		return nil
	}

	result, err := r.readAndReplace(ctx, entry.Path)
	if err != nil {
		entryErr := fserr.NewEntryError(entry.Path, err)
		r.record(ReplaceAction{Path: entry.Path, Outcome: status.OutcomeReadFailed, Err: entryErr})
		return entryErr
	}

	action := ReplaceAction{Path: entry.Path, Occurrences: result.ReplacementCount}

	switch {
	case result.ReplacementCount == 0:
		action.Outcome = status.OutcomeSkipped
		r.record(action)
		return nil
	case r.opts.DryRun:
		action.Outcome = status.OutcomeWouldReplace
		r.record(action)
		return nil
	}

	if r.opts.Backup {
		if err := r.checkBackupTarget(entry.Path); err != nil {
			entryErr := fserr.NewEntryError(entry.Path, err)
			action.Outcome = status.OutcomeBackupFailed
			action.Err = entryErr
			r.record(action)
			return entryErr
		}
		backupPath, err := status.BackupFile(entry.Path, r.opts.BackupExtension)
		if err != nil {
			entryErr := fserr.NewEntryError(entry.Path, errors.Errorf("backing up: %w", err))
			action.Outcome = status.OutcomeBackupFailed
			action.Err = entryErr
			r.record(action)
			return entryErr
		}
		r.backups[filepath.Clean(backupPath)] = struct{}{}
		action.BackupPath = backupPath
		logger.Debug().Str("path", entry.Path).Str("backup", backupPath).Msg("backup written")
	}

	if err := status.RewriteFile(entry.Path, result.ModifiedContent, entry.Mode.Perm()); err != nil {
		entryErr := fserr.NewEntryError(entry.Path, errors.Errorf("rewriting: %w", err))
		action.Outcome = status.OutcomeWriteFailed
		action.Err = entryErr
		r.record(action)
		return entryErr
	}

	action.Outcome = status.OutcomeReplaced
	r.record(action)
	return nil
}

// checkBackupTarget refuses a backup that would overwrite the file itself or
// a backup already written by this run
func (r *Replace) checkBackupTarget(path string) error {
	target := filepath.Clean(status.BackupPath(path, r.opts.BackupExtension))
	if target == filepath.Clean(path) {
		return errors.Errorf("%w: backup %s is the file itself", ErrBackupConflict, target)
	}
	if _, ok := r.backups[target]; ok {
		return errors.Errorf("%w: backup %s was already written for another file", ErrBackupConflict, target)
	}
	return nil
}

// readAndReplace computes the new content of path without writing it
func (r *Replace) readAndReplace(ctx context.Context, path string) (*text.ReplacementResult, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return r.replacer.ReplaceText(ctx, fh, r.rules)
}

func (r *Replace) record(action ReplaceAction) {
	r.report.Actions = append(r.report.Actions, action)
	if r.opts.OnAction != nil {
		r.opts.OnAction(action)
	}
}

// Report returns the actions so far
func (r *Replace) Report() ReplaceReport {
	return r.report
}
