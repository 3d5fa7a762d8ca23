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

	"github.com/rs/zerolog"
	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner drives one walk through an Operation
type Runner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner; a nil logger falls back to the context logger
func NewRunner(logger *zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// 🏃 Run walks root and visits every entry with op.
//
// Setup failures (unusable root) and cancellation are returned. Per-entry
// failures are recorded on op and never stop the walk.
func (r *Runner) Run(ctx context.Context, root string, op Operation) error {
	logger := r.logger
	if logger == nil {
		logger = zerolog.Ctx(ctx)
	}
	ctx = logger.With().Str("operation", op.Name()).Logger().WithContext(ctx)
	logger = zerolog.Ctx(ctx)

	seq, err := walk.New(op.Policy()).Walk(ctx, root)
	if err != nil {
		return errors.Errorf("starting %s: %w", op.Name(), err)
	}

	logger.Debug().Str("root", root).Msg("walk started")

	visited := 0
	for entry, err := range seq {
		if err != nil {
			if !r.recordProblem(ctx, op, err) {
				return errors.Errorf("running %s: %w", op.Name(), err)
			}
			continue
		}

		visited++
		if err := op.Visit(ctx, entry); err != nil {
			if !r.recordProblem(ctx, op, err) {
				return errors.Errorf("running %s on %s: %w", op.Name(), entry.Path, err)
			}
		}
	}

	logger.Debug().Int("visited", visited).Msg("walk finished")
	return nil
}

// recordProblem stores err on op when it is scoped to one entry
func (r *Runner) recordProblem(ctx context.Context, op Operation, err error) bool {
	var entryErr *fserr.EntryError
	if !errors.As(err, &entryErr) {
		return false
	}
	zerolog.Ctx(ctx).Warn().
		Str("path", entryErr.Path).
		Int("line", entryErr.Line).
		Stringer("kind", entryErr.Kind).
		Err(entryErr.Err).
		Msg("skipping entry")
	op.AddProblem(ctx, entryErr)
	return true
}
