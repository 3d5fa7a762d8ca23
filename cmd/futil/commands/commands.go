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

// Package commands holds the futil subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/futil/cmd/futil/opts"
	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/log"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/walk"
)

// applyDepth overrides the policy depth when the flag was given; 0 is unlimited
func applyDepth(cmd *cobra.Command, policy *walk.Policy, name string, depth int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	if depth < 0 {
		return fserr.Setup(fmt.Sprintf("--%s must not be negative, got %d", name, depth), nil)
	}
	if depth == 0 {
		policy.MaxDepth = walk.NoDepthLimit
	} else {
		policy.MaxDepth = depth
	}
	return nil
}

// applyBool overrides target when the flag was given
func applyBool(cmd *cobra.Command, target *bool, name string, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor resolves an optional --color flag against --no-color and the output
func useColor(cmd *cobra.Command, o *opts.RootOpts, flag bool, auto bool) bool {
	if o.NoColor {
		return false
	}
	if cmd.Flags().Changed("color") {
		return flag
	}
	if auto {
		return isTerminal(cmd.OutOrStdout())
	}
	return false
}

// options builds the shared operation options for policy; problems are
// reported through the console logger carried by ctx
func options(ctx context.Context, policy walk.Policy) operation.Options {
	return operation.Options{
		Policy:    policy,
		OnProblem: log.FromContext(ctx).Problem,
	}
}

// run drives op over root, then warns once if any entry could not be processed
func run(ctx context.Context, root string, op interface {
	operation.Operation
	Problems() []*fserr.EntryError
}) error {
	if err := operation.NewRunner(nil).Run(ctx, root, op); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().
		Str("root", root).
		Int("problems", len(op.Problems())).
		Msg("operation complete")

	if n := log.FromContext(ctx).Problems(); n > 0 {
		log.FromContext(ctx).Warningf("%s: %d entries could not be processed", op.Name(), n)
	}
	return nil
}
