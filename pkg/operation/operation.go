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

	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/walk"
)

// 🎯 Operation is a visitor applied to every entry of a walk
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Policy selects the entries the operation sees
	Policy() walk.Policy
	// Visit processes one entry. Returning an *fserr.EntryError records a
	// problem and continues; any other error aborts the run.
	Visit(ctx context.Context, entry walk.Entry) error
	// AddProblem records a per-entry failure
	AddProblem(ctx context.Context, err *fserr.EntryError)
}

// ProblemHandler is notified of every per-entry failure as it happens
type ProblemHandler func(*fserr.EntryError)

// 🔧 Options are shared by every operation
type Options struct {
	// Policy selects the entries of the walk
	Policy walk.Policy
	// OnProblem, if set, is called for each per-entry failure
	OnProblem ProblemHandler
}

// 🧱 BaseOperation carries the bookkeeping common to all operations
type BaseOperation struct {
	policy    walk.Policy
	onProblem ProblemHandler
	problems  []*fserr.EntryError
}

// 🏭 NewBaseOperation creates the shared state from opts
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		policy:    opts.Policy,
		onProblem: opts.OnProblem,
	}
}

// Policy implements Operation.Policy
func (b *BaseOperation) Policy() walk.Policy {
	return b.policy
}

// AddProblem implements Operation.AddProblem
func (b *BaseOperation) AddProblem(ctx context.Context, err *fserr.EntryError) {
	b.problems = append(b.problems, err)
	if b.onProblem != nil {
		b.onProblem(err)
	}
}

// Problems returns the per-entry failures seen so far, in order
func (b *BaseOperation) Problems() []*fserr.EntryError {
	return b.problems
}
