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
	"fmt"

	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/pattern"
	"github.com/walteh/futil/pkg/scan"
	"github.com/walteh/futil/pkg/walk"
)

// FileCount is the number of matching lines in one file
type FileCount struct {
	Path  string
	Count int
}

// 📊 CountReport lists files with at least one matching line, in visit order
type CountReport struct {
	Files []FileCount
	Total int
}

// 🔧 CountOptions configure a Count
type CountOptions struct {
	Options
	Pattern *pattern.Pattern
}

// 📊 Count tallies lines matching a pattern, per file and overall
type Count struct {
	BaseOperation
	pattern *pattern.Pattern
	report  CountReport
}

var _ Operation = (*Count)(nil)

// 🏭 NewCount validates opts and builds a Count
func NewCount(opts CountOptions) (*Count, error) {
	if opts.Pattern == nil {
		return nil, fserr.Setup("count needs a pattern", nil)
	}
	if opts.Pattern.Kind() != pattern.KindContent {
		return nil, fserr.Setup(fmt.Sprintf("count pattern %q is a %s pattern", opts.Pattern, opts.Pattern.Kind()), nil)
	}
	opts.Policy.FilesOnly = true
	return &Count{
		BaseOperation: NewBaseOperation(opts.Options),
		pattern:       opts.Pattern,
	}, nil
}

func (c *Count) Name() string {
	return "count"
}

// Visit counts matching lines of one file
func (c *Count) Visit(ctx context.Context, entry walk.Entry) error {
	n := 0
	err := scan.Lines(ctx, entry.Path, func(line scan.Line) error {
		if c.pattern.MatchString(line.Text) {
			n++
		}
		return nil
	}, scan.OnDecodeError(func(err *fserr.EntryError) {
		c.AddProblem(ctx, err)
	}))

	// lines read before a failure still count
	if n > 0 {
		c.report.Files = append(c.report.Files, FileCount{Path: entry.Path, Count: n})
		c.report.Total += n
	}
	return err
}

// Report returns the tally so far
func (c *Count) Report() CountReport {
	return c.report
}
