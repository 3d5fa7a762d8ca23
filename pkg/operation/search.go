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

	"github.com/rs/zerolog"
	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/pattern"
	"github.com/walteh/futil/pkg/scan"
	"github.com/walteh/futil/pkg/walk"
)

// 🔍 Match is one line containing at least one content match
type Match struct {
	Path       string
	LineNumber int // 1-based
	Line       string
	Spans      []pattern.Span
}

// Segments splits the line into plain and matched pieces
func (m Match) Segments() []pattern.Segment {
	return pattern.SegmentsOf(m.Line, m.Spans)
}

// MatchHandler receives matches as soon as they are found
type MatchHandler func(Match)

// 🔧 SearchOptions configure a Search
type SearchOptions struct {
	Options
	// Filename restricts the scanned files by base name, nil keeps all
	Filename *pattern.Pattern
	// Content is required
	Content *pattern.Pattern
	OnMatch MatchHandler
}

// 🔍 Search streams every line matching a content pattern
type Search struct {
	BaseOperation
	filename *pattern.Pattern
	content  *pattern.Pattern
	onMatch  MatchHandler

	Files int // files scanned
	Lines int // matching lines
}

var _ Operation = (*Search)(nil)

// 🏭 NewSearch validates opts and builds a Search
func NewSearch(opts SearchOptions) (*Search, error) {
	if opts.Content == nil {
		return nil, fserr.Setup("search needs a content pattern", nil)
	}
	if opts.Content.Kind() != pattern.KindContent {
		return nil, fserr.Setup(fmt.Sprintf("search content pattern %q is a %s pattern", opts.Content, opts.Content.Kind()), nil)
	}
	if opts.Filename != nil && opts.Filename.Kind() != pattern.KindFilename {
		return nil, fserr.Setup(fmt.Sprintf("search filename pattern %q is a %s pattern", opts.Filename, opts.Filename.Kind()), nil)
	}
	opts.Policy.FilesOnly = true
	return &Search{
		BaseOperation: NewBaseOperation(opts.Options),
		filename:      opts.Filename,
		content:       opts.Content,
		onMatch:       opts.OnMatch,
	}, nil
}

func (s *Search) Name() string {
	return "search"
}

// Visit scans one file and reports its matching lines
func (s *Search) Visit(ctx context.Context, entry walk.Entry) error {
	if s.filename != nil && !s.filename.MatchString(entry.Name()) {
		zerolog.Ctx(ctx).Trace().Str("path", entry.Path).Msg("filename does not match")
		return nil
	}

	s.Files++
	return scan.Lines(ctx, entry.Path, func(line scan.Line) error {
		spans := s.content.FindSpans(line.Text)
		if len(spans) == 0 {
			return nil
		}
		s.Lines++
		if s.onMatch != nil {
			s.onMatch(Match{
				Path:       entry.Path,
				LineNumber: line.Number,
				Line:       line.Text,
				Spans:      spans,
			})
		}
		return nil
	}, scan.OnDecodeError(func(err *fserr.EntryError) {
		s.AddProblem(ctx, err)
	}))
}
