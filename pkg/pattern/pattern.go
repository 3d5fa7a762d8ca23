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

// Package pattern compiles filename wildcards and content expressions into
// matchers shared by every scan operation.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/futil/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind selects how an expression is translated before compiling
type Kind int

const (
	// KindContent is matched against line text
	KindContent Kind = iota
	// KindFilename is a wildcard matched against a whole base name
	KindFilename
)

func (k Kind) String() string {
	if k == KindFilename {
		return "filename"
	}
	return "content"
}

// 🔧 Options tune compilation
type Options struct {
	CaseInsensitive bool
	// Literal escapes a content expression so it matches as a plain substring
	Literal bool
}

// 🎯 Pattern is an immutable compiled matcher
type Pattern struct {
	expr string
	kind Kind
	re   *regexp.Regexp
}

// 📍 Span is a half-open byte range [Start, End) of one match within a line
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// 🧩 Segment is a piece of a line, either matched or plain
type Segment struct {
	Text    string
	Matched bool
}

// 🏭 Compile translates expr according to kind and compiles it
func Compile(expr string, kind Kind, opts Options) (*Pattern, error) {
	var source string
	switch kind {
	case KindFilename:
		source = Wildcard(expr)
	default:
		source = expr
		if opts.Literal {
			source = regexp.QuoteMeta(expr)
		}
	}

	if opts.CaseInsensitive {
		source = "(?i)" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fserr.Setup(fmt.Sprintf("compiling %s pattern %q", kind, expr), errors.Errorf("%w: %v", fserr.ErrInvalidPattern, err))
	}

	return &Pattern{expr: expr, kind: kind, re: re}, nil
}

// MustCompile is Compile that panics on error, for tests and constants
func MustCompile(expr string, kind Kind, opts Options) *Pattern {
	p, err := Compile(expr, kind, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// 🃏 Wildcard translates a glob-like filename wildcard into an anchored regex.
// Only * and ? are special; every other character matches itself.
func Wildcard(expr string) string {
	quoted := regexp.QuoteMeta(expr)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	// QuoteMeta leaves '-' alone today; keep it literal if that ever changes
	quoted = strings.ReplaceAll(quoted, `\-`, "-")
	return "^" + quoted + "$"
}

// String returns the expression the pattern was compiled from
func (p *Pattern) String() string {
	return p.expr
}

// Kind returns how the pattern was compiled
func (p *Pattern) Kind() Kind {
	return p.kind
}

// MatchString reports whether s contains at least one match
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// 🔍 FindSpans returns every non-overlapping match in s, left to right
func (p *Pattern) FindSpans(s string) []Span {
	locs := p.re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// 🧩 Segments splits s into plain and matched pieces whose concatenation is s
func (p *Pattern) Segments(s string) []Segment {
	return SegmentsOf(s, p.FindSpans(s))
}

// SegmentsOf splits s around spans, which must be ordered and non-overlapping.
// Empty matches produce no matched segment.
func SegmentsOf(s string, spans []Span) []Segment {
	segments := make([]Segment, 0, 2*len(spans)+1)
	last := 0
	for _, span := range spans {
		if span.Start > last {
			segments = append(segments, Segment{Text: s[last:span.Start]})
		}
		if span.Len() > 0 {
			segments = append(segments, Segment{Text: s[span.Start:span.End], Matched: true})
		}
		last = span.End
	}
	if last < len(s) {
		segments = append(segments, Segment{Text: s[last:]})
	}
	return segments
}

// 📂 SplitPathPattern splits "dir/glob" on its last slash into a scan root and
// a filename wildcard.
func SplitPathPattern(arg string) (dir string, glob string, err error) {
	idx := strings.LastIndex(arg, "/")
	if idx < 0 {
		return "", "", fserr.Setup("invalid path pattern", errors.Errorf("%q has no directory part. Example: /var/logs/trc*", arg))
	}
	dir, glob = arg[:idx], arg[idx+1:]
	if dir == "" {
		dir = "/"
	}
	return dir, glob, nil
}
