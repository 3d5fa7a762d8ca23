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

package walk

import (
	"bufio"
	"io"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🙈 ignoreRule is one non-empty line of an ignore file
type ignoreRule struct {
	base     string // slash-separated directory holding the ignore file, "" for the walk root
	pattern  string // doublestar pattern, relative to base when anchored
	negate   bool   // leading '!' re-includes a previously ignored path
	dirOnly  bool   // trailing '/' restricts the rule to directories
	anchored bool   // contains a '/' so it is matched against the path below base
}

func (r ignoreRule) match(rel string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}

	sub := rel
	if r.base != "" {
		if !strings.HasPrefix(rel, r.base+"/") {
			return false
		}
		sub = rel[len(r.base)+1:]
	}

	target := sub
	if !r.anchored {
		target = path.Base(sub)
	}

	ok, err := doublestar.Match(r.pattern, target)
	if err != nil {
		return false
	}
	return ok
}

// 📜 IgnoreRules is an ordered, immutable set of gitignore-style rules.
// Later rules take precedence over earlier ones. A nil *IgnoreRules ignores nothing.
type IgnoreRules struct {
	rules []ignoreRule
}

// ParseIgnore reads gitignore-style rules from rd. base is the slash-separated
// location of the ignore file relative to the walk root ("" for the root).
func ParseIgnore(base string, rd io.Reader) (*IgnoreRules, error) {
	base = strings.Trim(base, "/")
	if base == "." {
		base = ""
	}

	out := &IgnoreRules{}
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		rule, ok := parseIgnoreLine(scanner.Text())
		if !ok {
			continue
		}
		if !doublestar.ValidatePattern(rule.pattern) {
			continue
		}
		rule.base = base
		out.rules = append(out.rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading ignore rules: %w", err)
	}
	return out, nil
}

func parseIgnoreLine(line string) (ignoreRule, bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasSuffix(line, `\ `) {
		line = strings.TrimRight(line, " \t")
	}
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var rule ignoreRule
	switch {
	case strings.HasPrefix(line, "!"):
		rule.negate = true
		line = line[1:]
	case strings.HasPrefix(line, `\!`), strings.HasPrefix(line, `\#`):
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		rule.anchored = true
		line = strings.TrimLeft(line, "/")
	}
	if strings.Contains(line, "/") {
		rule.anchored = true
	}
	if line == "" {
		return ignoreRule{}, false
	}

	rule.pattern = line
	return rule, true
}

// Extend returns a new rule set with more appended after r
func (r *IgnoreRules) Extend(more *IgnoreRules) *IgnoreRules {
	if more.Len() == 0 {
		return r
	}
	if r.Len() == 0 {
		return more
	}
	merged := make([]ignoreRule, 0, len(r.rules)+len(more.rules))
	merged = append(merged, r.rules...)
	merged = append(merged, more.rules...)
	return &IgnoreRules{rules: merged}
}

// Len returns the number of rules
func (r *IgnoreRules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// 🔍 Ignored reports whether the slash-separated path rel (relative to the
// walk root) is ignored. The last matching rule decides.
func (r *IgnoreRules) Ignored(rel string, isDir bool) bool {
	if r == nil {
		return false
	}
	ignored := false
	for _, rule := range r.rules {
		if rule.match(rel, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}
