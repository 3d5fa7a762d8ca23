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
	"path/filepath"
	"strings"
)

// NoDepthLimit disables the depth rule of a Policy
const NoDepthLimit = -1

// DefaultIgnoreFileNames are read in every visited directory when a Policy
// respects ignore files
var DefaultIgnoreFileNames = []string{".gitignore", ".ignore", ".futilignore"}

// 🔧 Policy decides which entries of a walk participate in an operation.
// It must not change while a walk is running.
type Policy struct {
	IncludeHidden      bool     // Keep entries whose name starts with '.'
	MaxDepth           int      // Deepest depth yielded, NoDepthLimit for none
	RespectIgnoreFiles bool     // Apply gitignore-style rules found during the walk
	IgnoreFileNames    []string // Names of ignore files, DefaultIgnoreFileNames when empty
	FilesOnly          bool     // Only yield regular files (content-bearing operations)
}

// DefaultPolicy returns a policy with no depth limit that keeps everything
// except hidden entries
func DefaultPolicy() Policy {
	return Policy{MaxDepth: NoDepthLimit}
}

func (p Policy) ignoreFileNames() []string {
	if len(p.IgnoreFileNames) == 0 {
		return DefaultIgnoreFileNames
	}
	return p.IgnoreFileNames
}

// descendInto reports whether children of a directory at depth can still be yielded
func (p Policy) descendInto(depth int) bool {
	return p.MaxDepth < 0 || depth < p.MaxDepth
}

// ⚖️ Decision is the verdict of a Filter for one entry
type Decision int

const (
	// Include yields the entry
	Include Decision = iota
	// Exclude hides the entry; directories are still descended into
	Exclude
	// Prune hides a directory and everything below it
	Prune
)

func (d Decision) String() string {
	switch d {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	case Prune:
		return "prune"
	default:
		return "unknown"
	}
}

// 🧹 Filter applies a Policy to single entries
type Filter struct {
	policy Policy
}

// NewFilter creates a filter for policy
func NewFilter(policy Policy) *Filter {
	return &Filter{policy: policy}
}

// Policy returns the policy the filter applies
func (f *Filter) Policy() Policy {
	return f.policy
}

// 🎯 Decide returns the verdict for e given the ignore rules in scope.
// The walk root (depth 0) is only subject to the files-only rule.
func (f *Filter) Decide(e Entry, rules *IgnoreRules) Decision {
	if e.Depth > 0 {
		if !f.policy.IncludeHidden && IsHidden(e.Name()) {
			return f.hide(e)
		}
		if f.policy.RespectIgnoreFiles && rules.Ignored(filepath.ToSlash(e.Rel), e.IsDir) {
			return f.hide(e)
		}
		if f.policy.MaxDepth >= 0 && e.Depth > f.policy.MaxDepth {
			return f.hide(e)
		}
	}

	if f.policy.FilesOnly && !e.IsRegular() {
		return Exclude
	}
	return Include
}

func (f *Filter) hide(e Entry) Decision {
	if e.IsDir {
		return Prune
	}
	return Exclude
}

// IsHidden reports whether name uses the POSIX hidden-file convention
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
