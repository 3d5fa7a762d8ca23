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

// Package walk streams the entries of a directory tree through an entry
// filter.
//
// A walk is depth-first and pre-order: a directory is yielded before its
// contents, and the contents of a directory come in the order the
// filesystem enumerates them. Directories are read in small batches so a
// walk holds at most one open handle and one batch per level of depth.
//
// Only failures on the root abort a walk. Everything below the root that
// cannot be read is yielded as an *fserr.EntryError and the walk carries on.
package walk

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/futil/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

const readBatchSize = 128

// 🚶 Walker produces filtered entries below a root
type Walker struct {
	filter *Filter
}

// 🏭 New creates a walker applying policy
func New(policy Policy) *Walker {
	return &Walker{filter: NewFilter(policy)}
}

// Policy returns the policy applied by the walker
func (w *Walker) Policy() Policy {
	return w.filter.Policy()
}

// 📂 frame is one directory being enumerated
type frame struct {
	dir     *os.File
	path    string
	rel     string
	depth   int
	rules   *IgnoreRules
	pending []fs.DirEntry
	err     error // deferred read error, reported once pending drains
	done    bool

	ignoreErrs []error // unreadable ignore files, reported when the frame is pushed
}

func (f *frame) next() (fs.DirEntry, error) {
	for len(f.pending) == 0 {
		if f.err != nil {
			err := f.err
			f.err = nil
			f.done = true
			return nil, err
		}
		if f.done {
			return nil, nil
		}
		entries, err := f.dir.ReadDir(readBatchSize)
		f.pending = entries
		switch {
		case errors.Is(err, io.EOF):
			f.done = true
		case err != nil:
			f.err = err
		}
	}
	de := f.pending[0]
	f.pending[0] = nil
	f.pending = f.pending[1:]
	return de, nil
}

func (f *frame) close() {
	if f.dir != nil {
		f.dir.Close()
		f.dir = nil
	}
}

// 🎯 Walk checks root and returns a lazy sequence of its entries.
//
// The returned error is non-nil only when root itself cannot be used; it is
// a *fserr.SetupError. Per-entry failures arrive through the sequence as a
// partially filled Entry paired with an *fserr.EntryError. Ranging over the
// sequence again performs a fresh walk.
func (w *Walker) Walk(ctx context.Context, root string) (iter.Seq2[Entry, error], error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fserr.Setup("invalid root path "+root, fserr.NewEntryError(root, err))
	}
	if info.IsDir() {
		dir, err := os.Open(root)
		if err != nil {
			return nil, fserr.Setup("unreadable root path "+root, fserr.NewEntryError(root, err))
		}
		dir.Close()
	}

	return func(yield func(Entry, error) bool) {
		w.walk(ctx, root, yield)
	}, nil
}

func (w *Walker) walk(ctx context.Context, root string, yield func(Entry, error) bool) {
	logger := zerolog.Ctx(ctx)
	policy := w.filter.Policy()

	// re-stat so every range reflects the tree as it is now
	info, err := os.Stat(root)
	if err != nil {
		yield(Entry{Path: root}, fserr.NewEntryError(root, err))
		return
	}

	rootEntry := newEntry(root, "", 0, info)
	if w.filter.Decide(rootEntry, nil) == Include {
		if !yield(rootEntry, nil) {
			return
		}
	}
	if !rootEntry.IsDir || !policy.descendInto(0) {
		return
	}

	var stack []*frame
	defer func() {
		for _, f := range stack {
			f.close()
		}
	}()

	push := func(e Entry, parent *IgnoreRules) bool {
		f, err := w.openFrame(e, parent)
		if err != nil {
			return yield(e, err)
		}
		stack = append(stack, f)
		for _, ignoreErr := range f.ignoreErrs {
			if !yield(e, ignoreErr) {
				return false
			}
		}
		return true
	}

	if !push(rootEntry, nil) {
		return
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			yield(Entry{}, errors.Errorf("walking %s: %w", root, err))
			return
		}

		top := stack[len(stack)-1]
		de, err := top.next()
		if err != nil {
			stack = stack[:len(stack)-1]
			top.close()
			if !yield(Entry{Path: top.path, Rel: top.rel, Depth: top.depth, IsDir: true}, fserr.NewEntryError(top.path, err)) {
				return
			}
			continue
		}
		if de == nil {
			stack = stack[:len(stack)-1]
			top.close()
			continue
		}

		path := filepath.Join(top.path, de.Name())
		rel := filepath.Join(top.rel, de.Name())
		depth := top.depth + 1

		info, err := de.Info()
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("entry vanished during walk")
			if !yield(Entry{Path: path, Rel: rel, Depth: depth}, fserr.NewEntryError(path, err)) {
				return
			}
			continue
		}

		entry := newEntry(path, rel, depth, info)
		decision := w.filter.Decide(entry, top.rules)
		logger.Trace().Str("path", path).Int("depth", depth).Stringer("decision", decision).Msg("walk decision")

		switch decision {
		case Prune:
			continue
		case Include:
			if !yield(entry, nil) {
				return
			}
		}

		if entry.IsDir && policy.descendInto(depth) {
			if !push(entry, top.rules) {
				return
			}
		}
	}
}

func (w *Walker) openFrame(e Entry, parent *IgnoreRules) (*frame, error) {
	dir, err := os.Open(e.Path)
	if err != nil {
		return nil, fserr.NewEntryError(e.Path, err)
	}

	f := &frame{
		dir:   dir,
		path:  e.Path,
		rel:   e.Rel,
		depth: e.Depth,
		rules: parent,
	}

	policy := w.filter.Policy()
	if policy.RespectIgnoreFiles {
		for _, name := range policy.ignoreFileNames() {
			rules, err := loadIgnoreFile(filepath.Join(e.Path, name), filepath.ToSlash(e.Rel))
			if err != nil {
				f.ignoreErrs = append(f.ignoreErrs, err)
				continue
			}
			f.rules = f.rules.Extend(rules)
		}
	}

	return f, nil
}

func loadIgnoreFile(path, base string) (*IgnoreRules, error) {
	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fserr.NewEntryError(path, err)
	}
	defer fh.Close()

	rules, err := ParseIgnore(base, fh)
	if err != nil {
		return nil, fserr.NewEntryError(path, err)
	}
	return rules, nil
}
