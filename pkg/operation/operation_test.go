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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/futil/pkg/fserr"
	"github.com/walteh/futil/pkg/operation"
	"github.com/walteh/futil/pkg/pattern"
	"github.com/walteh/futil/pkg/status"
	"github.com/walteh/futil/pkg/walk"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// createTestTree writes files (relative path -> content) under a temp dir
func createTestTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent of %s", rel)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", rel)
	}
	return root
}

func allPolicy() walk.Policy {
	return walk.Policy{IncludeHidden: true, MaxDepth: walk.NoDepthLimit}
}

func literal(t *testing.T, expr string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(expr, pattern.KindContent, pattern.Options{Literal: true})
	require.NoError(t, err)
	return p
}

func TestRunner_InvalidRoot(t *testing.T) {
	ctx := testContext(t)
	count, err := operation.NewCount(operation.CountOptions{
		Options: operation.Options{Policy: allPolicy()},
		Pattern: literal(t, "x"),
	})
	require.NoError(t, err)

	err = operation.NewRunner(nil).Run(ctx, filepath.Join(t.TempDir(), "missing"), count)
	require.Error(t, err)
	assert.True(t, fserr.IsSetup(err), "root failure should be a setup error")
}

func TestRunner_Cancelled(t *testing.T) {
	root := createTestTree(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	tree := operation.NewTree(operation.TreeOptions{Options: operation.Options{Policy: allPolicy()}})
	err := operation.NewRunner(nil).Run(ctx, root, tree)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"app.log":        "start\nERROR one\nok\nERROR two ERROR\n",
		"notes.txt":      "ERROR here too\n",
		"sub/trc1.log":   "nothing\n",
		".env":           "ERROR=1\n",
		"sub/.hidden.md": "ERROR\n",
	})

	tests := []struct {
		name          string
		includeHidden bool
		filename      string
		wantPaths     []string
		wantLines     int
	}{
		{
			name:      "hidden excluded",
			wantPaths: []string{"app.log", "app.log", "notes.txt"},
			wantLines: 3,
		},
		{
			name:          "hidden included",
			includeHidden: true,
			wantPaths:     []string{".env", "app.log", "app.log", "notes.txt", "sub/.hidden.md"},
			wantLines:     5,
		},
		{
			name:      "filename restricted",
			filename:  "*.log",
			wantPaths: []string{"app.log", "app.log"},
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			content := pattern.MustCompile("ERROR", pattern.KindContent, pattern.Options{})

			var filename *pattern.Pattern
			if tt.filename != "" {
				filename = pattern.MustCompile(tt.filename, pattern.KindFilename, pattern.Options{})
			}

			var got []string
			search, err := operation.NewSearch(operation.SearchOptions{
				Options: operation.Options{
					Policy: walk.Policy{IncludeHidden: tt.includeHidden, MaxDepth: walk.NoDepthLimit},
				},
				Filename: filename,
				Content:  content,
				OnMatch: func(m operation.Match) {
					rel, err := filepath.Rel(root, m.Path)
					require.NoError(t, err)
					got = append(got, filepath.ToSlash(rel))
				},
			})
			require.NoError(t, err)

			require.NoError(t, operation.NewRunner(nil).Run(ctx, root, search))
			assert.ElementsMatch(t, tt.wantPaths, got)
			assert.Equal(t, tt.wantLines, search.Lines)
			assert.Empty(t, search.Problems())
		})
	}
}

func TestSearch_MatchDetails(t *testing.T) {
	ctx := testContext(t)
	root := createTestTree(t, map[string]string{"a.txt": "first\nfoo bar foo\n"})

	var matches []operation.Match
	search, err := operation.NewSearch(operation.SearchOptions{
		Options: operation.Options{Policy: allPolicy()},
		Content: literal(t, "foo"),
		OnMatch: func(m operation.Match) { matches = append(matches, m) },
	})
	require.NoError(t, err)
	require.NoError(t, operation.NewRunner(nil).Run(ctx, root, search))

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, 2, m.LineNumber)
	assert.Equal(t, "foo bar foo", m.Line)
	assert.Equal(t, []pattern.Span{{Start: 0, End: 3}, {Start: 8, End: 11}}, m.Spans)

	rebuilt := ""
	for _, seg := range m.Segments() {
		rebuilt += seg.Text
	}
	assert.Equal(t, m.Line, rebuilt)
	assert.Equal(t, 1, search.Files)
}

func TestSearch_DecodeProblem(t *testing.T) {
	ctx := testContext(t)
	root := createTestTree(t, map[string]string{"bin.dat": "foo\n\xff\xfe\xfdfoo\nfoo\n"})

	var reported []*fserr.EntryError
	lines := 0
	search, err := operation.NewSearch(operation.SearchOptions{
		Options: operation.Options{
			Policy:    allPolicy(),
			OnProblem: func(e *fserr.EntryError) { reported = append(reported, e) },
		},
		Content: literal(t, "foo"),
		OnMatch: func(operation.Match) { lines++ },
	})
	require.NoError(t, err)
	require.NoError(t, operation.NewRunner(nil).Run(ctx, root, search))

	assert.Equal(t, 2, lines, "lines around the undecodable one are still scanned")
	require.Len(t, search.Problems(), 1)
	assert.Equal(t, 2, search.Problems()[0].Line)
	assert.Equal(t, fserr.KindDecode, search.Problems()[0].Kind)
	assert.Equal(t, search.Problems(), reported)
}

func TestSearch_RequiresContent(t *testing.T) {
	_, err := operation.NewSearch(operation.SearchOptions{})
	require.Error(t, err)
	assert.True(t, fserr.IsSetup(err))
}

func TestCount(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		expr      string
		regex     bool
		wantFiles map[string]int
		wantTotal int
	}{
		{
			name:      "literal counts lines not occurrences",
			files:     map[string]string{"a.txt": "foo\nfoo\nfoobar\nbar\n"},
			expr:      "foo",
			wantFiles: map[string]int{"a.txt": 3},
			wantTotal: 3,
		},
		{
			name: "zero-match files omitted",
			files: map[string]string{
				"a.txt":     "x\ny\n",
				"b.txt":     "foo foo\n",
				"sub/c.txt": "foo\nfoo\n",
			},
			expr:      "foo",
			wantFiles: map[string]int{"b.txt": 1, "sub/c.txt": 2},
			wantTotal: 3,
		},
		{
			name:      "regex",
			files:     map[string]string{"a.txt": "id=1\nid=x\nid=22\n"},
			expr:      `id=\d+`,
			regex:     true,
			wantFiles: map[string]int{"a.txt": 2},
			wantTotal: 2,
		},
		{
			name:      "no matches still has a total",
			files:     map[string]string{"a.txt": "nothing\n"},
			expr:      "foo",
			wantFiles: map[string]int{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := createTestTree(t, tt.files)

			p, err := pattern.Compile(tt.expr, pattern.KindContent, pattern.Options{Literal: !tt.regex})
			require.NoError(t, err)

			count, err := operation.NewCount(operation.CountOptions{
				Options: operation.Options{Policy: allPolicy()},
				Pattern: p,
			})
			require.NoError(t, err)
			require.NoError(t, operation.NewRunner(nil).Run(ctx, root, count))

			report := count.Report()
			got := map[string]int{}
			sum := 0
			for _, fc := range report.Files {
				rel, err := filepath.Rel(root, fc.Path)
				require.NoError(t, err)
				got[filepath.ToSlash(rel)] = fc.Count
				sum += fc.Count
				assert.Positive(t, fc.Count)
			}
			assert.Equal(t, tt.wantFiles, got)
			assert.Equal(t, tt.wantTotal, report.Total)
			assert.Equal(t, sum, report.Total, "total is the sum of per-file counts")
		})
	}
}

func runReplace(t *testing.T, root string, opts operation.ReplaceOptions) *operation.Replace {
	t.Helper()
	if opts.Policy.MaxDepth == 0 {
		opts.Policy = allPolicy()
	}
	replace, err := operation.NewReplace(opts)
	require.NoError(t, err)
	require.NoError(t, operation.NewRunner(nil).Run(testContext(t), root, replace))
	return replace
}

func outcomes(t *testing.T, root string, report operation.ReplaceReport) map[string]status.Outcome {
	t.Helper()
	got := map[string]status.Outcome{}
	for _, a := range report.Actions {
		rel, err := filepath.Rel(root, a.Path)
		require.NoError(t, err)
		got[filepath.ToSlash(rel)] = a.Outcome
	}
	return got
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReplace_Scenario(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"a.txt": "hello world\nhello rust",
		"b.log": "nothing",
	})

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "hi"})

	assert.Equal(t, "hi world\nhi rust", readFile(t, filepath.Join(root, "a.txt")))
	assert.Equal(t, "nothing", readFile(t, filepath.Join(root, "b.log")))
	assert.Equal(t, map[string]status.Outcome{
		"a.txt": status.OutcomeReplaced,
		"b.log": status.OutcomeSkipped,
	}, outcomes(t, root, replace.Report()))

	for _, a := range replace.Report().Actions {
		if a.Outcome == status.OutcomeReplaced {
			assert.Equal(t, 2, a.Occurrences)
			assert.Empty(t, a.BackupPath)
		}
	}
}

func TestReplace_NoOccurrenceLeavesFileUntouched(t *testing.T) {
	root := createTestTree(t, map[string]string{"a.txt": "nothing to see"})
	path := filepath.Join(root, "a.txt")

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "hi", Backup: true})

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "mtime should not change")
	assert.Equal(t, "nothing to see", readFile(t, path))
	assert.Equal(t, 1, replace.Report().Count(status.OutcomeSkipped))

	_, err = os.Stat(filepath.Join(root, "a.bak"))
	assert.ErrorIs(t, err, os.ErrNotExist, "no backup for skipped files")
}

func TestReplace_Backup(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"a.txt":    "one hello",
		"Makefile": "hello: all",
	})

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "bye", Backup: true})

	assert.Equal(t, 2, replace.Report().Count(status.OutcomeReplaced))
	assert.Len(t, replace.Report().Actions, 2, "backups created during the run are not visited")

	assert.Equal(t, "one hello", readFile(t, filepath.Join(root, "a.bak")))
	assert.Equal(t, "one bye", readFile(t, filepath.Join(root, "a.txt")))
	assert.Equal(t, "hello: all", readFile(t, filepath.Join(root, "Makefile.bak")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "exactly one backup per replaced file")
}

func TestReplace_CustomBackupExtension(t *testing.T) {
	root := createTestTree(t, map[string]string{"a.txt": "x"})
	replace := runReplace(t, root, operation.ReplaceOptions{Old: "x", New: "y", Backup: true, BackupExtension: ".orig"})

	require.Len(t, replace.Report().Actions, 1)
	assert.Equal(t, filepath.Join(root, "a.orig"), replace.Report().Actions[0].BackupPath)
	assert.Equal(t, "x", readFile(t, filepath.Join(root, "a.orig")))
}

func TestReplace_DryRun(t *testing.T) {
	root := createTestTree(t, map[string]string{"a.txt": "a a a", "b.txt": "b"})

	var streamed []operation.ReplaceAction
	replace := runReplace(t, root, operation.ReplaceOptions{
		Old:      "a",
		New:      "z",
		DryRun:   true,
		Backup:   true,
		OnAction: func(a operation.ReplaceAction) { streamed = append(streamed, a) },
	})

	assert.Equal(t, "a a a", readFile(t, filepath.Join(root, "a.txt")))
	_, err := os.Stat(filepath.Join(root, "a.bak"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, replace.Report().Actions, streamed)
	for _, a := range streamed {
		if filepath.Base(a.Path) == "a.txt" {
			assert.Equal(t, status.OutcomeWouldReplace, a.Outcome)
			assert.Equal(t, 3, a.Occurrences)
		}
	}
}

func TestReplace_InvalidEncoding(t *testing.T) {
	root := createTestTree(t, map[string]string{"bad.bin": "hello \xff\xfe"})

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "hi"})

	require.Len(t, replace.Report().Actions, 1)
	action := replace.Report().Actions[0]
	assert.Equal(t, status.OutcomeReadFailed, action.Outcome)
	assert.ErrorIs(t, action.Err, fserr.ErrInvalidEncoding)
	require.Len(t, replace.Problems(), 1)
	assert.Equal(t, fserr.KindDecode, replace.Problems()[0].Kind)
	assert.Equal(t, "hello \xff\xfe", readFile(t, filepath.Join(root, "bad.bin")))
}

func TestReplace_BackupFailure(t *testing.T) {
	root := createTestTree(t, map[string]string{"a.txt": "hello"})
	// a directory where the backup should go makes the copy fail
	require.NoError(t, os.Mkdir(filepath.Join(root, "a.bak"), 0o755))

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "hi", Backup: true})

	got := outcomes(t, root, replace.Report())
	assert.Equal(t, status.OutcomeBackupFailed, got["a.txt"])
	assert.Equal(t, "hello", readFile(t, filepath.Join(root, "a.txt")), "original untouched")
	assert.Len(t, replace.Problems(), 1)
}

func TestReplace_BackupWouldOverwriteSource(t *testing.T) {
	tests := []struct {
		name string
		file string
		ext  string
	}{
		{name: "default extension on a bak file", file: "notes.bak", ext: ""},
		{name: "extension equal to the file's own", file: "a.txt", ext: "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := createTestTree(t, map[string]string{tt.file: "hello original"})
			path := filepath.Join(root, tt.file)

			replace := runReplace(t, root, operation.ReplaceOptions{
				Old:             "hello",
				New:             "bye",
				Backup:          true,
				BackupExtension: tt.ext,
			})

			require.Len(t, replace.Report().Actions, 1)
			action := replace.Report().Actions[0]
			assert.Equal(t, status.OutcomeBackupFailed, action.Outcome)
			assert.ErrorIs(t, action.Err, operation.ErrBackupConflict)
			assert.Empty(t, action.BackupPath)
			assert.Equal(t, "hello original", readFile(t, path), "original untouched")
			assert.Len(t, replace.Problems(), 1)
		})
	}
}

func TestReplace_BackupCollisionBetweenFiles(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"a.txt": "hello from txt",
		"a.log": "hello from log",
	})

	replace := runReplace(t, root, operation.ReplaceOptions{Old: "hello", New: "bye", Backup: true})

	report := replace.Report()
	require.Len(t, report.Actions, 2, "the backup itself is not visited")
	assert.Equal(t, 1, report.Count(status.OutcomeReplaced))
	assert.Equal(t, 1, report.Count(status.OutcomeBackupFailed))

	// whichever file was visited first owns a.bak, the other is left alone
	var replaced, refused operation.ReplaceAction
	for _, a := range report.Actions {
		if a.Outcome == status.OutcomeReplaced {
			replaced = a
		} else {
			refused = a
		}
	}
	assert.ErrorIs(t, refused.Err, operation.ErrBackupConflict)

	original := map[string]string{
		filepath.Join(root, "a.txt"): "hello from txt",
		filepath.Join(root, "a.log"): "hello from log",
	}
	assert.Equal(t, original[replaced.Path], readFile(t, filepath.Join(root, "a.bak")))
	assert.Equal(t, original[refused.Path], readFile(t, refused.Path))
	assert.NotEqual(t, original[replaced.Path], readFile(t, replaced.Path))
}

func TestPatternKindSetup(t *testing.T) {
	content := pattern.MustCompile("ERROR", pattern.KindContent, pattern.Options{})
	filename := pattern.MustCompile("*.log", pattern.KindFilename, pattern.Options{})

	tests := []struct {
		name  string
		build func() error
		ok    bool
	}{
		{
			name: "search with matching kinds",
			build: func() error {
				_, err := operation.NewSearch(operation.SearchOptions{Filename: filename, Content: content})
				return err
			},
			ok: true,
		},
		{
			name: "search content is a filename pattern",
			build: func() error {
				_, err := operation.NewSearch(operation.SearchOptions{Content: filename})
				return err
			},
		},
		{
			name: "search filename is a content pattern",
			build: func() error {
				_, err := operation.NewSearch(operation.SearchOptions{Filename: content, Content: content})
				return err
			},
		},
		{
			name: "count with a content pattern",
			build: func() error {
				_, err := operation.NewCount(operation.CountOptions{Pattern: content})
				return err
			},
			ok: true,
		},
		{
			name: "count with a filename pattern",
			build: func() error {
				_, err := operation.NewCount(operation.CountOptions{Pattern: filename})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, fserr.IsSetup(err))
		})
	}
}

func TestReplace_Setup(t *testing.T) {
	tests := []struct {
		name string
		opts operation.ReplaceOptions
	}{
		{name: "empty old", opts: operation.ReplaceOptions{New: "x"}},
		{name: "separator in extension", opts: operation.ReplaceOptions{Old: "x", BackupExtension: "a/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := operation.NewReplace(tt.opts)
			require.Error(t, err)
			assert.True(t, fserr.IsSetup(err))
		})
	}
}

func TestTree(t *testing.T) {
	ctx := testContext(t)
	root := createTestTree(t, map[string]string{
		"a.txt":       "12345",
		"sub/b.txt":   "",
		".git/config": "x",
		"skip.log":    "x",
		".gitignore":  "*.log\n",
	})

	var lines []string
	var tree *operation.Tree
	tree = operation.NewTree(operation.TreeOptions{
		Options: operation.Options{Policy: walk.Policy{MaxDepth: walk.NoDepthLimit, RespectIgnoreFiles: true}},
		OnEntry: func(e walk.Entry) {
			if e.Depth > 0 {
				lines = append(lines, tree.Line(e))
			}
		},
	})
	require.NoError(t, operation.NewRunner(nil).Run(ctx, root, tree))

	assert.ElementsMatch(t, []string{
		"  ├─ a.txt (5 B)",
		"  ├─ sub (DIR)",
		"    ├─ " + filepath.Join("sub", "b.txt") + " (0 B)",
	}, lines)
	assert.Equal(t, 4, tree.Count, "root is listed too")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size  int64
		human bool
		want  string
	}{
		{size: 1023, human: false, want: "1023 B"},
		{size: 1023, human: true, want: "1023.00 B"},
		{size: 1024, human: true, want: "1.00 KB"},
		{size: 1_500_000, human: true, want: "1.43 MB"},
		{size: 3_000_000_000, human: true, want: "2.79 GB"},
		{size: 5 << 50, human: true, want: "5120.00 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, operation.FormatSize(tt.size, tt.human))
		})
	}
}
