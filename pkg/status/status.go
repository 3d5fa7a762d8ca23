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

package status

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultBackupExtension replaces the extension of a file when it is backed up
const DefaultBackupExtension = "bak"

// 📊 Outcome is what happened to one file during a rewrite
type Outcome int

const (
	OutcomeSkipped      Outcome = iota // Needle absent, file untouched
	OutcomeReplaced                    // File rewritten in place
	OutcomeWouldReplace                // Dry-run, file untouched
	OutcomeBackupFailed                // Backup copy failed, file untouched
	OutcomeWriteFailed                 // Rewrite failed after any backup
	OutcomeReadFailed                  // File could not be read as text
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeWouldReplace:
		return "would-replace"
	case OutcomeBackupFailed:
		return "backup-failed"
	case OutcomeWriteFailed:
		return "write-failed"
	case OutcomeReadFailed:
		return "read-failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome carries an error
func (o Outcome) Failed() bool {
	return o == OutcomeBackupFailed || o == OutcomeWriteFailed || o == OutcomeReadFailed
}

// 💾 BackupPath returns the sibling path a backup of path is written to.
// The extension is replaced with ext; names without one get ext appended.
func BackupPath(path, ext string) string {
	if ext == "" {
		ext = DefaultBackupExtension
	}
	ext = strings.TrimPrefix(ext, ".")

	dir, base := filepath.Split(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return filepath.Join(dir, base+"."+ext)
}

// BackupFile copies path to its backup path and returns that path.
// The original is never modified.
func BackupFile(path, ext string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Errorf("checking file existence: %w", err)
	}

	backupPath := BackupPath(path, ext)
	if filepath.Clean(backupPath) == filepath.Clean(path) {
		return "", errors.Errorf("backup path %s is the file itself", backupPath)
	}
	if err := copyFile(path, backupPath, info.Mode().Perm()); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	return backupPath, nil
}

// 📝 RewriteFile replaces the content of an existing file in place,
// keeping its permission bits.
func RewriteFile(path string, content []byte, perm fs.FileMode) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Errorf("opening for write: %w", err)
	}

	if _, err := fh.Write(content); err != nil {
		fh.Close()
		return errors.Errorf("writing content: %w", err)
	}

	if err := fh.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}

// Helper functions

func copyFile(src, dst string, perm fs.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}
