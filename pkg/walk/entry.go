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
	"io/fs"
	"path/filepath"
	"time"
)

// 📄 Entry is one filesystem object produced by a walk
type Entry struct {
	Path      string      // Path as reachable from the caller (root joined with Rel)
	Rel       string      // Path relative to the walk root, "" for the root itself
	Depth     int         // Root is depth 0
	IsDir     bool        // Directory (never true for a symlink)
	IsSymlink bool        // Symbolic link, never followed
	Mode      fs.FileMode // Type and permission bits
	Size      int64       // Size in bytes as reported by lstat
	ModTime   time.Time   // Last modification time
}

// Name returns the base name of the entry
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// IsRegular reports whether the entry is a plain file
func (e Entry) IsRegular() bool {
	return e.Mode.IsRegular()
}

func newEntry(path, rel string, depth int, info fs.FileInfo) Entry {
	mode := info.Mode()
	symlink := mode&fs.ModeSymlink != 0
	return Entry{
		Path:      path,
		Rel:       rel,
		Depth:     depth,
		IsDir:     info.IsDir() && !symlink,
		IsSymlink: symlink,
		Mode:      mode,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}
}
