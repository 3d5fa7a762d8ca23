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
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/futil/pkg/walk"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// 📏 FormatSize renders a byte count, scaled by 1024 when human is set
func FormatSize(size int64, human bool) string {
	if !human {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

// TreeHandler receives every listed entry
type TreeHandler func(walk.Entry)

// 🔧 TreeOptions configure a Tree
type TreeOptions struct {
	Options
	Human   bool // scale file sizes
	Color   bool // directories blue, files green
	OnEntry TreeHandler
}

// 🌳 Tree lists a subtree, directories included
type Tree struct {
	BaseOperation
	opts  TreeOptions
	dir   *color.Color
	file  *color.Color
	Count int
}

var _ Operation = (*Tree)(nil)

// 🏭 NewTree builds a Tree
func NewTree(opts TreeOptions) *Tree {
	opts.Policy.FilesOnly = false
	t := &Tree{
		BaseOperation: NewBaseOperation(opts.Options),
		opts:          opts,
		dir:           color.New(color.FgBlue),
		file:          color.New(color.FgGreen),
	}
	if opts.Color {
		t.dir.EnableColor()
		t.file.EnableColor()
	} else {
		t.dir.DisableColor()
		t.file.DisableColor()
	}
	return t
}

func (t *Tree) Name() string {
	return "tree"
}

// Visit hands the entry to the handler
func (t *Tree) Visit(ctx context.Context, entry walk.Entry) error {
	t.Count++
	if t.opts.OnEntry != nil {
		t.opts.OnEntry(entry)
	}
	return nil
}

// Line renders one entry as "<indent>├─ rel (size)"; the root shows its path
func (t *Tree) Line(entry walk.Entry) string {
	label := entry.Rel
	if label == "" {
		label = entry.Path
	}
	size := "DIR"
	paint := t.dir
	if !entry.IsDir {
		size = FormatSize(entry.Size, t.opts.Human)
		paint = t.file
	}
	indent := strings.Repeat(" ", entry.Depth*2)
	return paint.Sprintf("%s├─ %s (%s)", indent, label, size)
}
