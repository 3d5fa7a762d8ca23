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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 15 // Width for outcome text
)

// 🎯 FormatAction formats one file outcome for display
func FormatAction(path string, outcome Outcome, detail string) string {
	// Determine prefix symbol
	var prefix string
	switch outcome {
	case OutcomeReplaced:
		prefix = color.GreenString("✓")
	case OutcomeWouldReplace:
		prefix = color.YellowString("⟳")
	case OutcomeBackupFailed, OutcomeWriteFailed, OutcomeReadFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, path)
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, outcome)

	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		outcomePart,
	)
	if detail != "" {
		line += " " + detail
	}
	return line
}
