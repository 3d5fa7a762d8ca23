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

// Package fserr classifies the failures a corpus scan can run into.
//
// Two families exist. A SetupError is fatal: the command could not even
// start (bad root, bad pattern, bad config). An EntryError belongs to a
// single file, directory or line; it is logged, collected and the scan
// moves on.
package fserr

import (
	"fmt"
	"io/fs"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidPattern wraps every pattern compilation failure.
	ErrInvalidPattern = errors.Base("invalid pattern")

	// ErrInvalidEncoding marks content that is not valid UTF-8.
	ErrInvalidEncoding = errors.Base("invalid encoding")
)

// 🏷️ Kind is the coarse cause of a per-entry failure
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindPermissionDenied
	KindDecode
)

// String returns the user-facing cause text
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindDecode:
		return "invalid encoding"
	default:
		return "error"
	}
}

// 🔍 Classify maps an error onto a Kind
func Classify(err error) Kind {
	var entryErr *EntryError
	switch {
	case err == nil:
		return KindOther
	case errors.As(err, &entryErr):
		return entryErr.Kind
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, ErrInvalidEncoding):
		return KindDecode
	default:
		return KindOther
	}
}

// 📄 EntryError is a failure scoped to one entry, or one line of one entry
type EntryError struct {
	Path string
	Line int // 1-based, zero when the whole entry failed
	Kind Kind
	Err  error
}

// NewEntryError builds an EntryError for path, classifying err
func NewEntryError(path string, err error) *EntryError {
	return &EntryError{Path: path, Kind: Classify(err), Err: err}
}

// NewLineError builds a decode EntryError for one line of path
func NewLineError(path string, line int, err error) *EntryError {
	return &EntryError{Path: path, Line: line, Kind: KindDecode, Err: err}
}

func (e *EntryError) Error() string {
	prefix := e.Path
	if e.Line > 0 {
		prefix = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	// a bare sentinel says nothing the kind does not
	if e.Err == nil || e.Err.Error() == e.Kind.String() {
		return fmt.Sprintf("%s: %s", prefix, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// 🛑 SetupError aborts a command before any entry is processed
type SetupError struct {
	Reason string
	Err    error
}

// Setup wraps err as a SetupError with a short reason
func Setup(reason string, err error) *SetupError {
	return &SetupError{Reason: reason, Err: err}
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// IsSetup reports whether err carries a SetupError anywhere in its chain
func IsSetup(err error) bool {
	var setupErr *SetupError
	return errors.As(err, &setupErr)
}
