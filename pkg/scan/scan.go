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

// Package scan reads text files line by line for the scan operations.
package scan

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/futil/pkg/fserr"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrStop may be returned by a LineFunc to end a file early without error
var ErrStop = errors.Base("stop scanning")

const (
	readBufferSize = 64 * 1024
	// cancellation is polled every this many lines
	ctxCheckInterval = 1024
)

// 📝 Line is one decoded line without its terminator
type Line struct {
	Number int // 1-based, counts lines that failed to decode
	Text   string
}

// LineFunc is called for every line that decodes cleanly
type LineFunc func(Line) error

// DecodeErrorFunc receives lines that are not valid text
type DecodeErrorFunc func(*fserr.EntryError)

type options struct {
	onDecode DecodeErrorFunc
}

// 🔧 Option configures Lines
type Option func(*options)

// OnDecodeError routes undecodable lines to fn instead of the context logger
func OnDecodeError(fn DecodeErrorFunc) Option {
	return func(o *options) {
		o.onDecode = fn
	}
}

// 📖 Lines opens path and calls visit for each line.
//
// A line that is not valid UTF-8 is handed to the decode error handler and
// skipped; the rest of the file is still scanned. A leading byte order mark
// is removed and UTF-16 input is transcoded. Failing to open or read the
// file returns an *fserr.EntryError. The file is always closed before
// Lines returns.
func Lines(ctx context.Context, path string, visit LineFunc, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.onDecode == nil {
		logger := zerolog.Ctx(ctx)
		o.onDecode = func(err *fserr.EntryError) {
			logger.Warn().Str("path", err.Path).Int("line", err.Line).Msg("skipping undecodable line")
		}
	}

	fh, err := os.Open(path)
	if err != nil {
		return fserr.NewEntryError(path, err)
	}
	defer fh.Close()

	reader := bufio.NewReaderSize(transform.NewReader(fh, unicode.BOMOverride(transform.Nop)), readBufferSize)

	number := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if len(raw) > 0 {
			number++
			if number%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return errors.Errorf("scanning %s: %w", path, err)
				}
			}

			text := trimEOL(raw)
			if !utf8.ValidString(text) {
				o.onDecode(fserr.NewLineError(path, number, fserr.ErrInvalidEncoding))
			} else if err := visit(Line{Number: number, Text: text}); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fserr.NewEntryError(path, readErr)
		}
	}
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
