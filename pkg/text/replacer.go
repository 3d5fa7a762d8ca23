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

// Package text applies literal string replacements to file content.
package text

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/fserr"
)

// 🔄 ReplacementRule replaces every occurrence of FromText with ToText
type ReplacementRule struct {
	FromText string
	ToText   string
}

// 📝 ReplacementResult is the content before and after the rules ran
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	ReplacementCount int  // occurrences replaced across all rules
	WasModified      bool // ModifiedContent differs from OriginalContent
}

// 🎯 TextReplacer applies replacement rules to content
type TextReplacer interface {
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)
	ValidateRules(rules []ReplacementRule) error
}

// SimpleTextReplacer applies rules in order with non-overlapping literal matching
type SimpleTextReplacer struct{}

var _ TextReplacer = (*SimpleTextReplacer)(nil)

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText.
// Content that is not valid UTF-8 fails with fserr.ErrInvalidEncoding.
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}
	if !utf8.Valid(originalContent) {
		return nil, errors.WithStack(fserr.ErrInvalidEncoding)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		// Skip empty rules
		if rule.FromText == "" {
			continue
		}

		n := strings.Count(currentContent, rule.FromText)
		if n == 0 {
			continue
		}
		result.ReplacementCount += n
		currentContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
	}

	if result.ReplacementCount > 0 {
		result.ModifiedContent = []byte(currentContent)
		result.WasModified = currentContent != string(originalContent)
	}
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: text to replace must not be empty", i)
		}
	}
	return nil
}
