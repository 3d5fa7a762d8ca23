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

package config

import (
	"context"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/status"
	"github.com/walteh/futil/pkg/walk"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 Section is one command block as written in a file; nil fields were omitted
type Section struct {
	IncludeHidden      *bool   `json:"include_hidden,omitempty" yaml:"include_hidden,omitempty" hcl:"include_hidden,optional"`
	RespectIgnoreFiles *bool   `json:"respect_ignore_files,omitempty" yaml:"respect_ignore_files,omitempty" hcl:"respect_ignore_files,optional"`
	MaxDepth           *int    `json:"max_depth,omitempty" yaml:"max_depth,omitempty" hcl:"max_depth,optional"`
	BackupExtension    *string `json:"backup_extension,omitempty" yaml:"backup_extension,omitempty" hcl:"backup_extension,optional"`
}

// 📄 File is a configuration file as written
type File struct {
	IgnoreFileNames []string `json:"ignore_file_names,omitempty" yaml:"ignore_file_names,omitempty" hcl:"ignore_file_names,optional"`
	Search          *Section `json:"search,omitempty" yaml:"search,omitempty" hcl:"search,block"`
	Count           *Section `json:"count,omitempty" yaml:"count,omitempty" hcl:"count,block"`
	Replace         *Section `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	Tree            *Section `json:"tree,omitempty" yaml:"tree,omitempty" hcl:"tree,block"`
}

// 🔧 Command holds the resolved settings of one command
type Command struct {
	IncludeHidden      bool
	RespectIgnoreFiles bool
	MaxDepth           int // 0 is unlimited
	BackupExtension    string
}

// 🔧 Config is the resolved configuration of every command
type Config struct {
	IgnoreFileNames []string
	Search          Command
	Count           Command
	Replace         Command
	Tree            Command

	location string
}

// 🏭 Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		IgnoreFileNames: slices.Clone(walk.DefaultIgnoreFileNames),
		Search:          Command{IncludeHidden: false, RespectIgnoreFiles: false},
		Count:           Command{IncludeHidden: true, RespectIgnoreFiles: false},
		Replace:         Command{IncludeHidden: true, RespectIgnoreFiles: false, BackupExtension: status.DefaultBackupExtension},
		Tree:            Command{IncludeHidden: false, RespectIgnoreFiles: true},
	}
}

// Location returns the file the config was loaded from, "" for defaults
func (c *Config) Location() string {
	return c.location
}

// 🔄 Apply layers the values present in f over c
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.IgnoreFileNames != nil {
		c.IgnoreFileNames = slices.Clone(f.IgnoreFileNames)
	}
	c.Search.apply(f.Search)
	c.Count.apply(f.Count)
	c.Replace.apply(f.Replace)
	c.Tree.apply(f.Tree)
}

func (c *Command) apply(s *Section) {
	if s == nil {
		return
	}
	if s.IncludeHidden != nil {
		c.IncludeHidden = *s.IncludeHidden
	}
	if s.RespectIgnoreFiles != nil {
		c.RespectIgnoreFiles = *s.RespectIgnoreFiles
	}
	if s.MaxDepth != nil {
		c.MaxDepth = *s.MaxDepth
	}
	if s.BackupExtension != nil {
		c.BackupExtension = *s.BackupExtension
	}
}

// 🚶 Policy converts the command settings into a walk policy
func (c *Config) Policy(cmd Command) walk.Policy {
	depth := cmd.MaxDepth
	if depth == 0 {
		depth = walk.NoDepthLimit
	}
	return walk.Policy{
		IncludeHidden:      cmd.IncludeHidden,
		MaxDepth:           depth,
		RespectIgnoreFiles: cmd.RespectIgnoreFiles,
		IgnoreFileNames:    slices.Clone(c.IgnoreFileNames),
	}
}

// ✅ Validate checks that every value is usable
func (c *Config) Validate() error {
	for _, name := range c.IgnoreFileNames {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return errors.Errorf("ignore file name %q must be a plain file name", name)
		}
	}

	commands := []struct {
		name string
		cmd  Command
	}{
		{"search", c.Search},
		{"count", c.Count},
		{"replace", c.Replace},
		{"tree", c.Tree},
	}
	for _, cmd := range commands {
		if cmd.cmd.MaxDepth < 0 {
			return errors.Errorf("%s: max_depth must not be negative, got %d", cmd.name, cmd.cmd.MaxDepth)
		}
	}

	if c.Replace.BackupExtension == "" || strings.ContainsAny(c.Replace.BackupExtension, `/\`) {
		return errors.Errorf("replace: invalid backup_extension %q", c.Replace.BackupExtension)
	}
	return nil
}
