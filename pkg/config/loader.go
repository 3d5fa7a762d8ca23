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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/futil/pkg/fserr"
)

// CandidateNames are looked up by Discover, in order
var CandidateNames = []string{".futil.yaml", ".futil.yml", ".futil.hcl", ".futil.json"}

// 🔍 Discover returns the first candidate config file found in dir
func Discover(dir string) (string, bool) {
	for _, name := range CandidateNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// 📥 Load reads path, layers it over Defaults and validates the result.
// Every failure is a setup error.
func Load(ctx context.Context, path string) (*Config, error) {
	parser := GetParser(filepath.Base(path))
	if parser == nil {
		return nil, fserr.Setup("invalid config "+path, errors.Errorf("unsupported file extension %q", filepath.Ext(path)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fserr.Setup("invalid config "+path, errors.Errorf("reading config file: %w", err))
	}

	f, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, fserr.Setup("invalid config "+path, err)
	}

	cfg := Defaults()
	cfg.Apply(f)
	cfg.location = path
	if err := cfg.Validate(); err != nil {
		return nil, fserr.Setup("invalid config "+path, errors.Errorf("validating config: %w", err))
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}

// 📥 LoadOrDefault loads path when set, else the discovered file in dir,
// else the defaults
func LoadOrDefault(ctx context.Context, path, dir string) (*Config, error) {
	if path == "" {
		found, ok := Discover(dir)
		if !ok {
			zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file, using defaults")
			return Defaults(), nil
		}
		path = found
	}
	return Load(ctx, path)
}
