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
	"github.com/walteh/emojifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses the rule file from bytes
	Parse(ctx context.Context, filename string, data []byte) (*RuleFile, error)

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

// 📚 RuleFile is an ordered rule table plus an optional target
type RuleFile struct {
	Target     string                 `json:"target,omitempty" yaml:"target,omitempty"`
	Shortcodes bool                   `json:"shortcodes,omitempty" yaml:"shortcodes,omitempty"` // Expand ":name:" in replacements
	Rules      []text.ReplacementRule `json:"rules" yaml:"rules"`
}

// 🎯 Load reads, parses and validates a rule file
func Load(ctx context.Context, path string) (*RuleFile, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rule file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported rule file extension %q", filepath.Ext(path))
	}

	rf, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing rule file: %w", err)
	}

	// Relative targets are relative to the rule file
	if rf.Target != "" && !filepath.IsAbs(rf.Target) {
		rf.Target = filepath.Join(filepath.Dir(path), rf.Target)
	}

	if err := rf.Validate(); err != nil {
		return nil, errors.Errorf("validating rule file: %w", err)
	}

	logger.Debug().Int("rules", len(rf.Rules)).Str("target", rf.Target).Msg("loaded rule file")
	return rf, nil
}

// 🔍 Validate expands shortcodes when asked to and checks that every rule compiles
func (rf *RuleFile) Validate() error {
	if rf.Shortcodes {
		for i := range rf.Rules {
			rf.Rules[i].Replacement = text.ExpandShortcodes(rf.Rules[i].Replacement)
		}
	}
	if rf.Target != "" {
		rf.Target = filepath.Clean(rf.Target)
	}
	return text.NewRegexpTextReplacer("").ValidateRules(rf.Rules)
}
