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

// Package fixer repairs known emoji corruptions in a single file.
//
// A run reads the whole file, checks that it is UTF-8, applies the rules in
// order and writes the result back with one rename. Nothing touches the disk
// until every rule has been applied in memory.
package fixer

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/emojifix/pkg/status"
	"github.com/walteh/emojifix/pkg/text"
)

// Result describes a finished run
type Result struct {
	Path         string
	Status       status.FileStatus
	Modified     bool
	Written      bool
	Replacements int
	Rules        []text.RuleResult
	Original     []byte
	Fixed        []byte
}

// Info converts the result for status formatting
func (r *Result) Info() status.FileInfo {
	return status.FileInfo{
		Path:         r.Path,
		Status:       r.Status,
		Size:         int64(len(r.Fixed)),
		Checksum:     status.Checksum(r.Fixed),
		Replacements: r.Replacements,
	}
}

// Diff returns the changed lines between the original and fixed content
func (r *Result) Diff() string {
	return text.LineDiff(string(r.Original), string(r.Fixed))
}

type options struct {
	dryRun        bool
	skipUnchanged bool
	files         status.FileManager
}

// Option configures a run
type Option func(*options)

// WithDryRun computes the result without writing
func WithDryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// WithSkipUnchanged skips the write when no rule matched
func WithSkipUnchanged() Option {
	return func(o *options) { o.skipUnchanged = true }
}

// WithFileManager swaps the file system layer
func WithFileManager(fm status.FileManager) Option {
	return func(o *options) { o.files = fm }
}

// 🎯 Run fixes the file at path with rules, applied in order.
// The returned error is an *AccessError, *EncodingError or *PatternError.
func Run(ctx context.Context, path string, rules []text.ReplacementRule, opts ...Option) (*Result, error) {
	o := &options{files: status.New()}
	for _, opt := range opts {
		opt(o)
	}

	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	replacer := text.NewRegexpTextReplacer(path)

	if err := replacer.ValidateRules(rules); err != nil {
		return nil, err
	}

	content, info, err := o.files.ReadFile(ctx, path)
	if err != nil {
		return nil, &AccessError{Op: "read", Path: path, Err: err}
	}

	if off := invalidUTF8Offset(content); off >= 0 {
		return nil, &EncodingError{Path: path, Offset: off}
	}

	replaced, err := replacer.ReplaceText(ctx, bytes.NewReader(content), rules)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Path:         path,
		Status:       status.StatusUnchanged,
		Modified:     replaced.WasModified,
		Replacements: replaced.ReplacementCount,
		Rules:        replaced.Rules,
		Original:     replaced.OriginalContent,
		Fixed:        replaced.ModifiedContent,
	}
	if res.Modified {
		res.Status = status.StatusModified
	}

	switch {
	case o.dryRun:
		res.Status = status.StatusPreview
		logger.Debug().Int("replacements", res.Replacements).Msg("dry run, not writing")
		return res, nil
	case o.skipUnchanged && !res.Modified:
		logger.Debug().Msg("no rule matched, not writing")
		return res, nil
	}

	if err := o.files.WriteFileAtomic(ctx, path, res.Fixed, info.Mode); err != nil {
		return nil, &AccessError{Op: "write", Path: path, Err: err}
	}
	res.Written = true

	logger.Info().Int("replacements", res.Replacements).Bool("modified", res.Modified).Msg("fix completed")
	return res, nil
}

// invalidUTF8Offset returns the offset of the first invalid byte, or -1.
// An encoded U+FFFD is valid and is exactly what the rules look for.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
