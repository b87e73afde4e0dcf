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

package fixer

import (
	"fmt"

	"github.com/walteh/emojifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrAccess is matched by every AccessError
	ErrAccess = errors.Base("access error")
	// ErrEncoding is matched by every EncodingError
	ErrEncoding = errors.Base("encoding error")
	// ErrPattern is matched by every PatternError
	ErrPattern = text.ErrPattern
)

// PatternError reports a rule that cannot be compiled
type PatternError = text.PatternError

// AccessError reports a target that cannot be read or written
type AccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access error: cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func (e *AccessError) Is(target error) bool { return target == ErrAccess }

// EncodingError reports content that is not valid UTF-8
type EncodingError struct {
	Path   string
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s is not valid UTF-8 (invalid byte at offset %d)", e.Path, e.Offset)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
