package text

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// ErrPattern is matched by every PatternError
var ErrPattern = errors.Base("pattern error")

// ReplacementRule defines a single corruption and its fix
type ReplacementRule struct {
	// Pattern is an RE2 expression locating the corrupted text
	Pattern string `json:"pattern" yaml:"pattern"`

	// Replacement is inserted verbatim for every match; no $-expansion happens
	Replacement string `json:"replacement" yaml:"replacement"`

	// Literal makes Pattern match as plain text
	Literal bool `json:"literal,omitempty" yaml:"literal,omitempty"`

	// FileFilterGlob limits the rule to target paths matching this doublestar glob
	FileFilterGlob string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Expr returns the regular expression source for the rule
func (r ReplacementRule) Expr() string {
	if r.Literal {
		return regexp.QuoteMeta(r.Pattern)
	}
	return r.Pattern
}

// RuleResult records what a single rule did to the content
type RuleResult struct {
	Index   int
	Rule    ReplacementRule
	Count   int
	Skipped bool
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// Rules holds one entry per input rule, in order
	Rules []RuleResult

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules to the content in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that every rule compiles
	ValidateRules(rules []ReplacementRule) error
}

// PatternError reports a rule whose pattern cannot be used
type PatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern error: rule %d (%q): %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func (e *PatternError) Is(target error) bool {
	return target == ErrPattern
}
