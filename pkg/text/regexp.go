package text

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexpTextReplacer implements TextReplacer with RE2 regular expressions.
// Rules run one after another over the current buffer, so a later rule sees
// the output of the earlier ones.
type RegexpTextReplacer struct {
	// Path is the name of the content being rewritten, checked against FileFilterGlob
	Path string
}

// NewRegexpTextReplacer creates a replacer for the content stored at path
func NewRegexpTextReplacer(path string) *RegexpTextReplacer {
	return &RegexpTextReplacer{Path: path}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	logger := zerolog.Ctx(ctx)

	// Compile everything up front so a bad rule fails before any work
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	currentContent := string(originalContent)
	for i, rule := range rules {
		rr := RuleResult{Index: i, Rule: rule}

		ok, err := r.applies(rule)
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: rule.FileFilterGlob, Err: err}
		}
		if !ok {
			rr.Skipped = true
			result.Rules = append(result.Rules, rr)
			logger.Debug().Int("rule", i).Str("glob", rule.FileFilterGlob).Str("path", r.Path).Msg("rule does not apply to path")
			continue
		}

		re := compiled[i]
		rr.Count = len(re.FindAllStringIndex(currentContent, -1))
		if rr.Count > 0 {
			currentContent = re.ReplaceAllLiteralString(currentContent, rule.Replacement)
			result.WasModified = true
			result.ReplacementCount += rr.Count
		}

		logger.Debug().Int("rule", i).Str("pattern", rule.Pattern).Int("matches", rr.Count).Msg("applied rule")
		result.Rules = append(result.Rules, rr)
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpTextReplacer) ValidateRules(rules []ReplacementRule) error {
	_, err := compileRules(rules)
	return err
}

func (r *RegexpTextReplacer) applies(rule ReplacementRule) (bool, error) {
	if rule.FileFilterGlob == "" || r.Path == "" {
		return true, nil
	}
	name := filepath.ToSlash(r.Path)
	ok, err := doublestar.Match(rule.FileFilterGlob, name)
	if err != nil {
		return false, errors.Errorf("matching file glob: %w", err)
	}
	if ok {
		return true, nil
	}
	// Relative globs like "*.jsx" should still match an absolute target
	return doublestar.Match(rule.FileFilterGlob, path.Base(name))
}

func compileRules(rules []ReplacementRule) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, len(rules))
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, &PatternError{Index: i, Pattern: rule.Pattern, Err: errors.New("pattern is required")}
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return nil, &PatternError{Index: i, Pattern: rule.FileFilterGlob, Err: errors.New("invalid file glob")}
		}
		re, err := regexp.Compile(rule.Expr())
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: rule.Pattern, Err: err}
		}
		compiled[i] = re
	}
	return compiled, nil
}
