package text

import (
	"regexp"
	"strings"

	"github.com/kyokomi/emoji/v2"
)

var shortcodeRe = regexp.MustCompile(`:[a-z0-9_+\-]+:`)

// ExpandShortcodes swaps gemoji-style shortcodes such as ":wrench:" for their
// emoji. Unknown shortcodes are kept as written.
func ExpandShortcodes(s string) string {
	return shortcodeRe.ReplaceAllStringFunc(s, func(code string) string {
		if e, ok := LookupShortcode(code); ok {
			return e
		}
		return code
	})
}

// LookupShortcode returns the emoji for a shortcode, with or without the
// surrounding colons.
func LookupShortcode(code string) (string, bool) {
	code = ":" + strings.Trim(code, ":") + ":"
	e, ok := emoji.CodeMap()[code]
	return e, ok
}
