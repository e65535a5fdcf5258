// Turns arbitrary strings (like email addresses) into something usable as a path segment
package safefilename

import (
	"strings"
)

// each unsafe character gets its own token, so two different characters never
// end up looking the same
var replacements = map[string]string{
	"@": "_at_",
	"+": "_plus_",
	"/": "_slash_",
	`\`: "_backslash_",
	"*": "_star_",
	"?": "_qmark_",
	"%": "_pct_",
	"|": "_pipe_",
	`"`: "_quote_",
	"<": "_lt_",
	">": "_gt_",
	" ": "_space_",
}

var replacer = func() *strings.Replacer {
	oldnew := []string{}
	for unsafe, substitute := range replacements {
		oldnew = append(oldnew, unsafe, substitute)
	}

	// keys are single, distinct characters so pair order doesn't matter
	return strings.NewReplacer(oldnew...)
}()

// Sanitize never fails. Output only contains [A-Za-z0-9._-] and does not start
// or end with a dot or space.
func Sanitize(raw string) string {
	substituted := replacer.Replace(raw)

	safe := strings.Map(func(r rune) rune {
		if isSafe(r) {
			return r
		}

		return '_'
	}, substituted)

	return strings.Trim(safe, ". ")
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_':
		return true
	default:
		return false
	}
}
