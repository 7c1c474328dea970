package extraction

import (
	"regexp"
	"strings"
)

var (
	// Embedded style/script blocks are removed whole, content included,
	// before generic tag stripping. Otherwise CSS and JS tokens leak into
	// the prose the rules match against.
	styleScriptRe = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>|<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]*>?`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CleanText normalizes a raw notification body into single-space-separated
// prose: style and script blocks are dropped with their content, remaining
// markup is stripped, runs of whitespace collapse to one space, and the
// result is trimmed. Every pattern rule assumes this normal form.
func CleanText(body string) string {
	text := styleScriptRe.ReplaceAllString(body, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
