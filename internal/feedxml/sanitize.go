package feedxml

import (
	"regexp"
	"strings"
)

// Recognized entity references that a bare & may legally start.
var entityRef = regexp.MustCompile(`^&(amp|lt|gt|quot|apos|#[0-9]+|#x[0-9a-fA-F]+);`)

// Sanitize repairs the malformations suppliers ship most often: unescaped
// ampersands, a leading byte-order mark, and double-escaped &amp; entities.
// It is best-effort repair, total over any input, and leaves well-formed XML
// semantically untouched.
func Sanitize(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	for i := 0; i < len(input); i++ {
		c := input[i]
		if c != '&' {
			b.WriteByte(c)
			continue
		}
		if entityRef.MatchString(input[i:]) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("&amp;")
	}

	out := strings.TrimPrefix(b.String(), "\uFEFF")
	out = strings.ReplaceAll(out, "&amp;amp;", "&amp;")
	return out
}
