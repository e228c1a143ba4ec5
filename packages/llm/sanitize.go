package llm

import (
	"regexp"
	"strings"
)

var (
	fenceRe       = regexp.MustCompile("(?i)```(?:json)?")
	leadingJSONRe = regexp.MustCompile(`(?i)^json\s*`)
)

// SanitizeModelJSON strips the wrapping noise models add around JSON
// payloads: a leading BOM, code fences (with or without a json language
// tag), control characters and the Unicode replacement character. The
// result is trimmed and ready for a strict parse.
func SanitizeModelJSON(text string) string {
	s := strings.TrimPrefix(text, "\uFEFF")
	s = fenceRe.ReplaceAllString(s, "")
	s = leadingJSONRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '�':
			return -1
		case r <= 0x001F, r >= 0x007F && r <= 0x009F:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
