package fetch

import (
	"regexp"
	"strings"
)

var wsRegexp = regexp.MustCompile(`\s+`)

func compactText(v string, max int) string {
	v = strings.TrimSpace(wsRegexp.ReplaceAllString(v, " "))
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	return string(r[:max-1]) + "..."
}

// snippet returns the first max runes of the trimmed body with line breaks
// flattened to spaces.
func snippet(body string, max int) string {
	body = strings.TrimSpace(body)
	if r := []rune(body); max > 0 && len(r) > max {
		body = string(r[:max])
	}
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(body)
}

func prefix(v string, max int) string {
	if r := []rune(v); max > 0 && len(r) > max {
		return string(r[:max])
	}
	return v
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
