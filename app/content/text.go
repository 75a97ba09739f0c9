package content

import (
	"regexp"
	"strings"
)

const (
	wordsPerMinute = 200
	excerptMaxLen  = 300
)

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	imageSrcRe = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
)

// StripTags removes HTML markup, leaving plain text.
func StripTags(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, " "))
}

// ReadingTime estimates reading time in minutes at 200 words/minute,
// rounded up with a minimum of 1.
func ReadingTime(html string) int {
	words := len(strings.Fields(StripTags(html)))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// FirstImageURL returns the src of the first <img> tag in the raw content.
// Best effort: absence is not an error.
func FirstImageURL(html string) string {
	match := imageSrcRe.FindStringSubmatch(html)
	if match == nil {
		return ""
	}
	return match[1]
}

// MakeExcerpt prefers the export's own excerpt, falls back to tag-stripped
// content, and hard-caps the result at 300 characters.
func MakeExcerpt(excerpt, html string) string {
	text := strings.TrimSpace(StripTags(excerpt))
	if text == "" {
		text = StripTags(html)
	}

	runes := []rune(text)
	if len(runes) > excerptMaxLen {
		return string(runes[:excerptMaxLen])
	}
	return text
}
