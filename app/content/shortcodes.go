package content

import (
	"regexp"
)

// WordPress shortcode patterns. Caption and embed wrappers keep their inner
// text; gallery placeholders carry no text and are discarded entirely. The
// generic sweep runs last and removes any bracketed tag pair that survived.
var (
	captionRe     = regexp.MustCompile(`(?s)\[caption[^\]]*\](.*?)\[/caption\]`)
	embedRe       = regexp.MustCompile(`(?s)\[embed[^\]]*\](.*?)\[/embed\]`)
	galleryRe     = regexp.MustCompile(`\[gallery[^\]]*\]`)
	genericPairRe = regexp.MustCompile(`(?s)\[([a-zA-Z0-9_-]+)[^\]]*\](.*?)\[/[a-zA-Z0-9_-]+\]`)
	genericToken  = regexp.MustCompile(`\[/?[a-zA-Z0-9_-]+[^\]]*\]`)
)

// CleanShortcodes strips WordPress shortcode markup from a content body.
func CleanShortcodes(s string) string {
	s = captionRe.ReplaceAllString(s, "$1")
	s = embedRe.ReplaceAllString(s, "$1")
	s = galleryRe.ReplaceAllString(s, "")
	s = genericPairRe.ReplaceAllString(s, "$2")
	s = genericToken.ReplaceAllString(s, "")
	return s
}
