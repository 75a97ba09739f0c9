package backfill

import (
	"bytes"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minLargeImageWidth is the threshold for the "first large image" strategy.
const minLargeImageWidth = 400

// defaultThemeSelectors cover the markup of common WordPress themes. Extra
// selectors can be appended from a YAML file, see LoadSelectors.
var defaultThemeSelectors = []string{
	".post-thumbnail img",
	".featured-image img",
	"article img.wp-post-image",
	".entry-content img.size-full",
}

// excludedURLMarkers reject avatars and site chrome that would otherwise
// match the generic strategies.
var excludedURLMarkers = []string{"gravatar", "avatar", "logo", "icon"}

type strategy struct {
	name string
	fn   func(*goquery.Document) string
}

// Extractor finds a representative image URL in an article page. Strategies
// run in priority order; the first acceptable URL wins. No hit is "no image
// found", not an error.
type Extractor struct {
	strategies []strategy
}

func NewExtractor(extraSelectors []string) *Extractor {
	selectors := append(append([]string{}, defaultThemeSelectors...), extraSelectors...)

	e := &Extractor{}
	e.strategies = []strategy{
		{"share_link", extractShareLinkImage},
		{"theme_selector", func(doc *goquery.Document) string {
			return extractBySelectors(doc, selectors)
		}},
		{"og_image", func(doc *goquery.Document) string {
			return doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
		}},
		{"twitter_image", func(doc *goquery.Document) string {
			return doc.Find(`meta[name="twitter:image"]`).AttrOr("content", "")
		}},
		{"first_large_image", extractFirstLargeImage},
	}

	return e
}

// Run extracts an image URL from a fetched page. An empty result means no
// strategy produced an acceptable URL.
func (e *Extractor) Run(data []byte, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Debug("Failed to build document for extraction", "url", pageURL, "error", err)
		return ""
	}

	for _, s := range e.strategies {
		if imageURL := s.fn(doc); acceptable(imageURL) {
			slog.Debug("Image extracted", "url", pageURL, "strategy", s.name, "image", imageURL)
			return imageURL
		}
	}

	// Readability's lead-image detection as a last resort.
	if parsed, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(bytes.NewReader(data), parsed); err == nil {
			if acceptable(article.Image) {
				slog.Debug("Image extracted", "url", pageURL, "strategy", "readability", "image", article.Image)
				return article.Image
			}
		}
	}

	return ""
}

// extractShareLinkImage pulls the image URL out of an embedded social-share
// link's query parameter (Pinterest-style media= links).
func extractShareLinkImage(doc *goquery.Document) string {
	var found string

	doc.Find(`a[href*="pinterest.com/pin/create"], a[href*="media="]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return true
		}

		if media := parsed.Query().Get("media"); media != "" {
			found = media
			return false
		}
		return true
	})

	return found
}

func extractBySelectors(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if src := doc.Find(sel).First().AttrOr("src", ""); src != "" {
			return src
		}
	}
	return ""
}

func extractFirstLargeImage(doc *goquery.Document) string {
	var found string

	doc.Find("article img, .post-content img, .entry-content img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || !acceptable(src) {
			return true
		}

		// Images declaring a width below the threshold are skipped;
		// images without a width attribute are taken on faith.
		if w, ok := s.Attr("width"); ok {
			width, err := strconv.Atoi(w)
			if err == nil && width < minLargeImageWidth {
				return true
			}
		}

		found = src
		return false
	})

	return found
}

func acceptable(imageURL string) bool {
	if imageURL == "" {
		return false
	}

	lower := strings.ToLower(imageURL)
	for _, marker := range excludedURLMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
