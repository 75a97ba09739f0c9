package wxr

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// wpDateLayout is the format WordPress uses for wp:post_date elements.
const wpDateLayout = "2006-01-02 15:04:05"

type Reader struct {
	gofeedParser *gofeed.Parser
}

func NewReader() *Reader {
	return &Reader{
		gofeedParser: gofeed.NewParser(),
	}
}

// ReadAll parses every export file in order. A file that fails to parse
// contributes zero posts and is logged; one malformed export must not block
// the others.
func (r *Reader) ReadAll(paths []string) []Post {
	var posts []Post

	for _, path := range paths {
		filePosts, err := r.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read export file, skipping", "file", path, "error", err)
			continue
		}

		slog.Info("Export file read", "file", path, "posts", len(filePosts))
		posts = append(posts, filePosts...)
	}

	return posts
}

// ReadFile parses a single WXR export file into raw posts.
func (r *Reader) ReadFile(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	feed, err := r.gofeedParser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}

	posts := make([]Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, r.normalizeItem(item))
	}

	return posts, nil
}

func (r *Reader) normalizeItem(item *gofeed.Item) Post {
	post := Post{
		Title:       item.Title,
		Content:     item.Content,
		Description: item.Description,
		Excerpt:     extensionText(item, "excerpt", "encoded"),
		Status:      extensionText(item, "wp", "status"),
		PostType:    extensionText(item, "wp", "post_type"),
	}

	if item.PublishedParsed != nil {
		post.PublishedAt = item.PublishedParsed
	} else if raw := extensionText(item, "wp", "post_date"); raw != "" {
		if parsed, err := time.Parse(wpDateLayout, raw); err == nil {
			post.PublishedAt = &parsed
		}
	}

	if item.Categories != nil {
		post.Categories = item.Categories
	}

	return post
}

// extensionText extracts the text of a namespaced element such as wp:status.
// Export dialects wrap values differently: plain text nodes, attribute-bearing
// elements with a value attribute, or arbitrary nested attributes. The
// JSON-stringified attribute map is a deliberate last resort, not an error.
func extensionText(item *gofeed.Item, prefix, name string) string {
	values, ok := item.Extensions[prefix][name]
	if !ok || len(values) == 0 {
		return ""
	}

	return normalizeExtension(values[0])
}

func normalizeExtension(e ext.Extension) string {
	if e.Value != "" {
		return e.Value
	}

	if v := cmp.Or(e.Attrs["value"], e.Attrs["text"]); v != "" {
		return v
	}

	if len(e.Attrs) > 0 {
		if data, err := json.Marshal(e.Attrs); err == nil {
			return string(data)
		}
	}

	return ""
}
