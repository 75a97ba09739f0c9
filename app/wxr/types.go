package wxr

import "time"

// StatusPublish is the only status value the WordPress export dialect uses
// for publicly visible posts. Anything else is treated as not publishable.
const StatusPublish = "publish"

// Post is one <item> element of a WXR export, as read from disk. Posts are
// transient: produced by the Reader, consumed once by the transformer, never
// persisted.
type Post struct {
	Title       string
	Content     string // content:encoded
	Excerpt     string // excerpt:encoded
	Description string // <description>, fallback body
	Status      string // wp:status
	PostType    string // wp:post_type
	PublishedAt *time.Time
	Categories  []string
}
