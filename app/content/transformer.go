package content

import (
	"cmp"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsportal-dev/wxr-migrate/app/database"
	"github.com/newsportal-dev/wxr-migrate/app/wxr"
)

// untitledPlaceholder is used when a source post carries no title.
const untitledPlaceholder = "Untitled"

type TransformerOptions struct {
	AuthorID        string
	BlogID          string
	CleanShortcodes bool
}

// Transformer converts raw WXR posts into article records ready for
// insertion. It owns no store access itself; category resolution goes
// through the injected resolver and slug state through the injected set.
type Transformer struct {
	resolver *CategoryResolver
	slugs    *SlugSet
	opts     TransformerOptions
}

func NewTransformer(resolver *CategoryResolver, slugs *SlugSet, opts TransformerOptions) *Transformer {
	return &Transformer{
		resolver: resolver,
		slugs:    slugs,
		opts:     opts,
	}
}

// Run transforms one post. A nil, nil return means "skip": the post is not
// publishable. Errors never abort the run; the caller logs and skips.
func (t *Transformer) Run(post wxr.Post) (*database.Article, error) {
	if post.Status != wxr.StatusPublish {
		slog.Debug("Skipping unpublished post", "title", post.Title, "status", post.Status)
		return nil, nil
	}

	title := cmp.Or(post.Title, untitledPlaceholder)
	rawBody := cmp.Or(post.Content, post.Description)

	body := rawBody
	if t.opts.CleanShortcodes {
		body = CleanShortcodes(body)
	}

	slug := t.slugs.Reserve(Slugify(title))

	var label string
	if len(post.Categories) > 0 {
		label = post.Categories[0]
	}
	categoryID, err := t.resolver.Resolve(label)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category for '%s': %w", title, err)
	}

	publishedAt := time.Now().UTC()
	if post.PublishedAt != nil {
		publishedAt = *post.PublishedAt
	}

	now := time.Now().UTC()
	article := &database.Article{
		Title:       title,
		Slug:        slug,
		Content:     body,
		Excerpt:     MakeExcerpt(post.Excerpt, body),
		ImageURL:    FirstImageURL(rawBody),
		Status:      database.StatusPublished,
		PublishedAt: publishedAt,
		AuthorID:    t.opts.AuthorID,
		BlogID:      t.opts.BlogID,
		CategoryID:  categoryID,
		ReadTime:    ReadingTime(body),
		Views:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return article, nil
}
