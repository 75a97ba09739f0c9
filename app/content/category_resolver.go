package content

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/newsportal-dev/wxr-migrate/app/database"
)

// DefaultCategoryColor is assigned to categories created during migration.
const DefaultCategoryColor = "#6B7280"

type ResolverOptions struct {
	DefaultCategoryID string
	BlogID            string
	AutoCreate        bool
	DryRun            bool
}

// CategoryResolver maps source category labels to destination category IDs.
// The cache lives for one pipeline run; every distinct label triggers at
// most one store lookup, and at most one insert when auto-creation is on.
type CategoryResolver struct {
	store database.CategoryStore
	opts  ResolverOptions
	cache map[string]string
	mu    sync.Mutex
}

func NewCategoryResolver(store database.CategoryStore, opts ResolverOptions) *CategoryResolver {
	return &CategoryResolver{
		store: store,
		opts:  opts,
		cache: make(map[string]string),
	}
}

// Resolve returns the destination category ID for a source label, creating
// the category when it is missing and auto-creation is enabled. In dry-run
// mode no store access occurs; a synthetic identifier is cached per label.
func (r *CategoryResolver) Resolve(label string) (string, error) {
	if label == "" {
		return r.opts.DefaultCategoryID, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[label]; ok {
		return id, nil
	}

	if r.opts.DryRun {
		id := "dry-run-" + uuid.NewString()
		r.cache[label] = id
		return id, nil
	}

	slug := Slugify(label)

	existing, err := r.store.GetBySlug(slug)
	if err != nil {
		return "", fmt.Errorf("failed to look up category '%s': %w", label, err)
	}
	if existing != nil {
		r.cache[label] = existing.ID
		return existing.ID, nil
	}

	if !r.opts.AutoCreate {
		r.cache[label] = r.opts.DefaultCategoryID
		return r.opts.DefaultCategoryID, nil
	}

	id, err := r.store.Insert(database.Category{
		Name:   label,
		Slug:   slug,
		Color:  DefaultCategoryColor,
		BlogID: r.opts.BlogID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create category '%s': %w", label, err)
	}

	slog.Info("Category created", "name", label, "slug", slug, "id", id)
	r.cache[label] = id
	return id, nil
}
