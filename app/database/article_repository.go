package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var _ ArticleStore = (*ArticleRepository)(nil)

// ArticleRepository handles database operations for migrated articles
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `title, slug, content, excerpt, image_url, status,
		published_at, author_id, blog_id, category_id, read_time, views,
		created_at, updated_at`

// ListSlugs returns every slug already present in the destination store.
// The pipeline seeds its seen-slugs set from this before transformation.
func (r *ArticleRepository) ListSlugs() ([]string, error) {
	rows, err := r.db.Query(`SELECT slug FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug row: %w", err)
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slug rows: %w", err)
	}

	return slugs, nil
}

// InsertBatch writes all articles in a single multi-row INSERT. The statement
// is all-or-nothing: one bad row rejects the whole batch, which is what
// triggers the loader's row-by-row fallback.
func (r *ArticleRepository) InsertBatch(articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO articles (" + articleColumns + ") VALUES ")

	args := make([]interface{}, 0, len(articles)*14)
	for i, a := range articles {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 14
		sb.WriteString("(")
		for j := 1; j <= 14; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")

		args = append(args, a.Title, a.Slug, a.Content, a.Excerpt,
			nullString(a.ImageURL), a.Status, a.PublishedAt, a.AuthorID,
			a.BlogID, nullString(a.CategoryID), a.ReadTime, a.Views,
			a.CreatedAt, a.UpdatedAt)
	}

	if _, err := r.db.Exec(sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert batch of %d articles: %w", len(articles), err)
	}

	return nil
}

// Insert writes a single article.
func (r *ArticleRepository) Insert(a Article) error {
	_, err := r.db.Exec(`
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, a.Title, a.Slug, a.Content, a.Excerpt, nullString(a.ImageURL), a.Status,
		a.PublishedAt, a.AuthorID, a.BlogID, nullString(a.CategoryID),
		a.ReadTime, a.Views, a.CreatedAt, a.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("duplicate slug '%s': %w", a.Slug, err)
		}
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// ListMissingImage returns one page of articles lacking a featured image,
// ordered by creation time so paging is stable across calls.
func (r *ArticleRepository) ListMissingImage(limit, offset int) ([]ArticleRef, error) {
	rows, err := r.db.Query(`
		SELECT id, slug
		FROM articles
		WHERE image_url IS NULL OR image_url = ''
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles missing images: %w", err)
	}
	defer rows.Close()

	var refs []ArticleRef
	for rows.Next() {
		var ref ArticleRef
		if err := rows.Scan(&ref.ID, &ref.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return refs, nil
}

// CountMissingImage returns the total backfill workload.
func (r *ArticleRepository) CountMissingImage() (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM articles WHERE image_url IS NULL OR image_url = ''
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles missing images: %w", err)
	}
	return count, nil
}

// UpdateImage patches the featured image of a single article.
func (r *ArticleRepository) UpdateImage(id, imageURL string) error {
	_, err := r.db.Exec(`
		UPDATE articles SET image_url = $2, updated_at = NOW() WHERE id = $1
	`, id, imageURL)

	if err != nil {
		return fmt.Errorf("failed to update article image: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, the way the store surfaces slug collisions.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
