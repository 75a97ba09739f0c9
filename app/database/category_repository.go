package database

import (
	"database/sql"
	"fmt"
)

var _ CategoryStore = (*CategoryRepository)(nil)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetBySlug looks up a category by its slug. Returns nil without error when
// no category exists.
func (r *CategoryRepository) GetBySlug(slug string) (*Category, error) {
	var c Category
	err := r.db.QueryRow(`
		SELECT id, name, slug, COALESCE(color, ''), blog_id, created_at
		FROM categories
		WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Color, &c.BlogID, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return &c, nil
}

// Insert creates a new category and returns its generated identifier.
func (r *CategoryRepository) Insert(c Category) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO categories (name, slug, color, blog_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.Name, c.Slug, c.Color, c.BlogID).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to insert category: %w", err)
	}

	return id, nil
}
