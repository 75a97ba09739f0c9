package database

import (
	"time"
)

// Article is a content record shaped for direct insertion into the articles
// table. Slug is unique across the full run and across pre-existing rows.
type Article struct {
	ID          string // Database UUID, empty until inserted
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	ImageURL    string
	Status      string
	PublishedAt time.Time
	AuthorID    string
	BlogID      string
	CategoryID  string
	ReadTime    int // estimated reading time in minutes
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusPublished is the only status migrated articles carry; unpublished
// source posts are filtered out before they reach the store.
const StatusPublished = "published"

type Category struct {
	ID        string
	Name      string
	Slug      string
	Color     string
	BlogID    string
	CreatedAt time.Time
}

// ArticleRef is the minimal projection used by the image backfill worker.
type ArticleRef struct {
	ID   string
	Slug string
}
