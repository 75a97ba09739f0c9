package database

// ArticleStore is the destination-store contract the migration pipeline and
// the image backfill worker rely on. The store is opaque beyond these
// operations; slug uniqueness violations surface as insert errors.
type ArticleStore interface {
	ListSlugs() ([]string, error)
	InsertBatch(articles []Article) error
	Insert(article Article) error
	ListMissingImage(limit, offset int) ([]ArticleRef, error)
	CountMissingImage() (int, error)
	UpdateImage(id, imageURL string) error
}

// CategoryStore is the contract the category resolver relies on.
type CategoryStore interface {
	GetBySlug(slug string) (*Category, error)
	Insert(category Category) (string, error)
}
