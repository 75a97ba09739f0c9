package cfg

type Cfg struct {
	// Destination database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Fixed identifiers stamped onto every migrated article
	AuthorID          string
	BlogID            string
	DefaultCategoryID string

	// Pipeline behavior
	BatchSize            int
	MaxConcurrentBatches int
	DryRun               bool
	CleanShortcodes      bool
	AutoCreateCategories bool
	SourceFiles          []string

	// Image backfill
	SiteBaseURL   string
	SelectorsFile string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
