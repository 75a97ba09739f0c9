package cfg

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Destination database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Destination database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Destination database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"postgres" description:"Destination database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" description:"Destination database password"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"newsportal" description:"Destination database name"`
	DBSSLMode  string `long:"db-sslmode" env:"DB_SSLMODE" default:"require" description:"Database SSL mode (require for hosted Postgres, disable for local)"`

	// Fixed identifiers stamped onto every migrated article
	AuthorID          string `long:"author-id" env:"AUTHOR_ID" description:"Author ID assigned to all migrated articles"`
	BlogID            string `long:"blog-id" env:"BLOG_ID" description:"Blog/collection ID assigned to all migrated articles"`
	DefaultCategoryID string `long:"default-category-id" env:"DEFAULT_CATEGORY_ID" description:"Category ID used when no category can be resolved"`

	// Pipeline behavior
	BatchSize            int    `long:"batch-size" env:"BATCH_SIZE" default:"100" description:"Number of articles per bulk insert"`
	MaxConcurrentBatches int    `long:"max-concurrent-batches" env:"MAX_CONCURRENT_BATCHES" default:"5" description:"Maximum number of batch inserts in flight"`
	DryRun               bool   `long:"dry-run" env:"DRY_RUN" description:"Run the full pipeline without writing to the database"`
	KeepShortcodes       bool   `long:"keep-shortcodes" env:"KEEP_SHORTCODES" description:"Skip WordPress shortcode cleaning"`
	NoCreateCategories   bool   `long:"no-create-categories" env:"NO_CREATE_CATEGORIES" description:"Do not create missing categories, fall back to the default category"`
	SourceFiles          string `long:"source-files" env:"SOURCE_FILES" description:"Comma-separated list of WXR export files to migrate"`

	// Image backfill
	SiteBaseURL   string `long:"site-base-url" env:"SITE_BASE_URL" description:"Public base URL used to build article pages for image scraping"`
	SelectorsFile string `long:"selectors-file" env:"SELECTORS_FILE" description:"Optional YAML file with additional theme image selectors"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"wxr-migrate/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return build(raw), nil
}

func build(raw rawCfg) *Cfg {
	return &Cfg{
		DBHost:               raw.DBHost,
		DBPort:               raw.DBPort,
		DBUser:               raw.DBUser,
		DBPassword:           raw.DBPassword,
		DBName:               raw.DBName,
		DBSSLMode:            raw.DBSSLMode,
		AuthorID:             raw.AuthorID,
		BlogID:               raw.BlogID,
		DefaultCategoryID:    raw.DefaultCategoryID,
		BatchSize:            raw.BatchSize,
		MaxConcurrentBatches: raw.MaxConcurrentBatches,
		DryRun:               raw.DryRun,
		CleanShortcodes:      !raw.KeepShortcodes,
		AutoCreateCategories: !raw.NoCreateCategories,
		SourceFiles:          splitSourceFiles(raw.SourceFiles),
		SiteBaseURL:          strings.TrimRight(raw.SiteBaseURL, "/"),
		SelectorsFile:        raw.SelectorsFile,
		UserAgent:            raw.UserAgent,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}
}

func splitSourceFiles(s string) []string {
	if s == "" {
		return nil
	}

	var files []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files
}

// Validate checks the preconditions for a migration run. Missing values are
// fatal: the run aborts before any work starts.
func (c *Cfg) Validate() error {
	var missing []string

	if !c.DryRun && c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.AuthorID == "" {
		missing = append(missing, "AUTHOR_ID")
	}
	if c.BlogID == "" {
		missing = append(missing, "BLOG_ID")
	}
	if c.DefaultCategoryID == "" {
		missing = append(missing, "DEFAULT_CATEGORY_ID")
	}
	if len(c.SourceFiles) == 0 {
		missing = append(missing, "SOURCE_FILES")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxConcurrentBatches <= 0 {
		return fmt.Errorf("max concurrent batches must be positive, got %d", c.MaxConcurrentBatches)
	}

	return nil
}

// ValidateBackfill checks the preconditions for an image backfill run.
func (c *Cfg) ValidateBackfill() error {
	var missing []string

	if c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.SiteBaseURL == "" {
		missing = append(missing, "SITE_BASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
