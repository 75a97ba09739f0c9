package migrate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/newsportal-dev/wxr-migrate/app/content"
	"github.com/newsportal-dev/wxr-migrate/app/database"
	"github.com/newsportal-dev/wxr-migrate/app/wxr"
)

// ErrorLogPath is the durable artifact for post-run remediation.
const ErrorLogPath = "migration-errors.json"

const timeRound = 100 * time.Millisecond

type PipelineOptions struct {
	SourceFiles []string
	DryRun      bool
	Loader      LoaderOptions
}

// Pipeline drives the migration end to end: seed slugs, read exports,
// transform everything, then load in batches. Transformation fully
// materializes before loading starts; slug and category state is only
// mutated during the sequential transform stage.
type Pipeline struct {
	reader      *wxr.Reader
	transformer *content.Transformer
	slugs       *content.SlugSet
	store       database.ArticleStore
	stats       *Stats
	errs        *ErrorLog
	opts        PipelineOptions
}

func NewPipeline(reader *wxr.Reader, transformer *content.Transformer,
	slugs *content.SlugSet, store database.ArticleStore, opts PipelineOptions) *Pipeline {
	return &Pipeline{
		reader:      reader,
		transformer: transformer,
		slugs:       slugs,
		store:       store,
		stats:       NewStats(),
		errs:        NewErrorLog(),
		opts:        opts,
	}
}

func (p *Pipeline) Stats() *Stats {
	return p.stats
}

func (p *Pipeline) Errors() *ErrorLog {
	return p.errs
}

// Run executes the pipeline. Individual item failures are absorbed into
// counters and the error log; only orchestration-level failures are
// returned.
func (p *Pipeline) Run() error {
	if !p.opts.DryRun {
		if err := p.seedSlugs(); err != nil {
			return err
		}
	}

	posts := p.reader.ReadAll(p.opts.SourceFiles)
	p.stats.AddDiscovered(len(posts))
	slog.Info("Source files read", "files", len(p.opts.SourceFiles), "posts", len(posts))

	articles := p.transformAll(posts)
	slog.Info("Transformation complete", "articles", len(articles))

	loader := NewLoader(p.store, p.stats, p.errs, p.opts.Loader)
	loader.Run(articles)

	if p.errs.Len() > 0 {
		if err := p.errs.WriteFile(ErrorLogPath); err != nil {
			slog.Error("Failed to write error log", "path", ErrorLogPath, "error", err)
		} else {
			slog.Info("Error log written", "path", ErrorLogPath, "records", p.errs.Len())
		}
	}

	return nil
}

// seedSlugs loads every pre-existing slug so new slugs cannot collide with
// already-migrated content.
func (p *Pipeline) seedSlugs() error {
	slugs, err := p.store.ListSlugs()
	if err != nil {
		return fmt.Errorf("failed to seed existing slugs: %w", err)
	}

	for _, slug := range slugs {
		p.slugs.Add(slug)
	}

	slog.Info("Seeded existing slugs", "count", len(slugs))
	return nil
}

func (p *Pipeline) transformAll(posts []wxr.Post) []database.Article {
	articles := make([]database.Article, 0, len(posts))

	for _, post := range posts {
		article, err := p.transformer.Run(post)
		if err != nil {
			slog.Error("Failed to transform post, skipping", "title", post.Title, "error", err)
			p.stats.AddSkipped(1)
			continue
		}
		if article == nil {
			p.stats.AddSkipped(1)
			continue
		}

		articles = append(articles, *article)
	}

	return articles
}

// PrintSummary writes the human-readable end-of-run report.
func (p *Pipeline) PrintSummary() {
	discovered, processed, succeeded, failed, skipped := p.stats.Snapshot()

	fmt.Println()
	color.New(color.Bold).Println("Migration summary")
	fmt.Printf("  Discovered: %d\n", discovered)
	fmt.Printf("  Processed:  %d\n", processed)
	color.Green("  Succeeded:  %d", succeeded)
	if failed > 0 {
		color.Red("  Failed:     %d (see %s)", failed, ErrorLogPath)
	} else {
		fmt.Printf("  Failed:     %d\n", failed)
	}
	color.Yellow("  Skipped:    %d", skipped)
	fmt.Printf("  Elapsed:    %s (%.1f items/s)\n", p.stats.Elapsed().Round(timeRound), p.stats.Throughput())

	if p.opts.DryRun {
		color.Cyan("  Dry run: %d articles would be inserted", succeeded)
	}
}
