package migrate

import (
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/newsportal-dev/wxr-migrate/app/database"
)

// batchDelay is a courtesy rate-limit on the destination store, applied
// after every batch independently of the concurrency limit.
const batchDelay = 100 * time.Millisecond

type LoaderOptions struct {
	BatchSize   int
	Concurrency int
	DryRun      bool

	// Delay overrides batchDelay when non-zero. Tests set it to keep
	// runs fast.
	Delay time.Duration
}

// Loader writes article records to the destination store in fixed-size
// batches under a bounded concurrency limit. A failed bulk insert degrades
// to sequential row-by-row inserts, so one malformed row never loses the
// rest of its batch.
type Loader struct {
	store database.ArticleStore
	stats *Stats
	errs  *ErrorLog
	opts  LoaderOptions
}

func NewLoader(store database.ArticleStore, stats *Stats, errs *ErrorLog, opts LoaderOptions) *Loader {
	if opts.Delay == 0 {
		opts.Delay = batchDelay
	}
	return &Loader{
		store: store,
		stats: stats,
		errs:  errs,
		opts:  opts,
	}
}

// Run loads all articles. Batches preserve input order internally; across
// batches no ordering is guaranteed, only that at most Concurrency batch
// operations are in flight.
func (l *Loader) Run(articles []database.Article) {
	if len(articles) == 0 {
		return
	}

	batches := partition(articles, l.opts.BatchSize)
	slog.Info("Loading articles", "total", len(articles), "batches", len(batches),
		"batch_size", l.opts.BatchSize, "concurrency", l.opts.Concurrency, "dry_run", l.opts.DryRun)

	bar := progressbar.Default(int64(len(articles)), "inserting articles")

	sem := make(chan struct{}, l.opts.Concurrency)
	var wg sync.WaitGroup

	for i, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}

		go func(num int, batch []database.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			l.processBatch(num, batch)

			processed := l.stats.AddProcessed(len(batch))
			_ = bar.Set(processed)

			time.Sleep(l.opts.Delay)
		}(i+1, batch)
	}

	wg.Wait()
	_ = bar.Finish()
}

func (l *Loader) processBatch(num int, batch []database.Article) {
	if l.opts.DryRun {
		l.stats.AddSucceeded(len(batch))
		return
	}

	err := l.store.InsertBatch(batch)
	if err == nil {
		l.stats.AddSucceeded(len(batch))
		return
	}
	slog.Warn("Batch insert failed, falling back to row-by-row", "batch", num, "size", len(batch), "error", err)

	// Fallback preserves the batch's original order.
	for _, article := range batch {
		if err := l.store.Insert(article); err != nil {
			slog.Error("Failed to insert article", "slug", article.Slug, "error", err)
			l.stats.AddFailed(1)
			l.errs.Append(article.Title, article.Slug, err)
			continue
		}
		l.stats.AddSucceeded(1)
	}
}

// partition splits articles into fixed-size batches preserving order.
func partition(articles []database.Article, size int) [][]database.Article {
	if size <= 0 {
		size = 1
	}

	var batches [][]database.Article
	for start := 0; start < len(articles); start += size {
		end := start + size
		if end > len(articles) {
			end = len(articles)
		}
		batches = append(batches, articles[start:end])
	}
	return batches
}
