package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/newsportal-dev/wxr-migrate/app/database"
)

const (
	// pageSize is the fixed page size when collecting articles that lack
	// a featured image.
	pageSize = 1000

	// itemDelay throttles outbound requests between articles.
	itemDelay = 500 * time.Millisecond

	SuccessLogPath = "scraping-success.json"
	ErrorLogPath   = "scraping-errors.json"
)

type SuccessRecord struct {
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl"`
}

type FailureRecord struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

type WorkerOptions struct {
	SiteBaseURL string
	DryRun      bool

	// Delay overrides itemDelay when non-zero. Tests set it to keep
	// runs fast.
	Delay time.Duration
}

// Worker backfills missing featured images: it collects every article
// without one, loads the article's public page, runs the extraction
// cascade, and patches the store. One unreachable page never halts the
// rest of the backfill.
type Worker struct {
	store     database.ArticleStore
	fetcher   *Fetcher
	extractor *Extractor
	opts      WorkerOptions

	successes []SuccessRecord
	failures  []FailureRecord
	mu        sync.Mutex
}

func NewWorker(store database.ArticleStore, fetcher *Fetcher, extractor *Extractor, opts WorkerOptions) *Worker {
	if opts.Delay == 0 {
		opts.Delay = itemDelay
	}
	return &Worker{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		opts:      opts,
	}
}

// Run processes every article missing an image and writes the JSON logs.
func (w *Worker) Run(ctx context.Context) error {
	refs, err := w.collect()
	if err != nil {
		return err
	}

	slog.Info("Articles missing featured image", "count", len(refs))
	if len(refs) == 0 {
		return nil
	}

	bar := progressbar.Default(int64(len(refs)), "scraping images")

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := w.processItem(ctx, ref); err != nil {
			slog.Error("Failed to backfill image", "slug", ref.Slug, "error", err)
			w.addFailure(ref.Slug, err.Error())
		}

		_ = bar.Add(1)
		time.Sleep(w.opts.Delay)
	}

	_ = bar.Finish()
	return w.writeLogs()
}

// collect pages through the store up front so later patches cannot shift
// the result set under the pagination.
func (w *Worker) collect() ([]database.ArticleRef, error) {
	total, err := w.store.CountMissingImage()
	if err != nil {
		return nil, fmt.Errorf("failed to count articles missing images: %w", err)
	}
	slog.Info("Collecting articles missing images", "total", total, "page_size", pageSize)

	var refs []database.ArticleRef
	for offset := 0; ; offset += pageSize {
		page, err := w.store.ListMissingImage(pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list articles missing images: %w", err)
		}
		if len(page) == 0 {
			break
		}

		refs = append(refs, page...)
		if len(page) < pageSize {
			break
		}
	}

	return refs, nil
}

func (w *Worker) processItem(ctx context.Context, ref database.ArticleRef) error {
	pageURL := fmt.Sprintf("%s/%s", w.opts.SiteBaseURL, ref.Slug)

	data, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	imageURL := w.extractor.Run(data, pageURL)
	if imageURL == "" {
		slog.Info("No image found", "slug", ref.Slug, "url", pageURL)
		w.addFailure(ref.Slug, "no image found")
		return nil
	}

	if !w.opts.DryRun {
		if err := w.store.UpdateImage(ref.ID, imageURL); err != nil {
			return fmt.Errorf("failed to update image: %w", err)
		}
	}

	slog.Info("Image backfilled", "slug", ref.Slug, "image", imageURL)
	w.addSuccess(ref.Slug, imageURL)
	return nil
}

func (w *Worker) addSuccess(slug, imageURL string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.successes = append(w.successes, SuccessRecord{Slug: slug, ImageURL: imageURL})
}

func (w *Worker) addFailure(slug, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures = append(w.failures, FailureRecord{Slug: slug, Error: msg})
}

func (w *Worker) Successes() []SuccessRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]SuccessRecord, len(w.successes))
	copy(out, w.successes)
	return out
}

func (w *Worker) Failures() []FailureRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]FailureRecord, len(w.failures))
	copy(out, w.failures)
	return out
}

func (w *Worker) writeLogs() error {
	if err := writeJSON(SuccessLogPath, w.Successes()); err != nil {
		return err
	}
	if err := writeJSON(ErrorLogPath, w.Failures()); err != nil {
		return err
	}

	slog.Info("Backfill complete", "success", len(w.successes), "failures", len(w.failures))
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
