package migrate

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsportal-dev/wxr-migrate/app/database"
)

// fakeArticleStore records calls and can be told to fail bulk inserts or
// individual slugs.
type fakeArticleStore struct {
	mu sync.Mutex

	existingSlugs []string
	inserted      []database.Article
	batchCalls    int
	insertCalls   int

	failBatch bool
	failSlugs map[string]bool

	listSlugsErr error

	missingImage []database.ArticleRef
	imageUpdates map[string]string
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		failSlugs:    make(map[string]bool),
		imageUpdates: make(map[string]string),
	}
}

func (s *fakeArticleStore) ListSlugs() ([]string, error) {
	if s.listSlugsErr != nil {
		return nil, s.listSlugsErr
	}
	return s.existingSlugs, nil
}

func (s *fakeArticleStore) InsertBatch(articles []database.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batchCalls++
	if s.failBatch {
		return errors.New("bulk insert rejected")
	}

	s.inserted = append(s.inserted, articles...)
	return nil
}

func (s *fakeArticleStore) Insert(article database.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++
	if s.failSlugs[article.Slug] {
		return fmt.Errorf("insert rejected for '%s'", article.Slug)
	}

	s.inserted = append(s.inserted, article)
	return nil
}

func (s *fakeArticleStore) ListMissingImage(limit, offset int) ([]database.ArticleRef, error) {
	if offset >= len(s.missingImage) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.missingImage) {
		end = len(s.missingImage)
	}
	return s.missingImage[offset:end], nil
}

func (s *fakeArticleStore) CountMissingImage() (int, error) {
	return len(s.missingImage), nil
}

func (s *fakeArticleStore) UpdateImage(id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageUpdates[id] = imageURL
	return nil
}

func makeArticles(n int) []database.Article {
	articles := make([]database.Article, n)
	for i := range articles {
		articles[i] = database.Article{
			Title: fmt.Sprintf("Post %d", i),
			Slug:  fmt.Sprintf("post-%d", i),
		}
	}
	return articles
}

func testLoaderOptions(batchSize, concurrency int) LoaderOptions {
	return LoaderOptions{
		BatchSize:   batchSize,
		Concurrency: concurrency,
		Delay:       time.Millisecond,
	}
}

func TestLoaderBulkSuccess(t *testing.T) {
	store := newFakeArticleStore()
	stats := NewStats()
	errs := NewErrorLog()

	loader := NewLoader(store, stats, errs, testLoaderOptions(10, 2))
	loader.Run(makeArticles(25))

	_, processed, succeeded, failed, _ := stats.Snapshot()
	assert.Equal(t, 25, processed)
	assert.Equal(t, 25, succeeded)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 3, store.batchCalls)
	assert.Equal(t, 0, store.insertCalls, "no fallback on bulk success")
	assert.Equal(t, 0, errs.Len())
}

func TestLoaderFallbackAccountsForEveryRow(t *testing.T) {
	store := newFakeArticleStore()
	store.failBatch = true
	store.failSlugs["post-1"] = true
	store.failSlugs["post-3"] = true

	stats := NewStats()
	errs := NewErrorLog()

	// Single batch of 5, bulk insert fails, 2 of 5 rows fail individually.
	loader := NewLoader(store, stats, errs, testLoaderOptions(5, 1))
	loader.Run(makeArticles(5))

	_, _, succeeded, failed, _ := stats.Snapshot()
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, failed)
	assert.Equal(t, 5, succeeded+failed, "every row must be accounted for")
	assert.Equal(t, 5, store.insertCalls)

	records := errs.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "post-1", records[0].Slug)
	assert.Equal(t, "post-3", records[1].Slug)
	assert.NotEmpty(t, records[0].Error)
}

func TestLoaderFallbackPreservesBatchOrder(t *testing.T) {
	store := newFakeArticleStore()
	store.failBatch = true

	stats := NewStats()
	loader := NewLoader(store, stats, NewErrorLog(), testLoaderOptions(10, 1))
	loader.Run(makeArticles(10))

	require.Len(t, store.inserted, 10)
	for i, a := range store.inserted {
		assert.Equal(t, fmt.Sprintf("post-%d", i), a.Slug)
	}
}

func TestLoaderDryRunTouchesNoStore(t *testing.T) {
	store := newFakeArticleStore()
	stats := NewStats()

	opts := testLoaderOptions(10, 2)
	opts.DryRun = true

	loader := NewLoader(store, stats, NewErrorLog(), opts)
	loader.Run(makeArticles(30))

	assert.Equal(t, 0, store.batchCalls)
	assert.Equal(t, 0, store.insertCalls)

	_, _, succeeded, _, _ := stats.Snapshot()
	assert.Equal(t, 30, succeeded, "dry run counts would-be inserts")
}

func TestLoaderEmptyInput(t *testing.T) {
	store := newFakeArticleStore()
	loader := NewLoader(store, NewStats(), NewErrorLog(), testLoaderOptions(10, 2))
	loader.Run(nil)

	assert.Equal(t, 0, store.batchCalls)
}

func TestPartition(t *testing.T) {
	batches := partition(makeArticles(7), 3)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, "post-0", batches[0][0].Slug)
	assert.Equal(t, "post-6", batches[2][0].Slug)
}
