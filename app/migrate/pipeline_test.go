package migrate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsportal-dev/wxr-migrate/app/content"
	"github.com/newsportal-dev/wxr-migrate/app/wxr"
)

const goodExport = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:wp="http://wordpress.org/export/1.2/">
  <channel>
    <title>Example News</title>
    <item>
      <title>First Article</title>
      <pubDate>Mon, 03 Jul 2023 10:00:00 +0000</pubDate>
      <content:encoded><![CDATA[<p>First body</p>]]></content:encoded>
      <wp:status>publish</wp:status>
    </item>
    <item>
      <title>Second Article</title>
      <pubDate>Mon, 03 Jul 2023 11:00:00 +0000</pubDate>
      <content:encoded><![CDATA[<p>Second body</p>]]></content:encoded>
      <wp:status>publish</wp:status>
    </item>
    <item>
      <title>Third Article</title>
      <pubDate>Mon, 03 Jul 2023 12:00:00 +0000</pubDate>
      <content:encoded><![CDATA[<p>Third body</p>]]></content:encoded>
      <wp:status>publish</wp:status>
    </item>
    <item>
      <title>Unfinished Draft</title>
      <content:encoded><![CDATA[<p>Draft body</p>]]></content:encoded>
      <wp:status>draft</wp:status>
    </item>
  </channel>
</rss>`

func newTestPipeline(t *testing.T, store *fakeArticleStore, files []string, dryRun bool) *Pipeline {
	t.Helper()

	slugs := content.NewSlugSet()
	resolver := content.NewCategoryResolver(nil, content.ResolverOptions{
		DefaultCategoryID: "default-cat",
		DryRun:            true, // category store not under test here
	})
	transformer := content.NewTransformer(resolver, slugs, content.TransformerOptions{
		AuthorID:        "author-1",
		BlogID:          "blog-1",
		CleanShortcodes: true,
	})

	return NewPipeline(wxr.NewReader(), transformer, slugs, store, PipelineOptions{
		SourceFiles: files,
		DryRun:      dryRun,
		Loader: LoaderOptions{
			BatchSize:   2,
			Concurrency: 1,
			DryRun:      dryRun,
			Delay:       time.Millisecond,
		},
	})
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", goodExport)
	broken := writeFile(t, dir, "broken.xml", "definitely not xml")

	store := newFakeArticleStore()
	pipeline := newTestPipeline(t, store, []string{good, broken}, false)

	require.NoError(t, pipeline.Run())

	discovered, processed, succeeded, failed, skipped := pipeline.Stats().Snapshot()
	assert.Equal(t, 4, discovered, "malformed file contributes zero items")
	assert.Equal(t, 3, processed)
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, skipped, "draft is skipped")

	// Batch size 2 over 3 records = 2 batches.
	assert.Equal(t, 2, store.batchCalls)
	require.Len(t, store.inserted, 3)
}

func TestPipelineSeedsExistingSlugs(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", goodExport)

	store := newFakeArticleStore()
	store.existingSlugs = []string{"first-article"}

	pipeline := newTestPipeline(t, store, []string{good}, false)
	require.NoError(t, pipeline.Run())

	slugs := make(map[string]bool)
	for _, a := range store.inserted {
		slugs[a.Slug] = true
	}

	assert.True(t, slugs["first-article-1"], "pre-existing slug forces a suffix, got %v", slugs)
	assert.False(t, slugs["first-article"])
}

func TestPipelineSeedFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", goodExport)

	store := newFakeArticleStore()
	store.listSlugsErr = assert.AnError

	pipeline := newTestPipeline(t, store, []string{good}, false)
	assert.Error(t, pipeline.Run())
}

func TestPipelineDryRun(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", goodExport)

	store := newFakeArticleStore()
	pipeline := newTestPipeline(t, store, []string{good}, true)

	require.NoError(t, pipeline.Run())

	assert.Equal(t, 0, store.batchCalls, "dry run must not write")
	assert.Equal(t, 0, store.insertCalls)

	_, _, succeeded, _, skipped := pipeline.Stats().Snapshot()
	assert.Equal(t, 3, succeeded, "would-be insert count")
	assert.Equal(t, 1, skipped)
}

func TestPipelineWritesErrorLog(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", goodExport)

	// Run from a temp working directory so the artifact lands there.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	store := newFakeArticleStore()
	store.failBatch = true
	store.failSlugs["second-article"] = true

	pipeline := newTestPipeline(t, store, []string{good}, false)
	require.NoError(t, pipeline.Run())

	data, err := os.ReadFile(ErrorLogPath)
	require.NoError(t, err)

	var records []ErrorRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "second-article", records[0].Slug)
	assert.Equal(t, "Second Article", records[0].Title)
}
