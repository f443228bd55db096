package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
)

func fullCrawlSite() *fakeSite {
	f := newFakeSite()
	f.add("/all-authors/", indexHTML("/author/jane/", "/author/john/"))
	f.add("/author/jane/", authorHTML("Jane Doe", "Engineer",
		[]string{"https://www.linkedin.com/in/janedoe/", "https://twitter.com/janedoe"},
		[]string{"/a/", "/b/"}))
	f.add("/author/john/", authorHTML("John Roe", "", nil, []string{"/b/", "/c/"}))
	f.add("/a/", articleHTML("Post A", "Feb 01, 2020",
		[]authorLink{{"Jane Doe", "/author/jane/"}}, []string{"Search"}, "alpha"))
	f.add("/b/", articleHTML("Post B", "Mar 03, 2020",
		[]authorLink{{"Jane Doe", "/author/jane/"}, {"John Roe", "/author/john/"}}, []string{"Retail"}, "beta"))
	// /c/ 与 /author/ezra/ 不存在
	return f
}

// TestFullCrawl verifies that every reachable author and article is written once.
func TestFullCrawl(t *testing.T) {
	f := fullCrawlSite()
	env, store := newTestEnv(t, f)

	var progress []entity.Progress
	env.Progress = func(p entity.Progress) { progress = append(progress, p) }

	c := NewFullCrawlController(env, site+"/all-authors/", []string{"/author/ezra/", "/author/jane/"})
	result, err := c.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, enum.ModeFull, result.Mode)
	assert.Equal(t, enum.StatusSynced, result.Status)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.NewAuthors)
	assert.Equal(t, 2, result.NewArticles)
	assert.Equal(t, 3, result.ArticleRows)
	assert.Equal(t, 2, result.SkippedPages)
	assert.Equal(t, date(2020, time.March, 3), result.WatermarkAfter)

	assert.Equal(t, []entity.AuthorRow{
		{FullName: "Jane Doe", JobTitle: "Engineer", LinkedIn: "https://www.linkedin.com/in/janedoe/", Contact: "https://twitter.com/janedoe", ArticlesCounter: 2},
		{FullName: "John Roe", ArticlesCounter: 2},
	}, readAuthors(t, store))

	articles := readArticles(t, store)
	require.Len(t, articles, 3)
	assert.Equal(t, site+"/a/", articles[0].URL)
	assert.Equal(t, "Jane Doe", articles[1].Author)
	assert.Equal(t, "John Roe", articles[2].Author)
	assert.Equal(t, "Retail", articles[2].Tag)

	assert.Equal(t, 1, f.called("/b/"))
	assert.Equal(t, 1, f.called("/author/jane/"))
	assert.Equal(t, 1, f.called("/author/ezra/"))

	var authorSeq, articleSeq []int
	for _, p := range progress {
		switch p.Stage {
		case enum.ProgressAuthors:
			authorSeq = append(authorSeq, p.Current)
		case enum.ProgressArticles:
			articleSeq = append(articleSeq, p.Current)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, authorSeq)
	assert.Equal(t, []int{1, 2, 3}, articleSeq)
}

func TestFullCrawl_RefusesNonEmptyStore(t *testing.T) {
	f := fullCrawlSite()
	env, store := newTestEnv(t, f)
	seedArticles(t, store, entity.ArticleRow{Title: "a", URL: site + "/a/", PublicationDate: date(2020, time.February, 1)})

	_, err := NewFullCrawlController(env, site+"/all-authors/", nil).Sync(context.Background())
	requireSyncError(t, err, enum.StageState, ErrStoreNotEmpty)
	assert.Equal(t, 0, f.total())
}

func TestFullCrawl_IndexUnavailable(t *testing.T) {
	f := newFakeSite()
	env, store := newTestEnv(t, f)

	_, err := NewFullCrawlController(env, site+"/all-authors/", nil).Sync(context.Background())
	requireSyncError(t, err, enum.StageDiscovery, nil)

	rows, err := store.ReadAll("authors")
	assert.Error(t, err)
	assert.Nil(t, rows)
}

// TestFullCrawlThenIncremental verifies that a bootstrap followed by a sync with nothing new changes nothing.
func TestFullCrawlThenIncremental(t *testing.T) {
	f := fullCrawlSite()
	f.add("/explore/", listingHTML([2]string{"/b/", "Mar 03, 2020"}, [2]string{"/a/", "Feb 01, 2020"}))
	env, store := newTestEnv(t, f)

	_, err := NewFullCrawlController(env, site+"/all-authors/", nil).Sync(context.Background())
	require.NoError(t, err)
	articles := readArticles(t, store)
	authors := readAuthors(t, store)

	result, err := NewIncrementalController(env, site+"/explore/").Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enum.StatusNoNewPosts, result.Status)
	assert.Equal(t, articles, readArticles(t, store))
	assert.Equal(t, authors, readAuthors(t, store))
}
