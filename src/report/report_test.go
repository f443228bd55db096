package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/filestorage"
	"github.com/andrewyi/blogsync/src/recordstore"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2020, m, d, 0, 0, 0, 0, time.UTC)
}

var articleRows = []entity.ArticleRow{
	{Title: "Tiered ranking", URL: "/tiered/", PublicationDate: day(time.March, 3), Author: "Jane Doe", Tag: "Search"},
	{Title: "Tiered ranking", URL: "/tiered/", PublicationDate: day(time.March, 3), Author: "Jane Doe", Tag: "ML"},
	{Title: "Tiered ranking", URL: "/tiered/", PublicationDate: day(time.March, 3), Author: "John Roe", Tag: "Search"},
	{Title: "Tiered ranking", URL: "/tiered/", PublicationDate: day(time.March, 3), Author: "John Roe", Tag: "ML"},
	{Title: "Old post", URL: "/old/", PublicationDate: day(time.February, 28), Author: "Jane Doe", Tag: "Search"},
	{Title: "Same day", URL: "/alpha/", PublicationDate: day(time.March, 3), Author: "Zed", Tag: ""},
}

var authorRows = []entity.AuthorRow{
	{FullName: "Jane Doe", JobTitle: "Engineer", Contact: "tw", ArticlesCounter: 4},
	{FullName: "Jane Doe", JobTitle: "Engineer", Contact: "mail", ArticlesCounter: 4},
	{FullName: "Zed", ArticlesCounter: 1},
	{FullName: "John Roe", ArticlesCounter: 1},
}

// TestTopAuthors verifies that denormalized author rows are counted once.
func TestTopAuthors(t *testing.T) {
	stats := TopAuthors(authorRows, 2)
	assert.Equal(t, []AuthorStat{
		{FullName: "Jane Doe", JobTitle: "Engineer", ArticlesCounter: 4},
		{FullName: "John Roe", ArticlesCounter: 1},
	}, stats)

	assert.Len(t, TopAuthors(authorRows, -1), 3)
}

func TestLatestArticles(t *testing.T) {
	stats := LatestArticles(articleRows, -1)
	require.Len(t, stats, 3)

	assert.Equal(t, "/alpha/", stats[0].URL)
	assert.Equal(t, "/tiered/", stats[1].URL)
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, stats[1].Authors)
	assert.Equal(t, "/old/", stats[2].URL)

	assert.Len(t, LatestArticles(articleRows, 1), 1)
}

func TestTopTags(t *testing.T) {
	assert.Equal(t, []TagStat{
		{Tag: "Search", Articles: 2},
		{Tag: "ML", Articles: 1},
	}, TopTags(articleRows, 5))

	assert.Equal(t, []TagStat{{Tag: "Search", Articles: 2}}, TopTags(articleRows, 1))
}

func TestBuild(t *testing.T) {
	store, err := filestorage.NewSimpleFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = Build(store, 5)
	assert.True(t, errors.Is(err, recordstore.ErrDatasetNotExist))

	require.NoError(t, store.AppendRows(recordstore.DatasetArticles, recordstore.EncodeArticleRows(articleRows)))

	// authors尚未写入
	r, err := Build(store, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Articles)
	assert.Zero(t, r.Authors)
	assert.Empty(t, r.TopAuthors)
	assert.Len(t, r.LatestArticles, 2)

	require.NoError(t, store.AppendRows(recordstore.DatasetAuthors, recordstore.EncodeAuthorRows(authorRows)))

	r, err = Build(store, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Articles)
	assert.Equal(t, 3, r.Authors)
	assert.Equal(t, day(time.March, 3), r.Watermark)
	assert.Len(t, r.TopAuthors, 2)
	assert.Len(t, r.LatestArticles, 2)
	assert.Len(t, r.TopTags, 2)
}

// TestRender verifies that columns stay aligned with wide characters.
func TestRender(t *testing.T) {
	r := &Report{
		Articles:  2,
		Authors:   2,
		Watermark: day(time.March, 3),
		TopAuthors: []AuthorStat{
			{FullName: "Jane Doe", JobTitle: "Engineer", ArticlesCounter: 4},
			{FullName: "王小明", ArticlesCounter: 12},
		},
		TopTags: []TagStat{{Tag: "Search", Articles: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "articles: 2, authors: 2, latest: 2020-03-03")
	assert.Contains(t, out, "Top authors")
	assert.Contains(t, out, "Latest articles")
	assert.Contains(t, out, "| Search |")

	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Jane Doe") || strings.Contains(line, "王小明") || strings.Contains(line, "full_name") {
			widths = append(widths, runewidth.StringWidth(line))
		}
	}
	require.Len(t, widths, 3)
	assert.Equal(t, widths[0], widths[1])
	assert.Equal(t, widths[0], widths[2])
}

func TestWriteTable_Truncates(t *testing.T) {
	var sb strings.Builder
	writeTable(&sb, [][]string{{"title"}, {strings.Repeat("x", 100)}})

	for _, line := range strings.Split(strings.TrimSpace(sb.String()), "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), maxCellWidth+4)
	}
	assert.Contains(t, sb.String(), "...")
}
