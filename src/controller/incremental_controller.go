package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/andrewyi/blogsync/src/analyzer"
	"github.com/andrewyi/blogsync/src/downloader"
	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
	"github.com/andrewyi/blogsync/src/recordstore"
	"github.com/andrewyi/blogsync/src/util"
)

// IncrementalController 以已存储文章的最大日期为水位，只抓取列表页中更新的post
type IncrementalController struct {
	env        Env
	listingURL string
}

func NewIncrementalController(env Env, listingURL string) Controller {
	return &IncrementalController{
		env:        env,
		listingURL: listingURL,
	}
}

type triple struct {
	url    string
	author string
	tag    string
}

type attribution struct {
	url    string
	author string
}

func (c *IncrementalController) Sync(ctx context.Context) (*entity.SyncResult, error) {
	r := newRun(c.env, enum.ModeIncremental)
	result := &entity.SyncResult{RunID: r.id, Mode: enum.ModeIncremental}

	// 没有历史数据时在任何下载之前终止
	stored, err := loadArticles(r.Store)
	if err != nil {
		return nil, &SyncError{Stage: enum.StageState, Err: err}
	}
	watermark := maxDate(stored)
	result.WatermarkBefore = watermark
	result.WatermarkAfter = watermark

	newURLs, skipped, err := c.discover(ctx, r, watermark)
	if err != nil {
		return nil, &SyncError{Stage: enum.StageDiscovery, Err: err}
	}
	r.logger.WithFields(log.Fields{
		"watermark": watermark.Format(enum.StoreDateLayout),
		"new":       len(newURLs),
		"skipped":   skipped,
	}).Info("listing scanned")

	if len(newURLs) == 0 {
		result.Status = enum.StatusNoNewPosts
		return result, nil
	}

	// 作者快照在追加文章之前读取，快照损坏时本次运行不产生任何写入
	snapshot, err := loadAuthors(r.Store)
	if err != nil {
		r.logger.WithError(err).Error("fail to load authors snapshot")
		return nil, &SyncError{Stage: enum.StageMerge, Err: fmt.Errorf("%w: %v", ErrMergeFailed, err)}
	}

	var (
		triples      = make(map[triple]struct{}, len(stored))
		attributions = make(map[attribution]struct{}, len(stored))
		credited     = newCredits()
		rows         []entity.ArticleRow
	)
	for _, row := range stored {
		triples[triple{row.URL, row.Author, row.Tag}] = struct{}{}
		attributions[attribution{row.URL, row.Author}] = struct{}{}
	}

	pages := downloader.DownloadAll(ctx, r.Downloader, newURLs, r.Worker)
	if err := ctx.Err(); err != nil {
		return nil, &SyncError{Stage: enum.StageFetch, Err: err}
	}
	for _, page := range pages {
		r.progress(enum.ProgressArticles, len(pages), page.URL)

		article, err := r.Analyzer.AnalyzeArticle(page)
		if err != nil {
			r.logger.WithError(err).WithField("url", page.URL).Warn("skip article page")
			result.SkippedPages++
			continue
		}

		added := 0
		for _, row := range analyzer.ArticleRows(article) {
			key := triple{row.URL, row.Author, row.Tag}
			if _, ok := triples[key]; ok {
				continue
			}
			triples[key] = struct{}{}
			rows = append(rows, row)
			added++
		}
		if added > 0 {
			result.NewArticles++
			result.ArticleRows += added
		} else {
			r.logger.WithField("url", page.URL).Info("article already stored")
		}

		// 每篇文章对每个作者只计一次，与展开的行数无关
		for _, name := range article.Authors {
			key := attribution{article.URL, name}
			if _, ok := attributions[key]; ok {
				continue
			}
			attributions[key] = struct{}{}
			credited.add(name, article.AuthorURLs[name])
		}

		if article.PublicationDate.After(result.WatermarkAfter) {
			result.WatermarkAfter = article.PublicationDate
		}
	}

	// 所有新行一次追加，追加失败时文章与作者计数都不变
	if len(rows) > 0 {
		if err := r.Store.AppendRows(recordstore.DatasetArticles, recordstore.EncodeArticleRows(rows)); err != nil {
			r.logger.WithError(err).Error("fail to append articles")
			return nil, &SyncError{Stage: enum.StageMerge, Err: err}
		}
	}

	if len(credited.names) > 0 {
		if err := c.reconcile(ctx, r, snapshot, credited, result); err != nil {
			return nil, &SyncError{Stage: enum.StageMerge, Err: err}
		}
	}

	result.Status = enum.StatusSynced
	r.logger.WithFields(log.Fields{
		"articles":        result.NewArticles,
		"rows":            result.ArticleRows,
		"new_authors":     result.NewAuthors,
		"updated_authors": result.UpdatedAuthors,
		"skipped":         result.SkippedPages,
		"watermark":       result.WatermarkAfter.Format(enum.StoreDateLayout),
	}).Info("incremental sync finished")
	return result, nil
}

// 返回日期严格晚于水位的post url，以及被跳过的条目数
func (c *IncrementalController) discover(ctx context.Context, r *run, watermark time.Time) ([]string, int, error) {
	page, err := r.fetch(ctx, c.listingURL)
	if err != nil {
		return nil, 0, err
	}
	entries, skipped, err := r.Analyzer.AnalyzeListing(page)
	if err != nil {
		return nil, 0, err
	}
	var urls []string
	for _, entry := range entries {
		if entry.Date.After(watermark) {
			urls = append(urls, entry.URL)
		}
	}
	return util.UniqueStrings(urls), skipped, nil
}

// 按首次出现顺序记录每个作者新增的文章数
type credits struct {
	names []string
	count map[string]int
	links map[string]string
}

func newCredits() *credits {
	return &credits{
		count: make(map[string]int),
		links: make(map[string]string),
	}
}

func (c *credits) add(name, link string) {
	if _, ok := c.count[name]; !ok {
		c.names = append(c.names, name)
	}
	c.count[name]++
	if link != "" && c.links[name] == "" {
		c.links[name] = link
	}
}

// reconcile 在作者快照上计算计数变化，一次性覆盖写回
func (c *IncrementalController) reconcile(ctx context.Context, r *run, snapshot []entity.AuthorRow, cr *credits, result *entity.SyncResult) error {
	known := make(map[string]struct{})
	for _, row := range snapshot {
		known[row.FullName] = struct{}{}
	}

	var unknown []string
	for _, name := range cr.names {
		if _, ok := known[name]; ok {
			result.UpdatedAuthors++
			continue
		}
		unknown = append(unknown, name)
	}

	for i := range snapshot {
		if k, ok := cr.count[snapshot[i].FullName]; ok {
			snapshot[i].ArticlesCounter += k
		}
	}

	for _, author := range c.fetchAuthors(ctx, r, cr, unknown) {
		k := cr.count[author.FullName]
		if author.ArticlesCounter < k {
			author.ArticlesCounter = k
		}
		snapshot = append(snapshot, analyzer.AuthorRows(author)...)
		result.NewAuthors++
	}

	if err := r.Store.OverwriteAll(recordstore.DatasetAuthors, recordstore.EncodeAuthorRows(snapshot)); err != nil {
		r.logger.WithError(err).Error("fail to overwrite authors")
		return fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	result.AuthorRows = len(snapshot)
	return nil
}

// 抓取未知作者的作者页，失败时只保留名字，计数由调用方填写
// 以文章中的作者名为准，避免作者页上的名字与文章不一致时重复插入
func (c *IncrementalController) fetchAuthors(ctx context.Context, r *run, cr *credits, names []string) []*entity.Author {
	var (
		authors = make([]*entity.Author, len(names))
		urls    []string
		index   []int
	)
	for i, name := range names {
		authors[i] = &entity.Author{FullName: name}
		if link := cr.links[name]; link != "" {
			urls = append(urls, link)
			index = append(index, i)
		} else {
			r.logger.WithField("name", name).Warn("no author page known")
		}
	}

	// 已追加的文章需要对应的作者计数，取消时也不中断
	for j, page := range downloader.DownloadAll(ctx, r.Downloader, urls, r.Worker) {
		i := index[j]
		r.progress(enum.ProgressAuthors, len(urls), page.URL)

		author, err := r.Analyzer.AnalyzeAuthor(page)
		if err != nil {
			r.logger.WithError(err).WithField("name", names[i]).Warn("author page unavailable, insert minimal row")
			continue
		}
		author.FullName = names[i]
		authors[i] = author
	}
	return authors
}

func loadAuthors(store recordstore.RecordStore) ([]entity.AuthorRow, error) {
	raw, err := store.ReadAll(recordstore.DatasetAuthors)
	if errors.Is(err, recordstore.ErrDatasetNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return recordstore.DecodeAuthorRows(raw)
}
