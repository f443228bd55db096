package controller

import (
	"context"
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

// FullCrawlController 从作者列表页出发抓取全部作者与文章，只用于空数据集的初始化
type FullCrawlController struct {
	env          Env
	indexURL     string
	extraAuthors []string
}

// extraAuthors 为作者列表页无法到达的作者页，可以是相对链接
func NewFullCrawlController(env Env, indexURL string, extraAuthors []string) Controller {
	return &FullCrawlController{
		env:          env,
		indexURL:     indexURL,
		extraAuthors: extraAuthors,
	}
}

func (c *FullCrawlController) Sync(ctx context.Context) (*entity.SyncResult, error) {
	r := newRun(c.env, enum.ModeFull)
	result := &entity.SyncResult{RunID: r.id, Mode: enum.ModeFull, Status: enum.StatusSynced}

	notEmpty, err := recordstore.HasData(r.Store, recordstore.DatasetArticles)
	if err != nil {
		return nil, &SyncError{Stage: enum.StageState, Err: err}
	}
	if notEmpty {
		return nil, &SyncError{Stage: enum.StageState, Err: ErrStoreNotEmpty}
	}

	authorURLs, err := c.discover(ctx, r)
	if err != nil {
		return nil, &SyncError{Stage: enum.StageDiscovery, Err: err}
	}
	r.logger.WithField("authors", len(authorURLs)).Info("author pages discovered")

	// 即使没有抓到任何内容，两个数据集也会被创建
	for _, d := range []recordstore.Dataset{recordstore.DatasetAuthors, recordstore.DatasetArticles} {
		if err := r.Store.AppendRows(d, nil); err != nil {
			return nil, &SyncError{Stage: enum.StageMerge, Err: err}
		}
	}

	var (
		writtenArticles = make(map[string]struct{})
		writtenAuthors  = make(map[string]struct{})
		latest          time.Time
	)

	authorPages := downloader.DownloadAll(ctx, r.Downloader, authorURLs, r.Worker)
	for _, page := range authorPages {
		if err := ctx.Err(); err != nil {
			return nil, &SyncError{Stage: enum.StageFetch, Err: err}
		}
		r.progress(enum.ProgressAuthors, len(authorPages), page.URL)

		author, err := r.Analyzer.AnalyzeAuthor(page)
		if err != nil {
			r.logger.WithError(err).WithField("url", page.URL).Warn("skip author page")
			result.SkippedPages++
			continue
		}
		if _, ok := writtenAuthors[author.FullName]; ok {
			r.logger.WithField("name", author.FullName).WithField("url", page.URL).Info("author already written")
			continue
		}

		authorRows := analyzer.AuthorRows(author)
		if err := r.Store.AppendRows(recordstore.DatasetAuthors, recordstore.EncodeAuthorRows(authorRows)); err != nil {
			return nil, &SyncError{Stage: enum.StageMerge, Err: err}
		}
		writtenAuthors[author.FullName] = struct{}{}
		result.NewAuthors++
		result.AuthorRows += len(authorRows)

		var articleURLs []string
		for _, u := range author.ArticleURLs {
			if _, ok := writtenArticles[u]; !ok {
				articleURLs = append(articleURLs, u)
			}
		}

		articlePages := downloader.DownloadAll(ctx, r.Downloader, articleURLs, r.Worker)
		for _, articlePage := range articlePages {
			if err := ctx.Err(); err != nil {
				return nil, &SyncError{Stage: enum.StageFetch, Err: err}
			}
			r.progress(enum.ProgressArticles, len(articlePages), articlePage.URL)

			article, err := r.Analyzer.AnalyzeArticle(articlePage)
			if err != nil {
				r.logger.WithError(err).WithField("url", articlePage.URL).Warn("skip article page")
				result.SkippedPages++
				continue
			}

			rows := analyzer.ArticleRows(article)
			if err := r.Store.AppendRows(recordstore.DatasetArticles, recordstore.EncodeArticleRows(rows)); err != nil {
				return nil, &SyncError{Stage: enum.StageMerge, Err: err}
			}
			writtenArticles[articlePage.URL] = struct{}{}
			result.NewArticles++
			result.ArticleRows += len(rows)
			if article.PublicationDate.After(latest) {
				latest = article.PublicationDate
			}
		}
	}

	result.WatermarkAfter = latest
	r.logger.WithFields(log.Fields{
		"authors":   result.NewAuthors,
		"articles":  result.NewArticles,
		"skipped":   result.SkippedPages,
		"watermark": latest.Format(enum.StoreDateLayout),
	}).Info("full crawl finished")
	return result, nil
}

// 作者列表页中的作者加上补充作者，保持顺序去重
func (c *FullCrawlController) discover(ctx context.Context, r *run) ([]string, error) {
	page, err := r.fetch(ctx, c.indexURL)
	if err != nil {
		return nil, err
	}
	urls, err := r.Analyzer.AnalyzeAuthorIndex(page)
	if err != nil {
		return nil, err
	}
	for _, extra := range c.extraAuthors {
		u, err := util.ResolveURL(c.indexURL, extra)
		if err != nil {
			return nil, fmt.Errorf("extra author %q: %w", extra, err)
		}
		urls = append(urls, u)
	}
	return util.UniqueStrings(urls), nil
}
