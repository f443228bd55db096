// 只读地汇总两个数据集，文章按url去重，作者按full_name去重
package report

import (
	"errors"
	"sort"
	"time"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/recordstore"
)

type AuthorStat struct {
	FullName        string
	JobTitle        string
	ArticlesCounter int
}

type ArticleStat struct {
	Title           string
	URL             string
	PublicationDate time.Time
	Authors         []string
}

type TagStat struct {
	Tag      string
	Articles int
}

type Report struct {
	Articles       int // 去重后的文章数
	Authors        int // 去重后的作者数
	Watermark      time.Time
	TopAuthors     []AuthorStat
	LatestArticles []ArticleStat
	TopTags        []TagStat
}

// Build 读取数据集并生成各项top-n统计
func Build(store recordstore.RecordStore, topN int) (*Report, error) {
	rawArticles, err := store.ReadAll(recordstore.DatasetArticles)
	if err != nil {
		return nil, err
	}
	articles, err := recordstore.DecodeArticleRows(rawArticles)
	if err != nil {
		return nil, err
	}
	// 全量抓取在写作者之前中断时authors不存在，视为空
	rawAuthors, err := store.ReadAll(recordstore.DatasetAuthors)
	if err != nil && !errors.Is(err, recordstore.ErrDatasetNotExist) {
		return nil, err
	}
	authors, err := recordstore.DecodeAuthorRows(rawAuthors)
	if err != nil {
		return nil, err
	}

	latest := LatestArticles(articles, -1)
	topAuthors := TopAuthors(authors, -1)

	r := &Report{
		Articles:       len(latest),
		Authors:        len(topAuthors),
		TopAuthors:     limit(topAuthors, topN),
		LatestArticles: limitArticles(latest, topN),
		TopTags:        TopTags(articles, topN),
	}
	if len(latest) > 0 {
		r.Watermark = latest[0].PublicationDate
	}
	return r, nil
}

// TopAuthors 按articles_counter降序，相同时按名字升序，n<0表示不限制
func TopAuthors(rows []entity.AuthorRow, n int) []AuthorStat {
	var (
		index = make(map[string]int)
		stats []AuthorStat
	)
	for _, row := range rows {
		if i, ok := index[row.FullName]; ok {
			if row.ArticlesCounter > stats[i].ArticlesCounter {
				stats[i].ArticlesCounter = row.ArticlesCounter
			}
			continue
		}
		index[row.FullName] = len(stats)
		stats = append(stats, AuthorStat{
			FullName:        row.FullName,
			JobTitle:        row.JobTitle,
			ArticlesCounter: row.ArticlesCounter,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].ArticlesCounter != stats[j].ArticlesCounter {
			return stats[i].ArticlesCounter > stats[j].ArticlesCounter
		}
		return stats[i].FullName < stats[j].FullName
	})
	return limit(stats, n)
}

// LatestArticles 按日期降序，相同时按url升序
func LatestArticles(rows []entity.ArticleRow, n int) []ArticleStat {
	var (
		index   = make(map[string]int)
		authors = make(map[string]map[string]struct{})
		stats   []ArticleStat
	)
	for _, row := range rows {
		i, ok := index[row.URL]
		if !ok {
			i = len(stats)
			index[row.URL] = i
			authors[row.URL] = make(map[string]struct{})
			stats = append(stats, ArticleStat{
				Title:           row.Title,
				URL:             row.URL,
				PublicationDate: row.PublicationDate,
			})
		}
		if row.Author == "" {
			continue
		}
		if _, ok := authors[row.URL][row.Author]; !ok {
			authors[row.URL][row.Author] = struct{}{}
			stats[i].Authors = append(stats[i].Authors, row.Author)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if !stats[i].PublicationDate.Equal(stats[j].PublicationDate) {
			return stats[i].PublicationDate.After(stats[j].PublicationDate)
		}
		return stats[i].URL < stats[j].URL
	})
	return limitArticles(stats, n)
}

// TopTags 按包含该tag的不同文章数降序，相同时按tag升序
func TopTags(rows []entity.ArticleRow, n int) []TagStat {
	urls := make(map[string]map[string]struct{})
	for _, row := range rows {
		if row.Tag == "" {
			continue
		}
		if urls[row.Tag] == nil {
			urls[row.Tag] = make(map[string]struct{})
		}
		urls[row.Tag][row.URL] = struct{}{}
	}
	stats := make([]TagStat, 0, len(urls))
	for tag, set := range urls {
		stats = append(stats, TagStat{Tag: tag, Articles: len(set)})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Articles != stats[j].Articles {
			return stats[i].Articles > stats[j].Articles
		}
		return stats[i].Tag < stats[j].Tag
	})
	if n >= 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

func limit(stats []AuthorStat, n int) []AuthorStat {
	if n >= 0 && len(stats) > n {
		return stats[:n]
	}
	return stats
}

func limitArticles(stats []ArticleStat, n int) []ArticleStat {
	if n >= 0 && len(stats) > n {
		return stats[:n]
	}
	return stats
}
