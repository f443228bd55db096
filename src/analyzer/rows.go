package analyzer

import (
	"github.com/andrewyi/blogsync/src/entity"
)

// ArticleRows 将一篇文章按 author x tag 展开
// tag数量多于作者数量时以tag为外层循环，否则以作者为外层循环
// 没有作者或没有tag时使用一个空值占位，保证文章的url与日期被记录
func ArticleRows(article *entity.Article) []entity.ArticleRow {
	authors := article.Authors
	if len(authors) == 0 {
		authors = []string{""}
	}
	tags := article.Tags
	if len(tags) == 0 {
		tags = []string{""}
	}

	newRow := func(author, tag string) entity.ArticleRow {
		return entity.ArticleRow{
			Title:           article.Title,
			URL:             article.URL,
			Text:            article.Synopsis,
			PublicationDate: article.PublicationDate,
			Author:          author,
			Tag:             tag,
		}
	}

	rows := make([]entity.ArticleRow, 0, len(authors)*len(tags))
	if len(tags) > len(authors) {
		for _, tag := range tags {
			for _, author := range authors {
				rows = append(rows, newRow(author, tag))
			}
		}
	} else {
		for _, author := range authors {
			for _, tag := range tags {
				rows = append(rows, newRow(author, tag))
			}
		}
	}
	return rows
}

// AuthorRows 将作者按contact展开，没有contact时输出一行空contact
func AuthorRows(author *entity.Author) []entity.AuthorRow {
	contacts := author.Contacts
	if len(contacts) == 0 {
		contacts = []string{""}
	}
	rows := make([]entity.AuthorRow, 0, len(contacts))
	for _, contact := range contacts {
		rows = append(rows, entity.AuthorRow{
			FullName:        author.FullName,
			JobTitle:        author.JobTitle,
			LinkedIn:        author.LinkedIn,
			Contact:         contact,
			ArticlesCounter: author.ArticlesCounter,
		})
	}
	return rows
}
