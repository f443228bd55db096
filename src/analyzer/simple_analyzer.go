// 页面结构与blog站点的html保持一致，选择器集中定义在此处
package analyzer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/andrewyi/blogsync/src/downloader"
	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
	"github.com/andrewyi/blogsync/src/util"
)

var (
	articleRoot      = cascadia.MustCompile("body > div#wrap")
	articleTitle     = cascadia.MustCompile("div#postcontent > h1")
	articleText      = cascadia.MustCompile("div#postcontent > div#mypost")
	articleDate      = cascadia.MustCompile("div#postcontent > div.no-mobile > div.posttag.right.nomobile > span")
	articleAuthors   = cascadia.MustCompile("div#postcontent > div.no-mobile > div.postauthor.left > span > a.goauthor")
	articleTags      = cascadia.MustCompile("ul#mainmenu > li.current > a")
	authorBox        = cascadia.MustCompile("div#wrap > div#author > div#authorbox")
	authorName       = cascadia.MustCompile("div.nomobile > div.right > h1")
	authorJobTitle   = cascadia.MustCompile("div.nomobile > div.right > h2")
	authorSocial     = cascadia.MustCompile("div.mobile > div.right > div.authorsocial > a")
	authorArticles   = cascadia.MustCompile("div.postlist > a, did.postlist > a") // 线上页面使用了did标签
	authorIndexLinks = cascadia.MustCompile("div#wrap > div.blog.list.authorslist > div.inner > div.row > div.left > div.single a.authormore")
	listingEntry     = cascadia.MustCompile("div.cntt")
	listingDate      = cascadia.MustCompile("div.viewauthor > div.authwrp > span")
	listingLink      = cascadia.MustCompile("h4 > a")
	innerSpan        = cascadia.MustCompile("span")
)

type SimpleAnalyzer struct{}

func NewSimpleAnalyzer() Analyzer {
	return &SimpleAnalyzer{}
}

func (a *SimpleAnalyzer) AnalyzeArticle(page entity.PageInfo) (*entity.Article, error) {
	doc, err := document(page)
	if err != nil {
		return nil, err
	}

	root := doc.FindMatcher(articleRoot).First()
	if root.Length() == 0 {
		return nil, &ParseError{URL: page.URL, Field: "content", Err: ErrMissingField}
	}

	var article = &entity.Article{
		URL:        page.URL,
		Title:      cleanText(root.FindMatcher(articleTitle).First().Text()),
		AuthorURLs: make(map[string]string),
	}

	var blocks []string
	root.FindMatcher(articleText).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	article.Synopsis = Synopsis(blocks)

	dateSel := root.FindMatcher(articleDate).First()
	if dateSel.Length() == 0 {
		return nil, &ParseError{URL: page.URL, Field: "publication_date", Err: ErrMissingField}
	}
	article.PublicationDate, err = ParseDisplayDate(dateSel.Text())
	if err != nil {
		return nil, &ParseError{URL: page.URL, Field: "publication_date", Err: err}
	}

	var authors []string
	root.FindMatcher(articleAuthors).Each(func(_ int, s *goquery.Selection) {
		name := s.FindMatcher(innerSpan).First().Text()
		if name == "" {
			name = s.Text()
		}
		name = cleanText(name)
		if name == "" {
			return
		}
		authors = append(authors, name)
		if _, ok := article.AuthorURLs[name]; ok {
			return
		}
		if href, exists := s.Attr("href"); exists {
			if u, err := util.ResolveURL(page.URL, href); err == nil {
				article.AuthorURLs[name] = u
			}
		}
	})
	article.Authors = util.UniqueStrings(authors)

	// tags位于页面菜单中，不在div#wrap内
	article.Tags = util.UniqueStrings(texts(doc.FindMatcher(articleTags)))

	return article, nil
}

func (a *SimpleAnalyzer) AnalyzeAuthor(page entity.PageInfo) (*entity.Author, error) {
	doc, err := document(page)
	if err != nil {
		return nil, err
	}

	box := doc.FindMatcher(authorBox).First()
	fullName := cleanText(box.FindMatcher(authorName).First().Text())
	if fullName == "" {
		return nil, &ParseError{URL: page.URL, Field: "full_name", Err: ErrMissingField}
	}

	var author = &entity.Author{
		FullName: fullName,
		JobTitle: cleanText(box.FindMatcher(authorJobTitle).First().Text()),
	}

	var contacts []string
	box.FindMatcher(authorSocial).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}
		if strings.Contains(strings.ToLower(href), enum.LinkedInMarker) {
			author.LinkedIn = href // 多个时以最后一个为准
			return
		}
		contacts = append(contacts, href)
	})
	author.Contacts = util.UniqueStrings(contacts)

	author.ArticleURLs = links(page.URL, box.FindMatcher(authorArticles))
	author.ArticlesCounter = len(author.ArticleURLs)

	return author, nil
}

func (a *SimpleAnalyzer) AnalyzeAuthorIndex(page entity.PageInfo) ([]string, error) {
	doc, err := document(page)
	if err != nil {
		return nil, err
	}
	return links(page.URL, doc.FindMatcher(authorIndexLinks)), nil
}

func (a *SimpleAnalyzer) AnalyzeListing(page entity.PageInfo) ([]entity.ListingEntry, int, error) {
	doc, err := document(page)
	if err != nil {
		return nil, 0, err
	}

	var (
		entries []entity.ListingEntry
		skipped int
	)
	doc.FindMatcher(listingEntry).Each(func(_ int, s *goquery.Selection) {
		// 置顶或无日期的卡片不是post，直接跳过
		date, err := ParseDisplayDate(s.FindMatcher(listingDate).First().Text())
		if err != nil {
			skipped++
			return
		}
		href, exists := s.FindMatcher(listingLink).First().Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			skipped++
			return
		}
		u, err := util.ResolveURL(page.URL, href)
		if err != nil {
			skipped++
			return
		}
		entries = append(entries, entity.ListingEntry{URL: u, Date: date})
	})
	return entries, skipped, nil
}

// ParseDisplayDate 解析形如 "Mar 03, 2020" 的日期
func ParseDisplayDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingField
	}
	d, err := time.Parse(enum.DisplayDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Synopsis 依次拼接各文本块，累计长度超过上限后截断并不再继续拼接
func Synopsis(blocks []string) string {
	var text string
	for _, block := range blocks {
		text += stripControl(strings.TrimSpace(block))
		if utf8.RuneCountInString(text) > enum.SynopsisLimit {
			return string([]rune(text)[:enum.SynopsisLimit+1])
		}
	}
	return text
}

func document(page entity.PageInfo) (*goquery.Document, error) {
	if err := downloader.PageError(page); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Content))
	if err != nil {
		return nil, &ParseError{URL: page.URL, Field: "document", Err: ErrBadDocument}
	}
	return doc, nil
}

func stripControl(s string) string {
	s = strings.Replace(s, "\r", "", -1)
	return strings.Replace(s, "\n", " ", -1)
}

func cleanText(s string) string {
	return strings.TrimSpace(stripControl(s))
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, cleanText(s.Text()))
	})
	return out
}

func links(base string, sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		if u, err := util.ResolveURL(base, href); err == nil {
			out = append(out, u)
		}
	})
	return util.UniqueStrings(out)
}
