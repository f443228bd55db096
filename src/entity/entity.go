package entity

import (
	"time"
)

// 保存了下载的内容
type PageInfo struct {
	URL     string
	State   uint32 // enum.PageStateSuccess / enum.PageStateFail
	Remark  string // error description, if any
	Content string
}

// 列表页中的一条post
type ListingEntry struct {
	URL  string
	Date time.Time
}

// 文章页解析结果，Authors与Tags均为去重后的有序集合
type Article struct {
	Title           string
	URL             string
	Synopsis        string
	PublicationDate time.Time
	Authors         []string
	Tags            []string
	AuthorURLs      map[string]string // author name -> author page url
}

// 作者页解析结果
type Author struct {
	FullName        string
	JobTitle        string
	LinkedIn        string
	Contacts        []string
	ArticlesCounter int
	ArticleURLs     []string
}

// Articles数据集中的一行，一篇文章按 author x tag 展开为多行
type ArticleRow struct {
	Title           string
	URL             string
	Text            string
	PublicationDate time.Time
	Author          string
	Tag             string
}

// Authors数据集中的一行，一个作者按contact展开为多行
type AuthorRow struct {
	FullName        string
	JobTitle        string
	LinkedIn        string
	Contact         string
	ArticlesCounter int
}

// 同步过程中的进度通知
type Progress struct {
	Stage   string
	Current int
	Total   int
	URL     string
}

type ProgressFunc func(Progress)

// 一次同步的结果
type SyncResult struct {
	RunID           string
	Mode            string
	Status          string
	WatermarkBefore time.Time
	WatermarkAfter  time.Time
	NewArticles     int
	NewAuthors      int
	UpdatedAuthors  int
	ArticleRows     int
	AuthorRows      int
	SkippedPages    int
}
