package analyzer

import (
	"errors"
	"fmt"

	"github.com/andrewyi/blogsync/src/entity"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidDate  = errors.New("invalid date")
	ErrBadDocument  = errors.New("unparseable document")
)

// 页面缺失必需字段或字段无法解析，由调用方决定跳过还是终止
type ParseError struct {
	URL   string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s: %v", e.URL, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Analyzer 只依赖页面内容，没有副作用
type Analyzer interface {
	AnalyzeArticle(entity.PageInfo) (*entity.Article, error)
	AnalyzeAuthor(entity.PageInfo) (*entity.Author, error)
	// 作者列表页中的作者页链接
	AnalyzeAuthorIndex(entity.PageInfo) ([]string, error)
	// 文章列表页中日期可解析的post，第二个返回值为被跳过的条目数
	AnalyzeListing(entity.PageInfo) ([]entity.ListingEntry, int, error)
}
