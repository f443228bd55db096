// 两个数据集（articles / authors）的表格化存储接口，csv与db两种后端均实现该接口
package recordstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
)

var (
	ErrDatasetNotExist = errors.New("dataset not exist")
	ErrCorruptRow      = errors.New("corrupt row")
	ErrUnknownDataset  = errors.New("unknown dataset")
)

type Dataset string

const (
	DatasetArticles Dataset = "articles"
	DatasetAuthors  Dataset = "authors"
)

var (
	articleColumns = []string{"title", "url", "text", "publication_date", "author", "tag"}
	authorColumns  = []string{"full_name", "job_title", "linkedin", "contact", "articles_counter"}
)

// Columns 数据集的列，顺序即存储顺序
func (d Dataset) Columns() ([]string, error) {
	switch d {
	case DatasetArticles:
		return articleColumns, nil
	case DatasetAuthors:
		return authorColumns, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, string(d))
}

// Row 按列顺序排列的一行
type Row []string

type RecordStore interface {
	AppendRows(Dataset, []Row) error
	// 数据集从未写入时返回ErrDatasetNotExist
	ReadAll(Dataset) ([]Row, error)
	// 全部成功或不做任何修改
	OverwriteAll(Dataset, []Row) error
	Close() error
}

// HasData 数据集存在且至少有一行
func HasData(s RecordStore, d Dataset) (bool, error) {
	rows, err := s.ReadAll(d)
	if errors.Is(err, ErrDatasetNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// CheckRow 校验一行的字段数
func CheckRow(d Dataset, row Row) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	if len(row) != len(columns) {
		return fmt.Errorf("%w: %s expects %d fields, got %d", ErrCorruptRow, d, len(columns), len(row))
	}
	return nil
}

func EncodeArticleRows(rows []entity.ArticleRow) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			r.Title,
			r.URL,
			r.Text,
			r.PublicationDate.Format(enum.StoreDateLayout),
			r.Author,
			r.Tag,
		})
	}
	return out
}

func DecodeArticleRows(rows []Row) ([]entity.ArticleRow, error) {
	out := make([]entity.ArticleRow, 0, len(rows))
	for i, row := range rows {
		if err := CheckRow(DatasetArticles, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		date, err := time.Parse(enum.StoreDateLayout, strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: publication_date %q", i, ErrCorruptRow, row[3])
		}
		out = append(out, entity.ArticleRow{
			Title:           row[0],
			URL:             row[1],
			Text:            row[2],
			PublicationDate: date,
			Author:          row[4],
			Tag:             row[5],
		})
	}
	return out, nil
}

func EncodeAuthorRows(rows []entity.AuthorRow) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, Row{
			r.FullName,
			r.JobTitle,
			r.LinkedIn,
			r.Contact,
			strconv.Itoa(r.ArticlesCounter),
		})
	}
	return out
}

func DecodeAuthorRows(rows []Row) ([]entity.AuthorRow, error) {
	out := make([]entity.AuthorRow, 0, len(rows))
	for i, row := range rows {
		if err := CheckRow(DatasetAuthors, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		counter, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || counter < 0 {
			return nil, fmt.Errorf("row %d: %w: articles_counter %q", i, ErrCorruptRow, row[4])
		}
		out = append(out, entity.AuthorRow{
			FullName:        row[0],
			JobTitle:        row[1],
			LinkedIn:        row[2],
			Contact:         row[3],
			ArticlesCounter: counter,
		})
	}
	return out, nil
}
