package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/andrewyi/blogsync/src/analyzer"
	"github.com/andrewyi/blogsync/src/downloader"
	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/recordstore"
)

var (
	ErrNoPriorState  = errors.New("no prior articles dataset")
	ErrStoreNotEmpty = errors.New("articles dataset is not empty")
	ErrMergeFailed   = errors.New("author reconciliation failed")
)

// SyncError 终止本次同步的错误，Stage为 enum.Stage*
type SyncError struct {
	Stage string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed at %s stage: %v", e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Controller 执行一次同步，除数据集之外不保留跨次运行的状态
type Controller interface {
	Sync(ctx context.Context) (*entity.SyncResult, error)
}

// Env 两种同步模式共用的协作者
type Env struct {
	Logger     *log.Logger
	Store      recordstore.RecordStore
	Downloader downloader.Downloader
	Analyzer   analyzer.Analyzer
	Worker     uint32
	Progress   entity.ProgressFunc // 可以为nil
}

type run struct {
	Env
	id      string
	logger  *log.Entry
	counter map[string]int
}

func newRun(env Env, mode string) *run {
	id := uuid.New().String()
	return &run{
		Env:     env,
		id:      id,
		logger:  env.Logger.WithFields(log.Fields{"run": id, "mode": mode}),
		counter: make(map[string]int),
	}
}

// 序号在kind内递增
func (r *run) progress(kind string, total int, url string) {
	r.counter[kind]++
	if r.Progress == nil {
		return
	}
	r.Progress(entity.Progress{
		Stage:   kind,
		Current: r.counter[kind],
		Total:   total,
		URL:     url,
	})
}

// 单页下载，失败返回FetchError
func (r *run) fetch(ctx context.Context, url string) (entity.PageInfo, error) {
	page := r.Downloader.Download(ctx, url)
	return page, downloader.PageError(page)
}

// Watermark 已存储文章中最大的publication_date
// 数据集不存在、为空或包含无法解析的日期时返回错误
func Watermark(store recordstore.RecordStore) (time.Time, error) {
	rows, err := loadArticles(store)
	if err != nil {
		return time.Time{}, err
	}
	return maxDate(rows), nil
}

func loadArticles(store recordstore.RecordStore) ([]entity.ArticleRow, error) {
	raw, err := store.ReadAll(recordstore.DatasetArticles)
	if err != nil {
		if errors.Is(err, recordstore.ErrDatasetNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNoPriorState, err)
		}
		return nil, err
	}
	rows, err := recordstore.DecodeArticleRows(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrNoPriorState)
	}
	return rows, nil
}

func maxDate(rows []entity.ArticleRow) time.Time {
	var latest time.Time
	for _, row := range rows {
		if row.PublicationDate.After(latest) {
			latest = row.PublicationDate
		}
	}
	return latest
}
