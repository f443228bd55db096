package downloader

import (
	"context"
	"fmt"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
)

type Downloader interface {
	Download(ctx context.Context, url string) entity.PageInfo
}

// 页面最终未能获取（已经过downloader内部重试）
type FetchError struct {
	URL    string
	Reason string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %s", e.URL, e.Reason)
}

// 成功的页面返回nil
func PageError(page entity.PageInfo) error {
	if page.State == enum.PageStateSuccess {
		return nil
	}
	return &FetchError{URL: page.URL, Reason: page.Remark}
}
