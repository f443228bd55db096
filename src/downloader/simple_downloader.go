// 简单的http Get方式下载
// 网络错误与5xx响应会重试，其余非200响应直接视为失败
// 响应内容按Content-Type及页面meta转换为utf-8
package downloader

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
)

type SimpleDownloader struct {
	timeout   uint32
	retry     uint32
	userAgent string

	client *http.Client
}

func NewSimpleDownloader(timeout uint32, retry uint32, userAgent string) Downloader {
	if retry == 0 {
		retry = 1
	}
	return &SimpleDownloader{
		timeout:   timeout,
		retry:     retry,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

func (s *SimpleDownloader) Download(ctx context.Context, url string) entity.PageInfo {
	var (
		err     error
		content string
		retry   bool
	)

	for retryCount := uint32(0); retryCount < s.retry; retryCount++ {
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
		content, retry, err = s.get(ctx, url)
		if err == nil || !retry {
			break
		}
	}
	if err != nil {
		return entity.PageInfo{
			URL:    url,
			State:  enum.PageStateFail,
			Remark: err.Error(),
		}
	}

	return entity.PageInfo{
		URL:     url,
		State:   enum.PageStateSuccess,
		Content: content,
	}
}

// 返回值retry表示该错误是否值得重试
func (s *SimpleDownloader) get(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", false, err
	}
	req = req.WithContext(ctx)
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode >= http.StatusInternalServerError,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", false, err
	}
	body, err := ioutil.ReadAll(reader)
	if err != nil {
		return "", true, err
	}
	return string(body), false, nil
}
