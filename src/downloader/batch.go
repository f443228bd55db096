package downloader

import (
	"context"

	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
	"github.com/andrewyi/blogsync/src/routingpool"
)

// DownloadAll 使用协程池并发下载一批url，结果与输入顺序一一对应
// 调用方仍按顺序处理结果，并发只发生在下载阶段
func DownloadAll(ctx context.Context, d Downloader, urls []string, worker uint32) []entity.PageInfo {
	pages := make([]entity.PageInfo, len(urls))
	if len(urls) == 0 {
		return pages
	}
	if worker == 0 {
		worker = 1
	}
	if int(worker) > len(urls) {
		worker = uint32(len(urls))
	}

	indexQueue := make(chan int)
	pool := routingpool.NewSimpleRoutingPool(ctx, worker, func(ctx context.Context) {
		for i := range indexQueue {
			if ctx.Err() != nil {
				pages[i] = entity.PageInfo{
					URL:    urls[i],
					State:  enum.PageStateFail,
					Remark: ctx.Err().Error(),
				}
				continue
			}
			pages[i] = d.Download(ctx, urls[i])
		}
	})
	if err := pool.Start(); err != nil {
		for i, u := range urls {
			pages[i] = entity.PageInfo{URL: u, State: enum.PageStateFail, Remark: err.Error()}
		}
		return pages
	}

	for i := range urls {
		indexQueue <- i
	}
	close(indexQueue)
	pool.Stop()

	return pages
}
