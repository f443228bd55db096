package core

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/andrewyi/blogsync/src/enum"
	"github.com/andrewyi/blogsync/src/recordstore"
)

// 读取seed文件中的补充作者页，每行一个url，空行与#开头的行被忽略
// 文件路径为空时返回nil
func LoadSeedAuthors(seedFilePath string) ([]string, error) {
	if seedFilePath == "" {
		return nil, nil
	}

	file, err := os.Open(seedFilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)
	var URLs []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		URLs = append(URLs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return URLs, nil
}

// 两个数据集都有数据时做增量同步，否则做全量抓取
func SelectMode(store recordstore.RecordStore) (string, error) {
	for _, d := range []recordstore.Dataset{recordstore.DatasetArticles, recordstore.DatasetAuthors} {
		ok, err := recordstore.HasData(store, d)
		if err != nil {
			return "", err
		}
		if !ok {
			return enum.ModeFull, nil
		}
	}
	return enum.ModeIncremental, nil
}

// 立即执行一次task，之后每隔interval秒执行一次，直到ctx结束
// task返回错误只记录日志，不影响下一次执行
func CreatePeriodicTask(ctx context.Context, logger *log.Logger, interval uint32, task func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				if err := task(ctx); err != nil {
					logger.WithError(err).Error("periodic sync failed")
				}
				if ctx.Err() != nil {
					return
				}
				timer.Reset(time.Second * time.Duration(interval))
			}
		}
	}()

	return done
}
