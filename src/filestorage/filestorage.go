package filestorage

import (
	"github.com/andrewyi/blogsync/src/recordstore"
)

// FileStorage 每个数据集对应location下的一个csv文件，首行为列名
type FileStorage interface {
	recordstore.RecordStore
	// 数据集对应的文件路径
	Path(recordstore.Dataset) string
}
