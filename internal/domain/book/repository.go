package book

import (
	"context"
)

// Repository 图书集合仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现（JSON文件、BoltDB、Redis、MySQL...）
// 2. 整个集合作为一个文档读写：没有按ID的查询，查找/过滤都在内存中完成
// 3. ReplaceAll对调用方是原子的：要么完整写入新集合，要么保持旧集合
// 4. 存储中没有数据时GetAll返回空切片，数据损坏时返回错误
type Repository interface {
	// GetAll 读取整个图书集合（按存储顺序）
	GetAll(ctx context.Context) ([]*Book, error)

	// ReplaceAll 用新集合整体替换存储内容
	ReplaceAll(ctx context.Context, books []*Book) error
}
