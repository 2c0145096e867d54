package book

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxCommentIDAttempts 评论ID冲突时的最大重试次数
const maxCommentIDAttempts = 5

// Service 图书领域服务接口
// 设计说明：
// 1. 每个操作都读取整个集合，修改后整体写回（Repository只提供GetAll/ReplaceAll）
// 2. 写操作在进程内串行执行，同一进程的并发写不会互相覆盖
// 3. 多进程共享同一存储时仍可能丢失更新（不在本服务的保证范围内）
type Service interface {
	// ListBooks 图书列表
	// category非空时只返回category字段等于该值的图书（精确匹配，区分大小写）
	ListBooks(ctx context.Context, category string) ([]*Book, error)

	// GetBook 根据ASIN获取图书，不存在返回ErrBookNotFound
	GetBook(ctx context.Context, asin string) (*Book, error)

	// CreateBook 创建图书
	// 业务规则：
	// - asin必须是非空字符串
	// - asin不能与已有图书重复
	// - 其余字段原样保存
	CreateBook(ctx context.Context, b *Book) (*Book, error)

	// UpdateBook 浅合并更新，返回更新后的整个集合
	UpdateBook(ctx context.Context, asin string, patch map[string]json.RawMessage) ([]*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, asin string) error

	// ListComments 评论列表，图书不存在返回ErrBookNotFound
	ListComments(ctx context.Context, asin string) ([]*Comment, error)

	// AddComment 追加评论，服务端生成commentID与createdAt，返回更新后的评论列表
	AddComment(ctx context.Context, asin string, c *Comment) ([]*Comment, error)

	// DeleteComment 删除评论，返回是否有评论被删除
	// 图书不存在返回ErrBookNotFound；评论ID不存在时返回false且不报错（幂等）
	DeleteComment(ctx context.Context, asin, commentID string) (bool, error)
}

// service 领域服务实现
type service struct {
	repo  Repository
	mu    sync.Mutex // 串行化"读取-修改-写回"
	now   func() time.Time
	newID func() string
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return newService(repo, time.Now, uuid.NewString)
}

func newService(repo Repository, now func() time.Time, newID func() string) *service {
	return &service{repo: repo, now: now, newID: newID}
}

// ListBooks 图书列表
func (s *service) ListBooks(ctx context.Context, category string) ([]*Book, error) {
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return books, nil
	}

	filtered := make([]*Book, 0, len(books))
	for _, b := range books {
		if b.InCategory(category) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// GetBook 根据ASIN获取图书
func (s *service) GetBook(ctx context.Context, asin string) (*Book, error) {
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	_, b := find(books, asin)
	if b == nil {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, b *Book) (*Book, error) {
	// 1. asin校验
	if b == nil || b.ASIN == "" {
		return nil, ErrASINRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 2. 加载集合并检查重复
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if i, _ := find(books, b.ASIN); i >= 0 {
		return nil, ErrASINDuplicate
	}

	// 3. 追加并持久化
	if err := s.repo.ReplaceAll(ctx, append(books, b)); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook 浅合并更新
func (s *service) UpdateBook(ctx context.Context, asin string, patch map[string]json.RawMessage) ([]*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 加载集合并定位图书
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i, b := find(books, asin)
	if b == nil {
		return nil, ErrBookNotFound
	}

	// 2. 合并（asin不变，其位置不变）
	if err := b.Merge(patch); err != nil {
		return nil, err
	}
	books[i] = b

	// 3. 持久化
	if err := s.repo.ReplaceAll(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, asin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	i, _ := find(books, asin)
	if i < 0 {
		return ErrBookNotFound
	}

	remaining := make([]*Book, 0, len(books)-1)
	remaining = append(remaining, books[:i]...)
	remaining = append(remaining, books[i+1:]...)
	return s.repo.ReplaceAll(ctx, remaining)
}

// ListComments 评论列表
func (s *service) ListComments(ctx context.Context, asin string) ([]*Comment, error) {
	b, err := s.GetBook(ctx, asin)
	if err != nil {
		return nil, err
	}
	return b.CommentList(), nil
}

// AddComment 追加评论
func (s *service) AddComment(ctx context.Context, asin string, c *Comment) ([]*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 定位图书
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	_, b := find(books, asin)
	if b == nil {
		return nil, ErrBookNotFound
	}

	// 2. 生成图书内唯一的评论ID，服务端字段覆盖客户端传入值
	id, err := s.uniqueCommentID(b)
	if err != nil {
		return nil, err
	}
	comment := *c
	comment.ID = id
	comment.CreatedAt = s.now().UTC()
	b.AppendComment(&comment)

	// 3. 持久化
	if err := s.repo.ReplaceAll(ctx, books); err != nil {
		return nil, err
	}
	return b.CommentList(), nil
}

// DeleteComment 删除评论
func (s *service) DeleteComment(ctx context.Context, asin, commentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	_, b := find(books, asin)
	if b == nil {
		return false, ErrBookNotFound
	}

	// 评论不存在时不写存储
	if b.RemoveComment(commentID) == 0 {
		return false, nil
	}
	if err := s.repo.ReplaceAll(ctx, books); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) uniqueCommentID(b *Book) (string, error) {
	for i := 0; i < maxCommentIDAttempts; i++ {
		id := s.newID()
		if id != "" && !b.HasComment(id) {
			return id, nil
		}
	}
	return "", ErrCommentIDExhausted
}

// find 返回第一本ASIN匹配的图书及其下标，找不到返回-1，nil
func find(books []*Book, asin string) (int, *Book) {
	if asin == "" {
		return -1, nil
	}
	for i, b := range books {
		if b.ASIN == asin {
			return i, b
		}
	}
	return -1, nil
}
