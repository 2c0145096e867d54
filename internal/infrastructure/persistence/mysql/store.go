package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 基于GORM的集合存储（MySQL/SQLite）
type Store struct {
	db      *gorm.DB
	name    string
	dialect string
}

// NewStore 创建集合存储，Close时会关闭底层连接池
func NewStore(db *gorm.DB, collection string) *Store {
	return &Store{db: db, name: collection, dialect: db.Dialector.Name()}
}

// Name 返回方言名（mysql/sqlite）
func (s *Store) Name() string { return s.dialect }

// Load 读取集合，记录不存在时返回nil
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var m CollectionModel
	err := s.db.WithContext(ctx).Where("name = ?", s.name).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(m.Data), nil
}

// Save 整体替换集合
// 学习要点：
// 1. 使用 INSERT ... ON CONFLICT/ON DUPLICATE KEY UPDATE 一条语句完成upsert
// 2. GORM会按方言生成对应的SQL
func (s *Store) Save(ctx context.Context, data []byte) error {
	m := CollectionModel{Name: s.name, Data: string(data)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&m).Error
}

// Close 关闭连接池
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
