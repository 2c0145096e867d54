package mysql

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// NewDB 创建MySQL连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志级别由database.log_level控制
// 4. 自动迁移collections表
func NewDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := open(mysql.Open(cfg.DSN), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("数据库连接成功", zap.String("dialect", "mysql"))
	return db, nil
}

// NewSQLiteDB 打开SQLite数据库文件，表结构与MySQL一致
// 适合单机部署与测试；path为":memory:"时使用内存数据库
func NewSQLiteDB(path string, cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	// SQLite同一时间只允许一个写者
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	db, err := open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("数据库连接成功", zap.String("dialect", "sqlite"), zap.String("path", path))
	return db, nil
}

func open(dialector gorm.Dialector, cfg config.DatabaseConfig) (*gorm.DB, error) {
	// 1. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 2. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	// 连接最大存活时间（防止数据库主动断开连接）
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// 3. 测试连接
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 4. 自动迁移表结构
	// 注意：只会创建表、添加字段，不会删除或修改现有字段
	if err := db.AutoMigrate(&CollectionModel{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// CollectionModel GORM集合模型
// 设计说明：
// 1. 一行保存一个完整集合，name为主键（如"books"）
// 2. data保存编码后的JSON数组，不做任何结构化拆分
// 3. domain层不依赖这个模型，Store负责转换
type CollectionModel struct {
	Name      string    `gorm:"primaryKey;size:100;comment:集合名"`
	Data      string    `gorm:"type:longtext;not null;comment:JSON数组"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CollectionModel) TableName() string {
	return "collections"
}
