package repository

import (
	"context"
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB 打开数据库并迁移表结构
func OpenDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(utils.Log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "无法连接数据库")
	}

	if err := db.AutoMigrate(&model.SavedMovie{}, &model.MovieReview{}); err != nil {
		return nil, errors.Wrap(err, "数据库迁移失败")
	}
	return db, nil
}

// InitDB 初始化 PostgreSQL 连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := OpenDB(postgres.Open(databaseURL))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "数据库 ping 失败")
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB           *gorm.DB
	Catalog      *CatalogRepository
	Relationship RelationshipStore
	User         *UserRepository
}

// NewRepositories 创建仓库集合并导入演示数据，db 为 nil 时使用内存存储
func NewRepositories(ctx context.Context, db *gorm.DB, searchCache *utils.SearchCache[[]model.Movie]) (*Repositories, error) {
	catalog := NewCatalogRepository(SeedMovies(), searchCache)

	var rel RelationshipStore
	if db != nil {
		rel = NewGormRelationshipStore(db, catalog)
	} else {
		rel = NewMemoryRelationshipStore(catalog)
	}
	if err := rel.Load(ctx, SeedSavedMovies(), SeedReviews()); err != nil {
		return nil, errors.Wrap(err, "导入演示数据失败")
	}

	users, links := SeedUsers()
	return &Repositories{
		DB:           db,
		Catalog:      catalog,
		Relationship: rel,
		User:         NewUserRepository(users, links),
	}, nil
}
