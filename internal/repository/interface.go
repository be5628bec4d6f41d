package repository

import (
	"context"
	"errors"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaseRepository 基础仓储接口
type BaseRepository interface {
	// GetDB 获取数据库实例
	GetDB() *gorm.DB
}

// BaseRepo 基础仓储实现
type BaseRepo struct {
	db *gorm.DB
}

// NewBaseRepo 创建基础仓储
func NewBaseRepo(db *gorm.DB) *BaseRepo {
	return &BaseRepo{db: db}
}

// GetDB 获取数据库实例
func (r *BaseRepo) GetDB() *gorm.DB {
	return r.db
}

// forUpdate 行级悲观锁，SQLite 下由单写者事务保证
func (r *BaseRepo) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// findError 将查询错误转换为应用错误
func findError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.ErrNotFound, what+"不存在")
	}
	return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
}

// dbError 包装写操作错误
func dbError(err error, code apperrors.ErrorCode) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(err, code)
}
