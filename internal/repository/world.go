package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// WorldRepository 世界仓储接口
type WorldRepository interface {
	BaseRepository
	Create(ctx context.Context, world *models.World) error
	FindByID(ctx context.Context, id uint) (*models.World, error)
	LockByID(ctx context.Context, id uint) (*models.World, error)
	List(ctx context.Context) ([]*models.World, error)
}

// worldRepo 世界仓储实现
type worldRepo struct {
	*BaseRepo
}

// NewWorldRepository 创建世界仓储
func NewWorldRepository(db *gorm.DB) WorldRepository {
	return &worldRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 创建世界
func (r *worldRepo) Create(ctx context.Context, world *models.World) error {
	return dbError(r.db.WithContext(ctx).Create(world).Error, apperrors.ErrDatabaseInsert)
}

// FindByID 根据ID查找世界
func (r *worldRepo) FindByID(ctx context.Context, id uint) (*models.World, error) {
	var world models.World
	if err := r.db.WithContext(ctx).First(&world, id).Error; err != nil {
		return nil, findError(err, "世界")
	}
	return &world, nil
}

// LockByID 锁定世界行，用于公会/地牢的容量检查
func (r *worldRepo) LockByID(ctx context.Context, id uint) (*models.World, error) {
	var world models.World
	if err := r.forUpdate(ctx).First(&world, id).Error; err != nil {
		return nil, findError(err, "世界")
	}
	return &world, nil
}

// List 列出全部世界
func (r *worldRepo) List(ctx context.Context) ([]*models.World, error) {
	var worlds []*models.World
	if err := r.db.WithContext(ctx).Order("id").Find(&worlds).Error; err != nil {
		return nil, findError(err, "世界")
	}
	return worlds, nil
}
