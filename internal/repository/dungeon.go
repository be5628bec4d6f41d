package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// DungeonRepository 地牢仓储接口
type DungeonRepository interface {
	BaseRepository
	Create(ctx context.Context, dungeon *models.Dungeon) error
	FindByID(ctx context.Context, id uint) (*models.Dungeon, error)
	LockByID(ctx context.Context, id uint) (*models.Dungeon, error)
	LockByName(ctx context.Context, worldID uint, name string) (*models.Dungeon, error)
	CountByWorld(ctx context.Context, worldID uint) (int64, error)
	ListOpen(ctx context.Context, worldID uint) ([]*models.Dungeon, error)
	// Transition 仅当当前状态为from时切换到to
	Transition(ctx context.Context, id uint, from, to string) (int64, error)
}

// dungeonRepo 地牢仓储实现
type dungeonRepo struct {
	*BaseRepo
}

// NewDungeonRepository 创建地牢仓储
func NewDungeonRepository(db *gorm.DB) DungeonRepository {
	return &dungeonRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 创建地牢，重名冲突原样返回由服务层转换
func (r *dungeonRepo) Create(ctx context.Context, dungeon *models.Dungeon) error {
	return r.db.WithContext(ctx).Create(dungeon).Error
}

// FindByID 根据ID查找地牢
func (r *dungeonRepo) FindByID(ctx context.Context, id uint) (*models.Dungeon, error) {
	var dungeon models.Dungeon
	if err := r.db.WithContext(ctx).First(&dungeon, id).Error; err != nil {
		return nil, findError(err, "地牢")
	}
	return &dungeon, nil
}

// LockByID 锁定地牢行（悲观锁）
func (r *dungeonRepo) LockByID(ctx context.Context, id uint) (*models.Dungeon, error) {
	var dungeon models.Dungeon
	if err := r.forUpdate(ctx).First(&dungeon, id).Error; err != nil {
		return nil, findError(err, "地牢")
	}
	return &dungeon, nil
}

// LockByName 按世界和名称锁定地牢
func (r *dungeonRepo) LockByName(ctx context.Context, worldID uint, name string) (*models.Dungeon, error) {
	var dungeon models.Dungeon
	err := r.forUpdate(ctx).
		Where("world_id = ? AND name = ?", worldID, name).
		First(&dungeon).Error
	if err != nil {
		return nil, findError(err, "地牢")
	}
	return &dungeon, nil
}

// CountByWorld 统计世界内的地牢数
func (r *dungeonRepo) CountByWorld(ctx context.Context, worldID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Dungeon{}).
		Where("world_id = ?", worldID).
		Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// ListOpen 世界内开放的地牢（任务列表）
func (r *dungeonRepo) ListOpen(ctx context.Context, worldID uint) ([]*models.Dungeon, error) {
	dungeons := make([]*models.Dungeon, 0)
	err := r.db.WithContext(ctx).
		Where("world_id = ? AND status = ?", worldID, models.DungeonStatusOpen).
		Order("id").
		Find(&dungeons).Error
	return dungeons, dbError(err, apperrors.ErrDatabaseQuery)
}

// Transition 状态迁移
func (r *dungeonRepo) Transition(ctx context.Context, id uint, from, to string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Dungeon{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}
