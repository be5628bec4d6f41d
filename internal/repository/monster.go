package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// MonsterRepository 怪物仓储接口
type MonsterRepository interface {
	BaseRepository
	BatchCreate(ctx context.Context, monsters []*models.Monster) error
	FindByID(ctx context.Context, id uint) (*models.Monster, error)
	LockByID(ctx context.Context, id uint) (*models.Monster, error)
	CountByDungeon(ctx context.Context, dungeonID uint) (int64, error)
	CountAlive(ctx context.Context, dungeonID uint) (int64, error)
	ListAlive(ctx context.Context, dungeonID uint) ([]*models.Monster, error)
	UpdateHealth(ctx context.Context, id uint, health int) error
	// DeleteDead 删除生命值不大于0的怪物
	DeleteDead(ctx context.Context, id uint) (int64, error)
}

// monsterRepo 怪物仓储实现
type monsterRepo struct {
	*BaseRepo
}

// NewMonsterRepository 创建怪物仓储
func NewMonsterRepository(db *gorm.DB) MonsterRepository {
	return &monsterRepo{BaseRepo: NewBaseRepo(db)}
}

// BatchCreate 批量创建怪物
func (r *monsterRepo) BatchCreate(ctx context.Context, monsters []*models.Monster) error {
	if len(monsters) == 0 {
		return nil
	}
	return dbError(r.db.WithContext(ctx).CreateInBatches(monsters, 100).Error, apperrors.ErrDatabaseInsert)
}

// FindByID 根据ID查找怪物
func (r *monsterRepo) FindByID(ctx context.Context, id uint) (*models.Monster, error) {
	var monster models.Monster
	if err := r.db.WithContext(ctx).First(&monster, id).Error; err != nil {
		return nil, findError(err, "怪物")
	}
	return &monster, nil
}

// LockByID 锁定怪物行（悲观锁）
func (r *monsterRepo) LockByID(ctx context.Context, id uint) (*models.Monster, error) {
	var monster models.Monster
	if err := r.forUpdate(ctx).First(&monster, id).Error; err != nil {
		return nil, findError(err, "怪物")
	}
	return &monster, nil
}

// CountByDungeon 地牢内怪物总数
func (r *monsterRepo) CountByDungeon(ctx context.Context, dungeonID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Monster{}).
		Where("dungeon_id = ?", dungeonID).
		Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// CountAlive 地牢内存活怪物数
func (r *monsterRepo) CountAlive(ctx context.Context, dungeonID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Monster{}).
		Where("dungeon_id = ? AND health > 0", dungeonID).
		Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// ListAlive 地牢内存活的怪物
func (r *monsterRepo) ListAlive(ctx context.Context, dungeonID uint) ([]*models.Monster, error) {
	monsters := make([]*models.Monster, 0)
	err := r.db.WithContext(ctx).
		Where("dungeon_id = ? AND health > 0", dungeonID).
		Order("id").
		Find(&monsters).Error
	return monsters, dbError(err, apperrors.ErrDatabaseQuery)
}

// UpdateHealth 写回生命值
func (r *monsterRepo) UpdateHealth(ctx context.Context, id uint, health int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Monster{}).
		Where("id = ?", id).
		Update("health", health).Error
	return dbError(err, apperrors.ErrDatabaseUpdate)
}

// DeleteDead 删除已死亡的怪物
func (r *monsterRepo) DeleteDead(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND health <= 0", id).
		Delete(&models.Monster{})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseDelete)
}
