package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// HeroRepository 英雄仓储接口
type HeroRepository interface {
	BaseRepository
	Create(ctx context.Context, hero *models.Hero) error
	FindByID(ctx context.Context, id uint) (*models.Hero, error)
	LockByID(ctx context.Context, id uint) (*models.Hero, error)
	FindRecruitable(ctx context.Context, worldID uint, name string) (*models.Hero, error)

	// 列表查询
	ListUnaffiliated(ctx context.Context, worldID uint) ([]*models.Hero, error)
	ListAvailable(ctx context.Context, guildID uint) ([]*models.Hero, error)
	ListCasualties(ctx context.Context, guildID, dungeonID uint) ([]*models.Hero, error)
	ListAliveInDungeon(ctx context.Context, dungeonID uint) ([]*models.Hero, error)
	FindPartyCandidates(ctx context.Context, guildID uint, names []string) ([]*models.Hero, error)
	FindDeadMembers(ctx context.Context, guildID uint, names []string) ([]*models.Hero, error)
	CountByGuild(ctx context.Context, guildID uint) (int64, error)

	// 状态变更，返回受影响行数
	IncrementAge(ctx context.Context, id uint) (int64, error)
	JoinGuild(ctx context.Context, id, guildID uint) (int64, error)
	SendToDungeon(ctx context.Context, ids []uint, dungeonID uint) (int64, error)
	LeaveDungeon(ctx context.Context, id uint) (int64, error)
	ReleaseSurvivors(ctx context.Context, guildID, dungeonID uint) (int64, error)
	UpdateHealth(ctx context.Context, id uint, health int) error
	AddXP(ctx context.Context, id uint, amount int) error
	LevelUp(ctx context.Context, id uint, cost int) (int64, error)
	MarkDead(ctx context.Context, id uint) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// heroRepo 英雄仓储实现
type heroRepo struct {
	*BaseRepo
}

// NewHeroRepository 创建英雄仓储
func NewHeroRepository(db *gorm.DB) HeroRepository {
	return &heroRepo{BaseRepo: NewBaseRepo(db)}
}

func (r *heroRepo) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Hero{})
}

// Create 创建英雄
func (r *heroRepo) Create(ctx context.Context, hero *models.Hero) error {
	return dbError(r.db.WithContext(ctx).Create(hero).Error, apperrors.ErrDatabaseInsert)
}

// FindByID 根据ID查找英雄
func (r *heroRepo) FindByID(ctx context.Context, id uint) (*models.Hero, error) {
	var hero models.Hero
	if err := r.db.WithContext(ctx).First(&hero, id).Error; err != nil {
		return nil, findError(err, "英雄")
	}
	return &hero, nil
}

// LockByID 锁定英雄行（悲观锁）
func (r *heroRepo) LockByID(ctx context.Context, id uint) (*models.Hero, error) {
	var hero models.Hero
	if err := r.forUpdate(ctx).First(&hero, id).Error; err != nil {
		return nil, findError(err, "英雄")
	}
	return &hero, nil
}

// FindRecruitable 查找同一世界内未加入公会的同名英雄
func (r *heroRepo) FindRecruitable(ctx context.Context, worldID uint, name string) (*models.Hero, error) {
	var hero models.Hero
	err := r.db.WithContext(ctx).
		Where("world_id = ? AND name = ? AND guild_id IS NULL", worldID, name).
		Order("id").
		First(&hero).Error
	if err != nil {
		return nil, findError(err, "可招募的英雄")
	}
	return &hero, nil
}

// ListUnaffiliated 世界内未加入公会的英雄
func (r *heroRepo) ListUnaffiliated(ctx context.Context, worldID uint) ([]*models.Hero, error) {
	return r.list(ctx, "world_id = ? AND guild_id IS NULL", worldID)
}

// ListAvailable 公会内不在地牢中的英雄
func (r *heroRepo) ListAvailable(ctx context.Context, guildID uint) ([]*models.Hero, error) {
	return r.list(ctx, "guild_id = ? AND dungeon_id IS NULL", guildID)
}

// ListCasualties 公会在地牢中阵亡的英雄
func (r *heroRepo) ListCasualties(ctx context.Context, guildID, dungeonID uint) ([]*models.Hero, error) {
	return r.list(ctx, "guild_id = ? AND dungeon_id = ? AND health <= 0", guildID, dungeonID)
}

// ListAliveInDungeon 地牢中存活的英雄
func (r *heroRepo) ListAliveInDungeon(ctx context.Context, dungeonID uint) ([]*models.Hero, error) {
	return r.list(ctx, "dungeon_id = ? AND health > 0", dungeonID)
}

// FindPartyCandidates 可出征的公会成员：存活且不在任何地牢中
func (r *heroRepo) FindPartyCandidates(ctx context.Context, guildID uint, names []string) ([]*models.Hero, error) {
	var heroes []*models.Hero
	err := r.forUpdate(ctx).
		Where("guild_id = ? AND name IN ? AND dungeon_id IS NULL AND health > 0 AND status = ?",
			guildID, names, models.HeroStatusAlive).
		Order("id").
		Find(&heroes).Error
	return heroes, dbError(err, apperrors.ErrDatabaseQuery)
}

// FindDeadMembers 公会内生命值不大于0的指定英雄
func (r *heroRepo) FindDeadMembers(ctx context.Context, guildID uint, names []string) ([]*models.Hero, error) {
	var heroes []*models.Hero
	err := r.forUpdate(ctx).
		Where("guild_id = ? AND name IN ? AND health <= 0", guildID, names).
		Order("id").
		Find(&heroes).Error
	return heroes, dbError(err, apperrors.ErrDatabaseQuery)
}

// CountByGuild 公会成员数
func (r *heroRepo) CountByGuild(ctx context.Context, guildID uint) (int64, error) {
	var count int64
	err := r.model(ctx).Where("guild_id = ?", guildID).Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// IncrementAge 年龄加一
func (r *heroRepo) IncrementAge(ctx context.Context, id uint) (int64, error) {
	result := r.model(ctx).Where("id = ?", id).Update("age", gorm.Expr("age + 1"))
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// JoinGuild 加入公会，仅对未加入公会的英雄生效
func (r *heroRepo) JoinGuild(ctx context.Context, id, guildID uint) (int64, error) {
	result := r.model(ctx).
		Where("id = ? AND guild_id IS NULL", id).
		Update("guild_id", guildID)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// SendToDungeon 批量进入地牢，仅对不在地牢中的英雄生效
func (r *heroRepo) SendToDungeon(ctx context.Context, ids []uint, dungeonID uint) (int64, error) {
	result := r.model(ctx).
		Where("id IN ? AND dungeon_id IS NULL", ids).
		Update("dungeon_id", dungeonID)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// LeaveDungeon 离开地牢
func (r *heroRepo) LeaveDungeon(ctx context.Context, id uint) (int64, error) {
	result := r.model(ctx).
		Where("id = ? AND dungeon_id IS NOT NULL", id).
		Update("dungeon_id", nil)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// ReleaseSurvivors 公会在地牢中的幸存者返回公会
func (r *heroRepo) ReleaseSurvivors(ctx context.Context, guildID, dungeonID uint) (int64, error) {
	result := r.model(ctx).
		Where("guild_id = ? AND dungeon_id = ? AND health > 0", guildID, dungeonID).
		Update("dungeon_id", nil)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// UpdateHealth 写回生命值
func (r *heroRepo) UpdateHealth(ctx context.Context, id uint, health int) error {
	return dbError(r.model(ctx).Where("id = ?", id).Update("health", health).Error, apperrors.ErrDatabaseUpdate)
}

// AddXP 增加经验
func (r *heroRepo) AddXP(ctx context.Context, id uint, amount int) error {
	err := r.model(ctx).Where("id = ?", id).Update("xp", gorm.Expr("xp + ?", amount)).Error
	return dbError(err, apperrors.ErrDatabaseUpdate)
}

// LevelUp 消耗经验升一级，经验不足时不更新
func (r *heroRepo) LevelUp(ctx context.Context, id uint, cost int) (int64, error) {
	result := r.model(ctx).
		Where("id = ? AND xp >= ?", id, cost).
		Updates(map[string]interface{}{
			"level": gorm.Expr("level + 1"),
			"xp":    gorm.Expr("xp - ?", cost),
		})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// MarkDead 生命值不大于0时标记死亡
func (r *heroRepo) MarkDead(ctx context.Context, id uint) (int64, error) {
	result := r.model(ctx).
		Where("id = ? AND health <= 0", id).
		Update("status", models.HeroStatusDead)
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// DeleteByIDs 批量删除英雄
func (r *heroRepo) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Hero{})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseDelete)
}

func (r *heroRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Hero, error) {
	heroes := make([]*models.Hero, 0)
	err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&heroes).Error
	return heroes, dbError(err, apperrors.ErrDatabaseQuery)
}
