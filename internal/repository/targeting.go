package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// TargetingRepository 战斗日志仓储接口
type TargetingRepository interface {
	BaseRepository
	Create(ctx context.Context, targeting *models.Targeting) error
	CountByHero(ctx context.Context, heroID uint) (int64, error)
	DeleteByHeroes(ctx context.Context, heroIDs []uint) (int64, error)
	DeleteByMonster(ctx context.Context, monsterID uint) (int64, error)
	HeroBlows(ctx context.Context, heroID uint) ([]*Blow, error)
}

// Blow 英雄对怪物的一次攻击，附带由战斗日志推算的生命值
type Blow struct {
	TargetingID uint   `gorm:"column:targeting_id"`
	MonsterID   uint   `gorm:"column:monster_id"`
	MonsterType string `gorm:"column:monster_type"`
	Damage      int    `gorm:"column:damage"`
	// CurrentHealth 怪物行已删除时为空
	CurrentHealth *int `gorm:"column:current_health"`
	// TotalDamage 所有英雄对该怪物造成的伤害总和
	TotalDamage int `gorm:"column:total_damage"`
	// DamageSoFar 截至本次攻击（含）的累计伤害
	DamageSoFar int `gorm:"column:damage_so_far"`
}

// InitialHealth 当前生命值加回全部伤害即初始生命值
func (b *Blow) InitialHealth() (int, bool) {
	if b.CurrentHealth == nil {
		return 0, false
	}
	return *b.CurrentHealth + b.TotalDamage, true
}

// 按怪物分区累加英雄造成的伤害，再筛出指定英雄的出手
const heroBlowsSQL = `
WITH blows AS (
	SELECT
		t.id,
		t.hero_id,
		t.monster_id,
		t.damage,
		SUM(t.damage) OVER (PARTITION BY t.monster_id) AS total_damage,
		SUM(t.damage) OVER (
			PARTITION BY t.monster_id ORDER BY t.id
			ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
		) AS damage_so_far
	FROM targeting t
	WHERE t.attacker = ?
)
SELECT
	b.id AS targeting_id,
	b.monster_id AS monster_id,
	COALESCE(m.type, '') AS monster_type,
	b.damage AS damage,
	m.health AS current_health,
	b.total_damage AS total_damage,
	b.damage_so_far AS damage_so_far
FROM blows b
LEFT JOIN monster m ON m.id = b.monster_id
WHERE b.hero_id = ?
ORDER BY b.id`

// targetingRepo 战斗日志仓储实现
type targetingRepo struct {
	*BaseRepo
}

// NewTargetingRepository 创建战斗日志仓储
func NewTargetingRepository(db *gorm.DB) TargetingRepository {
	return &targetingRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 追加战斗日志
func (r *targetingRepo) Create(ctx context.Context, targeting *models.Targeting) error {
	return dbError(r.db.WithContext(ctx).Create(targeting).Error, apperrors.ErrDatabaseInsert)
}

// CountByHero 英雄参与的战斗日志数
func (r *targetingRepo) CountByHero(ctx context.Context, heroID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Targeting{}).
		Where("hero_id = ?", heroID).
		Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// DeleteByHeroes 删除英雄的战斗日志
func (r *targetingRepo) DeleteByHeroes(ctx context.Context, heroIDs []uint) (int64, error) {
	if len(heroIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("hero_id IN ?", heroIDs).Delete(&models.Targeting{})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseDelete)
}

// DeleteByMonster 删除怪物的战斗日志
func (r *targetingRepo) DeleteByMonster(ctx context.Context, monsterID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("monster_id = ?", monsterID).Delete(&models.Targeting{})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseDelete)
}

// HeroBlows 英雄的全部出手记录
func (r *targetingRepo) HeroBlows(ctx context.Context, heroID uint) ([]*Blow, error) {
	blows := make([]*Blow, 0)
	err := r.db.WithContext(ctx).Raw(heroBlowsSQL, models.AttackerHero, heroID).Scan(&blows).Error
	return blows, dbError(err, apperrors.ErrDatabaseQuery)
}
