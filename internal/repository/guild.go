package repository

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// GuildRepository 公会仓储接口
type GuildRepository interface {
	BaseRepository
	Create(ctx context.Context, guild *models.Guild) error
	FindByID(ctx context.Context, id uint) (*models.Guild, error)
	LockByID(ctx context.Context, id uint) (*models.Guild, error)
	LockByName(ctx context.Context, worldID uint, name string) (*models.Guild, error)
	CountByWorld(ctx context.Context, worldID uint) (int64, error)
	AddGold(ctx context.Context, id uint, amount int64) error
	Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error)
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank      int     `gorm:"column:guild_rank" json:"rank"`
	GuildID   uint    `gorm:"column:guild_id" json:"guild_id"`
	GuildName string  `gorm:"column:guild_name" json:"guild_name"`
	Gold      int64   `gorm:"column:gold" json:"gold"`
	AvgPower  float64 `gorm:"column:avg_power" json:"avg_power"`
	HeroCount int64   `gorm:"column:hero_count" json:"hero_count"`
}

// 金币、平均战力、人数依次降序，并列名次相同
const leaderboardSQL = `
SELECT
	g.id AS guild_id,
	g.name AS guild_name,
	g.gold AS gold,
	COALESCE(AVG(h.power), 0) AS avg_power,
	COUNT(h.id) AS hero_count,
	RANK() OVER (
		ORDER BY g.gold DESC, COALESCE(AVG(h.power), 0) DESC, COUNT(h.id) DESC
	) AS guild_rank
FROM guild g
LEFT JOIN hero h ON h.guild_id = g.id
GROUP BY g.id, g.name, g.gold
ORDER BY guild_rank, g.id`

// guildRepo 公会仓储实现
type guildRepo struct {
	*BaseRepo
}

// NewGuildRepository 创建公会仓储
func NewGuildRepository(db *gorm.DB) GuildRepository {
	return &guildRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 创建公会，重名冲突原样返回由服务层转换
func (r *guildRepo) Create(ctx context.Context, guild *models.Guild) error {
	return r.db.WithContext(ctx).Create(guild).Error
}

// FindByID 根据ID查找公会
func (r *guildRepo) FindByID(ctx context.Context, id uint) (*models.Guild, error) {
	var guild models.Guild
	if err := r.db.WithContext(ctx).First(&guild, id).Error; err != nil {
		return nil, findError(err, "公会")
	}
	return &guild, nil
}

// LockByID 锁定公会行（悲观锁）
func (r *guildRepo) LockByID(ctx context.Context, id uint) (*models.Guild, error) {
	var guild models.Guild
	if err := r.forUpdate(ctx).First(&guild, id).Error; err != nil {
		return nil, findError(err, "公会")
	}
	return &guild, nil
}

// LockByName 按世界和名称锁定公会
func (r *guildRepo) LockByName(ctx context.Context, worldID uint, name string) (*models.Guild, error) {
	var guild models.Guild
	err := r.forUpdate(ctx).
		Where("world_id = ? AND name = ?", worldID, name).
		First(&guild).Error
	if err != nil {
		return nil, findError(err, "公会")
	}
	return &guild, nil
}

// CountByWorld 统计世界内的公会数
func (r *guildRepo) CountByWorld(ctx context.Context, worldID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Guild{}).
		Where("world_id = ?", worldID).
		Count(&count).Error
	return count, dbError(err, apperrors.ErrDatabaseQuery)
}

// AddGold 增加公会金币
func (r *guildRepo) AddGold(ctx context.Context, id uint, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Guild{}).
		Where("id = ?", id).
		Update("gold", gorm.Expr("gold + ?", amount))
	if result.Error != nil {
		return dbError(result.Error, apperrors.ErrDatabaseUpdate)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "公会不存在")
	}
	return nil
}

// Leaderboard 公会排行榜
func (r *guildRepo) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	var entries []*LeaderboardEntry
	if err := r.db.WithContext(ctx).Raw(leaderboardSQL).Scan(&entries).Error; err != nil {
		return nil, dbError(err, apperrors.ErrDatabaseQuery)
	}
	return entries, nil
}
