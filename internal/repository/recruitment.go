package repository

import (
	"context"
	"time"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// RecruitmentRepository 招募仓储接口
type RecruitmentRepository interface {
	BaseRepository
	Create(ctx context.Context, recruitment *models.Recruitment) error
	FindPending(ctx context.Context, heroID, guildID uint) (*models.Recruitment, error)
	ListPending(ctx context.Context, heroID uint) ([]*PendingRequest, error)
	Accept(ctx context.Context, id uint, at time.Time) (int64, error)
	DeleteByHeroes(ctx context.Context, heroIDs []uint) error
}

// PendingRequest 待处理的招募邀请
type PendingRequest struct {
	GuildID   uint   `gorm:"column:guild_id" json:"guild_id"`
	GuildName string `gorm:"column:guild_name" json:"guild_name"`
	Gold      int64  `gorm:"column:gold" json:"gold"`
}

// recruitmentRepo 招募仓储实现
type recruitmentRepo struct {
	*BaseRepo
}

// NewRecruitmentRepository 创建招募仓储
func NewRecruitmentRepository(db *gorm.DB) RecruitmentRepository {
	return &recruitmentRepo{BaseRepo: NewBaseRepo(db)}
}

// Create 创建招募邀请
func (r *recruitmentRepo) Create(ctx context.Context, recruitment *models.Recruitment) error {
	return dbError(r.db.WithContext(ctx).Create(recruitment).Error, apperrors.ErrDatabaseInsert)
}

// FindPending 查找英雄与公会之间待处理的邀请
func (r *recruitmentRepo) FindPending(ctx context.Context, heroID, guildID uint) (*models.Recruitment, error) {
	var recruitment models.Recruitment
	err := r.forUpdate(ctx).
		Where("hero_id = ? AND guild_id = ? AND status = ?", heroID, guildID, models.RecruitmentPending).
		Order("id").
		First(&recruitment).Error
	if err != nil {
		return nil, findError(err, "招募邀请")
	}
	return &recruitment, nil
}

// ListPending 英雄收到的待处理邀请，附带公会名称与金币
func (r *recruitmentRepo) ListPending(ctx context.Context, heroID uint) ([]*PendingRequest, error) {
	requests := make([]*PendingRequest, 0)
	err := r.db.WithContext(ctx).
		Table("recruitment AS r").
		Select("g.id AS guild_id, g.name AS guild_name, g.gold AS gold").
		Joins("JOIN guild g ON g.id = r.guild_id").
		Where("r.hero_id = ? AND r.status = ?", heroID, models.RecruitmentPending).
		Order("r.id").
		Scan(&requests).Error
	return requests, dbError(err, apperrors.ErrDatabaseQuery)
}

// Accept 接受邀请
func (r *recruitmentRepo) Accept(ctx context.Context, id uint, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Recruitment{}).
		Where("id = ? AND status = ?", id, models.RecruitmentPending).
		Updates(map[string]interface{}{
			"status":        models.RecruitmentAccepted,
			"response_date": at,
		})
	return result.RowsAffected, dbError(result.Error, apperrors.ErrDatabaseUpdate)
}

// DeleteByHeroes 删除英雄相关的全部邀请
func (r *recruitmentRepo) DeleteByHeroes(ctx context.Context, heroIDs []uint) error {
	if len(heroIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("hero_id IN ?", heroIDs).Delete(&models.Recruitment{}).Error
	return dbError(err, apperrors.ErrDatabaseDelete)
}
