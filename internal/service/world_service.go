package service

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
)

// worldService 世界服务实现
type worldService struct {
	repos  *repository.Manager
	events *notifier
	log    *zap.Logger
}

// NewWorldService 创建世界服务
func NewWorldService(repos *repository.Manager, publisher EventPublisher, log *zap.Logger) WorldService {
	return &worldService{repos: repos, events: newNotifier(publisher, log), log: log}
}

// CreateHero 在世界中创建一个未加入公会的英雄
func (s *worldService) CreateHero(ctx context.Context, worldID uint, req *CreateHeroRequest) (*models.Hero, error) {
	if err := validateName("英雄名称", req.HeroName); err != nil {
		return nil, err
	}
	if err := validateNonNegative(
		field{"level", int64(req.Level)},
		field{"age", int64(req.Age)},
		field{"power", int64(req.Power)},
		field{"health", int64(req.Health)},
		field{"xp", int64(req.XP)},
	); err != nil {
		return nil, err
	}

	if _, err := s.repos.World().FindByID(ctx, worldID); err != nil {
		return nil, err
	}

	hero := &models.Hero{
		Name:    req.HeroName,
		Level:   req.Level,
		Age:     req.Age,
		Power:   req.Power,
		Health:  req.Health,
		XP:      req.XP,
		WorldID: worldID,
		Status:  models.HeroStatusAlive,
	}
	if err := s.repos.Hero().Create(ctx, hero); err != nil {
		s.log.Error("创建英雄失败", zap.Error(err), zap.Uint("worldID", worldID))
		return nil, err
	}

	s.events.emit(EventHeroCreated, map[string]interface{}{
		"hero_id":  hero.ID,
		"world_id": worldID,
		"name":     hero.Name,
	})
	return hero, nil
}

// ViewHeroes 世界中未加入公会的英雄
func (s *worldService) ViewHeroes(ctx context.Context, worldID uint) ([]*models.Hero, error) {
	return s.repos.Hero().ListUnaffiliated(ctx, worldID)
}

// GetQuests 世界中开放的地牢
func (s *worldService) GetQuests(ctx context.Context, worldID uint) ([]*models.Dungeon, error) {
	return s.repos.Dungeon().ListOpen(ctx, worldID)
}

// AgeHero 英雄年龄加一
func (s *worldService) AgeHero(ctx context.Context, heroID uint) (*models.Hero, error) {
	rows, err := s.repos.Hero().IncrementAge(ctx, heroID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, "英雄不存在")
	}

	hero, err := s.repos.Hero().FindByID(ctx, heroID)
	if err != nil {
		return nil, err
	}

	s.events.emit(EventHeroAged, map[string]interface{}{"hero_id": heroID, "age": hero.Age})
	return hero, nil
}
