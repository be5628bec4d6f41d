package service

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
)

// monsterService 怪物服务实现
type monsterService struct {
	repos  *repository.Manager
	events *notifier
	log    *zap.Logger
}

// NewMonsterService 创建怪物服务
func NewMonsterService(repos *repository.Manager, publisher EventPublisher, log *zap.Logger) MonsterService {
	return &monsterService{repos: repos, events: newNotifier(publisher, log), log: log}
}

// AttackHero 怪物攻击英雄
func (s *monsterService) AttackHero(ctx context.Context, monsterID, heroID uint) (*AttackResult, error) {
	var result *AttackResult
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		var err error
		result, err = strike(ctx, tx, heroID, monsterID, models.AttackerMonster, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventHeroAttacked, map[string]interface{}{
		"monster_id": monsterID,
		"hero_id":    heroID,
		"damage":     result.Damage,
		"health":     result.RemainingHealth,
	})
	return result, nil
}

// Die 删除生命值不大于0的怪物及其战斗日志，存活的怪物不受影响
func (s *monsterService) Die(ctx context.Context, monsterID uint) error {
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		monster, err := tx.Monster().LockByID(ctx, monsterID)
		if err != nil {
			return err
		}
		if monster.IsAlive() {
			return apperrors.Newf(apperrors.ErrPrecondition, "怪物 %d 仍有 %d 点生命值", monster.ID, monster.Health)
		}

		if _, err := tx.Targeting().DeleteByMonster(ctx, monster.ID); err != nil {
			return err
		}
		_, err = tx.Monster().DeleteDead(ctx, monster.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.events.emit(EventMonsterDied, map[string]interface{}{"monster_id": monsterID})
	return nil
}

// FindHeroes 地牢中存活的英雄
func (s *monsterService) FindHeroes(ctx context.Context, dungeonID uint) ([]*models.Hero, error) {
	return s.repos.Hero().ListAliveInDungeon(ctx, dungeonID)
}
