package service

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// strike 在事务内结算一次攻击
// 无论谁出手，都先锁英雄再锁怪物，保证加锁顺序一致
func strike(ctx context.Context, tx *repository.Transaction, heroID, monsterID uint, attacker string, xpPerLevel int) (*AttackResult, error) {
	hero, err := tx.Hero().LockByID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	monster, err := tx.Monster().LockByID(ctx, monsterID)
	if err != nil {
		return nil, err
	}

	if !hero.IsAlive() || hero.Status == models.HeroStatusDead {
		return nil, apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 已阵亡", hero.Name)
	}
	if !monster.IsAlive() {
		return nil, apperrors.Newf(apperrors.ErrPrecondition, "怪物 %d 已被击败", monster.ID)
	}

	result := &AttackResult{
		HeroID:    hero.ID,
		MonsterID: monster.ID,
		Attacker:  attacker,
	}

	switch attacker {
	case models.AttackerHero:
		result.Damage = hero.Power
		result.RemainingHealth = monster.Health - hero.Power
		if err := tx.Monster().UpdateHealth(ctx, monster.ID, result.RemainingHealth); err != nil {
			return nil, err
		}
	case models.AttackerMonster:
		result.Damage = monster.Power
		result.RemainingHealth = hero.Health - monster.Power
		if err := tx.Hero().UpdateHealth(ctx, hero.ID, result.RemainingHealth); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidParam, "未知的出手方: %s", attacker)
	}
	result.Killed = result.RemainingHealth <= 0

	err = tx.Targeting().Create(ctx, &models.Targeting{
		HeroID:    hero.ID,
		MonsterID: monster.ID,
		Attacker:  attacker,
		Damage:    result.Damage,
	})
	if err != nil {
		return nil, err
	}

	// 英雄击杀怪物获得经验
	if attacker == models.AttackerHero && result.Killed && xpPerLevel > 0 {
		result.XPAwarded = monster.Level * xpPerLevel
		if result.XPAwarded > 0 {
			if err := tx.Hero().AddXP(ctx, hero.ID, result.XPAwarded); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}
