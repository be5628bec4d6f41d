package service

import (
	"context"
	"time"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
)

// heroService 英雄服务实现
type heroService struct {
	repos  *repository.Manager
	cfg    *Config
	events *notifier
	log    *zap.Logger
}

// NewHeroService 创建英雄服务
func NewHeroService(repos *repository.Manager, cfg *Config, publisher EventPublisher, log *zap.Logger) HeroService {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &heroService{repos: repos, cfg: cfg, events: newNotifier(publisher, log), log: log}
}

// AttackMonster 英雄攻击怪物
func (s *heroService) AttackMonster(ctx context.Context, heroID, monsterID uint) (*AttackResult, error) {
	var result *AttackResult
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		var err error
		result, err = strike(ctx, tx, heroID, monsterID, models.AttackerHero, s.cfg.XPPerMonsterLevel)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventMonsterAttacked, map[string]interface{}{
		"hero_id":    heroID,
		"monster_id": monsterID,
		"damage":     result.Damage,
		"health":     result.RemainingHealth,
		"killed":     result.Killed,
	})
	return result, nil
}

// RunAway 没有未结束的战斗时离开地牢
func (s *heroService) RunAway(ctx context.Context, heroID uint) (*models.Hero, error) {
	var hero *models.Hero
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		var err error
		hero, err = tx.Hero().LockByID(ctx, heroID)
		if err != nil {
			return err
		}

		engaged, err := tx.Targeting().CountByHero(ctx, heroID)
		if err != nil {
			return err
		}
		if engaged > 0 {
			return apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 正在战斗中，无法逃跑", hero.Name)
		}

		if !hero.InDungeon() {
			return apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 不在地牢中", hero.Name)
		}

		if _, err := tx.Hero().LeaveDungeon(ctx, heroID); err != nil {
			return err
		}
		hero.DungeonID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventHeroFled, map[string]interface{}{"hero_id": heroID})
	return hero, nil
}

// Die 生命值不大于0时标记死亡并清除其战斗日志
func (s *heroService) Die(ctx context.Context, heroID uint) (*models.Hero, error) {
	var hero *models.Hero
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		var err error
		hero, err = tx.Hero().LockByID(ctx, heroID)
		if err != nil {
			return err
		}
		if hero.IsAlive() {
			return apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 仍有 %d 点生命值", hero.Name, hero.Health)
		}

		if _, err := tx.Hero().MarkDead(ctx, heroID); err != nil {
			return err
		}
		if _, err := tx.Targeting().DeleteByHeroes(ctx, []uint{heroID}); err != nil {
			return err
		}
		hero.Status = models.HeroStatusDead
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventHeroDied, map[string]interface{}{"hero_id": heroID})
	return hero, nil
}

// FindMonsters 地牢中存活的怪物
func (s *heroService) FindMonsters(ctx context.Context, dungeonID uint) ([]*models.Monster, error) {
	return s.repos.Monster().ListAlive(ctx, dungeonID)
}

// MonsterInteractions 由战斗日志重建英雄的交战历史
func (s *heroService) MonsterInteractions(ctx context.Context, heroID uint) (*InteractionReport, error) {
	if _, err := s.repos.Hero().FindByID(ctx, heroID); err != nil {
		return nil, err
	}

	blows, err := s.repos.Targeting().HeroBlows(ctx, heroID)
	if err != nil {
		s.log.Error("查询战斗日志失败", zap.Error(err), zap.Uint("heroID", heroID))
		return nil, err
	}

	report := &InteractionReport{
		HeroID:  heroID,
		Battles: make([]*BattleRecord, 0, len(blows)),
	}
	engaged := make(map[uint]struct{})
	defeated := make(map[uint]struct{})

	for _, b := range blows {
		record := &BattleRecord{
			TargetingID: b.TargetingID,
			MonsterID:   b.MonsterID,
			MonsterType: b.MonsterType,
			Damage:      b.Damage,
		}
		if initial, ok := b.InitialHealth(); ok {
			after := initial - b.DamageSoFar
			record.InitialHealth = &initial
			record.HealthAfter = &after
			record.Defeated = *b.CurrentHealth <= 0
		} else {
			// 怪物行已删除视为已被击败
			record.Defeated = true
		}

		report.Battles = append(report.Battles, record)
		report.Summary.TotalDamage += b.Damage
		engaged[b.MonsterID] = struct{}{}
		if record.Defeated {
			defeated[b.MonsterID] = struct{}{}
		}
	}

	report.Summary.TotalBattles = len(engaged)
	report.Summary.MonstersDefeated = len(defeated)
	return report, nil
}

// CheckXP 查询经验与等级
func (s *heroService) CheckXP(ctx context.Context, heroID uint) (*XPStatus, error) {
	hero, err := s.repos.Hero().FindByID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	return &XPStatus{XP: hero.XP, Level: hero.Level}, nil
}

// RaiseLevel 经验足够时升一级
func (s *heroService) RaiseLevel(ctx context.Context, heroID uint) (*XPStatus, error) {
	var status *XPStatus
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		hero, err := tx.Hero().LockByID(ctx, heroID)
		if err != nil {
			return err
		}
		if hero.XP < s.cfg.LevelUpXP {
			return apperrors.Newf(apperrors.ErrPrecondition,
				"经验不足: 当前 %d，升级需要 %d", hero.XP, s.cfg.LevelUpXP)
		}

		if _, err := tx.Hero().LevelUp(ctx, heroID, s.cfg.LevelUpXP); err != nil {
			return err
		}
		status = &XPStatus{XP: hero.XP - s.cfg.LevelUpXP, Level: hero.Level + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventHeroLeveled, map[string]interface{}{"hero_id": heroID, "level": status.Level})
	return status, nil
}

// CheckHealth 查询生命值与状态
func (s *heroService) CheckHealth(ctx context.Context, heroID uint) (*HealthStatus, error) {
	hero, err := s.repos.Hero().FindByID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	return &HealthStatus{Health: hero.Health, Status: hero.Status}, nil
}

// ViewPendingRequests 英雄收到的待处理邀请
func (s *heroService) ViewPendingRequests(ctx context.Context, heroID uint) ([]*repository.PendingRequest, error) {
	if _, err := s.repos.Hero().FindByID(ctx, heroID); err != nil {
		return nil, err
	}
	return s.repos.Recruitment().ListPending(ctx, heroID)
}

// AcceptRequest 接受公会邀请，公会已满或英雄已有公会时失败
func (s *heroService) AcceptRequest(ctx context.Context, heroID uint, guildName string) (*models.Recruitment, error) {
	if err := validateName("公会名称", guildName); err != nil {
		return nil, err
	}

	var recruitment *models.Recruitment
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		hero, err := tx.Hero().LockByID(ctx, heroID)
		if err != nil {
			return err
		}
		if hero.InGuild() {
			return apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 已加入公会", hero.Name)
		}

		guild, err := tx.Guild().LockByName(ctx, hero.WorldID, guildName)
		if err != nil {
			return err
		}

		recruitment, err = tx.Recruitment().FindPending(ctx, hero.ID, guild.ID)
		if err != nil {
			return err
		}

		members, err := tx.Hero().CountByGuild(ctx, guild.ID)
		if err != nil {
			return err
		}
		if members >= int64(guild.PlayerCapacity) {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"公会 %s 成员已满 (%d/%d)", guild.Name, members, guild.PlayerCapacity)
		}

		joined, err := tx.Hero().JoinGuild(ctx, hero.ID, guild.ID)
		if err != nil {
			return err
		}
		if joined == 0 {
			return apperrors.Newf(apperrors.ErrPrecondition, "英雄 %s 已加入公会", hero.Name)
		}

		now := time.Now()
		if _, err := tx.Recruitment().Accept(ctx, recruitment.ID, now); err != nil {
			return err
		}
		recruitment.Status = models.RecruitmentAccepted
		recruitment.ResponseDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventRecruitmentAccepted, map[string]interface{}{
		"hero_id":  heroID,
		"guild_id": recruitment.GuildID,
	})
	return recruitment, nil
}
