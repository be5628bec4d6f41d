package service

import (
	"context"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/metrics"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
)

// dungeonService 地牢服务实现
type dungeonService struct {
	repos  *repository.Manager
	events *notifier
	log    *zap.Logger
}

// NewDungeonService 创建地牢服务
func NewDungeonService(repos *repository.Manager, publisher EventPublisher, log *zap.Logger) DungeonService {
	return &dungeonService{repos: repos, events: newNotifier(publisher, log), log: log}
}

// CreateDungeon 创建地牢，受世界的地牢容量限制
func (s *dungeonService) CreateDungeon(ctx context.Context, worldID uint, req *CreateDungeonRequest) (*models.Dungeon, error) {
	if err := validateName("地牢名称", req.DungeonName); err != nil {
		return nil, err
	}
	if err := validateNonNegative(
		field{"dungeon_level", int64(req.DungeonLevel)},
		field{"player_capacity", int64(req.PlayerCapacity)},
		field{"monster_capacity", int64(req.MonsterCapacity)},
		field{"reward", req.Reward},
	); err != nil {
		return nil, err
	}

	dungeon := &models.Dungeon{
		Name:            req.DungeonName,
		WorldID:         worldID,
		Level:           req.DungeonLevel,
		PartyCapacity:   req.PlayerCapacity,
		MonsterCapacity: req.MonsterCapacity,
		GoldReward:      req.Reward,
		Status:          models.DungeonStatusOpen,
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		world, err := tx.World().LockByID(ctx, worldID)
		if err != nil {
			return err
		}

		count, err := tx.Dungeon().CountByWorld(ctx, worldID)
		if err != nil {
			return err
		}
		if count >= int64(world.DungeonCapacity) {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"世界 %s 的地牢数量已达上限 %d", world.Name, world.DungeonCapacity)
		}

		return translateCreateError(tx.Dungeon().Create(ctx, dungeon), "地牢", req.DungeonName)
	})
	if err != nil {
		return nil, err
	}

	s.events.emit(EventDungeonCreated, map[string]interface{}{
		"dungeon_id": dungeon.ID,
		"world_id":   worldID,
		"name":       dungeon.Name,
	})
	return dungeon, nil
}

// CreateMonsters 批量创建怪物，超出地牢怪物容量时整体失败
func (s *dungeonService) CreateMonsters(ctx context.Context, dungeonID uint, specs []MonsterSpec) ([]*models.Monster, error) {
	if len(specs) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "怪物列表不能为空")
	}

	monsters := make([]*models.Monster, 0, len(specs))
	for i, spec := range specs {
		if err := validateName("怪物类型", spec.Type); err != nil {
			return nil, err
		}
		if err := validateNonNegative(
			field{"health", int64(spec.Health)},
			field{"power", int64(spec.Power)},
			field{"level", int64(spec.Level)},
		); err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidParam, "第 %d 个怪物: %s", i+1, apperrors.As(err).Details)
		}
		monsters = append(monsters, &models.Monster{
			Type:      spec.Type,
			Health:    spec.Health,
			Power:     spec.Power,
			Level:     spec.Level,
			DungeonID: dungeonID,
		})
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		dungeon, err := tx.Dungeon().LockByID(ctx, dungeonID)
		if err != nil {
			return err
		}

		existing, err := tx.Monster().CountByDungeon(ctx, dungeonID)
		if err != nil {
			return err
		}
		if existing+int64(len(monsters)) > int64(dungeon.MonsterCapacity) {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"地牢 %s 怪物容量 %d，已有 %d，无法再添加 %d",
				dungeon.Name, dungeon.MonsterCapacity, existing, len(monsters))
		}

		return tx.Monster().BatchCreate(ctx, monsters)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(monsters))
	for _, m := range monsters {
		ids = append(ids, m.ID)
	}
	s.events.emit(EventMonstersCreated, map[string]interface{}{
		"dungeon_id":  dungeonID,
		"monster_ids": ids,
	})
	return monsters, nil
}

// CollectBounty 领取赏金：地牢已关闭且无存活怪物时发放奖励并释放幸存者
func (s *dungeonService) CollectBounty(ctx context.Context, guildID, dungeonID uint) (*BountyResult, error) {
	result := &BountyResult{GuildID: guildID, DungeonID: dungeonID}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		guild, err := tx.Guild().LockByID(ctx, guildID)
		if err != nil {
			return err
		}
		dungeon, err := tx.Dungeon().LockByID(ctx, dungeonID)
		if err != nil {
			return err
		}

		if dungeon.WorldID != guild.WorldID {
			return apperrors.New(apperrors.ErrPrecondition, "地牢与公会不在同一世界")
		}
		switch dungeon.Status {
		case models.DungeonStatusCompleted:
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 的赏金已被领取", dungeon.Name)
		case models.DungeonStatusOpen:
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 尚无队伍进入", dungeon.Name)
		}

		alive, err := tx.Monster().CountAlive(ctx, dungeonID)
		if err != nil {
			return err
		}
		if alive > 0 {
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 仍有 %d 只存活的怪物", dungeon.Name, alive)
		}

		if err := tx.Guild().AddGold(ctx, guild.ID, dungeon.GoldReward); err != nil {
			return err
		}
		completed, err := tx.Dungeon().Transition(ctx, dungeon.ID, models.DungeonStatusClosed, models.DungeonStatusCompleted)
		if err != nil {
			return err
		}
		if completed == 0 {
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 状态已变化", dungeon.Name)
		}
		released, err := tx.Hero().ReleaseSurvivors(ctx, guild.ID, dungeon.ID)
		if err != nil {
			return err
		}

		result.Reward = dungeon.GoldReward
		result.Gold = guild.Gold + dungeon.GoldReward
		result.Released = released
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BountyGold.Add(float64(result.Reward))
	s.log.Info("赏金已发放",
		zap.Uint("guildID", guildID),
		zap.Uint("dungeonID", dungeonID),
		zap.Int64("reward", result.Reward),
		zap.Int64("released", result.Released),
	)
	s.events.emit(EventBountyCollected, map[string]interface{}{
		"guild_id":   guildID,
		"dungeon_id": dungeonID,
		"reward":     result.Reward,
		"gold":       result.Gold,
	})
	return result, nil
}

// AssessDamage 公会在地牢中阵亡的英雄
func (s *dungeonService) AssessDamage(ctx context.Context, guildID, dungeonID uint) ([]*models.Hero, error) {
	if _, err := s.repos.Guild().FindByID(ctx, guildID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Dungeon().FindByID(ctx, dungeonID); err != nil {
		return nil, err
	}
	return s.repos.Hero().ListCasualties(ctx, guildID, dungeonID)
}
