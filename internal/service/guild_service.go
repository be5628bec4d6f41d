package service

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
)

// guildService 公会服务实现
type guildService struct {
	repos  *repository.Manager
	events *notifier
	log    *zap.Logger
}

// NewGuildService 创建公会服务
func NewGuildService(repos *repository.Manager, publisher EventPublisher, log *zap.Logger) GuildService {
	return &guildService{repos: repos, events: newNotifier(publisher, log), log: log}
}

// CreateGuild 创建公会，受世界的公会容量限制
func (s *guildService) CreateGuild(ctx context.Context, worldID uint, req *CreateGuildRequest) (*models.Guild, error) {
	if err := validateName("公会名称", req.GuildName); err != nil {
		return nil, err
	}
	if err := validateNonNegative(
		field{"max_capacity", int64(req.MaxCapacity)},
		field{"gold", req.Gold},
	); err != nil {
		return nil, err
	}

	guild := &models.Guild{
		Name:           req.GuildName,
		WorldID:        worldID,
		PlayerCapacity: req.MaxCapacity,
		Gold:           req.Gold,
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		world, err := tx.World().LockByID(ctx, worldID)
		if err != nil {
			return err
		}

		count, err := tx.Guild().CountByWorld(ctx, worldID)
		if err != nil {
			return err
		}
		if count >= int64(world.GuildCapacity) {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"世界 %s 的公会数量已达上限 %d", world.Name, world.GuildCapacity)
		}

		return translateCreateError(tx.Guild().Create(ctx, guild), "公会", req.GuildName)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("公会创建成功", zap.Uint("guildID", guild.ID), zap.String("name", guild.Name))
	s.events.emit(EventGuildCreated, map[string]interface{}{
		"guild_id": guild.ID,
		"world_id": worldID,
		"name":     guild.Name,
	})
	return guild, nil
}

// RecruitHero 向同一世界中未加入公会的英雄发出邀请
func (s *guildService) RecruitHero(ctx context.Context, guildID uint, heroName string) (*models.Recruitment, error) {
	if err := validateName("英雄名称", heroName); err != nil {
		return nil, err
	}

	var (
		recruitment *models.Recruitment
		created     bool
	)
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		guild, err := tx.Guild().FindByID(ctx, guildID)
		if err != nil {
			return err
		}

		hero, err := tx.Hero().FindRecruitable(ctx, guild.WorldID, heroName)
		if err != nil {
			return err
		}

		// 已有待处理邀请时不重复插入
		existing, err := tx.Recruitment().FindPending(ctx, hero.ID, guild.ID)
		if err == nil {
			recruitment = existing
			return nil
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		recruitment = &models.Recruitment{
			HeroID:      hero.ID,
			GuildID:     guild.ID,
			Status:      models.RecruitmentPending,
			RequestDate: time.Now(),
			Notes:       "recruited by " + guild.Name,
		}
		created = true
		return tx.Recruitment().Create(ctx, recruitment)
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.events.emit(EventHeroRecruited, map[string]interface{}{
			"guild_id": guildID,
			"hero_id":  recruitment.HeroID,
		})
	}
	return recruitment, nil
}

// AvailableHeroes 公会中不在地牢里的英雄
func (s *guildService) AvailableHeroes(ctx context.Context, guildID uint) ([]*models.Hero, error) {
	return s.repos.Hero().ListAvailable(ctx, guildID)
}

// RemoveDeadHeroes 移除名单中已阵亡的公会成员，其余名称忽略
func (s *guildService) RemoveDeadHeroes(ctx context.Context, guildID uint, names []string) (*RemoveResult, error) {
	names = uniqueNames(names)
	result := &RemoveResult{Removed: make([]string, 0)}
	if len(names) == 0 {
		return result, nil
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		if _, err := tx.Guild().LockByID(ctx, guildID); err != nil {
			return err
		}

		dead, err := tx.Hero().FindDeadMembers(ctx, guildID, names)
		if err != nil {
			return err
		}
		if len(dead) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(dead))
		for _, h := range dead {
			ids = append(ids, h.ID)
			result.Removed = append(result.Removed, h.Name)
		}

		if _, err := tx.Targeting().DeleteByHeroes(ctx, ids); err != nil {
			return err
		}
		if err := tx.Recruitment().DeleteByHeroes(ctx, ids); err != nil {
			return err
		}
		_, err = tx.Hero().DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Count = len(result.Removed)
	if result.Count > 0 {
		s.events.emit(EventHeroesRemoved, map[string]interface{}{
			"guild_id": guildID,
			"heroes":   result.Removed,
		})
	}
	return result, nil
}

// SendParty 派遣队伍进入开放的地牢，任一英雄不满足条件则整体失败
func (s *guildService) SendParty(ctx context.Context, guildID uint, dungeonName string, names []string) (*PartyResult, error) {
	if err := validateName("地牢名称", dungeonName); err != nil {
		return nil, err
	}
	names = uniqueNames(names)
	if len(names) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "队伍不能为空")
	}

	result := &PartyResult{}
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		guild, err := tx.Guild().LockByID(ctx, guildID)
		if err != nil {
			return err
		}

		dungeon, err := tx.Dungeon().LockByName(ctx, guild.WorldID, dungeonName)
		if err != nil {
			return err
		}
		if dungeon.Status != models.DungeonStatusOpen {
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 当前状态为 %s，不能进入", dungeon.Name, dungeon.Status)
		}
		if len(names) > dungeon.PartyCapacity {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"队伍人数 %d 超过地牢容量 %d", len(names), dungeon.PartyCapacity)
		}

		heroes, err := tx.Hero().FindPartyCandidates(ctx, guild.ID, names)
		if err != nil {
			return err
		}

		found := make(map[string]struct{}, len(heroes))
		ids := make([]uint, 0, len(heroes))
		for _, h := range heroes {
			found[h.Name] = struct{}{}
			ids = append(ids, h.ID)
		}
		if missing := missingNames(names, found); len(missing) > 0 {
			return apperrors.Newf(apperrors.ErrPrecondition,
				"以下英雄无法出征: %s", strings.Join(missing, ", "))
		}
		if len(ids) > dungeon.PartyCapacity {
			return apperrors.Newf(apperrors.ErrCapacityReached,
				"队伍人数 %d 超过地牢容量 %d", len(ids), dungeon.PartyCapacity)
		}

		moved, err := tx.Hero().SendToDungeon(ctx, ids, dungeon.ID)
		if err != nil {
			return err
		}
		if moved != int64(len(ids)) {
			return apperrors.Newf(apperrors.ErrPrecondition, "只有 %d/%d 名英雄可以出征", moved, len(ids))
		}

		closed, err := tx.Dungeon().Transition(ctx, dungeon.ID, models.DungeonStatusOpen, models.DungeonStatusClosed)
		if err != nil {
			return err
		}
		if closed == 0 {
			return apperrors.Newf(apperrors.ErrPrecondition, "地牢 %s 已被其他队伍占用", dungeon.Name)
		}

		result.DungeonID = dungeon.ID
		result.HeroIDs = ids
		result.Status = models.DungeonStatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("队伍已出征",
		zap.Uint("guildID", guildID),
		zap.Uint("dungeonID", result.DungeonID),
		zap.Int("size", len(result.HeroIDs)),
	)
	s.events.emit(EventPartySent, map[string]interface{}{
		"guild_id":   guildID,
		"dungeon_id": result.DungeonID,
		"hero_ids":   result.HeroIDs,
	})
	return result, nil
}

// Leaderboard 公会排行榜
func (s *guildService) Leaderboard(ctx context.Context) ([]*repository.LeaderboardEntry, error) {
	entries, err := s.repos.Guild().Leaderboard(ctx)
	if err != nil {
		s.log.Error("查询排行榜失败", zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = make([]*repository.LeaderboardEntry, 0)
	}
	return entries, nil
}
