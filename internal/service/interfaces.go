package service

import (
	"context"

	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// WorldService 世界服务接口
type WorldService interface {
	CreateHero(ctx context.Context, worldID uint, req *CreateHeroRequest) (*models.Hero, error)
	ViewHeroes(ctx context.Context, worldID uint) ([]*models.Hero, error)
	GetQuests(ctx context.Context, worldID uint) ([]*models.Dungeon, error)
	AgeHero(ctx context.Context, heroID uint) (*models.Hero, error)
}

// GuildService 公会服务接口
type GuildService interface {
	CreateGuild(ctx context.Context, worldID uint, req *CreateGuildRequest) (*models.Guild, error)
	RecruitHero(ctx context.Context, guildID uint, heroName string) (*models.Recruitment, error)
	AvailableHeroes(ctx context.Context, guildID uint) ([]*models.Hero, error)
	RemoveDeadHeroes(ctx context.Context, guildID uint, names []string) (*RemoveResult, error)
	SendParty(ctx context.Context, guildID uint, dungeonName string, names []string) (*PartyResult, error)
	Leaderboard(ctx context.Context) ([]*repository.LeaderboardEntry, error)
}

// DungeonService 地牢服务接口
type DungeonService interface {
	CreateDungeon(ctx context.Context, worldID uint, req *CreateDungeonRequest) (*models.Dungeon, error)
	CreateMonsters(ctx context.Context, dungeonID uint, specs []MonsterSpec) ([]*models.Monster, error)
	CollectBounty(ctx context.Context, guildID, dungeonID uint) (*BountyResult, error)
	AssessDamage(ctx context.Context, guildID, dungeonID uint) ([]*models.Hero, error)
}

// HeroService 英雄服务接口
type HeroService interface {
	// 战斗
	AttackMonster(ctx context.Context, heroID, monsterID uint) (*AttackResult, error)
	RunAway(ctx context.Context, heroID uint) (*models.Hero, error)
	Die(ctx context.Context, heroID uint) (*models.Hero, error)
	FindMonsters(ctx context.Context, dungeonID uint) ([]*models.Monster, error)
	MonsterInteractions(ctx context.Context, heroID uint) (*InteractionReport, error)

	// 成长
	CheckXP(ctx context.Context, heroID uint) (*XPStatus, error)
	RaiseLevel(ctx context.Context, heroID uint) (*XPStatus, error)
	CheckHealth(ctx context.Context, heroID uint) (*HealthStatus, error)

	// 招募
	ViewPendingRequests(ctx context.Context, heroID uint) ([]*repository.PendingRequest, error)
	AcceptRequest(ctx context.Context, heroID uint, guildName string) (*models.Recruitment, error)
}

// MonsterService 怪物服务接口
type MonsterService interface {
	AttackHero(ctx context.Context, monsterID, heroID uint) (*AttackResult, error)
	Die(ctx context.Context, monsterID uint) error
	FindHeroes(ctx context.Context, dungeonID uint) ([]*models.Hero, error)
}

// CreateHeroRequest 创建英雄请求
type CreateHeroRequest struct {
	HeroName string `json:"hero_name" binding:"required,max=100"`
	Level    int    `json:"level" binding:"min=0"`
	Age      int    `json:"age" binding:"min=0"`
	Power    int    `json:"power" binding:"min=0"`
	Health   int    `json:"health" binding:"min=0"`
	XP       int    `json:"xp" binding:"min=0"`
}

// CreateGuildRequest 创建公会请求
type CreateGuildRequest struct {
	GuildName   string `json:"guild_name" binding:"required,max=100"`
	MaxCapacity int    `json:"max_capacity" binding:"min=0"`
	Gold        int64  `json:"gold" binding:"min=0"`
}

// RecruitHeroRequest 招募英雄请求
type RecruitHeroRequest struct {
	HeroName string `json:"hero_name" binding:"required"`
}

// RemoveHeroesRequest 移除阵亡英雄请求
type RemoveHeroesRequest struct {
	Heroes []string `json:"heroes" binding:"required"`
}

// SendPartyRequest 派遣队伍请求，地牢名称来自查询参数
type SendPartyRequest struct {
	Party []string `json:"party" binding:"required,min=1"`
}

// CreateDungeonRequest 创建地牢请求
type CreateDungeonRequest struct {
	DungeonName     string `json:"dungeon_name" binding:"required,max=100"`
	DungeonLevel    int    `json:"dungeon_level" binding:"min=0"`
	PlayerCapacity  int    `json:"player_capacity" binding:"min=0"`
	MonsterCapacity int    `json:"monster_capacity" binding:"min=0"`
	Reward          int64  `json:"reward" binding:"min=0"`
}

// MonsterSpec 怪物属性
type MonsterSpec struct {
	Type   string `json:"type" binding:"required,max=50"`
	Health int    `json:"health" binding:"min=0"`
	Power  int    `json:"power" binding:"min=0"`
	Level  int    `json:"level" binding:"min=0"`
}

// RemoveResult 移除结果
type RemoveResult struct {
	Removed []string `json:"removed"`
	Count   int      `json:"count"`
}

// PartyResult 派遣结果
type PartyResult struct {
	DungeonID uint   `json:"dungeon_id"`
	HeroIDs   []uint `json:"hero_ids"`
	Status    string `json:"status"`
}

// BountyResult 领取赏金结果
type BountyResult struct {
	GuildID   uint  `json:"guild_id"`
	DungeonID uint  `json:"dungeon_id"`
	Reward    int64 `json:"reward"`
	Gold      int64 `json:"gold"`
	Released  int64 `json:"released"`
}

// AttackResult 一次攻击的结果
type AttackResult struct {
	HeroID          uint   `json:"hero_id"`
	MonsterID       uint   `json:"monster_id"`
	Attacker        string `json:"attacker"`
	Damage          int    `json:"damage"`
	RemainingHealth int    `json:"remaining_health"`
	Killed          bool   `json:"killed"`
	XPAwarded       int    `json:"xp_awarded,omitempty"`
}

// XPStatus 经验与等级
type XPStatus struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

// HealthStatus 生命值与状态
type HealthStatus struct {
	Health int    `json:"health"`
	Status string `json:"status"`
}

// BattleRecord 一次出手的战斗记录
type BattleRecord struct {
	TargetingID   uint   `json:"targeting_id"`
	MonsterID     uint   `json:"monster_id"`
	MonsterType   string `json:"monster_type"`
	Damage        int    `json:"damage"`
	InitialHealth *int   `json:"initial_health"`
	HealthAfter   *int   `json:"health_after"`
	Defeated      bool   `json:"defeated"`
}

// InteractionSummary 战斗汇总
type InteractionSummary struct {
	TotalBattles     int `json:"total_battles"`
	MonstersDefeated int `json:"monsters_defeated"`
	TotalDamage      int `json:"total_damage"`
}

// InteractionReport 英雄与怪物的交战历史
type InteractionReport struct {
	HeroID  uint               `json:"hero_id"`
	Battles []*BattleRecord    `json:"battles"`
	Summary InteractionSummary `json:"summary"`
}
