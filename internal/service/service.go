package service

import (
	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 游戏规则配置
type Config struct {
	// XPPerMonsterLevel 击杀怪物时每级怪物奖励的经验
	XPPerMonsterLevel int
	// LevelUpXP 升一级消耗的经验
	LevelUpXP int
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		XPPerMonsterLevel: 10,
		LevelUpXP:         100,
	}
}

// ConfigFrom 从全局配置生成服务配置
func ConfigFrom(cfg *config.GameConfig) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.XPPerMonsterLevel >= 0 {
		c.XPPerMonsterLevel = cfg.XPPerMonsterLevel
	}
	if cfg.LevelUpXP > 0 {
		c.LevelUpXP = cfg.LevelUpXP
	}
	return c
}

// Services 服务集合
type Services struct {
	World   WorldService
	Guild   GuildService
	Dungeon DungeonService
	Hero    HeroService
	Monster MonsterService
}

// NewServices 创建服务集合，publisher 可以为空
func NewServices(db *gorm.DB, cfg *Config, log *zap.Logger, publisher EventPublisher) *Services {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	repos := repository.NewManager(db)

	return &Services{
		World:   NewWorldService(repos, publisher, log.Named("world")),
		Guild:   NewGuildService(repos, publisher, log.Named("guild")),
		Dungeon: NewDungeonService(repos, publisher, log.Named("dungeon")),
		Hero:    NewHeroService(repos, cfg, publisher, log.Named("hero")),
		Monster: NewMonsterService(repos, publisher, log.Named("monster")),
	}
}
