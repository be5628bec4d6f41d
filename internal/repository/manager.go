package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 事务管理器
	txManager TransactionManager

	// 仓储实例（使用懒加载）
	worldOnce sync.Once
	world     WorldRepository

	guildOnce sync.Once
	guild     GuildRepository

	heroOnce sync.Once
	hero     HeroRepository

	dungeonOnce sync.Once
	dungeon     DungeonRepository

	monsterOnce sync.Once
	monster     MonsterRepository

	recruitmentOnce sync.Once
	recruitment     RecruitmentRepository

	targetingOnce sync.Once
	targeting     TargetingRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:        db,
		txManager: NewTransactionManager(db),
	}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// World 获取世界仓储
func (m *Manager) World() WorldRepository {
	m.worldOnce.Do(func() {
		m.world = NewWorldRepository(m.db)
	})
	return m.world
}

// Guild 获取公会仓储
func (m *Manager) Guild() GuildRepository {
	m.guildOnce.Do(func() {
		m.guild = NewGuildRepository(m.db)
	})
	return m.guild
}

// Hero 获取英雄仓储
func (m *Manager) Hero() HeroRepository {
	m.heroOnce.Do(func() {
		m.hero = NewHeroRepository(m.db)
	})
	return m.hero
}

// Dungeon 获取地牢仓储
func (m *Manager) Dungeon() DungeonRepository {
	m.dungeonOnce.Do(func() {
		m.dungeon = NewDungeonRepository(m.db)
	})
	return m.dungeon
}

// Monster 获取怪物仓储
func (m *Manager) Monster() MonsterRepository {
	m.monsterOnce.Do(func() {
		m.monster = NewMonsterRepository(m.db)
	})
	return m.monster
}

// Recruitment 获取招募仓储
func (m *Manager) Recruitment() RecruitmentRepository {
	m.recruitmentOnce.Do(func() {
		m.recruitment = NewRecruitmentRepository(m.db)
	})
	return m.recruitment
}

// Targeting 获取战斗日志仓储
func (m *Manager) Targeting() TargetingRepository {
	m.targetingOnce.Do(func() {
		m.targeting = NewTargetingRepository(m.db)
	})
	return m.targeting
}

// WithTransaction 在事务中执行操作，fn返回错误时回滚
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.txManager.WithTransaction(ctx, fn)
}
