package repository

import (
	"context"
	"fmt"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"gorm.io/gorm"
)

// TransactionManager 事务管理器接口
type TransactionManager interface {
	// Begin 开始事务
	Begin(ctx context.Context) (*Transaction, error)
	// WithTransaction 在事务中执行函数
	WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error
}

// Transaction 事务包装器，仓储实例共享同一个事务连接
type Transaction struct {
	tx         *gorm.DB
	ctx        context.Context
	committed  bool
	rolledback bool

	world       WorldRepository
	guild       GuildRepository
	hero        HeroRepository
	dungeon     DungeonRepository
	monster     MonsterRepository
	recruitment RecruitmentRepository
	targeting   TargetingRepository
}

// txManager 事务管理器实现
type txManager struct {
	db *gorm.DB
}

// NewTransactionManager 创建事务管理器
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

// Begin 开始事务
func (m *txManager) Begin(ctx context.Context) (*Transaction, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.Wrap(tx.Error, apperrors.ErrTransaction)
	}

	return &Transaction{
		tx:  tx,
		ctx: ctx,
	}, nil
}

// WithTransaction 在事务中执行函数
func (m *txManager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	// 确保事务被处理（包括panic）
	defer func() {
		if !tx.committed && !tx.rolledback {
			tx.Rollback()
		}
	}()

	// 执行业务逻辑
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	// 提交事务
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrTransaction)
	}
	return nil
}

// Commit 提交事务
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("事务已提交")
	}
	if t.rolledback {
		return fmt.Errorf("事务已回滚")
	}

	if err := t.tx.Commit().Error; err != nil {
		return err
	}

	t.committed = true
	return nil
}

// Rollback 回滚事务
func (t *Transaction) Rollback() error {
	if t.committed {
		return fmt.Errorf("事务已提交，无法回滚")
	}
	if t.rolledback {
		return fmt.Errorf("事务已回滚")
	}

	if err := t.tx.Rollback().Error; err != nil {
		return err
	}

	t.rolledback = true
	return nil
}

// GetDB 获取事务中的数据库实例
func (t *Transaction) GetDB() *gorm.DB {
	return t.tx
}

// World 获取事务中的世界仓储
func (t *Transaction) World() WorldRepository {
	if t.world == nil {
		t.world = NewWorldRepository(t.tx)
	}
	return t.world
}

// Guild 获取事务中的公会仓储
func (t *Transaction) Guild() GuildRepository {
	if t.guild == nil {
		t.guild = NewGuildRepository(t.tx)
	}
	return t.guild
}

// Hero 获取事务中的英雄仓储
func (t *Transaction) Hero() HeroRepository {
	if t.hero == nil {
		t.hero = NewHeroRepository(t.tx)
	}
	return t.hero
}

// Dungeon 获取事务中的地牢仓储
func (t *Transaction) Dungeon() DungeonRepository {
	if t.dungeon == nil {
		t.dungeon = NewDungeonRepository(t.tx)
	}
	return t.dungeon
}

// Monster 获取事务中的怪物仓储
func (t *Transaction) Monster() MonsterRepository {
	if t.monster == nil {
		t.monster = NewMonsterRepository(t.tx)
	}
	return t.monster
}

// Recruitment 获取事务中的招募仓储
func (t *Transaction) Recruitment() RecruitmentRepository {
	if t.recruitment == nil {
		t.recruitment = NewRecruitmentRepository(t.tx)
	}
	return t.recruitment
}

// Targeting 获取事务中的战斗日志仓储
func (t *Transaction) Targeting() TargetingRepository {
	if t.targeting == nil {
		t.targeting = NewTargetingRepository(t.tx)
	}
	return t.targeting
}
