package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// TransactionTestSuite 事务管理测试套件
type TransactionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	manager *Manager
}

func (suite *TransactionTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.manager = NewManager(suite.db)
}

func (suite *TransactionTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestTransaction_Commit 测试事务提交
func (suite *TransactionTestSuite) TestTransaction_Commit() {
	ctx := context.Background()
	err := suite.manager.WithTransaction(ctx, func(tx *Transaction) error {
		world := &models.World{Name: "Avalon", GuildCapacity: 1, DungeonCapacity: 1}
		if err := tx.World().Create(ctx, world); err != nil {
			return err
		}
		return tx.Guild().Create(ctx, &models.Guild{Name: "Knights", WorldID: world.ID})
	})
	suite.Require().NoError(err)

	worlds, err := suite.manager.World().List(ctx)
	suite.Require().NoError(err)
	suite.Len(worlds, 1)

	count, err := suite.manager.Guild().CountByWorld(ctx, worlds[0].ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

// TestTransaction_Rollback 测试错误时回滚
func (suite *TransactionTestSuite) TestTransaction_Rollback() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := suite.manager.WithTransaction(ctx, func(tx *Transaction) error {
		if err := tx.World().Create(ctx, &models.World{Name: "Lyonesse"}); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	worlds, err := suite.manager.World().List(ctx)
	suite.Require().NoError(err)
	suite.Empty(worlds)
}

// TestTransaction_PanicRollback 测试panic时回滚
func (suite *TransactionTestSuite) TestTransaction_PanicRollback() {
	ctx := context.Background()

	suite.Panics(func() {
		_ = suite.manager.WithTransaction(ctx, func(tx *Transaction) error {
			_ = tx.World().Create(ctx, &models.World{Name: "Lyonesse"})
			panic("boom")
		})
	})

	worlds, err := suite.manager.World().List(ctx)
	suite.Require().NoError(err)
	suite.Empty(worlds)
}

// TestTransaction_RepositoriesShareConnection 测试事务内仓储共享连接
func (suite *TransactionTestSuite) TestTransaction_RepositoriesShareConnection() {
	tx, err := suite.manager.txManager.Begin(context.Background())
	suite.Require().NoError(err)
	suite.Same(tx.GetDB(), tx.Hero().GetDB())
	suite.Same(tx.Hero(), tx.Hero())
	suite.NoError(tx.Rollback())
	suite.Error(tx.Rollback())
	suite.Error(tx.Commit())
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}
