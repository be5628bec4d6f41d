package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// HeroRepositoryTestSuite 英雄仓储测试套件
type HeroRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	heroRepo HeroRepository
	world    *models.World
	guild    *models.Guild
}

func (suite *HeroRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.heroRepo = NewHeroRepository(suite.db)
	suite.world = CreateTestWorld(suite.T(), suite.db, "Avalon", 5, 5)
	suite.guild = CreateTestGuild(suite.T(), suite.db, suite.world.ID, "Round Table", 5)
}

func (suite *HeroRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestHeroRepository_FindByID 测试按ID查找
func (suite *HeroRepositoryTestSuite) TestHeroRepository_FindByID() {
	ctx := context.Background()
	hero := CreateTestHero(suite.T(), suite.db, suite.world.ID, nil, "Arthur", 50, 100)

	found, err := suite.heroRepo.FindByID(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Equal("Arthur", found.Name)
	suite.Equal(models.HeroStatusAlive, found.Status)

	_, err = suite.heroRepo.FindByID(ctx, 999)
	suite.True(apperrors.Is(err, apperrors.ErrNotFound))
}

// TestHeroRepository_Lists 测试各类列表查询
func (suite *HeroRepositoryTestSuite) TestHeroRepository_Lists() {
	ctx := context.Background()
	dungeon := CreateTestDungeon(suite.T(), suite.db, suite.world.ID, "Crypt", models.DungeonStatusClosed, 3, 3, 100)

	CreateTestHero(suite.T(), suite.db, suite.world.ID, nil, "Wanderer", 10, 10)
	idle := CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Kay", 10, 10)
	inside := CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Gawain", 10, 10)
	fallen := CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Mordred", 10, 0)
	PutInDungeon(suite.T(), suite.db, inside, dungeon.ID)
	PutInDungeon(suite.T(), suite.db, fallen, dungeon.ID)

	unaffiliated, err := suite.heroRepo.ListUnaffiliated(ctx, suite.world.ID)
	suite.Require().NoError(err)
	suite.Len(unaffiliated, 1)
	suite.Equal("Wanderer", unaffiliated[0].Name)

	available, err := suite.heroRepo.ListAvailable(ctx, suite.guild.ID)
	suite.Require().NoError(err)
	suite.Len(available, 1)
	suite.Equal(idle.ID, available[0].ID)

	casualties, err := suite.heroRepo.ListCasualties(ctx, suite.guild.ID, dungeon.ID)
	suite.Require().NoError(err)
	suite.Len(casualties, 1)
	suite.Equal(fallen.ID, casualties[0].ID)

	alive, err := suite.heroRepo.ListAliveInDungeon(ctx, dungeon.ID)
	suite.Require().NoError(err)
	suite.Len(alive, 1)
	suite.Equal(inside.ID, alive[0].ID)

	count, err := suite.heroRepo.CountByGuild(ctx, suite.guild.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(3), count)
}

// TestHeroRepository_FindRecruitable 测试招募目标查找
func (suite *HeroRepositoryTestSuite) TestHeroRepository_FindRecruitable() {
	ctx := context.Background()
	other := CreateTestWorld(suite.T(), suite.db, "Camelot", 1, 1)
	CreateTestHero(suite.T(), suite.db, other.ID, nil, "Lancelot", 10, 10)
	CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Percival", 10, 10)

	_, err := suite.heroRepo.FindRecruitable(ctx, suite.world.ID, "Lancelot")
	suite.True(apperrors.Is(err, apperrors.ErrNotFound), "跨世界的英雄不可招募")

	_, err = suite.heroRepo.FindRecruitable(ctx, suite.world.ID, "Percival")
	suite.True(apperrors.Is(err, apperrors.ErrNotFound), "已有公会的英雄不可招募")

	free := CreateTestHero(suite.T(), suite.db, suite.world.ID, nil, "Percival", 10, 10)
	found, err := suite.heroRepo.FindRecruitable(ctx, suite.world.ID, "Percival")
	suite.Require().NoError(err)
	suite.Equal(free.ID, found.ID)
}

// TestHeroRepository_PartyCandidates 测试出征候选人
func (suite *HeroRepositoryTestSuite) TestHeroRepository_PartyCandidates() {
	ctx := context.Background()
	dungeon := CreateTestDungeon(suite.T(), suite.db, suite.world.ID, "Crypt", models.DungeonStatusOpen, 3, 3, 100)

	ready := CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Kay", 10, 10)
	CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Mordred", 10, 0)
	busy := CreateTestHero(suite.T(), suite.db, suite.world.ID, suite.guild, "Gawain", 10, 10)
	PutInDungeon(suite.T(), suite.db, busy, dungeon.ID)

	heroes, err := suite.heroRepo.FindPartyCandidates(ctx, suite.guild.ID, []string{"Kay", "Mordred", "Gawain"})
	suite.Require().NoError(err)
	suite.Len(heroes, 1)
	suite.Equal(ready.ID, heroes[0].ID)

	moved, err := suite.heroRepo.SendToDungeon(ctx, []uint{ready.ID, busy.ID}, dungeon.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), moved, "已在地牢中的英雄不会被重复移动")
}

// TestHeroRepository_StateChanges 测试状态变更
func (suite *HeroRepositoryTestSuite) TestHeroRepository_StateChanges() {
	ctx := context.Background()
	hero := CreateTestHero(suite.T(), suite.db, suite.world.ID, nil, "Tristan", 10, 10)

	rows, err := suite.heroRepo.IncrementAge(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), rows)

	rows, err = suite.heroRepo.IncrementAge(ctx, 999)
	suite.Require().NoError(err)
	suite.Zero(rows)

	rows, err = suite.heroRepo.LevelUp(ctx, hero.ID, 100)
	suite.Require().NoError(err)
	suite.Zero(rows, "经验不足时不升级")

	suite.Require().NoError(suite.heroRepo.AddXP(ctx, hero.ID, 130))
	rows, err = suite.heroRepo.LevelUp(ctx, hero.ID, 100)
	suite.Require().NoError(err)
	suite.Equal(int64(1), rows)

	rows, err = suite.heroRepo.MarkDead(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Zero(rows, "存活的英雄不能标记死亡")

	suite.Require().NoError(suite.heroRepo.UpdateHealth(ctx, hero.ID, -5))
	rows, err = suite.heroRepo.MarkDead(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), rows)

	found, err := suite.heroRepo.FindByID(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Equal(1, found.Age)
	suite.Equal(2, found.Level)
	suite.Equal(30, found.XP)
	suite.Equal(-5, found.Health)
	suite.Equal(models.HeroStatusDead, found.Status)
}

// TestHeroRepository_JoinAndLeave 测试入会与离开地牢
func (suite *HeroRepositoryTestSuite) TestHeroRepository_JoinAndLeave() {
	ctx := context.Background()
	dungeon := CreateTestDungeon(suite.T(), suite.db, suite.world.ID, "Crypt", models.DungeonStatusClosed, 3, 3, 100)
	hero := CreateTestHero(suite.T(), suite.db, suite.world.ID, nil, "Bedivere", 10, 10)

	rows, err := suite.heroRepo.JoinGuild(ctx, hero.ID, suite.guild.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), rows)

	rows, err = suite.heroRepo.JoinGuild(ctx, hero.ID, suite.guild.ID)
	suite.Require().NoError(err)
	suite.Zero(rows, "已入会的英雄不能再次入会")

	rows, err = suite.heroRepo.LeaveDungeon(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Zero(rows)

	PutInDungeon(suite.T(), suite.db, hero, dungeon.ID)
	rows, err = suite.heroRepo.LeaveDungeon(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), rows)

	found, err := suite.heroRepo.FindByID(ctx, hero.ID)
	suite.Require().NoError(err)
	suite.True(found.InGuild())
	suite.False(found.InDungeon())
}

func TestHeroRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(HeroRepositoryTestSuite))
}
