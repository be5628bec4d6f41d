package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/last-crusade/internal/database"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"gorm.io/gorm"
)

// GuildRepositoryTestSuite 公会仓储测试套件
type GuildRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	guildRepo GuildRepository
	world     *models.World
}

func (suite *GuildRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.guildRepo = NewGuildRepository(suite.db)
	suite.world = CreateTestWorld(suite.T(), suite.db, "Avalon", 10, 10)
}

func (suite *GuildRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestGuildRepository_DuplicateName 测试同一世界内公会重名
func (suite *GuildRepositoryTestSuite) TestGuildRepository_DuplicateName() {
	ctx := context.Background()
	suite.Require().NoError(suite.guildRepo.Create(ctx, &models.Guild{Name: "Knights", WorldID: suite.world.ID}))

	err := suite.guildRepo.Create(ctx, &models.Guild{Name: "Knights", WorldID: suite.world.ID})
	suite.Error(err)
	suite.True(database.IsDuplicateKey(err))

	// 不同世界允许同名
	other := CreateTestWorld(suite.T(), suite.db, "Camelot", 1, 1)
	suite.NoError(suite.guildRepo.Create(ctx, &models.Guild{Name: "Knights", WorldID: other.ID}))

	count, err := suite.guildRepo.CountByWorld(ctx, suite.world.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

// TestGuildRepository_AddGold 测试增加金币
func (suite *GuildRepositoryTestSuite) TestGuildRepository_AddGold() {
	ctx := context.Background()
	guild := CreateTestGuild(suite.T(), suite.db, suite.world.ID, "Knights", 3)

	suite.Require().NoError(suite.guildRepo.AddGold(ctx, guild.ID, 250))
	suite.Require().NoError(suite.guildRepo.AddGold(ctx, guild.ID, 50))

	found, err := suite.guildRepo.FindByID(ctx, guild.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(300), found.Gold)

	err = suite.guildRepo.AddGold(ctx, 999, 1)
	suite.True(apperrors.Is(err, apperrors.ErrNotFound))
}

// TestGuildRepository_Leaderboard 测试排行榜并列名次
func (suite *GuildRepositoryTestSuite) TestGuildRepository_Leaderboard() {
	ctx := context.Background()
	rich := CreateTestGuild(suite.T(), suite.db, suite.world.ID, "Rich", 5)
	tiedA := CreateTestGuild(suite.T(), suite.db, suite.world.ID, "TiedA", 5)
	tiedB := CreateTestGuild(suite.T(), suite.db, suite.world.ID, "TiedB", 5)
	poor := CreateTestGuild(suite.T(), suite.db, suite.world.ID, "Poor", 5)

	for _, g := range []struct {
		guild *models.Guild
		gold  int64
	}{{rich, 100}, {tiedA, 100}, {tiedB, 100}, {poor, 10}} {
		suite.Require().NoError(suite.guildRepo.AddGold(ctx, g.guild.ID, g.gold))
	}
	// 同为100金币时平均战力更高者在前
	CreateTestHero(suite.T(), suite.db, suite.world.ID, rich, "Arthur", 40, 10)

	entries, err := suite.guildRepo.Leaderboard(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 4)

	suite.Equal(rich.ID, entries[0].GuildID)
	suite.Equal(1, entries[0].Rank)
	suite.Equal(float64(40), entries[0].AvgPower)
	suite.Equal(int64(1), entries[0].HeroCount)

	suite.Equal(2, entries[1].Rank)
	suite.Equal(2, entries[2].Rank)
	suite.ElementsMatch([]uint{tiedA.ID, tiedB.ID}, []uint{entries[1].GuildID, entries[2].GuildID})

	suite.Equal(poor.ID, entries[3].GuildID)
	suite.Equal(4, entries[3].Rank)
}

func TestGuildRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GuildRepositoryTestSuite))
}
