package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// GuildServiceTestSuite 公会服务测试套件
type GuildServiceTestSuite struct {
	serviceSuite
}

func (s *GuildServiceTestSuite) TestCreateGuildCapacity() {
	small := repository.CreateTestWorld(s.T(), s.db, "Lyonesse", 1, 1)

	guild, err := s.svc.Guild.CreateGuild(s.ctx, small.ID, &CreateGuildRequest{GuildName: "First", MaxCapacity: 3, Gold: 50})
	s.Require().NoError(err)
	s.Equal(int64(50), guild.Gold)
	s.Equal(3, guild.PlayerCapacity)

	_, err = s.svc.Guild.CreateGuild(s.ctx, small.ID, &CreateGuildRequest{GuildName: "Second", MaxCapacity: 3})
	s.True(apperrors.Is(err, apperrors.ErrCapacityReached))
	s.Equal(int64(1), s.count(&models.Guild{}, "world_id = ?", small.ID))
}

func (s *GuildServiceTestSuite) TestCreateGuildDuplicateName() {
	_, err := s.svc.Guild.CreateGuild(s.ctx, s.world.ID, &CreateGuildRequest{GuildName: "Knights", MaxCapacity: 3})
	s.Require().NoError(err)

	_, err = s.svc.Guild.CreateGuild(s.ctx, s.world.ID, &CreateGuildRequest{GuildName: "Knights", MaxCapacity: 3})
	s.True(apperrors.Is(err, apperrors.ErrDuplicateName))

	other := repository.CreateTestWorld(s.T(), s.db, "Avalon", 1, 1)
	_, err = s.svc.Guild.CreateGuild(s.ctx, other.ID, &CreateGuildRequest{GuildName: "Knights", MaxCapacity: 3})
	s.NoError(err)
}

func (s *GuildServiceTestSuite) TestRecruitHero() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Gawain", 10, 10)

	rec, err := s.svc.Guild.RecruitHero(s.ctx, guild.ID, "Gawain")
	s.Require().NoError(err)
	s.Equal(models.RecruitmentPending, rec.Status)
	s.Equal(hero.ID, rec.HeroID)

	again, err := s.svc.Guild.RecruitHero(s.ctx, guild.ID, "Gawain")
	s.Require().NoError(err)
	s.Equal(rec.ID, again.ID)
	s.Equal(int64(1), s.count(&models.Recruitment{}, "hero_id = ?", hero.ID))

	_, err = s.svc.Guild.RecruitHero(s.ctx, guild.ID, "Nobody")
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *GuildServiceTestSuite) TestRecruitHeroAlreadyInGuild() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	other := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Black Knights", 5)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, other, "Mordred", 10, 10)

	_, err := s.svc.Guild.RecruitHero(s.ctx, guild.ID, "Mordred")
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *GuildServiceTestSuite) TestRemoveDeadHeroes() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	dead := repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Fallen", 10, 0)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Living", 10, 10)
	dungeon := repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Cave", models.DungeonStatusClosed, 3, 3, 10)
	monster := repository.CreateTestMonster(s.T(), s.db, dungeon.ID, "Goblin", 10, 5, 1)
	s.Require().NoError(s.db.Create(&models.Targeting{HeroID: dead.ID, MonsterID: monster.ID, Attacker: models.AttackerHero, Damage: 10}).Error)

	result, err := s.svc.Guild.RemoveDeadHeroes(s.ctx, guild.ID, []string{"Fallen", "Living", "Ghost"})
	s.Require().NoError(err)
	s.Equal(1, result.Count)
	s.Equal([]string{"Fallen"}, result.Removed)
	s.Equal(int64(0), s.count(&models.Hero{}, "id = ?", dead.ID))
	s.Equal(int64(0), s.count(&models.Targeting{}, "hero_id = ?", dead.ID))
	s.Equal(int64(1), s.count(&models.Hero{}, "guild_id = ?", guild.ID))
}

func (s *GuildServiceTestSuite) TestSendParty() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	a := repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Arthur", 30, 100)
	b := repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Bedivere", 20, 100)
	dungeon := repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Cave", models.DungeonStatusOpen, 2, 3, 10)

	result, err := s.svc.Guild.SendParty(s.ctx, guild.ID, "Cave", []string{"Arthur", "Bedivere"})
	s.Require().NoError(err)
	s.Equal(dungeon.ID, result.DungeonID)
	s.ElementsMatch([]uint{a.ID, b.ID}, result.HeroIDs)
	s.Equal(models.DungeonStatusClosed, s.reloadDungeon(dungeon.ID).Status)
	s.Equal(dungeon.ID, *s.reloadHero(a.ID).DungeonID)

	available, err := s.svc.Guild.AvailableHeroes(s.ctx, guild.ID)
	s.Require().NoError(err)
	s.Empty(available)
}

func (s *GuildServiceTestSuite) TestSendPartyIsAtomic() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	ok := repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Arthur", 30, 100)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Fallen", 30, 0)
	dungeon := repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Cave", models.DungeonStatusOpen, 3, 3, 10)

	_, err := s.svc.Guild.SendParty(s.ctx, guild.ID, "Cave", []string{"Arthur", "Fallen"})
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
	s.Nil(s.reloadHero(ok.ID).DungeonID)
	s.Equal(models.DungeonStatusOpen, s.reloadDungeon(dungeon.ID).Status)
}

func (s *GuildServiceTestSuite) TestSendPartyCapacityAndStatus() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Arthur", 30, 100)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Bedivere", 30, 100)
	repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Tiny", models.DungeonStatusOpen, 1, 3, 10)
	repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Taken", models.DungeonStatusClosed, 3, 3, 10)

	_, err := s.svc.Guild.SendParty(s.ctx, guild.ID, "Tiny", []string{"Arthur", "Bedivere"})
	s.True(apperrors.Is(err, apperrors.ErrCapacityReached))

	_, err = s.svc.Guild.SendParty(s.ctx, guild.ID, "Taken", []string{"Arthur"})
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))

	_, err = s.svc.Guild.SendParty(s.ctx, guild.ID, "Missing", []string{"Arthur"})
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *GuildServiceTestSuite) TestLeaderboard() {
	entries, err := s.svc.Guild.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)

	rich := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Rich", 5)
	s.Require().NoError(s.db.Model(rich).Update("gold", 500).Error)
	repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Poor", 5)

	entries, err = s.svc.Guild.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Rich", entries[0].GuildName)
	s.Equal(1, entries[0].Rank)
}

func TestGuildServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GuildServiceTestSuite))
}
