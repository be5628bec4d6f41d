package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// WorldServiceTestSuite 世界服务测试套件
type WorldServiceTestSuite struct {
	serviceSuite
}

func (s *WorldServiceTestSuite) TestCreateHero() {
	hero, err := s.svc.World.CreateHero(s.ctx, s.world.ID, &CreateHeroRequest{
		HeroName: "Lancelot",
		Level:    0,
		Age:      20,
		Power:    30,
		Health:   100,
	})
	s.Require().NoError(err)
	s.NotZero(hero.ID)
	s.Equal(0, hero.Level)
	s.Nil(hero.GuildID)
	s.Nil(hero.DungeonID)
	s.Equal(models.HeroStatusAlive, hero.Status)
	s.Equal(0, s.reloadHero(hero.ID).Level)
	s.Contains(s.recorder.types(), EventHeroCreated)
}

func (s *WorldServiceTestSuite) TestCreateHeroValidation() {
	_, err := s.svc.World.CreateHero(s.ctx, s.world.ID, &CreateHeroRequest{HeroName: "  "})
	s.True(apperrors.Is(err, apperrors.ErrInvalidParam))

	_, err = s.svc.World.CreateHero(s.ctx, s.world.ID, &CreateHeroRequest{HeroName: "Bad", Power: -1})
	s.True(apperrors.Is(err, apperrors.ErrInvalidParam))

	_, err = s.svc.World.CreateHero(s.ctx, 999, &CreateHeroRequest{HeroName: "Nowhere"})
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *WorldServiceTestSuite) TestViewHeroesOnlyUnaffiliated() {
	guild := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 5)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Free", 10, 10)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, guild, "Sworn", 10, 10)

	other := repository.CreateTestWorld(s.T(), s.db, "Avalon", 1, 1)
	repository.CreateTestHero(s.T(), s.db, other.ID, nil, "Elsewhere", 10, 10)

	heroes, err := s.svc.World.ViewHeroes(s.ctx, s.world.ID)
	s.Require().NoError(err)
	s.Require().Len(heroes, 1)
	s.Equal("Free", heroes[0].Name)
}

func (s *WorldServiceTestSuite) TestGetQuestsOnlyOpen() {
	repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Open", models.DungeonStatusOpen, 2, 2, 10)
	repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Closed", models.DungeonStatusClosed, 2, 2, 10)

	quests, err := s.svc.World.GetQuests(s.ctx, s.world.ID)
	s.Require().NoError(err)
	s.Require().Len(quests, 1)
	s.Equal("Open", quests[0].Name)
}

func (s *WorldServiceTestSuite) TestAgeHero() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Merlin", 10, 10)

	aged, err := s.svc.World.AgeHero(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(hero.Age+1, aged.Age)

	_, err = s.svc.World.AgeHero(s.ctx, 999)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func TestWorldServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorldServiceTestSuite))
}
