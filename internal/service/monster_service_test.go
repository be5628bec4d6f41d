package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// MonsterServiceTestSuite 怪物服务测试套件
type MonsterServiceTestSuite struct {
	serviceSuite
	dungeon *models.Dungeon
}

func (s *MonsterServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.dungeon = repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Cave", models.DungeonStatusClosed, 3, 3, 100)
}

func (s *MonsterServiceTestSuite) TestAttackHero() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Kay", 10, 100)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Ogre", 50, 35, 2)

	result, err := s.svc.Monster.AttackHero(s.ctx, monster.ID, hero.ID)
	s.Require().NoError(err)
	s.Equal(models.AttackerMonster, result.Attacker)
	s.Equal(35, result.Damage)
	s.Equal(65, result.RemainingHealth)
	s.Zero(result.XPAwarded)
	s.Equal(65, s.reloadHero(hero.ID).Health)

	var log models.Targeting
	s.Require().NoError(s.db.Where("hero_id = ?", hero.ID).First(&log).Error)
	s.Equal(models.AttackerMonster, log.Attacker)
	s.Contains(s.recorder.types(), EventHeroAttacked)
}

func (s *MonsterServiceTestSuite) TestAttackDeadHero() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Kay", 10, 0)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Ogre", 50, 35, 2)

	_, err := s.svc.Monster.AttackHero(s.ctx, monster.ID, hero.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
}

func (s *MonsterServiceTestSuite) TestDie() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Kay", 60, 100)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Goblin", 50, 5, 1)

	// 存活的怪物连同战斗日志都保留
	_, err := s.svc.Monster.AttackHero(s.ctx, monster.ID, hero.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.count(&models.Targeting{}, "monster_id = ?", monster.ID))

	err = s.svc.Monster.Die(s.ctx, monster.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
	s.Equal(int64(1), s.count(&models.Monster{}, "id = ?", monster.ID))
	s.Equal(int64(1), s.count(&models.Targeting{}, "monster_id = ?", monster.ID))

	_, err = s.svc.Hero.AttackMonster(s.ctx, hero.ID, monster.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Monster.Die(s.ctx, monster.ID))
	s.Equal(int64(0), s.count(&models.Monster{}, "id = ?", monster.ID))
	s.Equal(int64(0), s.count(&models.Targeting{}, "monster_id = ?", monster.ID))

	err = s.svc.Monster.Die(s.ctx, monster.ID)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *MonsterServiceTestSuite) TestFindHeroes() {
	alive := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Alive", 10, 10)
	dead := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Dead", 10, 0)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Outside", 10, 10)
	repository.PutInDungeon(s.T(), s.db, alive, s.dungeon.ID)
	repository.PutInDungeon(s.T(), s.db, dead, s.dungeon.ID)

	heroes, err := s.svc.Monster.FindHeroes(s.ctx, s.dungeon.ID)
	s.Require().NoError(err)
	s.Require().Len(heroes, 1)
	s.Equal("Alive", heroes[0].Name)
}

func TestMonsterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MonsterServiceTestSuite))
}
