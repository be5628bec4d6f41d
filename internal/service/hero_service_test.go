package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// HeroServiceTestSuite 英雄服务测试套件
type HeroServiceTestSuite struct {
	serviceSuite
	guild   *models.Guild
	dungeon *models.Dungeon
}

func (s *HeroServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.guild = repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Round Table", 2)
	s.dungeon = repository.CreateTestDungeon(s.T(), s.db, s.world.ID, "Cave", models.DungeonStatusClosed, 3, 3, 100)
}

func (s *HeroServiceTestSuite) TestAttackMonster() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 100)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Troll", 120, 10, 3)

	first, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, monster.ID)
	s.Require().NoError(err)
	s.Equal(50, first.Damage)
	s.Equal(70, first.RemainingHealth)
	s.False(first.Killed)

	second, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, monster.ID)
	s.Require().NoError(err)
	s.Equal(20, second.RemainingHealth)

	s.Equal(int64(2), s.count(&models.Targeting{}, "hero_id = ? AND monster_id = ?", hero.ID, monster.ID))
	s.Contains(s.recorder.types(), EventMonsterAttacked)
}

func (s *HeroServiceTestSuite) TestKillingBlowAwardsXP() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 100)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Goblin", 30, 5, 3)

	result, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, monster.ID)
	s.Require().NoError(err)
	s.True(result.Killed)
	s.Equal(-20, result.RemainingHealth)
	s.Equal(30, result.XPAwarded)
	s.Equal(30, s.reloadHero(hero.ID).XP)

	// 已被击败的怪物不能再攻击
	_, err = s.svc.Hero.AttackMonster(s.ctx, hero.ID, monster.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
}

func (s *HeroServiceTestSuite) TestAttackMonsterFailures() {
	dead := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Fallen", 50, 0)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Troll", 120, 10, 3)

	_, err := s.svc.Hero.AttackMonster(s.ctx, dead.ID, monster.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))

	_, err = s.svc.Hero.AttackMonster(s.ctx, 999, monster.ID)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))

	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 100)
	_, err = s.svc.Hero.AttackMonster(s.ctx, hero.ID, 999)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
	s.Equal(int64(0), s.count(&models.Targeting{}, "hero_id = ?", hero.ID))
}

func (s *HeroServiceTestSuite) TestRunAway() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Robin", 5, 100)
	repository.PutInDungeon(s.T(), s.db, hero, s.dungeon.ID)

	fled, err := s.svc.Hero.RunAway(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Nil(fled.DungeonID)
	s.Nil(s.reloadHero(hero.ID).DungeonID)

	// 已经不在地牢中
	_, err = s.svc.Hero.RunAway(s.ctx, hero.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
}

func (s *HeroServiceTestSuite) TestRunAwayWhileEngaged() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Robin", 5, 100)
	repository.PutInDungeon(s.T(), s.db, hero, s.dungeon.ID)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Rabbit", 100, 90, 1)

	_, err := s.svc.Monster.AttackHero(s.ctx, monster.ID, hero.ID)
	s.Require().NoError(err)

	_, err = s.svc.Hero.RunAway(s.ctx, hero.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
	s.NotNil(s.reloadHero(hero.ID).DungeonID)
}

func (s *HeroServiceTestSuite) TestDie() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 100)
	monster := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Dragon", 500, 150, 10)

	_, err := s.svc.Hero.Die(s.ctx, hero.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))
	s.Equal(models.HeroStatusAlive, s.reloadHero(hero.ID).Status)

	_, err = s.svc.Monster.AttackHero(s.ctx, monster.ID, hero.ID)
	s.Require().NoError(err)

	dead, err := s.svc.Hero.Die(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(models.HeroStatusDead, dead.Status)
	s.Equal(models.HeroStatusDead, s.reloadHero(hero.ID).Status)
	s.Equal(int64(0), s.count(&models.Targeting{}, "hero_id = ?", hero.ID))
}

func (s *HeroServiceTestSuite) TestLevelUp() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 100)

	_, err := s.svc.Hero.RaiseLevel(s.ctx, hero.ID)
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))

	s.Require().NoError(s.db.Model(hero).Update("xp", 130).Error)
	status, err := s.svc.Hero.RaiseLevel(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(30, status.XP)
	s.Equal(2, status.Level)

	xp, err := s.svc.Hero.CheckXP(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(30, xp.XP)
	s.Equal(2, xp.Level)
}

func (s *HeroServiceTestSuite) TestCheckHealth() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 50, 80)

	health, err := s.svc.Hero.CheckHealth(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(80, health.Health)
	s.Equal(models.HeroStatusAlive, health.Status)

	_, err = s.svc.Hero.CheckHealth(s.ctx, 999)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *HeroServiceTestSuite) TestFindMonsters() {
	repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Alive", 10, 1, 1)
	repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Slain", 0, 1, 1)

	monsters, err := s.svc.Hero.FindMonsters(s.ctx, s.dungeon.ID)
	s.Require().NoError(err)
	s.Require().Len(monsters, 1)
	s.Equal("Alive", monsters[0].Type)
}

func (s *HeroServiceTestSuite) TestRecruitmentFlow() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Gareth", 20, 100)
	rival := repository.CreateTestGuild(s.T(), s.db, s.world.ID, "Green Knights", 5)

	_, err := s.svc.Guild.RecruitHero(s.ctx, s.guild.ID, "Gareth")
	s.Require().NoError(err)
	_, err = s.svc.Guild.RecruitHero(s.ctx, rival.ID, "Gareth")
	s.Require().NoError(err)

	pending, err := s.svc.Hero.ViewPendingRequests(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Len(pending, 2)

	rec, err := s.svc.Hero.AcceptRequest(s.ctx, hero.ID, "Round Table")
	s.Require().NoError(err)
	s.Equal(models.RecruitmentAccepted, rec.Status)
	s.NotNil(rec.ResponseDate)
	s.Equal(s.guild.ID, *s.reloadHero(hero.ID).GuildID)

	// 已加入公会后不能再接受其他邀请
	_, err = s.svc.Hero.AcceptRequest(s.ctx, hero.ID, "Green Knights")
	s.True(apperrors.Is(err, apperrors.ErrPrecondition))

	_, err = s.svc.Hero.ViewPendingRequests(s.ctx, 999)
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *HeroServiceTestSuite) TestAcceptRequestGuildFull() {
	repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 1, 1)
	repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Kay", 1, 1)
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, nil, "Latecomer", 1, 1)
	s.Require().NoError(s.db.Create(&models.Recruitment{
		HeroID:  hero.ID,
		GuildID: s.guild.ID,
		Status:  models.RecruitmentPending,
	}).Error)

	_, err := s.svc.Hero.AcceptRequest(s.ctx, hero.ID, "Round Table")
	s.True(apperrors.Is(err, apperrors.ErrCapacityReached))
	s.Nil(s.reloadHero(hero.ID).GuildID)

	_, err = s.svc.Hero.AcceptRequest(s.ctx, hero.ID, "No Such Guild")
	s.True(apperrors.Is(err, apperrors.ErrNotFound))
}

func (s *HeroServiceTestSuite) TestMonsterInteractions() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 30, 100)
	troll := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Troll", 100, 10, 2)
	goblin := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Goblin", 20, 5, 1)

	for i := 0; i < 2; i++ {
		_, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, troll.ID)
		s.Require().NoError(err)
	}
	_, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, goblin.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Monster.Die(s.ctx, goblin.ID))

	// 怪物反击不计入英雄的交战记录
	_, err = s.svc.Monster.AttackHero(s.ctx, troll.ID, hero.ID)
	s.Require().NoError(err)

	report, err := s.svc.Hero.MonsterInteractions(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Require().Len(report.Battles, 2)

	first := report.Battles[0]
	s.Equal(troll.ID, first.MonsterID)
	s.Require().NotNil(first.InitialHealth)
	s.Equal(100, *first.InitialHealth)
	s.Equal(70, *first.HealthAfter)
	s.False(first.Defeated)
	s.Equal(40, *report.Battles[1].HealthAfter)

	s.Equal(1, report.Summary.TotalBattles)
	s.Equal(0, report.Summary.MonstersDefeated)
	s.Equal(60, report.Summary.TotalDamage)
}

func (s *HeroServiceTestSuite) TestMonsterInteractionsDeletedMonster() {
	hero := repository.CreateTestHero(s.T(), s.db, s.world.ID, s.guild, "Arthur", 30, 100)
	goblin := repository.CreateTestMonster(s.T(), s.db, s.dungeon.ID, "Goblin", 20, 5, 1)

	_, err := s.svc.Hero.AttackMonster(s.ctx, hero.ID, goblin.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Delete(&models.Monster{}, goblin.ID).Error)

	report, err := s.svc.Hero.MonsterInteractions(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Require().Len(report.Battles, 1)
	s.Nil(report.Battles[0].InitialHealth)
	s.True(report.Battles[0].Defeated)
	s.Equal(1, report.Summary.MonstersDefeated)
}

func TestHeroServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HeroServiceTestSuite))
}
