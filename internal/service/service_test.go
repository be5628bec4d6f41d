package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wfunc/last-crusade/internal/models"
	"github.com/wfunc/last-crusade/internal/repository"
)

// recorder 记录发布的事件
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(eventType string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// serviceSuite 服务测试公共部分
type serviceSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	svc      *Services
	recorder *recorder
	world    *models.World
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = repository.SetupTestDB()
	s.recorder = &recorder{}
	s.svc = NewServices(s.db, DefaultConfig(), zap.NewNop(), s.recorder)
	s.world = repository.CreateTestWorld(s.T(), s.db, "Camelot", 5, 5)
}

func (s *serviceSuite) TearDownTest() {
	repository.CleanupTestDB(s.db)
}

func (s *serviceSuite) reloadHero(id uint) *models.Hero {
	var hero models.Hero
	s.Require().NoError(s.db.First(&hero, id).Error)
	return &hero
}

func (s *serviceSuite) reloadDungeon(id uint) *models.Dungeon {
	var dungeon models.Dungeon
	s.Require().NoError(s.db.First(&dungeon, id).Error)
	return &dungeon
}

func (s *serviceSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
