package service

import (
	"github.com/wfunc/last-crusade/internal/metrics"
	"go.uber.org/zap"
)

// 领域事件类型
const (
	EventHeroCreated         = "hero.created"
	EventHeroAged            = "hero.aged"
	EventGuildCreated        = "guild.created"
	EventHeroRecruited       = "hero.recruited"
	EventHeroesRemoved       = "heroes.removed"
	EventPartySent           = "party.sent"
	EventDungeonCreated      = "dungeon.created"
	EventMonstersCreated     = "monsters.created"
	EventBountyCollected     = "bounty.collected"
	EventMonsterAttacked     = "monster.attacked"
	EventHeroAttacked        = "hero.attacked"
	EventHeroFled            = "hero.fled"
	EventHeroDied            = "hero.died"
	EventMonsterDied         = "monster.died"
	EventHeroLeveled         = "hero.leveled"
	EventRecruitmentAccepted = "recruitment.accepted"
)

// EventPublisher 事件发布者，事务提交后调用
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// nopPublisher 未启用推送时使用
type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// notifier 发布事件并记录日志与指标
type notifier struct {
	publisher EventPublisher
	log       *zap.Logger
}

func newNotifier(publisher EventPublisher, log *zap.Logger) *notifier {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &notifier{publisher: publisher, log: log}
}

func (n *notifier) emit(eventType string, data map[string]interface{}) {
	metrics.GameEvents.WithLabelValues(eventType).Inc()
	n.log.Info("game_event", zap.String("event", eventType), zap.Any("data", data))
	n.publisher.Publish(eventType, data)
}
