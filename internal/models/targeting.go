package models

import "time"

// 出手方
const (
	AttackerHero    = "hero"
	AttackerMonster = "monster"
)

// Targeting 战斗日志，只追加；英雄或怪物死亡时删除相关行
type Targeting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HeroID    uint      `gorm:"not null;index" json:"hero_id"`
	MonsterID uint      `gorm:"not null;index" json:"monster_id"`
	Attacker  string    `gorm:"size:10;not null" json:"attacker"` // hero, monster
	Damage    int       `gorm:"not null" json:"damage"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定Targeting表名
func (Targeting) TableName() string {
	return "targeting"
}
