package models

import "time"

// 英雄状态
const (
	HeroStatusAlive = "alive"
	HeroStatusDead  = "dead"
)

// Hero 英雄表
type Hero struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Level     int       `gorm:"not null;default:0" json:"level"`
	Age       int       `gorm:"not null;default:0" json:"age"`
	Power     int       `gorm:"not null;default:0" json:"power"`
	Health    int       `gorm:"not null;default:0" json:"health"`
	XP        int       `gorm:"column:xp;not null;default:0" json:"xp"`
	WorldID   uint      `gorm:"not null;index" json:"world_id"`
	GuildID   *uint     `gorm:"index" json:"guild_id"`
	DungeonID *uint     `gorm:"index" json:"dungeon_id"`
	Status    string    `gorm:"size:20;not null;default:'alive'" json:"status"` // alive, dead
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定Hero表名
func (Hero) TableName() string {
	return "hero"
}

// IsAlive 生命值大于0视为存活
func (h *Hero) IsAlive() bool {
	return h.Health > 0
}

// InGuild 是否已加入公会
func (h *Hero) InGuild() bool {
	return h.GuildID != nil
}

// InDungeon 是否身处地牢
func (h *Hero) InDungeon() bool {
	return h.DungeonID != nil
}
