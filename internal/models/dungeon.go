package models

import "time"

// 地牢状态，只能 open -> closed -> completed
const (
	DungeonStatusOpen      = "open"
	DungeonStatusClosed    = "closed"
	DungeonStatusCompleted = "completed"
)

// Dungeon 地牢表，名称在同一世界内唯一
type Dungeon struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex:idx_dungeon_world_name;size:100;not null" json:"name"`
	WorldID         uint      `gorm:"uniqueIndex:idx_dungeon_world_name;not null" json:"world_id"`
	Level           int       `gorm:"not null;default:0" json:"level"`
	PartyCapacity   int       `gorm:"not null;default:0" json:"party_capacity"`
	MonsterCapacity int       `gorm:"not null;default:0" json:"monster_capacity"`
	GoldReward      int64     `gorm:"not null;default:0" json:"gold_reward"`
	Status          string    `gorm:"size:20;not null;default:'open';index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定Dungeon表名
func (Dungeon) TableName() string {
	return "dungeon"
}
