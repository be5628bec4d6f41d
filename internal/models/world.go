package models

import "time"

// World 世界表，由种子数据创建，对外只读
type World struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	GuildCapacity   int       `gorm:"not null;default:0" json:"guild_capacity"`
	DungeonCapacity int       `gorm:"not null;default:0" json:"dungeon_capacity"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName 指定World表名
func (World) TableName() string {
	return "world"
}
