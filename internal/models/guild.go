package models

import "time"

// Guild 公会表，名称在同一世界内唯一
type Guild struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex:idx_guild_world_name;size:100;not null" json:"name"`
	WorldID        uint      `gorm:"uniqueIndex:idx_guild_world_name;not null" json:"world_id"`
	PlayerCapacity int       `gorm:"not null;default:0" json:"player_capacity"`
	Gold           int64     `gorm:"not null;default:0" json:"gold"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 指定Guild表名
func (Guild) TableName() string {
	return "guild"
}
