package models

// Monster 怪物表，死亡后直接删除
type Monster struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Type      string `gorm:"size:50;not null" json:"type"`
	Health    int    `gorm:"not null;default:0" json:"health"`
	Power     int    `gorm:"not null;default:0" json:"power"`
	Level     int    `gorm:"not null;default:0" json:"level"`
	DungeonID uint   `gorm:"not null;index" json:"dungeon_id"`
}

// TableName 指定Monster表名
func (Monster) TableName() string {
	return "monster"
}

// IsAlive 生命值大于0视为存活
func (m *Monster) IsAlive() bool {
	return m.Health > 0
}
