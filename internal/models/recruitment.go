package models

import "time"

// 招募状态
const (
	RecruitmentPending  = "pending"
	RecruitmentAccepted = "accepted"
)

// Recruitment 招募邀请表
type Recruitment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	HeroID       uint       `gorm:"not null;index" json:"hero_id"`
	GuildID      uint       `gorm:"not null;index" json:"guild_id"`
	Status       string     `gorm:"size:20;not null;default:'pending'" json:"status"` // pending, accepted
	RequestDate  time.Time  `gorm:"not null" json:"request_date"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	Notes        string     `gorm:"size:500" json:"notes"`
}

// TableName 指定Recruitment表名
func (Recruitment) TableName() string {
	return "recruitment"
}
