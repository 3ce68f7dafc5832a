package model

import (
	"time"

	"gorm.io/gorm"
)

// Session 一个参与者会话。身份只是客户端生成的不透明ID，无鉴权。
type Session struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ParticipantID string `gorm:"type:varchar(64);not null;index" json:"participant_id"`
	SessionID     string `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`

	// 客户端上报的计划轮数
	TotalTrials int `json:"total_trials"`

	// 会话反馈提交时盖章
	FinishedAt *time.Time `json:"finished_at"`
	TimeMs     int64      `json:"time_ms"`
}
