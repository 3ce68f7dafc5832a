package model

import (
	"time"

	"gorm.io/gorm"
)

// RoundFeedback 每轮结束后的问卷（喜好/信任/满意 + NASA-TLX 负荷条目）。
// 全部 1-5 Likert；trust 仅在本轮工作流涉及AI时必填，其余情况留空。
type RoundFeedback struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID  string `gorm:"type:varchar(64);not null;index" json:"session_id"`
	RoundIndex int    `gorm:"not null" json:"round_index"`
	Workflow   string `gorm:"type:varchar(20);index" json:"workflow"`

	Liking         int    `json:"liking"`
	Trust          *int   `json:"trust"`
	Satisfaction   int    `json:"satisfaction"`
	MentalDemand   int    `json:"mental_demand"`
	PhysicalDemand int    `json:"physical_demand"`
	TemporalDemand int    `json:"temporal_demand"`
	Effort         int    `json:"effort"`
	Frustration    int    `json:"frustration"`
	Comment        string `gorm:"type:text" json:"comment"`
}

// SessionFeedback 整场实验结束后的问卷
type SessionFeedback struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`

	Satisfaction   int    `json:"satisfaction"`
	Clarity        int    `json:"clarity"`
	Effort         int    `json:"effort"`
	Frustration    int    `json:"frustration"`
	Recommendation int    `json:"recommendation"`
	WorkflowBest   string `gorm:"type:varchar(20)" json:"workflow_best"`
	Comment        string `gorm:"type:text" json:"comment"`
}
