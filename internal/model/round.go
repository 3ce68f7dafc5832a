package model

import (
	"time"

	"gorm.io/gorm"
)

// Round 一轮写作记录。先 start 建行，submit 时回填文本与指标；
// (session_id, round_index) 唯一，提交接口靠它定位，重复 start 幂等。
type Round struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_round" json:"session_id"`
	RoundIndex int    `gorm:"not null;uniqueIndex:idx_session_round" json:"round_index"`

	// 本轮的协作模式与任务
	Workflow string `gorm:"type:varchar(20);index" json:"workflow"`
	TaskID   string `gorm:"type:varchar(40);index" json:"task_id"`

	// 提交内容
	Text        string     `gorm:"type:longtext" json:"text"`
	SubmittedAt *time.Time `json:"submitted_at"`

	// 服务端复跑校验器得到的指标与逐条报告
	WordCount          int    `json:"word_count"`
	MeetsRequiredWords bool   `json:"meets_required_words"`
	MeetsAvoidWords    bool   `json:"meets_avoid_words"`
	Passed             *bool  `json:"passed"`
	ReportJSON         string `gorm:"type:text" json:"report_json"`
}
