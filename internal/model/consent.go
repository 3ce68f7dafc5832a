package model

import (
	"time"

	"gorm.io/gorm"
)

// Consent 知情同意记录。只存同意书文本的SHA-256摘要，不存原文。
type Consent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ParticipantID string `gorm:"type:varchar(64);not null;index" json:"participant_id"`
	SessionID     string `gorm:"type:varchar(64);not null;index" json:"session_id"`

	Consented   bool   `json:"consented"`
	Version     string `gorm:"type:varchar(40)" json:"version"`
	ConsentHash string `gorm:"type:varchar(64)" json:"consent_hash"`
}
