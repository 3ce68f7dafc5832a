package model

import (
	"time"

	"gorm.io/gorm"
)

// RunState 实验进度状态机的会话快照（JSON）。
// 对应原型里浏览器本地存储的角色：乐观写入、失败只记日志；
// 读到损坏的快照就忽略并从默认状态重来，绝不因此报错。
type RunState struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`
	Snapshot  string `gorm:"type:longtext" json:"snapshot"`
}
