package model

import "time"

// Task 作业表 — 对应 tasks
// CreatedAt 由服务端写入且不可修改；Deadline 可为空
type Task struct {
	TaskID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Title     string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Content   string     `gorm:"type:text;not null"                             json:"content"`
	Deadline  *time.Time `gorm:""                                               json:"deadline,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
