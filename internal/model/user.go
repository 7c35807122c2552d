package model

import "time"

// User 用户表 — 对应 users
// 学生账号在首次被加入小组时自动创建，初始密码等于用户名
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string    `gorm:"type:varchar(80);not null;uniqueIndex"          json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"                         json:"is_admin"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
