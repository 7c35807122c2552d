package model

import "time"

// UngroupedName "未分组"哨兵组的固定名称
const UngroupedName = "未分组"

// Group 小组表 — 对应 groups
// 全局最多一个 is_ungrouped=true 的哨兵组，作为未分配学生的收纳池
type Group struct {
	GroupID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	IsUngrouped bool      `gorm:"not null;default:false"                         json:"is_ungrouped"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Members []GroupMember `gorm:"foreignKey:GroupID;references:GroupID" json:"members,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// GroupMember 组员关系表 — 对应 group_members
// 业务规则保证一个用户同一时间最多持有一条记录
type GroupMember struct {
	MemberID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	GroupID   string    `gorm:"type:uuid;not null"                             json:"group_id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Status    bool      `gorm:"not null;default:false"                         json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (GroupMember) TableName() string { return "group_members" }
