package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User   UserRepository
	Task   TaskRepository
	Group  GroupRepository
	Member MemberRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:   NewUserRepo(db),
		Task:   NewTaskRepo(db),
		Group:  NewGroupRepo(db),
		Member: NewMemberRepo(db),
		db:     db,
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 返回错误时整体回滚
// 单元测试中 db 为空（mock Repository），此时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
