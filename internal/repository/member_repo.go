package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/model"
)

// MemberRepository 组员关系数据访问接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.GroupMember) error
	// GetByID 查询组员关系，预加载所属用户
	GetByID(ctx context.Context, id string) (*model.GroupMember, error)
	// GetByUserID 查询某用户的组员关系（全局最多一条），无则返回 gorm.ErrRecordNotFound
	GetByUserID(ctx context.Context, userID string) (*model.GroupMember, error)
	// ExistsInGroup 检查指定小组中是否已有同名用户的组员
	ExistsInGroup(ctx context.Context, groupID, username string) (bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]model.GroupMember, error)
	CountByGroup(ctx context.Context, groupID string) (int64, error)
	// Count / CountCompleted 全体组员数与已完成数，供作业完成度统计
	Count(ctx context.Context) (int64, error)
	CountCompleted(ctx context.Context) (int64, error)
	Update(ctx context.Context, member *model.GroupMember) error
	Delete(ctx context.Context, id string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	DeleteAll(ctx context.Context) error
}

// memberRepo MemberRepository 的 GORM 实现
type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.GroupMember, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("member_id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByUserID(ctx context.Context, userID string) (*model.GroupMember, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) ExistsInGroup(ctx context.Context, groupID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Joins("JOIN users ON users.user_id = group_members.user_id").
		Where("group_members.group_id = ? AND users.username = ?", groupID, username).
		Count(&count).Error
	return count > 0, err
}

func (r *memberRepo) ListByGroup(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepo) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *memberRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Count(&count).Error
	return count, err
}

func (r *memberRepo) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("status = ?", true).
		Count(&count).Error
	return count, err
}

func (r *memberRepo) Update(ctx context.Context, member *model.GroupMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("member_id = ?", id).
		Delete(&model.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepo) DeleteByGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.GroupMember{}).Error
}

func (r *memberRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.GroupMember{}).Error
}
