package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/model"
)

// GroupRepository 小组数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	// GetUngrouped 查询"未分组"哨兵组，不存在时返回 gorm.ErrRecordNotFound
	GetUngrouped(ctx context.Context) (*model.Group, error)
	// ListWithMembers 按创建时间列出所有小组，预加载组员及其用户
	ListWithMembers(ctx context.Context) ([]model.Group, error)
	// ListRegularNames 列出所有非"未分组"小组的名称，供自动分组去重命名
	ListRegularNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// groupRepo GroupRepository 的 GORM 实现
type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetUngrouped(ctx context.Context) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("is_ungrouped = ?", true).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) ListWithMembers(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Members.User").
		Order("created_at ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListRegularNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("is_ungrouped = ?", false).
		Pluck("name", &names).Error
	return names, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		Delete(&model.Group{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *groupRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Group{}).Error
}
