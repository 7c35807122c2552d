package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/internal/repository"
)

// ── 小组模块业务错误 ──

var (
	ErrGroupNotFound     = errors.New("小组不存在")
	ErrGroupNameRequired = errors.New("小组名称不能为空")
)

// GroupService 小组业务接口
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	Rename(ctx context.Context, id string, req *dto.RenameGroupRequest) (*dto.GroupResponse, error)
	// Delete 级联删除组内所有组员关系后删除小组本身；用户记录保留
	Delete(ctx context.Context, id string) error
	// Reset 删除所有组员关系与所有小组（含"未分组"，下次访问时惰性重建）
	Reset(ctx context.Context) error
	// List 列出所有小组及组员，并确保"未分组"哨兵组存在
	List(ctx context.Context) (*dto.GroupListResponse, error)
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group := &model.Group{Name: name}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("创建小组失败", zap.Error(err))
		return nil, err
	}

	return &dto.GroupResponse{
		GroupID: group.GroupID,
		Name:    group.Name,
		Members: []dto.MemberResponse{},
	}, nil
}

func (s *groupService) Rename(ctx context.Context, id string, req *dto.RenameGroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	group.Name = name
	if err := s.repo.Group.Update(ctx, group); err != nil {
		s.logger.Error("重命名小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.GroupResponse{
		GroupID:     group.GroupID,
		Name:        group.Name,
		IsUngrouped: group.IsUngrouped,
	}, nil
}

func (s *groupService) Delete(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Group.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if err := tx.Member.DeleteByGroup(ctx, id); err != nil {
			return err
		}
		return tx.Group.Delete(ctx, id)
	})
	if err != nil && !errors.Is(err, ErrGroupNotFound) {
		s.logger.Error("删除小组失败", zap.String("id", id), zap.Error(err))
	}
	return err
}

func (s *groupService) Reset(ctx context.Context) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Member.DeleteAll(ctx); err != nil {
			return err
		}
		return tx.Group.DeleteAll(ctx)
	})
	if err != nil {
		s.logger.Error("重置小组失败", zap.Error(err))
	}
	return err
}

func (s *groupService) List(ctx context.Context) (*dto.GroupListResponse, error) {
	if _, err := ensureUngrouped(ctx, s.repo); err != nil {
		s.logger.Error("初始化未分组失败", zap.Error(err))
		return nil, err
	}

	groups, err := s.repo.Group.ListWithMembers(ctx)
	if err != nil {
		s.logger.Error("列出小组失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.GroupListResponse{Groups: make([]dto.GroupResponse, 0, len(groups))}
	for i := range groups {
		g := &groups[i]
		gr := dto.GroupResponse{
			GroupID:     g.GroupID,
			Name:        g.Name,
			IsUngrouped: g.IsUngrouped,
			Members:     make([]dto.MemberResponse, 0, len(g.Members)),
		}
		for j := range g.Members {
			m := &g.Members[j]
			mr := dto.MemberResponse{
				MemberID: m.MemberID,
				Status:   m.Status,
			}
			if m.User != nil {
				mr.Username = m.User.Username
			}
			gr.Members = append(gr.Members, mr)

			// 进度统计不含"未分组"
			if !g.IsUngrouped {
				resp.TotalMembers++
				if m.Status {
					resp.CompletedMembers++
				}
			}
		}
		resp.Groups = append(resp.Groups, gr)
	}

	return resp, nil
}

// ensureUngrouped 查询"未分组"哨兵组，不存在时创建
func ensureUngrouped(ctx context.Context, repo *repository.Repository) (*model.Group, error) {
	group, err := repo.Group.GetUngrouped(ctx)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	group = &model.Group{Name: model.UngroupedName, IsUngrouped: true}
	if err := repo.Group.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}
