package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/internal/repository"
)

// ── 组员模块业务错误 ──

var (
	ErrMemberNotFound      = errors.New("成员不存在")
	ErrGroupFull           = errors.New("小组已满(最多5人)")
	ErrMemberExistsInGroup = errors.New("该小组中已存在同名成员")
	ErrUserAlreadyGrouped  = errors.New("该用户已在其他组中")
	ErrNothingToGroup      = errors.New("没有未分组的成员")
	ErrEmptyRoster         = errors.New("成员列表为空")
)

const (
	// maxGroupSize 普通小组的人数上限；"未分组"不受限
	maxGroupSize = 5
	// defaultMembersPerGroup 自动分组的默认目标组大小
	defaultMembersPerGroup = 5
	// minGroupSize 自动分组时避免产生的最小组人数
	minGroupSize = 2
)

// MemberService 组员业务接口
type MemberService interface {
	// Add 将用户名加入指定小组；用户不存在时自动创建（初始密码 = 用户名）
	Add(ctx context.Context, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	Move(ctx context.Context, req *dto.MoveMemberRequest) (*dto.MoveMemberResponse, error)
	// Delete 仅删除组员关系，用户记录保留
	Delete(ctx context.Context, memberID string) error
	// SetStatus 幂等设置完成状态，返回新旧状态
	SetStatus(ctx context.Context, req *dto.SetStatusRequest) (*dto.SetStatusResponse, error)
	// Import 批量导入到"未分组"；单条失败不中断，错误按输入顺序收集
	Import(ctx context.Context, names []string) (*dto.ImportMembersResponse, error)
	// ParseRoster 解析 Excel 花名册（第一个工作表第一列为用户名）
	ParseRoster(reader io.Reader) ([]string, error)
	// AutoGroup 将"未分组"成员随机均衡分配到新建小组
	AutoGroup(ctx context.Context, membersPerGroup int) ([]dto.AutoGroupResult, error)
	// GetByID 查询单个组员关系（用于完成状态的本人鉴权）
	GetByID(ctx context.Context, memberID string) (*model.GroupMember, error)
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
	rng    *rand.Rand
}

// NewMemberService 创建 MemberService 实例
// rng 由调用方注入，测试中传入固定种子即可让自动分组可复现
func NewMemberService(repo *repository.Repository, logger *zap.Logger, rng *rand.Rand) MemberService {
	return &memberService{repo: repo, logger: logger, rng: rng}
}

// ────────────────────── Add ──────────────────────

func (s *memberService) Add(ctx context.Context, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrEmptyRoster
	}

	var resp *dto.MemberResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 目标小组存在性
		group, err := tx.Group.GetByID(ctx, req.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		// 2. 人数上限（"未分组"不受限）
		if !group.IsUngrouped {
			count, err := tx.Member.CountByGroup(ctx, group.GroupID)
			if err != nil {
				return err
			}
			if count >= maxGroupSize {
				return ErrGroupFull
			}
		}

		// 3. 组内同名防重
		exists, err := tx.Member.ExistsInGroup(ctx, group.GroupID, username)
		if err != nil {
			return err
		}
		if exists {
			return ErrMemberExistsInGroup
		}

		// 4. 全局唯一：已有组员关系的用户不能再次加入
		user, err := tx.User.GetByUsername(ctx, username)
		switch {
		case err == nil:
			if _, err := tx.Member.GetByUserID(ctx, user.UserID); err == nil {
				return ErrUserAlreadyGrouped
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 5. 用户不存在时自动创建，初始密码 = 用户名
			user, err = s.newStudent(username)
			if err != nil {
				return err
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}

		member := &model.GroupMember{
			GroupID: group.GroupID,
			UserID:  user.UserID,
		}
		if err := tx.Member.Create(ctx, member); err != nil {
			return err
		}

		resp = &dto.MemberResponse{
			MemberID: member.MemberID,
			Username: username,
			Status:   member.Status,
		}
		return nil
	})
	if err != nil {
		if !isMemberBizErr(err) {
			s.logger.Error("添加成员失败", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// ────────────────────── Move ──────────────────────

func (s *memberService) Move(ctx context.Context, req *dto.MoveMemberRequest) (*dto.MoveMemberResponse, error) {
	var resp *dto.MoveMemberResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		member, err := tx.Member.GetByID(ctx, req.MemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		target, err := tx.Group.GetByID(ctx, req.TargetGroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		// 移入"未分组"不检查人数
		if !target.IsUngrouped {
			count, err := tx.Member.CountByGroup(ctx, target.GroupID)
			if err != nil {
				return err
			}
			if count >= maxGroupSize {
				return ErrGroupFull
			}
		}

		oldGroupID := member.GroupID
		member.GroupID = target.GroupID
		if err := tx.Member.Update(ctx, member); err != nil {
			return err
		}

		mr := dto.MemberResponse{
			MemberID: member.MemberID,
			Status:   member.Status,
		}
		if member.User != nil {
			mr.Username = member.User.Username
		}
		resp = &dto.MoveMemberResponse{
			Member:     mr,
			OldGroupID: oldGroupID,
			NewGroupID: target.GroupID,
		}
		return nil
	})
	if err != nil {
		if !isMemberBizErr(err) {
			s.logger.Error("移动成员失败", zap.String("member_id", req.MemberID), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *memberService) Delete(ctx context.Context, memberID string) error {
	if err := s.repo.Member.Delete(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("删除成员失败", zap.String("member_id", memberID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *memberService) SetStatus(ctx context.Context, req *dto.SetStatusRequest) (*dto.SetStatusResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("member_id", req.MemberID), zap.Error(err))
		return nil, err
	}

	oldStatus := member.Status
	member.Status = *req.Status
	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.logger.Error("更新完成状态失败", zap.String("member_id", req.MemberID), zap.Error(err))
		return nil, err
	}

	return &dto.SetStatusResponse{
		MemberID:  member.MemberID,
		OldStatus: oldStatus,
		NewStatus: member.Status,
	}, nil
}

func (s *memberService) GetByID(ctx context.Context, memberID string) (*model.GroupMember, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// ────────────────────── Import ──────────────────────

func (s *memberService) Import(ctx context.Context, names []string) (*dto.ImportMembersResponse, error) {
	resp := &dto.ImportMembersResponse{Errors: []string{}}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ungrouped, err := ensureUngrouped(ctx, tx)
		if err != nil {
			return err
		}

		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}

			user, err := tx.User.GetByUsername(ctx, name)
			switch {
			case err == nil:
				// 已有组员关系的用户跳过并记录错误，不中断批次
				if _, err := tx.Member.GetByUserID(ctx, user.UserID); err == nil {
					resp.Errors = append(resp.Errors, fmt.Sprintf("用户 %s 已在其他组中", name))
					continue
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				user, err = s.newStudent(name)
				if err != nil {
					resp.Errors = append(resp.Errors, fmt.Sprintf("导入用户 %s 失败", name))
					continue
				}
				if err := tx.User.Create(ctx, user); err != nil {
					return err
				}
			default:
				return err
			}

			member := &model.GroupMember{
				GroupID: ungrouped.GroupID,
				UserID:  user.UserID,
			}
			if err := tx.Member.Create(ctx, member); err != nil {
				return err
			}
			resp.SuccessCount++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("批量导入失败", zap.Error(err))
		return nil, err
	}

	return resp, nil
}

// ────────────────────── ParseRoster ──────────────────────

func (s *memberService) ParseRoster(reader io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyRoster
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrEmptyRoster
	}

	return names, nil
}

// ═══════════════════════════════════════════════════════════
// AutoGroup — 随机均衡分组
// ═══════════════════════════════════════════════════════════
//
// 算法步骤：
//  1. 取出"未分组"全部成员并随机打乱
//  2. 组数 g = ceil(n / k)
//  3. 当平均人数不足 minGroupSize 时收缩组数，避免产生 1 人小组
//  4. 前 n%g 个组分 n/g+1 人，其余分 n/g 人（组间人数差 ≤ 1）
//  5. 组名按 "Group 1" 递增编号，跳过与现有小组重名的编号
//
// 成员的完成状态在重新分配时保留，不会重置

func (s *memberService) AutoGroup(ctx context.Context, membersPerGroup int) ([]dto.AutoGroupResult, error) {
	if membersPerGroup <= 0 {
		membersPerGroup = defaultMembersPerGroup
	}

	var results []dto.AutoGroupResult
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ungrouped, err := tx.Group.GetUngrouped(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNothingToGroup
			}
			return err
		}

		members, err := tx.Member.ListByGroup(ctx, ungrouped.GroupID)
		if err != nil {
			return err
		}
		n := len(members)
		if n == 0 {
			return ErrNothingToGroup
		}

		s.rng.Shuffle(n, func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})

		numGroups := (n + membersPerGroup - 1) / membersPerGroup
		if numGroups > 1 && float64(n)/float64(numGroups) < minGroupSize {
			numGroups = n / minGroupSize
		}
		if numGroups <= 0 {
			return ErrNothingToGroup
		}

		base := n / numGroups
		extra := n % numGroups

		existingNames, err := tx.Group.ListRegularNames(ctx)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existingNames))
		for _, name := range existingNames {
			taken[name] = true
		}

		// 创建新组，编号跳过已占用的组名
		newGroups := make([]*model.Group, 0, numGroups)
		for i := 0; i < numGroups; i++ {
			number := i + 1
			name := fmt.Sprintf("Group %d", number)
			for taken[name] {
				number++
				name = fmt.Sprintf("Group %d", number)
			}

			group := &model.Group{Name: name}
			if err := tx.Group.Create(ctx, group); err != nil {
				return err
			}
			taken[name] = true
			newGroups = append(newGroups, group)
		}

		// 按大小模式依次分配打乱后的成员
		memberIdx := 0
		results = make([]dto.AutoGroupResult, 0, numGroups)
		for i, group := range newGroups {
			size := base
			if i < extra {
				size++
			}
			for j := 0; j < size; j++ {
				m := &members[memberIdx]
				m.GroupID = group.GroupID
				if err := tx.Member.Update(ctx, m); err != nil {
					return err
				}
				memberIdx++
			}
			results = append(results, dto.AutoGroupResult{
				GroupID:     group.GroupID,
				Name:        group.Name,
				MemberCount: size,
			})
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNothingToGroup) {
			s.logger.Error("自动分组失败", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("自动分组完成", zap.Int("groups", len(results)))
	return results, nil
}

// ── 内部辅助方法 ──

// newStudent 构造新学生账号，初始密码 = 用户名（由学生登录后自行修改）
func (s *memberService) newStudent(username string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}
	return &model.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}, nil
}

// isMemberBizErr 区分业务校验错误与基础设施错误，仅后者记录错误日志
func isMemberBizErr(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrGroupFull) ||
		errors.Is(err, ErrMemberExistsInGroup) ||
		errors.Is(err, ErrUserAlreadyGrouped)
}
