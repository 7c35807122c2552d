package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/internal/repository"
)

// ── 作业模块业务错误 ──

var (
	ErrTaskNotFound    = errors.New("作业不存在")
	ErrInvalidDeadline = errors.New("无效的截止时间格式")
)

// 前端传入的截止时间格式（datetime-local 控件）
const deadlineLayout = "2006-01-02T15:04"

// TaskService 作业业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
	// List 按发布时间倒序列出所有作业，附带全体组员完成度
	List(ctx context.Context) ([]dto.TaskResponse, error)
	// GetLatest 获取最新发布的作业（首页展示），无作业时返回 ErrTaskNotFound
	GetLatest(ctx context.Context) (*dto.TaskResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:    req.Title,
		Content:  req.Content,
		Deadline: deadline,
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建作业失败", zap.Error(err))
		return nil, err
	}

	return s.toTaskResponse(ctx, task), nil
}

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Content != nil {
		task.Content = *req.Content
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			return nil, err
		}
		task.Deadline = deadline
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTaskResponse(ctx, task), nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("删除作业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *taskService) List(ctx context.Context) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.List(ctx)
	if err != nil {
		s.logger.Error("列出作业失败", zap.Error(err))
		return nil, err
	}

	// 完成度对所有作业相同（完成状态挂在组员身上，而非按作业记录）
	total, err := s.repo.Member.Count(ctx)
	if err != nil {
		s.logger.Error("统计组员数失败", zap.Error(err))
		return nil, err
	}
	completed, err := s.repo.Member.CountCompleted(ctx)
	if err != nil {
		s.logger.Error("统计已完成组员数失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp := toTaskDTO(&tasks[i])
		resp.TotalCount = total
		resp.CompletedCount = completed
		result = append(result, resp)
	}

	return result, nil
}

func (s *taskService) GetLatest(ctx context.Context) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询最新作业失败", zap.Error(err))
		return nil, err
	}

	return s.toTaskResponse(ctx, task), nil
}

// ── 内部辅助方法 ──

func (s *taskService) toTaskResponse(ctx context.Context, task *model.Task) *dto.TaskResponse {
	resp := toTaskDTO(task)
	resp.TotalCount, _ = s.repo.Member.Count(ctx)
	resp.CompletedCount, _ = s.repo.Member.CountCompleted(ctx)
	return &resp
}

func toTaskDTO(task *model.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		TaskID:    task.TaskID,
		Title:     task.Title,
		Content:   task.Content,
		CreatedAt: task.CreatedAt.Format("2006-01-02 15:04"),
	}
	if task.Deadline != nil {
		resp.Deadline = task.Deadline.Format("2006-01-02 15:04")
	}
	return resp
}

func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(deadlineLayout, raw, time.Local)
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	return &t, nil
}
