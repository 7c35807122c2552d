package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/service"
	"github.com/clover-eric/fenzu-hw/pkg/response"
)

// TaskHandler 作业模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks 获取作业列表（管理后台）
// GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": tasks})
}

// GetLatestTask 获取最新作业（首页展示）
// GET /api/v1/tasks/latest
func (h *TaskHandler) GetLatestTask(c *gin.Context) {
	task, err := h.taskSvc.GetLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			// 尚无作业不是错误，首页照常展示空态
			response.OK(c, nil)
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, task)
}

// CreateTask 发布作业
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "标题和内容不能为空")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// UpdateTask 更新作业
// PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

// DeleteTask 删除作业
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业ID不能为空")
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTaskError 统一处理作业模块业务错误
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 12001, "作业不存在")
	case errors.Is(err, service.ErrInvalidDeadline):
		response.BadRequest(c, 12002, "无效的截止时间格式")
	default:
		response.InternalError(c)
	}
}
