package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/service"
	"github.com/clover-eric/fenzu-hw/pkg/response"
)

// GroupHandler 小组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// ListGroups 获取小组列表（含组员与完成进度）
// GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, groups)
}

// CreateGroup 创建小组
// POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13002, "小组名称不能为空")
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.Created(c, group)
}

// RenameGroup 重命名小组
// PUT /api/v1/groups/:id
func (h *GroupHandler) RenameGroup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "小组ID不能为空")
		return
	}

	var req dto.RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13002, "小组名称不能为空")
		return
	}

	group, err := h.groupSvc.Rename(c.Request.Context(), id, &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// DeleteGroup 删除小组（级联删除组员关系）
// DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "小组ID不能为空")
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetGroups 重置所有小组与组员关系
// POST /api/v1/groups/reset
func (h *GroupHandler) ResetGroups(c *gin.Context) {
	if err := h.groupSvc.Reset(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// handleGroupError 统一处理小组模块业务错误
func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13001, "小组不存在")
	case errors.Is(err, service.ErrGroupNameRequired):
		response.BadRequest(c, 13002, "小组名称不能为空")
	default:
		response.InternalError(c)
	}
}
