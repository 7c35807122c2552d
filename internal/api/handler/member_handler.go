package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/service"
	"github.com/clover-eric/fenzu-hw/pkg/response"
)

// MemberHandler 组员模块 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// AddMember 添加组员
// POST /api/v1/members
func (h *MemberHandler) AddMember(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "缺少必要参数")
		return
	}

	member, err := h.memberSvc.Add(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// MoveMember 移动组员到目标小组
// POST /api/v1/members/move
func (h *MemberHandler) MoveMember(c *gin.Context) {
	var req dto.MoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "缺少必要参数")
		return
	}

	result, err := h.memberSvc.Move(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteMember 删除组员关系（保留用户账号）
// DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缺少成员ID")
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetStatus 更新完成状态
// POST /api/v1/members/status
// 管理员可更新任意组员；学生仅能更新自己的完成状态
func (h *MemberHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "缺少必要参数")
		return
	}

	if !c.GetBool("is_admin") {
		member, err := h.memberSvc.GetByID(c.Request.Context(), req.MemberID)
		if err != nil {
			h.handleMemberError(c, err)
			return
		}
		if member.UserID != c.GetString("user_id") {
			response.Forbidden(c, 10003, "无权限访问")
			return
		}
	}

	result, err := h.memberSvc.SetStatus(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportMembers 批量导入组员到"未分组"
// POST /api/v1/members/import
func (h *MemberHandler) ImportMembers(c *gin.Context) {
	var req dto.ImportMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14006, "成员列表为空")
		return
	}

	result, err := h.memberSvc.Import(c.Request.Context(), req.Members)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportMembersExcel 从 Excel 花名册批量导入
// POST /api/v1/members/import/excel
func (h *MemberHandler) ImportMembersExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "没有文件被上传")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	names, err := h.memberSvc.ParseRoster(f)
	if err != nil {
		if errors.Is(err, service.ErrEmptyRoster) {
			response.BadRequest(c, 14006, "成员列表为空")
			return
		}
		response.BadRequest(c, 10001, "无效的 Excel 文件")
		return
	}

	result, err := h.memberSvc.Import(c.Request.Context(), names)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, result)
}

// AutoGroup 自动分组
// POST /api/v1/members/auto-group
func (h *MemberHandler) AutoGroup(c *gin.Context) {
	var req dto.AutoGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	groups, err := h.memberSvc.AutoGroup(c.Request.Context(), req.MembersPerGroup)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, gin.H{"groups": groups})
}

// handleMemberError 统一处理组员模块业务错误
func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 14001, "成员不存在")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13001, "小组不存在")
	case errors.Is(err, service.ErrGroupFull):
		response.BadRequest(c, 14002, "小组已满(最多5人)")
	case errors.Is(err, service.ErrMemberExistsInGroup):
		response.BadRequest(c, 14003, "该小组中已存在同名成员")
	case errors.Is(err, service.ErrUserAlreadyGrouped):
		response.BadRequest(c, 14004, "该用户已在其他组中")
	case errors.Is(err, service.ErrNothingToGroup):
		response.BadRequest(c, 14005, "没有未分组的成员")
	case errors.Is(err, service.ErrEmptyRoster):
		response.BadRequest(c, 14006, "成员列表为空")
	default:
		response.InternalError(c)
	}
}
