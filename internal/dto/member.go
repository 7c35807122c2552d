package dto

// ── 组员模块 DTO ──

// MemberResponse 组员响应
type MemberResponse struct {
	MemberID string `json:"member_id"`
	Username string `json:"username"`
	Status   bool   `json:"status"`
}

// AddMemberRequest 添加组员请求
type AddMemberRequest struct {
	GroupID  string `json:"group_id" binding:"required,uuid"`
	Username string `json:"username" binding:"required,max=80"`
}

// MoveMemberRequest 移动组员请求
type MoveMemberRequest struct {
	MemberID      string `json:"member_id"       binding:"required,uuid"`
	TargetGroupID string `json:"target_group_id" binding:"required,uuid"`
}

// MoveMemberResponse 移动组员响应
// 返回新旧组 ID 供前端局部刷新
type MoveMemberResponse struct {
	Member     MemberResponse `json:"member"`
	OldGroupID string         `json:"old_group_id"`
	NewGroupID string         `json:"new_group_id"`
}

// SetStatusRequest 更新完成状态请求
type SetStatusRequest struct {
	MemberID string `json:"member_id" binding:"required,uuid"`
	Status   *bool  `json:"status"    binding:"required"`
}

// SetStatusResponse 更新完成状态响应
type SetStatusResponse struct {
	MemberID  string `json:"member_id"`
	OldStatus bool   `json:"old_status"`
	NewStatus bool   `json:"new_status"`
}

// ImportMembersRequest 批量导入组员请求
type ImportMembersRequest struct {
	Members []string `json:"members" binding:"required,min=1"`
}

// ImportMembersResponse 批量导入组员响应
// Errors 按输入顺序收集每条失败原因
type ImportMembersResponse struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}

// AutoGroupRequest 自动分组请求
type AutoGroupRequest struct {
	MembersPerGroup int `json:"members_per_group" binding:"omitempty,min=1"`
}

// AutoGroupResult 自动分组产生的单个小组
type AutoGroupResult struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}
