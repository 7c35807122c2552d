package dto

// ── 小组模块 DTO ──

// CreateGroupRequest 创建小组请求
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// RenameGroupRequest 重命名小组请求
type RenameGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// GroupResponse 小组响应（含组员列表）
type GroupResponse struct {
	GroupID     string           `json:"group_id"`
	Name        string           `json:"name"`
	IsUngrouped bool             `json:"is_ungrouped"`
	Members     []MemberResponse `json:"members"`
}

// GroupListResponse 小组列表响应
// TotalMembers / CompletedMembers 统计不含"未分组"，供首页进度展示
type GroupListResponse struct {
	Groups           []GroupResponse `json:"groups"`
	TotalMembers     int             `json:"total_members"`
	CompletedMembers int             `json:"completed_members"`
}
