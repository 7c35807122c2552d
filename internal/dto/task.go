package dto

// ── 作业模块 DTO ──

// CreateTaskRequest 发布作业请求
// Deadline 使用 "2006-01-02T15:04" 格式，可为空
type CreateTaskRequest struct {
	Title    string `json:"title"    binding:"required,max=200"`
	Content  string `json:"content"  binding:"required"`
	Deadline string `json:"deadline" binding:"omitempty"`
}

// UpdateTaskRequest 更新作业请求（字段缺省时保留原值）
type UpdateTaskRequest struct {
	Title    *string `json:"title"    binding:"omitempty,max=200"`
	Content  *string `json:"content"  binding:"omitempty"`
	Deadline *string `json:"deadline"`
}

// TaskResponse 作业响应
// TotalCount / CompletedCount 为全体组员与已完成组员数，供管理后台展示
type TaskResponse struct {
	TaskID         string `json:"task_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Deadline       string `json:"deadline,omitempty"`
	CreatedAt      string `json:"created_at"`
	TotalCount     int64  `json:"total_count"`
	CompletedCount int64  `json:"completed_count"`
}
