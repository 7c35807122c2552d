package handler

import "github.com/clover-eric/fenzu-hw/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Task   *TaskHandler
	Group  *GroupHandler
	Member *MemberHandler
	Upload *UploadHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Task:   NewTaskHandler(svc.Task),
		Group:  NewGroupHandler(svc.Group),
		Member: NewMemberHandler(svc.Member),
		Upload: NewUploadHandler(svc.Upload),
	}
}
