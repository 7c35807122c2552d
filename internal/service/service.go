package service

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/clover-eric/fenzu-hw/config"
	"github.com/clover-eric/fenzu-hw/internal/repository"
	"github.com/clover-eric/fenzu-hw/pkg/jwt"
	"github.com/clover-eric/fenzu-hw/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	Task   TaskService
	Group  GroupService
	Member MemberService
	Upload UploadService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, rdb, logger),
		Task:   NewTaskService(repo, logger),
		Group:  NewGroupService(repo, logger),
		Member: NewMemberService(repo, logger, rng),
		Upload: NewUploadService(cfg, logger),
	}
}
