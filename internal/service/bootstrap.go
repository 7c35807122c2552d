package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/config"
	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/internal/repository"
)

// 首次初始化时预置的普通小组数量
const defaultSeedGroups = 12

// Bootstrap 幂等的启动初始化
// 在开始对外服务前调用一次：确保管理员账号存在；数据库为空时
// 预置"未分组"与 12 个默认小组。重复执行不会产生副作用。
func Bootstrap(ctx context.Context, cfg *config.Config, repo *repository.Repository, logger *zap.Logger) error {
	// 1. 管理员账号
	_, err := repo.User.GetByUsername(ctx, cfg.Admin.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("管理员密码哈希失败: %w", err)
		}
		admin := &model.User{
			Username:     cfg.Admin.Username,
			PasswordHash: string(hash),
			IsAdmin:      true,
		}
		if err := repo.User.Create(ctx, admin); err != nil {
			return fmt.Errorf("创建管理员账号失败: %w", err)
		}
		logger.Info("已创建默认管理员账号", zap.String("username", cfg.Admin.Username))
	} else if err != nil {
		return fmt.Errorf("查询管理员账号失败: %w", err)
	}

	// 2. 小组预置（仅当一个小组都不存在时）
	groups, err := repo.Group.ListWithMembers(ctx)
	if err != nil {
		return fmt.Errorf("查询小组失败: %w", err)
	}
	if len(groups) > 0 {
		return nil
	}

	return repo.Transaction(ctx, func(tx *repository.Repository) error {
		ungrouped := &model.Group{Name: model.UngroupedName, IsUngrouped: true}
		if err := tx.Group.Create(ctx, ungrouped); err != nil {
			return fmt.Errorf("创建未分组失败: %w", err)
		}
		for i := 1; i <= defaultSeedGroups; i++ {
			group := &model.Group{Name: fmt.Sprintf("第%d组", i)}
			if err := tx.Group.Create(ctx, group); err != nil {
				return fmt.Errorf("创建默认小组失败: %w", err)
			}
		}
		logger.Info("已预置默认小组", zap.Int("count", defaultSeedGroups))
		return nil
	})
}
