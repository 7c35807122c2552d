package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clover-eric/fenzu-hw/config"
	"github.com/clover-eric/fenzu-hw/internal/dto"
	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockRepos, *jwt.Manager) {
	repos := newMockRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	svc := NewAuthService(repos.repo, jwtMgr, nil, zap.NewNop())
	return svc, repos, jwtMgr
}

func addTestUser(repos *mockRepos, username, password string, isAdmin bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{Username: username, PasswordHash: string(hash), IsAdmin: isAdmin}
	_ = repos.users.Create(context.Background(), u)
	return u
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	addTestUser(repos, "admin", "admin", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "admin",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("期望返回 Token 对")
	}
	if result.User == nil || result.User.Username != "admin" || !result.User.IsAdmin {
		t.Errorf("期望返回管理员用户信息，实际: %+v", result.User)
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望TokenType=access，实际=%s", claims.TokenType)
	}
	if !claims.IsAdmin {
		t.Error("期望Claims中IsAdmin=true")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	addTestUser(repos, "admin", "admin", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "x",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	addTestUser(repos, "张三", "张三", false)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "张三",
		Password: "张三",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("期望返回新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	addTestUser(repos, "张三", "张三", false)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "张三",
		Password: "张三",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// AccessToken 不能当作 RefreshToken 使用
	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not.a.token")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_NoRedisDegrades(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	// Redis 为空时登出降级为 no-op，不报错
	if err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Redis 缺失时 Logout 应降级成功: %v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestAuthService_GetCurrentUser_Success(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	u := addTestUser(repos, "张三", "张三", false)

	result, err := svc.GetCurrentUser(context.Background(), u.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Username != "张三" || result.IsAdmin {
		t.Errorf("期望普通用户张三，实际: %+v", result)
	}
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.GetCurrentUser(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	u := addTestUser(repos, "张三", "旧密码123", false)

	err := svc.ChangePassword(context.Background(), u.UserID, &dto.ChangePasswordRequest{
		CurrentPassword: "旧密码123",
		NewPassword:     "新密码456",
		ConfirmPassword: "新密码456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "张三",
		Password: "新密码456",
	}); err != nil {
		t.Errorf("期望新密码可登录: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "张三",
		Password: "旧密码123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望旧密码失效，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_Mismatch(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	u := addTestUser(repos, "张三", "旧密码123", false)

	err := svc.ChangePassword(context.Background(), u.UserID, &dto.ChangePasswordRequest{
		CurrentPassword: "旧密码123",
		NewPassword:     "新密码456",
		ConfirmPassword: "不一致789",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	u := addTestUser(repos, "张三", "旧密码123", false)

	err := svc.ChangePassword(context.Background(), u.UserID, &dto.ChangePasswordRequest{
		CurrentPassword: "错误密码",
		NewPassword:     "新密码456",
		ConfirmPassword: "新密码456",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("期望 ErrWrongPassword，实际: %v", err)
	}
}
