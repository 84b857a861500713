package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"radio-go/internal/config"
	"radio-go/internal/dto"
	"radio-go/internal/models"
	"radio-go/internal/repository"
	"radio-go/internal/utils"
)

// LoginLimiter 登录失败计数器
type LoginLimiter interface {
	// Check 超过限制时返回错误
	Check(ctx context.Context, key string) error
	// Hit 记录一次失败
	Hit(ctx context.Context, key string)
	// Reset 登录成功后清零
	Reset(ctx context.Context, key string)
}

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *utils.JWTManager
	limiter    LoginLimiter
	cfg        *config.Config

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService 创建认证服务，limiter 可以为 nil
func NewAuthService(userRepo *repository.UserRepository, jwtManager *utils.JWTManager, limiter LoginLimiter, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		limiter:    limiter,
		cfg:        cfg,
	}
}

// Authenticate 校验用户名和密码
// 用户不存在、账户停用、密码错误都返回 ErrInvalidCredentials
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("查询用户失败: %w", err)
		}
		// 用户不存在时也做一次哈希比较，避免通过耗时区分
		_ = utils.CheckPassword(password, s.dummy())
		return nil, ErrInvalidCredentials
	}

	// 验证密码
	if user.PasswordHash == "" || utils.CheckPassword(password, user.PasswordHash) != nil {
		return nil, ErrInvalidCredentials
	}

	// 检查用户是否激活
	if !user.IsActive && !s.cfg.Auth.AllowInactiveLogin {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login 用户登录，签发Token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	key := loginKey(req.Username, clientIP)
	if s.limiter != nil {
		if err := s.limiter.Check(ctx, key); err != nil {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) && s.limiter != nil {
			s.limiter.Hit(ctx, key)
		}
		return nil, err
	}
	if s.limiter != nil {
		s.limiter.Reset(ctx, key)
	}

	// 生成Token
	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		User:      dto.NewUserInfo(user),
	}, nil
}

// ResolveUser 按Token中的用户ID重新加载用户
// 用户已删除或已停用时返回 ErrInvalidCredentials，角色以数据库为准
func (s *AuthService) ResolveUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if !user.IsActive && !s.cfg.Auth.AllowInactiveLogin {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := dto.NewUserInfo(user)
	return &info, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("radio-dummy-password", s.cfg.Auth.BcryptCost)
	})
	return s.dummyHash
}

func loginKey(username, clientIP string) string {
	return strings.ToLower(username) + ":" + clientIP
}
