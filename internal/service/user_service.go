package service

import (
	"context"
	"errors"
	"fmt"

	"radio-go/internal/dto"
	"radio-go/internal/models"
	"radio-go/internal/patch"
	"radio-go/internal/repository"
	"radio-go/internal/utils"
)

// UserService 用户管理服务，负责密码哈希和角色序列化
type UserService struct {
	userRepo   *repository.UserRepository
	bcryptCost int
	schema     patch.Schema
}

// NewUserService 创建用户服务
func NewUserService(userRepo *repository.UserRepository, bcryptCost int) *UserService {
	s := &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
	s.schema = patch.Schema{
		Fields: []patch.Field{
			patch.String("username", "username", "username"),
			patch.Custom("password", "password_hash", s.hashPatchedPassword),
			patch.NullableString("fullName", "full_name", "max=100"),
			patch.NullableString("email", "email", "omitempty,email"),
			patch.Custom("roles", "roles", patchedRoles),
			patch.Bool("isActive", "is_active"),
		},
	}
	return s
}

func (s *UserService) hashPatchedPassword(password string) (interface{}, error) {
	if password == "" {
		return nil, errors.New("不能为空")
	}
	return utils.HashPassword(password, s.bcryptCost)
}

func patchedRoles(in []string) (interface{}, error) {
	roles, err := models.NormalizeRoles(in)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, errors.New("至少需要一个角色")
	}
	return roles, nil
}

// ListUsers 获取全部用户
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser 获取单个用户
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// CreateUser 创建用户
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, validationError("用户名和密码不能为空")
	}

	// 验证用户名是否已存在
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	roles, err := models.NormalizeRoles(req.Roles)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if len(roles) == 0 {
		roles = models.Roles{models.RoleUser}
	}

	// 哈希密码
	hashedPassword, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, validationError("密码无效: %v", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Email:        req.Email,
		Roles:        roles,
		IsActive:     isActive,
	}

	// 唯一约束兜底并发创建
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err)
	}

	return user, nil
}

// UpdateUser 稀疏更新用户，空补丁返回当前用户
func (s *UserService) UpdateUser(ctx context.Context, id uint, p patch.Patch) (*models.User, error) {
	assignments, err := s.schema.Assignments(p)
	if err != nil {
		return nil, patchError(err)
	}

	if len(assignments) > 0 {
		if err := s.userRepo.Update(ctx, id, assignments); err != nil {
			return nil, storeError(err)
		}
	}

	return s.GetUser(ctx, id)
}

// DeleteUser 删除用户
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return storeError(s.userRepo.Delete(ctx, id))
}
