package service

import (
	"context"
	"fmt"

	"radio-go/internal/config"
	"radio-go/internal/models"
	"radio-go/internal/repository"
	"radio-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// Seeder 保证预置账户存在，重复执行不会产生写入
type Seeder struct {
	userRepo   *repository.UserRepository
	accounts   []config.SeedAccount
	bcryptCost int
	logger     logrus.FieldLogger
}

// NewSeeder 创建预置数据服务
func NewSeeder(userRepo *repository.UserRepository, cfg *config.Config, logger logrus.FieldLogger) *Seeder {
	return &Seeder{
		userRepo:   userRepo,
		accounts:   cfg.Seed.Accounts,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Seed 创建缺失的预置账户，返回新建数量
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, account := range s.accounts {
		exists, err := s.userRepo.ExistsByUsername(ctx, account.Username)
		if err != nil {
			return created, fmt.Errorf("检查预置账户 %s 失败: %w", account.Username, err)
		}
		if exists {
			continue
		}

		user, err := s.newAccount(account)
		if err != nil {
			return created, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("创建预置账户 %s 失败: %w", account.Username, err)
		}

		created++
		s.logger.WithFields(logrus.Fields{
			"username": user.Username,
			"roles":    []string(user.Roles),
		}).Info("已创建预置账户")
	}
	return created, nil
}

func (s *Seeder) newAccount(account config.SeedAccount) (*models.User, error) {
	roles, err := models.NormalizeRoles(account.Roles)
	if err != nil {
		return nil, fmt.Errorf("预置账户 %s 角色无效: %w", account.Username, err)
	}
	if len(roles) == 0 {
		roles = models.Roles{models.RoleUser}
	}

	// 配置中的密码已经是bcrypt哈希时直接使用
	passwordHash := account.Password
	if !utils.IsBcryptHash(passwordHash) {
		passwordHash, err = utils.HashPassword(account.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("预置账户 %s 密码哈希失败: %w", account.Username, err)
		}
	}

	user := &models.User{
		Username:     account.Username,
		PasswordHash: passwordHash,
		Roles:        roles,
		IsActive:     true,
	}
	if account.FullName != "" {
		fullName := account.FullName
		user.FullName = &fullName
	}
	return user, nil
}
