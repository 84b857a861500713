package service

import (
	"context"
	"fmt"

	"radio-go/internal/dto"
	"radio-go/internal/models"
	"radio-go/internal/patch"
	"radio-go/internal/repository"
	"radio-go/internal/utils"
)

// ShowService 节目管理服务
type ShowService struct {
	showRepo     *repository.ShowRepository
	scheduleRepo *repository.ScheduleRepository
	userRepo     *repository.UserRepository
	schema       patch.Schema
}

// NewShowService 创建节目服务
func NewShowService(showRepo *repository.ShowRepository, scheduleRepo *repository.ScheduleRepository, userRepo *repository.UserRepository) *ShowService {
	return &ShowService{
		showRepo:     showRepo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		schema: patch.Schema{
			Fields: []patch.Field{
				patch.String("title", "title", "max=200"),
				patch.NullableString("description", "description", ""),
				patch.NullableString("imageUrl", "image_url", "omitempty,url,max=500"),
				patch.ID("createdBy", "created_by"),
			},
			Touch: true,
		},
	}
}

// ListShows 获取全部节目
func (s *ShowService) ListShows(ctx context.Context) ([]models.Show, error) {
	return s.showRepo.List(ctx)
}

// GetShow 获取单个节目
func (s *ShowService) GetShow(ctx context.Context, id uint) (*models.Show, error) {
	show, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return show, nil
}

// ListShowSchedule 获取节目的排期
func (s *ShowService) ListShowSchedule(ctx context.Context, id uint) ([]models.ScheduleItem, error) {
	if err := s.requireShow(ctx, id); err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByShow(ctx, id)
}

// CreateShow 创建节目
func (s *ShowService) CreateShow(ctx context.Context, req *dto.CreateShowRequest) (*models.Show, error) {
	if req.Title == "" {
		return nil, validationError("title是必填字段")
	}
	if req.ImageURL != nil && *req.ImageURL != "" {
		if err := utils.ValidateVar("imageUrl", *req.ImageURL, "url"); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if err := s.requireUser(ctx, "createdBy", req.CreatedBy); err != nil {
		return nil, err
	}

	show := &models.Show{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.showRepo.Create(ctx, show); err != nil {
		return nil, storeError(err)
	}

	return s.GetShow(ctx, show.ID)
}

// UpdateShow 稀疏更新节目，有字段更新时刷新 updated_at
func (s *ShowService) UpdateShow(ctx context.Context, id uint, p patch.Patch) (*models.Show, error) {
	assignments, err := s.schema.Assignments(p)
	if err != nil {
		return nil, patchError(err)
	}

	if len(assignments) > 0 {
		// 目标不存在时优先返回 404，再检查引用
		if err := s.requireShow(ctx, id); err != nil {
			return nil, err
		}
		if creator, ok := assignments["created_by"].(uint); ok {
			if err := s.requireUser(ctx, "createdBy", creator); err != nil {
				return nil, err
			}
		}
		if err := s.showRepo.Update(ctx, id, assignments); err != nil {
			return nil, storeError(err)
		}
	}

	return s.GetShow(ctx, id)
}

// DeleteShow 删除节目及其全部排期
func (s *ShowService) DeleteShow(ctx context.Context, id uint) error {
	return storeError(s.showRepo.DeleteWithSchedule(ctx, id))
}

func (s *ShowService) requireShow(ctx context.Context, id uint) error {
	ok, err := s.showRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("检查节目失败: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ShowService) requireUser(ctx context.Context, field string, id uint) error {
	return requireUser(ctx, s.userRepo, field, id)
}

// requireUser 引用的用户必须存在
func requireUser(ctx context.Context, userRepo *repository.UserRepository, field string, id uint) error {
	ok, err := userRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("检查用户失败: %w", err)
	}
	if !ok {
		return validationError("%s 引用的用户 %d 不存在", field, id)
	}
	return nil
}
