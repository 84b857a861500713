package service

import (
	"context"
	"fmt"

	"radio-go/internal/dto"
	"radio-go/internal/models"
	"radio-go/internal/patch"
	"radio-go/internal/repository"
)

// ScheduleService 排期管理服务
// 不做时段重叠检查，同一主持人可以有相同时段
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	showRepo     *repository.ShowRepository
	userRepo     *repository.UserRepository
	schema       patch.Schema
}

// NewScheduleService 创建排期服务
func NewScheduleService(scheduleRepo *repository.ScheduleRepository, showRepo *repository.ShowRepository, userRepo *repository.UserRepository) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		showRepo:     showRepo,
		userRepo:     userRepo,
		schema: patch.Schema{
			Fields: []patch.Field{
				patch.ID("showId", "show_id"),
				patch.Custom("dayOfWeek", "day_of_week", func(d models.Weekday) (interface{}, error) {
					return int(d), nil
				}),
				patch.String("startTime", "start_time", "clock"),
				patch.String("endTime", "end_time", "clock"),
				patch.NullableID("hostId", "host_id"),
				patch.Bool("isRecurring", "is_recurring"),
			},
			Touch: true,
		},
	}
}

// ListSchedule 获取排期，day 非空时按星期过滤
func (s *ScheduleService) ListSchedule(ctx context.Context, day *models.Weekday) ([]models.ScheduleItem, error) {
	return s.scheduleRepo.List(ctx, day)
}

// GetScheduleItem 获取单个排期
func (s *ScheduleService) GetScheduleItem(ctx context.Context, id uint) (*models.ScheduleItem, error) {
	item, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return item, nil
}

// CreateScheduleItem 创建排期
func (s *ScheduleService) CreateScheduleItem(ctx context.Context, req *dto.CreateScheduleItemRequest) (*models.ScheduleItem, error) {
	if req.DayOfWeek == nil || !req.DayOfWeek.Valid() {
		return nil, validationError("dayOfWeek必须在0-6之间")
	}
	if err := s.requireShow(ctx, req.ShowID); err != nil {
		return nil, err
	}
	if req.HostID != nil {
		if err := requireUser(ctx, s.userRepo, "hostId", *req.HostID); err != nil {
			return nil, err
		}
	}

	isRecurring := true
	if req.IsRecurring != nil {
		isRecurring = *req.IsRecurring
	}

	item := &models.ScheduleItem{
		ShowID:      req.ShowID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		HostID:      req.HostID,
		IsRecurring: isRecurring,
	}
	if err := s.scheduleRepo.Create(ctx, item); err != nil {
		return nil, storeError(err)
	}

	return s.GetScheduleItem(ctx, item.ID)
}

// UpdateScheduleItem 稀疏更新排期，有字段更新时刷新 updated_at
func (s *ScheduleService) UpdateScheduleItem(ctx context.Context, id uint, p patch.Patch) (*models.ScheduleItem, error) {
	assignments, err := s.schema.Assignments(p)
	if err != nil {
		return nil, patchError(err)
	}

	if len(assignments) > 0 {
		// 目标不存在时优先返回 404，再检查引用
		ok, err := s.scheduleRepo.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("检查排期失败: %w", err)
		}
		if !ok {
			return nil, ErrNotFound
		}
		if showID, ok := assignments["show_id"].(uint); ok {
			if err := s.requireShow(ctx, showID); err != nil {
				return nil, err
			}
		}
		if hostID, ok := assignments["host_id"].(uint); ok {
			if err := requireUser(ctx, s.userRepo, "hostId", hostID); err != nil {
				return nil, err
			}
		}
		if err := s.scheduleRepo.Update(ctx, id, assignments); err != nil {
			return nil, storeError(err)
		}
	}

	return s.GetScheduleItem(ctx, id)
}

// DeleteScheduleItem 删除排期
func (s *ScheduleService) DeleteScheduleItem(ctx context.Context, id uint) error {
	return storeError(s.scheduleRepo.Delete(ctx, id))
}

// requireShow 排期引用的节目必须存在，不存在属于参数错误
func (s *ScheduleService) requireShow(ctx context.Context, id uint) error {
	ok, err := s.showRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("检查节目失败: %w", err)
	}
	if !ok {
		return validationError("showId 引用的节目 %d 不存在", id)
	}
	return nil
}
