package repository

import (
	"context"

	"radio-go/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository 排期数据访问层
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository 创建排期Repository
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) decorated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ScheduleItem{}).
		Select("schedule.*, COALESCE(shows.title, '') AS show_title, " + displayNameExpr("users") + " AS host_name").
		Joins("LEFT JOIN shows ON shows.id = schedule.show_id").
		Joins("LEFT JOIN users ON users.id = schedule.host_id")
}

// Create 创建排期
func (r *ScheduleRepository) Create(ctx context.Context, item *models.ScheduleItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

// GetByID 根据ID获取排期，附带节目标题和主持人名称
func (r *ScheduleRepository) GetByID(ctx context.Context, id uint) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	if err := r.decorated(ctx).Where("schedule.id = ?", id).Take(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// Exists 检查排期是否存在
func (r *ScheduleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.ScheduleItem{}, id)
}

// List 获取排期，day 非空时只返回该日
func (r *ScheduleRepository) List(ctx context.Context, day *models.Weekday) ([]models.ScheduleItem, error) {
	items := make([]models.ScheduleItem, 0)
	query := r.decorated(ctx)
	if day != nil {
		query = query.Where("schedule.day_of_week = ?", int(*day))
	}
	err := query.Order("schedule.day_of_week ASC, schedule.start_time ASC, schedule.id ASC").Find(&items).Error
	return items, err
}

// ListByShow 获取某个节目的排期
func (r *ScheduleRepository) ListByShow(ctx context.Context, showID uint) ([]models.ScheduleItem, error) {
	items := make([]models.ScheduleItem, 0)
	err := r.decorated(ctx).
		Where("schedule.show_id = ?", showID).
		Order("schedule.day_of_week ASC, schedule.start_time ASC, schedule.id ASC").
		Find(&items).Error
	return items, err
}

// Update 按赋值表更新排期
func (r *ScheduleRepository) Update(ctx context.Context, id uint, assignments map[string]interface{}) error {
	return applyUpdates(ctx, r.db, &models.ScheduleItem{}, id, assignments)
}

// Delete 删除排期
func (r *ScheduleRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.ScheduleItem{}, id)
}
