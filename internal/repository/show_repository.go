package repository

import (
	"context"

	"radio-go/internal/models"

	"gorm.io/gorm"
)

// displayNameExpr 关联用户的展示名：全名优先，其次用户名，无关联时为空串
func displayNameExpr(table string) string {
	return "COALESCE(NULLIF(" + table + ".full_name, ''), " + table + ".username, '')"
}

// ShowRepository 节目数据访问层
type ShowRepository struct {
	db *gorm.DB
}

// NewShowRepository 创建节目Repository
func NewShowRepository(db *gorm.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

func (r *ShowRepository) decorated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Show{}).
		Select("shows.*, " + displayNameExpr("users") + " AS creator_name").
		Joins("LEFT JOIN users ON users.id = shows.created_by")
}

// Create 创建节目
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	return translateError(r.db.WithContext(ctx).Create(show).Error)
}

// GetByID 根据ID获取节目，附带创建者名称
func (r *ShowRepository) GetByID(ctx context.Context, id uint) (*models.Show, error) {
	var show models.Show
	if err := r.decorated(ctx).Where("shows.id = ?", id).Take(&show).Error; err != nil {
		return nil, translateError(err)
	}
	return &show, nil
}

// Exists 检查节目是否存在
func (r *ShowRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Show{}, id)
}

// List 获取全部节目，创建者不存在的节目同样返回
func (r *ShowRepository) List(ctx context.Context) ([]models.Show, error) {
	shows := make([]models.Show, 0)
	err := r.decorated(ctx).Order("shows.id ASC").Find(&shows).Error
	return shows, err
}

// Update 按赋值表更新节目
func (r *ShowRepository) Update(ctx context.Context, id uint, assignments map[string]interface{}) error {
	return applyUpdates(ctx, r.db, &models.Show{}, id, assignments)
}

// DeleteWithSchedule 在同一事务中先删除排期再删除节目
func (r *ShowRepository) DeleteWithSchedule(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("show_id = ?", id).Delete(&models.ScheduleItem{}).Error; err != nil {
			return translateError(err)
		}
		return deleteByID(ctx, tx, &models.Show{}, id)
	})
}
