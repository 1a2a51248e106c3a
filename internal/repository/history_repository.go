package repository

import (
	"codex_backend/internal/model"
	"codex_backend/internal/util"
	"context"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Create(ctx context.Context, history *model.History) error {
	return r.DB.WithContext(ctx).Create(history).Error
}

// ListByUser 按创建时间倒序返回最近 limit 条，时间相同时后插入的在前
func (r *HistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.History, error) {
	histories := []model.History{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *HistoryRepository) FindByID(ctx context.Context, id string) (*model.History, error) {
	var history model.History
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&history).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// DeleteByID 物理删除，记录不存在时返回 util.ErrNotFound
func (r *HistoryRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.History{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *HistoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.History{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
