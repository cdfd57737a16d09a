package repository

import (
	"context"

	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, h *models.History) error {
	return translate(r.db.WithContext(ctx).Create(h).Error, "create history", "History not found")
}

func (r *HistoryRepository) ListForUser(ctx context.Context, userID string) ([]models.History, error) {
	var list []models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "list history", "History not found")
	}
	return list, nil
}

type PropertyViewRepository struct {
	db *gorm.DB
}

func NewPropertyViewRepository(db *gorm.DB) *PropertyViewRepository {
	return &PropertyViewRepository{db: db}
}

func (r *PropertyViewRepository) Create(ctx context.Context, v *models.PropertyView) error {
	return translate(r.db.WithContext(ctx).Create(v).Error, "create property view", "View not found")
}

func (r *PropertyViewRepository) ListForProperty(ctx context.Context, propertyID string) ([]models.PropertyView, error) {
	var list []models.PropertyView
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("viewed_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "list property views", "View not found")
	}
	return list, nil
}
