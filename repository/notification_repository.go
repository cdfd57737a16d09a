package repository

import (
	"context"

	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
)

const notificationNotFound = "Notification not found"

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error, "create notification", notificationNotFound)
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find notification", notificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepository) ListAll(ctx context.Context) ([]models.Notification, error) {
	var list []models.Notification
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, translate(err, "list notifications", notificationNotFound)
	}
	return list, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "list user notifications", notificationNotFound)
	}
	return list, nil
}

// ListForUserAndModel narrows to records whose audience intersects roles
// when roles is not empty.
func (r *NotificationRepository) ListForUserAndModel(ctx context.Context, userID string, model models.RelatedModel, roles models.RoleSet) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ? AND related_model = ?", userID, model)
	if !roles.IsEmpty() {
		query = query.Where("allowed_roles & ? <> 0", uint8(roles))
	}

	var list []models.Notification
	if err := query.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, translate(err, "list notifications by model", notificationNotFound)
	}
	return list, nil
}

func (r *NotificationRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Notification, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, translate(err, "update notification", notificationNotFound)
	}
	return r.FindByID(ctx, id)
}
