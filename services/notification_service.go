package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/realtime"
	"github.com/yeremiapane/realestate-app/utils"
)

type SendNotificationInput struct {
	UserID       string                     `json:"userId" binding:"required"`
	Message      string                     `json:"message" binding:"required"`
	Type         models.NotificationType    `json:"type" binding:"omitempty,oneof=email in-app sms"`
	AllowedRoles models.RoleSet             `json:"allowedRoles"`
	Purpose      models.NotificationPurpose `json:"purpose" binding:"omitempty,oneof=property_created agent_approved agent_rejected property_sold property_listed user_registered role_request deal_request deal_accepted"`
	RelatedID    string                     `json:"relatedId"`
	RelatedModel models.RelatedModel        `json:"relatedModel" binding:"omitempty,oneof=User Property Agent Transaction"`
}

type NotificationService struct {
	store   NotificationStore
	pusher  Pusher
	metrics *metrics.Metrics
}

// NewNotificationService wires the store and an optional live pusher.
func NewNotificationService(store NotificationStore, pusher Pusher, m *metrics.Metrics) *NotificationService {
	return &NotificationService{store: store, pusher: pusher, metrics: m}
}

// Send persists one record for one recipient and pushes it to the
// recipient's open connections.
func (s *NotificationService) Send(ctx context.Context, input SendNotificationInput) (*models.Notification, error) {
	if input.UserID == "" || input.Message == "" {
		return nil, utils.BadRequest("userId and message are required")
	}

	n := &models.Notification{
		UserID:       input.UserID,
		Message:      input.Message,
		Type:         input.Type,
		AllowedRoles: input.AllowedRoles,
		Purpose:      input.Purpose,
		RelatedID:    input.RelatedID,
		RelatedModel: input.RelatedModel,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}

	s.metrics.NotificationSent(string(n.Purpose))
	delivered := 0
	if s.pusher != nil {
		delivered = s.pusher.Push(n.UserID, realtime.EventNotification, n)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"notification": n.ID,
		"user":         n.UserID,
		"purpose":      n.Purpose,
		"delivered":    delivered,
	}).Info("Notification sent")
	return n, nil
}

func (s *NotificationService) GetAll(ctx context.Context) ([]models.Notification, error) {
	return s.store.ListAll(ctx)
}

func (s *NotificationService) GetForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListForUser(ctx, userID)
}

// GetForUserRolesAndModel returns userID's notifications about model,
// newest first. A non-empty roles set keeps only records whose audience
// intersects it.
func (s *NotificationService) GetForUserRolesAndModel(ctx context.Context, userID string, roles models.RoleSet, model models.RelatedModel) ([]models.Notification, error) {
	return s.store.ListForUserAndModel(ctx, userID, model, roles)
}

func (s *NotificationService) UpdateAllowedRoles(ctx context.Context, id string, roles models.RoleSet) (*models.Notification, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.BadRequest("Notification not found")
		}
		return nil, err
	}
	return s.store.Updates(ctx, id, map[string]interface{}{"allowed_roles": uint8(roles)})
}

// MarkRead flags a notification as read for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id string) (*models.Notification, error) {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, n.UserID, "Not authorized to update this notification"); err != nil {
		return nil, err
	}
	return s.store.Updates(ctx, id, map[string]interface{}{"read": true})
}

// notify sends a side-effect notification. Failures are logged and do not
// fail the calling operation.
func notify(ctx context.Context, notifier Notifier, input SendNotificationInput) {
	if notifier == nil {
		return
	}
	if _, err := notifier.Send(ctx, input); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"user":    input.UserID,
			"purpose": input.Purpose,
		}).Errorf("Failed to send notification: %v", err)
	}
}
