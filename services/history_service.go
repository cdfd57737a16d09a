package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/datatypes"
)

type HistoryEntry struct {
	Action     string                 `json:"action" binding:"required"`
	UserID     string                 `json:"-"`
	PropertyID string                 `json:"propertyId"`
	Details    map[string]interface{} `json:"details"`
}

type HistoryService struct {
	store HistoryStore
}

func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) Log(ctx context.Context, entry HistoryEntry) (*models.History, error) {
	if entry.Action == "" || entry.UserID == "" {
		return nil, utils.BadRequest("action and userId are required")
	}
	h := &models.History{
		Action:     entry.Action,
		UserID:     entry.UserID,
		PropertyID: entry.PropertyID,
	}
	if len(entry.Details) > 0 {
		h.Details = datatypes.JSONMap(entry.Details)
	}
	if err := s.store.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HistoryService) GetForUser(ctx context.Context, userID string) ([]models.History, error) {
	return s.store.ListForUser(ctx, userID)
}

func audit(ctx context.Context, auditor Auditor, entry HistoryEntry) {
	if auditor == nil {
		return
	}
	if _, err := auditor.Log(ctx, entry); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"action": entry.Action,
			"user":   entry.UserID,
		}).Errorf("Failed to write history: %v", err)
	}
}
