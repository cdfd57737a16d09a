package services

import (
	"context"

	"github.com/yeremiapane/realestate-app/models"
)

type PropertyViewService struct {
	views      PropertyViewStore
	properties PropertyStore
}

func NewPropertyViewService(views PropertyViewStore, properties PropertyStore) *PropertyViewService {
	return &PropertyViewService{views: views, properties: properties}
}

// RecordView logs a public view of an existing property. userID is empty
// for anonymous visitors.
func (s *PropertyViewService) RecordView(ctx context.Context, propertyID, userID, ip, userAgent string) (*models.PropertyView, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	view := &models.PropertyView{
		PropertyID: propertyID,
		UserID:     userID,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := s.views.Create(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *PropertyViewService) ListViews(ctx context.Context, propertyID string) ([]models.PropertyView, error) {
	return s.views.ListForProperty(ctx, propertyID)
}
