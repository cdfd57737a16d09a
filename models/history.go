package models

import (
	"time"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionPropertyCreated = "property_created"
	ActionPropertyDeleted = "property_deleted"
	ActionPropertyInquiry = "property_inquiry"
	ActionImagesAdded     = "property_images_added"
	ActionDealRequested   = "deal_requested"
	ActionDealAccepted    = "deal_accepted"
	ActionAgentRequested  = "agent_requested"
	ActionAgentApproved   = "agent_approved"
	ActionAgentRejected   = "agent_rejected"
	ActionUserDeleted     = "user_deleted"
	ActionRoleRequested   = "role_requested"
	ActionRoleChanged     = "role_changed"
)

// History is an append-only audit entry. Rows are never updated.
type History struct {
	ID         string            `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Action     string            `gorm:"type:varchar(50);not null;index" json:"action"`
	UserID     string            `gorm:"type:varchar(32);not null;index" json:"userId"`
	PropertyID string            `gorm:"type:varchar(32);index" json:"propertyId,omitempty"`
	Details    datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
}

func (History) TableName() string {
	return "histories"
}

func (h *History) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = utils.NewID()
	}
	return nil
}

type PropertyView struct {
	ID         string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	PropertyID string    `gorm:"type:varchar(32);not null;index" json:"propertyId"`
	UserID     string    `gorm:"type:varchar(32);index" json:"userId,omitempty"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ipAddress"`
	UserAgent  string    `gorm:"type:varchar(512)" json:"userAgent"`
	ViewedAt   time.Time `gorm:"index" json:"viewedAt"`
}

func (v *PropertyView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = utils.NewID()
	}
	if v.ViewedAt.IsZero() {
		v.ViewedAt = time.Now()
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RevokedToken{},
		&Property{},
		&Agent{},
		&Notification{},
		&History{},
		&PropertyView{},
	}
}
