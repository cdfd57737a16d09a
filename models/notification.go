package models

import (
	"time"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationInApp NotificationType = "in-app"
	NotificationSMS   NotificationType = "sms"
)

type NotificationPurpose string

const (
	PurposePropertyCreated NotificationPurpose = "property_created"
	PurposeAgentApproved   NotificationPurpose = "agent_approved"
	PurposeAgentRejected   NotificationPurpose = "agent_rejected"
	PurposePropertySold    NotificationPurpose = "property_sold"
	PurposePropertyListed  NotificationPurpose = "property_listed"
	PurposeUserRegistered  NotificationPurpose = "user_registered"
	PurposeRoleRequest     NotificationPurpose = "role_request"
	PurposeDealRequest     NotificationPurpose = "deal_request"
	PurposeDealAccepted    NotificationPurpose = "deal_accepted"
)

type RelatedModel string

const (
	RelatedUser        RelatedModel = "User"
	RelatedProperty    RelatedModel = "Property"
	RelatedAgent       RelatedModel = "Agent"
	RelatedTransaction RelatedModel = "Transaction"
)

type Notification struct {
	ID           string              `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID       string              `gorm:"type:varchar(32);not null;index:idx_notification_user_model" json:"userId"`
	Message      string              `gorm:"type:text;not null" json:"message"`
	Type         NotificationType    `gorm:"type:varchar(10);not null;default:'in-app'" json:"type"`
	AllowedRoles RoleSet             `gorm:"not null;default:0" json:"allowedRoles"`
	Purpose      NotificationPurpose `gorm:"type:varchar(30)" json:"purpose,omitempty"`
	RelatedID    string              `gorm:"type:varchar(32)" json:"relatedId,omitempty"`
	RelatedModel RelatedModel        `gorm:"type:varchar(20);index:idx_notification_user_model" json:"relatedModel,omitempty"`
	Read         bool                `gorm:"not null;default:false" json:"read"`
	CreatedAt    time.Time           `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = utils.NewID()
	}
	if n.Type == "" {
		n.Type = NotificationInApp
	}
	if n.AllowedRoles.IsEmpty() {
		n.AllowedRoles = NewRoleSet(RoleAdmin)
	}
	return nil
}
