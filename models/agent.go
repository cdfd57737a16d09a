package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/gorm"
)

type AgentStatus string

const (
	AgentPending  AgentStatus = "pending"
	AgentApproved AgentStatus = "approved"
	AgentRejected AgentStatus = "rejected"
)

// Agent is the agency profile of a user. A user owns at most one.
type Agent struct {
	ID             string          `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID         string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"userId"`
	User           *User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Status         AgentStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	License        string          `gorm:"type:varchar(32)" json:"license,omitempty"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commissionRate"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	Bio            string          `gorm:"type:text" json:"bio,omitempty"`
	Phone          string          `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.NewID()
	}
	if a.Status == "" {
		a.Status = AgentPending
	}
	return nil
}
