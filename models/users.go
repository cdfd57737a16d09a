package models

import (
	"time"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street,omitempty"`
	City    string `gorm:"type:varchar(100)" json:"city,omitempty"`
	State   string `gorm:"type:varchar(100)" json:"state,omitempty"`
	Country string `gorm:"type:varchar(100)" json:"country,omitempty"`
	ZipCode string `gorm:"type:varchar(20)" json:"zipCode,omitempty"`
}

type User struct {
	ID            string                      `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email         string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string                      `gorm:"type:varchar(255);not null" json:"-"`
	Roles         RoleSet                     `gorm:"not null;default:0" json:"roles"`
	Status        UserStatus                  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	FirstName     string                      `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName      string                      `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	Phone         string                      `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address       Address                     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ProfilePhotos datatypes.JSONSlice[string] `json:"profilePhotos"`
	Connections   datatypes.JSONSlice[string] `json:"connections"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.ProfilePhotos == nil {
		u.ProfilePhotos = datatypes.JSONSlice[string]{}
	}
	if u.Connections == nil {
		u.Connections = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Email  string
	Roles  RoleSet
}

func (a Actor) IsAdmin() bool {
	return a.Roles.Has(RoleAdmin)
}

// RevokedToken keeps a logged-out token id until the token would have
// expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `gorm:"type:varchar(32);index"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
