package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
)

// The interfaces below are what the services need from persistence and the
// outside world. repository.* and DiskUploader satisfy them in production.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	Delete(ctx context.Context, id string) error
	AddRoles(ctx context.Context, id string, roles models.RoleSet) error
	RemoveRoles(ctx context.Context, id string, roles models.RoleSet) error
	List(ctx context.Context, q repository.UserQuery) ([]models.User, int64, error)
	ListActiveWithRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id string) (*models.Property, error)
	SaveColumns(ctx context.Context, p *models.Property, columns ...string) error
	Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Property, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, s repository.PropertySearch) ([]models.Property, int64, error)
	Filter(ctx context.Context, f repository.PropertyFilter) ([]models.Property, error)
	WithinBox(ctx context.Context, box repository.BoundingBox) ([]models.Property, error)
}

type AgentStore interface {
	Create(ctx context.Context, agent *models.Agent) error
	CreateApproved(ctx context.Context, agent *models.Agent) error
	FindByID(ctx context.Context, id string) (*models.Agent, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	ListByStatus(ctx context.Context, status models.AgentStatus) ([]models.Agent, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Agent, error)
	Approve(ctx context.Context, agent *models.Agent) error
	SetStatus(ctx context.Context, id string, status models.AgentStatus) error
	CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (*models.Agent, error)
	Delete(ctx context.Context, id string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	ListAll(ctx context.Context) ([]models.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	ListForUserAndModel(ctx context.Context, userID string, model models.RelatedModel, roles models.RoleSet) ([]models.Notification, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Notification, error)
}

type HistoryStore interface {
	Create(ctx context.Context, h *models.History) error
	ListForUser(ctx context.Context, userID string) ([]models.History, error)
}

type PropertyViewStore interface {
	Create(ctx context.Context, v *models.PropertyView) error
	ListForProperty(ctx context.Context, propertyID string) ([]models.PropertyView, error)
}

type TokenStore interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Uploader stores a file under folder and returns its public path.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Remove(ctx context.Context, path string) error
}

// Notifier delivers a notification record.
type Notifier interface {
	Send(ctx context.Context, input SendNotificationInput) (*models.Notification, error)
}

// Auditor appends history entries.
type Auditor interface {
	Log(ctx context.Context, entry HistoryEntry) (*models.History, error)
}

// Pusher forwards an event to the live connections of a user.
type Pusher interface {
	Push(userID, event string, payload interface{}) int
}
