// Package repository holds the gorm-backed stores used by the services.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/gorm"
)

// Page describes a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return q
	}
	return q.Offset(p.offset()).Limit(p.Limit)
}

// translate turns gorm's not-found sentinel into an AppError and wraps
// everything else with the operation name.
func translate(err error, op, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound("%s", notFoundMsg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.Conflict("%s: duplicate key", op)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}

// Store groups the repositories over one connection.
type Store struct {
	db            *gorm.DB
	Users         *UserRepository
	Properties    *PropertyRepository
	Agents        *AgentRepository
	Notifications *NotificationRepository
	History       *HistoryRepository
	Views         *PropertyViewRepository
	Tokens        *TokenRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Properties:    NewPropertyRepository(db),
		Agents:        NewAgentRepository(db),
		Notifications: NewNotificationRepository(db),
		History:       NewHistoryRepository(db),
		Views:         NewPropertyViewRepository(db),
		Tokens:        NewTokenRepository(db),
	}
}

// Ping checks that the underlying connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
