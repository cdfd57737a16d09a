package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Revoke is idempotent; revoking the same jti twice is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}).Error
	return translate(err, "revoke token", "Token not found")
}

func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		return false, translate(err, "check revoked token", "Token not found")
	}
	return count > 0, nil
}

// PurgeExpired drops revocations whose token has expired on its own.
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, translate(res.Error, "purge revoked tokens", "Token not found")
	}
	return res.RowsAffected, nil
}
