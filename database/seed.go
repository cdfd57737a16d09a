package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     models.RoleSet
}

var DefaultSeedUsers = []SeedUser{
	{Email: "admin@example.com", Password: "admin123", FirstName: "Admin", LastName: "User", Roles: models.NewRoleSet(models.RoleAdmin)},
	{Email: "user@example.com", Password: "user123", FirstName: "Regular", LastName: "User", Roles: models.NewRoleSet(models.RoleUser)},
}

// SeedUsers inserts the given accounts unless their email already exists,
// and returns how many were created.
func SeedUsers(ctx context.Context, db *gorm.DB, users []SeedUser) (int, error) {
	created := 0
	for _, su := range users {
		var existing models.User
		err := db.WithContext(ctx).Where("email = ?", su.Email).First(&existing).Error
		if err == nil {
			utils.InfoLogger.Printf("Seed user %s already exists", su.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("database: seed lookup %s: %w", su.Email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, fmt.Errorf("database: hash seed password: %w", err)
		}
		user := models.User{
			Email:     su.Email,
			Password:  string(hashed),
			Roles:     su.Roles,
			Status:    models.UserStatusActive,
			FirstName: su.FirstName,
			LastName:  su.LastName,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return created, fmt.Errorf("database: seed %s: %w", su.Email, err)
		}
		utils.InfoLogger.Printf("Seeded user %s", su.Email)
		created++
	}
	return created, nil
}
