package repository

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
)

const userNotFound = "User not found"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserQuery filters the admin user listing.
type UserQuery struct {
	Role         models.Role
	Name         string
	Email        string
	CreatedAfter *time.Time
	Sort         string
	Desc         bool
	Page
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user", userNotFound)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user", userNotFound)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, translate(err, "find user by email", userNotFound)
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		return false, translate(err, "count users by email", userNotFound)
	}
	return count > 0, nil
}

// Updates applies a partial update and returns the fresh row.
func (r *UserRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err, "update user", userNotFound)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "save user", userNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete user", userNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete user", userNotFound)
	}
	return nil
}

// AddRoles unions roles into the stored set in one statement.
func (r *UserRepository) AddRoles(ctx context.Context, id string, roles models.RoleSet) error {
	return addRoles(r.db.WithContext(ctx), id, roles)
}

func addRoles(db *gorm.DB, id string, roles models.RoleSet) error {
	res := db.Model(&models.User{}).Where("id = ?", id).
		Update("roles", gorm.Expr("roles | ?", uint8(roles)))
	if res.Error != nil {
		return translate(res.Error, "add roles", userNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "add roles", userNotFound)
	}
	return nil
}

func (r *UserRepository) RemoveRoles(ctx context.Context, id string, roles models.RoleSet) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("roles", gorm.Expr("roles & ?", uint8(^roles)))
	if res.Error != nil {
		return translate(res.Error, "remove roles", userNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "remove roles", userNotFound)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, q UserQuery) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if q.Role.Valid() {
		query = query.Where("roles & ? <> 0", uint8(models.NewRoleSet(q.Role)))
	}
	if q.Name != "" {
		like := "%" + strings.ToLower(q.Name) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}
	if q.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(q.Email)+"%")
	}
	if q.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *q.CreatedAfter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count users", userNotFound)
	}

	column, ok := userSortColumns[q.Sort]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if q.Desc {
		direction = " DESC"
	}

	var users []models.User
	if err := q.Page.apply(query.Order(column + direction)).Find(&users).Error; err != nil {
		return nil, 0, translate(err, "list users", userNotFound)
	}
	return users, total, nil
}

// ListActiveWithRole returns active users holding role, newest first.
func (r *UserRepository) ListActiveWithRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("status = ? AND roles & ? <> 0", models.UserStatusActive, uint8(models.NewRoleSet(role))).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "list users by role", userNotFound)
	}
	return users, nil
}
