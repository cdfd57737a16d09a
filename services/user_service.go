package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
	"github.com/yeremiapane/realestate-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const profileUploadFolder = "profile"

type CreateUserInput struct {
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Address   models.Address `json:"address"`
	Roles     models.RoleSet `json:"roles"`
	Status    string         `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateProfileInput struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Phone     *string         `json:"phone"`
	Address   *models.Address `json:"address"`
}

func (in UpdateProfileInput) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if in.FirstName != nil {
		f["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		f["last_name"] = *in.LastName
	}
	if in.Phone != nil {
		f["phone"] = *in.Phone
	}
	if in.Address != nil {
		f["address_street"] = in.Address.Street
		f["address_city"] = in.Address.City
		f["address_state"] = in.Address.State
		f["address_country"] = in.Address.Country
		f["address_zip_code"] = in.Address.ZipCode
	}
	return f
}

type AdminUpdateUserInput struct {
	UpdateProfileInput
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UserListQuery struct {
	Role         string `form:"role"`
	Name         string `form:"name"`
	Email        string `form:"email"`
	CreatedAfter string `form:"createdAfter"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
	Sort         string `form:"sort" binding:"omitempty,oneof=createdAt email firstName lastName"`
	Order        string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// requestableRoles are the roles a user may ask an admin for.
var requestableRoles = models.NewRoleSet(models.RoleSeller, models.RoleBuyer, models.RoleAgent, models.RoleInvestor)

type UserService struct {
	users    UserStore
	uploader Uploader
	notifier Notifier
	history  Auditor
}

func NewUserService(users UserStore, uploader Uploader, notifier Notifier, history Auditor) *UserService {
	return &UserService{users: users, uploader: uploader, notifier: notifier, history: history}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateUser registers a user. Without explicit roles the user gets
// [User]; the new account is announced to admins.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, utils.BadRequest("email and password are required")
	}
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.BadRequest("Email already exists")
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	roles := input.Roles
	if roles.IsEmpty() {
		roles = models.NewRoleSet(models.RoleUser)
	}
	status := models.UserStatus(input.Status)
	if status == "" {
		status = models.UserStatusActive
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		Roles:     roles,
		Status:    status,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Address:   input.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user": user.ID, "email": user.Email}).Info("User created")
	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       user.ID,
		Message:      fmt.Sprintf("New user registered: %s", user.Email),
		AllowedRoles: models.NewRoleSet(models.RoleAdmin),
		Purpose:      models.PurposeUserRegistered,
		RelatedID:    user.ID,
		RelatedModel: models.RelatedUser,
	})
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, input UpdateProfileInput) (*models.User, error) {
	return s.users.Updates(ctx, actor.UserID, input.fields())
}

func (s *UserService) AdminUpdate(ctx context.Context, id string, input AdminUpdateUserInput) (*models.User, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	fields := input.UpdateProfileInput.fields()
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	return s.users.Updates(ctx, id, fields)
}

func (s *UserService) FindAll(ctx context.Context, q UserListQuery) (*UserPage, error) {
	page := normalizePage(q.Page, q.Limit)
	query := repository.UserQuery{
		Name:  strings.TrimSpace(q.Name),
		Email: strings.TrimSpace(q.Email),
		Sort:  q.Sort,
		Desc:  q.Order != "asc",
		Page:  page,
	}
	if q.Role != "" {
		role, err := models.ParseRole(q.Role)
		if err != nil {
			return nil, utils.BadRequest("Invalid role")
		}
		query.Role = role
	}
	if q.CreatedAfter != "" {
		t, err := parseDate(q.CreatedAfter)
		if err != nil {
			return nil, utils.BadRequest("createdAfter must be a date (YYYY-MM-DD) or RFC3339 time")
		}
		query.CreatedAfter = &t
	}

	users, total, err := s.users.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (s *UserService) FindActiveAgents(ctx context.Context) ([]models.User, error) {
	return s.users.ListActiveWithRole(ctx, models.RoleAgent)
}

// DeleteUser removes a non-admin account.
func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Roles.Has(models.RoleAdmin) {
		return utils.Unauthorized("Cannot delete an admin user")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	audit(ctx, s.history, HistoryEntry{
		Action:  models.ActionUserDeleted,
		UserID:  actor.UserID,
		Details: map[string]interface{}{"deletedUserId": id, "email": user.Email},
	})
	return nil
}

// RequestRole asks the admins to grant roleName to the caller.
func (s *UserService) RequestRole(ctx context.Context, actor models.Actor, roleName string) error {
	role, err := models.ParseRole(roleName)
	if err != nil || !requestableRoles.Has(role) {
		return utils.BadRequest("Invalid role")
	}
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if user.Roles.Has(role) {
		return utils.BadRequest("User already has role %s", role)
	}

	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       user.ID,
		Message:      fmt.Sprintf("%s requested the %s role", user.Email, role),
		AllowedRoles: models.NewRoleSet(models.RoleAdmin),
		Purpose:      models.PurposeRoleRequest,
		RelatedID:    user.ID,
		RelatedModel: models.RelatedUser,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:  models.ActionRoleRequested,
		UserID:  user.ID,
		Details: map[string]interface{}{"role": role.String()},
	})
	return nil
}

// UpgradeRole adds roleName to the user when approve is set and removes it
// otherwise.
func (s *UserService) UpgradeRole(ctx context.Context, actor models.Actor, id, roleName string, approve bool) (*models.User, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return nil, utils.BadRequest("Invalid role")
	}
	if !approve && role == models.RoleAdmin && id == actor.UserID {
		return nil, utils.BadRequest("Admins cannot remove their own admin role")
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}

	set := models.NewRoleSet(role)
	if approve {
		err = s.users.AddRoles(ctx, id, set)
	} else {
		err = s.users.RemoveRoles(ctx, id, set)
	}
	if err != nil {
		return nil, err
	}

	audit(ctx, s.history, HistoryEntry{
		Action:  models.ActionRoleChanged,
		UserID:  actor.UserID,
		Details: map[string]interface{}{"targetUserId": id, "role": role.String(), "approve": approve},
	})
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateEmail(ctx context.Context, actor models.Actor, newEmail, currentPassword string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.Password, currentPassword) {
		return nil, utils.Unauthorized("Invalid password")
	}
	email := strings.ToLower(strings.TrimSpace(newEmail))
	if email == user.Email {
		return user, nil
	}
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.BadRequest("Email already exists")
	}
	return s.users.Updates(ctx, user.ID, map[string]interface{}{"email": email})
}

func (s *UserService) UploadProfileImage(ctx context.Context, actor models.Actor, file *multipart.FileHeader) (*models.User, error) {
	if file == nil {
		return nil, utils.BadRequest("No file uploaded")
	}
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	path, err := s.uploader.Upload(ctx, file, profileUploadFolder)
	if err != nil {
		return nil, err
	}
	photos := append(datatypes.JSONSlice[string]{}, user.ProfilePhotos...)
	photos = append(photos, path)
	updated, err := s.users.Updates(ctx, user.ID, map[string]interface{}{"profile_photos": photos})
	if err != nil {
		if rmErr := s.uploader.Remove(ctx, path); rmErr != nil {
			utils.ErrorLogger.Printf("Failed to remove upload %s: %v", path, rmErr)
		}
		return nil, err
	}
	return updated, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.Password, currentPassword) {
		return utils.Unauthorized("Current password is incorrect")
	}
	return s.setPassword(ctx, userID, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return utils.BadRequest("password must be at least 6 characters")
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.users.Updates(ctx, userID, map[string]interface{}{"password": hashed})
	return err
}
