package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *models.User `json:"user"`
}

type AuthService struct {
	users  *UserService
	store  UserStore
	tokens TokenStore
	jwt    *utils.TokenManager
}

func NewAuthService(users *UserService, store UserStore, tokens TokenStore, jwt *utils.TokenManager) *AuthService {
	return &AuthService{users: users, store: store, tokens: tokens, jwt: jwt}
}

// Register creates a plain [User] account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.users.CreateUser(ctx, CreateUserInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Roles:     models.NewRoleSet(models.RoleUser),
	})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil || !checkPassword(user.Password, password) {
		return nil, utils.Unauthorized("Invalid credentials")
	}
	if user.Status != models.UserStatusActive {
		return nil, utils.Unauthorized("Account is inactive")
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"user": user.ID}).Info("User logged in")
	return result, nil
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	access, claims, err := s.jwt.GenerateToken(user.ID, user.Email, user.Roles.Ints(), utils.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.jwt.GenerateToken(user.ID, user.Email, user.Roles.Ints(), utils.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         user,
	}, nil
}

// Authenticate validates an access token and checks it was not revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.CustomClaims, error) {
	return s.validate(ctx, token, utils.AccessToken)
}

func (s *AuthService) validate(ctx context.Context, token string, typ utils.TokenType) (*utils.CustomClaims, error) {
	if token == "" {
		return nil, utils.Unauthorized("Authorization token missing")
	}
	claims, err := s.jwt.ParseToken(token, typ)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, utils.Unauthorized("Token has been revoked")
	}
	return claims, nil
}

// Verify returns the account behind a valid token.
func (s *AuthService) Verify(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.Unauthorized("User no longer exists")
	}
	return user, nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair is
// issued with the user's current roles.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.validate(ctx, refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.store.FindByID(ctx, claims.UserID())
	if err != nil || user.Status != models.UserStatusActive {
		return nil, utils.Unauthorized("Invalid refresh token")
	}
	if err := s.tokens.Revoke(ctx, claims.ID, user.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error {
	return s.users.ChangePassword(ctx, actor.UserID, currentPassword, newPassword)
}

// ForgotPassword returns a one-hour reset token, or "" when the email is
// unknown so callers cannot enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil
	}
	token, _, err := s.jwt.GenerateToken(user.ID, user.Email, nil, utils.ResetToken)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.validate(ctx, token, utils.ResetToken)
	if err != nil {
		return err
	}
	if err := s.users.setPassword(ctx, claims.UserID(), newPassword); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.UserID(), claims.ExpiresAt.Time)
}

func (s *AuthService) Logout(ctx context.Context, claims *utils.CustomClaims) error {
	return s.tokens.Revoke(ctx, claims.ID, claims.UserID(), claims.ExpiresAt.Time)
}
