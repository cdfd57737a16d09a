package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/middlewares"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type AuthController struct {
	Service      *services.AuthService
	SecureCookie bool
}

func NewAuthController(svc *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{Service: svc, SecureCookie: secureCookie}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := ac.Service.Register(c.Request.Context(), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// Login returns a token pair and stores the access token in an http-only
// cookie for browser clients.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	result, err := ac.Service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AccessTokenCookie, result.AccessToken, maxAge, "/", "", ac.SecureCookie, true)
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Verify(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := ac.Service.Verify(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Token is valid", user)
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	result, err := ac.Service.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Token refreshed", result)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := ac.Service.ChangePassword(c.Request.Context(), actor, body.CurrentPassword, body.NewPassword); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password changed", nil)
}

// ForgotPassword answers 200 whether or not the email exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, &body) {
		return
	}
	token, err := ac.Service.ForgotPassword(c.Request.Context(), body.Email)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	data := gin.H{}
	if token != "" {
		data["reset_token"] = token
	}
	utils.RespondJSON(c, http.StatusOK, "If the email exists, a reset token has been issued", data)
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var body struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := ac.Service.ResetPassword(c.Request.Context(), body.Token, body.NewPassword); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password has been reset", nil)
}

func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := middlewares.CurrentClaims(c)
	if !ok {
		utils.RespondServiceError(c, utils.Unauthorized("unauthorized"))
		return
	}
	if err := ac.Service.Logout(c.Request.Context(), claims); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.SetCookie(utils.AccessTokenCookie, "", -1, "/", "", ac.SecureCookie, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
