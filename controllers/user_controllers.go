package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type UserController struct {
	Service *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Service: svc}
}

// Create -> admin creates an account directly
func (uc *UserController) Create(c *gin.Context) {
	var input services.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Service.CreateUser(c.Request.Context(), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input services.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Service.UpdateProfile(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

func (uc *UserController) FindAll(c *gin.Context) {
	var q services.UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondServiceError(c, utils.BadRequest("%s", err.Error()))
		return
	}
	page, err := uc.Service.FindAll(c.Request.Context(), q)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Users", page)
}

func (uc *UserController) ActiveAgents(c *gin.Context) {
	users, err := uc.Service.FindActiveAgents(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active agents", users)
}

func (uc *UserController) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := uc.Service.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}

func (uc *UserController) UploadProfileImage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondServiceError(c, utils.BadRequest("No file uploaded"))
		return
	}
	user, err := uc.Service.UploadProfileImage(c.Request.Context(), actor, file)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile image uploaded", user)
}

func (uc *UserController) UpdateEmail(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body struct {
		Email           string `json:"email" binding:"required,email"`
		CurrentPassword string `json:"currentPassword" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	user, err := uc.Service.UpdateEmail(c.Request.Context(), actor, body.Email, body.CurrentPassword)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Email updated", user)
}

func (uc *UserController) AdminUpdate(c *gin.Context) {
	var input services.AdminUpdateUserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := uc.Service.AdminUpdate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) RequestRole(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := uc.Service.RequestRole(c.Request.Context(), actor, body.Role); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Role request submitted", nil)
}

// UpgradeRole -> {role, approve}; approve=false removes the role
func (uc *UserController) UpgradeRole(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body struct {
		Role    string `json:"role" binding:"required"`
		Approve *bool  `json:"approve"`
	}
	if !bindJSON(c, &body) {
		return
	}
	approve := body.Approve == nil || *body.Approve
	user, err := uc.Service.UpgradeRole(c.Request.Context(), actor, c.Param("id"), body.Role, approve)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User role updated", user)
}
