package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type NotificationController struct {
	Service *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{Service: svc}
}

// Send -> admin creates a notification for one user
func (nc *NotificationController) Send(c *gin.Context) {
	var input services.SendNotificationInput
	if !bindJSON(c, &input) {
		return
	}
	n, err := nc.Service.Send(c.Request.Context(), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Notification created", n)
}

func (nc *NotificationController) GetAll(c *gin.Context) {
	notifs, err := nc.Service.GetAll(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

func (nc *NotificationController) GetForUser(c *gin.Context) {
	notifs, err := nc.Service.GetForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User notifications", notifs)
}

// GetForUserRolesAndModel -> ?roles=1,5 narrows by audience
func (nc *NotificationController) GetForUserRolesAndModel(c *gin.Context) {
	roles, err := models.ParseRoleList(c.Query("roles"))
	if err != nil {
		utils.RespondServiceError(c, utils.BadRequest("Invalid roles"))
		return
	}
	model := models.RelatedModel(c.Param("model"))
	notifs, err := nc.Service.GetForUserRolesAndModel(c.Request.Context(), c.Param("userId"), roles, model)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User notifications", notifs)
}

func (nc *NotificationController) UpdateAllowedRoles(c *gin.Context) {
	var body struct {
		AllowedRoles models.RoleSet `json:"allowedRoles"`
	}
	if !bindJSON(c, &body) {
		return
	}
	n, err := nc.Service.UpdateAllowedRoles(c.Request.Context(), c.Param("id"), body.AllowedRoles)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification updated", n)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	n, err := nc.Service.MarkRead(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", n)
}
