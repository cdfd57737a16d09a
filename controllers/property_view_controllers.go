package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/middlewares"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type PropertyViewController struct {
	Service *services.PropertyViewService
}

func NewPropertyViewController(svc *services.PropertyViewService) *PropertyViewController {
	return &PropertyViewController{Service: svc}
}

func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}

// RecordView is public; the caller is attached when a token was sent.
func (vc *PropertyViewController) RecordView(c *gin.Context) {
	var body struct {
		PropertyID string `json:"propertyId" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	var userID string
	if actor, ok := middlewares.CurrentActor(c); ok {
		userID = actor.UserID
	}

	view, err := vc.Service.RecordView(c.Request.Context(), body.PropertyID, userID, clientIP(c), c.Request.UserAgent())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "View recorded", view)
}

func (vc *PropertyViewController) ListViews(c *gin.Context) {
	propertyID := c.Query("propertyId")
	if propertyID == "" {
		utils.RespondServiceError(c, utils.BadRequest("propertyId is required"))
		return
	}
	views, err := vc.Service.ListViews(c.Request.Context(), propertyID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Property views", gin.H{
		"views": views,
		"count": len(views),
	})
}
