package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type HistoryController struct {
	Service *services.HistoryService
}

func NewHistoryController(svc *services.HistoryService) *HistoryController {
	return &HistoryController{Service: svc}
}

// Log appends an entry for the caller.
func (hc *HistoryController) Log(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var entry services.HistoryEntry
	if !bindJSON(c, &entry) {
		return
	}
	entry.UserID = actor.UserID
	h, err := hc.Service.Log(c.Request.Context(), entry)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "History logged", h)
}

func (hc *HistoryController) GetForUser(c *gin.Context) {
	entries, err := hc.Service.GetForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User history", entries)
}
