package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/middlewares"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

// currentActor writes a 401 and reports false when no caller is attached.
func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondServiceError(c, utils.Unauthorized("unauthorized"))
		return models.Actor{}, false
	}
	return actor, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondServiceError(c, utils.BadRequest("%s", err.Error()))
		return false
	}
	return true
}
