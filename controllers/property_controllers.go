package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type PropertyController struct {
	Service *services.PropertyService
}

func NewPropertyController(svc *services.PropertyService) *PropertyController {
	return &PropertyController{Service: svc}
}

// Create accepts either a JSON body or a multipart form. A multipart
// listing comes as plain form fields, a JSON "data" part, or both; keys in
// "data" win over the form fields.
func (pc *PropertyController) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input services.CreatePropertyInput
	var files []*multipart.FileHeader
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			utils.RespondServiceError(c, utils.BadRequest("Invalid multipart form"))
			return
		}
		if err := binding.MapFormWithTag(&input, form.Value, "form"); err != nil {
			utils.RespondServiceError(c, utils.BadRequest("%s", err.Error()))
			return
		}
		if raw := form.Value["data"]; len(raw) > 0 {
			if err := json.Unmarshal([]byte(raw[0]), &input); err != nil {
				utils.RespondServiceError(c, utils.BadRequest("Invalid JSON in \"data\" field"))
				return
			}
		}
		if err := binding.Validator.ValidateStruct(&input); err != nil {
			utils.RespondServiceError(c, utils.BadRequest("%s", err.Error()))
			return
		}
		files = form.File["files"]
	} else if !bindJSON(c, &input) {
		return
	}

	property, err := pc.Service.Create(c.Request.Context(), actor, input, files)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Property created", property)
}

func (pc *PropertyController) FindAll(c *gin.Context) {
	var q services.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondServiceError(c, utils.BadRequest("%s", err.Error()))
		return
	}
	page, err := pc.Service.FindAll(c.Request.Context(), q)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Properties", page)
}

// Filter never rejects a query; malformed ranges are ignored.
func (pc *PropertyController) Filter(c *gin.Context) {
	var q services.FilterQuery
	_ = c.ShouldBindQuery(&q)
	properties, err := pc.Service.FilterProperties(c.Request.Context(), q)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Filtered properties", properties)
}

func (pc *PropertyController) Nearby(c *gin.Context) {
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLng != nil || errLat != nil {
		utils.RespondServiceError(c, utils.BadRequest("lng and lat are required numbers"))
		return
	}
	var radius float64
	if v := c.Query("radiusKm"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.RespondServiceError(c, utils.BadRequest("radiusKm must be a number"))
			return
		}
		radius = r
	}

	nearby, err := pc.Service.Nearby(c.Request.Context(), lng, lat, radius)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Nearby properties", nearby)
}

func (pc *PropertyController) FindOne(c *gin.Context) {
	property, err := pc.Service.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Property detail", property)
}

func (pc *PropertyController) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input services.UpdatePropertyInput
	if !bindJSON(c, &input) {
		return
	}
	property, err := pc.Service.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Property updated", property)
}

func (pc *PropertyController) Remove(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := pc.Service.Remove(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Property deleted", nil)
}

func (pc *PropertyController) UploadImages(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["files"]
	}
	if len(files) == 0 {
		utils.RespondServiceError(c, utils.BadRequest("No files uploaded"))
		return
	}

	paths, err := pc.Service.AddImages(c.Request.Context(), actor, c.Param("id"), files)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Images uploaded", gin.H{"image": paths})
}

func (pc *PropertyController) DealRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var proposal services.DealProposal
	if c.Request.ContentLength != 0 && !bindJSON(c, &proposal) {
		return
	}
	property, err := pc.Service.SendDealRequest(c.Request.Context(), actor, c.Param("id"), proposal)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Deal request sent", property)
}

func (pc *PropertyController) AcceptDeal(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body struct {
		AgentID string `json:"agentId" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	property, err := pc.Service.AcceptDeal(c.Request.Context(), actor, c.Param("id"), body.AgentID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Deal accepted", property)
}

func (pc *PropertyController) Inquiry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var inquiry services.Inquiry
	if !bindJSON(c, &inquiry) {
		return
	}
	if err := pc.Service.RequestInquiry(c.Request.Context(), actor, c.Param("id"), inquiry); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inquiry sent", nil)
}
