package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
)

type AgentController struct {
	Service *services.AgentService
}

func NewAgentController(svc *services.AgentService) *AgentController {
	return &AgentController{Service: svc}
}

// RequestAgent -> caller asks to become an agent
func (ac *AgentController) RequestAgent(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input services.AgentInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}
	agent, err := ac.Service.RequestAgent(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Agent request submitted", agent)
}

func (ac *AgentController) Approve(c *gin.Context) {
	agent, err := ac.Service.ApproveAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agent approved", agent)
}

func (ac *AgentController) Reject(c *gin.Context) {
	agent, err := ac.Service.RejectAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agent rejected", agent)
}

func (ac *AgentController) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input services.CreateAgentInput
	if !bindJSON(c, &input) {
		return
	}
	agent, err := ac.Service.CreateAgent(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Agent created", agent)
}

func (ac *AgentController) FindAll(c *gin.Context) {
	agents, err := ac.Service.FindAll(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agents", agents)
}

func (ac *AgentController) PendingRequests(c *gin.Context) {
	agents, err := ac.Service.FindPendingRequests(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending agent requests", agents)
}

func (ac *AgentController) FindOne(c *gin.Context) {
	agent, err := ac.Service.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agent detail", agent)
}

func (ac *AgentController) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input services.UpdateAgentInput
	if !bindJSON(c, &input) {
		return
	}
	agent, err := ac.Service.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agent updated", agent)
}

func (ac *AgentController) Remove(c *gin.Context) {
	if err := ac.Service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Agent deleted", nil)
}

// CreditCommission -> {amount} is added to the agent balance
func (ac *AgentController) CreditCommission(c *gin.Context) {
	var body struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	agent, err := ac.Service.CreditCommission(c.Request.Context(), c.Param("id"), body.Amount)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Commission credited", agent)
}
