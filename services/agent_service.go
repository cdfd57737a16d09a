package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

type AgentInput struct {
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	Bio            string           `json:"bio" binding:"max=2000"`
	Phone          string           `json:"phone" binding:"max=30"`
}

type CreateAgentInput struct {
	UserID string `json:"userId"`
	AgentInput
}

type UpdateAgentInput struct {
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	Bio            *string          `json:"bio" binding:"omitempty,max=2000"`
	Phone          *string          `json:"phone" binding:"omitempty,max=30"`
}

type AgentService struct {
	agents   AgentStore
	users    UserStore
	notifier Notifier
	history  Auditor
	metrics  *metrics.Metrics
}

func NewAgentService(agents AgentStore, users UserStore, notifier Notifier, history Auditor, m *metrics.Metrics) *AgentService {
	return &AgentService{
		agents:   agents,
		users:    users,
		notifier: notifier,
		history:  history,
		metrics:  m,
	}
}

// newLicense returns 32 lowercase hex characters.
func newLicense() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func validateCommissionRate(rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return utils.BadRequest("commissionRate must be between 0 and 100")
	}
	return nil
}

// RequestAgent opens a pending agent profile for the caller. A user gets one
// profile ever, whatever happened to the previous request.
func (s *AgentService) RequestAgent(ctx context.Context, actor models.Actor, input AgentInput) (*models.Agent, error) {
	if err := validateCommissionRate(input.CommissionRate); err != nil {
		return nil, err
	}
	exists, err := s.agents.ExistsForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.BadRequest("Agent request already exists for this user")
	}

	agent := &models.Agent{
		UserID: actor.UserID,
		Status: models.AgentPending,
		Bio:    input.Bio,
		Phone:  input.Phone,
	}
	if input.CommissionRate != nil {
		agent.CommissionRate = *input.CommissionRate
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, err
	}

	audit(ctx, s.history, HistoryEntry{Action: models.ActionAgentRequested, UserID: actor.UserID})
	return agent, nil
}

// ApproveAgent approves a pending request, issues its license and grants
// the Agent role in the same transaction. Approving an approved profile
// only repeats the role grant.
func (s *AgentService) ApproveAgent(ctx context.Context, id string) (*models.Agent, error) {
	agent, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch agent.Status {
	case models.AgentRejected:
		return nil, utils.BadRequest("Agent request was rejected")
	case models.AgentApproved:
		if err := s.users.AddRoles(ctx, agent.UserID, models.NewRoleSet(models.RoleAgent)); err != nil {
			return nil, err
		}
		return agent, nil
	}

	agent.Status = models.AgentApproved
	agent.License = newLicense()
	if err := s.agents.Approve(ctx, agent); err != nil {
		return nil, err
	}
	s.metrics.AgentDecision("approved")

	utils.InfoLogger.WithFields(logrus.Fields{"agent": agent.ID, "user": agent.UserID}).Info("Agent approved")
	notify(ctx, s.notifier, SendNotificationInput{
		UserID:       agent.UserID,
		Message:      "Your agent request has been approved",
		AllowedRoles: models.NewRoleSet(models.RoleAgent),
		Purpose:      models.PurposeAgentApproved,
		RelatedID:    agent.ID,
		RelatedModel: models.RelatedAgent,
	})
	audit(ctx, s.history, HistoryEntry{
		Action:  models.ActionAgentApproved,
		UserID:  agent.UserID,
		Details: map[string]interface{}{"agentId": agent.ID},
	})
	return s.agents.FindByID(ctx, id)
}

func (s *AgentService) RejectAgent(ctx context.Context, id string) (*models.Agent, error) {
	agent, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch agent.Status {
	case models.AgentApproved:
		return nil, utils.BadRequest("Agent request was already approved")
	case models.AgentRejected:
		return agent, nil
	}
	if err := s.agents.SetStatus(ctx, id, models.AgentRejected); err != nil {
		return nil, err
	}
	s.metrics.AgentDecision("rejected")
	agent.Status = models.AgentRejected
	return agent, nil
}

// CreateAgent is the admin path: the profile starts approved. UserID
// defaults to the calling admin.
func (s *AgentService) CreateAgent(ctx context.Context, actor models.Actor, input CreateAgentInput) (*models.Agent, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateCommissionRate(input.CommissionRate); err != nil {
		return nil, err
	}
	userID := input.UserID
	if userID == "" {
		userID = actor.UserID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	exists, err := s.agents.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.BadRequest("Agent already exists for this user")
	}

	agent := &models.Agent{
		UserID:  userID,
		Status:  models.AgentApproved,
		License: newLicense(),
		Bio:     input.Bio,
		Phone:   input.Phone,
	}
	if input.CommissionRate != nil {
		agent.CommissionRate = *input.CommissionRate
	}
	if err := s.agents.CreateApproved(ctx, agent); err != nil {
		return nil, err
	}
	return s.agents.FindByID(ctx, agent.ID)
}

func (s *AgentService) FindAll(ctx context.Context) ([]models.Agent, error) {
	return s.agents.ListByStatus(ctx, models.AgentApproved)
}

func (s *AgentService) FindPendingRequests(ctx context.Context) ([]models.Agent, error) {
	return s.agents.ListByStatus(ctx, models.AgentPending)
}

func (s *AgentService) FindOne(ctx context.Context, id string) (*models.Agent, error) {
	return s.agents.FindByID(ctx, id)
}

// Update lets an admin edit any profile and an agent edit their own.
func (s *AgentService) Update(ctx context.Context, actor models.Actor, id string, input UpdateAgentInput) (*models.Agent, error) {
	agent, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(actor, agent.UserID, "Not authorized to update this agent"); err != nil {
		return nil, err
	}
	if err := validateCommissionRate(input.CommissionRate); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.CommissionRate != nil {
		fields["commission_rate"] = *input.CommissionRate
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	return s.agents.Updates(ctx, id, fields)
}

func (s *AgentService) Remove(ctx context.Context, id string) error {
	return s.agents.Delete(ctx, id)
}

// CreditCommission adds amount to the agent's balance.
func (s *AgentService) CreditCommission(ctx context.Context, id string, amount decimal.Decimal) (*models.Agent, error) {
	if !amount.IsPositive() {
		return nil, utils.BadRequest("amount must be positive")
	}
	agent, err := s.agents.CreditBalance(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"agent": id, "amount": amount.String()}).Info("Commission credited")
	return agent, nil
}
