package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/realestate-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const agentNotFound = "Agent not found"

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(agent).Error
	return translate(err, "create agent", agentNotFound)
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).Preload("User").First(&agent, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find agent", agentNotFound)
	}
	return &agent, nil
}

func (r *AgentRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, translate(err, "count agents", agentNotFound)
	}
	return count > 0, nil
}

func (r *AgentRepository) ListByStatus(ctx context.Context, status models.AgentStatus) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.WithContext(ctx).Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&agents).Error
	if err != nil {
		return nil, translate(err, "list agents", agentNotFound)
	}
	return agents, nil
}

func (r *AgentRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) (*models.Agent, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Agent{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error, "update agent", agentNotFound)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Agent{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete agent", agentNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete agent", agentNotFound)
	}
	return nil
}

// Approve stores the approved profile and grants the Agent role to its user
// in one transaction.
func (r *AgentRepository) Approve(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Agent{}).Where("id = ?", agent.ID).Updates(map[string]interface{}{
			"status":  agent.Status,
			"license": agent.License,
		})
		if res.Error != nil {
			return translate(res.Error, "approve agent", agentNotFound)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "approve agent", agentNotFound)
		}
		return addRoles(tx, agent.UserID, models.NewRoleSet(models.RoleAgent))
	})
}

// CreateApproved inserts an already approved profile together with the
// role grant.
func (r *AgentRepository) CreateApproved(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(agent).Error; err != nil {
			return translate(err, "create agent", agentNotFound)
		}
		return addRoles(tx, agent.UserID, models.NewRoleSet(models.RoleAgent))
	})
}

func (r *AgentRepository) SetStatus(ctx context.Context, id string, status models.AgentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Agent{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "set agent status", agentNotFound)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "set agent status", agentNotFound)
	}
	return nil
}

// CreditBalance adds amount to the stored balance without reading it first.
func (r *AgentRepository) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (*models.Agent, error) {
	res := r.db.WithContext(ctx).Model(&models.Agent{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return nil, translate(res.Error, "credit agent", agentNotFound)
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "credit agent", agentNotFound)
	}
	return r.FindByID(ctx, id)
}
