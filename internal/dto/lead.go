package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// CreateLeadRequest creates a lead in the branch resolved from the request context.
type CreateLeadRequest struct {
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" binding:"omitempty,email"`
	AssignedUserID *int64           `json:"assigned_user_id"`
	LeadStageID    *int64           `json:"lead_stage_id"`
	LeadSourceID   *int64           `json:"lead_source_id"`
	LeadTypeID     *int64           `json:"lead_type_id"`
	CustomerTypeID *int64           `json:"customer_type_id"`
	ProductID      *int64           `json:"product_id"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	StartTime      *time.Time       `json:"start_time"`
	Notes          string           `json:"notes"`
}

// UpdateLeadRequest is a partial update; nil fields are left untouched.
type UpdateLeadRequest struct {
	Name           *string          `json:"name"`
	Phone          *string          `json:"phone"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	AssignedUserID *int64           `json:"assigned_user_id"`
	LeadStageID    *int64           `json:"lead_stage_id"`
	LeadSourceID   *int64           `json:"lead_source_id"`
	LeadTypeID     *int64           `json:"lead_type_id"`
	CustomerTypeID *int64           `json:"customer_type_id"`
	ProductID      *int64           `json:"product_id"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	StartTime      *time.Time       `json:"start_time"`
	Notes          *string          `json:"notes"`
}

// LeadResponse is the wire shape of a lead.
type LeadResponse struct {
	ID             int64           `json:"id"`
	BranchID       int64           `json:"branch_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	AssignedUserID *int64          `json:"assigned_user_id"`
	LeadStageID    *int64          `json:"lead_stage_id"`
	LeadSourceID   *int64          `json:"lead_source_id"`
	LeadTypeID     *int64          `json:"lead_type_id"`
	CustomerTypeID *int64          `json:"customer_type_id"`
	ProductID      *int64          `json:"product_id"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	StartTime      *time.Time      `json:"start_time"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToLeadResponse converts a domain lead to its wire shape.
func ToLeadResponse(l *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		BranchID:       l.BranchID,
		Name:           l.Name,
		Phone:          l.Phone,
		Email:          l.Email,
		AssignedUserID: l.AssignedUserID,
		LeadStageID:    l.LeadStageID,
		LeadSourceID:   l.LeadSourceID,
		LeadTypeID:     l.LeadTypeID,
		CustomerTypeID: l.CustomerTypeID,
		ProductID:      l.ProductID,
		EstimatedValue: l.EstimatedValue,
		StartTime:      l.StartTime,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.LastUpdatedAt,
	}
}

// ToLeadResponses converts a slice of domain leads.
func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = ToLeadResponse(&leads[i])
	}
	return out
}
