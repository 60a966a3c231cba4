package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// LeadService manages leads. Every mutation writes its activity-log entry in
// the same transaction as the entity change; a no-op update persists nothing
// and logs nothing.
type LeadService struct {
	BaseService
	leadRepo    portsrepo.LeadRepositoryWithTx
	activityLog portssvc.ActivityLogWriterSvc
}

// NewLeadService creates a new LeadService.
func NewLeadService(lr portsrepo.LeadRepositoryWithTx, al portssvc.ActivityLogWriterSvc) portssvc.LeadSvcFacade {
	return &LeadService{leadRepo: lr, activityLog: al}
}

var _ portssvc.LeadSvcFacade = (*LeadService)(nil)

// CreateLead creates a lead and logs a single creation entry.
func (s *LeadService) CreateLead(ctx context.Context, branchID int64, req dto.CreateLeadRequest, actorID int64) (*domain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("lead name is required")
	}

	now := time.Now()
	lead := domain.Lead{
		BranchID:       branchID,
		Name:           name,
		Phone:          req.Phone,
		Email:          req.Email,
		AssignedUserID: req.AssignedUserID,
		LeadStageID:    req.LeadStageID,
		LeadSourceID:   req.LeadSourceID,
		LeadTypeID:     req.LeadTypeID,
		CustomerTypeID: req.CustomerTypeID,
		ProductID:      req.ProductID,
		EstimatedValue: decimal.Zero,
		StartTime:      req.StartTime,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if req.EstimatedValue != nil {
		lead.EstimatedValue = *req.EstimatedValue
	}

	summary := []string{fmt.Sprintf("Added **name** *%s*", lead.Name)}

	tx, err := s.leadRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leadRepo.Rollback(ctx, tx)

	if err := s.leadRepo.SaveLeadInTx(ctx, tx, &lead); err != nil {
		s.LogError(ctx, err, "Failed to save lead", slog.Int64("branch_id", branchID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, lead.ID, actorID, branchID, "Lead Created", summary); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit lead creation: %w", err)
	}
	s.LogInfo(ctx, "Lead created", slog.Int64("lead_id", lead.ID), slog.Int64("branch_id", branchID))
	return &lead, nil
}

// GetLead retrieves a lead scoped to its branch.
func (s *LeadService) GetLead(ctx context.Context, leadID, branchID int64) (*domain.Lead, error) {
	return s.leadRepo.FindLeadByID(ctx, leadID, branchID)
}

// ListLeads lists a branch's leads with pagination.
func (s *LeadService) ListLeads(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error) {
	return s.leadRepo.ListLeadsByBranch(ctx, branchID, limit, offset)
}

// UpdateLead applies a partial update. Requested values identical to the
// stored ones (timestamps compared at whole-second precision) are not
// changes; when nothing changed, nothing is written and no entry is logged.
func (s *LeadService) UpdateLead(ctx context.Context, leadID, branchID int64, req dto.UpdateLeadRequest, actorID int64) (*domain.Lead, error) {
	lead, err := s.leadRepo.FindLeadByID(ctx, leadID, branchID)
	if err != nil {
		return nil, err
	}

	updated := *lead
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updated.Phone = *req.Phone
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.AssignedUserID != nil {
		updated.AssignedUserID = req.AssignedUserID
	}
	if req.LeadStageID != nil {
		updated.LeadStageID = req.LeadStageID
	}
	if req.LeadSourceID != nil {
		updated.LeadSourceID = req.LeadSourceID
	}
	if req.LeadTypeID != nil {
		updated.LeadTypeID = req.LeadTypeID
	}
	if req.CustomerTypeID != nil {
		updated.CustomerTypeID = req.CustomerTypeID
	}
	if req.ProductID != nil {
		updated.ProductID = req.ProductID
	}
	if req.EstimatedValue != nil {
		updated.EstimatedValue = *req.EstimatedValue
	}
	if req.StartTime != nil {
		updated.StartTime = req.StartTime
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	cs := leadChanges(lead, &updated)
	if cs.empty() {
		s.LogDebug(ctx, "Lead update is a no-op", slog.Int64("lead_id", leadID))
		return lead, nil
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = actorID

	tx, err := s.leadRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leadRepo.Rollback(ctx, tx)

	if err := s.leadRepo.UpdateLeadInTx(ctx, tx, &updated); err != nil {
		s.LogError(ctx, err, "Failed to update lead", slog.Int64("lead_id", leadID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, leadID, actorID, branchID, cs.label("Lead"), cs.summaryLines()); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit lead update: %w", err)
	}
	return &updated, nil
}

// DeleteLead removes a lead and logs the deletion. Log entries keyed by the
// lead's ID survive the delete.
func (s *LeadService) DeleteLead(ctx context.Context, leadID, branchID int64, actorID int64) error {
	lead, err := s.leadRepo.FindLeadByID(ctx, leadID, branchID)
	if err != nil {
		return err
	}

	tx, err := s.leadRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leadRepo.Rollback(ctx, tx)

	if err := s.leadRepo.DeleteLeadInTx(ctx, tx, leadID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to delete lead", slog.Int64("lead_id", leadID))
		return err
	}
	summary := []string{fmt.Sprintf("Removed **name** *%s*", lead.Name)}
	if err := s.activityLog.Record(ctx, tx, leadID, actorID, branchID, "Lead Deleted", summary); err != nil {
		return err
	}

	if err := s.leadRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit lead deletion: %w", err)
	}
	s.LogInfo(ctx, "Lead deleted", slog.Int64("lead_id", leadID), slog.Int64("branch_id", branchID))
	return nil
}

// leadChanges diffs two lead states field by field. Reference fields use the
// labels the renderer maps to lookup kinds, and their values are the raw
// numeric IDs the renderer later resolves to names.
func leadChanges(old, new *domain.Lead) *changeSet {
	cs := &changeSet{}
	cs.track("name", old.Name, new.Name)
	cs.track("phone", old.Phone, new.Phone)
	cs.track("email", old.Email, new.Email)
	cs.track("assigned user", formatInt64Ref(old.AssignedUserID), formatInt64Ref(new.AssignedUserID))
	cs.track("lead stage id", formatInt64Ref(old.LeadStageID), formatInt64Ref(new.LeadStageID))
	cs.track("lead source id", formatInt64Ref(old.LeadSourceID), formatInt64Ref(new.LeadSourceID))
	cs.track("lead type id", formatInt64Ref(old.LeadTypeID), formatInt64Ref(new.LeadTypeID))
	cs.track("customer type id", formatInt64Ref(old.CustomerTypeID), formatInt64Ref(new.CustomerTypeID))
	cs.track("product id", formatInt64Ref(old.ProductID), formatInt64Ref(new.ProductID))
	cs.track("estimated value", formatDecimal(old.EstimatedValue), formatDecimal(new.EstimatedValue))
	cs.track("start time", formatTimestamp(old.StartTime), formatTimestamp(new.StartTime))
	cs.track("notes", old.Notes, new.Notes)
	return cs
}
