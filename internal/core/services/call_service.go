package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// CallService manages call records with the same log-in-transaction and
// no-op-suppression contract as leads.
type CallService struct {
	BaseService
	callRepo    portsrepo.CallRepositoryWithTx
	leadRepo    portsrepo.LeadReader
	activityLog portssvc.ActivityLogWriterSvc
}

// NewCallService creates a new CallService.
func NewCallService(cr portsrepo.CallRepositoryWithTx, lr portsrepo.LeadReader, al portssvc.ActivityLogWriterSvc) portssvc.CallSvcFacade {
	return &CallService{callRepo: cr, leadRepo: lr, activityLog: al}
}

var _ portssvc.CallSvcFacade = (*CallService)(nil)

// CreateCall creates a call under a lead.
func (s *CallService) CreateCall(ctx context.Context, branchID int64, req dto.CreateCallRequest, actorID int64) (*domain.Call, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationFailedError("call subject is required")
	}
	if _, err := s.leadRepo.FindLeadByID(ctx, req.LeadID, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	call := domain.Call{
		BranchID:       branchID,
		LeadID:         req.LeadID,
		Subject:        subject,
		Outcome:        req.Outcome,
		AssignedUserID: req.AssignedUserID,
		ScheduledAt:    req.ScheduledAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	summary := []string{fmt.Sprintf("Added **subject** *%s*", call.Subject)}

	tx, err := s.callRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.callRepo.Rollback(ctx, tx)

	if err := s.callRepo.SaveCallInTx(ctx, tx, &call); err != nil {
		s.LogError(ctx, err, "Failed to save call", slog.Int64("lead_id", req.LeadID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, call.ID, actorID, branchID, "Call Created", summary); err != nil {
		return nil, err
	}

	if err := s.callRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit call creation: %w", err)
	}
	s.LogInfo(ctx, "Call created", slog.Int64("call_id", call.ID), slog.Int64("lead_id", req.LeadID))
	return &call, nil
}

// GetCall retrieves a call scoped to its branch.
func (s *CallService) GetCall(ctx context.Context, callID, branchID int64) (*domain.Call, error) {
	return s.callRepo.FindCallByID(ctx, callID, branchID)
}

// ListLeadCalls lists a lead's calls.
func (s *CallService) ListLeadCalls(ctx context.Context, leadID, branchID int64) ([]domain.Call, error) {
	return s.callRepo.ListCallsByLead(ctx, leadID, branchID)
}

// UpdateCall applies a partial update, suppressing no-ops.
func (s *CallService) UpdateCall(ctx context.Context, callID, branchID int64, req dto.UpdateCallRequest, actorID int64) (*domain.Call, error) {
	call, err := s.callRepo.FindCallByID(ctx, callID, branchID)
	if err != nil {
		return nil, err
	}

	updated := *call
	if req.Subject != nil {
		updated.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Outcome != nil {
		updated.Outcome = *req.Outcome
	}
	if req.AssignedUserID != nil {
		updated.AssignedUserID = req.AssignedUserID
	}
	if req.ScheduledAt != nil {
		updated.ScheduledAt = req.ScheduledAt
	}

	cs := callChanges(call, &updated)
	if cs.empty() {
		s.LogDebug(ctx, "Call update is a no-op", slog.Int64("call_id", callID))
		return call, nil
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = actorID

	tx, err := s.callRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.callRepo.Rollback(ctx, tx)

	if err := s.callRepo.UpdateCallInTx(ctx, tx, &updated); err != nil {
		s.LogError(ctx, err, "Failed to update call", slog.Int64("call_id", callID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, callID, actorID, branchID, cs.label("Call"), cs.summaryLines()); err != nil {
		return nil, err
	}

	if err := s.callRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit call update: %w", err)
	}
	return &updated, nil
}

// DeleteCall removes a call and logs the deletion.
func (s *CallService) DeleteCall(ctx context.Context, callID, branchID int64, actorID int64) error {
	call, err := s.callRepo.FindCallByID(ctx, callID, branchID)
	if err != nil {
		return err
	}

	tx, err := s.callRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.callRepo.Rollback(ctx, tx)

	if err := s.callRepo.DeleteCallInTx(ctx, tx, callID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to delete call", slog.Int64("call_id", callID))
		return err
	}
	summary := []string{fmt.Sprintf("Removed **subject** *%s*", call.Subject)}
	if err := s.activityLog.Record(ctx, tx, callID, actorID, branchID, "Call Deleted", summary); err != nil {
		return err
	}

	if err := s.callRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit call deletion: %w", err)
	}
	s.LogInfo(ctx, "Call deleted", slog.Int64("call_id", callID))
	return nil
}

func callChanges(old, new *domain.Call) *changeSet {
	cs := &changeSet{}
	cs.track("subject", old.Subject, new.Subject)
	cs.track("outcome", old.Outcome, new.Outcome)
	cs.track("assigned user", formatInt64Ref(old.AssignedUserID), formatInt64Ref(new.AssignedUserID))
	cs.track("scheduled at", formatTimestamp(old.ScheduledAt), formatTimestamp(new.ScheduledAt))
	return cs
}
