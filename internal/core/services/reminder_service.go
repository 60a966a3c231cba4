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

// ReminderService manages reminders with the same log-in-transaction and
// no-op-suppression contract as leads.
type ReminderService struct {
	BaseService
	reminderRepo portsrepo.ReminderRepositoryWithTx
	leadRepo     portsrepo.LeadReader
	activityLog  portssvc.ActivityLogWriterSvc
}

// NewReminderService creates a new ReminderService.
func NewReminderService(rr portsrepo.ReminderRepositoryWithTx, lr portsrepo.LeadReader, al portssvc.ActivityLogWriterSvc) portssvc.ReminderSvcFacade {
	return &ReminderService{reminderRepo: rr, leadRepo: lr, activityLog: al}
}

var _ portssvc.ReminderSvcFacade = (*ReminderService)(nil)

// CreateReminder creates a reminder under a lead.
func (s *ReminderService) CreateReminder(ctx context.Context, branchID int64, req dto.CreateReminderRequest, actorID int64) (*domain.Reminder, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationFailedError("reminder title is required")
	}
	if _, err := s.leadRepo.FindLeadByID(ctx, req.LeadID, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	reminder := domain.Reminder{
		BranchID:       branchID,
		LeadID:         req.LeadID,
		Title:          title,
		Note:           req.Note,
		AssignedUserID: req.AssignedUserID,
		RemindAt:       req.RemindAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	summary := []string{fmt.Sprintf("Added **title** *%s*", reminder.Title)}

	tx, err := s.reminderRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reminderRepo.Rollback(ctx, tx)

	if err := s.reminderRepo.SaveReminderInTx(ctx, tx, &reminder); err != nil {
		s.LogError(ctx, err, "Failed to save reminder", slog.Int64("lead_id", req.LeadID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, reminder.ID, actorID, branchID, "Reminder Created", summary); err != nil {
		return nil, err
	}

	if err := s.reminderRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit reminder creation: %w", err)
	}
	s.LogInfo(ctx, "Reminder created", slog.Int64("reminder_id", reminder.ID), slog.Int64("lead_id", req.LeadID))
	return &reminder, nil
}

// GetReminder retrieves a reminder scoped to its branch.
func (s *ReminderService) GetReminder(ctx context.Context, reminderID, branchID int64) (*domain.Reminder, error) {
	return s.reminderRepo.FindReminderByID(ctx, reminderID, branchID)
}

// ListLeadReminders lists a lead's reminders.
func (s *ReminderService) ListLeadReminders(ctx context.Context, leadID, branchID int64) ([]domain.Reminder, error) {
	return s.reminderRepo.ListRemindersByLead(ctx, leadID, branchID)
}

// UpdateReminder applies a partial update, suppressing no-ops.
func (s *ReminderService) UpdateReminder(ctx context.Context, reminderID, branchID int64, req dto.UpdateReminderRequest, actorID int64) (*domain.Reminder, error) {
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID, branchID)
	if err != nil {
		return nil, err
	}

	updated := *reminder
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Note != nil {
		updated.Note = *req.Note
	}
	if req.AssignedUserID != nil {
		updated.AssignedUserID = req.AssignedUserID
	}
	if req.RemindAt != nil {
		updated.RemindAt = req.RemindAt
	}

	cs := reminderChanges(reminder, &updated)
	if cs.empty() {
		s.LogDebug(ctx, "Reminder update is a no-op", slog.Int64("reminder_id", reminderID))
		return reminder, nil
	}

	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = actorID

	tx, err := s.reminderRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reminderRepo.Rollback(ctx, tx)

	if err := s.reminderRepo.UpdateReminderInTx(ctx, tx, &updated); err != nil {
		s.LogError(ctx, err, "Failed to update reminder", slog.Int64("reminder_id", reminderID))
		return nil, err
	}
	if err := s.activityLog.Record(ctx, tx, reminderID, actorID, branchID, cs.label("Reminder"), cs.summaryLines()); err != nil {
		return nil, err
	}

	if err := s.reminderRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit reminder update: %w", err)
	}
	return &updated, nil
}

// DeleteReminder removes a reminder and logs the deletion.
func (s *ReminderService) DeleteReminder(ctx context.Context, reminderID, branchID int64, actorID int64) error {
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID, branchID)
	if err != nil {
		return err
	}

	tx, err := s.reminderRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.reminderRepo.Rollback(ctx, tx)

	if err := s.reminderRepo.DeleteReminderInTx(ctx, tx, reminderID, branchID); err != nil {
		s.LogError(ctx, err, "Failed to delete reminder", slog.Int64("reminder_id", reminderID))
		return err
	}
	summary := []string{fmt.Sprintf("Removed **title** *%s*", reminder.Title)}
	if err := s.activityLog.Record(ctx, tx, reminderID, actorID, branchID, "Reminder Deleted", summary); err != nil {
		return err
	}

	if err := s.reminderRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit reminder deletion: %w", err)
	}
	s.LogInfo(ctx, "Reminder deleted", slog.Int64("reminder_id", reminderID))
	return nil
}

func reminderChanges(old, new *domain.Reminder) *changeSet {
	cs := &changeSet{}
	cs.track("title", old.Title, new.Title)
	cs.track("note", old.Note, new.Note)
	cs.track("assigned user", formatInt64Ref(old.AssignedUserID), formatInt64Ref(new.AssignedUserID))
	cs.track("remind at", formatTimestamp(old.RemindAt), formatTimestamp(new.RemindAt))
	return cs
}
