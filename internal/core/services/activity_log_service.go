package services

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portsrepo "github.com/nexacrm/crm_backend/internal/core/ports/repositories"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
)

var (
	fieldMarkerRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	idMarkerRe    = regexp.MustCompile(`\*(\d+)\*`)
)

// labelLookupKinds maps normalized field-name labels found in summary lines to
// the lookup entity their embedded IDs resolve against.
var labelLookupKinds = map[string]domain.LookupKind{
	"assigned user":    domain.LookupUser,
	"user id":          domain.LookupUser,
	"lead stage id":    domain.LookupLeadStage,
	"lead source id":   domain.LookupLeadSource,
	"lead type id":     domain.LookupLeadType,
	"customer type id": domain.LookupCustomerType,
	"product id":       domain.LookupProduct,
	"branch id":        domain.LookupBranch,
}

// ActivityLogService appends change summaries inside the mutating
// transaction and renders stored entries for display, resolving embedded
// numeric ID markers to names.
type ActivityLogService struct {
	BaseService
	logRepo    portsrepo.ActivityLogRepositoryFacade
	lookupRepo portsrepo.LookupReader
}

// NewActivityLogService creates a new ActivityLogService.
func NewActivityLogService(lr portsrepo.ActivityLogRepositoryFacade, lookups portsrepo.LookupReader) portssvc.ActivityLogSvcFacade {
	return &ActivityLogService{logRepo: lr, lookupRepo: lookups}
}

var _ portssvc.ActivityLogSvcFacade = (*ActivityLogService)(nil)

// Record appends one log entry inside the caller's transaction. An empty
// summary is silently skipped: no change, no entry.
func (s *ActivityLogService) Record(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error {
	if len(summary) == 0 {
		return nil
	}
	entry := domain.ActivityLogEntry{
		EntityID:  entityID,
		UserID:    userID,
		BranchID:  branchID,
		FieldName: label,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	if err := s.logRepo.SaveEntryInTx(ctx, tx, &entry); err != nil {
		s.LogError(ctx, err, "Failed to save activity log entry", slog.Int64("entity_id", entityID), slog.Int64("branch_id", branchID))
		return err
	}
	return nil
}

// ListEntityLog returns one entity's entries, newest first, rendered.
func (s *ActivityLogService) ListEntityLog(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	entries, err := s.logRepo.ListEntriesByEntity(ctx, entityID, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.renderEntries(ctx, entries)
}

// ListBranchLog returns a branch's entries, newest first, rendered.
func (s *ActivityLogService) ListBranchLog(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	entries, err := s.logRepo.ListEntriesByBranch(ctx, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.renderEntries(ctx, entries)
}

// renderEntries rewrites numeric ID markers in summary lines with resolved
// display names. It is a pure response-side transformation: stored rows are
// never touched. Resolution is batched per lookup kind across all entries so
// a page of entries costs at most one query per kind.
func (s *ActivityLogService) renderEntries(ctx context.Context, entries []domain.ActivityLogEntry) ([]domain.ActivityLogEntry, error) {
	// Pass 1: collect the IDs each lookup kind needs to resolve.
	needed := make(map[domain.LookupKind]map[int64]struct{})
	for i := range entries {
		for _, line := range entries[i].Summary {
			kind, ok := lineLookupKind(line)
			if !ok {
				continue
			}
			for _, m := range idMarkerRe.FindAllStringSubmatch(line, -1) {
				id, err := strconv.ParseInt(m[1], 10, 64)
				if err != nil {
					continue
				}
				if needed[kind] == nil {
					needed[kind] = make(map[int64]struct{})
				}
				needed[kind][id] = struct{}{}
			}
		}
	}

	// One batched lookup per kind. A failed lookup degrades to raw IDs rather
	// than failing the whole read.
	names := make(map[domain.LookupKind]map[int64]string, len(needed))
	for kind, idSet := range needed {
		ids := make([]int64, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		resolved, err := s.lookupRepo.ResolveNames(ctx, kind, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve lookup names", slog.String("kind", string(kind)))
			continue
		}
		names[kind] = resolved
	}

	// Pass 2: rewrite markers in place. Unknown labels and unmatched IDs are
	// left as the raw numeric marker.
	for i := range entries {
		for j, line := range entries[i].Summary {
			kind, ok := lineLookupKind(line)
			if !ok {
				continue
			}
			resolved := names[kind]
			if resolved == nil {
				continue
			}
			entries[i].Summary[j] = idMarkerRe.ReplaceAllStringFunc(line, func(marker string) string {
				id, err := strconv.ParseInt(strings.Trim(marker, "*"), 10, 64)
				if err != nil {
					return marker
				}
				name, found := resolved[id]
				if !found {
					return marker
				}
				return "*" + name + "*"
			})
		}
	}
	return entries, nil
}

// lineLookupKind extracts the field-name marker from a summary line and maps
// it to a lookup kind, if recognized.
func lineLookupKind(line string) (domain.LookupKind, bool) {
	m := fieldMarkerRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	kind, ok := labelLookupKinds[strings.ToLower(strings.TrimSpace(m[1]))]
	return kind, ok
}
