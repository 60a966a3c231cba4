package repositories

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// LookupReader resolves batches of numeric IDs to display names, one query per
// lookup kind. The renderer uses it to rewrite ID markers in log summaries.
type LookupReader interface {
	// ResolveNames returns an ID→name map for the given kind. IDs with no match
	// are simply absent from the map.
	ResolveNames(ctx context.Context, kind domain.LookupKind, ids []int64) (map[int64]string, error)

	// ListByKind returns all items of one lookup kind, name ascending.
	ListByKind(ctx context.Context, kind domain.LookupKind) ([]domain.LookupItem, error)
}
