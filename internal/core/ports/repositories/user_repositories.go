package repositories

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUsersByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	SaveUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	MarkUserDeleted(ctx context.Context, userID int64, deleterUserID int64) error
}

// UserRepositoryFacade combines user reads and writes.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
