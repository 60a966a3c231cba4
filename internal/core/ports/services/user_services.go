package services

import (
	"context"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	"github.com/nexacrm/crm_backend/internal/dto"
)

// UserSvcFacade manages user accounts.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID int64, req dto.UpdateUserRequest, actorID int64) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64, actorID int64) error
}
