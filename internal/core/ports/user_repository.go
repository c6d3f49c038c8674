package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. FindByEmail is also
// the lookup used by the authentication gate to resolve token subjects.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phone string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}
