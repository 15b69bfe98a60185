package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
)

type UpdateRoleParams struct {
	Email  string
	Role   entity.Role
	Status entity.UserStatus
}

type UserRepository interface {
	// Create returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetStatus(ctx context.Context, email string, status entity.UserStatus) error
	UpdateRole(ctx context.Context, params UpdateRoleParams) (*entity.User, error)
	ListExcept(ctx context.Context, email string) ([]entity.User, error)
}

// RoleCache keeps recently resolved roles. Get returns ErrCacheMiss when absent.
type RoleCache interface {
	Get(ctx context.Context, email string) (entity.Role, error)
	Set(ctx context.Context, email string, role entity.Role) error
	Delete(ctx context.Context, email string) error
}
