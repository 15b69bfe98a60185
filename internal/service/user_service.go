package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
)

type UserService interface {
	UpsertIfAbsent(ctx context.Context, email string, profile entity.User) (*entity.User, error)
	// GetRole returns an empty role when no user exists for email.
	GetRole(ctx context.Context, email string) (entity.Role, error)
	RequestRoleChange(ctx context.Context, email string) error
	GrantRole(ctx context.Context, email string, role entity.Role) (*entity.User, error)
	ListAllExcept(ctx context.Context, email string) ([]entity.User, error)
}

type userService struct {
	users        repository.UserRepository
	roleCache    repository.RoleCache
	msgPublisher nats.MessagePublisher
	log          logger.Logger
}

// NewUserService builds the role directory. roleCache may be nil.
func NewUserService(
	users repository.UserRepository,
	roleCache repository.RoleCache,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
) UserService {
	return &userService{
		users:        users,
		roleCache:    roleCache,
		msgPublisher: msgPublisher,
		log:          log,
	}
}

func (s *userService) UpsertIfAbsent(ctx context.Context, email string, profile entity.User) (*entity.User, error) {
	user, err := entity.NewUser(email, profile.Name, profile.Image)
	if err != nil {
		return nil, err
	}
	email = user.Email

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Lost a race with a concurrent first login.
			return s.reloadUser(ctx, email)
		}
		s.log.Errorf("Failed to create user %s: %v", email, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.log.Infof("Created user %s with role %s", email, user.Role)
	return user, nil
}

func (s *userService) reloadUser(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	return user, nil
}

func (s *userService) GetRole(ctx context.Context, email string) (entity.Role, error) {
	if s.roleCache != nil {
		role, err := s.roleCache.Get(ctx, email)
		if err == nil {
			return role, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.log.Warnf("Role cache lookup for %s failed: %v", email, err)
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get role for %s: %w", email, err)
	}

	if s.roleCache != nil {
		if err = s.roleCache.Set(ctx, email, user.Role); err != nil {
			s.log.Warnf("Failed to cache role for %s: %v", email, err)
		}
	}
	return user.Role, nil
}

func (s *userService) RequestRoleChange(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: request already sent", entity.ErrRejected)
		}
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if !user.CanRequestRoleChange() {
		return fmt.Errorf("%w: request already sent", entity.ErrRejected)
	}

	if err = s.users.SetStatus(ctx, email, entity.UserStatusRequested); err != nil {
		return fmt.Errorf("failed to record role request for %s: %w", email, err)
	}
	s.log.Infof("User %s requested a role change", email)
	return nil
}

func (s *userService) GrantRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", entity.ErrInvalidInput, role)
	}

	user, err := s.users.UpdateRole(ctx, repository.UpdateRoleParams{
		Email:  email,
		Role:   role,
		Status: entity.UserStatusVerified,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to grant role to %s: %w", email, err)
	}

	s.cacheGrantedRole(ctx, email, user.Role)

	if err = s.msgPublisher.Publish(ctx, nats.SubjectUserRoleUpdated, userRoleEvent{
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}); err != nil {
		s.log.Warnf("Failed to publish role update for %s: %v", email, err)
	}

	s.log.Infof("Granted role %s to %s", role, email)
	return user, nil
}

// cacheGrantedRole writes the granted role through, falling back to eviction.
// A lookup racing the grant can still cache the previous role until the TTL.
func (s *userService) cacheGrantedRole(ctx context.Context, email string, role entity.Role) {
	if s.roleCache == nil {
		return
	}
	err := s.roleCache.Set(ctx, email, role)
	if err == nil {
		return
	}
	s.log.Warnf("Failed to cache granted role for %s: %v", email, err)
	if err = s.roleCache.Delete(ctx, email); err != nil {
		s.log.Warnf("Failed to evict cached role for %s: %v", email, err)
	}
}

func (s *userService) ListAllExcept(ctx context.Context, email string) ([]entity.User, error) {
	users, err := s.users.ListExcept(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
