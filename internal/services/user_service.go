package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/repo"
)

// UserService keeps the local profile table in step with identity claims.
type UserService struct {
	DB *gorm.DB
}

// Ensure validates u and upserts it. Missing email or name is a validation
// error; profiles are never stored with placeholder values.
func (s *UserService) Ensure(ctx context.Context, u *domain.User) error {
	if err := domain.ValidateUser(u); err != nil {
		return invalid(err)
	}
	return transient(repo.UpsertUser(ctx, s.DB, u))
}

// Get returns a profile by ID or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}
