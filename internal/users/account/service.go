// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/pkg/slug"
	"github.com/taibuivan/signon/pkg/uuid"
)

// # Service Layer

// Service implements account registration and lookup.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// RegisterInput holds the data required to enroll a password account.
type RegisterInput struct {
	Email    string
	Password string
	Nickname string
}

/*
Register hashes the password and persists a new local account.

Description: The nickname defaults to a slug of the email local part.
Input is expected to be validated by the caller.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: apperr.Conflict if the email is taken, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	nickname := input.Nickname
	if nickname == "" {
		nickname = slug.FromEmail(input.Email)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
		Provider:     ProviderLocal,
	}

	// The unique index decides; a pre-check would race with concurrent sign-ups.
	if err := service.repository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_registered", slog.String("user_id", user.ID))

	return user, nil
}

/*
GetProfile retrieves an account by ID.

Returns:
  - *User: The hydrated account
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}
