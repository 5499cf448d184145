// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/internal/users/account"
)

// CredentialValidator checks an email/password pair against the user store.
type CredentialValidator struct {
	users UserStore
}

// NewCredentialValidator creates a validator over users.
func NewCredentialValidator(users UserStore) *CredentialValidator {
	return &CredentialValidator{users: users}
}

/*
Validate returns the user owning email when password matches its hash.

Description: Unknown emails, password-less (OAuth only) accounts and wrong
passwords all return (nil, nil). A bcrypt comparison runs on every path so
the response time does not reveal whether the account exists.

Parameters:
  - context: context.Context
  - email: string (matched exactly)
  - password: string

Returns:
  - *account.User: The authenticated user, or nil
  - error: Store failures only
*/
func (validator *CredentialValidator) Validate(context context.Context, email, password string) (*account.User, error) {
	user, err := validator.users.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			sec.BurnPasswordCheck(password)
			return nil, nil
		}
		return nil, fmt.Errorf("auth_validator_lookup_failed: %w", err)
	}

	if !user.HasPassword() {
		sec.BurnPasswordCheck(password)
		return nil, nil
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}
