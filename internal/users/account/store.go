// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/signon/internal/users/oauth"
)

// # User Data Access

// Repository defines the data access contract for user accounts.
type Repository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with exactly the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the email is taken, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindOrCreateByOAuthProfile returns the account owning profile.Email,
		creating it when absent, and links the provider identity to it.

		Description: The lookup and the insert are a single atomic statement, so
		concurrent first logins with the same email resolve to one account.

		Returns:
		  - *User: Existing or newly created account
		  - error: Storage failures
	*/
	FindOrCreateByOAuthProfile(context context.Context, profile *oauth.Profile) (*User, error)
}
