// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users.account: One row per email address.
  - users.identity: One row per (account, OAuth provider) pair.
*/
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/dberr"
	"github.com/taibuivan/signon/internal/users/oauth"
	"github.com/taibuivan/signon/pkg/slug"
	"github.com/taibuivan/signon/pkg/uuid"
)

// accountColumns is the column list scanned by [scanUser].
const accountColumns = `id, email, nickname, passwordhash, provider, createdat, updatedat`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves an account from users.account.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves an account by exact email match.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
Create inserts a new account row.

Description: Fills the ID when empty and reads the database timestamps back
into user.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict on duplicate email, or execution failures
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New()
	}
	if user.Provider == "" {
		user.Provider = ProviderLocal
	}

	query := `
		INSERT INTO users.account (id, email, nickname, passwordhash, provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.Provider,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed")
	}

	return nil
}

/*
FindOrCreateByOAuthProfile resolves the account for an OAuth login.

Description: Runs an INSERT ... ON CONFLICT (email) upsert that returns the
surviving row, then records the provider identity, inside one transaction.
An existing account keeps its nickname, password and original provider.

Parameters:
  - context: context.Context
  - profile: *oauth.Profile

Returns:
  - *User: Existing or newly created account
  - error: Execution failures
*/
func (repository *PostgresRepository) FindOrCreateByOAuthProfile(context context.Context, profile *oauth.Profile) (*User, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}

	// No-op after a successful commit.
	defer transaction.Rollback(context)

	nickname := profile.Username
	if nickname == "" {
		nickname = slug.FromEmail(profile.Email)
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	upsert := `
		INSERT INTO users.account AS account (id, email, nickname, provider)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET email = account.email
		RETURNING ` + accountColumns

	user, err := scanUser(transaction.QueryRow(context, upsert,
		uuid.New(),
		profile.Email,
		nickname,
		profile.Provider,
	))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_upsert_failed: %w", err)
	}

	link := `
		INSERT INTO users.identity (userid, provider, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, provider) DO UPDATE SET username = EXCLUDED.username`

	if _, err := transaction.Exec(context, link, user.ID, profile.Provider, profile.Username); err != nil {
		return nil, fmt.Errorf("postgres_account_repo_link_identity_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return nil, fmt.Errorf("postgres: failed to commit find_or_create transaction: %w", err)
	}

	return user, nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
