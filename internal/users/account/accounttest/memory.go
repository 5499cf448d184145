// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accounttest provides an in-memory [account.Repository] for tests.
package accounttest

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/users/account"
	"github.com/taibuivan/signon/internal/users/oauth"
	"github.com/taibuivan/signon/pkg/slug"
	"github.com/taibuivan/signon/pkg/uuid"
)

// Repository is a mutex-guarded map keyed by email.
//
// Setting Err makes every call fail with it, which simulates a store outage.
type Repository struct {
	mu         sync.Mutex
	byEmail    map[string]*account.User
	identities map[string]map[string]string

	Err error
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		byEmail:    make(map[string]*account.User),
		identities: make(map[string]map[string]string),
	}
}

// FindByID implements [account.Repository].
func (r *Repository) FindByID(_ context.Context, id string) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

// FindByEmail implements [account.Repository].
func (r *Repository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *user
	return &copied, nil
}

// Create implements [account.Repository].
func (r *Repository) Create(_ context.Context, user *account.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.Conflict("Account already exists")
	}

	if user.ID == "" {
		user.ID = uuid.New()
	}
	if user.Provider == "" {
		user.Provider = account.ProviderLocal
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

// FindOrCreateByOAuthProfile implements [account.Repository].
func (r *Repository) FindOrCreateByOAuthProfile(_ context.Context, profile *oauth.Profile) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	user, ok := r.byEmail[profile.Email]
	if !ok {
		nickname := profile.Username
		if nickname == "" {
			nickname = slug.FromEmail(profile.Email)
		}
		now := time.Now()
		user = &account.User{
			ID:        uuid.New(),
			Email:     profile.Email,
			Nickname:  nickname,
			Provider:  profile.Provider,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.byEmail[profile.Email] = user
	}

	if r.identities[user.ID] == nil {
		r.identities[user.ID] = make(map[string]string)
	}
	r.identities[user.ID][profile.Provider] = profile.Username

	copied := *user
	return &copied, nil
}

// Len returns the number of stored accounts.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

// Providers returns the providers linked to userID.
func (r *Repository) Providers(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var providers []string
	for provider := range r.identities[userID] {
		providers = append(providers, provider)
	}
	return providers
}

var _ account.Repository = (*Repository)(nil)
