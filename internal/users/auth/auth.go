// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the authentication decision and session issuance flow.

It turns an email/password pair or an OAuth provider callback into a signed
session token, and verifies those tokens for the rest of the API.

Architecture:

  - CredentialValidator: Password check against the user store.
  - Service: The orchestrator behind LoginWithEmail, LoginWithOAuth and
    VerifyToken.
  - Handler: The JSON/redirect HTTP surface.

The package only talks to its collaborators (user store, strategy registry,
token codec, metrics) through the interfaces declared here.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/internal/users/account"
	"github.com/taibuivan/signon/internal/users/oauth"
)

// # Contracts & Types

// UserStore is the subset of [account.Repository] the auth flow needs.
type UserStore interface {
	FindByEmail(context context.Context, email string) (*account.User, error)
	FindOrCreateByOAuthProfile(context context.Context, profile *oauth.Profile) (*account.User, error)
}

// Strategies resolves provider names to OAuth strategies.
type Strategies interface {
	Resolve(name string) (oauth.Strategy, error)
	Providers() []string
}

// TokenCodec mints and verifies session tokens.
type TokenCodec interface {
	Issue(payload sec.Payload) (string, error)
	VerifyToken(tokenString string) (*sec.Claims, error)
	TTL() time.Duration
}

// Recorder receives login and verification outcomes.
type Recorder interface {
	RecordLogin(method, provider, outcome string)
	RecordVerify(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLogin(string, string, string) {}
func (nopRecorder) RecordVerify(string)                {}

// LoginResult is a successful login: the session token and its owner.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *account.User
}

// # Field Identifiers

const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldToken     = "token"
	FieldProviders = "providers"
)
