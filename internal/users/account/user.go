// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the user records that signon authenticates against.

It defines the User entity, the persistence contract used by the auth
orchestrator, and the registration flow for password accounts.

# Architecture

  - Entity: User, linked to zero or more OAuth identities.
  - Repository: Postgres implementation over users.account and users.identity.
  - Service: Registration and profile lookup.
*/
package account

import "time"

// # Domain Entities

// ProviderLocal marks accounts created through password registration.
const ProviderLocal = "local"

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"` // Never serialized.
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can sign in with a password.
//
// Accounts first created through an OAuth provider have no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldNickname = "nickname"
)
