// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package oauth implements the pluggable third-party login strategies.

Architecture:

  - Strategy: One implementation per provider, exposing a provider tag and
    an Authenticate operation that turns provider callback data into a
    normalized [Profile].
  - Registry: The immutable provider → strategy table built at startup.
  - CodeFlow: The shared OAuth2 authorization-code negotiation (redirect,
    state check, code exchange, userinfo fetch) the concrete providers
    are built on.

Nothing in this package touches user storage or session tokens; that is the
job of the auth orchestrator.
*/
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/taibuivan/signon/internal/platform/apperr"
)

// # Contracts & Types

// Profile is the provider-issued identity produced by a [Strategy].
//
// It is request-scoped: the orchestrator consumes it once to resolve a user
// and then discards it, including the provider access token.
type Profile struct {
	Provider       string
	ProviderUserID string
	Username       string
	Email          string
	AccessToken    string
}

// Strategy is a pluggable authentication backend for one OAuth provider.
type Strategy interface {
	// Provider returns the unique tag the strategy is registered under.
	Provider() string

	// Authenticate exchanges provider callback data (query parameters) for a
	// normalized profile.
	Authenticate(ctx context.Context, requestData url.Values) (*Profile, error)
}

// Redirector is implemented by strategies that start their flow with a
// browser redirect to the provider.
type Redirector interface {
	// LoginURL returns the provider authorization URL for a new login attempt.
	LoginURL(ctx context.Context) (string, error)
}

// # Registry

// ErrDuplicateProvider is returned when two strategies share a provider tag.
var ErrDuplicateProvider = errors.New("oauth: duplicate provider")

// Registry is the read-only provider → strategy lookup table.
//
// # Concurrency
//
// A Registry is never mutated after [NewRegistry] returns and is safe for
// unrestricted concurrent reads.
type Registry struct {
	ordered []Strategy
	byName  map[string]Strategy
}

// NewRegistry builds a Registry, keeping the registration order.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	registry := &Registry{
		ordered: make([]Strategy, 0, len(strategies)),
		byName:  make(map[string]Strategy, len(strategies)),
	}

	for _, strategy := range strategies {
		name := strategy.Provider()
		if name == "" {
			return nil, errors.New("oauth: strategy has an empty provider tag")
		}
		if _, exists := registry.byName[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProvider, name)
		}

		registry.byName[name] = strategy
		registry.ordered = append(registry.ordered, strategy)
	}

	return registry, nil
}

// Resolve returns the strategy registered under name.
//
// Tags are compared exactly, without case folding. An unknown name fails
// with [apperr.ErrUnsupportedProvider].
func (registry *Registry) Resolve(name string) (Strategy, error) {
	strategy, ok := registry.byName[name]
	if !ok {
		return nil, apperr.UnsupportedProvider(name)
	}
	return strategy, nil
}

// Providers lists the registered provider tags in registration order.
func (registry *Registry) Providers() []string {
	names := make([]string, 0, len(registry.ordered))
	for _, strategy := range registry.ordered {
		names = append(names, strategy.Provider())
	}
	return names
}
