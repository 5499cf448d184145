// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/users/oauth"
)

type stubStrategy struct {
	provider string
}

func (s stubStrategy) Provider() string { return s.provider }

func (s stubStrategy) Authenticate(context.Context, url.Values) (*oauth.Profile, error) {
	return &oauth.Profile{Provider: s.provider}, nil
}

/*
TestRegistry_Resolve covers exact-match lookup and the unsupported provider error.
*/
func TestRegistry_Resolve(t *testing.T) {
	registry, err := oauth.NewRegistry(stubStrategy{"discord"}, stubStrategy{"google"})
	require.NoError(t, err)

	strategy, err := registry.Resolve("google")
	require.NoError(t, err)
	assert.Equal(t, "google", strategy.Provider())

	tests := []string{"Discord", "GOOGLE", "github", "", " discord"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := registry.Resolve(name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrUnsupportedProvider))
		})
	}
}

/*
TestRegistry_Providers keeps registration order.
*/
func TestRegistry_Providers(t *testing.T) {
	registry, err := oauth.NewRegistry(stubStrategy{"google"}, stubStrategy{"discord"})
	require.NoError(t, err)
	assert.Equal(t, []string{"google", "discord"}, registry.Providers())

	empty, err := oauth.NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, empty.Providers())
}

/*
TestNewRegistry_Rejects duplicate and empty tags.
*/
func TestNewRegistry_Rejects(t *testing.T) {
	_, err := oauth.NewRegistry(stubStrategy{"discord"}, stubStrategy{"discord"})
	assert.ErrorIs(t, err, oauth.ErrDuplicateProvider)

	_, err = oauth.NewRegistry(stubStrategy{""})
	assert.Error(t, err)
}

/*
TestRegistry_ConcurrentResolve exercises unrestricted concurrent reads.
*/
func TestRegistry_ConcurrentResolve(t *testing.T) {
	registry, err := oauth.NewRegistry(stubStrategy{"discord"}, stubStrategy{"google"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"discord", "google", "nope"}[i%3]
			_, _ = registry.Resolve(name)
			_ = registry.Providers()
		}(i)
	}
	wg.Wait()
}
