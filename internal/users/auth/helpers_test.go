// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/internal/users/account"
	"github.com/taibuivan/signon/internal/users/account/accounttest"
	"github.com/taibuivan/signon/internal/users/auth"
	"github.com/taibuivan/signon/internal/users/oauth"
)

const testSecret = "test-secret"

// spyStrategy builds a profile from the callback's "email" and "username"
// parameters and counts how often it was asked to.
type spyStrategy struct {
	provider string
	calls    atomic.Int32
	err      error
}

func (s *spyStrategy) Provider() string { return s.provider }

func (s *spyStrategy) Authenticate(_ context.Context, requestData url.Values) (*oauth.Profile, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &oauth.Profile{
		Provider:    s.provider,
		Username:    requestData.Get("username"),
		Email:       requestData.Get("email"),
		AccessToken: "provider-token",
	}, nil
}

// redirectingStrategy additionally starts its flow with a redirect.
type redirectingStrategy struct {
	spyStrategy
}

func (s *redirectingStrategy) LoginURL(context.Context) (string, error) {
	return "https://provider.example/authorize?state=s1", nil
}

// recorder captures metric calls.
type recorder struct {
	mu       sync.Mutex
	logins   []string
	verifies []string
}

func (r *recorder) RecordLogin(method, provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, method+"/"+provider+"/"+outcome)
}

func (r *recorder) RecordVerify(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifies = append(r.verifies, outcome)
}

type fixture struct {
	service    *auth.Service
	users      *accounttest.Repository
	codec      *sec.TokenCodec
	discord    *redirectingStrategy
	google     *spyStrategy
	recorder   *recorder
	strategies *oauth.Registry
}

func newFixture(t *testing.T, options ...sec.CodecOption) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec(testSecret, time.Hour, options...)
	require.NoError(t, err)

	discord := &redirectingStrategy{spyStrategy{provider: oauth.ProviderDiscord}}
	google := &spyStrategy{provider: oauth.ProviderGoogle}

	registry, err := oauth.NewRegistry(discord, google)
	require.NoError(t, err)

	users := accounttest.NewRepository()
	metrics := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:    auth.NewService(users, registry, codec, metrics, logger),
		users:      users,
		codec:      codec,
		discord:    discord,
		google:     google,
		recorder:   metrics,
		strategies: registry,
	}
}

// seedUser stores a password account.
func (f *fixture) seedUser(t *testing.T, email, password, nickname string) *account.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &account.User{Email: email, Nickname: nickname, PasswordHash: hash}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

var errProviderDown = errors.New("provider returned 503")
