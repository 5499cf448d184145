// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/metrics"
	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/internal/users/account"
	"github.com/taibuivan/signon/internal/users/oauth"
)

// Service orchestrates the login flows.
//
// # Concurrency
//
// Service holds no per-request state and is safe for concurrent use. It never
// retries a collaborator and holds no lock across I/O.
type Service struct {
	validator  *CredentialValidator
	users      UserStore
	strategies Strategies
	tokens     TokenCodec
	metrics    Recorder
	logger     *slog.Logger
}

// NewService constructs a new [Service]. A nil recorder disables metrics.
func NewService(
	users UserStore,
	strategies Strategies,
	tokens TokenCodec,
	recorder Recorder,
	logger *slog.Logger,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		validator:  NewCredentialValidator(users),
		users:      users,
		strategies: strategies,
		tokens:     tokens,
		metrics:    recorder,
		logger:     logger,
	}
}

// # Password Login

/*
LoginWithEmail authenticates an email/password pair.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Session token and user
  - error: apperr.ErrInvalidCredentials, or store and signing failures
*/
func (service *Service) LoginWithEmail(context context.Context, email, password string) (*LoginResult, error) {
	user, err := service.validator.Validate(context, email, password)
	if err != nil {
		service.metrics.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeError)
		return nil, err
	}

	// Unknown email and wrong password are reported identically.
	if user == nil {
		service.metrics.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeInvalidCredentials)
		return nil, apperr.InvalidCredentials()
	}

	result, err := service.issue(user)
	if err != nil {
		service.metrics.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeError)
		return nil, err
	}

	service.metrics.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeSuccess)
	return result, nil
}

// # OAuth Login

/*
LoginWithOAuth completes a provider login and resolves the local user.

Description: The provider is resolved before any network call. Strategy
failures are logged with their cause and surfaced as a generic
apperr.ErrOAuthAuthentication. The user is found or created by email.

Parameters:
  - context: context.Context
  - provider: string (registry tag)
  - requestData: url.Values (provider callback parameters)

Returns:
  - *LoginResult: Session token and user
  - error: apperr.ErrUnsupportedProvider, apperr.ErrOAuthAuthentication, or store failures
*/
func (service *Service) LoginWithOAuth(context context.Context, provider string, requestData url.Values) (*LoginResult, error) {
	strategy, err := service.strategies.Resolve(provider)
	if err != nil {
		service.metrics.RecordLogin(metrics.MethodOAuth, "", metrics.OutcomeUnsupportedProvider)
		return nil, err
	}

	profile, err := strategy.Authenticate(context, requestData)
	if err == nil && (profile == nil || profile.Email == "") {
		err = errors.New("provider profile has no email")
	}
	if err != nil {
		service.logger.WarnContext(context, "oauth_authentication_failed",
			slog.String("provider", provider),
			slog.String("error", err.Error()),
		)
		service.metrics.RecordLogin(metrics.MethodOAuth, provider, metrics.OutcomeProviderFailure)
		return nil, apperr.OAuthFailed(err)
	}

	if profile.Provider == "" {
		profile.Provider = provider
	}

	user, err := service.users.FindOrCreateByOAuthProfile(context, profile)
	if err != nil {
		service.metrics.RecordLogin(metrics.MethodOAuth, provider, metrics.OutcomeError)
		return nil, fmt.Errorf("auth_service_find_or_create_failed: %w", err)
	}

	result, err := service.issue(user)
	if err != nil {
		service.metrics.RecordLogin(metrics.MethodOAuth, provider, metrics.OutcomeError)
		return nil, err
	}

	service.metrics.RecordLogin(metrics.MethodOAuth, provider, metrics.OutcomeSuccess)
	return result, nil
}

/*
BeginOAuth returns the provider authorization URL that starts a login.

Returns:
  - string: Absolute provider URL
  - error: apperr.ErrUnsupportedProvider, or state storage failures
*/
func (service *Service) BeginOAuth(context context.Context, provider string) (string, error) {
	strategy, err := service.strategies.Resolve(provider)
	if err != nil {
		return "", err
	}

	redirector, ok := strategy.(oauth.Redirector)
	if !ok {
		return "", apperr.UnsupportedProvider(provider)
	}

	loginURL, err := redirector.LoginURL(context)
	if err != nil {
		return "", fmt.Errorf("auth_service_begin_oauth_failed: %w", err)
	}

	return loginURL, nil
}

// Providers lists the registered OAuth providers in registration order.
func (service *Service) Providers() []string {
	return service.strategies.Providers()
}

// # Token Verification

/*
VerifyToken validates a session token and returns its claims.

Returns:
  - *sec.Claims: Subject, email and nickname of the session
  - error: apperr.ErrInvalidToken
*/
func (service *Service) VerifyToken(tokenString string) (*sec.Claims, error) {
	claims, err := service.tokens.VerifyToken(tokenString)
	if err != nil {
		service.metrics.RecordVerify(metrics.OutcomeInvalidToken)
		return nil, err
	}

	service.metrics.RecordVerify(metrics.OutcomeSuccess)
	return claims, nil
}

func (service *Service) issue(user *account.User) (*LoginResult, error) {
	token, err := service.tokens.Issue(sec.Payload{
		Subject:  user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: service.tokens.TTL(),
		User:      user,
	}, nil
}
