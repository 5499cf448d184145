// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/taibuivan/signon/internal/platform/constants"
	"github.com/taibuivan/signon/internal/platform/sec"
)

// Negotiation failures. The orchestrator wraps all of them, so the client
// only sees a generic provider failure.
var (
	ErrMissingCode     = errors.New("oauth: callback has no authorization code")
	ErrStateMismatch   = errors.New("oauth: state is unknown, expired or already used")
	ErrMissingEmail    = errors.New("oauth: provider returned no email")
	ErrUnverifiedEmail = errors.New("oauth: provider email is not verified")
)

// maxUserInfoBytes caps the userinfo response body.
const maxUserInfoBytes = 1 << 20

// StateStore keeps the single-use state values issued with each redirect.
type StateStore interface {
	// Save records state for provider, valid for ttl.
	Save(ctx context.Context, provider, state string, ttl time.Duration) error

	// Consume deletes state and reports whether it was present.
	Consume(ctx context.Context, provider, state string) (bool, error)
}

// decodeFunc maps a provider userinfo body to a profile.
type decodeFunc func(body []byte) (*Profile, error)

// CodeFlow runs the OAuth2 authorization-code negotiation for one provider.
type CodeFlow struct {
	provider    string
	config      *oauth2.Config
	userInfoURL string
	states      StateStore
	stateTTL    time.Duration
	httpClient  *http.Client
	decode      decodeFunc
}

// ClientConfig is the registration of this application at a provider.
//
// AuthURL, TokenURL and UserInfoURL default to the provider's public
// endpoints and are only overridden in tests.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// States is required; a nil store rejects every callback.
	States   StateStore
	StateTTL time.Duration

	// HTTPClient is used for the token exchange and userinfo calls.
	HTTPClient *http.Client
}

func newCodeFlow(provider string, cfg ClientConfig, endpoint oauth2.Endpoint, userInfoURL string, scopes []string, decode decodeFunc) *CodeFlow {
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if cfg.UserInfoURL != "" {
		userInfoURL = cfg.UserInfoURL
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &CodeFlow{
		provider: provider,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		userInfoURL: userInfoURL,
		states:      cfg.States,
		stateTTL:    cfg.StateTTL,
		httpClient:  cfg.HTTPClient,
		decode:      decode,
	}
}

// Provider implements [Strategy].
func (flow *CodeFlow) Provider() string {
	return flow.provider
}

// LoginURL implements [Redirector]. It issues and stores a fresh state value.
func (flow *CodeFlow) LoginURL(ctx context.Context) (string, error) {
	if flow.states == nil {
		return "", errors.New("oauth: no state store configured")
	}

	state, err := sec.GenerateSecureToken(constants.OAuthStateLength)
	if err != nil {
		return "", err
	}

	if err := flow.states.Save(ctx, flow.provider, state, flow.stateTTL); err != nil {
		return "", fmt.Errorf("oauth: save state: %w", err)
	}

	return flow.config.AuthCodeURL(state), nil
}

/*
Authenticate implements [Strategy].

Description: Checks the callback for a provider error, consumes the state,
exchanges the code for a provider token and reads the userinfo endpoint.

Parameters:
  - ctx: context.Context
  - requestData: url.Values (callback query: code, state, error)

Returns:
  - *Profile: Normalized identity with the provider access token
  - error: Negotiation, transport or decoding failures
*/
func (flow *CodeFlow) Authenticate(ctx context.Context, requestData url.Values) (*Profile, error) {

	// The user declined or the provider refused the request.
	if providerError := requestData.Get("error"); providerError != "" {
		return nil, fmt.Errorf("oauth: %s returned error %q: %s", flow.provider, providerError, requestData.Get("error_description"))
	}

	code := requestData.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	if err := flow.consumeState(ctx, requestData.Get("state")); err != nil {
		return nil, err
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, flow.httpClient)
	token, err := flow.config.Exchange(exchangeCtx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: %s code exchange: %w", flow.provider, err)
	}

	body, err := flow.fetchUserInfo(exchangeCtx, token)
	if err != nil {
		return nil, err
	}

	profile, err := flow.decode(body)
	if err != nil {
		return nil, fmt.Errorf("oauth: %s userinfo: %w", flow.provider, err)
	}

	if profile.Email == "" {
		return nil, ErrMissingEmail
	}

	profile.Provider = flow.provider
	profile.AccessToken = token.AccessToken

	return profile, nil
}

func (flow *CodeFlow) consumeState(ctx context.Context, state string) error {
	if flow.states == nil || state == "" {
		return ErrStateMismatch
	}

	found, err := flow.states.Consume(ctx, flow.provider, state)
	if err != nil {
		return fmt.Errorf("oauth: consume state: %w", err)
	}
	if !found {
		return ErrStateMismatch
	}

	return nil
}

func (flow *CodeFlow) fetchUserInfo(ctx context.Context, token *oauth2.Token) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, flow.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("oauth: build userinfo request: %w", err)
	}

	// config.Client attaches the bearer token and reuses the injected http client.
	response, err := flow.config.Client(ctx, token).Do(request)
	if err != nil {
		return nil, fmt.Errorf("oauth: %s userinfo request: %w", flow.provider, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxUserInfoBytes))
	if err != nil {
		return nil, fmt.Errorf("oauth: read %s userinfo: %w", flow.provider, err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: %s userinfo returned status %d", flow.provider, response.StatusCode)
	}

	return body, nil
}

// compile-time interface checks
var (
	_ Strategy   = (*CodeFlow)(nil)
	_ Redirector = (*CodeFlow)(nil)
)

