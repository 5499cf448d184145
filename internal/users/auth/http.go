// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/signon/internal/platform/constants"
	requestutil "github.com/taibuivan/signon/internal/platform/request"
	"github.com/taibuivan/signon/internal/platform/respond"
	"github.com/taibuivan/signon/internal/platform/validate"
	"github.com/taibuivan/signon/internal/users/account"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// It is a thin transport layer: status codes, headers and JSON. Every
// decision is made by [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the authentication routes.
//
// # Endpoints
//   - POST /login                      : Email/password login.
//   - GET  /oauth/providers            : Registered provider tags.
//   - GET  /oauth/{provider}           : Redirect to the provider.
//   - GET  /oauth/{provider}/callback  : Provider callback, returns a session.
//   - POST /verify                     : Session token verification.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/verify", handler.verify)

	router.Get("/oauth/providers", handler.providers)
	router.Get("/oauth/{provider}", handler.beginOAuth)
	router.Get("/oauth/{provider}/callback", handler.oauthCallback)

	return router
}

// # Request & Response Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresIn int64         `json:"expires_in"`
	User      *account.User `json:"user"`
}

type claimsResponse struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

func newSessionResponse(result *LoginResult) sessionResponse {
	return sessionResponse{
		Token:     result.Token,
		TokenType: constants.TokenTypeBearer,
		ExpiresIn: int64(result.ExpiresIn / time.Second),
		User:      result.User,
	}
}

// # Handlers

/*
POST /api/v1/auth/login.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionResponse
  - 400: VALIDATION_ERROR: Malformed email or empty password
  - 401: INVALID_CREDENTIALS: Unknown email or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.LoginWithEmail(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newSessionResponse(result))
}

/*
GET /api/v1/auth/oauth/providers.

Response:
  - 200: {providers: [...]}
*/
func (handler *Handler) providers(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string][]string{
		FieldProviders: handler.authService.Providers(),
	})
}

/*
GET /api/v1/auth/oauth/{provider}.

Response:
  - 302: Redirect to the provider consent page
  - 400: UNSUPPORTED_PROVIDER
*/
func (handler *Handler) beginOAuth(writer http.ResponseWriter, request *http.Request) {
	loginURL, err := handler.authService.BeginOAuth(request.Context(), requestutil.Param(request, "provider"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, loginURL, http.StatusFound)
}

/*
GET /api/v1/auth/oauth/{provider}/callback.

Request:
  - Query: code, state (or error) as sent by the provider

Response:
  - 200: sessionResponse
  - 400: UNSUPPORTED_PROVIDER
  - 401: OAUTH_FAILED
*/
func (handler *Handler) oauthCallback(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.authService.LoginWithOAuth(
		request.Context(),
		requestutil.Param(request, "provider"),
		request.URL.Query(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newSessionResponse(result))
}

/*
POST /api/v1/auth/verify.

Request:
  - Body: verifyRequest (Token)

Response:
  - 200: claimsResponse
  - 401: UNAUTHENTICATED
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldToken, input.Token).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := handler.authService.VerifyToken(input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := claimsResponse{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Nickname: claims.Nickname,
	}
	if claims.IssuedAt != nil {
		response.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		response.ExpiresAt = claims.ExpiresAt.Time
	}

	respond.OK(writer, response)
}
