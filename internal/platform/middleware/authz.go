// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/constants"
	"github.com/taibuivan/signon/internal/platform/ctxutil"
	"github.com/taibuivan/signon/internal/platform/respond"
	"github.com/taibuivan/signon/internal/platform/sec"
)

// TokenVerifier verifies session tokens for [Authenticate].
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.Claims, error)
}

// Authenticate extracts and verifies the session token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify it via [TokenVerifier].
//  4. Inject [*sec.Claims] into the request context for downstream use.
//
// A malformed or rejected token never ends the request here: it proceeds
// anonymously with the rejection recorded, and [RequireAuth] reports it on
// protected routes. Public routes such as login stay reachable with a stale
// session header.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, constants.TokenTypeBearer) || token == "" {
				ctx := ctxutil.WithAuthError(request.Context(), apperr.InvalidToken(nil))
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ctx := ctxutil.WithAuthError(request.Context(), err)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// A token rejected by [Authenticate] is reported with its own error;
// a request without any token gets UNAUTHORIZED.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			if err := ctxutil.GetAuthError(request.Context()); err != nil {
				respond.Error(writer, request, err)
				return
			}
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
