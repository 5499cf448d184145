// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenIssuer] and [middleware.TokenVerifier]
// interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/signon/internal/platform/apperr"
)

// DefaultTokenTTL is the validity window used when no TTL is configured.
const DefaultTokenTTL = 3600 * time.Second

// ErrMissingSecret is returned at construction when no signing secret is configured.
var ErrMissingSecret = errors.New("sec: token signing secret is required")

// Payload is the identity embedded in a session token.
type Payload struct {
	Subject  string
	Email    string
	Nickname string
}

// Claims represents the decoded content of a session token.
//
// # Why custom claims?
//
// By embedding the user id, email and nickname directly inside the JWT,
// [middleware.Authenticate] can reconstruct the active user context
// WITHOUT querying the database on every request.
type Claims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Payload returns the identity fields carried by the claims.
func (c *Claims) Payload() Payload {
	return Payload{
		Subject:  c.Subject,
		Email:    c.Email,
		Nickname: c.Nickname,
	}
}

// TokenCodec signs and verifies HS256 session tokens with a symmetric secret.
//
// # Concurrency
//
// TokenCodec holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithIssuer sets the 'iss' claim written on every token.
func WithIssuer(issuer string) CodecOption {
	return func(codec *TokenCodec) { codec.issuer = issuer }
}

// WithClock replaces the wall clock used for 'iat', 'exp' and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) { codec.now = now }
}

// NewTokenCodec creates a TokenCodec.
// A non-positive ttl falls back to [DefaultTokenTTL].
func NewTokenCodec(secret string, ttl time.Duration, options ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	codec := &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}

	return codec, nil
}

// TTL returns the default validity window of issued tokens.
func (codec *TokenCodec) TTL() time.Duration {
	return codec.ttl
}

// Issue signs a token for payload using the default TTL.
func (codec *TokenCodec) Issue(payload Payload) (string, error) {
	return codec.IssueWithTTL(payload, codec.ttl)
}

// IssueWithTTL signs a token for payload that expires after timeToLive.
//
// The output only depends on the payload, the TTL, the secret and the clock.
// JWT numeric dates have second precision, so two calls within the same
// second produce the same token.
func (codec *TokenCodec) IssueWithTTL(payload Payload, timeToLive time.Duration) (string, error) {
	currentTime := codec.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email:    payload.Email,
		Nickname: payload.Nickname,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and expiry of a token string, and the
// 'iss' claim when the codec has an issuer.
//
// Every failure is reported as [apperr.ErrInvalidToken]; the underlying
// reason is kept as the cause for logging only.
func (codec *TokenCodec) VerifyToken(tokenString string) (*Claims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
		jwt.WithExpirationRequired(),
	}
	if codec.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(codec.issuer))
	}
	parser := jwt.NewParser(parserOptions...)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return codec.secret, nil
	})
	if err != nil {
		return nil, apperr.InvalidToken(fmt.Errorf("sec: invalid token: %w", err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.InvalidToken(errors.New("sec: invalid token claims"))
	}

	return claims, nil
}
