// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/sec"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) sec.CodecOption {
	return sec.WithClock(func() time.Time { return t })
}

/*
TestTokenCodec_RoundTrip verifies that a token issued with a secret verifies
with the same secret and returns the original payload fields exactly.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := sec.NewTokenCodec("test-secret", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)

	payload := sec.Payload{Subject: "0195a1c2-user", Email: "a@x.com", Nickname: "alice"}

	token, err := codec.Issue(payload)
	require.NoError(t, err)

	claims, err := codec.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, payload, claims.Payload())
	assert.Equal(t, fixedNow.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

/*
TestTokenCodec_Deterministic checks that identical inputs and clock give identical tokens.
*/
func TestTokenCodec_Deterministic(t *testing.T) {
	codec, err := sec.NewTokenCodec("test-secret", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)

	payload := sec.Payload{Subject: "u1", Email: "a@x.com", Nickname: "alice"}

	first, err := codec.Issue(payload)
	require.NoError(t, err)
	second, err := codec.Issue(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

/*
TestTokenCodec_WrongSecret verifies that another secret cannot verify the token.
*/
func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer, err := sec.NewTokenCodec("secret-a", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)
	verifier, err := sec.NewTokenCodec("secret-b", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)

	token, err := issuer.Issue(sec.Payload{Subject: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidToken))
}

/*
TestTokenCodec_Expiry verifies that a 1 second token fails after 2 seconds.
*/
func TestTokenCodec_Expiry(t *testing.T) {
	issuer, err := sec.NewTokenCodec("test-secret", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)

	token, err := issuer.IssueWithTTL(sec.Payload{Subject: "u1"}, time.Second)
	require.NoError(t, err)

	later, err := sec.NewTokenCodec("test-secret", time.Hour, clockAt(fixedNow.Add(2*time.Second)))
	require.NoError(t, err)

	_, err = later.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidToken))

	// Still valid inside the window.
	_, err = issuer.VerifyToken(token)
	assert.NoError(t, err)
}

/*
TestTokenCodec_RejectsMalformed checks that garbage and unsigned tokens are rejected
with the same error kind as expired ones.
*/
func TestTokenCodec_RejectsMalformed(t *testing.T) {
	codec, err := sec.NewTokenCodec("test-secret", time.Hour, clockAt(fixedNow))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"alg_none", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ1MSJ9."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.VerifyToken(tt.token)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeUnauthenticated, ae.Code)
			assert.Equal(t, "Unauthenticated", ae.Message)
		})
	}
}

/*
TestNewTokenCodec_Config covers the construction rules for secret and TTL.
*/
func TestNewTokenCodec_Config(t *testing.T) {
	_, err := sec.NewTokenCodec("", time.Hour)
	assert.ErrorIs(t, err, sec.ErrMissingSecret)

	codec, err := sec.NewTokenCodec("s", 0)
	require.NoError(t, err)
	assert.Equal(t, sec.DefaultTokenTTL, codec.TTL())
	assert.Equal(t, 3600*time.Second, codec.TTL())
}

/*
TestTokenCodec_Issuer verifies the optional 'iss' claim.
*/
func TestTokenCodec_Issuer(t *testing.T) {
	codec, err := sec.NewTokenCodec("s", time.Hour, sec.WithIssuer("signon.test"), clockAt(fixedNow))
	require.NoError(t, err)

	token, err := codec.Issue(sec.Payload{Subject: "u1"})
	require.NoError(t, err)

	claims, err := codec.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "signon.test", claims.Issuer)
}

/*
TestTokenCodec_ForeignIssuer verifies that a token signed with the same
secret by another deployment is rejected.
*/
func TestTokenCodec_ForeignIssuer(t *testing.T) {
	codec, err := sec.NewTokenCodec("shared", time.Hour, sec.WithIssuer("signon.prod"), clockAt(fixedNow))
	require.NoError(t, err)

	tests := []struct {
		name    string
		options []sec.CodecOption
	}{
		{"other_issuer", []sec.CodecOption{sec.WithIssuer("signon.staging"), clockAt(fixedNow)}},
		{"no_issuer", []sec.CodecOption{clockAt(fixedNow)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foreign, err := sec.NewTokenCodec("shared", time.Hour, tt.options...)
			require.NoError(t, err)

			token, err := foreign.Issue(sec.Payload{Subject: "u1"})
			require.NoError(t, err)

			_, err = codec.VerifyToken(token)
			assert.ErrorIs(t, err, apperr.ErrInvalidToken)
		})
	}
}
