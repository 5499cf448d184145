// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/sec"
	"github.com/taibuivan/signon/internal/users/account"
	"github.com/taibuivan/signon/internal/users/account/accounttest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestService_Register verifies hashing, defaults and persistence.
*/
func TestService_Register(t *testing.T) {
	repository := accounttest.NewRepository()
	service := account.NewService(repository, discardLogger())

	user, err := service.Register(context.Background(), account.RegisterInput{
		Email:    "Jane.Doe@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane-doe", user.Nickname)
	assert.Equal(t, account.ProviderLocal, user.Provider)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter22", user.PasswordHash))

	stored, err := repository.FindByEmail(context.Background(), "Jane.Doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

/*
TestService_Register_Duplicate maps the unique violation to a conflict.
*/
func TestService_Register_Duplicate(t *testing.T) {
	service := account.NewService(accounttest.NewRepository(), discardLogger())
	input := account.RegisterInput{Email: "a@x.com", Password: "hunter22", Nickname: "a"}

	_, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_Register_StoreFailure propagates non-conflict errors.
*/
func TestService_Register_StoreFailure(t *testing.T) {
	repository := accounttest.NewRepository()
	repository.Err = errors.New("connection refused")
	service := account.NewService(repository, discardLogger())

	_, err := service.Register(context.Background(), account.RegisterInput{Email: "a@x.com", Password: "hunter22"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.Err)
}

func TestService_GetProfile(t *testing.T) {
	service := account.NewService(accounttest.NewRepository(), discardLogger())

	_, err := service.GetProfile(context.Background(), "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	user, err := service.Register(context.Background(), account.RegisterInput{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)

	found, err := service.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)
}
