// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/apperr"
	"github.com/taibuivan/signon/internal/platform/validate"
)

// loginRules is the chain the login handler applies.
func loginRules(email, password string) *validate.Validator {
	v := &validate.Validator{}
	return v.Required("email", email).
		Email("email", email).
		Required("password", password)
}

// registerRules is the chain the register handler applies.
func registerRules(email, password, nickname string) *validate.Validator {
	v := &validate.Validator{}
	return v.Required("email", email).
		Email("email", email).
		MaxLen("email", email, 254).
		Required("password", password).
		MinLen("password", password, 8).
		Custom("password", len(password) > 72, "Maximum 72 bytes").
		MaxLen("nickname", nickname, 64)
}

// failedFields returns the distinct fields reported by err, in order.
func failedFields(t *testing.T, err error) []string {
	t.Helper()

	if err == nil {
		return nil
	}

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)

	var fields []string
	for _, detail := range appError.Details {
		if len(fields) == 0 || fields[len(fields)-1] != detail.Field {
			fields = append(fields, detail.Field)
		}
	}
	return fields
}

/*
TestEmail_BareAddressOnly checks that only a plain address is accepted, so the
stored email is exactly what the client typed.
*/
func TestEmail_BareAddressOnly(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain", "a@x.com", true},
		{"subaddress", "a+signon@x.com", true},
		{"display_name", "Alice <a@x.com>", false},
		{"quoted_display_name", `"Alice" <a@x.com>`, false},
		{"angle_brackets_only", "<a@x.com>", false},
		{"leading_space", " a@x.com", false},
		{"no_domain", "a@", false},
		{"no_at", "a.x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Email("email", tt.email).Err()

			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, []string{"email"}, failedFields(t, err))
			}
		})
	}
}

/*
TestLoginRules covers the required email and password of a login request.
*/
func TestLoginRules(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     []string
	}{
		{"valid", "a@x.com", "hunter2", nil},
		{"short_password_allowed", "a@x.com", "x", nil},
		{"missing_email", "", "hunter2", []string{"email"}},
		{"blank_password", "a@x.com", "   ", []string{"password"}},
		{"display_name_email", "Alice <a@x.com>", "hunter2", []string{"email"}},
		{"both_missing", "", "", []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loginRules(tt.email, tt.password).Err()
			assert.Equal(t, tt.want, failedFields(t, err))
		})
	}
}

/*
TestRegisterRules covers the password byte cap and the character limits of a
registration request.
*/
func TestRegisterRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		nickname string
		want     []string
	}{
		{"minimal", "hunter22", "", nil},
		{"password_too_short", "hunter2", "", []string{"password"}},
		{"password_72_bytes", strings.Repeat("a", 72), "", nil},
		{"password_73_bytes", strings.Repeat("a", 73), "", []string{"password"}},

		// 40 runes fit the character rules but take 80 bytes.
		{"multibyte_password_over_cap", strings.Repeat("é", 40), "", []string{"password"}},
		{"multibyte_password_under_cap", strings.Repeat("é", 36), "", nil},

		{"nickname_64_runes", "hunter22", strings.Repeat("ä", 64), nil},
		{"nickname_65_runes", "hunter22", strings.Repeat("ä", 65), []string{"nickname"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registerRules("a@x.com", tt.password, tt.nickname).Err()
			assert.Equal(t, tt.want, failedFields(t, err))
		})
	}
}

/*
TestRegisterRules_EmailLength checks the 254 character address limit.
*/
func TestRegisterRules_EmailLength(t *testing.T) {
	domain := "@" + strings.Repeat("d", 60) + ".com"

	atLimit := strings.Repeat("u", 254-len(domain)) + domain
	require.Len(t, atLimit, 254)

	err := registerRules(atLimit, "hunter22", "").Err()
	assert.NotContains(t, failedFields(t, err), "email")

	err = registerRules("u"+atLimit, "hunter22", "").Err()
	assert.Contains(t, failedFields(t, err), "email")
}

/*
TestValidator_CollectsAllFailures checks that one response reports every
failed field.
*/
func TestValidator_CollectsAllFailures(t *testing.T) {
	v := registerRules("not-an-email", "short", strings.Repeat("n", 65))

	assert.True(t, v.HasErrors())
	assert.Equal(t, []string{"email", "password", "nickname"}, failedFields(t, v.Err()))
}
