// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth

import (
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2/endpoints"
)

// ProviderGoogle is the registry tag of the Google strategy.
const ProviderGoogle = "google"

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// googleUser holds the OpenID Connect userinfo claims we read.
type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// NewGoogle creates the Google strategy with the 'openid', 'email' and 'profile' scopes.
func NewGoogle(cfg ClientConfig) *CodeFlow {
	return newCodeFlow(ProviderGoogle, cfg, endpoints.Google, googleUserInfoURL,
		[]string{"openid", "email", "profile"}, decodeGoogle)
}

func decodeGoogle(body []byte) (*Profile, error) {
	var user googleUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode google user: %w", err)
	}

	if user.Email != "" && !user.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	return &Profile{
		ProviderUserID: user.Sub,
		Username:       user.Name,
		Email:          user.Email,
	}, nil
}
