// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth

import (
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2/endpoints"
)

// ProviderDiscord is the registry tag of the Discord strategy.
const ProviderDiscord = "discord"

const discordUserInfoURL = "https://discord.com/api/users/@me"

// discordUser is the subset of the Discord /users/@me payload we read.
type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// NewDiscord creates the Discord strategy with the 'identify' and 'email' scopes.
func NewDiscord(cfg ClientConfig) *CodeFlow {
	return newCodeFlow(ProviderDiscord, cfg, endpoints.Discord, discordUserInfoURL,
		[]string{"identify", "email"}, decodeDiscord)
}

func decodeDiscord(body []byte) (*Profile, error) {
	var user discordUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode discord user: %w", err)
	}

	// Accounts are linked by email.
	if user.Email != "" && !user.Verified {
		return nil, ErrUnverifiedEmail
	}

	return &Profile{
		ProviderUserID: user.ID,
		Username:       user.Username,
		Email:          user.Email,
	}, nil
}
