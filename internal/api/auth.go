package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges credentials for a session token. The token is not installed
// on the client; callers decide whether to persist it.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	if c == nil {
		return AuthResult{}, fmt.Errorf("client is nil")
	}
	return c.authCall(ctx, "/api/auth/login", creds)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	if c == nil {
		return AuthResult{}, fmt.Errorf("client is nil")
	}
	return c.authCall(ctx, "/api/auth/register", reg)
}

// UpdateProfile saves profile fields for the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) (AuthResult, error) {
	if c == nil {
		return AuthResult{}, fmt.Errorf("client is nil")
	}
	return c.authCall(ctx, "/api/auth/profile", profile)
}

// Verify returns the user behind the current token.
func (c *Client) Verify(ctx context.Context) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	if c.bearer() == "" {
		return User{}, &ServerError{Status: http.StatusUnauthorized, Message: "not signed in"}
	}
	body, err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, "")
	if err != nil {
		return User{}, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return User{}, decodeError(err)
	}
	if env.failed() {
		return User{}, &ServerError{Status: http.StatusUnauthorized, Message: strings.TrimSpace(env.Message)}
	}
	if env.User != nil {
		return *env.User, nil
	}
	// Some deployments put the user under "data".
	if len(env.Data) > 0 && string(env.Data) != "null" {
		var user User
		if err := json.Unmarshal(env.Data, &user); err != nil {
			return User{}, decodeError(err)
		}
		return user, nil
	}
	return User{}, &ServerError{Status: http.StatusUnauthorized, Message: "no user in response"}
}

func (c *Client) authCall(ctx context.Context, path string, payload any) (AuthResult, error) {
	body, err := c.doJSON(ctx, http.MethodPost, path, payload)
	if err != nil {
		return AuthResult{}, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return AuthResult{}, decodeError(err)
	}
	if len(env.Errors) > 0 {
		return AuthResult{}, &ValidationError{Fields: env.Errors}
	}
	if env.Success == nil || !*env.Success {
		return AuthResult{}, &ServerError{Message: env.Message}
	}
	return AuthResult{
		Redirect:    env.Redirect,
		AccessToken: env.AccessToken,
		Message:     env.Message,
		User:        env.User,
	}, nil
}
