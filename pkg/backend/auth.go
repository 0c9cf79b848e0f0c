package backend

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// Login exchanges credentials for an access token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	var out LoginResponse
	payload := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "auth/login", nil, payload, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing access token")
	}
	return &out, nil
}

// Logout invalidates the bearer token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
}

// UpdateProfile updates the bearer's own account.
func (c *Client) UpdateProfile(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, "auth/profile", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke logs out the given access token.
func (c *Client) Revoke(ctx context.Context, token string) error {
	return c.WithBearer(token).Logout(ctx)
}
