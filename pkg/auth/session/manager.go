package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joramcars/dealership-web/pkg/auth"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/enums"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
)

// Store keys for the signed-in admin. Both are written and removed together.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// API is the slice of the backend used for signing in and out.
type API interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResponse, error)
	Revoke(ctx context.Context, token string) error
}

// Session is the signed-in admin of one visitor.
type Session struct {
	Token string
	User  backend.User
}

// IsAdmin reports whether the user holds the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == enums.UserRoleAdmin
}

// Manager keeps the bearer token and user record in the visitor's store.
type Manager struct {
	api  API
	logg *logger.Logger
	now  func() time.Time
}

func NewManager(api API, logg *logger.Logger) (*Manager, error) {
	if api == nil {
		return nil, fmt.Errorf("auth api is required")
	}
	return &Manager{api: api, logg: logg, now: time.Now}, nil
}

// Login authenticates and stores the session.
func (m *Manager) Login(ctx context.Context, store kv.Store, email, password string) (*Session, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	rawUser, err := json.Marshal(resp.User)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode user")
	}
	if err := store.Set(ctx, TokenKey, resp.AccessToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session token")
	}
	if err := store.Set(ctx, UserKey, string(rawUser)); err != nil {
		m.clear(ctx, store)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session user")
	}
	return &Session{Token: resp.AccessToken, User: resp.User}, nil
}

// Logout revokes the token when there is one and always clears the stored
// session. Revocation failures are ignored.
func (m *Manager) Logout(ctx context.Context, store kv.Store) {
	token, err := store.Get(ctx, TokenKey)
	if err == nil && token != "" {
		if revokeErr := m.api.Revoke(ctx, token); revokeErr != nil && m.logg != nil {
			m.logg.Warn(ctx, fmt.Sprintf("logout revoke failed: %v", revokeErr))
		}
	}
	m.clear(ctx, store)
}

// Current returns the stored session, or nil when signed out. A session whose
// user record is unreadable or whose token has expired is cleared.
func (m *Manager) Current(ctx context.Context, store kv.Store) (*Session, error) {
	token, err := store.Get(ctx, TokenKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session token")
	}
	rawUser, err := store.Get(ctx, UserKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session user")
	}

	var user backend.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		m.clear(ctx, store)
		return nil, nil
	}
	if _, err := auth.CheckAccessToken(token, m.now()); err != nil {
		m.clear(ctx, store)
		return nil, nil
	}
	return &Session{Token: token, User: user}, nil
}

func (m *Manager) clear(ctx context.Context, store kv.Store) {
	for _, key := range []string{TokenKey, UserKey} {
		if err := store.Remove(ctx, key); err != nil && m.logg != nil {
			m.logg.Error(ctx, "clear session key", err)
		}
	}
}
