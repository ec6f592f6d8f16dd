// Package auth issues and resolves session tokens. A token is an opaque
// random string; the session store maps it to a user id until it expires or
// is revoked
package auth

import (
	"bitwise74/files-api/internal/model"
	"bitwise74/files-api/internal/service"
	"bitwise74/files-api/internal/session"
	"bitwise74/files-api/internal/store"
	"bitwise74/files-api/pkg/security"
	"bitwise74/files-api/pkg/validators"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "auth_"
	DefaultTTL = 24 * time.Hour
)

var (
	// ErrUnauthorized is returned for bad credentials
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrUnauthenticated is returned for missing, expired or revoked tokens
	ErrUnauthenticated = errors.New("Unauthorized")
)

type Manager struct {
	users    store.Users
	sessions session.Store
	argon    *security.Argon
	queue    service.Enqueuer
	ttl      time.Duration
}

func NewManager(u store.Users, s session.Store, a *security.Argon, q service.Enqueuer, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{users: u, sessions: s, argon: a, queue: q, ttl: ttl}
}

func key(token string) string {
	return keyPrefix + token
}

// Register creates a user and schedules the welcome mail
func (m *Manager) Register(ctx context.Context, email, password string) (*model.User, error) {
	if err := validators.EmailValidator(email); err != nil {
		return nil, err
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, err
	}

	hash, err := m.argon.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	u := &model.User{
		ID:           store.NewID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	// The unique index decides between concurrent registrations
	if err := m.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	err = m.queue.Enqueue(ctx, model.Job{Kind: model.JobWelcome, UserID: u.ID, EnqueuedAt: time.Now()})
	if err != nil {
		zap.L().Error("Failed to enqueue welcome job", zap.String("user_id", u.ID), zap.Error(err))
	}

	return u, nil
}

// Authenticate checks the credentials and mints a fresh token. Unknown
// emails and wrong passwords can't be told apart
func (m *Manager) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	u, err := m.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.argon.Burn(password)
			return "", ErrUnauthorized
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := m.argon.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return "", ErrUnauthorized
	}

	token := uuid.NewString()
	if err := m.sessions.Put(ctx, key(token), u.ID, m.ttl); err != nil {
		return "", fmt.Errorf("failed to store session, %w", err)
	}

	return token, nil
}

// Resolve returns the id of the user owning token
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	userID, err := m.sessions.Get(ctx, key(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", ErrUnauthenticated
		}

		return "", fmt.Errorf("failed to resolve session, %w", err)
	}

	return userID, nil
}

// CurrentUser resolves token and loads its user. A session pointing at a
// user that no longer exists is treated as no session
func (m *Manager) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := m.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := m.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return u, nil
}

// Revoke ends the session. Revoking an unknown token is not an error
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return m.sessions.Delete(ctx, key(token))
}

// ParseBasic decodes an "Authorization: Basic" header value
func ParseBasic(header string) (email, password string, ok bool) {
	const prefix = "Basic "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}

	email, password, ok = strings.Cut(string(raw), ":")
	return email, password, ok
}
