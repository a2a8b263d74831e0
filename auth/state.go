// Package auth holds the signed-in state of a storefront session and the
// login, registration and OTP flows that change it.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"go.uber.org/zap"
)

// Keys in the session key-value store.
const (
	KeyToken      = "token"
	KeyAdminToken = "admin_token"
	KeyUser       = "user"
)

// State is the token and user of one session. The store is the persisted
// copy; memory is authoritative while the process runs.
type State struct {
	mu       sync.RWMutex
	store    database.Store
	tokenKey string
	token    string
	user     *models.User
	logger   *zap.Logger
}

func NewState(store database.Store, tokenKey string, logger *zap.Logger) *State {
	if tokenKey == "" {
		tokenKey = KeyToken
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{store: store, tokenKey: tokenKey, logger: logger}
}

// Restore loads the persisted token and user.
func (s *State) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, s.tokenKey)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("restore token: %w", err)
	}

	var user *models.User
	raw, err := s.store.Get(ctx, KeyUser)
	switch {
	case err == nil:
		user = &models.User{}
		if err := json.Unmarshal(raw, user); err != nil {
			s.logger.Warn("discarding unreadable persisted user", zap.Error(err))
			user = nil
		}
	case !errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("restore user: %w", err)
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = user
	s.mu.Unlock()
	return nil
}

// Token implements apiclient.TokenSource.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// SignIn stores a new token and user.
func (s *State) SignIn(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return errors.New("empty token")
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if err := s.store.Set(ctx, s.tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return s.persistUser(ctx, user)
}

// SetUser replaces the cached user, keeping the token.
func (s *State) SetUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return s.persistUser(ctx, user)
}

func (s *State) persistUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.store.Clear(ctx, KeyUser)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, KeyUser, raw); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Teardown forgets the token and user. It runs on logout and whenever the
// upstream answers 401 to an authenticated call.
func (s *State) Teardown(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	for _, key := range []string{s.tokenKey, KeyUser} {
		if err := s.store.Clear(ctx, key); err != nil {
			s.logger.Warn("failed to clear persisted auth state", zap.String("key", key), zap.Error(err))
		}
	}
}
