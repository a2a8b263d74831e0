// Package session builds and caches the per-browser state objects that
// handlers operate on.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/auth"
	"github.com/Madhav-Gupta-28/storefront-go/cart"
	"github.com/Madhav-Gupta-28/storefront-go/checkout"
	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	"github.com/Madhav-Gupta-28/storefront-go/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownSession = errors.New("unknown session")

type Kind string

const (
	KindCustomer Kind = "customer"
	KindAdmin    Kind = "admin"
)

const keyMeta = "session"

// stateKeys lists every key a session persists.
var stateKeys = []string{
	keyMeta, auth.KeyToken, auth.KeyAdminToken, auth.KeyUser,
	cart.KeyCart, cart.KeyWishlist, checkout.KeyPending,
}

type meta struct {
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	ID       string
	Kind     Kind
	API      *apiclient.Client
	Auth     *auth.Service
	Cart     *cart.Cart
	Wishlist *cart.Wishlist
	Checkout *checkout.Flow

	mu        sync.Mutex
	lastSeen  time.Time
	refreshed time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// AfterSignIn pulls the saved cart from the upstream profile and adopts it
// when the local cart is empty. Failures are soft and returned as a
// warning.
func (s *Session) AfterSignIn(ctx context.Context) string {
	if s.Cart == nil {
		return ""
	}
	profile, err := s.API.GetProfile(ctx)
	if err != nil {
		return "Signed in, but your saved cart could not be loaded"
	}
	_, res, err := s.Cart.Adopt(ctx, profile.SavedCart)
	if err != nil || res.SyncErr != nil {
		return "Signed in, but your cart could not be synced"
	}
	return ""
}

// Options configure a Manager. With a TTL, persisted state expires once a
// session has been inactive that long.
type Options struct {
	Store       database.Store
	TTL         time.Duration
	API         *apiclient.Client
	Rules       pricing.Rules
	RazorpayKey string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

type Manager struct {
	opts     Options
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{opts: opts, sessions: make(map[string]*Session)}
}

// Create starts a new session of the given kind and persists its marker.
func (m *Manager) Create(ctx context.Context, kind Kind) (*Session, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(meta{Kind: kind, CreatedAt: m.opts.Now()})
	if err != nil {
		return nil, err
	}
	if err := m.namespace(id).Set(ctx, keyMeta, raw); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s := m.build(id, kind)
	m.cache(s)
	m.opts.Logger.Debug("session created", zap.String("session", id), zap.String("kind", string(kind)))
	return s, nil
}

// Get returns a cached session or loads it from the store.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		now := m.opts.Now()
		s.touch(now)
		if err := m.refresh(ctx, s, now); err != nil {
			m.opts.Logger.Warn("failed to refresh session ttl", zap.String("session", id), zap.Error(err))
		}
		return s, nil
	}

	ns := m.namespace(id)
	raw, err := ns.Get(ctx, keyMeta)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnknownSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var md meta
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s = m.build(id, md.Kind)
	if err := s.Auth.State().Restore(ctx); err != nil {
		return nil, err
	}
	if s.Cart != nil {
		if err := s.Cart.Restore(ctx); err != nil {
			return nil, err
		}
		if err := s.Wishlist.Restore(ctx); err != nil {
			return nil, err
		}
		if err := s.Checkout.Restore(ctx); err != nil {
			return nil, err
		}
	}

	now := m.opts.Now()
	s.touch(now)
	if err := m.refresh(ctx, s, now); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// lost a race with a concurrent load
		m.mu.Unlock()
		return existing, nil
	}
	m.sessions[id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)
	return s, nil
}

// Destroy drops the session from memory and clears its persisted keys.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)

	ns := m.namespace(id)
	for _, key := range stateKeys {
		if err := ns.Clear(ctx, key); err != nil {
			return fmt.Errorf("clear session %s: %w", key, err)
		}
	}
	return nil
}

// Evict removes sessions idle for longer than idle from memory. Their
// persisted state stays, reloaded on the next Get until its TTL passes.
func (m *Manager) Evict(idle time.Duration) int {
	now := m.opts.Now()
	m.mu.Lock()
	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > idle {
			delete(m.sessions, id)
			evicted++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)
	return evicted
}

// Sweep reclaims expired session state from stores that do not expire keys
// on their own.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	sw, ok := m.opts.Store.(database.Sweeper)
	if !ok || m.opts.TTL <= 0 {
		return 0, nil
	}
	return sw.Sweep(ctx)
}

// refresh extends the TTL of the session's keys, at most once per quarter
// TTL.
func (m *Manager) refresh(ctx context.Context, s *Session, now time.Time) error {
	if m.opts.TTL <= 0 {
		return nil
	}
	s.mu.Lock()
	due := s.refreshed.IsZero() || now.Sub(s.refreshed) >= m.opts.TTL/4
	if due {
		s.refreshed = now
	}
	s.mu.Unlock()
	if !due {
		return nil
	}
	return m.namespace(s.ID).Refresh(ctx, stateKeys...)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) cache(s *Session) {
	now := m.opts.Now()
	s.touch(now)
	s.mu.Lock()
	s.refreshed = now
	s.mu.Unlock()
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)
}

func (m *Manager) namespace(id string) *database.Namespaced {
	return database.Namespace(m.opts.Store, "session:"+id).WithTTL(m.opts.TTL)
}

func (m *Manager) build(id string, kind Kind) *Session {
	ns := m.namespace(id)
	logger := m.opts.Logger.With(zap.String("session", id))

	tokenKey := auth.KeyToken
	if kind == KindAdmin {
		tokenKey = auth.KeyAdminToken
	}
	state := auth.NewState(ns, tokenKey, logger)
	api := m.opts.API.WithSession(state, func() {
		state.Teardown(context.Background())
	})

	s := &Session{
		ID:   id,
		Kind: kind,
		API:  api,
		Auth: auth.NewService(state, api),
	}
	if kind == KindAdmin {
		return s
	}

	s.Cart = cart.New(ns,
		cart.WithSync(api, state),
		cart.WithLogger(logger),
		cart.WithMetrics(m.opts.Metrics),
	)
	s.Wishlist = cart.NewWishlist(ns, logger)
	s.Checkout = &checkout.Flow{
		Checkout:    checkout.New(),
		Cart:        s.Cart,
		Store:       ns,
		Users:       state,
		API:         api,
		Rules:       m.opts.Rules,
		RazorpayKey: m.opts.RazorpayKey,
		Now:         m.opts.Now,
		Logger:      logger,
		Metrics:     m.opts.Metrics,
	}
	return s
}
