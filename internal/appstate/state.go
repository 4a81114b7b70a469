// Package appstate holds the application-wide context shared by every page:
// the logged-in session and the system configuration. Pages subscribe to
// configuration changes instead of reaching for globals.
package appstate

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/alfredjeanlab/granja/internal/model"
)

// SessionStore persists the session between runs.
type SessionStore interface {
	Load() (*model.Session, error)
	Save(*model.Session) error
	Clear() error
}

// Backend is the part of the API the state needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Configuration(ctx context.Context) (model.Configuration, error)
}

// Dialer returns a backend authenticated with token ("" for anonymous).
type Dialer func(token string) Backend

// State is safe for concurrent use. Subscribers are called synchronously,
// outside the lock, in subscription order.
type State struct {
	store SessionStore
	dial  Dialer
	log   zerolog.Logger

	mu      sync.RWMutex
	session *model.Session
	config  model.Configuration
	subs    map[int]func(model.Configuration)
	nextSub int
}

// New creates an empty state. Call Init to load the stored session.
func New(store SessionStore, dial Dialer, log zerolog.Logger) *State {
	return &State{
		store: store,
		dial:  dial,
		log:   log,
		subs:  map[int]func(model.Configuration){},
	}
}

// Init loads the stored session and, when someone is logged in, fetches the
// configuration once.
func (s *State) Init(ctx context.Context) error {
	if err := s.Restore(); err != nil {
		return err
	}
	if s.Token() == "" {
		s.log.Debug().Msg("no stored session")
		return nil
	}
	return s.Refresh(ctx)
}

// Restore loads the stored session without contacting the backend.
func (s *State) Restore() error {
	sess, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return nil
}

// Refresh re-fetches the configuration and notifies subscribers.
func (s *State) Refresh(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return ErrNotLoggedIn
	}
	cfg, err := s.dial(token).Configuration(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch configuration")
	}
	s.SetConfig(cfg)
	return nil
}

// ErrNotLoggedIn is returned by operations that need a session.
var ErrNotLoggedIn = errors.New("not logged in")

// Session returns a copy of the current session, or nil.
func (s *State) Session() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Token returns the bearer token of the current session.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Config returns a copy of the current configuration. It is nil until the
// first successful fetch.
func (s *State) Config() model.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.config)
}

// SetConfig replaces the configuration and notifies subscribers.
func (s *State) SetConfig(cfg model.Configuration) {
	s.mu.Lock()
	s.config = maps.Clone(cfg)
	subs := s.snapshotSubs()
	s.mu.Unlock()
	s.notify(subs, cfg)
}

// Subscribe registers fn for configuration changes. The returned function
// removes the subscription.
func (s *State) Subscribe(fn func(model.Configuration)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login authenticates, persists the session and loads the configuration.
func (s *State) Login(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := s.dial("").Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.log.Info().Str("user", sess.User.Email).Str("role", sess.User.Role).Msg("logged in")

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("configuration not loaded after login")
	}
	return s.Session(), nil
}

// Logout clears the stored session and the in-memory configuration.
func (s *State) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.session = nil
	s.config = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()
	s.notify(subs, nil)
	return nil
}

func (s *State) snapshotSubs() []func(model.Configuration) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(model.Configuration), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

func (s *State) notify(subs []func(model.Configuration), cfg model.Configuration) {
	for _, fn := range subs {
		fn(maps.Clone(cfg))
	}
}
