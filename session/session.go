// Package session owns the current identity and its bearer token, and keeps
// them in the key-value store between runs.
package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/go-playground/validator/v10"
	"github.com/jevinjosh/event-management/clients"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/kv"
	"github.com/jevinjosh/event-management/observe"
)

// FreshnessWindow is how long a persisted session may be restored after the
// login that created it.
const FreshnessWindow = 48 * time.Hour

var sessionKeys = []string{kv.KeyToken, kv.KeyUserData, kv.KeyLoginTime}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (clients.AuthResponse, error)
	Register(ctx context.Context, input entity.RegisterInput) (clients.AuthResponse, error)
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithFreshnessWindow(d time.Duration) Option {
	return func(s *Store) {
		s.window = d
	}
}

type Store struct {
	api      AuthAPI
	kv       kv.Store
	now      func() time.Time
	window   time.Duration
	validate *validator.Validate

	lock  sync.RWMutex
	state entity.Session
	subs  observe.Subscribers[entity.Session]
}

// New returns a store in the loading state. Call Restore to leave it.
func New(api AuthAPI, store kv.Store, opts ...Option) *Store {
	s := &Store{
		api:      api,
		kv:       store,
		now:      time.Now,
		window:   FreshnessWindow,
		validate: validator.New(),
		state:    entity.Session{Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() entity.Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return copySession(s.state)
}

func (s *Store) Subscribe(fn func(entity.Session)) func() {
	return s.subs.Add(fn)
}

// Restore reads the persisted session. Expired, incomplete or unreadable
// sessions are wiped from the key-value store and leave the store
// unauthenticated.
func (s *Store) Restore(ctx context.Context) entity.Session {
	logger := log.FromContext(ctx)

	user, token, err := s.readPersisted(ctx)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.set(entity.Session{})
	case errors.Is(err, kv.ErrCorrupt), errors.Is(err, errSessionExpired):
		logger.WithError(err).Warn("Discarding persisted session")
		s.wipe(ctx)
		s.set(entity.Session{})
	case err != nil:
		logger.WithError(err).Warn("Could not read persisted session")
		s.set(entity.Session{})
	default:
		s.set(entity.Session{User: &user, Token: token, IsAuthenticated: true})
	}

	return s.Snapshot()
}

var errSessionExpired = errors.New("session expired")

func (s *Store) readPersisted(ctx context.Context) (entity.User, string, error) {
	token, err := s.kv.Get(ctx, kv.KeyToken)
	if err != nil {
		return entity.User{}, "", err
	}

	var user entity.User
	if err := kv.GetJSON(ctx, s.kv, kv.KeyUserData, &user); err != nil {
		return entity.User{}, "", err
	}

	raw, err := s.kv.Get(ctx, kv.KeyLoginTime)
	if errors.Is(err, kv.ErrNotFound) {
		return entity.User{}, "", kv.ErrCorrupt
	}
	if err != nil {
		return entity.User{}, "", err
	}

	loginMillis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return entity.User{}, "", kv.ErrCorrupt
	}

	if s.now().Sub(time.UnixMilli(loginMillis)) > s.window {
		return entity.User{}, "", errSessionExpired
	}

	if token == "" || user.ID == "" {
		return entity.User{}, "", kv.ErrCorrupt
	}

	return user, token, nil
}

// Login reports whether the credentials were accepted. Failures never
// surface as errors.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.setLoading(true)

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("Login failed")
		s.setLoading(false)
		return false
	}

	s.start(ctx, res)
	return true
}

func (s *Store) Register(ctx context.Context, input entity.RegisterInput) bool {
	if err := s.validate.Struct(input); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Registration rejected")
		return false
	}

	s.setLoading(true)

	res, err := s.api.Register(ctx, input)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("Registration failed")
		s.setLoading(false)
		return false
	}

	s.start(ctx, res)
	return true
}

// Logout drops the session unconditionally.
func (s *Store) Logout(ctx context.Context) {
	s.wipe(ctx)
	s.set(entity.Session{})
}

func (s *Store) start(ctx context.Context, res clients.AuthResponse) {
	user := res.User

	if err := s.persist(ctx, res.Token, user); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Could not persist session")
	}

	s.set(entity.Session{User: &user, Token: res.Token, IsAuthenticated: true})
}

func (s *Store) persist(ctx context.Context, token string, user entity.User) error {
	if err := s.kv.Set(ctx, kv.KeyToken, token); err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, s.kv, kv.KeyUserData, user); err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeyLoginTime, strconv.FormatInt(s.now().UnixMilli(), 10))
}

func (s *Store) wipe(ctx context.Context) {
	if err := s.kv.Remove(ctx, sessionKeys...); err != nil {
		log.FromContext(ctx).WithError(err).Warn("Could not clear persisted session")
	}
}

func (s *Store) set(state entity.Session) {
	s.lock.Lock()
	s.state = state
	snapshot := copySession(s.state)
	s.lock.Unlock()

	s.subs.Notify(snapshot)
}

func (s *Store) setLoading(loading bool) {
	s.lock.Lock()
	s.state.Loading = loading
	snapshot := copySession(s.state)
	s.lock.Unlock()

	s.subs.Notify(snapshot)
}

func copySession(s entity.Session) entity.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
