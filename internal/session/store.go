package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"agri_advisor/internal/domain"
)

const DefaultIdentityTimeout = 10 * time.Second

var ErrEmptyToken = errors.New("empty token")

// IdentityResolver looks up the user behind a token.
type IdentityResolver interface {
	Me(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenStore persists the session credential between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Store owns the client credential and the identity derived from it.
//
// Every transition bumps a generation counter and an identity lookup only
// lands if its generation is still current, so a slow /api/me answer can
// never resurrect a user after logout or overwrite a newer login.
type Store struct {
	mu         sync.Mutex
	state      domain.SessionState
	generation uint64

	tokens   TokenStore
	resolver IdentityResolver
	timeout  time.Duration
	logger   *slog.Logger

	inflight sync.WaitGroup
}

// NewStore creates a session store in the anonymous state.
func NewStore(tokens TokenStore, resolver IdentityResolver, timeout time.Duration, logger *slog.Logger) *Store {
	if timeout <= 0 {
		timeout = DefaultIdentityTimeout
	}
	return &Store{
		tokens:   tokens,
		resolver: resolver,
		timeout:  timeout,
		logger:   logger.With("component", "session"),
	}
}

// Init loads the persisted token. A non-empty token enters the authenticated
// state without being written back.
func (s *Store) Init(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		s.logger.Debug("no persisted token")
		return nil
	}

	s.authenticate(ctx, token)
	return nil
}

// Login stores a token obtained from the login endpoint. The session only
// changes once the token is persisted.
func (s *Store) Login(ctx context.Context, token string) error {
	return s.enter(ctx, token)
}

// Register stores a token obtained from the registration endpoint.
func (s *Store) Register(ctx context.Context, token string) error {
	return s.enter(ctx, token)
}

func (s *Store) enter(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.authenticate(ctx, token)
	return nil
}

// Logout clears the identity immediately and forgets the persisted token.
// No request is issued.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.state = domain.SessionState{}
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// State returns a snapshot of the session.
func (s *Store) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}

// Token returns the current credential, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Wait blocks until every scheduled identity lookup has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) authenticate(ctx context.Context, token string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = domain.SessionState{Token: token}
	s.mu.Unlock()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.resolve(context.WithoutCancel(ctx), gen, token)
	}()
}

func (s *Store) resolve(ctx context.Context, gen uint64, token string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	identity, err := s.resolver.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale identity", "generation", gen, "current", s.generation)
		return
	}
	if err != nil {
		s.logger.Warn("failed to resolve identity", "error", err)
		return
	}

	s.state.User = identity
	s.logger.Info("identity resolved", "email", identity.Email)
}
