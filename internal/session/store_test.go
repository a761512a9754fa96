package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"agri_advisor/internal/domain"
)

type fakeResolver struct {
	mu         sync.Mutex
	calls      []string
	identities map[string]*domain.Identity
	gates      map[string]chan struct{}
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		identities: map[string]*domain.Identity{},
		gates:      map[string]chan struct{}{},
	}
}

func (f *fakeResolver) Me(ctx context.Context, token string) (*domain.Identity, error) {
	f.mu.Lock()
	f.calls = append(f.calls, token)
	gate := f.gates[token]
	identity := f.identities[token]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if identity == nil {
		return nil, domain.NewUnauthorized("Invalid token")
	}
	return identity, nil
}

func (f *fakeResolver) hold(token string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[token] = gate
	return gate
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingTokenStore struct {
	MemoryTokenStore
	mu      sync.Mutex
	saves   int
	saveErr error
}

func (c *countingTokenStore) Save(ctx context.Context, token string) error {
	c.mu.Lock()
	c.saves++
	err := c.saveErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.MemoryTokenStore.Save(ctx, token)
}

type StoreTestSuite struct {
	suite.Suite
	resolver *fakeResolver
	tokens   *countingTokenStore
	store    *Store
	ctx      context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.resolver = newFakeResolver()
	s.resolver.identities["tok-a"] = &domain.Identity{Name: "Asha", Email: "asha@example.com"}
	s.resolver.identities["tok-b"] = &domain.Identity{Name: "Bala", Email: "bala@example.com"}
	s.tokens = &countingTokenStore{}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.store = NewStore(s.tokens, s.resolver, time.Second, logger)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestLogin_PersistsAndResolvesIdentity() {
	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.store.Wait()

	state := s.store.State()
	s.True(state.Authenticated())
	s.Equal("tok-a", state.Token)
	s.Require().NotNil(state.User)
	s.Equal("Asha", state.User.Name)

	persisted, _ := s.tokens.Load(s.ctx)
	s.Equal("tok-a", persisted)
	s.Equal(1, s.resolver.callCount())
}

func (s *StoreTestSuite) TestRegister_BehavesLikeLogin() {
	s.Require().NoError(s.store.Register(s.ctx, "tok-b"))
	s.store.Wait()

	s.Equal("Bala", s.store.State().User.Name)
	s.Equal(1, s.tokens.saves)
}

func (s *StoreTestSuite) TestLogin_EmptyToken() {
	err := s.store.Login(s.ctx, "")

	s.ErrorIs(err, ErrEmptyToken)
	s.False(s.store.State().Authenticated())
	s.Equal(0, s.resolver.callCount())
}

func (s *StoreTestSuite) TestLogin_SaveFailureStaysAnonymous() {
	s.tokens.saveErr = errors.New("disk full")

	err := s.store.Login(s.ctx, "tok-a")
	s.store.Wait()

	s.ErrorContains(err, "disk full")
	state := s.store.State()
	s.Empty(state.Token)
	s.Nil(state.User)
	s.Equal(0, s.resolver.callCount())
}

func (s *StoreTestSuite) TestLogin_SaveFailureKeepsPreviousSession() {
	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.store.Wait()

	s.tokens.saveErr = errors.New("disk full")
	s.Error(s.store.Register(s.ctx, "tok-b"))
	s.store.Wait()

	state := s.store.State()
	s.Equal("tok-a", state.Token)
	s.Require().NotNil(state.User)
	s.Equal("Asha", state.User.Name)
	s.Equal(1, s.resolver.callCount())
}

func (s *StoreTestSuite) TestLogout_ClearsImmediatelyWithoutRequest() {
	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.store.Wait()
	calls := s.resolver.callCount()

	s.Require().NoError(s.store.Logout(s.ctx))

	state := s.store.State()
	s.Empty(state.Token)
	s.Nil(state.User)
	s.Equal(calls, s.resolver.callCount())

	persisted, _ := s.tokens.Load(s.ctx)
	s.Empty(persisted)
}

func (s *StoreTestSuite) TestResolutionFailure_KeepsToken() {
	s.Require().NoError(s.store.Login(s.ctx, "tok-expired"))
	s.store.Wait()

	state := s.store.State()
	s.Equal("tok-expired", state.Token)
	s.Nil(state.User)
}

func (s *StoreTestSuite) TestStaleResolutionAfterLogout_IsDiscarded() {
	gate := s.resolver.hold("tok-a")

	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.Require().NoError(s.store.Logout(s.ctx))
	close(gate)
	s.store.Wait()

	state := s.store.State()
	s.Empty(state.Token)
	s.Nil(state.User)
}

func (s *StoreTestSuite) TestStaleResolutionAfterRelogin_IsDiscarded() {
	gate := s.resolver.hold("tok-a")

	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.Require().NoError(s.store.Login(s.ctx, "tok-b"))

	s.Eventually(func() bool {
		return s.store.State().User != nil
	}, time.Second, 5*time.Millisecond)

	close(gate)
	s.store.Wait()

	state := s.store.State()
	s.Equal("tok-b", state.Token)
	s.Equal("Bala", state.User.Name)
}

func (s *StoreTestSuite) TestResolutionSurvivesCallerCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)

	s.Require().NoError(s.store.Login(ctx, "tok-a"))
	cancel()
	s.store.Wait()

	s.Require().NotNil(s.store.State().User)
}

func (s *StoreTestSuite) TestInit_LoadsPersistedTokenWithoutSaving() {
	s.tokens.token = "tok-b"

	s.Require().NoError(s.store.Init(s.ctx))
	s.store.Wait()

	state := s.store.State()
	s.Equal("tok-b", state.Token)
	s.Equal("Bala", state.User.Name)
	s.Equal(0, s.tokens.saves)
}

func (s *StoreTestSuite) TestInit_NoToken() {
	s.Require().NoError(s.store.Init(s.ctx))
	s.store.Wait()

	s.False(s.store.State().Authenticated())
	s.Equal(0, s.resolver.callCount())
}

func (s *StoreTestSuite) TestState_ReturnsCopy() {
	s.Require().NoError(s.store.Login(s.ctx, "tok-a"))
	s.store.Wait()

	state := s.store.State()
	state.User.Name = "changed"

	s.Equal("Asha", s.store.State().User.Name)
}

func TestFileTokenStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "agri", "credentials.yaml")

	first := NewFileTokenStore(path)
	token, err := first.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, first.Save(ctx, "tok-a"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := NewFileTokenStore(path)
	token, err = second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, second.Clear(ctx))
	token, err = NewFileTokenStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileTokenStore_PreservesOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0o600))

	store := NewFileTokenStore(path)
	require.NoError(t, store.Save(ctx, "tok-a"))
	require.NoError(t, store.Clear(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: dark")
	assert.NotContains(t, string(data), "tok-a")
}

func TestFileTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := NewFileTokenStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestRedisTokenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisTokenStore(client, "")

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "tok-a"))
	stored, err := mr.Get(DefaultRedisKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-a", stored)

	token, err = NewRedisTokenStore(client, DefaultRedisKey).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(DefaultRedisKey))
}

func TestRedisTokenStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err = NewRedisTokenStore(client, "k").Load(context.Background())
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "farmer@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("any-secret"))
	require.NoError(t, err)

	claims, err := Inspect(signed)
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(exp.Add(-time.Minute)))
	assert.True(t, claims.Expired(exp))
}

func TestInspect_Garbage(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyToken))
}
