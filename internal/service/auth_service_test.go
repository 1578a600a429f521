package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
)

type memoryThrottle struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
	err      error
}

func newMemoryThrottle(max int) *memoryThrottle {
	return &memoryThrottle{max: max, failures: map[string]int{}}
}

func (m *memoryThrottle) Allow(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return true, m.err
	}
	return m.failures[strings.ToLower(email)] < m.max, nil
}

func (m *memoryThrottle) RecordFailure(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[strings.ToLower(email)]++
	return m.err
}

func (m *memoryThrottle) Reset(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, strings.ToLower(email))
	return m.err
}

func TestRegisterCreatesCustomer(t *testing.T) {
	dispatcher, rec := recordingDispatcher(events.EventUserRegistered)
	f := newFixture(t, dispatcher)

	user, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     " Jane ",
		Email:    " jane@example.com ",
		Password: "hunter22",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, rec.types())
}

func TestRegisterRequiresFields(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterDuplicateEmailKeepsFirstUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	first := f.register(t, "First", "dup@example.com")

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Second", Email: "dup@example.com", Password: "other-pass"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	stored, err := f.store.Users().GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "First", stored.Name)
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	f := newFixture(t, nil)
	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.Register(context.Background(), RegisterInput{Name: "Racer", Email: "race@example.com", Password: "pw"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateEmail):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dup)
}

func TestLoginIssuesToken(t *testing.T) {
	f := newFixture(t, nil)
	registered := f.register(t, "Jane", "jane@example.com")

	user, token, exp, err := f.auth.Login(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.False(t, exp.IsZero())

	claims, err := f.auth.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered, claims.Identity())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "Jane", "jane@example.com")
	ctx := context.Background()

	_, _, _, wrongPassword := f.auth.Login(ctx, "jane@example.com", "nope")
	_, _, _, unknownEmail := f.auth.Login(ctx, "ghost@example.com", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginThrottle(t *testing.T) {
	store := newFixture(t, nil).store
	throttle := newMemoryThrottle(2)
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: store.Users(), Throttle: throttle})
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "right"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, _, err = svc.Login(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, _, _, err = svc.Login(ctx, "jane@example.com", "right")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	require.NoError(t, throttle.Reset(ctx, "jane@example.com"))
	_, _, _, err = svc.Login(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "jane@example.com", "right")
	require.NoError(t, err)
	assert.Zero(t, throttle.failures["jane@example.com"])
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	store := newFixture(t, nil).store
	throttle := newMemoryThrottle(0)
	throttle.err = errors.New("redis down")
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: store.Users(), Throttle: throttle})
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "right"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "jane@example.com", "right")
	assert.NoError(t, err)
}

func TestLoginPropagatesStoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	boom := errors.New("connection refused")
	f.store.FailWith(boom)

	_, _, _, err := f.auth.Login(context.Background(), "jane@example.com", "pw")
	assert.ErrorIs(t, err, boom)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	cfg := config.AdminConfig{Email: "admin@example.com", Password: "admin-pass"}

	created, err := f.auth.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	admin, _, _, err := f.auth.Login(ctx, "admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "Administrator", admin.Name)

	created, err = f.auth.EnsureAdmin(ctx, config.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestListUsersFiltersByRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.register(t, "A", "a@example.com")
	f.register(t, "B", "b@example.com")
	_, err := f.auth.EnsureAdmin(ctx, config.AdminConfig{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)

	all, err := f.auth.ListUsers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	role := domain.RoleCustomer
	customers, err := f.auth.ListUsers(ctx, &role)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "b@example.com", customers[0].Email)
}
