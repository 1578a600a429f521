package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
	"github.com/spec-kit/billing-portal/internal/repository/repotest"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 480,
			BcryptCost:      bcrypt.MinCost,
		},
	}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func recordingDispatcher(types ...events.EventType) (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, t := range types {
		d.Subscribe(t, rec.handle)
	}
	return d, rec
}

type fixture struct {
	store   *repotest.Store
	auth    *AuthService
	billing *BillingService
	support *SupportService
	admin   *AdminService
}

func newFixture(t *testing.T, dispatcher events.Dispatcher) *fixture {
	t.Helper()
	store := repotest.NewStore()
	store.SetClock(func() time.Time { return fixedNow })

	authSvc := NewAuthService(testConfig(), AuthDependencies{UserRepo: store.Users(), Dispatcher: dispatcher})
	billing := NewBillingService(BillingDependencies{
		StatsRepo:   store.Stats(),
		ReceiptRepo: store.Receipts(),
		Dispatcher:  dispatcher,
	}).WithClock(func() time.Time { return fixedNow })
	support := NewSupportService(SupportDependencies{TicketRepo: store.Tickets(), Dispatcher: dispatcher})
	admin := NewAdminService(AdminDependencies{
		UserRepo:      store.Users(),
		DashboardRepo: store.Dashboard(),
		Billing:       billing,
	})
	return &fixture{store: store, auth: authSvc, billing: billing, support: support, admin: admin}
}

func (f *fixture) register(t *testing.T, name, email string) domain.Identity {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return domain.IdentityOf(user)
}

func adminIdentity() domain.Identity {
	return domain.Identity{ID: "00000000-0000-0000-0000-00000000000a", Email: "admin@example.com", Role: domain.RoleAdmin, Name: "Admin"}
}
