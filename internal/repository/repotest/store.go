// Package repotest provides in-memory repositories that mirror the SQL
// semantics of the Postgres implementations: unique emails, foreign keys,
// the single-statement stats upsert, the conditional receipt payment and the
// two-decimal rounding of amount columns.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/repository"
)

// Store holds every table behind one mutex.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	failWith error

	users    []*domain.User
	stats    map[string]*domain.UsageStats
	receipts []*domain.Receipt
	tickets  []*domain.SupportTicket
}

// NewStore returns an empty store using the wall clock.
func NewStore() *Store {
	return &Store{now: time.Now, stats: map[string]*domain.UsageStats{}}
}

// SetClock replaces the clock used for timestamps and CURRENT_DATE.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Users returns the users table.
func (s *Store) Users() repository.UserRepository { return (*users)(s) }

// Stats returns the user_stats table.
func (s *Store) Stats() repository.StatsRepository { return (*stats)(s) }

// Receipts returns the receipts table.
func (s *Store) Receipts() repository.ReceiptRepository { return (*receipts)(s) }

// Tickets returns the support_tickets table.
func (s *Store) Tickets() repository.SupportTicketRepository { return (*tickets)(s) }

// Dashboard returns the aggregate queries.
func (s *Store) Dashboard() repository.DashboardRepository { return (*dashboard)(s) }

// SetRole changes a stored user's role, as an operator would in SQL.
func (s *Store) SetRole(userID string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.userByID(userID); u != nil {
		u.Role = role
	}
}

// SeedReceipt stores a receipt as is, bypassing generation.
func (s *Store) SeedReceipt(r domain.Receipt) *domain.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
		r.UpdatedAt = r.CreatedAt
	}
	s.receipts = append(s.receipts, &r)
	clone := r
	return &clone
}

// SeedTicket stores a ticket as is.
func (s *Store) SeedTicket(t domain.SupportTicket) *domain.SupportTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
		t.UpdatedAt = t.CreatedAt
	}
	s.tickets = append(s.tickets, &t)
	clone := t
	return &clone
}

func (s *Store) userByID(id string) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// newestFirst orders items by created_at descending; ties keep the later insert first.
func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, len(items))
	for i := range items {
		out[len(items)-1-i] = items[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}

type users Store

func (r *users) Create(_ context.Context, user *domain.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.insertUser(user)
	return nil
}

func (r *users) CreateIfAbsent(_ context.Context, user *domain.User) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return false, nil
		}
	}
	s.insertUser(user)
	return true, nil
}

func (s *Store) insertUser(user *domain.User) {
	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users = append(s.users, &clone)
}

func (r *users) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	if u := s.userByID(id); u != nil {
		clone := *u
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *users) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := []domain.User{}
	for _, u := range newestFirst(s.users, func(u *domain.User) time.Time { return u.CreatedAt }) {
		if role == nil || u.Role == *role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type stats Store

func (r *stats) Get(_ context.Context, userID string) (*domain.UsageStats, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	st, ok := s.stats[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *st
	return &clone, nil
}

func (r *stats) Upsert(_ context.Context, st *domain.UsageStats) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if s.userByID(st.UserID) == nil {
		return repository.ErrMissingReference
	}
	st.WeekUsage, st.MonthUsage = domain.RoundAmount(st.WeekUsage), domain.RoundAmount(st.MonthUsage)
	if st.WeekUsage >= domain.MaxAmount || st.MonthUsage >= domain.MaxAmount {
		return repository.ErrOutOfRange
	}
	now := s.now()
	st.UpdatedAt = &now
	clone := *st
	s.stats[st.UserID] = &clone
	return nil
}

type receipts Store

func (r *receipts) Create(_ context.Context, receipt *domain.Receipt) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if s.userByID(receipt.UserID) == nil {
		return repository.ErrMissingReference
	}
	receipt.Consumption = domain.RoundAmount(receipt.Consumption)
	receipt.Rate = domain.RoundAmount(receipt.Rate)
	receipt.Total = domain.RoundAmount(receipt.Total)
	if receipt.Consumption >= domain.MaxAmount || receipt.Rate >= domain.MaxAmount || receipt.Total >= domain.MaxTotal {
		return repository.ErrOutOfRange
	}
	receipt.ID = uuid.NewString()
	receipt.CreatedAt = s.now()
	receipt.UpdatedAt = receipt.CreatedAt
	clone := *receipt
	s.receipts = append(s.receipts, &clone)
	return nil
}

func (r *receipts) ListByUser(_ context.Context, userID string) ([]domain.Receipt, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := []domain.Receipt{}
	for _, rc := range newestFirst(s.receipts, receiptCreated) {
		if rc.UserID == userID {
			out = append(out, *rc)
		}
	}
	return out, nil
}

func (r *receipts) ListAll(_ context.Context) ([]domain.Receipt, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := []domain.Receipt{}
	for _, rc := range newestFirst(s.receipts, receiptCreated) {
		owner := s.userByID(rc.UserID)
		if owner == nil {
			continue
		}
		row := *rc
		row.CustomerName = owner.Name
		row.CustomerEmail = owner.Email
		out = append(out, row)
	}
	return out, nil
}

func (r *receipts) MarkPaid(_ context.Context, receiptID, userID string) (*domain.Receipt, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, rc := range s.receipts {
		if rc.ID != receiptID || rc.UserID != userID || !rc.Payable() {
			continue
		}
		paid := s.today()
		rc.Status = domain.ReceiptStatusPaid
		rc.PaidDate = &paid
		rc.UpdatedAt = s.now()
		clone := *rc
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func receiptCreated(r *domain.Receipt) time.Time { return r.CreatedAt }

type tickets Store

func (r *tickets) Create(_ context.Context, ticket *domain.SupportTicket) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if s.userByID(ticket.UserID) == nil {
		return repository.ErrMissingReference
	}
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = s.now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	s.tickets = append(s.tickets, &clone)
	return nil
}

func (r *tickets) List(_ context.Context, userID *string) ([]domain.SupportTicket, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	ordered := newestFirst(s.tickets, func(t *domain.SupportTicket) time.Time { return t.CreatedAt })
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Status == domain.SupportTicketOpen && ordered[j].Status != domain.SupportTicketOpen
	})
	out := []domain.SupportTicket{}
	for _, t := range ordered {
		if userID == nil || t.UserID == *userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *tickets) Resolve(_ context.Context, ticketID, response string) (*domain.SupportTicket, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, t := range s.tickets {
		if t.ID != ticketID {
			continue
		}
		text := response
		t.Response = &text
		t.Status = domain.SupportTicketResolved
		t.UpdatedAt = s.now()
		clone := *t
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

type dashboard Store

func (r *dashboard) Summary(_ context.Context, activityLimit int) (*domain.DashboardSummary, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	summary := &domain.DashboardSummary{RecentActivity: []domain.ActivityEntry{}}
	for _, u := range s.users {
		if u.Role == domain.RoleCustomer {
			summary.TotalCustomers++
		}
	}
	cutoff := s.now().Add(-7 * 24 * time.Hour)
	var activity []domain.ActivityEntry
	for _, rc := range s.receipts {
		if rc.Status == domain.ReceiptStatusPending {
			summary.PendingCount++
			summary.PendingAmount += rc.Total
		}
		if rc.CreatedAt.After(cutoff) {
			activity = append(activity, domain.ActivityEntry{Type: "receipt", Description: rc.BillingMonth, CreatedAt: rc.CreatedAt})
		}
	}
	for _, t := range s.tickets {
		if t.Status == domain.SupportTicketOpen {
			summary.OpenTickets++
		}
		if t.CreatedAt.After(cutoff) {
			activity = append(activity, domain.ActivityEntry{Type: "ticket", Description: t.Subject, CreatedAt: t.CreatedAt})
		}
	}
	activity = newestFirst(activity, func(a domain.ActivityEntry) time.Time { return a.CreatedAt })
	if activityLimit > 0 && len(activity) > activityLimit {
		activity = activity[:activityLimit]
	}
	summary.RecentActivity = append(summary.RecentActivity, activity...)
	return summary, nil
}
