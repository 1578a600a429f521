package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/repository"
)

// RecentActivityLimit caps the dashboard activity feed.
const RecentActivityLimit = 10

// CustomerDetail is the admin view of one customer.
type CustomerDetail struct {
	Customer domain.User
	Stats    domain.UsageStats
	Receipts []domain.Receipt
}

// AdminService serves admin-only read models.
type AdminService struct {
	users     repository.UserRepository
	dashboard repository.DashboardRepository
	billing   *BillingService
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	UserRepo      repository.UserRepository
	DashboardRepo repository.DashboardRepository
	Billing       *BillingService
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:     deps.UserRepo,
		dashboard: deps.DashboardRepo,
		billing:   deps.Billing,
	}
}

// CustomerDetail returns a customer with their usage and receipts.
func (s *AdminService) CustomerDetail(ctx context.Context, customerID string) (*CustomerDetail, error) {
	id, err := parseID("customerId", customerID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleCustomer {
		return nil, ErrCustomerNotFound
	}

	stats, err := s.billing.GetStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	receipts, err := s.billing.ListReceipts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: *user, Stats: *stats, Receipts: receipts}, nil
}

// DashboardStats aggregates portal-wide figures and the recent activity feed.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardSummary, error) {
	return s.dashboard.Summary(ctx, RecentActivityLimit)
}
