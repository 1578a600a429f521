package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
	"github.com/spec-kit/billing-portal/internal/repository"
	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

// DefaultDueDays is how far after generation a receipt falls due by default.
const DefaultDueDays = 15

var (
	errAmountNotPositive = apperrors.NewValidationError("consumption and rate must be positive numbers", nil)
	errAmountOutOfRange  = apperrors.NewValidationError("amount out of range", nil)
)

// BillingService owns usage statistics and the receipt lifecycle.
type BillingService struct {
	stats    repository.StatsRepository
	receipts repository.ReceiptRepository
	events   publisher
	now      func() time.Time
}

// BillingDependencies bundles repositories for the billing service.
type BillingDependencies struct {
	StatsRepo   repository.StatsRepository
	ReceiptRepo repository.ReceiptRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// GenerateReceiptInput describes a receipt issued by an admin.
type GenerateReceiptInput struct {
	CustomerID   string
	Consumption  float64
	Rate         float64
	BillingMonth string
	DueDate      string
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	return &BillingService{
		stats:    deps.StatsRepo,
		receipts: deps.ReceiptRepo,
		events:   newPublisher(deps.Dispatcher, deps.Logger),
		now:      time.Now,
	}
}

// WithClock overrides the time source used for default billing months, due dates and event stamps.
func (s *BillingService) WithClock(now func() time.Time) *BillingService {
	s.now = now
	s.events.now = now
	return s
}

// GetStats returns the user's usage, or zeros when none was recorded.
func (s *BillingService) GetStats(ctx context.Context, userID string) (*domain.UsageStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.UsageStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// UpsertStats overwrites a customer's usage figures.
func (s *BillingService) UpsertStats(ctx context.Context, actor domain.Identity, customerID string, weekUsage, monthUsage float64) (*domain.UsageStats, error) {
	id, err := parseID("customerId", customerID)
	if err != nil {
		return nil, err
	}
	if !validAmount(weekUsage) || !validAmount(monthUsage) {
		return nil, apperrors.NewValidationError("weekUsage and monthUsage must be non-negative numbers", nil)
	}
	weekUsage, monthUsage = domain.RoundAmount(weekUsage), domain.RoundAmount(monthUsage)
	if weekUsage >= domain.MaxAmount || monthUsage >= domain.MaxAmount {
		return nil, errAmountOutOfRange
	}

	stats := &domain.UsageStats{UserID: id, WeekUsage: weekUsage, MonthUsage: monthUsage}
	if err := s.stats.Upsert(ctx, stats); err != nil {
		switch {
		case errors.Is(err, repository.ErrMissingReference):
			return nil, ErrCustomerNotFound
		case errors.Is(err, repository.ErrOutOfRange):
			return nil, errAmountOutOfRange
		}
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventStatsUpdated,
		SubjectID: id,
		OwnerID:   id,
		Actor:     actorOf(actor),
		Payload:   events.StatsUpdatedPayload{WeekUsage: stats.WeekUsage, MonthUsage: stats.MonthUsage},
	})
	return stats, nil
}

// GenerateReceipt issues a pending receipt whose total is fixed at consumption × rate.
// Amounts are rounded to cents before the total is computed.
func (s *BillingService) GenerateReceipt(ctx context.Context, actor domain.Identity, input GenerateReceiptInput) (*domain.Receipt, error) {
	id, err := parseID("customerId", input.CustomerID)
	if err != nil {
		return nil, err
	}
	if input.Consumption == 0 || input.Rate == 0 {
		return nil, ErrMissingFields
	}
	if !validAmount(input.Consumption) || !validAmount(input.Rate) {
		return nil, errAmountNotPositive
	}
	consumption, rate := domain.RoundAmount(input.Consumption), domain.RoundAmount(input.Rate)
	if consumption == 0 || rate == 0 {
		return nil, errAmountNotPositive
	}
	total := domain.ReceiptTotal(consumption, rate)
	if consumption >= domain.MaxAmount || rate >= domain.MaxAmount || total >= domain.MaxTotal {
		return nil, errAmountOutOfRange
	}

	now := s.now()
	billingMonth := strings.TrimSpace(input.BillingMonth)
	if billingMonth == "" {
		billingMonth = now.UTC().Format(domain.BillingMonthLayout)
	}

	dueDate := startOfDay(now).AddDate(0, 0, DefaultDueDays)
	if raw := strings.TrimSpace(input.DueDate); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return nil, apperrors.NewValidationError("dueDate must be formatted YYYY-MM-DD", map[string]any{"field": "dueDate"})
		}
		dueDate = parsed
	}

	receipt := &domain.Receipt{
		UserID:       id,
		BillingMonth: billingMonth,
		Consumption:  consumption,
		Rate:         rate,
		Total:        total,
		Status:       domain.ReceiptStatusPending,
		DueDate:      dueDate,
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		switch {
		case errors.Is(err, repository.ErrMissingReference):
			return nil, ErrCustomerNotFound
		case errors.Is(err, repository.ErrOutOfRange):
			return nil, errAmountOutOfRange
		}
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventReceiptGenerated,
		SubjectID: receipt.ID,
		OwnerID:   receipt.UserID,
		Actor:     actorOf(actor),
		Payload: events.ReceiptGeneratedPayload{
			BillingMonth: receipt.BillingMonth,
			Total:        receipt.Total,
			DueDate:      receipt.DueDate,
		},
	})
	return receipt, nil
}

// ListReceipts returns the user's own receipts, newest first.
func (s *BillingService) ListReceipts(ctx context.Context, userID string) ([]domain.Receipt, error) {
	return s.receipts.ListByUser(ctx, userID)
}

// ListAllReceipts returns every receipt with its owner's name and email, newest first.
func (s *BillingService) ListAllReceipts(ctx context.Context) ([]domain.Receipt, error) {
	return s.receipts.ListAll(ctx)
}

// Pay settles a pending receipt owned by the acting user. Missing, foreign and
// already paid receipts all fail with ErrReceiptNotPayable.
func (s *BillingService) Pay(ctx context.Context, actor domain.Identity, receiptID string) (*domain.Receipt, error) {
	id, err := parseID("receiptId", receiptID)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			return nil, apperrors.NewValidationError("Receipt ID required", nil)
		}
		return nil, err
	}

	receipt, err := s.receipts.MarkPaid(ctx, id, actor.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReceiptNotPayable
	}
	if err != nil {
		return nil, err
	}

	payload := events.ReceiptPaidPayload{Total: receipt.Total}
	if receipt.PaidDate != nil {
		payload.PaidDate = *receipt.PaidDate
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventReceiptPaid,
		SubjectID: receipt.ID,
		OwnerID:   receipt.UserID,
		Actor:     actorOf(actor),
		Payload:   payload,
	})
	return receipt, nil
}
