package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/domain"
)

func TestCustomerDetail(t *testing.T) {
	f := newFixture(t, nil)
	customer := f.register(t, "Jane", "jane@example.com")
	ctx := context.Background()

	_, err := f.billing.UpsertStats(ctx, adminIdentity(), customer.ID, 3, 9)
	require.NoError(t, err)
	_, err = f.billing.GenerateReceipt(ctx, adminIdentity(), GenerateReceiptInput{CustomerID: customer.ID, Consumption: 2, Rate: 5})
	require.NoError(t, err)

	detail, err := f.admin.CustomerDetail(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", detail.Customer.Email)
	assert.Equal(t, 9.0, detail.Stats.MonthUsage)
	require.Len(t, detail.Receipts, 1)
	assert.Equal(t, 10.0, detail.Receipts[0].Total)
}

func TestCustomerDetailRejectsNonCustomers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.auth.EnsureAdmin(ctx, config.AdminConfig{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	admin, err := f.store.Users().GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)

	_, err = f.admin.CustomerDetail(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = f.admin.CustomerDetail(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, nil)
	jane := f.register(t, "Jane", "jane@example.com")
	john := f.register(t, "John", "john@example.com")
	ctx := context.Background()

	paid, err := f.billing.GenerateReceipt(ctx, adminIdentity(), GenerateReceiptInput{CustomerID: jane.ID, Consumption: 10, Rate: 2})
	require.NoError(t, err)
	_, err = f.billing.GenerateReceipt(ctx, adminIdentity(), GenerateReceiptInput{CustomerID: john.ID, Consumption: 5, Rate: 3})
	require.NoError(t, err)
	_, err = f.billing.Pay(ctx, jane, paid.ID)
	require.NoError(t, err)
	_, err = f.support.Submit(ctx, john, "Meter", "broken")
	require.NoError(t, err)
	f.store.SeedTicket(domain.SupportTicket{
		UserID: john.ID, Subject: "ancient", Message: "m",
		Status: domain.SupportTicketResolved, CreatedAt: fixedNow.Add(-30 * 24 * time.Hour),
	})

	summary, err := f.admin.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalCustomers)
	assert.Equal(t, int64(1), summary.PendingCount)
	assert.Equal(t, 15.0, summary.PendingAmount)
	assert.Equal(t, int64(1), summary.OpenTickets)
	assert.Len(t, summary.RecentActivity, 3)
}
