package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
)

func TestSubmitTicket(t *testing.T) {
	dispatcher, rec := recordingDispatcher(events.EventTicketSubmitted)
	f := newFixture(t, dispatcher)
	customer := f.register(t, "Jane", "jane@example.com")

	ticket, err := f.support.Submit(context.Background(), customer, " Billing ", " Why so high? ")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "Jane", ticket.CustomerName)
	assert.Equal(t, "Billing", ticket.Subject)
	assert.Equal(t, "Why so high?", ticket.Message)
	assert.Equal(t, domain.SupportTicketOpen, ticket.Status)
	assert.Nil(t, ticket.Response)
	assert.Equal(t, []events.EventType{events.EventTicketSubmitted}, rec.types())
}

func TestSubmitTicketRequiresSubjectAndMessage(t *testing.T) {
	f := newFixture(t, nil)
	customer := f.register(t, "Jane", "jane@example.com")

	_, err := f.support.Submit(context.Background(), customer, "   ", "body")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = f.support.Submit(context.Background(), customer, "subject", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRespondResolvesAndReorders(t *testing.T) {
	dispatcher, rec := recordingDispatcher(events.EventTicketResolved)
	f := newFixture(t, dispatcher)
	customer := f.register(t, "Jane", "jane@example.com")
	ctx := context.Background()

	older := f.store.SeedTicket(domain.SupportTicket{
		UserID: customer.ID, CustomerName: "Jane", Subject: "older", Message: "m",
		Status: domain.SupportTicketOpen, CreatedAt: fixedNow.Add(-2 * time.Hour),
	})
	newer := f.store.SeedTicket(domain.SupportTicket{
		UserID: customer.ID, CustomerName: "Jane", Subject: "newer", Message: "m",
		Status: domain.SupportTicketOpen, CreatedAt: fixedNow.Add(-time.Hour),
	})

	resolved, err := f.support.Respond(ctx, adminIdentity(), newer.ID, " We fixed it. ")
	require.NoError(t, err)
	assert.Equal(t, domain.SupportTicketResolved, resolved.Status)
	require.NotNil(t, resolved.Response)
	assert.Equal(t, "We fixed it.", *resolved.Response)

	all, err := f.support.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, older.ID, all[0].ID)
	assert.Equal(t, newer.ID, all[1].ID)

	again, err := f.support.Respond(ctx, adminIdentity(), newer.ID, "Follow-up")
	require.NoError(t, err)
	assert.Equal(t, "Follow-up", *again.Response)
	assert.Len(t, rec.types(), 2)
}

func TestRespondErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.support.Respond(ctx, adminIdentity(), uuid.NewString(), "hello")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = f.support.Respond(ctx, adminIdentity(), uuid.NewString(), "  ")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.support.Respond(ctx, adminIdentity(), "bogus", "hello")
	assertValidation(t, err)
}

func TestListForUserIsOwnerScoped(t *testing.T) {
	f := newFixture(t, nil)
	jane := f.register(t, "Jane", "jane@example.com")
	john := f.register(t, "John", "john@example.com")
	ctx := context.Background()

	_, err := f.support.Submit(ctx, jane, "a", "b")
	require.NoError(t, err)
	_, err = f.support.Submit(ctx, john, "c", "d")
	require.NoError(t, err)

	own, err := f.support.ListForUser(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "a", own[0].Subject)
}

func TestStringPreview(t *testing.T) {
	assert.Equal(t, "short", stringPreview(" short ", 10))
	long := strings.Repeat("é", 12)
	assert.Equal(t, strings.Repeat("é", 10)+"...", stringPreview(long, 10))
}
