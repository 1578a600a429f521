package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventReceiptPaid, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventTicketResolved, func(_ context.Context, e Event) error {
		t.Fatalf("unexpected delivery of %s", e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventReceiptPaid}))
	assert.Equal(t, []EventType{EventReceiptPaid}, got)
}

func TestDispatcherRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	first := errors.New("webhook down")
	calls := 0
	d.Subscribe(EventTicketSubmitted, func(context.Context, Event) error {
		calls++
		return first
	})
	d.Subscribe(EventTicketSubmitted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketSubmitted})
	assert.ErrorIs(t, err, first)
	assert.Equal(t, 2, calls)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventUserRegistered}))
}
