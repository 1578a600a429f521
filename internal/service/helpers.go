package service

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

// publisher stamps and forwards domain events. Delivery failures are logged
// and never fail the operation that produced the event.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger) publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher{dispatcher: dispatcher, logger: logger, now: time.Now}
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.Error(err))
	}
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{UserID: identity.ID, Role: identity.Role}
}

// parseID validates a UUID supplied by a client.
func parseID(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrMissingFields
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", apperrors.NewValidationError("invalid "+field, map[string]any{"field": field})
	}
	return id.String(), nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	return string(runes[:max]) + "..."
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
