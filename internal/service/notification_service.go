package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/config"
	"github.com/spec-kit/billing-portal/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventStatsUpdated, n.handleStatsUpdated)
	n.dispatcher.Subscribe(events.EventReceiptGenerated, n.handleReceiptGenerated)
	n.dispatcher.Subscribe(events.EventReceiptPaid, n.handleReceiptPaid)
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.handleTicketSubmitted)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logEvent("UserRegistered", event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatsUpdated(_ context.Context, event events.Event) error {
	n.logEvent("StatsUpdated", event)
	return nil
}

func (n *NotificationService) handleReceiptGenerated(ctx context.Context, event events.Event) error {
	n.logEvent("ReceiptGenerated", event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReceiptPaid(ctx context.Context, event events.Event) error {
	n.logEvent("ReceiptPaid", event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketSubmitted(ctx context.Context, event events.Event) error {
	n.logEvent("TicketSubmitted", event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	n.logEvent("TicketResolved", event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) logEvent(name string, event events.Event) {
	n.logger.Info(name,
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("owner_id", event.OwnerID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("owner_id", event.OwnerID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
