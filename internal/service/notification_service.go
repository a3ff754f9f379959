package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/memberops/memberops-api/internal/config"
	"github.com/memberops/memberops-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	for _, eventType := range events.AllEventTypes {
		switch eventType {
		case events.EventRequestAssigned:
			n.dispatcher.Subscribe(eventType, n.handleRequestAssigned)
		case events.EventFlagCreated, events.EventMemberLocked, events.EventRequestCreated:
			n.dispatcher.Subscribe(eventType, n.handleReviewRequired)
		default:
			n.dispatcher.Subscribe(eventType, n.handleActivity)
		}
	}
}

func (n *NotificationService) handleRequestAssigned(ctx context.Context, event events.Event) error {
	n.logEvent(event)
	if payload, ok := event.Payload.(events.RequestAssignedPayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.AssigneeEmail)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReviewRequired(ctx context.Context, event events.Event) error {
	n.logEvent(event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleActivity(_ context.Context, event events.Event) error {
	n.logEvent(event)
	return nil
}

func (n *NotificationService) logEvent(event events.Event) {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("member_id", event.MemberID),
		zap.String("actor", event.Actor.Username),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.Int64("member_id", event.MemberID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("member_id", event.MemberID),
		zap.String("event_type", string(event.Type)))
}
