package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/config"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
)

// CacheInvalidator drops derived data after a mutation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// NotificationService reacts to evidence events.
type NotificationService struct {
	dispatcher events.Dispatcher
	stats      CacheInvalidator
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, stats CacheInvalidator, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		stats:      stats,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range events.MutationTypes {
		n.dispatcher.Subscribe(t, n.handleEvidenceChanged)
	}
	n.dispatcher.Subscribe(events.EventEvidenceExpiring, n.handleEvidenceExpiring)
}

func (n *NotificationService) handleEvidenceChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("evidence changed",
		zap.String("type", string(event.Type)),
		zap.String("evidence_id", event.EvidenceID),
		zap.String("actor", event.Actor.Username))

	if n.stats != nil {
		if err := n.stats.Invalidate(ctx); err != nil {
			n.logger.Warn("stats invalidation failed", zap.Error(err))
		}
	}

	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEvidenceExpiring(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.EvidenceExpiringPayload)
	n.logger.Info("evidence expiring",
		zap.String("evidence_id", event.EvidenceID),
		zap.String("owner", payload.EnteredBy),
		zap.Int("days_left", payload.DaysLeft))

	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("evidence_id", event.EvidenceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("evidence_id", event.EvidenceID),
		zap.String("event_type", string(event.Type)))
}
