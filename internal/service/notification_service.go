package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/foundit/lostfound-service/internal/config"
	"github.com/foundit/lostfound-service/internal/events"
)

// NotificationService observes committed lifecycle events. Inbox entries are
// written by ClaimService inside its transaction; this service logs events and
// POSTs claim events to the configured webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
	inflight   sync.WaitGroup
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
		client:     &http.Client{Timeout: cfg.WebhookTimeout()},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventPostCreated, n.handlePostCreated)
	n.dispatcher.Subscribe(events.EventClaimCreated, n.handleClaimCreated)
	n.dispatcher.Subscribe(events.EventClaimApproved, n.handleClaimResolved)
	n.dispatcher.Subscribe(events.EventClaimDenied, n.handleClaimResolved)
}

// Wait blocks until webhook deliveries already started have finished.
func (n *NotificationService) Wait() {
	n.inflight.Wait()
}

func (n *NotificationService) handleAccountRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("AccountRegistered", zap.String("account_id", event.Actor.AccountID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePostCreated(_ context.Context, event events.Event) error {
	n.logger.Info("PostCreated", zap.String("account_id", event.Actor.AccountID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleClaimCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ClaimCreated", zap.String("account_id", event.Actor.AccountID), zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleClaimResolved(_ context.Context, event events.Event) error {
	n.logger.Info("ClaimResolved",
		zap.String("event_type", string(event.Type)),
		zap.String("admin_id", event.Actor.AccountID),
		zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

// sendWebhook delivers the event in the background. Delivery is best effort:
// failures are logged and never reach the request that caused the event.
func (n *NotificationService) sendWebhook(event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		if err := n.postEvent(url, event); err != nil {
			n.logger.Warn("webhook delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
}

func (n *NotificationService) postEvent(url string, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.WebhookTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", string(event.Type))

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}
