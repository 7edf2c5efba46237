package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tossit/internal/model"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sethvargo/go-retry"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// SubscriptionStore is the slice of the push store the sink needs.
type SubscriptionStore interface {
	ListByBusiness(businessID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// payload is the JSON handed to the service worker, which owns the
// auto-dismiss timer and the click-to-focus deep link.
type payload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Tag                string `json:"tag,omitempty"`
	URL                string `json:"url,omitempty"`
	RequireInteraction bool   `json:"require_interaction,omitempty"`
	DismissAfterMS     int64  `json:"dismiss_after_ms,omitempty"`
}

// WebPushSink delivers notifications over web push to every subscription of a
// business. Without VAPID keys it reports itself unsupported and the
// dispatcher skips it entirely.
type WebPushSink struct {
	publicKey  string
	privateKey string
	subs       SubscriptionStore
	logger     *slog.Logger
}

func NewWebPushSink(publicKey, privateKey string, subs SubscriptionStore, logger *slog.Logger) *WebPushSink {
	return &WebPushSink{
		publicKey:  publicKey,
		privateKey: privateKey,
		subs:       subs,
		logger:     logger,
	}
}

func (s *WebPushSink) Permission() Permission {
	if s.publicKey == "" || s.privateKey == "" {
		return PermissionUnsupported
	}
	return PermissionGranted
}

// Send fans the notification out to every subscription of the business.
// Per-endpoint failures are logged and expired endpoints pruned; only a
// failure to list the subscriptions is reported back.
func (s *WebPushSink) Send(ctx context.Context, businessID int64, n Notification) error {
	data, err := json.Marshal(payload{
		Title:              n.Title,
		Body:               n.Body,
		Tag:                n.Tag,
		URL:                n.URL,
		RequireInteraction: n.RequireInteraction,
		DismissAfterMS:     n.DismissAfter.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	subs, err := s.subs.ListByBusiness(businessID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	for _, sub := range subs {
		if err := s.sendOne(ctx, sub, data); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := s.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					s.logger.Error("prune expired subscription", "endpoint", sub.Endpoint, "error", err)
				}
				continue
			}
			s.logger.Error("send push", "business_id", businessID, "tag", n.Tag, "error", err)
		}
	}
	return nil
}

// sendOne pushes to a single endpoint, retrying transient push-service
// failures with bounded fibonacci backoff.
func (s *WebPushSink) sendOne(ctx context.Context, sub model.PushSubscription, data []byte) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := webpush.SendNotificationWithContext(ctx, data, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dhKey,
				Auth:   sub.AuthKey,
			},
		}, &webpush.Options{
			VAPIDPublicKey:  s.publicKey,
			VAPIDPrivateKey: s.privateKey,
			Subscriber:      "mailto:noreply@tossit.app",
			TTL:             3600,
		})
		if err != nil {
			return retry.RetryableError(fmt.Errorf("send push: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusGone:
			return ErrExpired
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("push service returned %d", resp.StatusCode))
		case resp.StatusCode >= 400:
			return fmt.Errorf("push service returned %d", resp.StatusCode)
		}
		return nil
	})
}
