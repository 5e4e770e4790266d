package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	mongorepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/mongo"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/push"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type DeliveryReport struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"` // endpoints the push service reported gone
}

type PushService interface {
	Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error
	Unsubscribe(ctx context.Context, userID, endpoint string) error
	// ProbeReady checks that delivery is configured and the subscription
	// store answers for this user. It is the readiness leg of the
	// bootstrap race.
	ProbeReady(ctx context.Context, userID string) (bool, error)
	NotifyUser(ctx context.Context, userID, title, body string) (*DeliveryReport, error)
	Broadcast(ctx context.Context, title, body string) (*DeliveryReport, error)
}

type pushService struct {
	subs       pgrepo.PushSubscriptionRepository
	deliveries mongorepo.DeliveryRepository
	sender     push.Sender
}

// NewPushService accepts a nil sender: subscriptions still work, delivery
// reports a configuration error instead of half-sending.
func NewPushService(subs pgrepo.PushSubscriptionRepository, deliveries mongorepo.DeliveryRepository, sender push.Sender) PushService {
	return &pushService{subs: subs, deliveries: deliveries, sender: sender}
}

func (s *pushService) Subscribe(ctx context.Context, userID, endpoint, p256dh, auth string) error {
	const op = "PushService.Subscribe"

	if userID == "" || endpoint == "" || p256dh == "" || auth == "" {
		return utils.E(utils.CodeInvalidArgument, op, "endpoint and keys are required", nil)
	}
	err := s.subs.Upsert(ctx, &models.PushSubscription{
		Endpoint:  endpoint,
		UserID:    userID,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store subscription", err)
	}
	return nil
}

func (s *pushService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	const op = "PushService.Unsubscribe"

	if endpoint == "" {
		return utils.E(utils.CodeInvalidArgument, op, "endpoint is required", nil)
	}
	if err := s.subs.DeleteByEndpoint(ctx, endpoint); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete subscription", err)
	}
	return nil
}

func (s *pushService) ProbeReady(ctx context.Context, userID string) (bool, error) {
	if s.sender == nil {
		return false, nil
	}
	if _, err := s.subs.CountByUserID(ctx, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *pushService) NotifyUser(ctx context.Context, userID, title, body string) (*DeliveryReport, error) {
	const op = "PushService.NotifyUser"

	subs, err := s.subs.ListByUserID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list subscriptions", err)
	}
	return s.deliver(ctx, op, subs, title, body)
}

func (s *pushService) Broadcast(ctx context.Context, title, body string) (*DeliveryReport, error) {
	const op = "PushService.Broadcast"

	subs, err := s.subs.ListAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to list subscriptions", err)
	}
	return s.deliver(ctx, op, subs, title, body)
}

func (s *pushService) deliver(ctx context.Context, op string, subs []models.PushSubscription, title, body string) (*DeliveryReport, error) {
	if s.sender == nil {
		return nil, utils.E(utils.CodeInternal, op, "push sender is not configured", nil)
	}

	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode payload", err)
	}

	report := &DeliveryReport{}
	for i := range subs {
		sub := &subs[i]
		status, sendErr := s.sender.Send(ctx, sub, payload)

		gone := status == http.StatusGone || status == http.StatusNotFound
		if gone {
			// the push service says this endpoint is dead; drop it
			_ = s.subs.DeleteByEndpoint(ctx, sub.Endpoint)
			report.Removed++
		}

		switch {
		case sendErr != nil:
			report.Failed++
		case status >= 200 && status < 300:
			report.Sent++
		default:
			report.Failed++
		}

		d := &models.PushDelivery{
			UserID:     sub.UserID,
			Endpoint:   sub.Endpoint,
			StatusCode: status,
			Gone:       gone,
		}
		if sendErr != nil {
			d.Error = sendErr.Error()
		}
		// delivery history is best-effort
		_ = s.deliveries.Insert(ctx, d)
	}
	return report, nil
}
