// Package push wraps VAPID web-push delivery behind a narrow Sender so the
// service layer (and its tests) never touch the wire library directly.
package push

import (
	"context"
	"errors"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
)

type Sender interface {
	// Send delivers payload to one endpoint and returns the push service's
	// HTTP status code.
	Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (int, error)
}

type WebPushSender struct {
	subscriber string
	publicKey  string
	privateKey string
	ttl        int
}

// NewWebPushSenderFromEnv fails when the VAPID material is absent: a
// misconfigured deployment must error loudly, not half-send.
func NewWebPushSenderFromEnv() (*WebPushSender, error) {
	pub := os.Getenv("VAPID_PUBLIC_KEY")
	priv := os.Getenv("VAPID_PRIVATE_KEY")
	sub := os.Getenv("VAPID_SUBSCRIBER")
	if pub == "" || priv == "" {
		return nil, errors.New("VAPID_PUBLIC_KEY / VAPID_PRIVATE_KEY environment variables are not set")
	}
	if sub == "" {
		sub = "mailto:admin@wpwscanner.app"
	}
	return &WebPushSender{subscriber: sub, publicKey: pub, privateKey: priv, ttl: 60}, nil
}

func (s *WebPushSender) Send(ctx context.Context, sub *models.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
