package services

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/datatypes"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type BillingService interface {
	// CreateCheckout returns the hosted checkout URL for priceID, tagged
	// with the user so the webhook can find the profile later.
	CreateCheckout(ctx context.Context, userID, priceID string) (string, error)
	// HandleWebhook verifies the signature, records the event (replays
	// are no-ops) and applies subscription status changes to the profile.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	profiles ProfileService
	events   pgrepo.BillingEventRepository

	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewBillingServiceFromEnv(profiles ProfileService, events pgrepo.BillingEventRepository) BillingService {
	s := &billingService{
		profiles:      profiles,
		events:        events,
		secretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		successURL:    os.Getenv("CHECKOUT_SUCCESS_URL"),
		cancelURL:     os.Getenv("CHECKOUT_CANCEL_URL"),
	}
	if s.successURL == "" {
		s.successURL = "https://wpwscanner.app/home"
	}
	if s.cancelURL == "" {
		s.cancelURL = "https://wpwscanner.app/subscribe"
	}
	if s.secretKey != "" {
		stripe.Key = s.secretKey
	}
	return s
}

func (s *billingService) CreateCheckout(ctx context.Context, userID, priceID string) (string, error) {
	const op = "BillingService.CreateCheckout"

	if s.secretKey == "" {
		// configuration error: fail the request outright
		return "", utils.E(utils.CodeInternal, op, "STRIPE_SECRET_KEY is not set", nil)
	}
	if userID == "" || priceID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "user_id and price_id are required", nil)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(userID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": userID},
		},
	}
	params.Context = ctx

	cs, err := session.New(params)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to create checkout session", err)
	}
	return cs.URL, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "BillingService.HandleWebhook"

	if s.webhookSecret == "" {
		return utils.E(utils.CodeInternal, op, "STRIPE_WEBHOOK_SECRET is not set", nil)
	}

	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return utils.E(utils.CodeUnauthorized, op, "invalid webhook signature", err)
	}

	duplicate, err := s.events.Record(ctx, &models.BillingEvent{
		ID:        uuid.NewString(),
		EventID:   event.ID,
		Type:      string(event.Type),
		Payload:   datatypes.JSON(event.Data.Raw),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to record billing event", err)
	}
	if duplicate {
		return nil
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return utils.E(utils.CodeInvalidArgument, op, "malformed checkout session payload", err)
		}
		if cs.ClientReferenceID == "" {
			return utils.E(utils.CodeInvalidArgument, op, "checkout session has no client reference", nil)
		}
		return s.profiles.SetSubscriptionStatus(ctx, cs.ClientReferenceID, models.SubscriptionActive)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return utils.E(utils.CodeInvalidArgument, op, "malformed subscription payload", err)
		}
		userID := sub.Metadata["user_id"]
		if userID == "" {
			// nothing to apply it to; recorded for audit, not an error
			return nil
		}
		status := models.SubscriptionCanceled
		if string(event.Type) == "customer.subscription.updated" {
			status = mapStripeStatus(string(sub.Status))
		}
		return s.profiles.SetSubscriptionStatus(ctx, userID, status)
	}

	// unhandled event types are recorded and ignored
	return nil
}

func mapStripeStatus(s string) models.SubscriptionStatus {
	switch s {
	case "trialing":
		return models.SubscriptionTrialing
	case "active", "past_due":
		return models.SubscriptionActive
	default:
		return models.SubscriptionCanceled
	}
}
