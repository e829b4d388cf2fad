package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"horoscope-api/internal/event"
	"horoscope-api/internal/model"
	"horoscope-api/pkg/apierror"
)

// RevenueCat webhook event types the service acts on.
const (
	rcInitialPurchase = "INITIAL_PURCHASE"
	rcRenewal         = "RENEWAL"
	rcProductChange   = "PRODUCT_CHANGE"
	rcExpiration      = "EXPIRATION"
	rcBillingIssue    = "BILLING_ISSUE"
	rcCancellation    = "CANCELLATION"
)

// defaultPremiumTerm is used when a purchase event carries no
// expiration timestamp.
const defaultPremiumTerm = 30 * 24 * time.Hour

// SubscriptionStore is the slice of the user repository the
// subscription service depends on.
type SubscriptionStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByRevenueCatID(ctx context.Context, revenueCatID string) (model.User, error)
	UpdateSubscription(ctx context.Context, u model.User) error
	LinkRevenueCatID(ctx context.Context, userID string, revenueCatID string, platform string) error
}

type SubscriptionService struct {
	users SubscriptionStore
	bus   event.Bus
}

func NewSubscriptionService(users SubscriptionStore, bus event.Bus) *SubscriptionService {
	return &SubscriptionService{users: users, bus: bus}
}

func (s *SubscriptionService) Status(ctx context.Context, userID string) (model.SubscriptionStatus, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.SubscriptionStatus{}, err
	}

	return model.SubscriptionStatus{
		Tier:      user.SubscriptionTier,
		IsPremium: user.IsPremium(time.Now().UTC()),
		ExpiresAt: user.SubscriptionExpiresAt,
		Platform:  user.SubscriptionPlatform,
		ProductID: user.SubscriptionProductID,
	}, nil
}

// HandleWebhook applies a RevenueCat server notification. Events for
// unknown subscribers are acknowledged as ignored rather than failed
// so RevenueCat does not retry them forever.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, hook model.RevenueCatWebhook) (model.WebhookResult, error) {
	ev := hook.Event
	if strings.TrimSpace(ev.AppUserID) == "" {
		return model.WebhookResult{Status: "ignored", Reason: "no subscriber id"}, nil
	}

	user, err := s.users.FindByRevenueCatID(ctx, ev.AppUserID)
	if errors.Is(err, model.ErrUserNotFound) {
		// Subscriber not linked yet; fall back to the email attribute.
		if email := ev.SubscriberAttributes["$email"].Value; email != "" {
			user, err = s.users.FindByEmail(ctx, email)
		}
	}
	if errors.Is(err, model.ErrUserNotFound) {
		return model.WebhookResult{Status: "ignored", Reason: "user not found"}, nil
	}
	if err != nil {
		return model.WebhookResult{}, err
	}

	switch ev.Type {
	case rcInitialPurchase, rcRenewal, rcProductChange:
		expiresAt := time.Now().UTC().Add(defaultPremiumTerm)
		if ev.ExpirationAtMS > 0 {
			expiresAt = time.UnixMilli(ev.ExpirationAtMS).UTC()
		}
		user.SubscriptionTier = model.SubscriptionPremium
		user.SubscriptionProductID = ev.ProductID
		user.SubscriptionExpiresAt = &expiresAt
		if err := s.users.UpdateSubscription(ctx, user); err != nil {
			return model.WebhookResult{}, err
		}
		s.publishChange(user)

	case rcExpiration, rcBillingIssue:
		user.SubscriptionTier = model.SubscriptionFree
		if err := s.users.UpdateSubscription(ctx, user); err != nil {
			return model.WebhookResult{}, err
		}
		s.publishChange(user)

	case rcCancellation:
		// Auto-renew turned off; access stays until the paid term ends,
		// then EXPIRATION downgrades the tier.

	default:
		return model.WebhookResult{Status: "ignored", Reason: "unhandled event type", EventType: ev.Type}, nil
	}

	return model.WebhookResult{Status: "ok", EventType: ev.Type}, nil
}

// Restore links the device's RevenueCat customer id to the
// authenticated user. Entitlements themselves arrive via the webhook.
func (s *SubscriptionService) Restore(ctx context.Context, userID string, req model.RestorePurchaseRequest) error {
	customerID := strings.TrimSpace(req.RevenueCatCustomerID)
	if customerID == "" {
		return apierror.New("BAD_REQUEST", "revenuecat_customer_id is required",
			"revenuecat_customer_id", http.StatusBadRequest)
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform != "android" && platform != "ios" {
		return apierror.New("BAD_REQUEST", "platform must be android or ios",
			"platform", http.StatusBadRequest)
	}

	return s.users.LinkRevenueCatID(ctx, userID, customerID, platform)
}

func (s *SubscriptionService) publishChange(user model.User) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:   uuid.NewString(),
		Type: event.TypeSubscriptionChanged,
		Payload: map[string]string{
			"tier":       user.SubscriptionTier,
			"product_id": user.SubscriptionProductID,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   user.ID,
	})
}
