package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horoscope-api/internal/event"
	"horoscope-api/internal/model"
)

func TestSubscriptionService_Status(t *testing.T) {
	t.Run("free user", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		svc := NewSubscriptionService(store, nil)

		status, err := svc.Status(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.False(t, status.IsPremium)
		assert.Nil(t, status.ExpiresAt)
	})

	t.Run("premium with a future expiry", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		expiresAt := time.Now().UTC().Add(72 * time.Hour)
		seeded.SubscriptionTier = model.SubscriptionPremium
		seeded.SubscriptionExpiresAt = &expiresAt
		seeded.SubscriptionPlatform = "ios"
		seeded.SubscriptionProductID = "premium_monthly"
		require.NoError(t, store.UpdateSubscription(context.Background(), seeded))

		svc := NewSubscriptionService(store, nil)
		status, err := svc.Status(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.True(t, status.IsPremium)
		assert.Equal(t, model.SubscriptionPremium, status.Tier)
		assert.Equal(t, "ios", status.Platform)
		assert.Equal(t, "premium_monthly", status.ProductID)
	})

	t.Run("expired premium is not premium", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		expiresAt := time.Now().UTC().Add(-time.Hour)
		seeded.SubscriptionTier = model.SubscriptionPremium
		seeded.SubscriptionExpiresAt = &expiresAt
		require.NoError(t, store.UpdateSubscription(context.Background(), seeded))

		svc := NewSubscriptionService(store, nil)
		status, err := svc.Status(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.False(t, status.IsPremium)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewSubscriptionService(newMemUserStore(), nil)
		_, err := svc.Status(context.Background(), "ghost")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestSubscriptionService_HandleWebhook(t *testing.T) {
	t.Run("initial purchase upgrades a linked subscriber", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		require.NoError(t, store.LinkRevenueCatID(context.Background(), seeded.ID, "rc-42", "android"))

		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		svc := NewSubscriptionService(store, bus)
		expiry := time.Now().UTC().Add(30 * 24 * time.Hour)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{
				Type:           "INITIAL_PURCHASE",
				AppUserID:      "rc-42",
				ProductID:      "premium_yearly",
				ExpirationAtMS: expiry.UnixMilli(),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
		assert.Equal(t, "INITIAL_PURCHASE", result.EventType)

		updated, err := store.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionPremium, updated.SubscriptionTier)
		assert.Equal(t, "premium_yearly", updated.SubscriptionProductID)
		require.NotNil(t, updated.SubscriptionExpiresAt)
		assert.WithinDuration(t, expiry, *updated.SubscriptionExpiresAt, time.Second)

		select {
		case e := <-events:
			assert.Equal(t, event.TypeSubscriptionChanged, e.Type)
			assert.Equal(t, seeded.ID, e.ActorID)
		case <-time.After(time.Second):
			t.Fatal("expected a subscription.changed event")
		}
	})

	t.Run("renewal without an expiration gets the default term", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		require.NoError(t, store.LinkRevenueCatID(context.Background(), seeded.ID, "rc-42", "android"))

		svc := NewSubscriptionService(store, nil)
		_, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{Type: "RENEWAL", AppUserID: "rc-42"},
		})
		require.NoError(t, err)

		updated, err := store.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.SubscriptionExpiresAt)
		assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), *updated.SubscriptionExpiresAt, time.Minute)
	})

	t.Run("unlinked subscriber falls back to the email attribute", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)

		svc := NewSubscriptionService(store, nil)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{
				Type:      "INITIAL_PURCHASE",
				AppUserID: "rc-unlinked",
				SubscriberAttributes: map[string]model.RevenueCatAttribute{
					"$email": {Value: seeded.Email},
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)

		updated, err := store.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionPremium, updated.SubscriptionTier)
	})

	t.Run("expiration downgrades to free", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		require.NoError(t, store.LinkRevenueCatID(context.Background(), seeded.ID, "rc-42", "ios"))
		expiresAt := time.Now().UTC().Add(time.Hour)
		seeded.SubscriptionTier = model.SubscriptionPremium
		seeded.SubscriptionExpiresAt = &expiresAt
		require.NoError(t, store.UpdateSubscription(context.Background(), seeded))

		svc := NewSubscriptionService(store, nil)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{Type: "EXPIRATION", AppUserID: "rc-42"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)

		updated, err := store.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionFree, updated.SubscriptionTier)
	})

	t.Run("cancellation leaves the tier alone", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		require.NoError(t, store.LinkRevenueCatID(context.Background(), seeded.ID, "rc-42", "ios"))
		expiresAt := time.Now().UTC().Add(time.Hour)
		seeded.SubscriptionTier = model.SubscriptionPremium
		seeded.SubscriptionExpiresAt = &expiresAt
		require.NoError(t, store.UpdateSubscription(context.Background(), seeded))

		svc := NewSubscriptionService(store, nil)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{Type: "CANCELLATION", AppUserID: "rc-42"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)

		updated, err := store.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionPremium, updated.SubscriptionTier)
	})

	t.Run("missing subscriber id is acknowledged as ignored", func(t *testing.T) {
		svc := NewSubscriptionService(newMemUserStore(), nil)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{Type: "INITIAL_PURCHASE"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ignored", result.Status)
		assert.Equal(t, "no subscriber id", result.Reason)
	})

	t.Run("unknown subscriber is acknowledged as ignored", func(t *testing.T) {
		svc := NewSubscriptionService(newMemUserStore(), nil)
		result, err := svc.HandleWebhook(context.Background(), model.RevenueCatWebhook{
			Event: model.RevenueCatEvent{Type: "INITIAL_PURCHASE", AppUserID: "rc-nobody"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ignored", result.Status)
		assert.Equal(t, "user not found", result.Reason)
	})
}

func TestSubscriptionService_Restore(t *testing.T) {
	t.Run("links the customer id and platform", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		svc := NewSubscriptionService(store, nil)

		err := svc.Restore(context.Background(), seeded.ID, model.RestorePurchaseRequest{
			RevenueCatCustomerID: "rc-99", Platform: "iOS",
		})
		require.NoError(t, err)

		linked, err := store.FindByRevenueCatID(context.Background(), "rc-99")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, linked.ID)
		assert.Equal(t, "ios", linked.SubscriptionPlatform)
	})

	t.Run("rejects an empty customer id", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		svc := NewSubscriptionService(store, nil)

		err := svc.Restore(context.Background(), seeded.ID, model.RestorePurchaseRequest{Platform: "android"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "revenuecat_customer_id")
	})

	t.Run("rejects an unknown platform", func(t *testing.T) {
		store := newMemUserStore()
		seeded := seedUser(t, store)
		svc := NewSubscriptionService(store, nil)

		err := svc.Restore(context.Background(), seeded.ID, model.RestorePurchaseRequest{
			RevenueCatCustomerID: "rc-99", Platform: "windows",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "platform")
	})
}
