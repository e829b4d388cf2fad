package model

import "time"

// SubscriptionStatus is the client-facing view of a user's subscription.
type SubscriptionStatus struct {
	Tier      string     `json:"tier"`
	IsPremium bool       `json:"is_premium"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Platform  string     `json:"platform,omitempty"`
	ProductID string     `json:"product_id,omitempty"`
}

// RevenueCatWebhook is the envelope RevenueCat posts to the webhook
// endpoint. Only the fields the service acts on are decoded.
type RevenueCatWebhook struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

type RevenueCatEvent struct {
	Type                 string                         `json:"type"`
	AppUserID            string                         `json:"app_user_id"`
	ProductID            string                         `json:"product_id"`
	ExpirationAtMS       int64                          `json:"expiration_at_ms"`
	SubscriberAttributes map[string]RevenueCatAttribute `json:"subscriber_attributes"`
}

type RevenueCatAttribute struct {
	Value string `json:"value"`
}

// WebhookResult tells RevenueCat what happened to the event. Both
// "ok" and "ignored" are delivered with HTTP 200 so RevenueCat does
// not retry events we can never process.
type WebhookResult struct {
	Status    string `json:"status"`
	EventType string `json:"event_type,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// RestorePurchaseRequest links a RevenueCat customer id to the
// authenticated user after an on-device restore.
type RestorePurchaseRequest struct {
	RevenueCatCustomerID string `json:"revenuecat_customer_id"`
	Platform             string `json:"platform"`
}
