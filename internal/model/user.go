package model

import "time"

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"
)

// User is the persisted account record. PasswordHash is empty for accounts
// created through Google sign-in; GoogleID is empty for email accounts.
// At least one of the two is always set.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleID     string
	AuthProvider string

	Name           string
	BirthDate      time.Time
	BirthTime      string
	BirthLocation  string
	BirthLatitude  *float64
	BirthLongitude *float64
	ZodiacSign     string
	AvatarURL      string
	Timezone       string

	SubscriptionTier      string
	SubscriptionExpiresAt *time.Time
	SubscriptionPlatform  string
	SubscriptionProductID string
	RevenueCatID          string

	IsEmailVerified bool
	IsActive        bool

	NotificationsEnabled bool
	DailyHoroscopeTime   string
	Theme                string
	Language             string
	NotificationToken    string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// IsPremium reports whether the user has an unexpired premium subscription.
func (u User) IsPremium(now time.Time) bool {
	if u.SubscriptionTier != SubscriptionPremium {
		return false
	}
	if u.SubscriptionExpiresAt == nil {
		return false
	}
	return u.SubscriptionExpiresAt.After(now)
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

// Profile is the client-facing view of a User.
type Profile struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	AuthProvider         string     `json:"auth_provider"`
	Name                 string     `json:"name"`
	BirthDate            time.Time  `json:"birth_date"`
	BirthTime            string     `json:"birth_time"`
	BirthLocation        string     `json:"birth_location"`
	BirthLatitude        *float64   `json:"birth_latitude,omitempty"`
	BirthLongitude       *float64   `json:"birth_longitude,omitempty"`
	ZodiacSign           string     `json:"zodiac_sign_id"`
	AvatarURL            string     `json:"avatar_url,omitempty"`
	Timezone             string     `json:"timezone"`
	IsEmailVerified      bool       `json:"is_email_verified"`
	IsPremium            bool       `json:"is_premium"`
	SubscriptionTier     string     `json:"subscription_tier"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	DailyHoroscopeTime   string     `json:"daily_horoscope_time"`
	Theme                string     `json:"theme"`
	Language             string     `json:"language"`
	CreatedAt            time.Time  `json:"created_at"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
}

// NewProfile projects a User onto its API representation.
func NewProfile(u User, now time.Time) Profile {
	return Profile{
		ID:                   u.ID,
		Email:                u.Email,
		AuthProvider:         u.AuthProvider,
		Name:                 u.Name,
		BirthDate:            u.BirthDate,
		BirthTime:            u.BirthTime,
		BirthLocation:        u.BirthLocation,
		BirthLatitude:        u.BirthLatitude,
		BirthLongitude:       u.BirthLongitude,
		ZodiacSign:           u.ZodiacSign,
		AvatarURL:            u.AvatarURL,
		Timezone:             u.Timezone,
		IsEmailVerified:      u.IsEmailVerified,
		IsPremium:            u.IsPremium(now),
		SubscriptionTier:     u.SubscriptionTier,
		NotificationsEnabled: u.NotificationsEnabled,
		DailyHoroscopeTime:   u.DailyHoroscopeTime,
		Theme:                u.Theme,
		Language:             u.Language,
		CreatedAt:            u.CreatedAt,
		LastLoginAt:          u.LastLoginAt,
	}
}

type TokenPair struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int64   `json:"expires_in"`
	User         Profile `json:"user"`
}
