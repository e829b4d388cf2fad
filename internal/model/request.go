package model

import "time"

type RegisterRequest struct {
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Name           string    `json:"name"`
	BirthDate      time.Time `json:"birth_date"`
	BirthTime      string    `json:"birth_time"`
	BirthLocation  string    `json:"birth_location"`
	BirthLatitude  *float64  `json:"birth_latitude,omitempty"`
	BirthLongitude *float64  `json:"birth_longitude,omitempty"`
	Timezone       string    `json:"timezone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest carries a Google ID token. The birth fields are required
// only when the token belongs to a subject we have never seen before.
type GoogleAuthRequest struct {
	IDToken        string     `json:"id_token"`
	Name           string     `json:"name,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	BirthTime      string     `json:"birth_time,omitempty"`
	BirthLocation  string     `json:"birth_location,omitempty"`
	BirthLatitude  *float64   `json:"birth_latitude,omitempty"`
	BirthLongitude *float64   `json:"birth_longitude,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest uses pointers so absent fields are left untouched.
type UpdateProfileRequest struct {
	Name           *string  `json:"name,omitempty"`
	BirthTime      *string  `json:"birth_time,omitempty"`
	BirthLocation  *string  `json:"birth_location,omitempty"`
	BirthLatitude  *float64 `json:"birth_latitude,omitempty"`
	BirthLongitude *float64 `json:"birth_longitude,omitempty"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	Timezone       *string  `json:"timezone,omitempty"`
}

type UpdatePreferencesRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	DailyHoroscopeTime   *string `json:"daily_horoscope_time,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	Language             *string `json:"language,omitempty"`
}

type UpdateNotificationTokenRequest struct {
	Token string `json:"token"`
}

type CreateJournalEntryRequest struct {
	Intention string `json:"intention"`
	Gratitude string `json:"gratitude,omitempty"`
	Category  string `json:"category,omitempty"`
}

type UpdateJournalEntryRequest struct {
	Intention *string `json:"intention,omitempty"`
	Gratitude *string `json:"gratitude,omitempty"`
	Status    *string `json:"status,omitempty"`
	Category  *string `json:"category,omitempty"`
}

type TarotDrawRequest struct {
	Spread string `json:"spread,omitempty"`
}
