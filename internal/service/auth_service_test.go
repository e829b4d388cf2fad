package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horoscope-api/internal/model"
	"horoscope-api/internal/oauth"
)

// memUserStore is an in-memory UserStore with the same uniqueness rules as
// the Postgres schema.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]model.User)}
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) FindByGoogleID(_ context.Context, googleID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) UpdatePreferences(ctx context.Context, u model.User) error {
	return s.UpdateProfile(ctx, u)
}

func (s *memUserStore) UpdateNotificationToken(_ context.Context, userID string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.NotificationToken = token
	s.users[userID] = u
	return nil
}

func (s *memUserStore) LinkGoogleID(_ context.Context, userID string, googleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.GoogleID = googleID
	s.users[userID] = u
	return nil
}

func (s *memUserStore) FindByRevenueCatID(_ context.Context, revenueCatID string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.RevenueCatID != "" && u.RevenueCatID == revenueCatID {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) UpdateSubscription(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[u.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	stored.SubscriptionTier = u.SubscriptionTier
	stored.SubscriptionExpiresAt = u.SubscriptionExpiresAt
	stored.SubscriptionPlatform = u.SubscriptionPlatform
	stored.SubscriptionProductID = u.SubscriptionProductID
	s.users[u.ID] = stored
	return nil
}

func (s *memUserStore) LinkRevenueCatID(_ context.Context, userID string, revenueCatID string, platform string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RevenueCatID = revenueCatID
	u.SubscriptionPlatform = platform
	s.users[userID] = u
	return nil
}

func (s *memUserStore) TouchLastLogin(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.users[userID] = u
	return nil
}

func (s *memUserStore) setActive(userID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.IsActive = active
	s.users[userID] = u
}

type storedToken struct {
	userID    string
	expiresAt time.Time
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]storedToken)}
}

func (s *memTokenStore) Store(_ context.Context, token string, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *memTokenStore) Validate(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tokens[token]
	if !ok || !st.expiresAt.After(time.Now()) {
		return "", model.ErrRefreshTokenInvalid
	}
	return st.userID, nil
}

func (s *memTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *memTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, st := range s.tokens {
		if st.userID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

type stubGoogleVerifier struct {
	identity oauth.GoogleIdentity
	err      error
}

func (v *stubGoogleVerifier) Verify(context.Context, string) (oauth.GoogleIdentity, error) {
	return v.identity, v.err
}

type authFixture struct {
	svc    *AuthService
	users  *memUserStore
	tokens *memTokenStore
	google *stubGoogleVerifier
}

func newAuthFixture(t *testing.T, accessTTL time.Duration) authFixture {
	t.Helper()

	users := newMemUserStore()
	tokens := newMemTokenStore()
	google := &stubGoogleVerifier{}

	svc, err := NewAuthService("test-secret-0123456789", accessTTL, 24*time.Hour, 8, users, tokens, google, nil)
	require.NoError(t, err)

	return authFixture{svc: svc, users: users, tokens: tokens, google: google}
}

func validRegisterRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Email:         "luna@example.com",
		Password:      "moonchild7",
		Name:          "Luna",
		BirthDate:     time.Date(1995, time.July, 23, 0, 0, 0, 0, time.UTC),
		BirthTime:     "08:30",
		BirthLocation: "Lisbon, Portugal",
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates account and signs the user in", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64(900), pair.ExpiresIn)
		assert.Equal(t, "luna@example.com", pair.User.Email)
		assert.Equal(t, "leo", pair.User.ZodiacSign)
		assert.Equal(t, model.AuthProviderEmail, pair.User.AuthProvider)

		// Password never leaves the service in any form.
		assert.NotContains(t, pair.AccessToken, "moonchild7")
	})

	t.Run("profile carries the stored preference defaults", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		// Must match the column defaults so this response agrees with a
		// later GET /users/me.
		assert.Equal(t, "dark", pair.User.Theme)
		assert.Equal(t, "en", pair.User.Language)
		assert.True(t, pair.User.NotificationsEnabled)
		assert.Equal(t, "08:00", pair.User.DailyHoroscopeTime)
		assert.Equal(t, model.SubscriptionFree, pair.User.SubscriptionTier)
		assert.False(t, pair.User.IsPremium)
		assert.Equal(t, "UTC", pair.User.Timezone)
	})

	t.Run("normalizes email case", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		req := validRegisterRequest()
		req.Email = "  Luna@Example.COM "
		pair, err := f.svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "luna@example.com", pair.User.Email)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		_, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		req := validRegisterRequest()
		req.Email = "LUNA@example.com"
		_, err = f.svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		req := validRegisterRequest()
		req.Email = "not-an-email"
		_, err := f.svc.Register(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "BAD_REQUEST")
	})

	t.Run("rejects short password", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		req := validRegisterRequest()
		req.Password = "ab1"
		_, err := f.svc.Register(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "WEAK_PASSWORD")
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		req := validRegisterRequest()
		req.Password = "onlyletters"
		_, err := f.svc.Register(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "WEAK_PASSWORD")
	})

	t.Run("rejects bad birth time format", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		req := validRegisterRequest()
		req.BirthTime = "8:30am"
		_, err := f.svc.Register(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "birth_time")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("valid credentials return a token pair", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		_, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		pair, err := f.svc.Login(context.Background(), "luna@example.com", "moonchild7")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, "luna@example.com", pair.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		_, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		_, err = f.svc.Login(context.Background(), "luna@example.com", "wrongpass1")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		_, err := f.svc.Login(context.Background(), "nobody@example.com", "whatever1")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("google-only account cannot log in with a password", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		f.google.identity = oauth.GoogleIdentity{
			Subject: "g-123", Email: "sol@example.com", EmailVerified: true, Name: "Sol",
		}
		birthDate := time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{
			IDToken: "stub", BirthDate: &birthDate, BirthTime: "12:00", BirthLocation: "Madrid, Spain",
		})
		require.NoError(t, err)

		_, err = f.svc.Login(context.Background(), "sol@example.com", "anything1")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		f.users.setActive(pair.User.ID, false)

		_, err = f.svc.Login(context.Background(), "luna@example.com", "moonchild7")
		assert.ErrorIs(t, err, model.ErrAccountDisabled)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("access token round trip", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		claims, err := f.svc.ValidateToken(pair.AccessToken, "access")
		require.NoError(t, err)
		assert.Equal(t, pair.User.ID, claims.UserID)
		assert.Equal(t, "access", claims.Type)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		_, err = f.svc.ValidateToken(pair.RefreshToken, "access")
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t, -time.Second)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		_, err = f.svc.ValidateToken(pair.AccessToken, "access")
		assert.ErrorIs(t, err, model.ErrTokenExpired)
	})

	t.Run("tampered signature", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		other, err := NewAuthService("a-different-secret-key", 15*time.Minute, 24*time.Hour, 8,
			f.users, f.tokens, f.google, nil)
		require.NoError(t, err)

		_, err = other.ValidateToken(pair.AccessToken, "access")
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})

	t.Run("garbage input", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)

		_, err := f.svc.ValidateToken("not.a.jwt", "access")
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("rotation issues a new pair and kills the old token", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		rotated, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		// Replaying the spent token must fail.
		_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)

		// The rotated token still works.
		_, err = f.svc.Refresh(context.Background(), rotated.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		_, err = f.svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		users := newMemUserStore()
		tokens := newMemTokenStore()

		// Refresh tokens are born expired here; the JWT itself fails the
		// expiry check before the store is ever consulted.
		svc, err := NewAuthService("test-secret-0123456789", 15*time.Minute, -time.Second, 8,
			users, tokens, &stubGoogleVerifier{}, nil)
		require.NoError(t, err)

		pair, err := svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, model.ErrRefreshTokenExpired)
	})

	t.Run("disabled account cannot refresh", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		f.users.setActive(pair.User.ID, false)

		_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, model.ErrAccountDisabled)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revoked token cannot refresh", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		pair, err := f.svc.Register(context.Background(), validRegisterRequest())
		require.NoError(t, err)

		require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))

		_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)
	})

	t.Run("logging out an unknown token is a no-op", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		assert.NoError(t, f.svc.Logout(context.Background(), "never-issued"))
	})
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	identity := oauth.GoogleIdentity{
		Subject: "g-777", Email: "astra@example.com", EmailVerified: true,
		Name: "Astra", Picture: "https://example.com/astra.png",
	}
	birthDate := time.Date(1988, time.November, 30, 0, 0, 0, 0, time.UTC)

	t.Run("new subject with birth fields creates an account", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		f.google.identity = identity

		pair, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{
			IDToken: "stub", BirthDate: &birthDate, BirthTime: "23:15", BirthLocation: "Oslo, Norway",
		})
		require.NoError(t, err)
		assert.Equal(t, "astra@example.com", pair.User.Email)
		assert.Equal(t, model.AuthProviderGoogle, pair.User.AuthProvider)
		assert.Equal(t, "sagittarius", pair.User.ZodiacSign)
		assert.Equal(t, "Astra", pair.User.Name)

		// First-login accounts get the same preference defaults as
		// email registrations.
		assert.Equal(t, "dark", pair.User.Theme)
		assert.Equal(t, "en", pair.User.Language)
		assert.True(t, pair.User.NotificationsEnabled)
		assert.Equal(t, "08:00", pair.User.DailyHoroscopeTime)
		assert.Equal(t, model.SubscriptionFree, pair.User.SubscriptionTier)
	})

	t.Run("new subject without birth fields is rejected", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		f.google.identity = identity

		_, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{IDToken: "stub"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "birth_date")
	})

	t.Run("known subject logs straight in", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		f.google.identity = identity

		_, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{
			IDToken: "stub", BirthDate: &birthDate, BirthTime: "23:15", BirthLocation: "Oslo, Norway",
		})
		require.NoError(t, err)

		pair, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{IDToken: "stub"})
		require.NoError(t, err)
		assert.Equal(t, "astra@example.com", pair.User.Email)
	})

	t.Run("matching email links the google identity", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		req := validRegisterRequest()
		req.Email = "astra@example.com"
		registered, err := f.svc.Register(context.Background(), req)
		require.NoError(t, err)

		f.google.identity = identity
		pair, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{IDToken: "stub"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, pair.User.ID)

		linked, err := f.users.FindByGoogleID(context.Background(), "g-777")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, linked.ID)
	})

	t.Run("verifier failure maps to the google token error", func(t *testing.T) {
		f := newAuthFixture(t, 15*time.Minute)
		f.google.err = errors.New("upstream said no")

		_, err := f.svc.LoginWithGoogle(context.Background(), model.GoogleAuthRequest{IDToken: "bad"})
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})
}
