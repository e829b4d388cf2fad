package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"horoscope-api/internal/event"
	"horoscope-api/internal/model"
	"horoscope-api/internal/oauth"
	"horoscope-api/internal/zodiac"
	"horoscope-api/pkg/apierror"
)

const bcryptCost = 12

// dummyHash is compared against when the email is unknown so login takes
// the same time whether or not the account exists.
var dummyHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

var birthTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// UserStore is the slice of the user repository the auth and user services
// depend on.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	UpdateProfile(ctx context.Context, u model.User) error
	UpdatePreferences(ctx context.Context, u model.User) error
	UpdateNotificationToken(ctx context.Context, userID string, token string) error
	LinkGoogleID(ctx context.Context, userID string, googleID string) error
	TouchLastLogin(ctx context.Context, userID string) error
}

// RefreshTokenStore persists issued refresh tokens until they are used,
// revoked or expired.
type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type googleVerifier interface {
	Verify(ctx context.Context, idToken string) (oauth.GoogleIdentity, error)
}

type AuthService struct {
	users             UserStore
	tokens            RefreshTokenStore
	google            googleVerifier
	bus               event.Bus
	jwtSecret         []byte
	accessTTL         time.Duration
	refreshTTL        time.Duration
	passwordMinLength int
}

func NewAuthService(
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	passwordMinLength int,
	users UserStore,
	tokens RefreshTokenStore,
	google googleVerifier,
	bus event.Bus,
) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if passwordMinLength <= 0 {
		passwordMinLength = 8
	}

	return &AuthService{
		users:             users,
		tokens:            tokens,
		google:            google,
		bus:               bus,
		jwtSecret:         []byte(jwtSecret),
		accessTTL:         accessTTL,
		refreshTTL:        refreshTTL,
		passwordMinLength: passwordMinLength,
	}, nil
}

// Register creates an email+password account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return model.TokenPair{}, apierror.New("BAD_REQUEST", "invalid email address", "email", http.StatusBadRequest)
	}

	if err := s.checkPasswordPolicy(req.Password); err != nil {
		return model.TokenPair{}, err
	}

	if err := validateBirthFields(req.Name, req.BirthDate, req.BirthTime, req.BirthLocation); err != nil {
		return model.TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	user := newUserDefaults(now)
	user.Email = email
	user.PasswordHash = string(hash)
	user.AuthProvider = model.AuthProviderEmail
	user.Name = strings.TrimSpace(req.Name)
	user.BirthDate = req.BirthDate
	user.BirthTime = req.BirthTime
	user.BirthLocation = strings.TrimSpace(req.BirthLocation)
	user.BirthLatitude = req.BirthLatitude
	user.BirthLongitude = req.BirthLongitude
	user.ZodiacSign = zodiac.SignFromDate(req.BirthDate).ID
	user.Timezone = timezone

	// The unique index on lower(email) decides races between concurrent
	// registrations; no pre-check needed.
	if err := s.users.Create(ctx, user); err != nil {
		return model.TokenPair{}, err
	}

	s.publish(event.TypeUserRegistered, user)

	return s.issueTokenPair(ctx, user)
}

// Login verifies an email+password pair. The password comparison runs even
// for unknown emails and password-less (Google) accounts.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	hash := []byte(user.PasswordHash)
	if user.PasswordHash == "" {
		hash = dummyHash
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || user.PasswordHash == "" {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.TokenPair{}, model.ErrAccountDisabled
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return model.TokenPair{}, err
	}

	s.publish(event.TypeUserLoggedIn, user)

	return s.issueTokenPair(ctx, user)
}

// LoginWithGoogle exchanges a verified Google ID token for a session.
// Resolution order: linked google_id, then email (linking the account),
// then a new user, which requires the birth fields.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req model.GoogleAuthRequest) (model.TokenPair, error) {
	identity, err := s.google.Verify(ctx, strings.TrimSpace(req.IDToken))
	if err != nil {
		return model.TokenPair{}, model.ErrGoogleTokenInvalid
	}

	user, err := s.users.FindByGoogleID(ctx, identity.Subject)
	switch {
	case err == nil:
		// Known subject.
	case errors.Is(err, model.ErrUserNotFound):
		user, err = s.resolveGoogleUserByEmail(ctx, identity, req)
		if err != nil {
			return model.TokenPair{}, err
		}
	default:
		return model.TokenPair{}, err
	}

	if !user.IsActive {
		return model.TokenPair{}, model.ErrAccountDisabled
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return model.TokenPair{}, err
	}

	s.publish(event.TypeUserLoggedIn, user)

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) resolveGoogleUserByEmail(ctx context.Context, identity oauth.GoogleIdentity, req model.GoogleAuthRequest) (model.User, error) {
	existing, err := s.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		// Email account seen before: link the Google identity to it.
		if err := s.users.LinkGoogleID(ctx, existing.ID, identity.Subject); err != nil {
			return model.User{}, err
		}
		existing.GoogleID = identity.Subject
		s.publish(event.TypeGoogleLinked, existing)
		return existing, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, err
	}

	// First sight of this subject: create the account. Birth fields come
	// from the request because Google does not know them.
	if req.BirthDate == nil || req.BirthTime == "" || req.BirthLocation == "" {
		return model.User{}, apierror.New("BAD_REQUEST",
			"new users must provide birth_date, birth_time and birth_location", "", http.StatusBadRequest)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = identity.Name
	}

	if err := validateBirthFields(name, *req.BirthDate, req.BirthTime, req.BirthLocation); err != nil {
		return model.User{}, err
	}

	user := newUserDefaults(time.Now().UTC())
	user.Email = strings.ToLower(identity.Email)
	user.GoogleID = identity.Subject
	user.AuthProvider = model.AuthProviderGoogle
	user.Name = name
	user.BirthDate = *req.BirthDate
	user.BirthTime = req.BirthTime
	user.BirthLocation = strings.TrimSpace(req.BirthLocation)
	user.BirthLatitude = req.BirthLatitude
	user.BirthLongitude = req.BirthLongitude
	user.ZodiacSign = zodiac.SignFromDate(*req.BirthDate).ID
	user.AvatarURL = identity.Picture
	user.IsEmailVerified = identity.EmailVerified

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. A replayed token no longer exists in the store and
// is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, "refresh")
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return model.TokenPair{}, model.ErrRefreshTokenExpired
		}
		return model.TokenPair{}, model.ErrRefreshTokenInvalid
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, model.ErrRefreshTokenInvalid
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.TokenPair{}, model.ErrRefreshTokenInvalid
	}

	if !user.IsActive {
		return model.TokenPair{}, model.ErrAccountDisabled
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token. Revoking an unknown token is
// not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// ValidateToken verifies signature, expiry and the typ claim. It is a pure
// function of the signing key; no store lookup happens here.
func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenInvalid
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, model.ErrTokenInvalid
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub": user.ID,
		"typ": "access",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub": user.ID,
		"typ": "refresh",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": refreshExpiry.Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Store(ctx, refreshToken, user.ID, refreshExpiry); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         model.NewProfile(user, now),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) publish(t event.Type, user model.User) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:   uuid.NewString(),
		Type: t,
		Payload: map[string]string{
			"email":    user.Email,
			"provider": user.AuthProvider,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   user.ID,
	})
}

func (s *AuthService) checkPasswordPolicy(password string) error {
	if len(password) < s.passwordMinLength {
		return apierror.New("WEAK_PASSWORD",
			fmt.Sprintf("password must be at least %d characters", s.passwordMinLength),
			"password", http.StatusBadRequest)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return apierror.New("WEAK_PASSWORD",
			"password must contain at least one letter and one digit",
			"password", http.StatusBadRequest)
	}

	return nil
}

// newUserDefaults mirrors the column defaults in the users table so the
// profile returned at registration matches the row a later read sees.
func newUserDefaults(now time.Time) model.User {
	return model.User{
		ID:                   uuid.NewString(),
		Timezone:             "UTC",
		SubscriptionTier:     model.SubscriptionFree,
		IsActive:             true,
		NotificationsEnabled: true,
		DailyHoroscopeTime:   "08:00",
		Theme:                "dark",
		Language:             "en",
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func validateBirthFields(name string, birthDate time.Time, birthTime string, birthLocation string) error {
	if strings.TrimSpace(name) == "" {
		return apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}
	if birthDate.IsZero() {
		return apierror.New("BAD_REQUEST", "birth_date is required", "birth_date", http.StatusBadRequest)
	}
	if !birthTimePattern.MatchString(birthTime) {
		return apierror.New("BAD_REQUEST", "birth_time must be HH:mm", "birth_time", http.StatusBadRequest)
	}
	if strings.TrimSpace(birthLocation) == "" {
		return apierror.New("BAD_REQUEST", "birth_location is required", "birth_location", http.StatusBadRequest)
	}
	return nil
}
