package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"horoscope-api/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, google_id, auth_provider,
	name, birth_date, birth_time, birth_location, birth_latitude, birth_longitude,
	zodiac_sign, avatar_url, timezone,
	subscription_tier, subscription_expires_at, subscription_platform, subscription_product_id, revenuecat_id,
	is_email_verified, is_active,
	notifications_enabled, daily_horoscope_time, theme, language, notification_token,
	created_at, updated_at, last_login_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var passwordHash, googleID *string
	err := row.Scan(&u.ID, &u.Email, &passwordHash, &googleID, &u.AuthProvider,
		&u.Name, &u.BirthDate, &u.BirthTime, &u.BirthLocation, &u.BirthLatitude, &u.BirthLongitude,
		&u.ZodiacSign, &u.AvatarURL, &u.Timezone,
		&u.SubscriptionTier, &u.SubscriptionExpiresAt, &u.SubscriptionPlatform, &u.SubscriptionProductID, &u.RevenueCatID,
		&u.IsEmailVerified, &u.IsActive,
		&u.NotificationsEnabled, &u.DailyHoroscopeTime, &u.Theme, &u.Language, &u.NotificationToken,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if err != nil {
		return model.User{}, err
	}

	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if googleID != nil {
		u.GoogleID = *googleID
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by google id: %w", err)
	}
	return u, nil
}

// Create inserts the user. The unique index on lower(email) serializes
// concurrent registrations; the loser gets model.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	var passwordHash, googleID *string
	if u.PasswordHash != "" {
		passwordHash = &u.PasswordHash
	}
	if u.GoogleID != "" {
		googleID = &u.GoogleID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, google_id, auth_provider,
			name, birth_date, birth_time, birth_location, birth_latitude, birth_longitude,
			zodiac_sign, avatar_url, timezone, is_email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		u.ID, u.Email, passwordHash, googleID, u.AuthProvider,
		u.Name, u.BirthDate, u.BirthTime, u.BirthLocation, u.BirthLatitude, u.BirthLongitude,
		u.ZodiacSign, u.AvatarURL, u.Timezone, u.IsEmailVerified, u.CreatedAt, u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, birth_time = $3, birth_location = $4,
			birth_latitude = $5, birth_longitude = $6, avatar_url = $7, timezone = $8,
			updated_at = $9
		 WHERE id = $1`,
		u.ID, u.Name, u.BirthTime, u.BirthLocation,
		u.BirthLatitude, u.BirthLongitude, u.AvatarURL, u.Timezone,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET notifications_enabled = $2, daily_horoscope_time = $3,
			theme = $4, language = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.NotificationsEnabled, u.DailyHoroscopeTime,
		u.Theme, u.Language, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateNotificationToken(ctx context.Context, userID string, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET notification_token = $2, updated_at = $3 WHERE id = $1`,
		userID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update notification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) LinkGoogleID(ctx context.Context, userID string, googleID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET google_id = $2, updated_at = $3 WHERE id = $1`,
		userID, googleID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByRevenueCatID(ctx context.Context, revenueCatID string) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE revenuecat_id = $1 AND revenuecat_id <> ''`,
		revenueCatID)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by revenuecat id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateSubscription(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET subscription_tier = $2, subscription_expires_at = $3,
			subscription_platform = $4, subscription_product_id = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.SubscriptionTier, u.SubscriptionExpiresAt,
		u.SubscriptionPlatform, u.SubscriptionProductID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) LinkRevenueCatID(ctx context.Context, userID string, revenueCatID string, platform string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET revenuecat_id = $2, subscription_platform = $3, updated_at = $4
		 WHERE id = $1`,
		userID, revenueCatID, platform, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("link revenuecat id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
