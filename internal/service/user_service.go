package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"horoscope-api/internal/model"
	"horoscope-api/pkg/apierror"
)

var horoscopeTimePattern = birthTimePattern

// UserService serves the profile and preference operations for the
// authenticated caller.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	return model.NewProfile(user, time.Now().UTC()), nil
}

// UpdateProfile applies only the fields present in the request.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return model.Profile{}, apierror.New("BAD_REQUEST", "name cannot be empty", "name", http.StatusBadRequest)
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.BirthTime != nil {
		if !birthTimePattern.MatchString(*req.BirthTime) {
			return model.Profile{}, apierror.New("BAD_REQUEST", "birth_time must be HH:mm", "birth_time", http.StatusBadRequest)
		}
		user.BirthTime = *req.BirthTime
	}
	if req.BirthLocation != nil {
		if strings.TrimSpace(*req.BirthLocation) == "" {
			return model.Profile{}, apierror.New("BAD_REQUEST", "birth_location cannot be empty", "birth_location", http.StatusBadRequest)
		}
		user.BirthLocation = strings.TrimSpace(*req.BirthLocation)
	}
	if req.BirthLatitude != nil {
		user.BirthLatitude = req.BirthLatitude
	}
	if req.BirthLongitude != nil {
		user.BirthLongitude = req.BirthLongitude
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return model.Profile{}, apierror.New("BAD_REQUEST", "unknown timezone", "timezone", http.StatusBadRequest)
		}
		user.Timezone = tz
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return model.Profile{}, err
	}

	return model.NewProfile(user, time.Now().UTC()), nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID string, req model.UpdatePreferencesRequest) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	if req.NotificationsEnabled != nil {
		user.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.DailyHoroscopeTime != nil {
		if !horoscopeTimePattern.MatchString(*req.DailyHoroscopeTime) {
			return model.Profile{}, apierror.New("BAD_REQUEST", "daily_horoscope_time must be HH:mm", "daily_horoscope_time", http.StatusBadRequest)
		}
		user.DailyHoroscopeTime = *req.DailyHoroscopeTime
	}
	if req.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*req.Theme))
		if theme != "dark" && theme != "light" {
			return model.Profile{}, apierror.New("BAD_REQUEST", "theme must be dark or light", *req.Theme, http.StatusBadRequest)
		}
		user.Theme = theme
	}
	if req.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*req.Language))
		if lang == "" {
			return model.Profile{}, apierror.New("BAD_REQUEST", "language cannot be empty", "language", http.StatusBadRequest)
		}
		user.Language = lang
	}

	if err := s.users.UpdatePreferences(ctx, user); err != nil {
		return model.Profile{}, err
	}

	return model.NewProfile(user, time.Now().UTC()), nil
}

func (s *UserService) UpdateNotificationToken(ctx context.Context, userID string, token string) error {
	if strings.TrimSpace(token) == "" {
		return apierror.New("BAD_REQUEST", "token is required", "token", http.StatusBadRequest)
	}
	return s.users.UpdateNotificationToken(ctx, userID, strings.TrimSpace(token))
}
