package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"horoscope-api/internal/config"
	"horoscope-api/internal/handler"
	"horoscope-api/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Horoscope    *handler.HoroscopeHandler
	Journal      *handler.JournalHandler
	Tarot        *handler.TarotHandler
	Subscription *handler.SubscriptionHandler
	Moon         *handler.MoonHandler
	Numerology   *handler.NumerologyHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.Post("/google", h.Auth.GoogleLogin)
		auth.Post("/refresh", h.Auth.Refresh)
		auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
	})

	r.Route("/users", func(users chi.Router) {
		users.Use(authMiddleware.RequireAuth)
		users.Get("/me", h.User.Me)
		users.Put("/me", h.User.UpdateMe)
		users.Put("/me/preferences", h.User.UpdatePreferences)
		users.Put("/me/notification-token", h.User.UpdateNotificationToken)
	})

	r.Route("/horoscope", func(horoscope chi.Router) {
		horoscope.Get("/signs", h.Horoscope.Signs)
		horoscope.Get("/daily/{sign_id}", h.Horoscope.Daily)
		horoscope.Get("/weekly/{sign_id}", h.Horoscope.Weekly)
		horoscope.Get("/compatibility/{sign1_id}/{sign2_id}", h.Horoscope.Compatibility)
	})

	r.Route("/journal", func(journal chi.Router) {
		journal.Use(authMiddleware.RequireAuth)
		journal.Get("/", h.Journal.List)
		journal.Post("/", h.Journal.Create)
		journal.Get("/{entry_id}", h.Journal.Get)
		journal.Put("/{entry_id}", h.Journal.Update)
		journal.Delete("/{entry_id}", h.Journal.Delete)
	})

	r.Route("/tarot", func(tarot chi.Router) {
		tarot.Get("/cards", h.Tarot.Cards)
		tarot.With(authMiddleware.RequireAuth).Post("/draw", h.Tarot.Draw)
		tarot.With(authMiddleware.RequireAuth).Get("/history", h.Tarot.History)
	})

	r.Route("/subscription", func(sub chi.Router) {
		sub.With(authMiddleware.RequireAuth).Get("/status", h.Subscription.Status)
		sub.With(authMiddleware.RequireAuth).Post("/restore", h.Subscription.Restore)
		// RevenueCat calls this server-to-server.
		sub.Post("/webhook", h.Subscription.Webhook)
	})

	r.Route("/moon", func(moon chi.Router) {
		moon.Get("/current", h.Moon.Current)
		moon.Get("/date/{year}/{month}/{day}", h.Moon.ForDate)
		moon.Get("/calendar/{year}/{month}", h.Moon.Calendar)
		moon.Get("/upcoming", h.Moon.Upcoming)
	})

	r.With(authMiddleware.RequireAuth).Get("/numerology/daily", h.Numerology.Daily)

	return r
}
