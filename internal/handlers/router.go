package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecobin-backend/internal/database"
	"ecobin-backend/internal/middleware"
	"ecobin-backend/internal/models"
	"ecobin-backend/internal/services"
	"ecobin-backend/internal/websocket"
)

// RouterConfig carries the long-lived dependencies shared by every handler
type RouterConfig struct {
	Activities    *services.ActivityService
	Notifications *services.NotificationService
	Users         *database.UserStore
	DB            *sqlx.DB
	Hub           *websocket.Hub
	JWTSecret     string
	StoreMode     string
	CORSOrigins   []string
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", Health(cfg.DB, cfg.StoreMode, cfg.Hub))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", websocket.HandleWebSocket(cfg.Hub))

	auth := middleware.Auth(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", ListActivities(cfg.Activities))
			r.Get("/stats/overview", GetActivityStats(cfg.Activities))
			r.Get("/{id}", GetActivity(cfg.Activities))
			r.Post("/", CreateActivity(cfg.Activities))
			r.Put("/{id}", UpdateActivity(cfg.Activities))
			r.Delete("/{id}", DeleteActivity(cfg.Activities))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", ListNotifications(cfg.Notifications))
			r.Get("/count/unread", GetUnreadCount(cfg.Notifications))
			r.Put("/mark-all-read", MarkAllNotificationsRead(cfg.Notifications))
			r.Get("/{id}", GetNotification(cfg.Notifications))
			r.Post("/", CreateNotification(cfg.Notifications))
			r.Put("/{id}/read", MarkNotificationRead(cfg.Notifications))
			r.Delete("/{id}", DeleteNotification(cfg.Notifications))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", Register(cfg.Users))
			r.Post("/login", Login(cfg.Users, cfg.JWTSecret))

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", Me(cfg.Users))
				r.Put("/change-password", ChangePassword(cfg.Users))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", ListUsers(cfg.Users))
			r.Get("/count", CountUsers(cfg.Users))
			r.Get("/{id}", GetUser(cfg.Users))

			r.With(auth).Put("/{id}", UpdateUser(cfg.Users))

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/", CreateUser(cfg.Users))
				r.Delete("/{id}", DeleteUser(cfg.Users))
			})
		})
	})

	return r
}
