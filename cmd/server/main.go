package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/activitystore"
	"ecobin-backend/internal/config"
	"ecobin-backend/internal/database"
	"ecobin-backend/internal/events"
	"ecobin-backend/internal/handlers"
	"ecobin-backend/internal/logger"
	"ecobin-backend/internal/services"
	"ecobin-backend/internal/websocket"
)

const (
	banner          = "═══════════════════════════════════════════════════════════════════"
	divider         = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ FATAL ERROR: Failed to load configuration")
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal().Err(err).Msg("❌ FATAL ERROR: Invalid logging configuration")
	}

	log.Info().Msg(banner)
	log.Info().Msg("🚀 ECOBIN BACKEND SERVER STARTING")
	log.Info().Msg(banner)

	if err := cfg.Validate(); err != nil {
		fatal("Invalid configuration", err)
	}
	log.Info().Str("store_mode", cfg.StoreMode).Str("database", cfg.Database.Driver).Msg("✅ Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	log.Info().Msg("🔌 Connecting to database...")
	db, err := database.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		fatal("Database connection failed", err,
			"This is usually caused by:",
			"1. Wrong DATABASE_URL format",
			"2. PostgreSQL service is down",
			"3. Invalid credentials",
		)
	}
	defer db.Close()
	log.Info().Msg("✅ Database connection established")

	log.Info().Msg("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		fatal("Database migrations failed", err)
	}
	log.Info().Msg("✅ Database migrations completed")

	if cfg.Database.Seed {
		log.Info().Msg("🌱 Seeding database with initial data...")
		if err := database.Seed(ctx, db); err != nil {
			fatal("Database seeding failed", err)
		}
		log.Info().Msg("✅ Database seeded")
	}

	// Firebase: Firestore is the primary activity store, FCM pushes notifications
	fallback := activitystore.NewFallbackStore()
	var primary activitystore.Store = fallback
	var pusher services.Pusher

	if cfg.Firebase.Enabled() {
		app, err := services.NewFirebaseApp(ctx, services.FirebaseCredentials{
			Base64:    cfg.Firebase.CredentialsBase64,
			File:      cfg.Firebase.CredentialsFile,
			ProjectID: cfg.Firebase.ProjectID,
		})
		if err != nil {
			if cfg.StoreMode == config.StoreModeFirestore {
				fatal("Firebase initialization failed", err)
			}
			log.Warn().Err(err).Msg("⚠️  Firebase unavailable (push notifications disabled)")
		} else {
			log.Info().Msg("✅ Firebase app initialized")

			if cfg.StoreMode == config.StoreModeFirestore {
				client, err := app.Firestore(ctx)
				if err != nil {
					fatal("Firestore client failed", err)
				}
				defer client.Close()
				primary = activitystore.NewFirestoreStore(client, cfg.Firebase.Collection)
				log.Info().Str("collection", cfg.Firebase.Collection).Msg("✅ Firestore activity store ready")
			}

			fcm, err := services.NewFCMService(ctx, app, cfg.Firebase.FCMTopic)
			if err != nil {
				log.Warn().Err(err).Msg("⚠️  Failed to initialize FCM (push notifications disabled)")
			} else {
				pusher = fcm
				log.Info().Str("topic", cfg.Firebase.FCMTopic).Msg("✅ Firebase Cloud Messaging initialized")
			}
		}
	}

	if primary == activitystore.Store(fallback) {
		log.Warn().Msg("⚠️  Serving activities from the read-only fallback dataset")
	}

	// Realtime
	hub := websocket.NewHub()
	go hub.Run(ctx)
	log.Info().Msg("✅ WebSocket hub started")

	publisher := events.Fanout{hub}
	if cfg.Kafka.Enabled() {
		kafka := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafka.Close()
		publisher = append(publisher, kafka)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("✅ Mirroring events to Kafka")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Activities:    services.NewActivityService(primary, fallback, publisher),
		Notifications: services.NewNotificationService(database.NewNotificationStore(db), publisher, pusher),
		Users:         database.NewUserStore(db),
		DB:            db,
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
		StoreMode:     cfg.StoreMode,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msg(banner)
	log.Info().Msg("✅ ALL INITIALIZATION COMPLETE")
	log.Info().Msgf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Info().Msg("🔌 Ready to accept requests!")
	log.Info().Msg(banner)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed to start", err, "Port: "+cfg.Port)
		}
	case <-ctx.Done():
		log.Info().Msg("🛑 Shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Graceful shutdown failed")
	}
	log.Info().Msg("👋 Server stopped")
}

// fatal prints the failure block and exits
func fatal(what string, err error, hints ...string) {
	log.Error().Msg(divider)
	log.Error().Err(err).Msg("❌ FATAL ERROR: " + what)
	for _, hint := range hints {
		log.Error().Msg("   " + hint)
	}
	log.Error().Msg(divider)
	os.Exit(1)
}
