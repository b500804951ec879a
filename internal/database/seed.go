package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"ecobin-backend/internal/models"
)

// SeedPassword is the password given to every sample account
const SeedPassword = "password123"

// Seed fills empty tables with the sample dashboard data
func Seed(ctx context.Context, db *sqlx.DB) error {
	if err := SeedUsers(ctx, db); err != nil {
		return err
	}
	return SeedNotifications(ctx, db)
}

func SeedUsers(ctx context.Context, db *sqlx.DB) error {
	store := NewUserStore(db)

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("✓ Users already seeded, skipping...")
		return nil
	}

	log.Info().Msg("🌱 Seeding sample users...")

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []struct{ name, email, role string }{
		{"Josh Canillas", "josh.canillas@ecobin.com", models.RoleAdmin},
		{"Mike Wilson", "mike.wilson@ecobin.com", models.RoleStaff},
		{"Sarah Johnson", "sarah.johnson@ecobin.com", models.RoleStaff},
		{"David Brown", "david.brown@ecobin.com", models.RoleStaff},
		{"Lisa Garcia", "lisa.garcia@ecobin.com", models.RoleStaff},
	}

	now := time.Now().UTC().Truncate(time.Second)
	for _, u := range users {
		user := models.User{
			ID:        uuid.New().String(),
			Username:  u.name,
			Email:     u.email,
			Password:  string(hash),
			Role:      u.role,
			CreatedAt: now,
		}
		if err := store.Create(ctx, user); err != nil {
			return err
		}
		log.Info().Str("email", user.Email).Str("role", user.Role).Msg("  ✓ Created user")
	}

	log.Info().Int("users", len(users)).Msg("✓ Successfully seeded sample users (password: " + SeedPassword + ")")
	return nil
}

func SeedNotifications(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications"); err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("✓ Notifications already seeded, skipping...")
		return nil
	}

	samples := []struct{ title, message, kind, binID string }{
		{"Bin Overflow Alert", "Bin #003 at Shopping Mall has reached 85% capacity and needs immediate attention.", models.NotificationWarning, "bin3"},
		{"Collection Completed", "Successful collection from Bin #001 at Downtown Plaza. Weight: 45.2kg", models.NotificationSuccess, "bin1"},
		{"Sensor Maintenance Required", "Bin #004 at University Campus requires sensor maintenance due to connectivity issues.", models.NotificationError, "bin4"},
		{"New Installation", "New bin #005 has been successfully installed at Residential Area and is now active.", models.NotificationInfo, "bin5"},
	}

	store := NewNotificationStore(db)
	base := time.Now().UTC().Truncate(time.Second)
	for i, s := range samples {
		binID := s.binID
		n := models.Notification{
			ID:        uuid.New().String(),
			Title:     s.title,
			Message:   s.message,
			Type:      s.kind,
			BinID:     &binID,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
		if err := store.Create(ctx, n); err != nil {
			return err
		}
	}

	log.Info().Int("notifications", len(samples)).Msg("✅ Sample notifications inserted")
	return nil
}
