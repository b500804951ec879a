package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"ecobin-backend/pkg/utils"
)

// ClientCounter reports connected realtime clients
type ClientCounter interface {
	GetClientCount() int
}

// Health handles GET /health
func Health(db *sqlx.DB, storeMode string, clients ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		database := "ok"
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			database = "unavailable"
			status = http.StatusServiceUnavailable
		}

		utils.JSON(w, status, map[string]interface{}{
			"status":            map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
			"store_mode":        storeMode,
			"database":          database,
			"websocket_clients": clients.GetClientCount(),
			"timestamp":         time.Now().UTC().Format(time.RFC3339),
		})
	}
}
