package api

import (
	"net/http"

	"coinTossServer/db"
)

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

// HandleHealthCheck handles health check requests
// GET /api/health
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check Redis
	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	// Check PostgreSQL
	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, map[string]interface{}{
		"success":  true,
		"redis":    redisHealth,
		"postgres": postgresHealth,
		"message":  "Health check completed",
	})
}
