// Package server wires storage, the match service, the JSON API, the
// dashboard hub and the dashboard page into one HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"coinTossServer/api"
	"coinTossServer/config"
	"coinTossServer/db"
	"coinTossServer/match"
	"coinTossServer/state"
	"coinTossServer/web"
	"coinTossServer/ws"

	log "github.com/sirupsen/logrus"
	"goji.io/pat"
)

const shutdownTimeout = 10 * time.Second

// Handler builds the full route table around svc and hub.
func Handler(svc *match.Service, hub *ws.Hub) http.Handler {
	s := api.New(svc)
	s.HandleFunc(pat.Get("/ws"), hub.HandleWS)
	s.HandleFunc(pat.Get("/"), web.HandleIndex)
	s.HandleFunc(pat.Get("/index.html"), web.HandleIndex)
	return s
}

// Run serves until ctx is done, then shuts the server down gracefully.
// Storage that fails to initialize is logged and skipped.
func Run(ctx context.Context, settings config.Settings) error {
	if err := db.InitPostgres(settings.DatabaseURL); err != nil {
		log.Warnf("⚠️  PostgreSQL initialization failed: %v", err)
		log.Warn("   Match commitments will not survive a restart")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(settings.RedisURL, settings.RedisPassword, settings.RedisDB); err != nil {
		log.Warnf("⚠️  Redis initialization failed: %v", err)
		log.Warn("   Match commitments will only be cached in memory")
	}
	defer db.CloseRedis()

	svc := match.NewService(match.DefaultsFrom(settings), state.NewMatchHistory(config.MaxMatchHistory))
	hub := ws.NewHub(svc)
	svc.OnPlayed(hub.PublishMatch)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           Handler(svc, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infof("🚀 Server starting on %s", settings.Addr())
	log.Info("📡 WebSocket: /ws (start, subscribe 'matches')")
	log.Info("🔌 API: POST /api/match, GET /api/match/defaults, GET /api/verify/:matchId, POST /api/verify, GET /api/health")
	log.Info("🖥️  Dashboard: /")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server...")
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
