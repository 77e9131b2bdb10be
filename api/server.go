package api

import (
	"encoding/json"
	"net/http"

	"coinTossServer/config"
	"coinTossServer/match"

	"goji.io"
	"goji.io/pat"
)

// Server is an http.Handler that serves the coin toss JSON API.
type Server struct {
	*goji.Mux
	matches *match.Service
}

// New creates a Server backed by svc.
func New(svc *match.Service) *Server {
	s := &Server{
		Mux:     goji.NewMux(),
		matches: svc,
	}
	s.Use(corsMiddleware)

	s.HandleFunc(pat.Post("/api/match"), s.handlePlayMatch)
	s.HandleFunc(pat.Get("/api/match/defaults"), s.handleDefaults)
	s.HandleFunc(pat.Get("/api/verify/:matchId"), s.handleGetCommitment)
	s.HandleFunc(pat.Post("/api/verify"), s.handleVerify)
	s.HandleFunc(pat.Get("/api/health"), HandleHealthCheck)
	return s
}

/* =========================
   HELPER FUNCTIONS
========================= */

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// sendError sends an error response
func sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   message,
	})
}

func sendJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = config.AllowOrigin
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		// Handle preflight OPTIONS request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
