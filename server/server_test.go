package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coinTossServer/match"
	"coinTossServer/state"
	"coinTossServer/ws"

	"gotest.tools/assert"
)

func TestHandlerRoutes(t *testing.T) {
	svc := match.NewService(match.Defaults{}, state.NewMatchHistory(5))
	h := Handler(svc, ws.NewHub(svc))

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/index.html", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/match/defaults", http.StatusOK},
		// a plain GET is not a websocket handshake
		{http.MethodGet, "/ws", http.StatusBadRequest},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, rec.Code, tc.status)
		})
	}
}

func TestIndexIsHTML(t *testing.T) {
	svc := match.NewService(match.Defaults{}, nil)
	rec := httptest.NewRecorder()
	Handler(svc, ws.NewHub(svc)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Assert(t, strings.Contains(rec.Body.String(), "Coin Toss Waiting Game"))
}
