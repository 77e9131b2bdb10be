package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestHandleIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	body := rec.Body.String()
	for _, want := range []string{`id="games"`, `id="endgame1"`, `id="endgame2"`, `id="start"`, `"/ws"`} {
		assert.Assert(t, strings.Contains(body, want), "missing %s", want)
	}
}
