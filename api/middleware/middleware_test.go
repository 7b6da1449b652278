package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/models"
)

type stubGate struct {
	ok        bool
	email     string
	refreshes int
}

func (g *stubGate) RefreshIfNeeded(context.Context) bool {
	g.refreshes++
	return g.ok
}

func (g *stubGate) CurrentEmail() string { return g.email }

type stubFinder map[string]models.Idea

func (f stubFinder) Find(id string) (models.Idea, bool) {
	idea, ok := f[id]
	return idea, ok
}

func okHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := EmailFromContext(r.Context()); got != wantEmail {
			t.Errorf("expected email %q in context, got %q", wantEmail, got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireSessionRejectsWhenRefreshFails(t *testing.T) {
	gate := &stubGate{ok: false, email: "a@x.com"}
	h := RequireSession(gate, logger.Nop())(okHandler(t, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 1, gate.refreshes)
}

func TestRequireSessionSeedsEmail(t *testing.T) {
	gate := &stubGate{ok: true, email: "a@x.com"}
	h := RequireSession(gate, logger.Nop())(okHandler(t, "a@x.com"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ideas", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireOwner(t *testing.T) {
	finder := stubFinder{"mine": {ID: "mine", Email: "a@x.com"}, "theirs": {ID: "theirs", Email: "b@x.com"}}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithEmail(req.Context(), "a@x.com")))
		})
	})
	r.With(RequireOwner(finder, logger.Nop())).Delete("/ideas/{id}", okHandler(t, "a@x.com").ServeHTTP)

	cases := map[string]int{
		"mine":    http.StatusNoContent,
		"theirs":  http.StatusForbidden,
		"missing": http.StatusNoContent,
	}
	for id, want := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ideas/"+id, nil))
		assert.Equal(t, want, rec.Code, id)
	}
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	h := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestLoggingRecordsImplicitStatus(t *testing.T) {
	h := Logging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
