package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/user-service/internal/pkg/context"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderXRequestID))
}

func TestRequestID_ReusesInbound(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rr.Header().Get(HeaderXRequestID))
}

func TestRequestID_OversizedInboundReplaced(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", 200))
	rr := httptest.NewRecorder()
	RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

	assert.Len(t, rr.Header().Get(HeaderXRequestID), 36)
}

func TestRecover_PanicBecomes500(t *testing.T) {
	we := &writeErrRecorder{}
	h := Recover(we.fn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	require.Equal(t, 1, we.calls)
	assert.Equal(t, domain.KindInternal, domain.KindOf(we.last))
}

func TestRecover_NoPanicPassesThrough(t *testing.T) {
	we := &writeErrRecorder{}
	h := Recover(we.fn)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Zero(t, we.calls)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestStatusWriter_CapturesFirstStatusAndBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := newStatusWriter(rr)

	sw.WriteHeader(http.StatusCreated)
	sw.WriteHeader(http.StatusInternalServerError)
	_, _ = sw.Write([]byte("hello"))

	assert.Equal(t, http.StatusCreated, sw.status)
	assert.Equal(t, 5, sw.bytes)
	assert.Same(t, sw, newStatusWriter(sw))
}

func TestAccessLogAndMetrics_ChainServesResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestID, AccessLog, Metrics)
	r.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"id": 1})
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":1}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(HeaderXRequestID))
}
