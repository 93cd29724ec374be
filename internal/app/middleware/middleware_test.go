package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	limited bool
	calls   int
	lastID  string
}

func (s *stubLimiter) IsRateLimited(ctx context.Context, identifier string, limit int64, window time.Duration) bool {
	s.calls++
	s.lastID = identifier
	return s.limited
}

type stubSessionStore struct {
	sessions map[string]*dto.UserSession
	lastTTL  time.Duration
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*dto.UserSession)}
}

func (s *stubSessionStore) GetUserSession(ctx context.Context, sessionID string) (*dto.UserSession, bool) {
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *stubSessionStore) SetUserSession(ctx context.Context, sessionID string, session *dto.UserSession, ttl time.Duration) {
	s.sessions[sessionID] = session
	s.lastTTL = ttl
}

func runRequest(handler gin.HandlerFunc, headers map[string]string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var captured *gin.Context
	router.GET("/", handler, func(c *gin.Context) {
		captured = c
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, captured
}

func TestRateLimitAllows(t *testing.T) {
	limiter := &stubLimiter{}

	w, _ := runRequest(RateLimit(limiter, 100, time.Minute), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.calls)
	assert.NotEmpty(t, limiter.lastID)
}

func TestRateLimitRejects(t *testing.T) {
	limiter := &stubLimiter{limited: true}

	w, _ := runRequest(RateLimit(limiter, 100, time.Minute), nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSessionCreatesWhenAbsent(t *testing.T) {
	store := newStubSessionStore()

	w, c := runRequest(Session(store), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get(SessionHeader)
	require.NotEmpty(t, sessionID)
	require.Contains(t, store.sessions, sessionID)

	session := GetSession(c)
	require.NotNil(t, session)
	assert.Equal(t, sessionID, session.ID)
	assert.False(t, session.LastSeenAt.IsZero())
}

func TestSessionResumesExisting(t *testing.T) {
	store := newStubSessionStore()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.sessions["sess-1"] = &dto.UserSession{ID: "sess-1", CreatedAt: created}

	w, c := runRequest(Session(store), map[string]string{SessionHeader: "sess-1"})

	assert.Equal(t, "sess-1", w.Header().Get(SessionHeader))
	session := GetSession(c)
	require.NotNil(t, session)
	assert.Equal(t, created, session.CreatedAt)
	assert.True(t, session.LastSeenAt.After(created))
}

func TestSessionReplacesUnknownID(t *testing.T) {
	store := newStubSessionStore()

	w, _ := runRequest(Session(store), map[string]string{SessionHeader: "expired"})

	newID := w.Header().Get(SessionHeader)
	assert.NotEqual(t, "expired", newID)
	assert.Contains(t, store.sessions, newID)
}
