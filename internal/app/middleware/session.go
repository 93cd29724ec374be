package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/heurekka/heurekka/internal/domain/dto"
)

// SessionHeader carries the anonymous session ID in both directions
const SessionHeader = "X-Session-ID"

// SessionContextKey is the gin context key holding the *dto.UserSession
const SessionContextKey = "user_session"

// SessionStore is the slice of the cache service the middleware needs
type SessionStore interface {
	GetUserSession(ctx context.Context, sessionID string) (*dto.UserSession, bool)
	SetUserSession(ctx context.Context, sessionID string, session *dto.UserSession, ttl time.Duration)
}

// Session tracks anonymous visitors: it resolves the session named by the
// request header, creates one when absent or expired, and slides its expiry
// on every request. Session state is cache-backed and best-effort.
func Session(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		ctx := c.Request.Context()

		sessionID := c.GetHeader(SessionHeader)
		var session *dto.UserSession
		if sessionID != "" {
			session, _ = store.GetUserSession(ctx, sessionID)
		}
		if session == nil {
			sessionID = uuid.NewString()
			session = &dto.UserSession{ID: sessionID, CreatedAt: now}
		}
		session.LastSeenAt = now
		store.SetUserSession(ctx, sessionID, session, 0)

		c.Set(SessionContextKey, session)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSession retrieves the visitor session from gin context
func GetSession(c *gin.Context) *dto.UserSession {
	if value, exists := c.Get(SessionContextKey); exists {
		if session, ok := value.(*dto.UserSession); ok {
			return session
		}
	}
	return nil
}
