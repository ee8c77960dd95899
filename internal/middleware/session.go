package middleware

import (
	"github.com/ananyabshetty/SQL-Detective-Game/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionCookie carries the anonymous player id between visits.
	SessionCookie = "detective_session"
	sessionMaxAge = 30 * 24 * 3600
	sessionCtxKey = "session_id"
)

// Session assigns every visitor a UUID cookie and records the session in
// MySQL off the request path. No login is involved; the id only ties queries
// and progress together.
func Session(attempts *repository.AttemptRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}

		c.Set(sessionCtxKey, sessionID)

		userAgent := c.GetHeader("User-Agent")
		go func() {
			if err := attempts.EnsureSession(sessionID, userAgent); err != nil {
				log.Warn("session log write failed", zap.Error(err))
			}
		}()

		c.Next()
	}
}

// SessionID returns the request's session UUID set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
