package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
)

const (
	ContextSessionID = "sessionID"
	HeaderSessionID  = "X-Session-ID"

	tokenTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

// AuthMiddleware resolves the session of a request. With a JWT secret
// configured the session is the token's subject, taken from the
// Authorization header or the token query parameter. Without one the
// X-Session-ID header or the session_id query parameter is trusted.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.AuthEnabled() {
			id := c.GetHeader(HeaderSessionID)
			if id == "" {
				id = c.Query("session_id")
			}
			c.Set(ContextSessionID, strings.TrimSpace(id))
			c.Next()
			return
		}

		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			httperr.Unauthorized(c, "missing_token", "Authentication token required.")
			c.Abort()
			return
		}

		sessionID, err := ParseSessionToken(cfg.JWTSecret, raw)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Authentication failed.")
			c.Abort()
			return
		}

		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// --------- JWT ---------

// IssueSessionToken signs a token whose subject is sessionID.
func IssueSessionToken(secret, sessionID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies raw and returns its subject.
func ParseSessionToken(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
