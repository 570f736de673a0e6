package middleware

import (
	"context"
	"net/http"

	"staff-service/internal/domain/entity"
	"staff-service/pkg/jwt"
	"staff-service/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionCookie carries the token issued by the auth service
const SessionCookie = "token"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		log:        log,
	}
}

// Authenticate verifies the session cookie and puts the caller's Session in the context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			m.log.WithFields(RequestFields(r)).Warn("Missing session token")
			response.Unauthorized(w, "Unauthorized")
			return
		}

		claims, err := m.jwtService.ValidateToken(cookie.Value)
		if err != nil {
			m.log.WithFields(RequestFields(r)).Warnf("Invalid session token: %+v", err)
			response.Unauthorized(w, "Unauthorized")
			return
		}

		session := entity.Session{
			UserID: claims.UserID,
			Roles:  claims.Roles,
			Token:  cookie.Value,
		}
		ctx := WithSession(r.Context(), session)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext extracts the verified session from context
func GetSessionFromContext(ctx context.Context) (entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(entity.Session)
	return session, ok
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}
