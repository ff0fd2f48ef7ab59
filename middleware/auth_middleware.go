package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// Auth gate messages
const (
	MessageAccessDenied = "Access Denied."
	MessageInvalidToken = "Invalid Token"
)

// TokenVerifier resolves a bearer token to the user it was issued for
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid token and stores the caller's
// user id in the request context.
//
// Accepted Authorization header forms:
//
//	Bearer <token>   (scheme is case-insensitive)
//	<token>          (a single value with no whitespace)
//
// A missing or blank header is answered with "Access Denied."; anything else
// that does not verify, including other schemes, with "Invalid Token".
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			m.logger.Debug("missing authorization header",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, MessageAccessDenied)
			return
		}

		token, ok := extractToken(header)
		if !ok {
			m.logger.Warn("unsupported authorization scheme",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, MessageInvalidToken)
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, MessageInvalidToken)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", userID.String()))

		next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
	})
}

// extractToken pulls the token out of a non-empty Authorization header value
func extractToken(header string) (string, bool) {
	fields := strings.Fields(header)
	switch len(fields) {
	case 1:
		return fields[0], true
	case 2:
		if strings.EqualFold(fields[0], "bearer") {
			return fields[1], true
		}
	}
	return "", false
}
