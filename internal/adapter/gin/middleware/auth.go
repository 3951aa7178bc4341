package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ivanildsdev/myrecipebook/internal/auth"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
	"github.com/Ivanildsdev/myrecipebook/pkg/i18n"
)

// AccessTokenValidator verifies a token and returns the user identifier it
// carries.
type AccessTokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// unauthorizedResponse is the body sent for every rejected protected
// request. TokenIsExpired is the one hint a client may act on (re-login)
// instead of treating the rejection as final.
type unauthorizedResponse struct {
	Errors         []string `json:"errors"`
	TokenIsExpired bool     `json:"tokenIsExpired"`
}

// AuthenticatedUser is the authorization gate guarding every protected
// route: it extracts the bearer token, validates it, confirms the referenced
// identity is still active and injects the resolved user into the request
// context. Every failure is answered with 401; anything unclassified
// degrades to the generic access-denied result, never leaking the raw error.
func AuthenticatedUser(tokens AccessTokenValidator, repo user.ReadRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenOnRequest(c)
		if err != nil {
			reject(c, apperrors.ErrNoToken)
			return
		}

		identifier, err := tokens.Validate(token)
		if err != nil {
			var authErr *apperrors.AuthorizationError
			if !errors.As(err, &authErr) {
				authErr = apperrors.ErrTokenInvalid
			}
			log.Debug("token rejected", zap.String("code", string(authErr.Code)))
			reject(c, authErr)
			return
		}

		logged, err := repo.FindActiveByIdentifier(c.Request.Context(), identifier)
		if err != nil {
			// Fail closed: a store failure must not let the request through
			// and must not leak past the gate.
			log.Error("failed to resolve authenticated user", zap.String("identifier", identifier.String()), zap.Error(err))
			reject(c, apperrors.ErrAccessDenied)
			return
		}
		if logged == nil {
			log.Warn("token references no active user", zap.String("identifier", identifier.String()))
			reject(c, apperrors.ErrAccessDenied)
			return
		}

		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), logged))
		c.Next()
	}
}

// tokenOnRequest extracts the bearer token from the Authorization header.
func tokenOnRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", apperrors.ErrNoToken
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), nil
}

func reject(c *gin.Context, authErr *apperrors.AuthorizationError) {
	locale := i18n.MatchLocale(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedResponse{
		Errors:         []string{i18n.Message(locale, authErr.Code)},
		TokenIsExpired: authErr.Expired(),
	})
}
