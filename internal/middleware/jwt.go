package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unify-api/internal/models"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ContextActorKey stores the acting user with its profiles.
	ContextActorKey = "currentActor"
)

// Authenticator validates access tokens and loads the acting user.
type Authenticator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
	ResolveActor(ctx context.Context, userID string) (*models.Actor, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		if err := authenticate(c, auth, token); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalJWT attaches the actor when a valid token is present but does not block.
func OptionalJWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			_ = authenticate(c, auth, token)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, auth Authenticator, token string) error {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return err
	}
	actor, err := auth.ResolveActor(c.Request.Context(), claims.UserID)
	if err != nil {
		return err
	}
	c.Set(ContextUserKey, claims)
	c.Set(ContextActorKey, actor)
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(c *gin.Context) *models.Actor {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil
	}
	actor, _ := value.(*models.Actor)
	return actor
}
