package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unify-api/internal/middleware"
	"github.com/noah-isme/unify-api/internal/models"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/response"
)

// requireActor writes a 401 and returns false when no actor is attached.
func requireActor(c *gin.Context) (*models.Actor, bool) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return actor, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Invalid(err, message))
		return false
	}
	return true
}
