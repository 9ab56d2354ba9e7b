package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/logger"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/response"
)

// ContextActorKey is the gin context key storing the authenticated *models.Actor.
const ContextActorKey = "currentActor"

type tokenAuthenticator interface {
	Authenticate(token string) (*models.Actor, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(auth tokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		actor, err := auth.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Set(logger.ActorIDKey, actor.ID)
		c.Set(logger.ActorRoleKey, string(actor.Role))
		c.Next()
	}
}

// ActorFromContext returns the actor attached by JWT, if any.
func ActorFromContext(c *gin.Context) (*models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*models.Actor)
	if !ok || actor == nil {
		return nil, false
	}
	return actor, true
}
