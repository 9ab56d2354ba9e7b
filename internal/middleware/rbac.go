package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
	appErrors "github.com/Kabre57/ParabellumGroups-sub000/pkg/errors"
	"github.com/Kabre57/ParabellumGroups-sub000/pkg/response"
)

// OverrideParam is the query parameter carrying an explicit visibility override.
const OverrideParam = "userIds"

// OverrideTargets returns every non-empty userIds value, from repeated parameters and
// comma separated lists alike. The guard, the audit and the handler all read it.
func OverrideTargets(c *gin.Context) []string {
	var targets []string
	for _, value := range c.QueryArray(OverrideParam) {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				targets = append(targets, part)
			}
		}
	}
	return targets
}

// RequireRoles restricts a route to the given roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// OverrideGuard decides whether the caller may name target users through userIds.
// The aggregation trusts whatever passes this guard.
func OverrideGuard(roles []string) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		if role := models.ParseRole(r); role != models.RoleUnknown {
			allowed[role] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		if len(OverrideTargets(c)) == 0 {
			c.Next()
			return
		}
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "userIds is not allowed for this role"))
			return
		}
		c.Next()
	}
}
