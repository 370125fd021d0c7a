package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/service/auth"
	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/httputil"
)

const actorKey = "actor"

type AuthMiddleware struct {
	auth *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{auth: authService}
}

// Authenticate resolves the bearer token and stores the actor in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, errors.Unauthenticated("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.RespondWithError(c, errors.Unauthenticated("invalid authorization format"))
			c.Abort()
			return
		}

		actor, err := m.auth.VerifyToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects authenticated callers outside the allowed roles.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, errors.Forbidden(""))
		c.Abort()
	}
}

// ActorFromContext returns the authenticated actor, or a zero Actor when
// the request did not pass Authenticate.
func ActorFromContext(c *gin.Context) model.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Actor{}
}
