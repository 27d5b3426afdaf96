package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/logger"
)

const (
	CtxUserIDKey   = logger.CtxUserIDKey
	CtxUsernameKey = "username"
	CtxRoleKey     = "rol"
)

// Authorizer maps a token principal to the current state of its account.
type Authorizer interface {
	Authorize(ctx context.Context, p Principal) (Principal, error)
}

// RequireAuth validates "Authorization: Bearer <token>" and stores the
// principal in the gin context. With a non-nil users the principal is
// re-checked against the account on every request.
func RequireAuth(tokens *Tokens, users Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			apierr.Respond(c, apierr.Unauthenticated("Token de acceso requerido"))
			return
		}

		p, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				apierr.Respond(c, apierr.Unauthenticated("Token expirado"))
				return
			}
			apierr.Respond(c, apierr.Unauthenticated("Token inválido"))
			return
		}
		if users != nil {
			if p, err = users.Authorize(c.Request.Context(), p); err != nil {
				apierr.Respond(c, err)
				return
			}
		}

		c.Set(CtxUserIDKey, p.ID)
		c.Set(CtxUsernameKey, p.Username)
		c.Set(CtxRoleKey, p.Role)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := CurrentUser(c)
		if !ok {
			apierr.Respond(c, apierr.Unauthenticated("No autenticado"))
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			apierr.Respond(c, apierr.Forbidden("Acceso denegado. Rol insuficiente."))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (Principal, bool) {
	id, ok := c.Get(CtxUserIDKey)
	if !ok {
		return Principal{}, false
	}
	uid, ok := id.(uint64)
	if !ok {
		return Principal{}, false
	}
	return Principal{ID: uid, Username: c.GetString(CtxUsernameKey), Role: c.GetString(CtxRoleKey)}, true
}
