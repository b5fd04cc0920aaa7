package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/config"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
)

const ContextPrincipal = "principal"

// AuthMiddleware accepts HS256 bearer tokens issued by the auth provider.
// Only the subject is used; tenant access is decided per request.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token")
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			httperr.Unauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextPrincipal, access.Principal{Subject: sub})
		c.Next()
	}
}

// PrincipalFrom returns the principal set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) access.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Principal{}
}
