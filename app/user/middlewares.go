package user

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/app/api"
	"github.com/joefazee/globeguide/internal/security"
)

// AuthMiddleware accepts requests carrying a valid, unrevoked bearer token.
func AuthMiddleware(tokenMaker security.Maker, authService AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", AuthorizationHeaderKey)

		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || fields[0] != AuthorizationTypeBearer {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil || payload.Scope != security.TokenScopeAccess {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		revoked, err := authService.IsRevoked(c.Request.Context(), payload.ID)
		if err != nil {
			_ = c.Error(err)
			api.InternalErrorResponse(c, "Could not verify token")
			c.Abort()
			return
		}
		if revoked {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		ContextSetToken(c, payload)
		c.Next()
	}
}
