package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/security"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
)

const (
	ContextToken  = "context_token"
	ContextUserID = "userID"
)

// ContextSetToken stores the verified token payload and its user ID.
func ContextSetToken(c *gin.Context, payload *security.Payload) *gin.Context {
	c.Set(ContextToken, payload)
	c.Set(ContextUserID, payload.UserID)
	return c
}

// ContextGetToken gets the token payload from the context
func ContextGetToken(c *gin.Context) *security.Payload {
	token, ok := c.Get(ContextToken)
	if !ok {
		panic("missing token value in context")
	}
	return token.(*security.Payload)
}

// ContextGetUserID returns the authenticated user's ID, or false when the
// request did not pass through AuthMiddleware.
func ContextGetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
