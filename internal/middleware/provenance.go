package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/roadfy/roadfy-api/internal/models"
)

// RequestContextFrom extracts request provenance for governance writes.
// Handlers pass this explicitly into services so nothing below the HTTP layer
// reads ambient request state.
func RequestContextFrom(c *gin.Context) models.RequestContext {
	if c == nil || c.Request == nil {
		return models.RequestContext{}
	}
	return models.RequestContext{
		SourceIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// ActorFrom returns the authenticated actor, or the zero Actor when the
// request is anonymous.
func ActorFrom(c *gin.Context) models.Actor {
	claimsValue, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Actor{}
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	if !ok {
		return models.Actor{}
	}
	return models.Actor{ID: claims.UserID, Email: claims.Email}
}

// RoleFrom returns the authenticated role, or empty when anonymous.
func RoleFrom(c *gin.Context) models.UserRole {
	claimsValue, exists := c.Get(ContextUserKey)
	if !exists {
		return ""
	}
	claims, ok := claimsValue.(*models.JWTClaims)
	if !ok {
		return ""
	}
	return claims.Role
}
