// Package identity carries the authenticated caller through the gin context.
package identity

import (
	"github.com/gin-gonic/gin"

	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/auth"
)

const contextKey = "auth.identity"

// Set stores the authenticated identity on the request context.
func Set(c *gin.Context, id auth.Identity) {
	c.Set(contextKey, id)
}

// FromContext returns the identity placed by the auth middleware. Handlers
// behind the middleware can rely on it being present; the zero value is
// returned otherwise.
func FromContext(c *gin.Context) auth.Identity {
	v, ok := c.Get(contextKey)
	if !ok {
		return auth.Identity{}
	}
	id, _ := v.(auth.Identity)
	return id
}
