package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/20mouhcine/EmsiConnect/internal/infrastructure/auth"
	"github.com/20mouhcine/EmsiConnect/internal/pkg/chat/presentation/identity"
)

// AuthRequired verifies the bearer credential on REST requests and stores the
// resolved identity on the context. The token comes from the Authorization
// header, falling back to the "token" query parameter for parity with the
// websocket handshake. Fail-closed: no usable identity means 401, never an
// anonymous pass-through.
func AuthRequired(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		identity.Set(c, id)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}
