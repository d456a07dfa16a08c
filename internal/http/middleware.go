package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

const authContextKey = "auth_context"

// AuthContext is the per-request authorization context: the actor plus the
// capability set resolved fresh from the permission table. Nothing here is
// cached between requests or carried in the session token.
type AuthContext struct {
	Username     string
	Role         custody.Role
	Capabilities []custody.Capability
}

func (a AuthContext) Actor() usecase.Actor {
	return usecase.Actor{Username: a.Username, Role: a.Role}
}

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(token string) (username string, role custody.Role, err error)
}

func authMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "auth misconfigured"})
			return
		}
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "bearer token required"})
			return
		}
		username, role, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid session token"})
			return
		}
		c.Set(authContextKey, AuthContext{
			Username:     username,
			Role:         role,
			Capabilities: custody.CapabilitiesFor(role),
		})
		c.Next()
	}
}

func authContextFrom(c *gin.Context) (AuthContext, bool) {
	value, ok := c.Get(authContextKey)
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "auth context missing")
		return AuthContext{}, false
	}
	authCtx, ok := value.(AuthContext)
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "auth context invalid")
		return AuthContext{}, false
	}
	return authCtx, true
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
