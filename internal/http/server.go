// Package http exposes the custody service over a JSON API. Handlers stay
// thin: bind, call the service, map domain errors to status codes.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/infra/ratelimit"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

// TokenIssuer mints a session token for an authenticated user.
type TokenIssuer interface {
	Issue(user custody.User) (string, error)
}

// SessionTokens is what the server needs from the token layer.
type SessionTokens interface {
	TokenIssuer
	TokenVerifier
}

type Server struct {
	engine   *gin.Engine
	service  *usecase.CustodyService
	identity *usecase.IdentityService
	tokens   SessionTokens
	limiter  ratelimit.LoginLimiter
}

func NewServer(service *usecase.CustodyService, identity *usecase.IdentityService, tokens SessionTokens, limiter ratelimit.LoginLimiter) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		engine:   engine,
		service:  service,
		identity: identity,
		tokens:   tokens,
		limiter:  limiter,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/v1")
	v1.POST("/login", s.handleLogin)

	authed := v1.Group("", authMiddleware(s.tokens))
	authed.GET("/users/custody-eligible", s.handleListCustodyEligibleUsers)

	authed.POST("/evidence", s.handleCreateEvidence)
	authed.GET("/evidence", s.handleListEvidence)
	authed.GET("/evidence/:id", s.handleGetEvidence)
	authed.GET("/evidence/:id/content", s.handleGetContent)
	authed.POST("/evidence/:id/transfer", s.handleTransferEvidence)
	authed.POST("/evidence/:id/verify", s.handleVerifyIntegrity)
	authed.POST("/evidence/:id/seal", s.handleSealEvidence)
	authed.POST("/evidence/:id/content", s.handleUpdateContent)
	authed.DELETE("/evidence/:id", s.handleDeleteEvidence)
	authed.GET("/evidence/:id/log", s.handleCustodyLog)
	authed.GET("/evidence/:id/chain", s.handleAuditChain)

	authed.GET("/logs", s.handleAllLogs)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
