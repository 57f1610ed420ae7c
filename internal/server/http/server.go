// Package httpserver exposes the scan page, the wallet pass endpoints and the
// Apple PassKit web-service callbacks.
package httpserver

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/park-keeper/internal/limiter"
	"github.com/and161185/park-keeper/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	claims service.ClaimService
	spots  service.SpotService
	passes service.PassService
	regs   service.RegistrationService
	lim    limiter.Limiter // nil disables scan throttling
	log    *zap.Logger
	assets string
}

// New constructs the HTTP server with injected services.
func New(claims service.ClaimService, spots service.SpotService, passes service.PassService,
	regs service.RegistrationService, lim limiter.Limiter, log *zap.Logger, assetsDir string) *Server {
	return &Server{claims: claims, spots: spots, passes: passes, regs: regs, lim: lim, log: log, assets: assetsDir}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router(allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))
	if allowedOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{allowedOrigin},
			AllowMethods: []string{"GET", "POST", "DELETE"},
			AllowHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/floor", s.handleScan)
	r.POST("/wallet/apple/create", s.handleAppleCreate)

	v1 := r.Group("/applepass/v1")
	{
		v1.POST("/devices/:deviceLibraryIdentifier/registrations/:passTypeId/:serialNumber", s.handleRegister)
		v1.DELETE("/devices/:deviceLibraryIdentifier/registrations/:passTypeId/:serialNumber", s.handleUnregister)
		v1.GET("/devices/:deviceLibraryIdentifier/registrations/:passTypeId", s.handleSerials)
		v1.GET("/passes/:passTypeId/:serialNumber", s.handleCurrentPass)
	}

	if s.assets != "" {
		r.StaticFile("/logo.png", filepath.Join(s.assets, "logo.png"))
	}
	return r
}
