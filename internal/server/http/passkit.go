package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/park-keeper/internal/errs"
	"github.com/and161185/park-keeper/internal/service"
)

// passToken extracts the authentication token from the PassKit
// "Authorization: ApplePass <token>" header.
func passToken(c *gin.Context) string {
	const scheme = "ApplePass "
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, scheme) {
		return ""
	}
	return strings.TrimPrefix(h, scheme)
}

// handleRegister subscribes a device for push updates on one pass.
func (s *Server) handleRegister(c *gin.Context) {
	serial := c.Param("serialNumber")
	if s.regs.Authorize(c.Request.Context(), serial, passToken(c)) == service.AuthDenied {
		c.JSON(http.StatusUnauthorized, gin.H{})
		return
	}

	var body struct {
		PushToken string `json:"pushToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{})
		return
	}

	device := c.Param("deviceLibraryIdentifier")
	if err := s.regs.Register(c.Request.Context(), device, serial, body.PushToken); err != nil {
		s.log.Error("register device", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	c.JSON(http.StatusCreated, gin.H{})
}

// handleUnregister removes a device subscription.
func (s *Server) handleUnregister(c *gin.Context) {
	serial := c.Param("serialNumber")
	if s.regs.Authorize(c.Request.Context(), serial, passToken(c)) == service.AuthDenied {
		c.JSON(http.StatusUnauthorized, gin.H{})
		return
	}

	device := c.Param("deviceLibraryIdentifier")
	if err := s.regs.Unregister(c.Request.Context(), device, serial); err != nil {
		s.log.Error("unregister device", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// handleSerials answers the device's updated-serials poll. Incremental
// tracking is not kept, so the list is always empty and Wallet pulls each
// pushed pass individually.
func (s *Server) handleSerials(c *gin.Context) {
	serials, err := s.regs.Serials(c.Request.Context(), c.Param("deviceLibraryIdentifier"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serialNumbers": serials,
		"lastUpdated":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCurrentPass serves the pull path: the pass rebuilt from the latest
// recorded spot.
func (s *Server) handleCurrentPass(c *gin.Context) {
	serial := c.Param("serialNumber")

	switch s.regs.Authorize(c.Request.Context(), serial, passToken(c)) {
	case service.AuthDenied:
		c.JSON(http.StatusUnauthorized, gin.H{})
		return
	case service.AuthUnknown:
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}

	pass, mediaType, err := s.passes.CurrentApplePass(c.Request.Context(), serial)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrBadSerial), errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{})
		return
	default:
		s.log.Error("rebuild pass", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}

	c.Header("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, mediaType, pass)
}
