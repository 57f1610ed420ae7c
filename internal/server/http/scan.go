package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/park-keeper/internal/limiter"
	"github.com/and161185/park-keeper/internal/model"
	"github.com/and161185/park-keeper/internal/wallet"
)

const sessionCookie = "uid"

// sessionCookieMaxAge keeps the anonymous session on the device for a year.
const sessionCookieMaxAge = 365 * 24 * 60 * 60

// handleScan is the NFC entry point. Signature check first, throttling only
// on invalid claims, then spot recording and per-platform wallet sync.
func (s *Server) handleScan(c *gin.Context) {
	ipHash := limiter.HashIP(c.ClientIP())

	claim := model.TagClaim{
		Garage:    c.Query("garage"),
		Floor:     c.Query("floor"),
		Stair:     c.Query("stair"),
		TagID:     c.Query("tagId"),
		Signature: c.Query("signature"),
	}

	if s.lim != nil {
		ok, retry, err := s.lim.Allow(c.Request.Context(), claim.Garage, ipHash)
		if err != nil {
			// fail open: throttling is protection, not a gate
			s.log.Warn("scan limiter unavailable", zap.Error(err))
		} else if !ok {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
			c.Data(http.StatusTooManyRequests, "text/html; charset=utf-8",
				[]byte("<h1>Too many attempts, try again later</h1>"))
			return
		}
	}

	if !s.claims.Verify(claim) {
		if s.lim != nil {
			if _, _, err := s.lim.Failure(c.Request.Context(), claim.Garage, ipHash); err != nil {
				s.log.Warn("scan limiter failure not recorded", zap.Error(err))
			}
		}
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte("<h1>Unrecognized or tampered tag</h1>"))
		return
	}

	sessionID := s.sessionID(c)

	user, spot, err := s.spots.Record(c.Request.Context(), sessionID, claim.Garage, claim.Floor, claim.Stair)
	if err != nil {
		s.log.Error("record spot", zap.Error(err))
		c.String(http.StatusInternalServerError, "storage unavailable")
		return
	}

	platform := model.PlatformForUserAgent(c.GetHeader("User-Agent"))
	sync, err := s.passes.SyncOnScan(c.Request.Context(), user, spot, platform)
	if err != nil {
		s.log.Error("wallet sync", zap.Error(err))
		c.String(http.StatusInternalServerError, "wallet sync failed")
		return
	}

	if s.lim != nil {
		if err := s.lim.Success(c.Request.Context(), claim.Garage, ipHash); err != nil {
			s.log.Warn("scan limiter reset failed", zap.Error(err))
		}
	}

	android := platform == model.PlatformGoogle
	view := scanView{
		UID:         sessionID.String(),
		Garage:      claim.Garage,
		Floor:       claim.Floor,
		Stair:       claim.Stair,
		MapsURL:     mapsURL(android, claim.Floor, claim.Stair),
		Android:     android,
		NeedsApple:  sync.NeedsApple,
		NeedsGoogle: sync.NeedsGoogle,
		SaveURL:     sync.GoogleSaveURL,
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := scanPage.Execute(c.Writer, view); err != nil {
		s.log.Error("render scan page", zap.Error(err))
	}
}

// sessionID reads the uid cookie, minting and setting a fresh one when the
// device arrives without it. The cookie is readable by page scripts on
// purpose, matching how the create form echoes it back.
func (s *Server) sessionID(c *gin.Context) uuid.UUID {
	if raw, err := c.Cookie(sessionCookie); err == nil {
		if id, err := uuid.FromString(raw); err == nil {
			return id
		}
	}
	id := uuid.Must(uuid.NewV4())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id.String(), sessionCookieMaxAge, "/", "", true, false)
	return id
}

// mapsURL links the spot title into the maps app native to the platform.
func mapsURL(android bool, floor, stair string) string {
	title := "Parked — Floor " + floor
	if stair != "" {
		title += " • " + stair
	}
	host := "https://maps.apple.com/?q="
	if android {
		host = "https://maps.google.com/?q="
	}
	return host + url.QueryEscape(title)
}

// handleAppleCreate serves the on-demand .pkpass download from the wallet
// form on the scan page.
func (s *Server) handleAppleCreate(c *gin.Context) {
	rawUID := c.PostForm("uid")
	garage := c.PostForm("garage")
	if rawUID == "" || garage == "" {
		c.String(http.StatusBadRequest, "Missing")
		return
	}
	sessionID, err := uuid.FromString(rawUID)
	if err != nil {
		c.String(http.StatusBadRequest, "Missing")
		return
	}

	pass, _, err := s.passes.CreateApplePass(c.Request.Context(),
		sessionID, garage, c.PostForm("floor"), c.PostForm("stair"))
	if err != nil {
		s.log.Error("create apple pass", zap.Error(err))
		c.String(http.StatusInternalServerError, "pass build failed")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=parking.pkpass")
	c.Header("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, wallet.ApplePassMediaType, pass)
}
